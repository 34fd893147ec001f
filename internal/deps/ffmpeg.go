package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CheckFFmpegEncoder reports whether ffmpeg lists the named audio encoder.
func CheckFFmpegEncoder(ctx context.Context, ffmpeg, encoder string, optional bool) Status {
	ffmpeg = strings.TrimSpace(ffmpeg)
	status := Status{
		Name:        encoder,
		Command:     ffmpeg,
		Description: "Required for MP3 output",
		Optional:    optional,
	}
	path, detail := resolve(ffmpeg)
	if path == "" {
		status.Detail = detail
		return status
	}
	status.Path = path

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	output, err := exec.CommandContext(probeCtx, path, "-hide_banner", "-encoders").Output() //nolint:gosec
	if err != nil {
		status.Detail = fmt.Sprintf("list encoders: %v", err)
		return status
	}
	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == encoder {
			status.Available = true
			return status
		}
	}
	status.Detail = fmt.Sprintf("ffmpeg built without %s", encoder)
	return status
}
