package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Tool is an external program a separation run shells out to.
type Tool struct {
	Name        string
	Command     string
	Description string
	// VersionArgs, when set, are passed to the resolved binary and the first
	// line it prints is recorded as the version.
	VersionArgs []string
	Optional    bool
}

// Status reports what was found for a tool or module.
type Status struct {
	Name        string
	Command     string
	Path        string
	Version     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// PythonTool describes the interpreter that hosts demucs.
func PythonTool(command string) Tool {
	return Tool{
		Name:        "Python",
		Command:     command,
		Description: "Runs the demucs separator",
		VersionArgs: []string{"--version"},
	}
}

// FFmpegTool describes the MP3 transcoder. It is optional when only WAV
// output is produced.
func FFmpegTool(command string, optional bool) Tool {
	return Tool{
		Name:        "FFmpeg",
		Command:     command,
		Description: "Required for MP3 output",
		VersionArgs: []string{"-version"},
		Optional:    optional,
	}
}

// ProbeTools resolves each tool on PATH and queries its version.
func ProbeTools(ctx context.Context, tools []Tool) []Status {
	results := make([]Status, 0, len(tools))
	for _, tool := range tools {
		results = append(results, probeTool(ctx, tool))
	}
	return results
}

func probeTool(ctx context.Context, tool Tool) Status {
	status := Status{
		Name:        tool.Name,
		Command:     strings.TrimSpace(tool.Command),
		Description: strings.TrimSpace(tool.Description),
		Optional:    tool.Optional,
	}
	path, detail := resolve(status.Command)
	if path == "" {
		status.Detail = detail
		return status
	}
	status.Path = path
	if len(tool.VersionArgs) == 0 {
		status.Available = true
		return status
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	output, err := exec.CommandContext(probeCtx, path, tool.VersionArgs...).CombinedOutput() //nolint:gosec
	if err != nil {
		status.Detail = fmt.Sprintf("version query failed: %s", lastLine(string(output), err))
		return status
	}
	status.Version = versionLine(string(output))
	status.Available = true
	return status
}

// resolve looks command up on PATH. On failure path is empty and detail
// says why.
func resolve(command string) (path, detail string) {
	if command == "" {
		return "", "command not configured"
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Sprintf("binary %q not found", command)
	}
	return path, ""
}

// versionLine returns the first non-empty line of output with any trailing
// copyright notice removed, so "ffmpeg version 6.1 Copyright (c) ..."
// becomes "ffmpeg version 6.1".
func versionLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if idx := strings.Index(line, " Copyright"); idx > 0 {
			line = line[:idx]
		}
		return line
	}
	return ""
}
