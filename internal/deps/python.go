package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const probeTimeout = 30 * time.Second

// CheckPythonModule reports whether python can import module. Importing
// demucs pulls in torch, so the probe gets a generous timeout.
func CheckPythonModule(ctx context.Context, python, module, description string) Status {
	python = strings.TrimSpace(python)
	status := Status{
		Name:        module,
		Command:     python,
		Description: description,
	}
	if python == "" {
		status.Detail = "python interpreter not configured"
		return status
	}
	path, detail := resolve(python)
	if path == "" {
		status.Detail = detail
		return status
	}
	status.Path = path

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, path, "-c", "import "+module) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		status.Detail = fmt.Sprintf("import %s failed: %s", module, lastLine(string(output), err))
		return status
	}
	status.Available = true
	return status
}

func lastLine(output string, err error) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		return last
	}
	return err.Error()
}
