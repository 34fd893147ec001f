package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"stemsplit/internal/config"
	"stemsplit/internal/deps"
	"stemsplit/internal/device"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCreatableDirectory passes when path is an accessible directory or
// when its nearest existing ancestor would let a run create it.
func CheckCreatableDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(filepath.Clean(path))
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	ancestor := CheckDirectoryAccess(name, parent)
	if !ancestor.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s)", path, parent)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckSystemDeps evaluates the external tools used by a run with cfg.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	results := deps.ProbeTools(ctx, []deps.Tool{
		deps.PythonTool(cfg.PythonBinary()),
		deps.FFmpegTool(cfg.FFmpegBinary(), !cfg.Output.MP3),
	})
	results = append(results,
		deps.CheckPythonModule(ctx, cfg.PythonBinary(), "demucs.api", "Separation models"),
		deps.CheckFFmpegEncoder(ctx, cfg.FFmpegBinary(), "libmp3lame", !cfg.Output.MP3),
	)
	return results
}

// CheckDevice reports the device a run would use with cfg. It never fails:
// a missing accelerator only means the CPU is used.
func CheckDevice(ctx context.Context, cfg *config.Config, prober device.Prober) Result {
	const name = "Device"
	if cfg.Separator.Device != "" {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (configured)", cfg.Separator.Device)}
	}
	selected := device.Select(ctx, "", prober, nil)
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (auto-detected)", selected)}
}
