// Package runner invokes external processes for the probing layers.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"cliscope/internal/ports"
)

// LocalRunner executes probe commands on the host with a bounded timeout.
// Probes are argv-based and never pass through a shell; this engine only
// inspects target tools, it does not run the commands it describes.
type LocalRunner struct{}

// NewLocalRunner builds a new runner.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run implements ports.CommandRunner.
func (r *LocalRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (ports.RunResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.RunResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		return result, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, err
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

var _ ports.CommandRunner = (*LocalRunner)(nil)
