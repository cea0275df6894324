// Package execx runs external package-manager tools and captures their
// output for the mutation and resolver layers.
package execx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Exit codes used when the process never ran.
const (
	ExitTimeout  = 124
	ExitNotFound = 127
)

// Result holds one command invocation's outcome.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Combined returns stdout and stderr joined, trimmed, for user-facing
// messages.
func (r Result) Combined() string {
	return strings.TrimSpace(r.Stdout + r.Stderr)
}

// ErrToolNotFound reports that the executable is not on PATH. Callers treat
// this as a degraded-mode condition, not a per-operation failure.
var ErrToolNotFound = errors.New("tool not found")

// LookTool resolves an executable on PATH, wrapping the miss in
// ErrToolNotFound.
func LookTool(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", ErrToolNotFound
	}
	return path, nil
}

// Run executes name with args in dir, capturing stdout and stderr
// separately. A non-zero exit is reported through Result.ExitCode, not as an
// error; err is non-nil only when the command could not be run at all.
func Run(ctx context.Context, name string, args []string, dir string) (Result, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			res.ExitCode = ExitTimeout
			return res, ctx.Err()
		case errors.Is(err, exec.ErrNotFound):
			res.ExitCode = ExitNotFound
			return res, ErrToolNotFound
		default:
			res.ExitCode = 1
			return res, err
		}
	}
	return res, nil
}
