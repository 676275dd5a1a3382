// Package subproc launches the shell commands Octopus's test runners render,
// through the "subprocess launcher" contract spec.md §2 treats as an
// external collaborator supplying exit code + stdout + stderr.
package subproc

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	octoerrors "github.com/linview/octopus/pkg/errors"
)

// Result captures the outcome of a single command invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Launcher runs a rendered command string and reports its exit code, stdout,
// and stderr. Implementations may apply their own timeout; Octopus exposes no
// cancellation token beyond ctx (spec.md §5, Cancellation/timeouts).
type Launcher interface {
	Launch(ctx context.Context, command string) (Result, error)
}

// ShellLauncher runs commands through "sh -c", collecting output the same
// way the source's subprocess launcher does (capture both streams, never
// stream to the parent's own stdout/stderr).
type ShellLauncher struct{}

// NewShellLauncher builds the default Launcher implementation.
func NewShellLauncher() *ShellLauncher {
	return &ShellLauncher{}
}

// Launch runs command via "sh -c" and returns its captured result. A non-zero
// exit still returns a nil error; only a launch failure (e.g. shell missing)
// produces SubprocessError.
func (l *ShellLauncher) Launch(ctx context.Context, command string) (Result, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := Result{
		ExitCode: 0,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
	}

	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	return res, octoerrors.NewSubprocessError(command, err)
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if !ok {
		return false
	}
	*target = ee
	return true
}
