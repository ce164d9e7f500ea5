// Package exec provides abstractions for command execution.
// This package enables testable code by allowing CLI commands to be mocked.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Result holds everything a finished child process produced.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// CommandExecutor defines an interface for executing external commands.
// This abstraction allows for mocking CLI tool behavior in tests.
type CommandExecutor interface {
	// Execute runs name with args, writing stdin (if any) to the child and
	// collecting both output streams until the process exits.
	//
	// A nonzero exit status is reported through Result.ExitCode, not as an
	// error. The error is reserved for processes that could not be started
	// or were interrupted by ctx.
	Execute(ctx context.Context, stdin []byte, name string, args ...string) (Result, error)
}

// RealCommandExecutor executes actual commands using os/exec.
// This is the production implementation.
type RealCommandExecutor struct {
	// Env is appended to the parent environment of every child.
	Env []string
}

// Execute runs an actual command and waits for it to exit.
func (r *RealCommandExecutor) Execute(ctx context.Context, stdin []byte, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	// Run waits for the child and closes every pipe it opened, on success
	// and on failure alike.
	err := cmd.Run()

	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, err
	}
	return res, nil
}

// DefaultExecutor returns the standard production executor.
// This is used as the default when no executor is injected.
func DefaultExecutor() CommandExecutor {
	return &RealCommandExecutor{}
}
