// Package toolrun runs external command-line tools with a deadline and
// classifies how they failed.
package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Sentinel errors for tool execution.
var (
	ErrToolNotFound = errors.New("tool not found")
	ErrTimeout      = errors.New("tool timed out")
)

// DefaultTimeout bounds a command that sets no timeout of its own.
const DefaultTimeout = 2 * time.Minute

// waitDelay is how long Run waits for output pipes after the process is
// killed. npx leaves grandchildren holding them open.
const waitDelay = 2 * time.Second

// Command describes one invocation.
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Output is what a finished process produced.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Combined returns stdout followed by stderr.
func (o Output) Combined() string {
	if len(o.Stderr) == 0 {
		return string(o.Stdout)
	}

	if len(o.Stdout) == 0 {
		return string(o.Stderr)
	}

	return string(o.Stdout) + "\n" + string(o.Stderr)
}

// ExitError is returned when the process ran but exited non-zero. The
// captured output is kept because linters report findings that way.
type ExitError struct {
	Command Command
	Output  Output
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command.Name, e.Output.ExitCode)
}

// Runner runs a command to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// ExecCommandFunc creates the process for a command.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// ExecRunner runs commands as local processes.
type ExecRunner struct {
	// LookPath resolves executables. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
	// CommandContext builds the process. Defaults to exec.CommandContext.
	CommandContext ExecCommandFunc
}

// NewExecRunner returns a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{LookPath: exec.LookPath, CommandContext: exec.CommandContext}
}

// Run executes cmd. It returns ErrToolNotFound when the executable is not on
// PATH, ErrTimeout when the deadline passes, and *ExitError on a non-zero
// exit. Output captured so far is returned alongside every error.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	commandContext := r.CommandContext
	if commandContext == nil {
		commandContext = exec.CommandContext
	}

	if _, err := lookPath(cmd.Name); err != nil {
		return Output{ExitCode: -1}, fmt.Errorf("%w: %s: %w", ErrToolNotFound, cmd.Name, err)
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	proc := commandContext(runCtx, cmd.Name, cmd.Args...)
	proc.Dir = cmd.Dir
	proc.WaitDelay = waitDelay

	if len(cmd.Env) > 0 {
		proc.Env = append(proc.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer

	proc.Stdout = &stdout
	proc.Stderr = &stderr

	start := time.Now()
	runErr := proc.Run()

	out := Output{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if proc.ProcessState != nil {
		out.ExitCode = proc.ProcessState.ExitCode()
	}

	if runErr == nil {
		return out, nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return out, fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, cmd)
	}

	if ctx.Err() != nil {
		return out, fmt.Errorf("run %s: %w", cmd.Name, ctx.Err())
	}

	if errors.Is(runErr, exec.ErrNotFound) {
		return out, fmt.Errorf("%w: %s: %w", ErrToolNotFound, cmd.Name, runErr)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return out, &ExitError{Command: cmd, Output: out}
	}

	return out, fmt.Errorf("run %s: %w", cmd.Name, runErr)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) (Output, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (Output, error) {
	return f(ctx, cmd)
}
