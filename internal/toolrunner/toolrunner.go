// Package toolrunner runs the external tools constrictor shells out to:
// go (mod tidy, test, run) and git (init).
package toolrunner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

// Result is the captured outcome of a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// CommandError reports a command that could not start or exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Command)
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying exec error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner executes commands in a working directory.
type Runner struct {
	workDir string
	env     []string
	logger  *log.Logger
}

// NewRunner creates a runner for workDir. A nil logger uses log.Default().
func NewRunner(workDir string, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{workDir: workDir, logger: logger}
}

// WithEnv returns a copy of r that adds env ("KEY=value") to every command.
func (r *Runner) WithEnv(env ...string) *Runner {
	out := *r
	out.env = append(append([]string(nil), r.env...), env...)
	return &out
}

// WorkDir returns the runner's working directory.
func (r *Runner) WorkDir() string {
	return r.workDir
}

func (r *Runner) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.workDir
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}
	r.logger.Debug("running command", "cmd", name+" "+strings.Join(args, " "), "dir", r.workDir)
	return cmd
}

// Run executes a command to completion and captures its output.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	start := time.Now()
	cmd := r.command(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		ExitCode: exitCode(cmd),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		return res, &CommandError{
			Command:  name + " " + strings.Join(args, " "),
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
			Err:      err,
		}
	}
	return res, nil
}

// Stream executes a command with its output attached to stdout and stderr.
func (r *Runner) Stream(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := r.command(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return &CommandError{
			Command:  name + " " + strings.Join(args, " "),
			ExitCode: exitCode(cmd),
			Err:      err,
		}
	}
	return nil
}

// Go runs `go args...` and captures output.
func (r *Runner) Go(ctx context.Context, args ...string) (*Result, error) {
	return r.Run(ctx, "go", args...)
}

// Git runs `git args...` and captures output.
func (r *Runner) Git(ctx context.Context, args ...string) (*Result, error) {
	return r.Run(ctx, "git", args...)
}

// Process is a long-running child started by Start.
type Process struct {
	cmd    *exec.Cmd
	exited chan struct{}
	err    error
}

// Start launches a command without waiting for it.
func (r *Runner) Start(stdout, stderr io.Writer, name string, args ...string) (*Process, error) {
	cmd := r.command(context.Background(), name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Command: name, Err: err}
	}

	p := &Process{cmd: cmd, exited: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.exited)
	}()
	return p, nil
}

// Exited is closed when the process has exited.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// Err returns the wait error. Only valid after Exited is closed.
func (p *Process) Err() error {
	return p.err
}

// Stop interrupts the process group and kills it if it has not exited
// within grace.
func (p *Process) Stop(grace time.Duration) {
	select {
	case <-p.exited:
		return
	default:
	}

	_ = signalGroup(p.cmd, syscall.SIGINT)
	select {
	case <-p.exited:
		return
	case <-time.After(grace):
	}

	_ = signalGroup(p.cmd, syscall.SIGKILL)
	<-p.exited
}

func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}

// LookPath reports whether a tool is available on PATH.
func LookPath(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", name, err)
	}
	return nil
}
