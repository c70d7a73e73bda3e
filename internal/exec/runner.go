package exec

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"
)

// Result holds command execution output
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes external commands with context support
type Runner struct{}

// NewRunner creates a new command runner
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes a command and captures its output. Entries in extraEnv are
// appended to the process environment for this single invocation only, so
// concurrent invocations never see each other's overrides.
func (r *Runner) Run(ctx context.Context, extraEnv []string, name string, args ...string) (*Result, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
	}

	if err != nil {
		return result, err
	}

	return result, nil
}
