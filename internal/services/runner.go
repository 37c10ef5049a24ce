package services

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes version-control commands. Extraction services depend on
// this interface so tests can substitute canned output for a real checkout.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (string, error)
}

// ExecRunner runs commands on the local machine
type ExecRunner struct{}

// NewExecRunner creates a local command runner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command in dir and returns its combined stdout
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
