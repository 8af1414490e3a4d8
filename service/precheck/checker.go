// Package precheck implements the fatal and advisory precondition checks
// that run before any mutation of the workspace.
package precheck

import (
	"context"
	"fmt"

	"github.com/tokenmetrics/graderun/service/action/system"
	"github.com/tokenmetrics/graderun/service/action/system/exec"
	"github.com/viant/afs"
)

// RequiredEnvVars enumerates the variables the grading program reads on its
// own; they are surfaced in the advisory warning when no secrets file exists.
var RequiredEnvVars = []string{
	"OPENAI_API_KEY",
	"GOOGLE_CREDENTIALS_FILE",
	"SPREADSHEET_ID",
}

// Artifact is a required input file together with its role in the run,
// used to produce descriptive failures.
type Artifact struct {
	Role string
	Path string
}

// Checker verifies run preconditions.
type Checker struct {
	fs     afs.Service
	runner exec.Runner
}

// New creates a checker that probes the execution host through the supplied
// runner.
func New(runner exec.Runner) *Checker {
	return &Checker{fs: afs.New(), runner: runner}
}

// Interpreter verifies the grading-program runtime is available on the
// execution path of the target host.
func (c *Checker) Interpreter(ctx context.Context, host *system.Host, interpreter string) error {
	if interpreter == "" {
		return fmt.Errorf("interpreter is not configured")
	}
	output := &exec.Output{}
	input := &exec.Input{
		Host:     host,
		Commands: []string{fmt.Sprintf("command -v %s", interpreter)},
	}
	if err := c.runner.Execute(ctx, input, output); err != nil {
		return fmt.Errorf("failed to probe for %s: %w", interpreter, err)
	}
	if output.Status != 0 {
		return fmt.Errorf("%s is not available on PATH", interpreter)
	}
	return nil
}

// Artifacts verifies every required input file exists; the first missing
// artifact fails the check.
func (c *Checker) Artifacts(ctx context.Context, artifacts ...Artifact) error {
	for _, artifact := range artifacts {
		exists, err := c.fs.Exists(ctx, artifact.Path)
		if err != nil {
			return fmt.Errorf("failed to check %s %s: %w", artifact.Role, artifact.Path, err)
		}
		if !exists {
			return fmt.Errorf("%s not found: %s", artifact.Role, artifact.Path)
		}
	}
	return nil
}

// Secrets reports whether the local secrets file is present. Absence is
// advisory only; the grading program reads its own settings.
func (c *Checker) Secrets(ctx context.Context, location string) (bool, error) {
	if location == "" {
		return false, nil
	}
	return c.fs.Exists(ctx, location)
}
