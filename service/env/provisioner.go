// Package env provisions the isolated Python environment the grading
// program runs in. The environment is created once and reused across runs;
// its lifetime within a run is modelled as a lease that the runtime releases
// on every exit path.
package env

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/tokenmetrics/graderun/service/action/system"
	"github.com/tokenmetrics/graderun/service/action/system/exec"
	"github.com/viant/afs"
)

// marker is the file whose existence identifies a provisioned environment.
const marker = "pyvenv.cfg"

// Provisioner creates and reuses the isolated dependency environment.
type Provisioner struct {
	fs          afs.Service
	runner      exec.Runner
	host        *system.Host
	interpreter string
	dir         string
	timeoutMs   int
}

// New creates a provisioner rooted at dir, using interpreter to bootstrap
// the environment when it does not exist yet.
func New(runner exec.Runner, host *system.Host, interpreter, dir string, timeoutMs int) *Provisioner {
	return &Provisioner{
		fs:          afs.New(),
		runner:      runner,
		host:        host,
		interpreter: interpreter,
		dir:         dir,
		timeoutMs:   timeoutMs,
	}
}

// Acquire ensures the environment exists and returns a lease on it. The
// second return value reports whether the environment was created by this
// call (as opposed to silently reused).
func (p *Provisioner) Acquire(ctx context.Context) (*Lease, bool, error) {
	exists, err := p.fs.Exists(ctx, path.Join(p.dir, marker))
	if err != nil {
		return nil, false, fmt.Errorf("failed to check environment %s: %w", p.dir, err)
	}
	if exists {
		return NewLease(p.dir), false, nil
	}
	output := &exec.Output{}
	input := &exec.Input{
		Host:      p.host,
		Commands:  []string{fmt.Sprintf("%s -m venv %s", p.interpreter, p.dir)},
		TimeoutMs: p.timeoutMs,
	}
	if err := p.runner.Execute(ctx, input, output); err != nil {
		return nil, false, fmt.Errorf("failed to create environment %s: %w", p.dir, err)
	}
	if output.Status != 0 {
		return nil, false, fmt.Errorf("failed to create environment %s: %s", p.dir, output.Stderr)
	}
	return NewLease(p.dir), true, nil
}

// Install upgrades the environment's package manager and installs every
// dependency listed in the manifest. Command output goes to sink only; it is
// too verbose for the console.
func (p *Provisioner) Install(ctx context.Context, lease *Lease, manifest string, sink io.Writer) error {
	output := &exec.Output{}
	input := &exec.Input{
		Host: p.host,
		Env:  lease.Environ(),
		Commands: []string{
			fmt.Sprintf("%s -m pip install --upgrade pip", lease.Python()),
			fmt.Sprintf("%s install --upgrade -r %s", lease.Pip(), manifest),
		},
		TimeoutMs: p.timeoutMs,
	}
	err := p.runner.Execute(ctx, input, output)
	if sink != nil {
		if output.Stdout != "" {
			fmt.Fprintln(sink, output.Stdout)
		}
		if output.Stderr != "" {
			fmt.Fprintln(sink, output.Stderr)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to install dependencies: %w", err)
	}
	if output.Status != 0 {
		return fmt.Errorf("dependency installation exited with status %d", output.Status)
	}
	return nil
}
