// Package grader invokes the external grading program. The program is an
// opaque collaborator: arguments pass through untouched and the exit code is
// reported exactly as the runner observed it.
package grader

import (
	"context"
	"fmt"
	"strings"

	"github.com/tokenmetrics/graderun/service/action/system"
	"github.com/tokenmetrics/graderun/service/action/system/exec"
	"github.com/tokenmetrics/graderun/service/env"
)

// Result carries the grading program's directly captured exit status and
// combined output.
type Result struct {
	ExitCode int
	Output   string
	Stderr   string
}

// Invoker runs the grading program inside an environment lease.
type Invoker struct {
	runner    exec.Runner
	host      *system.Host
	program   string
	timeoutMs int
}

// New creates an invoker for the given program entry point.
func New(runner exec.Runner, host *system.Host, program string, timeoutMs int) *Invoker {
	return &Invoker{runner: runner, host: host, program: program, timeoutMs: timeoutMs}
}

// Invoke runs the program with the supplied arguments and environment.
// A non-zero program exit is not an error here; it is reported through
// Result so the caller can log it with context before propagating.
func (i *Invoker) Invoke(ctx context.Context, lease *env.Lease, args []string, extraEnv map[string]string) (*Result, error) {
	environ := lease.Environ()
	for k, v := range extraEnv {
		environ[k] = v
	}
	command := i.command(lease, args)
	output := &exec.Output{}
	input := &exec.Input{
		Host:      i.host,
		Env:       environ,
		Commands:  []string{command},
		TimeoutMs: i.timeoutMs,
	}
	if err := i.runner.Execute(ctx, input, output); err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", i.program, err)
	}
	return &Result{
		ExitCode: output.Status,
		Output:   output.Stdout,
		Stderr:   output.Stderr,
	}, nil
}

// command assembles the shell command line, quoting arguments so they reach
// the program verbatim and in order.
func (i *Invoker) command(lease *env.Lease, args []string) string {
	parts := []string{lease.Python(), i.program}
	for _, arg := range args {
		parts = append(parts, Quote(arg))
	}
	return strings.Join(parts, " ")
}

// Quote shell-quotes a single argument using single quotes, escaping any
// embedded single quote.
func Quote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n'\"\\$`&|;<>()*?[]{}~#") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
