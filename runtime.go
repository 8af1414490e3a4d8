package graderun

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tokenmetrics/graderun/internal/clock"
	"github.com/tokenmetrics/graderun/model/run"
	"github.com/tokenmetrics/graderun/service/action/system/exec"
	"github.com/tokenmetrics/graderun/service/env"
	"github.com/tokenmetrics/graderun/service/grader"
	"github.com/tokenmetrics/graderun/service/precheck"
	"github.com/tokenmetrics/graderun/service/runlog"
	"github.com/tokenmetrics/graderun/service/secret"
	"github.com/tokenmetrics/graderun/tracing"
)

// Runtime drives one end-to-end grading run. Execution is strictly
// sequential: every step blocks until its subprocess completes, and the
// first failing step aborts the run. The grading program's own exit code is
// the one failure handled explicitly so it can be logged with context before
// being propagated unchanged.
type Runtime struct {
	config  *Config
	stdout  io.Writer
	runner  exec.Runner
	secrets *secret.Service
}

// Run executes the orchestration sequence and reports the terminal outcome.
// The returned error covers orchestrator failures only; a nonzero grading
// exit surfaces through Outcome.ExitCode with a nil error.
func (r *Runtime) Run(ctx context.Context, args []string) (*run.Outcome, error) {
	cfg := r.config
	aRun := run.New(args, cfg.DefaultArgs)
	outcome := &run.Outcome{RunID: aRun.ID, Args: aRun.Args, StartedAt: aRun.StartedAt}
	defer func() { outcome.EndedAt = clock.Now() }()

	logger, err := runlog.New(cfg.abs(cfg.LogDir), cfg.LogPrefix, r.stdout, runlog.WithColor(!cfg.NoColor))
	if err != nil {
		outcome.ExitCode = 1
		return outcome, err
	}
	defer logger.Close()
	outcome.LogFile = logger.Path()

	var runErr error
	ctx, span := tracing.StartSpan(ctx, "graderun.run")
	span.WithAttributes(map[string]string{"run.id": aRun.ID})
	defer func() { tracing.EndSpan(span, runErr) }()

	fail := func(err error) (*run.Outcome, error) {
		logger.Errorf("%v", err)
		outcome.ExitCode = 1
		runErr = err
		return outcome, err
	}

	logger.Infof("starting grading run %v", aRun.ID)

	phaseStart := clock.Now()
	checker := precheck.New(r.runner)
	if err := checker.Interpreter(ctx, cfg.Host, cfg.Interpreter); err != nil {
		return fail(err)
	}
	manifest := cfg.abs(cfg.Manifest)
	program := cfg.abs(cfg.Program)
	if err := checker.Artifacts(ctx,
		precheck.Artifact{Role: "dependency manifest", Path: manifest},
		precheck.Artifact{Role: "grading program", Path: program},
	); err != nil {
		return fail(err)
	}
	outcome.Record(run.PhasePreflight, phaseStart)

	phaseStart = clock.Now()
	provisioner := env.New(r.runner, cfg.Host, cfg.Interpreter, cfg.abs(cfg.EnvDir), cfg.TimeoutMs)
	lease, created, err := provisioner.Acquire(ctx)
	if err != nil {
		return fail(err)
	}
	defer lease.Release()
	if created {
		logger.Successf("created isolated environment at %v", lease.Dir())
	} else {
		logger.Infof("reusing isolated environment at %v", lease.Dir())
	}
	outcome.Record(run.PhaseEnvironment, phaseStart)

	phaseStart = clock.Now()
	logger.Infof("installing dependencies from %v", cfg.Manifest)
	if err := provisioner.Install(ctx, lease, manifest, logger.FileWriter()); err != nil {
		return fail(err)
	}
	logger.Successf("dependencies are up to date")
	outcome.Record(run.PhaseDependencies, phaseStart)

	if present, err := checker.Secrets(ctx, cfg.abs(cfg.SecretsFile)); err == nil && !present {
		logger.Warningf("%v not found; the grading program expects %v",
			cfg.SecretsFile, strings.Join(precheck.RequiredEnvVars, ", "))
	}
	var extraEnv map[string]string
	if cfg.SecretsURL != "" {
		if extraEnv, err = r.secrets.Environ(ctx, cfg.SecretsURL, cfg.SecretsKey); err != nil {
			logger.Warningf("failed to load secured credentials: %v", err)
			extraEnv = nil
		}
	}

	phaseStart = clock.Now()
	if aRun.Defaulted {
		logger.Infof("no arguments supplied, using defaults: %v", strings.Join(aRun.Args, " "))
	} else {
		logger.Infof("forwarding arguments: %v", strings.Join(aRun.Args, " "))
	}
	invoker := grader.New(r.runner, cfg.Host, program, cfg.TimeoutMs)
	result, err := invoker.Invoke(ctx, lease, aRun.Args, extraEnv)
	if err != nil {
		return fail(err)
	}
	if result.Output != "" {
		fmt.Fprintln(logger, result.Output)
	}
	if result.Stderr != "" {
		fmt.Fprintln(logger.FileWriter(), result.Stderr)
	}
	outcome.Record(run.PhaseGrading, phaseStart)
	lease.Release()

	outcome.ExitCode = result.ExitCode
	if result.ExitCode != 0 {
		runErr = fmt.Errorf("grading program exited with code %d", result.ExitCode)
		logger.Errorf("grading failed with exit code %v", result.ExitCode)
		return outcome, nil
	}
	logger.Successf("grading completed successfully, log at %v", logger.Path())

	phaseStart = clock.Now()
	retention := runlog.NewRetention(cfg.abs(cfg.LogDir), cfg.LogPrefix, cfg.RetentionAge())
	if removed, err := retention.Sweep(ctx, logger.Path()); err != nil {
		logger.Warningf("log retention sweep: %v", err)
	} else if removed > 0 {
		logger.Infof("removed %v expired log file(s)", removed)
	}
	outcome.Record(run.PhaseRetention, phaseStart)

	logger.Successf("run complete")
	fmt.Fprintln(r.stdout, Usage())
	return outcome, nil
}
