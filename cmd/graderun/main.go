package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tokenmetrics/graderun"
)

// configEnvVar optionally points at a YAML configuration document (any afs
// supported URL). Without it the stock layout relative to the binary is used.
const configEnvVar = "GRADERUN_CONFIG"

func main() {
	os.Exit(runMain(os.Args[1:]))
}

func runMain(args []string) int {
	config := graderun.DefaultConfig()
	if workdir, err := executableDir(); err == nil {
		config.Workdir = workdir
	}
	options := []graderun.Option{graderun.WithConfig(config)}
	if URL := os.Getenv(configEnvVar); URL != "" {
		options = append(options, graderun.WithConfigURL(URL))
	}
	service, err := graderun.New(options...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graderun: %v\n", err)
		return 1
	}
	outcome, err := service.Runtime().Run(context.Background(), args)
	if err != nil && outcome == nil {
		fmt.Fprintf(os.Stderr, "graderun: %v\n", err)
		return 1
	}
	return outcome.ExitCode
}

// executableDir resolves the directory holding the invoking binary so that
// path-relative resources resolve regardless of the caller's current
// directory.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
