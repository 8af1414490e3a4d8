package graderun

import (
	"io"

	"github.com/tokenmetrics/graderun/service/action/system/exec"
	"github.com/tokenmetrics/graderun/service/secret"
)

// Option customises a Service during construction.
type Option func(s *Service)

// WithConfig sets the orchestrator configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithConfigURL loads the configuration document at the given URL (any afs
// supported scheme) on top of the current configuration.
func WithConfigURL(URL string) Option {
	return func(s *Service) { s.configURL = URL }
}

// WithStdout redirects console output; defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(s *Service) { s.stdout = w }
}

// WithRunner substitutes the command runner, primarily for tests.
func WithRunner(runner exec.Runner) Option {
	return func(s *Service) { s.runner = runner }
}

// WithSecretService sets the secured-credentials service.
func WithSecretService(svc *secret.Service) Option {
	return func(s *Service) { s.secrets = svc }
}
