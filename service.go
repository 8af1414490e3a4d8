package graderun

import (
	"context"
	"io"
	"os"

	"github.com/tokenmetrics/graderun/service/action/system/exec"
	"github.com/tokenmetrics/graderun/service/meta"
	"github.com/tokenmetrics/graderun/service/secret"
	"github.com/tokenmetrics/graderun/tracing"
)

// Service wires the orchestrator's collaborators together.
type Service struct {
	config    *Config
	configURL string
	stdout    io.Writer
	runner    exec.Runner
	secrets   *secret.Service
	runtime   *Runtime
}

// New creates a service from the supplied options.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if err := ret.ensureBaseSetup(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) ensureBaseSetup() error {
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.configURL != "" {
		if err := meta.New().Load(context.Background(), s.configURL, s.config); err != nil {
			return err
		}
	}
	s.config.Init()
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.runner == nil {
		s.runner = exec.New()
	}
	if s.secrets == nil {
		s.secrets = secret.New()
	}
	if s.config.Trace.Enabled {
		if err := tracing.Init("graderun", Version, s.config.Trace.OutputFile); err != nil {
			return err
		}
	}
	s.runtime = &Runtime{
		config:  s.config,
		stdout:  s.stdout,
		runner:  s.runner,
		secrets: s.secrets,
	}
	return nil
}

// Config exposes the effective configuration.
func (s *Service) Config() *Config { return s.config }

// Runtime returns the run orchestrator.
func (s *Service) Runtime() *Runtime { return s.runtime }
