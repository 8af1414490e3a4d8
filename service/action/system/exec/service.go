package exec

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tokenmetrics/graderun/service/action/system"
	"github.com/viant/afs/url"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	rssh "github.com/viant/gosh/runner/ssh"
	"github.com/viant/scy/cred/secret"
	"golang.org/x/crypto/ssh"
)

// Runner abstracts command execution so that orchestration code can be
// exercised against a scripted implementation.
type Runner interface {
	Execute(ctx context.Context, input *Input, output *Output) error
}

// Service executes terminal commands through gosh. Sessions without
// per-call environment overrides are cached per host and reused.
type Service struct {
	sessions map[string]*sessionInfo
	mux      sync.Mutex
}

var _ Runner = (*Service)(nil)

type sessionInfo struct {
	service *gosh.Service
}

// New creates a new Service instance
func New() *Service {
	return &Service{
		sessions: make(map[string]*sessionInfo),
	}
}

// Execute runs the supplied commands sequentially on the target host and
// captures each command's exit status directly from the runner.
func (s *Service) Execute(ctx context.Context, input *Input, output *Output) error {
	input.Init()

	session, transient, err := s.getSession(ctx, input.Host, input.Env)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if transient {
		defer session.service.Close()
	}

	if input.Workdir != "" {
		if _, _, err := session.service.Run(ctx, fmt.Sprintf("cd %s", input.Workdir)); err != nil {
			return fmt.Errorf("failed to change directory: %w", err)
		}
	}

	abortOnError := true
	if input.AbortOnError != nil {
		abortOnError = *input.AbortOnError
	}

	commands := make([]*Command, 0, len(input.Commands))
	var combinedStdout, combinedStderr strings.Builder
	var lastExitCode int

	timeoutDuration := time.Duration(input.TimeoutMs) * time.Millisecond
	for _, cmd := range input.Commands {
		command := &Command{
			Input: cmd,
		}

		stdout, stderr, exitCode := s.executeCommand(ctx, session, cmd, timeoutDuration)
		command.Output = stdout
		command.Stderr = stderr
		command.Status = exitCode
		commands = append(commands, command)

		if stdout != "" {
			combinedStdout.WriteString(stdout)
			combinedStdout.WriteString("\n")
		}
		if stderr != "" {
			combinedStderr.WriteString(stderr)
			combinedStderr.WriteString("\n")
		}

		lastExitCode = exitCode

		if abortOnError && exitCode != 0 {
			break
		}
	}

	output.Commands = commands
	output.Stdout = strings.TrimSpace(combinedStdout.String())
	output.Stderr = strings.TrimSpace(combinedStderr.String())
	output.Status = lastExitCode

	return nil
}

// executeCommand runs a single command and returns its output. A zero
// duration leaves the command without a deadline.
func (s *Service) executeCommand(ctx context.Context, session *sessionInfo, command string, duration time.Duration) (string, string, int) {
	var options []runner.Option
	if duration > 0 {
		options = append(options, runner.WithTimeout(int(duration.Milliseconds())))
	}
	started := time.Now()
	stdout, status, err := session.service.Run(ctx, command, options...)
	elapsed := time.Now().Sub(started)
	if duration > 0 && elapsed > duration && err == nil {
		err = fmt.Errorf("command %v timed out after: %s", command, elapsed)
	}

	if status == 0 && err == nil {
		return stdout, "", status
	}
	if status == 0 {
		status = 1
	}
	if stdout == "" && err != nil {
		stdout = err.Error()
	}
	return "", stdout, status
}

// getSession retrieves a cached session or creates a new one. Sessions with
// per-call environment overrides are never cached so that one run's
// environment cannot leak into another.
func (s *Service) getSession(ctx context.Context, host *system.Host, env map[string]string) (*sessionInfo, bool, error) {
	transient := len(env) > 0
	var sessionID string
	if !transient {
		sessionID = host.URL
		s.mux.Lock()
		if session, ok := s.sessions[sessionID]; ok {
			s.mux.Unlock()
			return session, false, nil
		}
		s.mux.Unlock()
	}

	envOptions := []runner.Option{}
	if len(env) > 0 {
		envOptions = append(envOptions, runner.WithEnvironment(env))
	}

	var service *gosh.Service
	var err error
	if host.IsLocal() {
		service, err = gosh.New(ctx, local.New(envOptions...))
	} else {
		config, configErr := s.getSSHConfig(ctx, host)
		if configErr != nil {
			return nil, false, fmt.Errorf("failed to get SSH config: %w", configErr)
		}
		sshHost := url.Host(host.URL)
		if !strings.Contains(sshHost, ":") {
			sshHost += ":22"
		}
		service, err = gosh.New(ctx, rssh.New(sshHost, config, envOptions...))
	}
	if err != nil {
		return nil, false, err
	}
	session := &sessionInfo{service: service}
	if !transient {
		s.mux.Lock()
		s.sessions[sessionID] = session
		s.mux.Unlock()
	}
	return session, transient, nil
}

// getSSHConfig creates an SSH config from the host's secrets
func (s *Service) getSSHConfig(ctx context.Context, host *system.Host) (*ssh.ClientConfig, error) {
	credentials := host.Credentials
	if credentials == "" {
		credentials = "localhost"
	}
	secrets := secret.New()
	generic, err := secrets.GetCredentials(ctx, credentials)
	if err != nil {
		return nil, err
	}
	return generic.SSH.Config(ctx)
}

// Close releases all cached sessions held by this service
func (s *Service) Close(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	var errs []string
	for id, session := range s.sessions {
		if err := session.service.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("failed to close session %s: %v", id, err))
		}
	}
	s.sessions = make(map[string]*sessionInfo)
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %s", strings.Join(errs, "; "))
	}
	return nil
}
