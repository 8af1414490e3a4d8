package graderun

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/tokenmetrics/graderun/service/action/system"
)

// Config is a serialisable representation of the orchestrator configuration.
// It can be populated from JSON or YAML; empty fields inherit the package
// defaults via Init.
type Config struct {
	// Workdir anchors every relative path below. The CLI resolves it to the
	// directory holding the binary so that resources resolve correctly
	// regardless of the caller's current directory.
	Workdir string `json:"workdir,omitempty" yaml:"workdir,omitempty"`

	LogDir    string `json:"logDir,omitempty" yaml:"logDir,omitempty"`
	LogPrefix string `json:"logPrefix,omitempty" yaml:"logPrefix,omitempty"`

	Manifest    string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	Program     string `json:"program,omitempty" yaml:"program,omitempty"`
	Interpreter string `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`
	EnvDir      string `json:"envDir,omitempty" yaml:"envDir,omitempty"`

	SecretsFile string `json:"secretsFile,omitempty" yaml:"secretsFile,omitempty"`
	SecretsURL  string `json:"secretsURL,omitempty" yaml:"secretsURL,omitempty"`
	SecretsKey  string `json:"secretsKey,omitempty" yaml:"secretsKey,omitempty"`

	// DefaultArgs is the safety-capped argument set used when the caller
	// supplies no arguments of their own.
	DefaultArgs []string `json:"defaultArgs,omitempty" yaml:"defaultArgs,omitempty"`

	RetentionDays int `json:"retentionDays,omitempty" yaml:"retentionDays,omitempty"`

	// TimeoutMs caps each subprocess invocation; zero leaves commands
	// without a deadline.
	TimeoutMs int `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`

	NoColor bool `json:"noColor,omitempty" yaml:"noColor,omitempty"`

	// Host selects a remote execution host; nil means local.
	Host *system.Host `json:"host,omitempty" yaml:"host,omitempty"`

	Trace TraceConfig `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// TraceConfig controls OpenTelemetry tracing for the run.
type TraceConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config populated with the stock deployment layout.
func DefaultConfig() *Config {
	return &Config{
		LogDir:        "logs",
		LogPrefix:     "grader_run",
		Manifest:      "requirements.txt",
		Program:       "sponsor_grader.py",
		Interpreter:   "python3",
		EnvDir:        "venv",
		SecretsFile:   ".env",
		DefaultArgs:   []string{"--sheet-type", "media", "--max-records", "10"},
		RetentionDays: 30,
	}
}

// Init fills empty fields with their defaults. It keeps explicitly
// configured values untouched.
func (c *Config) Init() {
	defaults := DefaultConfig()
	if c.LogDir == "" {
		c.LogDir = defaults.LogDir
	}
	if c.LogPrefix == "" {
		c.LogPrefix = defaults.LogPrefix
	}
	if c.Manifest == "" {
		c.Manifest = defaults.Manifest
	}
	if c.Program == "" {
		c.Program = defaults.Program
	}
	if c.Interpreter == "" {
		c.Interpreter = defaults.Interpreter
	}
	if c.EnvDir == "" {
		c.EnvDir = defaults.EnvDir
	}
	if c.SecretsFile == "" {
		c.SecretsFile = defaults.SecretsFile
	}
	if c.DefaultArgs == nil {
		c.DefaultArgs = append([]string(nil), defaults.DefaultArgs...)
	}
	if c.RetentionDays == 0 {
		c.RetentionDays = defaults.RetentionDays
	}
}

// Validate returns an aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var issues []string
	if c.LogPrefix == "" {
		issues = append(issues, "logPrefix must not be empty")
	}
	if c.Manifest == "" {
		issues = append(issues, "manifest must not be empty")
	}
	if c.Program == "" {
		issues = append(issues, "program must not be empty")
	}
	if c.Interpreter == "" {
		issues = append(issues, "interpreter must not be empty")
	}
	if c.RetentionDays < 0 {
		issues = append(issues, "retentionDays must be >= 0")
	}
	if c.TimeoutMs < 0 {
		issues = append(issues, "timeoutMs must be >= 0")
	}
	if len(issues) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(issues, "; "))
	}
	return nil
}

// RetentionAge converts the retention window into a duration.
func (c *Config) RetentionAge() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// abs anchors a relative location at the working directory; absolute paths
// and URLs pass through unchanged.
func (c *Config) abs(location string) string {
	if location == "" || path.IsAbs(location) || strings.Contains(location, "://") {
		return location
	}
	if c.Workdir == "" {
		return location
	}
	return path.Join(c.Workdir, location)
}
