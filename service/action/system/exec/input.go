package exec

import (
	"github.com/tokenmetrics/graderun/service/action/system"
)

// Input describes a batch of commands to run on a target host.
type Input struct {
	Host         *system.Host      `json:"host,omitempty" yaml:"host,omitempty"`
	Workdir      string            `json:"workdir,omitempty" yaml:"workdir,omitempty"`
	Env          map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Commands     []string          `json:"commands,omitempty" yaml:"commands,omitempty"`
	TimeoutMs    int               `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
	AbortOnError *bool             `json:"abortOnError,omitempty" yaml:"abortOnError,omitempty"`
}

// Init applies defaults; an unset host means local execution.
func (i *Input) Init() {
	if i.Host == nil {
		i.Host = &system.Host{}
	}
	if i.Host.URL == "" {
		i.Host.URL = "bash://localhost/"
	}
}
