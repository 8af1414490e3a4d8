package run

import (
	"time"

	"github.com/tokenmetrics/graderun/internal/clock"
	"github.com/tokenmetrics/graderun/internal/idgen"
)

// Phase identifies one milestone of the orchestration sequence.
type Phase string

const (
	PhasePreflight    Phase = "preflight"
	PhaseEnvironment  Phase = "environment"
	PhaseDependencies Phase = "dependencies"
	PhaseGrading      Phase = "grading"
	PhaseRetention    Phase = "retention"
)

// Run captures the identity and resolved inputs of a single grading run.
type Run struct {
	ID        string
	Args      []string
	Defaulted bool // Args came from the configured default set
	StartedAt time.Time
}

// New builds a run from the caller supplied arguments. When args is empty
// the configured default set is used verbatim; otherwise the supplied
// arguments are forwarded unmodified and in order.
func New(args, defaultArgs []string) *Run {
	ret := &Run{
		ID:        idgen.New(),
		StartedAt: clock.Now(),
	}
	if len(args) == 0 {
		ret.Args = append([]string(nil), defaultArgs...)
		ret.Defaulted = true
		return ret
	}
	ret.Args = append([]string(nil), args...)
	return ret
}

// Timing records how long a single phase took.
type Timing struct {
	Phase     Phase         `json:"phase"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// Outcome is the terminal state of a run. ExitCode mirrors the grading
// program's own exit status whenever the program was reached; precondition
// failures surface as 1.
type Outcome struct {
	RunID     string    `json:"runID"`
	Args      []string  `json:"args"`
	ExitCode  int       `json:"exitCode"`
	LogFile   string    `json:"logFile,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	Timings   []Timing  `json:"timings,omitempty"`
}

// Success reports whether the run finished with a zero exit status.
func (o *Outcome) Success() bool { return o != nil && o.ExitCode == 0 }

// Record appends a phase timing.
func (o *Outcome) Record(phase Phase, startedAt time.Time) {
	o.Timings = append(o.Timings, Timing{
		Phase:     phase,
		StartedAt: startedAt,
		Duration:  clock.Now().Sub(startedAt),
	})
}
