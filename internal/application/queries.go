package application

import (
	"time"

	"github.com/bnema/otctl/internal/domain"
)

type ProgressPhase string

const (
	PhaseSetup ProgressPhase = "setup"
	PhaseStep  ProgressPhase = "step"
	PhaseDone  ProgressPhase = "done"
)

type Progress struct {
	Phase   ProgressPhase
	RunID   domain.RunID
	Index   int
	Total   int
	Message string
}

// RunReport describes a protocol run, complete or not.
type RunReport struct {
	RunID          domain.RunID
	Aliases        map[string]string
	StepsCompleted int
	StepsTotal     int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Elapsed is zero until the run finished or stopped.
func (r RunReport) Elapsed() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
