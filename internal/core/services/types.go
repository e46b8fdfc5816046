// internal/core/services/types.go
package services

import (
	"fmt"
	"time"
)

// PhaseReport tallies one migration phase.
type PhaseReport struct {
	Phase    string   `json:"phase"`
	Total    int      `json:"total"`
	Migrated int      `json:"migrated"`
	Failed   int      `json:"failed"`
	Failures []string `json:"failures,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func (p *PhaseReport) fail(id string, err error) {
	p.Failed++
	if len(p.Failures) < maxReportedFailures {
		p.Failures = append(p.Failures, fmt.Sprintf("%s: %v", id, err))
	}
}

// MigrationReport is the outcome of a migration run.
type MigrationReport struct {
	Source      string        `json:"source"`
	Destination string        `json:"destination"`
	Phases      []PhaseReport `json:"phases"`
	StartedAt   time.Time     `json:"startedAt"`
	Duration    time.Duration `json:"duration"`
}
