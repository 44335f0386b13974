package domain

import "time"

type RunID string

// SessionState is what a later invocation needs to address an existing run.
type SessionState struct {
	RunID     RunID
	BaseURL   string
	CreatedAt time.Time
	Labware   []LabwareEntry
	Pipettes  []PipetteEntry
}

func (s SessionState) IsZero() bool {
	return s.RunID == ""
}

// Registry rebuilds a registry holding the persisted entries.
func (s SessionState) Registry() *Registry {
	registry := NewRegistry()
	for _, entry := range s.Labware {
		registry.RegisterLabware(entry)
	}
	for _, entry := range s.Pipettes {
		registry.RegisterPipette(entry)
	}

	return registry
}

type JournalEntry struct {
	RunID       RunID
	Operation   string
	CommandType string
	StatusCode  int
	OK          bool
	// RemoteStatus is the data.status reported by the robot, recorded as-is.
	RemoteStatus string
	RecordedAt   time.Time
}
