package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int            `toml:"version"`
	Session *sessionSchema `toml:"session,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type sessionSchema struct {
	RunID     string          `toml:"run_id"`
	BaseURL   string          `toml:"base_url"`
	CreatedAt string          `toml:"created_at,omitempty"`
	Labware   []labwareSchema `toml:"labware,omitempty"`
	Pipettes  []pipetteSchema `toml:"pipettes,omitempty"`
}

type labwareSchema struct {
	Alias    string `toml:"alias"`
	Name     string `toml:"name"`
	RemoteID string `toml:"remote_id"`
	Slot     int    `toml:"slot"`
}

type pipetteSchema struct {
	Name     string `toml:"name"`
	RemoteID string `toml:"remote_id"`
	Mount    string `toml:"mount"`
}
