package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/otctl/internal/domain"
	"github.com/bnema/otctl/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	StatePathKey    = "state.path"
	stateFileMode   = 0o600
	stateDirMode    = 0o700
	stateConfigDir  = ".otctl"
	stateConfigFile = "session.toml"
	tempFilePattern = ".session-*.toml.tmp"
)

// Repository keeps the state of the last run started in a single TOML file.
type Repository struct {
	statePath string
	mu        *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SessionRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	statePath := cfg.GetString(StatePathKey)
	if statePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		statePath = filepath.Join(homeDir, stateConfigDir, stateConfigFile)
	}

	statePath, err := normalizeStatePath(statePath)
	if err != nil {
		return nil, err
	}

	return &Repository{statePath: statePath, mu: lockForPath(statePath)}, nil
}

func (r *Repository) Path() string {
	return r.statePath
}

// Save replaces the stored session.
func (r *Repository) Save(ctx context.Context, state domain.SessionState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	file.Session = toSchema(state)

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

// Load returns the stored session, or a zero state when none was saved.
func (r *Repository) Load(ctx context.Context) (domain.SessionState, error) {
	if err := ctx.Err(); err != nil {
		return domain.SessionState{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.SessionState{}, err
	}
	if file.Session == nil {
		return domain.SessionState{}, nil
	}

	return fromSchema(*file.Session), nil
}

// Clear forgets the stored session.
func (r *Repository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.Session = nil

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read session file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode session file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeStatePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve session path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.statePath), stateDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.statePath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}

	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempName, r.statePath); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	cleanup = false

	return nil
}

func toSchema(state domain.SessionState) *sessionSchema {
	if state.IsZero() {
		return nil
	}

	session := &sessionSchema{
		RunID:     string(state.RunID),
		BaseURL:   state.BaseURL,
		CreatedAt: formatTime(state.CreatedAt),
	}
	for _, entry := range state.Labware {
		session.Labware = append(session.Labware, labwareSchema{
			Alias:    entry.Alias,
			Name:     entry.Name,
			RemoteID: entry.RemoteID,
			Slot:     entry.Slot,
		})
	}
	for _, entry := range state.Pipettes {
		session.Pipettes = append(session.Pipettes, pipetteSchema{
			Name:     entry.Name,
			RemoteID: entry.RemoteID,
			Mount:    string(entry.Mount),
		})
	}

	return session
}

func fromSchema(session sessionSchema) domain.SessionState {
	state := domain.SessionState{
		RunID:     domain.RunID(session.RunID),
		BaseURL:   session.BaseURL,
		CreatedAt: parseTime(session.CreatedAt),
	}
	for _, entry := range session.Labware {
		state.Labware = append(state.Labware, domain.LabwareEntry{
			Alias:    entry.Alias,
			Name:     entry.Name,
			RemoteID: entry.RemoteID,
			Slot:     entry.Slot,
		})
	}
	for _, entry := range session.Pipettes {
		state.Pipettes = append(state.Pipettes, domain.PipetteEntry{
			Name:     entry.Name,
			RemoteID: entry.RemoteID,
			Mount:    domain.Mount(entry.Mount),
		})
	}

	return state
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
