package domain

import (
	"fmt"
	"sort"
	"sync"
)

// Registry tracks the labware and pipettes loaded into one run. Entries are
// only ever added or overwritten; a run has no unload operation.
type Registry struct {
	mu       sync.RWMutex
	labware  map[string]LabwareEntry
	pipettes map[string]PipetteEntry
}

func NewRegistry() *Registry {
	return &Registry{
		labware:  map[string]LabwareEntry{},
		pipettes: map[string]PipetteEntry{},
	}
}

func (r *Registry) RegisterLabware(entry LabwareEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.labware[entry.Alias] = entry
}

// RegisterPipette keys the entry by pipette name; loading the same name twice
// replaces the first entry.
func (r *Registry) RegisterPipette(entry PipetteEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pipettes[entry.Name] = entry
}

func (r *Registry) Labware(alias string) (LabwareEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.labware[alias]
	if !ok {
		return LabwareEntry{}, fmt.Errorf("%w: %q", ErrLabwareNotFound, alias)
	}

	return entry, nil
}

func (r *Registry) Pipette(name string) (PipetteEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.pipettes[name]
	if !ok {
		return PipetteEntry{}, fmt.Errorf("%w: %q", ErrPipetteNotFound, name)
	}

	return entry, nil
}

// LabwareEntries returns a copy of the labware entries ordered by slot, then alias.
func (r *Registry) LabwareEntries() []LabwareEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]LabwareEntry, 0, len(r.labware))
	for _, entry := range r.labware {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Slot != entries[j].Slot {
			return entries[i].Slot < entries[j].Slot
		}
		return entries[i].Alias < entries[j].Alias
	})

	return entries
}

// PipetteEntries returns a copy of the pipette entries ordered by name.
func (r *Registry) PipetteEntries() []PipetteEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]PipetteEntry, 0, len(r.pipettes))
	for _, entry := range r.pipettes {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries
}
