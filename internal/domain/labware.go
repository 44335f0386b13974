package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultLabwareNamespace = "opentrons"
	DefaultLabwareVersion   = 1
)

type LabwareEntry struct {
	// Alias is the registry key: load name and slot joined by an underscore.
	Alias    string
	Name     string
	RemoteID string
	Slot     int
}

// LabwareAlias builds the registry key for labware loaded into a slot. The same
// labware type may sit in several slots, so the name alone is not unique.
func LabwareAlias(name string, slot int) string {
	return name + "_" + strconv.Itoa(slot)
}

type LabwareDefinition struct {
	LoadName  string
	Namespace string
	Version   int
	Raw       json.RawMessage
}

type labwareDefinitionFields struct {
	Namespace  string `json:"namespace"`
	Version    *int   `json:"version"`
	Parameters struct {
		LoadName string `json:"loadName"`
	} `json:"parameters"`
}

func ParseLabwareDefinition(data []byte) (LabwareDefinition, error) {
	if !json.Valid(data) {
		return LabwareDefinition{}, errors.New("labware definition is not valid JSON")
	}

	var fields labwareDefinitionFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return LabwareDefinition{}, fmt.Errorf("decode labware definition: %w", err)
	}

	if strings.TrimSpace(fields.Parameters.LoadName) == "" {
		return LabwareDefinition{}, errors.New("labware definition missing parameters.loadName")
	}
	if strings.TrimSpace(fields.Namespace) == "" {
		return LabwareDefinition{}, errors.New("labware definition missing namespace")
	}
	if fields.Version == nil {
		return LabwareDefinition{}, errors.New("labware definition missing version")
	}

	raw := make(json.RawMessage, len(data))
	copy(raw, data)

	return LabwareDefinition{
		LoadName:  fields.Parameters.LoadName,
		Namespace: fields.Namespace,
		Version:   *fields.Version,
		Raw:       raw,
	}, nil
}
