package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/otctl/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

type fileSchema struct {
	Name     string          `toml:"name"`
	Robot    robotSchema     `toml:"robot"`
	Labware  []labwareSchema `toml:"labware"`
	Pipettes []pipetteSchema `toml:"pipettes"`
	Steps    []stepSchema    `toml:"steps"`
}

type robotSchema struct {
	Host string `toml:"host"`
}

type offsetSchema struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
	Z float64 `toml:"z"`
}

type labwareSchema struct {
	ID         string        `toml:"id"`
	Slot       int           `toml:"slot"`
	LoadName   string        `toml:"load_name"`
	Namespace  string        `toml:"namespace"`
	Version    int           `toml:"version"`
	Definition string        `toml:"definition"`
	Offset     *offsetSchema `toml:"offset"`
}

type pipetteSchema struct {
	Name  string `toml:"name"`
	Mount string `toml:"mount"`
}

type endpointSchema struct {
	Labware string       `toml:"labware"`
	Well    string       `toml:"well"`
	Origin  string       `toml:"origin"`
	Offset  offsetSchema `toml:"offset"`
}

type stepSchema struct {
	Action                string          `toml:"action"`
	Labware               string          `toml:"labware"`
	Well                  string          `toml:"well"`
	Pipette               string          `toml:"pipette"`
	Origin                string          `toml:"origin"`
	Offset                offsetSchema    `toml:"offset"`
	Volume                float64         `toml:"volume"`
	FlowRate              float64         `toml:"flow_rate"`
	Speed                 float64         `toml:"speed"`
	HomeAfter             bool            `toml:"home_after"`
	AlternateDropLocation bool            `toml:"alternate_drop_location"`
	On                    any             `toml:"on"`
	From                  *endpointSchema `toml:"from"`
	To                    *endpointSchema `toml:"to"`
}

// Load reads a protocol file. Custom labware definition paths resolve against
// the protocol file's directory.
func Load(path string) (domain.Protocol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Protocol{}, fmt.Errorf("read protocol file: %w", err)
	}

	protocol, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return domain.Protocol{}, fmt.Errorf("%s: %w", path, err)
	}
	if protocol.Name == "" {
		protocol.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return protocol, nil
}

// Parse decodes and validates a protocol document.
func Parse(data []byte, baseDir string) (domain.Protocol, error) {
	var file fileSchema
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			keys := make([]string, 0, len(strict.Errors))
			for _, missing := range strict.Errors {
				keys = append(keys, strings.Join(missing.Key(), "."))
			}
			return domain.Protocol{}, fmt.Errorf("%w: unknown fields: %s", domain.ErrInvalidProtocol, strings.Join(keys, ", "))
		}
		return domain.Protocol{}, fmt.Errorf("decode protocol: %w", err)
	}

	protocol := domain.Protocol{
		Name:      file.Name,
		RobotHost: file.Robot.Host,
	}

	for _, entry := range file.Labware {
		labware, err := toLabware(entry, baseDir)
		if err != nil {
			return domain.Protocol{}, err
		}
		protocol.Labware = append(protocol.Labware, labware)
	}

	for _, entry := range file.Pipettes {
		protocol.Pipettes = append(protocol.Pipettes, domain.ProtocolPipette{
			Name:  entry.Name,
			Mount: domain.Mount(strings.ToLower(strings.TrimSpace(entry.Mount))),
		})
	}

	for i, entry := range file.Steps {
		step, err := toStep(entry)
		if err != nil {
			return domain.Protocol{}, fmt.Errorf("%w: step %d: %w", domain.ErrInvalidProtocol, i+1, err)
		}
		protocol.Steps = append(protocol.Steps, step)
	}

	if err := protocol.Validate(); err != nil {
		return domain.Protocol{}, err
	}

	return protocol, nil
}

func toLabware(entry labwareSchema, baseDir string) (domain.ProtocolLabware, error) {
	labware := domain.ProtocolLabware{
		ID:        entry.ID,
		Slot:      entry.Slot,
		LoadName:  entry.LoadName,
		Namespace: entry.Namespace,
		Version:   entry.Version,
	}
	if entry.Offset != nil {
		offset := toOffset(*entry.Offset)
		labware.Offset = &offset
	}

	if entry.Definition == "" {
		return labware, nil
	}
	if entry.LoadName != "" {
		return domain.ProtocolLabware{}, fmt.Errorf("%w: labware %q: load_name and definition are exclusive", domain.ErrInvalidProtocol, entry.ID)
	}

	path := entry.Definition
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ProtocolLabware{}, fmt.Errorf("read labware definition for %q: %w", entry.ID, err)
	}
	definition, err := domain.ParseLabwareDefinition(data)
	if err != nil {
		return domain.ProtocolLabware{}, fmt.Errorf("labware definition for %q: %w", entry.ID, err)
	}
	labware.Definition = &definition

	return labware, nil
}

func toStep(entry stepSchema) (domain.Step, error) {
	step := domain.Step{
		Kind:                  domain.StepKind(strings.ToLower(strings.TrimSpace(entry.Action))),
		Labware:               entry.Labware,
		Well:                  entry.Well,
		Pipette:               entry.Pipette,
		Origin:                domain.WellOrigin(strings.ToLower(entry.Origin)),
		Offset:                toOffset(entry.Offset),
		Volume:                entry.Volume,
		FlowRate:              entry.FlowRate,
		Speed:                 entry.Speed,
		HomeAfter:             entry.HomeAfter,
		AlternateDropLocation: entry.AlternateDropLocation,
	}

	if entry.On != nil {
		state, err := domain.ParseLightsState(entry.On)
		if err != nil {
			return domain.Step{}, err
		}
		step.Lights = string(state)
	}
	if entry.From != nil {
		from := toEndpoint(*entry.From)
		step.From = &from
	}
	if entry.To != nil {
		to := toEndpoint(*entry.To)
		step.To = &to
	}

	return step, nil
}

func toEndpoint(entry endpointSchema) domain.TransferEndpoint {
	return domain.TransferEndpoint{
		Labware: entry.Labware,
		Well:    entry.Well,
		Origin:  domain.WellOrigin(strings.ToLower(entry.Origin)),
		Offset:  toOffset(entry.Offset),
	}
}

func toOffset(entry offsetSchema) domain.Offset {
	return domain.Offset{X: entry.X, Y: entry.Y, Z: entry.Z}
}
