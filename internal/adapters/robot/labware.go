package robot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bnema/otctl/internal/domain"
	"pkt.systems/pslog"
)

const defaultIntent = "setup"

func loadLabwareDefaults(o domain.LoadLabwareOptions) domain.LoadLabwareOptions {
	if o.Namespace == "" {
		o.Namespace = domain.DefaultLabwareNamespace
	}
	if o.Version == 0 {
		o.Version = domain.DefaultLabwareVersion
	}
	if o.Intent == "" {
		o.Intent = defaultIntent
	}
	return o
}

// LoadLabware places labware in a deck slot and returns the alias later
// commands use to refer to it: the load name and slot joined by "_".
func (s *RunSession) LoadLabware(ctx context.Context, slot int, loadName string, opts domain.LoadLabwareOptions) (string, error) {
	opts = loadLabwareDefaults(opts)

	resp, err := s.submitCommand(ctx, "load labware", command{
		CommandType: commandLoadLabware,
		Params: loadLabwareParams{
			Location:  slotLocation{SlotName: strconv.Itoa(slot)},
			LoadName:  loadName,
			Namespace: opts.Namespace,
			Version:   strconv.Itoa(opts.Version),
		},
		Intent: opts.Intent,
	})
	if err != nil {
		return "", err
	}

	var result loadLabwareResult
	if err := decodeResult(resp, &result); err != nil {
		return "", fmt.Errorf("load labware: %w", err)
	}
	if result.LabwareID == "" {
		return "", fmt.Errorf("load labware: response missing labwareId")
	}

	alias := domain.LabwareAlias(loadName, slot)
	s.registry.RegisterLabware(domain.LabwareEntry{
		Alias:    alias,
		Name:     loadName,
		RemoteID: result.LabwareID,
		Slot:     slot,
	})

	pslog.Ctx(ctx).Info("labware loaded", "run", s.runID, "labware", loadName, "slot", slot, "labware_id", result.LabwareID)

	return alias, nil
}

// LoadCustomLabware registers a labware definition with the run, then loads it
// using the definition's own load name, namespace and version.
func (s *RunSession) LoadCustomLabware(ctx context.Context, definition domain.LabwareDefinition, slot int) (string, error) {
	pslog.Ctx(ctx).Debug("loading custom labware", "labware", definition.LoadName, "slot", slot)

	if _, err := s.send(ctx, request{
		op:     "load custom labware",
		method: http.MethodPost,
		path:   s.runPath("/labware_definitions"),
		body:   envelope{Data: definition.Raw},
		want:   http.StatusCreated,
	}); err != nil {
		return "", err
	}

	return s.LoadLabware(ctx, slot, definition.LoadName, domain.LoadLabwareOptions{
		Namespace: definition.Namespace,
		Version:   definition.Version,
		Intent:    defaultIntent,
	})
}

// AddLabwareOffsets registers a calibration offset for loaded labware, scoped to
// its definition and current slot as the run reports them.
func (s *RunSession) AddLabwareOffsets(ctx context.Context, alias string, offset domain.Offset) error {
	entry, err := s.registry.Labware(alias)
	if err != nil {
		return err
	}

	info, err := s.RunInfo(ctx)
	if err != nil {
		return err
	}

	var match *RunLabware
	for i := range info.Labware {
		if info.Labware[i].ID == entry.RemoteID {
			match = &info.Labware[i]
		}
	}
	if match == nil || match.DefinitionURI == "" {
		return fmt.Errorf("%w: %s (%s)", domain.ErrLabwareNotInRun, alias, entry.RemoteID)
	}

	_, err = s.send(ctx, request{
		op:     "add labware offsets",
		method: http.MethodPost,
		path:   s.runPath("/labware_offsets"),
		body: envelope{Data: labwareOffset{
			DefinitionURI: match.DefinitionURI,
			Location:      slotLocation{SlotName: match.Location.SlotName},
			Vector: offsetVector{
				X: formatNumber(offset.X),
				Y: formatNumber(offset.Y),
				Z: formatNumber(offset.Z),
			},
		}},
		want: http.StatusCreated,
	})
	if err != nil {
		return err
	}

	pslog.Ctx(ctx).Info("labware offsets added", "run", s.runID, "labware", alias, "definition_uri", match.DefinitionURI)

	return nil
}

func decodeResult(resp commandResponse, target any) error {
	if len(resp.Data.Result) == 0 {
		return fmt.Errorf("response missing result")
	}
	if err := json.Unmarshal(resp.Data.Result, target); err != nil {
		return fmt.Errorf("decode command result: %w", err)
	}
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
