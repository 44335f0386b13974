package domain

import (
	"errors"
	"fmt"
	"strings"
)

type StepKind string

const (
	StepHome       StepKind = "home"
	StepLights     StepKind = "lights"
	StepMoveToWell StepKind = "move_to_well"
	StepPickUpTip  StepKind = "pick_up_tip"
	StepDropTip    StepKind = "drop_tip"
	StepAspirate   StepKind = "aspirate"
	StepDispense   StepKind = "dispense"
	StepBlowout    StepKind = "blowout"
	StepTransfer   StepKind = "transfer"
	StepPause      StepKind = "pause"
	StepPlay       StepKind = "play"
	StepStop       StepKind = "stop"
)

var ErrInvalidProtocol = errors.New("invalid protocol")

func (k StepKind) Valid() bool {
	switch k {
	case StepHome, StepLights, StepMoveToWell, StepPickUpTip, StepDropTip, StepAspirate,
		StepDispense, StepBlowout, StepTransfer, StepPause, StepPlay, StepStop:
		return true
	default:
		return false
	}
}

// ProtocolLabware declares labware by protocol id. Either LoadName or
// Definition is set.
type ProtocolLabware struct {
	ID         string
	Slot       int
	LoadName   string
	Namespace  string
	Version    int
	Definition *LabwareDefinition
	Offset     *Offset
}

type ProtocolPipette struct {
	Name  string
	Mount Mount
}

// Step is one protocol action. Labware fields hold protocol ids, not session
// aliases.
type Step struct {
	Kind    StepKind
	Labware string
	Well    string
	Pipette string
	Origin  WellOrigin
	Offset  Offset

	Volume                float64
	FlowRate              float64
	Speed                 float64
	HomeAfter             bool
	AlternateDropLocation bool
	Lights                string

	From *TransferEndpoint
	To   *TransferEndpoint
}

type Protocol struct {
	Name      string
	RobotHost string // overrides the configured robot address when set
	Labware   []ProtocolLabware
	Pipettes  []ProtocolPipette
	Steps     []Step
}

// Validate reports the first invalid entry.
func (p Protocol) Validate() error {
	ids := make(map[string]struct{}, len(p.Labware))
	for i, labware := range p.Labware {
		id := strings.TrimSpace(labware.ID)
		if id == "" {
			return fmt.Errorf("%w: labware %d: id is required", ErrInvalidProtocol, i+1)
		}
		if _, dup := ids[id]; dup {
			return fmt.Errorf("%w: labware %q declared twice", ErrInvalidProtocol, id)
		}
		ids[id] = struct{}{}
		if labware.Slot < 1 {
			return fmt.Errorf("%w: labware %q: slot must be positive", ErrInvalidProtocol, id)
		}
		if labware.LoadName == "" && labware.Definition == nil {
			return fmt.Errorf("%w: labware %q: load_name or definition is required", ErrInvalidProtocol, id)
		}
		if labware.Offset != nil {
			if err := labware.Offset.Validate(); err != nil {
				return fmt.Errorf("%w: labware %q: %w", ErrInvalidProtocol, id, err)
			}
		}
	}

	pipettes := make(map[string]struct{}, len(p.Pipettes))
	for i, pipette := range p.Pipettes {
		if strings.TrimSpace(pipette.Name) == "" {
			return fmt.Errorf("%w: pipette %d: name is required", ErrInvalidProtocol, i+1)
		}
		if _, err := ParseMount(string(pipette.Mount)); err != nil {
			return fmt.Errorf("%w: pipette %q: %w", ErrInvalidProtocol, pipette.Name, err)
		}
		pipettes[pipette.Name] = struct{}{}
	}

	for i, step := range p.Steps {
		if err := step.validate(ids, pipettes); err != nil {
			return fmt.Errorf("%w: step %d (%s): %w", ErrInvalidProtocol, i+1, step.Kind, err)
		}
	}

	return nil
}

func (s Step) validate(labware, pipettes map[string]struct{}) error {
	if !s.Kind.Valid() {
		return fmt.Errorf("unknown action")
	}

	switch s.Kind {
	case StepHome, StepPause, StepPlay, StepStop:
		return nil
	case StepLights:
		_, err := ParseLightsState(s.Lights)
		return err
	case StepTransfer:
		if s.From == nil || s.To == nil {
			return fmt.Errorf("from and to are required")
		}
		for _, end := range []*TransferEndpoint{s.From, s.To} {
			if _, ok := labware[end.Labware]; !ok {
				return fmt.Errorf("%w: %s", ErrLabwareNotFound, end.Labware)
			}
			if _, err := ParseWellOrigin(string(end.Origin), WellOriginTop); err != nil {
				return err
			}
		}
		req := TransferRequest{Volume: s.Volume, Speed: s.Speed, From: *s.From, To: *s.To}
		if err := req.Validate(); err != nil {
			return err
		}
	default:
		if _, ok := labware[s.Labware]; !ok {
			return fmt.Errorf("%w: %s", ErrLabwareNotFound, s.Labware)
		}
		if _, err := ParseWellOrigin(string(s.Origin), WellOriginTop); err != nil {
			return err
		}
		if err := s.Offset.Validate(); err != nil {
			return err
		}
		if s.Kind == StepAspirate || s.Kind == StepDispense {
			if err := checkVolume(s.Volume); err != nil {
				return err
			}
		}
		if !finite(s.FlowRate) {
			return fmt.Errorf("%w: flow_rate is %v", ErrNotFinite, s.FlowRate)
		}
		if !finite(s.Speed) {
			return fmt.Errorf("%w: speed is %v", ErrNotFinite, s.Speed)
		}
	}

	if _, ok := pipettes[s.Pipette]; !ok {
		return fmt.Errorf("%w: %s", ErrPipetteNotFound, s.Pipette)
	}

	return nil
}
