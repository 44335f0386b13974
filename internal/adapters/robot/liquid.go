package robot

import (
	"context"
	"strings"

	"github.com/bnema/otctl/internal/domain"
	"pkt.systems/pslog"
)

const (
	DefaultFlowRate = 274.7 // µL/s
	DefaultSpeed    = 400   // mm/s
	defaultTipWell  = "A1"
)

type resolvedTarget struct {
	labwareID string
	pipetteID string
	well      string
	location  wellLocation
	intent    string
}

func (s *RunSession) resolve(target domain.WellTarget, defaultOrigin domain.WellOrigin, defaultWell string) (resolvedTarget, error) {
	labware, err := s.registry.Labware(target.Labware)
	if err != nil {
		return resolvedTarget{}, err
	}
	pipette, err := s.registry.Pipette(target.Pipette)
	if err != nil {
		return resolvedTarget{}, err
	}

	origin, err := domain.ParseWellOrigin(string(target.Origin), defaultOrigin)
	if err != nil {
		return resolvedTarget{}, err
	}
	if err := target.Offset.Validate(); err != nil {
		return resolvedTarget{}, err
	}

	well := strings.TrimSpace(target.Well)
	if well == "" {
		well = defaultWell
	}
	if well == "" {
		return resolvedTarget{}, ErrWellRequired
	}

	intent := target.Intent
	if intent == "" {
		intent = defaultIntent
	}

	return resolvedTarget{
		labwareID: labware.RemoteID,
		pipetteID: pipette.RemoteID,
		well:      well,
		location: wellLocation{
			Origin: string(origin),
			Offset: wellOffset{X: target.Offset.X, Y: target.Offset.Y, Z: target.Offset.Z},
		},
		intent: intent,
	}, nil
}

func (s *RunSession) PickUpTip(ctx context.Context, req domain.PickUpTipRequest) error {
	target, err := s.resolve(req.WellTarget, domain.WellOriginTop, defaultTipWell)
	if err != nil {
		return err
	}

	if _, err := s.submitCommand(ctx, "pick up tip", command{
		CommandType: commandPickUpTip,
		Params: pickUpTipParams{
			LabwareID:    target.labwareID,
			WellName:     target.well,
			WellLocation: target.location,
			PipetteID:    target.pipetteID,
		},
		Intent: target.intent,
	}); err != nil {
		return err
	}

	pslog.Ctx(ctx).Info("tip picked up", "labware", req.Labware, "well", target.well)
	return nil
}

func (s *RunSession) DropTip(ctx context.Context, req domain.DropTipRequest) error {
	target, err := s.resolve(req.WellTarget, domain.WellOriginCenter, defaultTipWell)
	if err != nil {
		return err
	}

	if _, err := s.submitCommand(ctx, "drop tip", command{
		CommandType: commandDropTip,
		Params: dropTipParams{
			PipetteID:             target.pipetteID,
			LabwareID:             target.labwareID,
			WellName:              target.well,
			WellLocation:          target.location,
			HomeAfter:             req.HomeAfter,
			AlternateDropLocation: req.AlternateDropLocation,
		},
		Intent: target.intent,
	}); err != nil {
		return err
	}

	pslog.Ctx(ctx).Info("tip dropped", "labware", req.Labware, "well", target.well)
	return nil
}

// Aspirate sends volume and flow rate as strings.
func (s *RunSession) Aspirate(ctx context.Context, req domain.AspirateRequest) error {
	target, err := s.resolve(req.WellTarget, domain.WellOriginCenter, "")
	if err != nil {
		return err
	}

	pslog.Ctx(ctx).Info("aspirating", "labware", req.Labware, "well", target.well, "volume_ul", req.Volume)

	_, err = s.submitCommand(ctx, "aspirate", command{
		CommandType: commandAspirate,
		Params: aspirateParams{
			LabwareID:    target.labwareID,
			WellName:     target.well,
			WellLocation: target.location,
			FlowRate:     formatNumber(flowRateOrDefault(req.FlowRate)),
			Volume:       formatNumber(req.Volume),
			PipetteID:    target.pipetteID,
		},
		Intent: target.intent,
	})
	return err
}

// Dispense sends volume and flow rate as numbers.
func (s *RunSession) Dispense(ctx context.Context, req domain.DispenseRequest) error {
	target, err := s.resolve(req.WellTarget, domain.WellOriginTop, "")
	if err != nil {
		return err
	}

	pslog.Ctx(ctx).Info("dispensing", "labware", req.Labware, "well", target.well, "volume_ul", req.Volume)

	_, err = s.submitCommand(ctx, "dispense", command{
		CommandType: commandDispense,
		Params: dispenseParams{
			LabwareID:    target.labwareID,
			WellName:     target.well,
			WellLocation: target.location,
			FlowRate:     flowRateOrDefault(req.FlowRate),
			Volume:       req.Volume,
			PipetteID:    target.pipetteID,
		},
		Intent: target.intent,
	})
	return err
}

func (s *RunSession) Blowout(ctx context.Context, req domain.BlowoutRequest) error {
	target, err := s.resolve(req.WellTarget, domain.WellOriginTop, "")
	if err != nil {
		return err
	}

	pslog.Ctx(ctx).Info("blowing out", "labware", req.Labware, "well", target.well)

	_, err = s.submitCommand(ctx, "blowout", command{
		CommandType: commandBlowout,
		Params: blowoutParams{
			LabwareID:    target.labwareID,
			WellName:     target.well,
			WellLocation: target.location,
			FlowRate:     flowRateOrDefault(req.FlowRate),
			PipetteID:    target.pipetteID,
		},
		Intent: target.intent,
	})
	return err
}

func (s *RunSession) MoveToWell(ctx context.Context, req domain.MoveToWellRequest) error {
	target, err := s.resolve(req.WellTarget, domain.WellOriginTop, "")
	if err != nil {
		return err
	}

	speed := req.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}

	pslog.Ctx(ctx).Info("moving pipette", "labware", req.Labware, "well", target.well, "speed", speed)

	_, err = s.submitCommand(ctx, "move to well", command{
		CommandType: commandMoveToWell,
		Params: moveToWellParams{
			Speed:        speed,
			LabwareID:    target.labwareID,
			WellName:     target.well,
			WellLocation: target.location,
			PipetteID:    target.pipetteID,
		},
		Intent: target.intent,
	})
	return err
}

func flowRateOrDefault(rate float64) float64 {
	if rate <= 0 {
		return DefaultFlowRate
	}
	return rate
}
