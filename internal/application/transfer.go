package application

import (
	"context"
	"fmt"

	"github.com/bnema/otctl/internal/domain"
	"github.com/bnema/otctl/internal/ports"
	"pkt.systems/pslog"
)

// transfer moves req.Volume in loads of at most s.maxVolume. Each load is a move
// to the source top, an aspirate, a move to the destination top and a dispense.
func (s *Service) transfer(ctx context.Context, session ports.RobotSession, req domain.TransferRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	chunks, err := domain.TransferChunks(req.Volume, s.maxVolume)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	speed := req.Speed
	if speed <= 0 {
		speed = domain.DefaultTransferSpeed
	}

	log := pslog.Ctx(ctx)
	log.Info("transfer started", "run", session.RunID(), "from", req.From.Labware, "to", req.To.Labware, "volume_ul", req.Volume, "loads", len(chunks))

	for i, volume := range chunks {
		if err := session.MoveToWell(ctx, domain.MoveToWellRequest{WellTarget: travelTarget(req.Pipette, req.From), Speed: speed}); err != nil {
			return fmt.Errorf("transfer load %d: move to source: %w", i+1, err)
		}
		if err := session.Aspirate(ctx, domain.AspirateRequest{WellTarget: liquidTarget(req.Pipette, req.From), Volume: volume}); err != nil {
			return fmt.Errorf("transfer load %d: aspirate: %w", i+1, err)
		}
		if err := session.MoveToWell(ctx, domain.MoveToWellRequest{WellTarget: travelTarget(req.Pipette, req.To), Speed: speed}); err != nil {
			return fmt.Errorf("transfer load %d: move to destination: %w", i+1, err)
		}
		if err := session.Dispense(ctx, domain.DispenseRequest{WellTarget: liquidTarget(req.Pipette, req.To), Volume: volume}); err != nil {
			return fmt.Errorf("transfer load %d: dispense: %w", i+1, err)
		}
		log.Debug("transfer load done", "load", i+1, "volume_ul", volume)
	}

	return nil
}

func travelTarget(pipette string, end domain.TransferEndpoint) domain.WellTarget {
	return domain.WellTarget{
		Labware: end.Labware,
		Well:    end.Well,
		Pipette: pipette,
		Origin:  domain.WellOriginTop,
		Offset:  domain.Offset{X: end.Offset.X, Y: end.Offset.Y},
	}
}

func liquidTarget(pipette string, end domain.TransferEndpoint) domain.WellTarget {
	return domain.WellTarget{
		Labware: end.Labware,
		Well:    end.Well,
		Pipette: pipette,
		Origin:  end.Origin,
		Offset:  end.Offset,
	}
}
