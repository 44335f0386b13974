package application

import (
	"context"
	"fmt"

	"github.com/bnema/otctl/internal/domain"
	"github.com/bnema/otctl/internal/ports"
	"pkt.systems/pslog"
)

// RunProtocol opens a new run, performs the protocol setup and executes its
// steps in order. It stops at the first failing step and returns a *StepError.
// The session state is saved as soon as the run exists so out-of-band controls
// can reach it while steps execute.
func (s *Service) RunProtocol(ctx context.Context, cmd RunProtocolCommand) (RunReport, error) {
	protocol := cmd.Protocol
	if err := protocol.Validate(); err != nil {
		return RunReport{}, err
	}

	progress := cmd.Progress
	if progress == nil {
		progress = func(Progress) {}
	}

	session, err := s.robot.Open(ctx)
	if err != nil {
		return RunReport{}, fmt.Errorf("open run: %w", err)
	}

	report := RunReport{
		RunID:      session.RunID(),
		Aliases:    make(map[string]string, len(protocol.Labware)),
		StepsTotal: len(protocol.Steps),
		StartedAt:  s.clock.Now(),
	}
	log := pslog.Ctx(ctx)
	log.Info("protocol started", "run", report.RunID, "protocol", protocol.Name, "steps", report.StepsTotal)

	if err := s.saveState(ctx, session); err != nil {
		return s.finish(report), err
	}

	setupErr := s.setup(ctx, session, protocol, report, progress)
	if err := s.saveState(ctx, session); err != nil {
		return s.finish(report), err
	}
	if setupErr != nil {
		return s.finish(report), setupErr
	}

	for i, step := range protocol.Steps {
		progress(Progress{Phase: PhaseStep, RunID: report.RunID, Index: i + 1, Total: report.StepsTotal, Message: string(step.Kind)})

		if err := s.runStep(ctx, session, report.Aliases, step); err != nil {
			log.Warn("protocol step failed", "run", report.RunID, "step", i+1, "action", string(step.Kind), "err", err)
			return s.finish(report), &StepError{Index: i + 1, Kind: step.Kind, Err: err}
		}
		report.StepsCompleted++
	}

	progress(Progress{Phase: PhaseDone, RunID: report.RunID, Index: report.StepsCompleted, Total: report.StepsTotal})
	report = s.finish(report)
	log.Info("protocol finished", "run", report.RunID, "steps", report.StepsCompleted, "elapsed", report.Elapsed())

	return report, nil
}

func (s *Service) finish(report RunReport) RunReport {
	report.FinishedAt = s.clock.Now()
	return report
}

func (s *Service) setup(ctx context.Context, session ports.RobotSession, protocol domain.Protocol, report RunReport, progress func(Progress)) error {
	total := len(protocol.Labware) + len(protocol.Pipettes)
	index := 0

	for _, labware := range protocol.Labware {
		index++
		progress(Progress{Phase: PhaseSetup, RunID: report.RunID, Index: index, Total: total, Message: "labware " + labware.ID})

		var (
			alias string
			err   error
		)
		if labware.Definition != nil {
			alias, err = session.LoadCustomLabware(ctx, *labware.Definition, labware.Slot)
		} else {
			alias, err = session.LoadLabware(ctx, labware.Slot, labware.LoadName, domain.LoadLabwareOptions{
				Namespace: labware.Namespace,
				Version:   labware.Version,
			})
		}
		if err != nil {
			return fmt.Errorf("load labware %q: %w", labware.ID, err)
		}
		report.Aliases[labware.ID] = alias

		if labware.Offset != nil {
			if err := session.AddLabwareOffsets(ctx, alias, *labware.Offset); err != nil {
				return fmt.Errorf("add offsets for labware %q: %w", labware.ID, err)
			}
		}
	}

	for _, pipette := range protocol.Pipettes {
		index++
		progress(Progress{Phase: PhaseSetup, RunID: report.RunID, Index: index, Total: total, Message: "pipette " + pipette.Name})

		if err := session.LoadPipette(ctx, pipette.Name, pipette.Mount); err != nil {
			return fmt.Errorf("load pipette %q: %w", pipette.Name, err)
		}
	}

	return nil
}

func (s *Service) runStep(ctx context.Context, session ports.RobotSession, aliases map[string]string, step domain.Step) error {
	alias := func(id string) string {
		if resolved, ok := aliases[id]; ok {
			return resolved
		}
		return id
	}

	switch step.Kind {
	case domain.StepHome:
		return session.Home(ctx)
	case domain.StepLights:
		return session.Lights(ctx, step.Lights)
	case domain.StepPause, domain.StepPlay, domain.StepStop:
		return session.ControlAction(ctx, string(step.Kind))
	case domain.StepTransfer:
		from, to := *step.From, *step.To
		from.Labware = alias(from.Labware)
		to.Labware = alias(to.Labware)
		return s.transfer(ctx, session, domain.TransferRequest{
			Pipette: step.Pipette,
			From:    from,
			To:      to,
			Volume:  step.Volume,
			Speed:   step.Speed,
		})
	}

	target := domain.WellTarget{
		Labware: alias(step.Labware),
		Well:    step.Well,
		Pipette: step.Pipette,
		Origin:  step.Origin,
		Offset:  step.Offset,
	}

	switch step.Kind {
	case domain.StepMoveToWell:
		return session.MoveToWell(ctx, domain.MoveToWellRequest{WellTarget: target, Speed: step.Speed})
	case domain.StepPickUpTip:
		return session.PickUpTip(ctx, domain.PickUpTipRequest{WellTarget: target})
	case domain.StepDropTip:
		return session.DropTip(ctx, domain.DropTipRequest{
			WellTarget:            target,
			HomeAfter:             step.HomeAfter,
			AlternateDropLocation: step.AlternateDropLocation,
		})
	case domain.StepAspirate:
		return session.Aspirate(ctx, domain.AspirateRequest{WellTarget: target, Volume: step.Volume, FlowRate: step.FlowRate})
	case domain.StepDispense:
		return session.Dispense(ctx, domain.DispenseRequest{WellTarget: target, Volume: step.Volume, FlowRate: step.FlowRate})
	case domain.StepBlowout:
		return session.Blowout(ctx, domain.BlowoutRequest{WellTarget: target, FlowRate: step.FlowRate})
	default:
		return fmt.Errorf("unsupported step action %q", step.Kind)
	}
}
