package robot

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bnema/otctl/internal/domain"
	"pkt.systems/pslog"
)

// LoadPipette mounts a pipette for the run. Loading the same pipette name twice
// replaces the earlier registry entry.
func (s *RunSession) LoadPipette(ctx context.Context, name string, mount domain.Mount) error {
	mount, err := domain.ParseMount(string(mount))
	if err != nil {
		return err
	}

	resp, err := s.submitCommand(ctx, "load pipette", command{
		CommandType: commandLoadPipette,
		Params: loadPipetteParams{
			PipetteName: name,
			Mount:       string(mount),
		},
		Intent: defaultIntent,
	})
	if err != nil {
		return err
	}

	var result loadPipetteResult
	if err := decodeResult(resp, &result); err != nil {
		return fmt.Errorf("load pipette: %w", err)
	}
	if result.PipetteID == "" {
		return fmt.Errorf("load pipette: response missing pipetteId")
	}

	s.registry.RegisterPipette(domain.PipetteEntry{
		Name:     name,
		RemoteID: result.PipetteID,
		Mount:    mount,
	})

	pslog.Ctx(ctx).Info("pipette loaded", "run", s.runID, "pipette", name, "pipette_id", result.PipetteID)

	return nil
}

// Home homes the whole robot. It is not part of the run's command stream.
func (s *RunSession) Home(ctx context.Context) error {
	if _, err := s.send(ctx, request{
		op:     "home robot",
		method: http.MethodPost,
		path:   "/robot/home",
		body:   homeRequest{Target: "robot"},
		want:   http.StatusOK,
	}); err != nil {
		return err
	}

	pslog.Ctx(ctx).Info("robot homed")
	return nil
}

// Lights switches the deck lights. state may be a bool or a "true"/"false"
// string in any case.
func (s *RunSession) Lights(ctx context.Context, state any) error {
	normalized, err := domain.ParseLightsState(state)
	if err != nil {
		return err
	}

	if _, err := s.send(ctx, request{
		op:     "set lights",
		method: http.MethodPost,
		path:   "/robot/lights",
		body:   lightsRequest{On: string(normalized)},
		want:   http.StatusOK,
	}); err != nil {
		return err
	}

	pslog.Ctx(ctx).Info("lights set", "on", string(normalized))
	return nil
}

// ControlAction asks the robot to pause, play or stop the run. The request
// returns once the action is accepted; the resulting run state is not polled.
func (s *RunSession) ControlAction(ctx context.Context, action string) error {
	normalized, err := domain.ParseRunAction(action)
	if err != nil {
		return err
	}

	if _, err := s.send(ctx, request{
		op:     "run action",
		method: http.MethodPost,
		path:   s.runPath("/actions"),
		body:   envelope{Data: runAction{ActionType: string(normalized)}},
		want:   http.StatusCreated,
	}); err != nil {
		return err
	}

	pslog.Ctx(ctx).Info("run action accepted", "run", s.runID, "action", string(normalized))
	return nil
}
