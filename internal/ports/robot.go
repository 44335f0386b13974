package ports

import (
	"context"

	"github.com/bnema/otctl/internal/domain"
)

// RobotController covers the robot-level endpoints that do not need a run.
type RobotController interface {
	Home(ctx context.Context) error
	Lights(ctx context.Context, state any) error
}

// RobotSession is one remote run. Calls on a session are not safe for
// concurrent use.
type RobotSession interface {
	RobotController

	RunID() domain.RunID
	State() domain.SessionState

	LoadLabware(ctx context.Context, slot int, loadName string, opts domain.LoadLabwareOptions) (string, error)
	LoadCustomLabware(ctx context.Context, definition domain.LabwareDefinition, slot int) (string, error)
	AddLabwareOffsets(ctx context.Context, alias string, offset domain.Offset) error
	LoadPipette(ctx context.Context, name string, mount domain.Mount) error

	PickUpTip(ctx context.Context, req domain.PickUpTipRequest) error
	DropTip(ctx context.Context, req domain.DropTipRequest) error
	Aspirate(ctx context.Context, req domain.AspirateRequest) error
	Dispense(ctx context.Context, req domain.DispenseRequest) error
	Blowout(ctx context.Context, req domain.BlowoutRequest) error
	MoveToWell(ctx context.Context, req domain.MoveToWellRequest) error

	ControlAction(ctx context.Context, action string) error
}

// RobotConnector opens new runs and reattaches to persisted ones.
type RobotConnector interface {
	Open(ctx context.Context) (RobotSession, error)
	Attach(state domain.SessionState) (RobotSession, error)
	Controller() (RobotController, error)
}
