package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/otctl/internal/domain"
	"github.com/bnema/otctl/internal/ports"
	"pkt.systems/pslog"
)

type Service struct {
	robot     ports.RobotConnector
	sessions  ports.SessionRepository
	journal   ports.CommandJournal
	clock     ports.Clock
	maxVolume float64
}

type Option func(*Service)

// WithMaxTransferVolume caps the volume moved per aspirate/dispense pair.
func WithMaxTransferVolume(volume float64) Option {
	return func(s *Service) {
		if volume > 0 {
			s.maxVolume = volume
		}
	}
}

func NewService(robot ports.RobotConnector, sessions ports.SessionRepository, journal ports.CommandJournal, clock ports.Clock, opts ...Option) *Service {
	if journal == nil {
		journal = ports.NopJournal{}
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	service := &Service{
		robot:     robot,
		sessions:  sessions,
		journal:   journal,
		clock:     clock,
		maxVolume: domain.DefaultMaxTransferVolume,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Session returns the persisted state of the last run started.
func (s *Service) Session(ctx context.Context) (domain.SessionState, error) {
	state, err := s.sessions.Load(ctx)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("load session state: %w", err)
	}
	if state.IsZero() {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}

	return state, nil
}

// ClearSession forgets the persisted run. The run itself is left on the robot.
func (s *Service) ClearSession(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session state: %w", err)
	}
	return nil
}

func (s *Service) Control(ctx context.Context, cmd ControlCommand) error {
	session, err := s.attach(ctx)
	if err != nil {
		return err
	}

	if err := session.ControlAction(ctx, cmd.Action); err != nil {
		return fmt.Errorf("control run %s: %w", session.RunID(), err)
	}

	return nil
}

func (s *Service) Lights(ctx context.Context, cmd LightsCommand) error {
	controller, err := s.robot.Controller()
	if err != nil {
		return fmt.Errorf("connect robot: %w", err)
	}

	if err := controller.Lights(ctx, cmd.State); err != nil {
		return fmt.Errorf("set lights: %w", err)
	}

	return nil
}

func (s *Service) Home(ctx context.Context) error {
	controller, err := s.robot.Controller()
	if err != nil {
		return fmt.Errorf("connect robot: %w", err)
	}

	if err := controller.Home(ctx); err != nil {
		return fmt.Errorf("home robot: %w", err)
	}

	return nil
}

// Transfer moves liquid within the persisted run.
func (s *Service) Transfer(ctx context.Context, cmd TransferCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	session, err := s.attach(ctx)
	if err != nil {
		return err
	}

	return s.transfer(ctx, session, cmd)
}

// Journal lists recorded requests for runID, or for the persisted run when
// runID is empty.
func (s *Service) Journal(ctx context.Context, runID domain.RunID) ([]domain.JournalEntry, error) {
	if runID == "" {
		state, err := s.Session(ctx)
		if err != nil {
			return nil, err
		}
		runID = state.RunID
	}

	entries, err := s.journal.List(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}

	return entries, nil
}

func (s *Service) attach(ctx context.Context) (ports.RobotSession, error) {
	state, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.robot.Attach(state)
	if err != nil {
		return nil, fmt.Errorf("attach run %s: %w", state.RunID, err)
	}

	pslog.Ctx(ctx).Debug("attached to run", "run", state.RunID, "robot", state.BaseURL)

	return session, nil
}

func (s *Service) saveState(ctx context.Context, session ports.RobotSession) error {
	if err := s.sessions.Save(ctx, session.State()); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

// StepError reports the protocol step that stopped a run. Index is 1-based.
type StepError struct {
	Index int
	Kind  domain.StepKind
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func IsStepError(err error) (*StepError, bool) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr, true
	}
	return nil, false
}
