package robot

import (
	"context"

	"github.com/bnema/otctl/internal/domain"
	"github.com/bnema/otctl/internal/ports"
)

var _ ports.RobotConnector = Connector{}

// Connector hands out sessions sharing one Config.
type Connector struct {
	Config Config
}

func (c Connector) Open(ctx context.Context) (ports.RobotSession, error) {
	session, err := NewRunSession(ctx, c.Config)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (c Connector) Attach(state domain.SessionState) (ports.RobotSession, error) {
	session, err := AttachRunSession(c.Config, state)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Controller returns a client for Home and Lights without creating a run.
func (c Connector) Controller() (ports.RobotController, error) {
	session, err := newRunSession(c.Config)
	if err != nil {
		return nil, err
	}
	return session, nil
}
