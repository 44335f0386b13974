package application

import "github.com/bnema/otctl/internal/domain"

type TransferCommand = domain.TransferRequest

type RunProtocolCommand struct {
	Protocol domain.Protocol
	// Progress, when set, is called before each setup item and step.
	Progress func(Progress)
}

type ControlCommand struct {
	Action string
}

type LightsCommand struct {
	// State is a bool or a "true"/"false" string.
	State any
}
