package domain

import "errors"

// Local precondition failures. None of them is raised after a request was sent.
var (
	ErrLabwareNotFound    = errors.New("labware alias not found")
	ErrPipetteNotFound    = errors.New("pipette alias not found")
	ErrInvalidRunAction   = errors.New("invalid run action")
	ErrInvalidLightsState = errors.New("invalid lights state")
	ErrInvalidWellOrigin  = errors.New("invalid well origin")
	ErrInvalidMount       = errors.New("invalid pipette mount")
	ErrNotFinite          = errors.New("value must be a finite number")
)

var (
	ErrLabwareNotInRun = errors.New("labware not found in run information")
	ErrSessionNotFound = errors.New("no active run session")
)

func IsPrecondition(err error) bool {
	for _, target := range []error{
		ErrLabwareNotFound,
		ErrPipetteNotFound,
		ErrInvalidRunAction,
		ErrInvalidLightsState,
		ErrInvalidWellOrigin,
		ErrInvalidMount,
		ErrNotFinite,
		ErrInvalidVolume,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
