package domain

import (
	"fmt"
	"strings"
)

type Mount string

const (
	MountLeft  Mount = "left"
	MountRight Mount = "right"
)

func ParseMount(raw string) (Mount, error) {
	switch mount := Mount(strings.ToLower(strings.TrimSpace(raw))); mount {
	case MountLeft, MountRight:
		return mount, nil
	default:
		return "", fmt.Errorf("%w: %q, needs to be 'left' or 'right'", ErrInvalidMount, raw)
	}
}

type PipetteEntry struct {
	// Name is the pipette model, e.g. "p1000_single_gen2", and doubles as the alias.
	Name     string
	RemoteID string
	Mount    Mount
}
