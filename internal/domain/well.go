package domain

import (
	"fmt"
	"math"
	"strings"
)

type WellOrigin string

const (
	WellOriginTop    WellOrigin = "top"
	WellOriginBottom WellOrigin = "bottom"
	WellOriginCenter WellOrigin = "center"
)

// ParseWellOrigin validates an origin, falling back to def when raw is blank.
func ParseWellOrigin(raw string, def WellOrigin) (WellOrigin, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return def, nil
	}

	switch origin := WellOrigin(trimmed); origin {
	case WellOriginTop, WellOriginBottom, WellOriginCenter:
		return origin, nil
	default:
		return "", fmt.Errorf("%w: %q, needs to be 'top', 'bottom', or 'center'", ErrInvalidWellOrigin, raw)
	}
}

// Offset is a displacement from a well origin in millimetres.
type Offset struct {
	X float64
	Y float64
	Z float64
}

type WellLocation struct {
	Origin WellOrigin
	Offset Offset
}

// Validate rejects NaN and infinite components.
func (o Offset) Validate() error {
	for _, axis := range []struct {
		name  string
		value float64
	}{{"x", o.X}, {"y", o.Y}, {"z", o.Z}} {
		if !finite(axis.value) {
			return fmt.Errorf("%w: offset %s is %v", ErrNotFinite, axis.name, axis.value)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
