package domain

import (
	"errors"
	"fmt"
)

const (
	DefaultMaxTransferVolume = 1000.0 // µL
	DefaultTransferSpeed     = 100.0  // mm/s
)

var ErrInvalidVolume = errors.New("volume must be positive")

// TransferEndpoint is one side of a transfer. Origin and Offset apply to the
// aspirate or dispense; moves between wells always use the well top and only
// the X/Y part of Offset.
type TransferEndpoint struct {
	Labware string
	Well    string
	Origin  WellOrigin
	Offset  Offset
}

type TransferRequest struct {
	Pipette string
	From    TransferEndpoint
	To      TransferEndpoint
	Volume  float64 // µL
	Speed   float64 // mm/s
}

// Validate checks the numbers of a transfer before any request is sent.
func (r TransferRequest) Validate() error {
	if err := checkVolume(r.Volume); err != nil {
		return err
	}
	if !finite(r.Speed) {
		return fmt.Errorf("%w: speed is %v", ErrNotFinite, r.Speed)
	}
	if err := r.From.Offset.Validate(); err != nil {
		return fmt.Errorf("from: %w", err)
	}
	if err := r.To.Offset.Validate(); err != nil {
		return fmt.Errorf("to: %w", err)
	}
	return nil
}

// TransferChunks splits volume into pipette loads no larger than limit.
func TransferChunks(volume, limit float64) ([]float64, error) {
	if err := checkVolume(volume); err != nil {
		return nil, err
	}
	if limit <= 0 || !finite(limit) {
		limit = DefaultMaxTransferVolume
	}

	var chunks []float64
	for volume > limit {
		chunks = append(chunks, limit)
		volume -= limit
	}

	return append(chunks, volume), nil
}

func checkVolume(volume float64) error {
	if !finite(volume) {
		return fmt.Errorf("%w: %w: volume is %v", ErrInvalidVolume, ErrNotFinite, volume)
	}
	if volume <= 0 {
		return ErrInvalidVolume
	}
	return nil
}
