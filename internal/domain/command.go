package domain

// WellTarget addresses a well of loaded labware with a loaded pipette. Labware
// is the alias returned when it was loaded, Pipette the pipette name.
type WellTarget struct {
	Labware string
	Well    string
	Pipette string
	// Origin defaults per command when empty.
	Origin WellOrigin
	Offset Offset
	Intent string
}

type LoadLabwareOptions struct {
	Namespace string
	Version   int
	Intent    string
}

type PickUpTipRequest struct {
	WellTarget
}

type DropTipRequest struct {
	WellTarget
	HomeAfter             bool
	AlternateDropLocation bool
}

type AspirateRequest struct {
	WellTarget
	Volume   float64 // µL
	FlowRate float64 // µL/s
}

type DispenseRequest struct {
	WellTarget
	Volume   float64
	FlowRate float64
}

type BlowoutRequest struct {
	WellTarget
	FlowRate float64
}

type MoveToWellRequest struct {
	WellTarget
	Speed float64 // mm/s
}
