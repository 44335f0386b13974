package robot

import "encoding/json"

// Wire shapes for the robot HTTP API. Some numeric fields travel as strings and
// others as numbers; the split follows what the robot accepts per command type.

const (
	commandLoadLabware = "loadLabware"
	commandLoadPipette = "loadPipette"
	commandPickUpTip   = "pickUpTip"
	commandDropTip     = "dropTip"
	commandAspirate    = "aspirate"
	commandDispense    = "dispense"
	commandBlowout     = "blowout"
	commandMoveToWell  = "moveToWell"
)

type envelope struct {
	Data any `json:"data"`
}

type command struct {
	CommandType string `json:"commandType"`
	Params      any    `json:"params"`
	Intent      string `json:"intent"`
}

type commandResponse struct {
	Data struct {
		ID     string          `json:"id"`
		Status string          `json:"status"`
		Result json.RawMessage `json:"result"`
	} `json:"data"`
}

type createRunResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type slotLocation struct {
	SlotName string `json:"slotName"`
}

type loadLabwareParams struct {
	Location  slotLocation `json:"location"`
	LoadName  string       `json:"loadName"`
	Namespace string       `json:"namespace"`
	Version   string       `json:"version"`
}

type loadLabwareResult struct {
	LabwareID string `json:"labwareId"`
}

type loadPipetteParams struct {
	PipetteName string `json:"pipetteName"`
	Mount       string `json:"mount"`
}

type loadPipetteResult struct {
	PipetteID string `json:"pipetteId"`
}

type wellOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type wellLocation struct {
	Origin string     `json:"origin"`
	Offset wellOffset `json:"offset"`
}

type pickUpTipParams struct {
	LabwareID    string       `json:"labwareId"`
	WellName     string       `json:"wellName"`
	WellLocation wellLocation `json:"wellLocation"`
	PipetteID    string       `json:"pipetteId"`
}

type dropTipParams struct {
	PipetteID             string       `json:"pipetteId"`
	LabwareID             string       `json:"labwareId"`
	WellName              string       `json:"wellName"`
	WellLocation          wellLocation `json:"wellLocation"`
	HomeAfter             bool         `json:"homeAfter"`
	AlternateDropLocation bool         `json:"alternateDropLocation"`
}

type aspirateParams struct {
	LabwareID    string       `json:"labwareId"`
	WellName     string       `json:"wellName"`
	WellLocation wellLocation `json:"wellLocation"`
	FlowRate     string       `json:"flowRate"`
	Volume       string       `json:"volume"`
	PipetteID    string       `json:"pipetteId"`
}

type dispenseParams struct {
	LabwareID    string       `json:"labwareId"`
	WellName     string       `json:"wellName"`
	WellLocation wellLocation `json:"wellLocation"`
	FlowRate     float64      `json:"flowRate"`
	Volume       float64      `json:"volume"`
	PipetteID    string       `json:"pipetteId"`
}

type blowoutParams struct {
	LabwareID    string       `json:"labwareId"`
	WellName     string       `json:"wellName"`
	WellLocation wellLocation `json:"wellLocation"`
	FlowRate     float64      `json:"flowRate"`
	PipetteID    string       `json:"pipetteId"`
}

type moveToWellParams struct {
	Speed        float64      `json:"speed"`
	LabwareID    string       `json:"labwareId"`
	WellName     string       `json:"wellName"`
	WellLocation wellLocation `json:"wellLocation"`
	PipetteID    string       `json:"pipetteId"`
}

type labwareOffset struct {
	DefinitionURI string       `json:"definitionUri"`
	Location      slotLocation `json:"location"`
	Vector        offsetVector `json:"vector"`
}

type offsetVector struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z"`
}

type runAction struct {
	ActionType string `json:"actionType"`
}

type homeRequest struct {
	Target string `json:"target"`
}

type lightsRequest struct {
	On string `json:"on"`
}

// RunInfo is the subset of GET /runs/{id} the client reads.
type RunInfo struct {
	ID       string           `json:"id"`
	Status   string           `json:"status"`
	Labware  []RunLabware     `json:"labware"`
	Pipettes []RunPipetteInfo `json:"pipettes"`
}

type RunLabware struct {
	ID            string       `json:"id"`
	LoadName      string       `json:"loadName"`
	DefinitionURI string       `json:"definitionUri"`
	Location      slotLocation `json:"location"`
}

type RunPipetteInfo struct {
	ID          string `json:"id"`
	PipetteName string `json:"pipetteName"`
	Mount       string `json:"mount"`
}

type runInfoResponse struct {
	Data RunInfo `json:"data"`
}
