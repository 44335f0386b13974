package simulator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"pkt.systems/pslog"
)

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type commandRequest struct {
	CommandType string          `json:"commandType"`
	Params      json.RawMessage `json:"params"`
	Intent      string          `json:"intent"`
}

type slotLocation struct {
	SlotName json.RawMessage `json:"slotName"`
}

type loadLabwareParams struct {
	Location  slotLocation    `json:"location"`
	LoadName  string          `json:"loadName"`
	Namespace string          `json:"namespace"`
	Version   json.RawMessage `json:"version"`
}

type loadPipetteParams struct {
	PipetteName string `json:"pipetteName"`
	Mount       string `json:"mount"`
}

type wellParams struct {
	LabwareID string `json:"labwareId"`
	WellName  string `json:"wellName"`
	PipetteID string `json:"pipetteId"`
}

type labwareOffsetRequest struct {
	DefinitionURI string       `json:"definitionUri"`
	Location      slotLocation `json:"location"`
	Vector        struct {
		X json.RawMessage `json:"x"`
		Y json.RawMessage `json:"y"`
		Z json.RawMessage `json:"z"`
	} `json:"vector"`
}

type actionRequest struct {
	ActionType string `json:"actionType"`
}

type lightsRequest struct {
	On json.RawMessage `json:"on"`
}

var wellCommands = map[string]bool{
	"pickUpTip":  true,
	"dropTip":    true,
	"aspirate":   true,
	"dispense":   true,
	"blowout":    true,
	"moveToWell": true,
}

func (s *Simulator) createRun(c echo.Context) error {
	s.mu.Lock()
	run := &Run{ID: newID(), Status: "idle", CreatedAt: s.now().UTC()}
	s.runs[run.ID] = run
	s.mu.Unlock()

	pslog.Ctx(c.Request().Context()).Info("simulated run created", "run", run.ID)

	return c.JSON(http.StatusCreated, map[string]any{"data": map[string]any{
		"id":        run.ID,
		"status":    run.Status,
		"createdAt": run.CreatedAt.Format(time.RFC3339),
		"current":   true,
	}})
}

func (s *Simulator) getRun(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[c.Param("run_id")]
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody("RunNotFound", "run "+c.Param("run_id")+" not found"))
	}

	labware := make([]map[string]any, 0, len(run.Labware))
	for _, entry := range run.Labware {
		labware = append(labware, map[string]any{
			"id":            entry.ID,
			"loadName":      entry.LoadName,
			"definitionUri": entry.DefinitionURI,
			"location":      map[string]string{"slotName": entry.Slot},
		})
	}
	pipettes := make([]map[string]any, 0, len(run.Pipettes))
	for _, entry := range run.Pipettes {
		pipettes = append(pipettes, map[string]any{
			"id":          entry.ID,
			"pipetteName": entry.Name,
			"mount":       entry.Mount,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"data": map[string]any{
		"id":        run.ID,
		"status":    run.Status,
		"createdAt": run.CreatedAt.Format(time.RFC3339),
		"labware":   labware,
		"pipettes":  pipettes,
		"actions":   run.Actions,
	}})
}

func (s *Simulator) createCommand(c echo.Context) error {
	var body envelope
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("InvalidRequest", err.Error()))
	}
	var req commandRequest
	if err := json.Unmarshal(body.Data, &req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorBody("InvalidRequest", "data must be a command"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[c.Param("run_id")]
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody("RunNotFound", "run "+c.Param("run_id")+" not found"))
	}
	if run.Status == "stopped" || run.Status == "succeeded" {
		return c.JSON(http.StatusConflict, errorBody("RunStopped", "run "+run.ID+" is not current"))
	}
	if status, failing := s.failures["command:"+req.CommandType]; failing {
		return c.JSON(status, errorBody("InjectedFailure", "injected failure for "+req.CommandType))
	}

	result, err := s.execute(run, req)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorBody("CommandFailed", err.Error()))
	}

	command := Command{ID: newID(), CommandType: req.CommandType, Intent: req.Intent, Params: req.Params}
	run.Commands = append(run.Commands, command)

	return c.JSON(http.StatusCreated, map[string]any{"data": map[string]any{
		"id":          command.ID,
		"key":         command.ID,
		"commandType": command.CommandType,
		"intent":      command.Intent,
		"status":      "succeeded",
		"params":      command.Params,
		"result":      result,
		"createdAt":   s.now().UTC().Format(time.RFC3339),
	}})
}

// execute applies a command to run. The caller holds s.mu.
func (s *Simulator) execute(run *Run, req commandRequest) (map[string]any, error) {
	switch req.CommandType {
	case "loadLabware":
		var params loadLabwareParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, fmt.Errorf("invalid loadLabware params: %w", err)
		}
		if params.LoadName == "" {
			return nil, fmt.Errorf("loadName is required")
		}
		labware := Labware{
			ID:        newID(),
			LoadName:  params.LoadName,
			Namespace: params.Namespace,
			Version:   scalarString(params.Version),
			Slot:      scalarString(params.Location.SlotName),
		}
		labware.DefinitionURI = strings.Join([]string{labware.Namespace, labware.LoadName, labware.Version}, "/")
		run.Labware = append(run.Labware, labware)
		return map[string]any{"labwareId": labware.ID, "offsetId": nil}, nil

	case "loadPipette":
		var params loadPipetteParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, fmt.Errorf("invalid loadPipette params: %w", err)
		}
		if params.Mount != "left" && params.Mount != "right" {
			return nil, fmt.Errorf("invalid mount %q", params.Mount)
		}
		pipette := Pipette{ID: newID(), Name: params.PipetteName, Mount: params.Mount}
		run.Pipettes = append(run.Pipettes, pipette)
		return map[string]any{"pipetteId": pipette.ID}, nil
	}

	if !wellCommands[req.CommandType] {
		return nil, fmt.Errorf("unsupported command type %q", req.CommandType)
	}

	var params wellParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid %s params: %w", req.CommandType, err)
	}
	if !hasLabware(run, params.LabwareID) {
		return nil, fmt.Errorf("labware %q is not loaded", params.LabwareID)
	}
	if !hasPipette(run, params.PipetteID) {
		return nil, fmt.Errorf("pipette %q is not loaded", params.PipetteID)
	}
	if params.WellName == "" {
		return nil, fmt.Errorf("wellName is required")
	}

	return map[string]any{"position": map[string]float64{"x": 0, "y": 0, "z": 0}}, nil
}

func (s *Simulator) addLabwareDefinition(c echo.Context) error {
	var body envelope
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("InvalidRequest", err.Error()))
	}

	var definition struct {
		Namespace  string          `json:"namespace"`
		Version    json.RawMessage `json:"version"`
		Parameters struct {
			LoadName string `json:"loadName"`
		} `json:"parameters"`
	}
	if err := json.Unmarshal(body.Data, &definition); err != nil || definition.Parameters.LoadName == "" {
		return c.JSON(http.StatusUnprocessableEntity, errorBody("InvalidLabwareDefinition", "definition must carry parameters.loadName"))
	}

	uri := strings.Join([]string{definition.Namespace, definition.Parameters.LoadName, scalarString(definition.Version)}, "/")

	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[c.Param("run_id")]
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody("RunNotFound", "run "+c.Param("run_id")+" not found"))
	}
	run.Definitions = append(run.Definitions, uri)

	return c.JSON(http.StatusCreated, map[string]any{"data": map[string]any{"definitionUri": uri}})
}

func (s *Simulator) addLabwareOffset(c echo.Context) error {
	var body envelope
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("InvalidRequest", err.Error()))
	}
	var req labwareOffsetRequest
	if err := json.Unmarshal(body.Data, &req); err != nil || req.DefinitionURI == "" {
		return c.JSON(http.StatusUnprocessableEntity, errorBody("InvalidRequest", "definitionUri is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[c.Param("run_id")]
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody("RunNotFound", "run "+c.Param("run_id")+" not found"))
	}

	offset := Offset{
		DefinitionURI: req.DefinitionURI,
		Slot:          scalarString(req.Location.SlotName),
		X:             scalarString(req.Vector.X),
		Y:             scalarString(req.Vector.Y),
		Z:             scalarString(req.Vector.Z),
	}
	run.Offsets = append(run.Offsets, offset)

	return c.JSON(http.StatusCreated, map[string]any{"data": map[string]any{
		"id":            newID(),
		"definitionUri": offset.DefinitionURI,
		"location":      map[string]string{"slotName": offset.Slot},
	}})
}

func (s *Simulator) createAction(c echo.Context) error {
	var body envelope
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("InvalidRequest", err.Error()))
	}
	var req actionRequest
	if err := json.Unmarshal(body.Data, &req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorBody("InvalidRequest", "data must be an action"))
	}

	var status string
	switch req.ActionType {
	case "play":
		status = "running"
	case "pause":
		status = "paused"
	case "stop":
		status = "stopped"
	default:
		return c.JSON(http.StatusUnprocessableEntity, errorBody("InvalidActionType", "unknown action "+req.ActionType))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[c.Param("run_id")]
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody("RunNotFound", "run "+c.Param("run_id")+" not found"))
	}
	if run.Status == "stopped" {
		return c.JSON(http.StatusConflict, errorBody("RunActionNotAllowed", "run "+run.ID+" is stopped"))
	}
	run.Status = status
	run.Actions = append(run.Actions, req.ActionType)

	return c.JSON(http.StatusCreated, map[string]any{"data": map[string]any{
		"id":         newID(),
		"actionType": req.ActionType,
		"createdAt":  s.now().UTC().Format(time.RFC3339),
	}})
}

func (s *Simulator) home(c echo.Context) error {
	var req struct {
		Target string `json:"target"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("InvalidRequest", err.Error()))
	}
	if req.Target != "robot" && req.Target != "pipette" {
		return c.JSON(http.StatusBadRequest, errorBody("InvalidTarget", "target must be robot or pipette"))
	}

	s.mu.Lock()
	s.homes++
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]string{"message": "Homing robot."})
}

func (s *Simulator) getLights(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"on": s.LightsOn()})
}

func (s *Simulator) setLights(c echo.Context) error {
	var req lightsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("InvalidRequest", err.Error()))
	}

	var on bool
	switch strings.ToLower(scalarString(req.On)) {
	case "true":
		on = true
	case "false":
		on = false
	default:
		return c.JSON(http.StatusUnprocessableEntity, errorBody("InvalidRequest", "on must be true or false"))
	}

	s.mu.Lock()
	s.lightsOn = on
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]bool{"on": on})
}

func hasLabware(run *Run, id string) bool {
	for _, entry := range run.Labware {
		if entry.ID == id {
			return true
		}
	}
	return false
}

func hasPipette(run *Run, id string) bool {
	for _, entry := range run.Pipettes {
		if entry.ID == id {
			return true
		}
	}
	return false
}
