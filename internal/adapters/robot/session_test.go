package robot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/otctl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method  string
	Path    string
	Query   string
	Version string
	Body    map[string]any
}

type fakeRobot struct {
	t      *testing.T
	mu     sync.Mutex
	seen   []capturedRequest
	labIDs atomic.Int32
	pipIDs atomic.Int32
	// fail maps "METHOD path" to a status returned instead of the normal reply.
	fail map[string]int
	// runLabware is served by GET /runs/{id}.
	runLabware []RunLabware
}

func newFakeRobot(t *testing.T) (*fakeRobot, *httptest.Server) {
	t.Helper()

	robot := &fakeRobot{t: t, fail: map[string]int{}}
	server := httptest.NewServer(http.HandlerFunc(robot.serve))
	t.Cleanup(server.Close)

	return robot, server
}

func (f *fakeRobot) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	captured := capturedRequest{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   r.URL.RawQuery,
		Version: r.Header.Get(VersionHeader),
	}
	if len(raw) > 0 {
		require.NoError(f.t, json.Unmarshal(raw, &captured.Body))
	}

	f.mu.Lock()
	f.seen = append(f.seen, captured)
	status, failing := f.fail[r.Method+" "+r.URL.Path]
	runLabware := f.runLabware
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"errors":[{"detail":"boom"}]}`))
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/runs":
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"run-1","status":"idle"}}`))
	case r.Method == http.MethodGet && r.URL.Path == "/runs/run-1":
		payload, _ := json.Marshal(map[string]any{"data": map[string]any{"id": "run-1", "status": "idle", "labware": runLabware}})
		_, _ = w.Write(payload)
	case r.Method == http.MethodPost && r.URL.Path == "/runs/run-1/commands":
		f.command(w, captured.Body)
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/runs/run-1/"):
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{}}`))
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/robot/"):
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeRobot) command(w http.ResponseWriter, body map[string]any) {
	data, _ := body["data"].(map[string]any)
	result := map[string]any{}
	switch data["commandType"] {
	case commandLoadLabware:
		result["labwareId"] = fmt.Sprintf("lw-%d", f.labIDs.Add(1))
	case commandLoadPipette:
		result["pipetteId"] = fmt.Sprintf("pip-%d", f.pipIDs.Add(1))
	}

	payload, _ := json.Marshal(map[string]any{"data": map[string]any{"id": "cmd", "status": "succeeded", "result": result}})
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(payload)
}

func (f *fakeRobot) requests() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capturedRequest(nil), f.seen...)
}

func (f *fakeRobot) last() capturedRequest {
	seen := f.requests()
	require.NotEmpty(f.t, seen)
	return seen[len(seen)-1]
}

func (f *fakeRobot) params() map[string]any {
	data := f.last().Body["data"].(map[string]any)
	return data["params"].(map[string]any)
}

func newTestSession(t *testing.T, server *httptest.Server) *RunSession {
	t.Helper()

	session, err := NewRunSession(context.Background(), Config{
		BaseURL:    server.URL,
		Headers:    DefaultHeaders("3"),
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	return session
}

func loadedSession(t *testing.T, server *httptest.Server) *RunSession {
	t.Helper()

	session := newTestSession(t, server)
	_, err := session.LoadLabware(context.Background(), 1, "opentrons_96_tiprack_1000ul", domain.LoadLabwareOptions{})
	require.NoError(t, err)
	_, err = session.LoadLabware(context.Background(), 2, "nest_96_wellplate_2ml_deep", domain.LoadLabwareOptions{})
	require.NoError(t, err)
	require.NoError(t, session.LoadPipette(context.Background(), "p1000_single_gen2", domain.MountLeft))
	return session
}

func TestNewRunSessionBindsRunID(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)

	assert.Equal(t, domain.RunID("run-1"), session.RunID())
	assert.Equal(t, server.URL+"/runs/run-1/commands", session.CommandURL())

	req := robot.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/runs", req.Path)
	assert.Equal(t, "3", req.Version)
}

func TestNewRunSessionRequiresVersionHeader(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)

	_, err := NewRunSession(context.Background(), Config{
		BaseURL:    server.URL,
		Headers:    map[string]string{"accept": "application/json"},
		HTTPClient: server.Client(),
	})
	require.ErrorIs(t, err, ErrMissingVersionHeader)
	assert.Empty(t, robot.requests())
}

func TestNewRunSessionReportsCreationFailure(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	robot.fail["POST /runs"] = http.StatusConflict

	_, err := NewRunSession(context.Background(), Config{BaseURL: server.URL, HTTPClient: server.Client()})
	require.Error(t, err)

	var creationErr *RunCreationError
	require.True(t, errors.As(err, &creationErr))
	assert.Equal(t, http.StatusConflict, creationErr.StatusCode)
	assert.Contains(t, creationErr.Body, "boom")
}

func TestLoadLabwareRegistersAlias(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)

	alias, err := session.LoadLabware(context.Background(), 4, "nest_12_reservoir_15ml", domain.LoadLabwareOptions{})
	require.NoError(t, err)
	assert.Equal(t, "nest_12_reservoir_15ml_4", alias)

	req := robot.last()
	assert.Equal(t, "/runs/run-1/commands", req.Path)
	assert.Equal(t, "waitUntilComplete=true", req.Query)

	data := req.Body["data"].(map[string]any)
	assert.Equal(t, "loadLabware", data["commandType"])
	assert.Equal(t, "setup", data["intent"])

	params := robot.params()
	assert.Equal(t, map[string]any{"slotName": "4"}, params["location"])
	assert.Equal(t, "opentrons", params["namespace"])
	assert.Equal(t, "1", params["version"])

	entry, err := session.Labware(alias)
	require.NoError(t, err)
	assert.Equal(t, "lw-1", entry.RemoteID)
	assert.Equal(t, 4, entry.Slot)
}

func TestLoadLabwareFailureLeavesRegistryUntouched(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)
	robot.mu.Lock()
	robot.fail["POST /runs/run-1/commands"] = http.StatusUnprocessableEntity
	robot.mu.Unlock()

	_, err := session.LoadLabware(context.Background(), 3, "plate", domain.LoadLabwareOptions{})
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, http.StatusUnprocessableEntity, cmdErr.StatusCode)
	assert.Contains(t, err.Error(), "error code 422")

	_, err = session.Labware("plate_3")
	assert.ErrorIs(t, err, domain.ErrLabwareNotFound)
}

func TestLoadPipetteReloadReplacesEntry(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)

	require.NoError(t, session.LoadPipette(context.Background(), "p300", domain.MountLeft))
	assert.Equal(t, map[string]any{"pipetteName": "p300", "mount": "left"}, robot.params())

	require.NoError(t, session.LoadPipette(context.Background(), "p300", domain.MountRight))

	entry, err := session.Pipette("p300")
	require.NoError(t, err)
	assert.Equal(t, "pip-2", entry.RemoteID)
	assert.Equal(t, domain.MountRight, entry.Mount)
}

func TestLoadPipetteFailureLeavesRegistryUntouched(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)
	require.NoError(t, session.LoadPipette(context.Background(), "p300", domain.MountLeft))

	robot.mu.Lock()
	robot.fail["POST /runs/run-1/commands"] = http.StatusBadRequest
	robot.mu.Unlock()

	err := session.LoadPipette(context.Background(), "p1000_single_gen2", domain.MountRight)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, http.StatusBadRequest, cmdErr.StatusCode)

	_, err = session.Pipette("p1000_single_gen2")
	assert.ErrorIs(t, err, domain.ErrPipetteNotFound)

	err = session.LoadPipette(context.Background(), "p300", domain.MountRight)
	require.True(t, errors.As(err, &cmdErr))

	entry, err := session.Pipette("p300")
	require.NoError(t, err)
	assert.Equal(t, "pip-1", entry.RemoteID)
	assert.Equal(t, domain.MountLeft, entry.Mount)
	assert.Len(t, session.State().Pipettes, 1)
}

func TestLoadPipetteRejectsUnknownMount(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)
	before := len(robot.requests())

	err := session.LoadPipette(context.Background(), "p300", domain.Mount("middle"))
	require.ErrorIs(t, err, domain.ErrInvalidMount)
	assert.Len(t, robot.requests(), before)
}

func TestLiquidCommandsUseDefaultsAndEncoding(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := loadedSession(t, server)
	ctx := context.Background()
	plate := domain.WellTarget{Labware: "nest_96_wellplate_2ml_deep_2", Well: "B3", Pipette: "p1000_single_gen2"}

	require.NoError(t, session.PickUpTip(ctx, domain.PickUpTipRequest{WellTarget: domain.WellTarget{Labware: "opentrons_96_tiprack_1000ul_1", Pipette: "p1000_single_gen2"}}))
	params := robot.params()
	assert.Equal(t, "A1", params["wellName"])
	assert.Equal(t, "lw-1", params["labwareId"])
	assert.Equal(t, "pip-1", params["pipetteId"])
	assert.Equal(t, map[string]any{"origin": "top", "offset": map[string]any{"x": 0.0, "y": 0.0, "z": 0.0}}, params["wellLocation"])

	require.NoError(t, session.Aspirate(ctx, domain.AspirateRequest{WellTarget: plate, Volume: 100}))
	params = robot.params()
	assert.Equal(t, "100", params["volume"])
	assert.Equal(t, "274.7", params["flowRate"])
	assert.Equal(t, "center", params["wellLocation"].(map[string]any)["origin"])

	require.NoError(t, session.Dispense(ctx, domain.DispenseRequest{WellTarget: plate, Volume: 50.5, FlowRate: 100}))
	params = robot.params()
	assert.Equal(t, 50.5, params["volume"])
	assert.Equal(t, 100.0, params["flowRate"])
	assert.Equal(t, "top", params["wellLocation"].(map[string]any)["origin"])

	require.NoError(t, session.Blowout(ctx, domain.BlowoutRequest{WellTarget: plate}))
	params = robot.params()
	assert.Equal(t, 274.7, params["flowRate"])
	assert.Equal(t, "top", params["wellLocation"].(map[string]any)["origin"])

	bottom := plate
	bottom.Origin = domain.WellOriginBottom
	bottom.Offset = domain.Offset{Z: 2}
	require.NoError(t, session.MoveToWell(ctx, domain.MoveToWellRequest{WellTarget: bottom}))
	params = robot.params()
	assert.Equal(t, 400.0, params["speed"])
	assert.Equal(t, map[string]any{"origin": "bottom", "offset": map[string]any{"x": 0.0, "y": 0.0, "z": 2.0}}, params["wellLocation"])

	require.NoError(t, session.DropTip(ctx, domain.DropTipRequest{WellTarget: domain.WellTarget{Labware: "opentrons_96_tiprack_1000ul_1", Pipette: "p1000_single_gen2"}, HomeAfter: true}))
	params = robot.params()
	assert.Equal(t, "A1", params["wellName"])
	assert.Equal(t, true, params["homeAfter"])
	assert.Equal(t, false, params["alternateDropLocation"])
	assert.Equal(t, "center", params["wellLocation"].(map[string]any)["origin"])
}

func TestLiquidCommandsFailLocallyForUnknownAliases(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := loadedSession(t, server)
	before := len(robot.requests())
	ctx := context.Background()

	err := session.Aspirate(ctx, domain.AspirateRequest{WellTarget: domain.WellTarget{Labware: "missing_9", Well: "A1", Pipette: "p1000_single_gen2"}, Volume: 10})
	assert.ErrorIs(t, err, domain.ErrLabwareNotFound)

	err = session.Dispense(ctx, domain.DispenseRequest{WellTarget: domain.WellTarget{Labware: "nest_96_wellplate_2ml_deep_2", Well: "A1", Pipette: "p20"}, Volume: 10})
	assert.ErrorIs(t, err, domain.ErrPipetteNotFound)

	err = session.MoveToWell(ctx, domain.MoveToWellRequest{WellTarget: domain.WellTarget{Labware: "nest_96_wellplate_2ml_deep_2", Well: "A1", Pipette: "p1000_single_gen2", Origin: "side"}})
	assert.ErrorIs(t, err, domain.ErrInvalidWellOrigin)

	err = session.Blowout(ctx, domain.BlowoutRequest{WellTarget: domain.WellTarget{Labware: "nest_96_wellplate_2ml_deep_2", Pipette: "p1000_single_gen2"}})
	assert.ErrorIs(t, err, ErrWellRequired)

	assert.Len(t, robot.requests(), before)
}

func TestControlActionNormalizesAndValidates(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)

	require.NoError(t, session.ControlAction(context.Background(), "PAUSE"))
	req := robot.last()
	assert.Equal(t, "/runs/run-1/actions", req.Path)
	assert.Equal(t, map[string]any{"data": map[string]any{"actionType": "pause"}}, req.Body)

	before := len(robot.requests())
	err := session.ControlAction(context.Background(), "rewind")
	require.ErrorIs(t, err, domain.ErrInvalidRunAction)
	assert.Len(t, robot.requests(), before)
}

func TestLightsAcceptsBoolAndString(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)

	require.NoError(t, session.Lights(context.Background(), true))
	assert.Equal(t, map[string]any{"on": "true"}, robot.last().Body)

	require.NoError(t, session.Lights(context.Background(), "False"))
	assert.Equal(t, map[string]any{"on": "false"}, robot.last().Body)
	assert.Equal(t, "/robot/lights", robot.last().Path)

	before := len(robot.requests())
	err := session.Lights(context.Background(), "dim")
	require.ErrorIs(t, err, domain.ErrInvalidLightsState)
	assert.Len(t, robot.requests(), before)
}

func TestHomeTargetsWholeRobot(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)

	require.NoError(t, session.Home(context.Background()))
	req := robot.last()
	assert.Equal(t, "/robot/home", req.Path)
	assert.Equal(t, map[string]any{"target": "robot"}, req.Body)

	robot.mu.Lock()
	robot.fail["POST /robot/home"] = http.StatusInternalServerError
	robot.mu.Unlock()
	err := session.Home(context.Background())
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, http.StatusInternalServerError, cmdErr.StatusCode)
}

func TestAddLabwareOffsetsUsesRunInfo(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)
	alias, err := session.LoadLabware(context.Background(), 5, "corning_96_wellplate_360ul_flat", domain.LoadLabwareOptions{})
	require.NoError(t, err)

	robot.mu.Lock()
	robot.runLabware = []RunLabware{
		{ID: "lw-1", DefinitionURI: "opentrons/corning_96_wellplate_360ul_flat/2", Location: slotLocation{SlotName: "5"}},
	}
	robot.mu.Unlock()

	require.NoError(t, session.AddLabwareOffsets(context.Background(), alias, domain.Offset{X: 0.5, Y: -1, Z: 0}))
	req := robot.last()
	assert.Equal(t, "/runs/run-1/labware_offsets", req.Path)
	assert.Equal(t, map[string]any{"data": map[string]any{
		"definitionUri": "opentrons/corning_96_wellplate_360ul_flat/2",
		"location":      map[string]any{"slotName": "5"},
		"vector":        map[string]any{"x": "0.5", "y": "-1", "z": "0"},
	}}, req.Body)
}

func TestAddLabwareOffsetsMissingFromRun(t *testing.T) {
	t.Parallel()

	_, server := newFakeRobot(t)
	session := newTestSession(t, server)
	alias, err := session.LoadLabware(context.Background(), 5, "plate", domain.LoadLabwareOptions{})
	require.NoError(t, err)

	err = session.AddLabwareOffsets(context.Background(), alias, domain.Offset{})
	assert.ErrorIs(t, err, domain.ErrLabwareNotInRun)
}

func TestLoadCustomLabwarePostsDefinitionThenLoads(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)

	definition, err := domain.ParseLabwareDefinition([]byte(`{"parameters":{"loadName":"custom_rack"},"namespace":"custom_beta","version":2}`))
	require.NoError(t, err)

	alias, err := session.LoadCustomLabware(context.Background(), definition, 7)
	require.NoError(t, err)
	assert.Equal(t, "custom_rack_7", alias)

	seen := robot.requests()
	require.Len(t, seen, 3)
	assert.Equal(t, "/runs/run-1/labware_definitions", seen[1].Path)
	assert.Equal(t, "custom_rack", seen[1].Body["data"].(map[string]any)["parameters"].(map[string]any)["loadName"])

	params := robot.params()
	assert.Equal(t, "custom_beta", params["namespace"])
	assert.Equal(t, "2", params["version"])
}

func TestLoadCustomLabwareDefinitionFailureSkipsLoad(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	session := newTestSession(t, server)
	robot.mu.Lock()
	robot.fail["POST /runs/run-1/labware_definitions"] = http.StatusUnprocessableEntity
	robot.mu.Unlock()

	definition, err := domain.ParseLabwareDefinition([]byte(`{"parameters":{"loadName":"custom_rack"},"namespace":"custom_beta","version":2}`))
	require.NoError(t, err)

	_, err = session.LoadCustomLabware(context.Background(), definition, 7)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, http.StatusUnprocessableEntity, cmdErr.StatusCode)

	for _, req := range robot.requests() {
		assert.NotEqual(t, "/runs/run-1/commands", req.Path)
	}
	_, err = session.Labware("custom_rack_7")
	assert.ErrorIs(t, err, domain.ErrLabwareNotFound)
	assert.Empty(t, session.State().Labware)
}

func TestAttachRunSessionRestoresRegistry(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	state := domain.SessionState{
		RunID:   "run-1",
		BaseURL: server.URL,
		Labware: []domain.LabwareEntry{{Alias: "plate_2", Name: "plate", RemoteID: "lw-9", Slot: 2}},
		Pipettes: []domain.PipetteEntry{
			{Name: "p300", RemoteID: "pip-9", Mount: domain.MountRight},
		},
	}

	session, err := AttachRunSession(Config{HTTPClient: server.Client()}, state)
	require.NoError(t, err)
	assert.Empty(t, robot.requests())

	require.NoError(t, session.MoveToWell(context.Background(), domain.MoveToWellRequest{WellTarget: domain.WellTarget{Labware: "plate_2", Well: "C4", Pipette: "p300"}}))
	params := robot.params()
	assert.Equal(t, "lw-9", params["labwareId"])
	assert.Equal(t, "pip-9", params["pipetteId"])

	_, err = AttachRunSession(Config{}, domain.SessionState{})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

type recordingJournal struct {
	mu      sync.Mutex
	entries []domain.JournalEntry
}

func (j *recordingJournal) Record(_ context.Context, entry domain.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

func (j *recordingJournal) List(context.Context, domain.RunID) ([]domain.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]domain.JournalEntry(nil), j.entries...), nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestRequestsAreJournaled(t *testing.T) {
	t.Parallel()

	robot, server := newFakeRobot(t)
	journal := &recordingJournal{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	session, err := NewRunSession(context.Background(), Config{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Journal:    journal,
		Clock:      fixedClock{now: now},
	})
	require.NoError(t, err)

	_, err = session.LoadLabware(context.Background(), 1, "plate", domain.LoadLabwareOptions{})
	require.NoError(t, err)
	robot.mu.Lock()
	robot.fail["POST /robot/lights"] = http.StatusBadRequest
	robot.mu.Unlock()
	require.Error(t, session.Lights(context.Background(), "true"))

	entries, err := journal.List(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "create run", entries[0].Operation)
	assert.Equal(t, now, entries[0].RecordedAt)
	assert.Equal(t, "loadLabware", entries[1].CommandType)
	assert.Equal(t, "succeeded", entries[1].RemoteStatus)
	assert.True(t, entries[1].OK)
	assert.Equal(t, http.StatusBadRequest, entries[2].StatusCode)
	assert.False(t, entries[2].OK)
}

func TestRequestTimeoutBoundsSlowRobot(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"run-1"}}`))
	}))
	t.Cleanup(server.Close)

	_, err := NewRunSession(context.Background(), Config{
		BaseURL:        server.URL,
		HTTPClient:     server.Client(),
		RequestTimeout: 20 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create run")
}

func TestBaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://10.0.0.5:31950", BaseURL("10.0.0.5"))
	assert.Equal(t, "http://robot.local:8080", BaseURL("robot.local:8080"))
	assert.Equal(t, "https://robot.example", BaseURL("https://robot.example/"))
	assert.Equal(t, "http://10.0.0.5:48888", BaseURLWithPort("10.0.0.5", 48888))
	assert.Equal(t, "http://10.0.0.5:31950", BaseURLWithPort("10.0.0.5", 0))
	assert.Equal(t, "http://[fe80::1]:31950", BaseURLWithPort("fe80::1", 31950))
}
