package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/otctl/internal/adapters/simulator"
	"github.com/bnema/otctl/internal/domain"
	"github.com/bnema/otctl/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dilutionProtocol = `
name = "dilution"

[[labware]]
id = "tips"
slot = 1
load_name = "opentrons_96_tiprack_1000ul"

[[labware]]
id = "plate"
slot = 2
load_name = "nest_96_wellplate_2ml_deep"
offset = { x = 0.5, y = 0.0, z = -1.0 }

[[pipettes]]
name = "p1000_single_gen2"
mount = "right"

[[steps]]
action = "pick_up_tip"
labware = "tips"
pipette = "p1000_single_gen2"

[[steps]]
action = "aspirate"
labware = "plate"
well = "A1"
pipette = "p1000_single_gen2"
volume = 100

[[steps]]
action = "dispense"
labware = "plate"
well = "B1"
pipette = "p1000_single_gen2"
volume = 100

[[steps]]
action = "drop_tip"
labware = "tips"
pipette = "p1000_single_gen2"
`

func TestVersionPrintsVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestRunProtocolAgainstSimulator(t *testing.T) {
	home := t.TempDir()
	sim, url := startSimulator(t)
	protocolPath := writeProtocol(t, dilutionProtocol)

	stdout, stderr, err := executeCLI(t, home, "--robot", url, "run", "--plain", protocolPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "4/4")
	assert.Contains(t, stdout, "plate -> nest_96_wellplate_2ml_deep_2")
	assert.Contains(t, stderr, "labware tips")
	assert.Contains(t, stderr, "[2/4] aspirate")

	runIDs := sim.RunIDs()
	require.Len(t, runIDs, 1)
	run, ok := sim.Run(runIDs[0])
	require.True(t, ok)
	assert.Len(t, run.Commands, 7)
	require.Len(t, run.Offsets, 1)
	assert.Equal(t, "0.5", run.Offsets[0].X)

	stdout, _, err = executeCLI(t, home, "session", "show", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, runIDs[0])
	assert.Contains(t, stdout, "nest_96_wellplate_2ml_deep_2")

	stdout, _, err = executeCLI(t, home, "session", "show", "--journal")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Run "+runIDs[0])
	assert.Contains(t, stdout, "Labware (2)")
	assert.Contains(t, stdout, "Journal (")
}

func TestRunJSONReport(t *testing.T) {
	home := t.TempDir()
	_, url := startSimulator(t)
	protocolPath := writeProtocol(t, dilutionProtocol)

	stdout, _, err := executeCLI(t, home, "--robot", url, "run", "--json", protocolPath)
	require.NoError(t, err)

	var report struct {
		RunID          string
		StepsCompleted int
		StepsTotal     int
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 4, report.StepsCompleted)
	assert.Equal(t, 4, report.StepsTotal)
}

func TestRunStopsAtFailingStep(t *testing.T) {
	home := t.TempDir()
	sim, url := startSimulator(t)
	sim.FailCommand("dispense", http.StatusUnprocessableEntity)
	protocolPath := writeProtocol(t, dilutionProtocol)

	stdout, _, err := executeCLI(t, home, "--robot", url, "run", "--plain", protocolPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 3 (dispense)")
	assert.Contains(t, stdout, "2/4")

	run, ok := sim.Run(sim.RunIDs()[0])
	require.True(t, ok)
	for _, command := range run.Commands {
		assert.NotEqual(t, "dropTip", command.CommandType)
	}
}

func TestRunRejectsInvalidProtocol(t *testing.T) {
	home := t.TempDir()
	sim, url := startSimulator(t)
	protocolPath := writeProtocol(t, "[[steps]]\naction = \"spin\"\n")

	_, _, err := executeCLI(t, home, "--robot", url, "run", "--plain", protocolPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid protocol")
	assert.Empty(t, sim.RunIDs())
}

func TestRunUsesProtocolRobotHost(t *testing.T) {
	home := t.TempDir()
	sim, url := startSimulator(t)
	protocolPath := writeProtocol(t, "[robot]\nhost = \""+url+"\"\n\n[[steps]]\naction = \"home\"\n")

	_, _, err := executeCLI(t, home, "run", "--plain", protocolPath)
	require.NoError(t, err)
	assert.Len(t, sim.RunIDs(), 1)
	assert.Equal(t, 1, sim.Homes())
}

func TestControlCommandsDriveThePersistedRun(t *testing.T) {
	home := t.TempDir()
	sim, url := startSimulator(t)
	protocolPath := writeProtocol(t, dilutionProtocol)

	_, _, err := executeCLI(t, home, "--robot", url, "run", "--plain", protocolPath)
	require.NoError(t, err)
	runID := sim.RunIDs()[0]

	stdout, _, err := executeCLI(t, home, "play")
	require.NoError(t, err)
	assert.Equal(t, "Playing run "+runID+"\n", stdout)

	_, _, err = executeCLI(t, home, "pause")
	require.NoError(t, err)

	run, ok := sim.Run(runID)
	require.True(t, ok)
	assert.Equal(t, []string{"play", "pause"}, run.Actions)
	assert.Equal(t, "paused", run.Status)
}

func TestTransferCommandSplitsLoads(t *testing.T) {
	home := t.TempDir()
	sim, url := startSimulator(t)
	protocolPath := writeProtocol(t, dilutionProtocol)

	_, _, err := executeCLI(t, home, "--robot", url, "run", "--plain", protocolPath)
	require.NoError(t, err)
	runID := sim.RunIDs()[0]

	stdout, _, err := executeCLI(t, home,
		"transfer",
		"--pipette", "p1000_single_gen2",
		"--from", "nest_96_wellplate_2ml_deep_2:a1",
		"--to", "nest_96_wellplate_2ml_deep_2:C3",
		"--volume", "2500",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Transferred 2500")

	run, ok := sim.Run(runID)
	require.True(t, ok)
	assert.Len(t, run.Commands, 7+12)
}

func TestTransferRejectsInfiniteVolume(t *testing.T) {
	home := t.TempDir()
	sim, url := startSimulator(t)
	protocolPath := writeProtocol(t, dilutionProtocol)

	_, _, err := executeCLI(t, home, "--robot", url, "run", "--plain", protocolPath)
	require.NoError(t, err)
	before := len(sim.Requests())

	for _, volume := range []string{"inf", "NaN"} {
		_, _, err = executeCLI(t, home,
			"transfer",
			"--pipette", "p1000_single_gen2",
			"--from", "nest_96_wellplate_2ml_deep_2:A1",
			"--to", "nest_96_wellplate_2ml_deep_2:C3",
			"--volume", volume,
		)
		require.ErrorIs(t, err, domain.ErrNotFinite)
	}
	assert.Len(t, sim.Requests(), before)
}

func TestTransferRejectsMalformedWell(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home,
		"transfer",
		"--pipette", "p300",
		"--from", "plate",
		"--to", "plate:B1",
		"--volume", "10",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from: expected <labware>:<well>")
}

func TestLightsAndHome(t *testing.T) {
	home := t.TempDir()
	sim, url := startSimulator(t)

	stdout, _, err := executeCLI(t, home, "--robot", url, "lights", "on")
	require.NoError(t, err)
	assert.Equal(t, "Lights on\n", stdout)
	assert.True(t, sim.LightsOn())

	_, _, err = executeCLI(t, home, "--robot", url, "home")
	require.NoError(t, err)
	assert.Equal(t, 1, sim.Homes())
	assert.Empty(t, sim.RunIDs())

	_, _, err = executeCLI(t, home, "--robot", url, "lights", "dim")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid lights state")
}

func TestHomeWithoutRobotAddress(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "home")
	require.ErrorIs(t, err, errRobotNotConfigured)
}

func TestSessionShowWithoutSession(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "session", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No session.")
}

func TestSessionClearForgetsRun(t *testing.T) {
	home := t.TempDir()
	_, url := startSimulator(t)
	protocolPath := writeProtocol(t, dilutionProtocol)

	_, _, err := executeCLI(t, home, "--robot", url, "run", "--plain", protocolPath)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "session", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Session cleared\n", stdout)

	_, _, err = executeCLI(t, home, "pause")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestJournalListForExplicitRun(t *testing.T) {
	home := t.TempDir()
	sim, url := startSimulator(t)
	protocolPath := writeProtocol(t, dilutionProtocol)

	_, _, err := executeCLI(t, home, "--robot", url, "run", "--plain", protocolPath)
	require.NoError(t, err)
	runID := sim.RunIDs()[0]

	stdout, _, err := executeCLI(t, home, "journal", "list", "--run", runID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "OPERATION")
	assert.Contains(t, stdout, "loadLabware")
	assert.Contains(t, stdout, "dropTip")

	stdout, _, err = executeCLI(t, home, "journal", "list", "--run", "unknown")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No requests recorded.")
}

func TestConfigFileSetsRobotHost(t *testing.T) {
	home := t.TempDir()
	sim, url := startSimulator(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".otctl"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".otctl", "config.toml"), []byte("[robot]\nhost = \""+url+"\"\n"), 0o600))

	_, _, err := executeCLI(t, home, "home")
	require.NoError(t, err)
	assert.Equal(t, 1, sim.Homes())
}

func startSimulator(t *testing.T) (*simulator.Simulator, string) {
	t.Helper()

	sim := simulator.New()
	server := httptest.NewServer(sim.Handler())
	t.Cleanup(server.Close)

	return sim, server.URL
}

func writeProtocol(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "protocol.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("OTCTL_ROBOT_HOST", "")

	root, app := newRootCmd()
	defer func() { _ = app.close() }()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEmptyJournalPathDisablesJournal(t *testing.T) {
	home := t.TempDir()
	_, url := startSimulator(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".otctl"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".otctl", "config.toml"), []byte("[journal]\npath = \"\"\n"), 0o600))
	protocolPath := writeProtocol(t, dilutionProtocol)

	_, _, err := executeCLI(t, home, "--robot", url, "run", "--plain", protocolPath)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "journal", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No requests recorded.")
	assert.NoFileExists(t, filepath.Join(home, ".otctl", "journal.db"))
}
