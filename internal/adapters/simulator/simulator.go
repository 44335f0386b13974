// Package simulator serves an in-memory stand-in for the robot controller HTTP
// API. It keeps just enough run state to answer the client the way a robot
// would: ids for loaded labware and pipettes, run info, actions and lights.
package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"pkt.systems/pslog"
)

const versionHeader = "Opentrons-Version"

// Request is a captured inbound request.
type Request struct {
	Method  string
	Path    string
	Query   string
	Version string
	Body    json.RawMessage
}

type Labware struct {
	ID            string
	LoadName      string
	Namespace     string
	Version       string
	DefinitionURI string
	Slot          string
}

type Pipette struct {
	ID    string
	Name  string
	Mount string
}

type Offset struct {
	DefinitionURI string
	Slot          string
	X, Y, Z       string
}

type Command struct {
	ID          string
	CommandType string
	Intent      string
	Params      json.RawMessage
}

// Run is a snapshot of one simulated run.
type Run struct {
	ID          string
	Status      string
	CreatedAt   time.Time
	Labware     []Labware
	Pipettes    []Pipette
	Definitions []string
	Offsets     []Offset
	Actions     []string
	Commands    []Command
}

type Simulator struct {
	mu       sync.Mutex
	runs     map[string]*Run
	requests []Request
	failures map[string]int
	lightsOn bool
	homes    int
	now      func() time.Time
	echo     *echo.Echo
}

func New() *Simulator {
	s := &Simulator{
		runs:     map[string]*Run{},
		failures: map[string]int{},
		now:      time.Now,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.capture)
	e.Use(requireVersionHeader)

	e.POST("/runs", s.createRun)
	e.GET("/runs/:run_id", s.getRun)
	e.POST("/runs/:run_id/commands", s.createCommand)
	e.POST("/runs/:run_id/labware_definitions", s.addLabwareDefinition)
	e.POST("/runs/:run_id/labware_offsets", s.addLabwareOffset)
	e.POST("/runs/:run_id/actions", s.createAction)
	e.POST("/robot/home", s.home)
	e.GET("/robot/lights", s.getLights)
	e.POST("/robot/lights", s.setLights)

	s.echo = e
	return s
}

func (s *Simulator) Handler() http.Handler {
	return s.echo
}

// Serve answers requests on listener until ctx is done.
func (s *Simulator) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown simulator: %w", err)
		}
		return nil
	}
}

// FailCommand makes every following command of commandType answer with status.
func (s *Simulator) FailCommand(commandType string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures["command:"+commandType] = status
}

// FailEndpoint makes method+path answer with status. Path uses the route
// pattern, e.g. "/runs/:run_id/actions".
func (s *Simulator) FailEndpoint(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

func (s *Simulator) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Run returns a copy of the run's state.
func (s *Simulator) Run(id string) (Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return Run{}, false
	}

	snapshot := *run
	snapshot.Labware = append([]Labware(nil), run.Labware...)
	snapshot.Pipettes = append([]Pipette(nil), run.Pipettes...)
	snapshot.Definitions = append([]string(nil), run.Definitions...)
	snapshot.Offsets = append([]Offset(nil), run.Offsets...)
	snapshot.Actions = append([]string(nil), run.Actions...)
	snapshot.Commands = append([]Command(nil), run.Commands...)
	return snapshot, true
}

func (s *Simulator) RunIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Simulator) LightsOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lightsOn
}

func (s *Simulator) Homes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.homes
}

func (s *Simulator) capture(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		var raw []byte
		if req.Body != nil {
			data, err := io.ReadAll(req.Body)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "read body")
			}
			raw = data
			req.Body = io.NopCloser(bytes.NewReader(raw))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:  req.Method,
			Path:    req.URL.Path,
			Query:   req.URL.RawQuery,
			Version: req.Header.Get(versionHeader),
			Body:    json.RawMessage(raw),
		})
		status, failing := s.failures[req.Method+" "+c.Path()]
		s.mu.Unlock()

		pslog.Ctx(req.Context()).Debug("simulator request", "method", req.Method, "path", req.URL.Path)

		if failing {
			return c.JSON(status, errorBody("InjectedFailure", "injected failure for "+c.Path()))
		}

		return next(c)
	}
}

func requireVersionHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(versionHeader) == "" {
			return c.JSON(http.StatusBadRequest, errorBody("OutdatedAPIVersion", "HTTP header "+versionHeader+" is required"))
		}
		return next(c)
	}
}

type errorDetail struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func errorBody(id, detail string) map[string][]errorDetail {
	return map[string][]errorDetail{"errors": {{ID: id, Title: id, Detail: detail}}}
}

func newID() string {
	return uuid.New().String()
}

// scalarString reads a JSON string or number as text.
func scalarString(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return strings.TrimSpace(string(raw))
}
