package robot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/otctl/internal/domain"
	"github.com/bnema/otctl/internal/ports"
	"pkt.systems/pslog"
)

const (
	DefaultPort       = 31950
	VersionHeader     = "Opentrons-Version"
	DefaultAPIVersion = "3"

	maxResponseBytes = 4 << 20
)

type Config struct {
	// BaseURL is the robot controller root, e.g. http://10.0.0.5:31950.
	BaseURL string
	// Headers are sent with every request and must carry VersionHeader.
	Headers    map[string]string
	HTTPClient ports.HTTPDoer
	// RequestTimeout bounds each request. Zero leaves requests unbounded.
	RequestTimeout time.Duration
	Journal        ports.CommandJournal
	Clock          ports.Clock
}

// DefaultHeaders returns the header set for the given API version.
func DefaultHeaders(apiVersion string) map[string]string {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return map[string]string{"opentrons-version": apiVersion}
}

// BaseURL turns a robot address into a controller URL. Bare hosts get the
// fixed controller port.
func BaseURL(host string) string {
	return BaseURLWithPort(host, DefaultPort)
}

// BaseURLWithPort is BaseURL with a non-default port for bare hosts.
func BaseURLWithPort(host string, port int) string {
	host = strings.TrimSpace(host)
	if strings.Contains(host, "://") {
		return strings.TrimRight(host, "/")
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return "http://" + host
	}
	if port <= 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(port)))
}

var _ ports.RobotSession = (*RunSession)(nil)

// RunSession owns one remote run and the labware and pipettes loaded into it.
// Commands are submitted one at a time; callers must not issue commands
// concurrently on the same session.
type RunSession struct {
	baseURL    string
	headers    http.Header
	client     ports.HTTPDoer
	timeout    time.Duration
	journal    ports.CommandJournal
	clock      ports.Clock
	runID      domain.RunID
	commandURL string
	createdAt  time.Time
	registry   *domain.Registry
}

// NewRunSession creates a run on the robot and returns a session bound to it.
func NewRunSession(ctx context.Context, cfg Config) (*RunSession, error) {
	s, err := newRunSession(cfg)
	if err != nil {
		return nil, err
	}

	body, err := s.send(ctx, request{
		op:          "create run",
		method:      http.MethodPost,
		path:        "/runs",
		want:        http.StatusCreated,
		skipJournal: true,
	})
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return nil, &RunCreationError{StatusCode: cmdErr.StatusCode, Body: cmdErr.Body}
		}
		return nil, err
	}

	var payload createRunResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode create run response: %w", err)
	}
	if payload.Data.ID == "" {
		return nil, errors.New("create run response missing run id")
	}

	s.bind(domain.RunID(payload.Data.ID))
	s.createdAt = s.clock.Now()
	s.record(ctx, "create run", "", http.StatusCreated, true, "")

	pslog.Ctx(ctx).Info("run created", "run", s.runID, "robot", s.baseURL)

	return s, nil
}

// AttachRunSession rebuilds a session for a run created earlier, without
// contacting the robot. The state's base URL wins over cfg.BaseURL.
func AttachRunSession(cfg Config, state domain.SessionState) (*RunSession, error) {
	if state.IsZero() {
		return nil, domain.ErrSessionNotFound
	}
	if state.BaseURL != "" {
		cfg.BaseURL = state.BaseURL
	}

	s, err := newRunSession(cfg)
	if err != nil {
		return nil, err
	}
	s.registry = state.Registry()
	s.createdAt = state.CreatedAt
	s.bind(state.RunID)

	return s, nil
}

func newRunSession(cfg Config) (*RunSession, error) {
	baseURL, err := validateBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	headerSet := cfg.Headers
	if headerSet == nil {
		headerSet = DefaultHeaders(DefaultAPIVersion)
	}
	headers := make(http.Header, len(headerSet))
	for key, value := range headerSet {
		headers.Set(key, value)
	}
	if headers.Get(VersionHeader) == "" {
		return nil, ErrMissingVersionHeader
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	journal := cfg.Journal
	if journal == nil {
		journal = ports.NopJournal{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &RunSession{
		baseURL:  baseURL,
		headers:  headers,
		client:   client,
		timeout:  cfg.RequestTimeout,
		journal:  journal,
		clock:    clock,
		registry: domain.NewRegistry(),
	}, nil
}

func (s *RunSession) bind(runID domain.RunID) {
	s.runID = runID
	s.commandURL = s.baseURL + s.runPath("/commands")
}

func (s *RunSession) RunID() domain.RunID {
	return s.runID
}

// CommandURL is the command submission endpoint derived from the run id.
func (s *RunSession) CommandURL() string {
	return s.commandURL
}

func (s *RunSession) Labware(alias string) (domain.LabwareEntry, error) {
	return s.registry.Labware(alias)
}

func (s *RunSession) Pipette(name string) (domain.PipetteEntry, error) {
	return s.registry.Pipette(name)
}

func (s *RunSession) State() domain.SessionState {
	return domain.SessionState{
		RunID:     s.runID,
		BaseURL:   s.baseURL,
		CreatedAt: s.createdAt,
		Labware:   s.registry.LabwareEntries(),
		Pipettes:  s.registry.PipetteEntries(),
	}
}

// RunInfo fetches the full run resource.
func (s *RunSession) RunInfo(ctx context.Context) (RunInfo, error) {
	body, err := s.send(ctx, request{
		op:     "get run info",
		method: http.MethodGet,
		path:   s.runPath(""),
		want:   http.StatusOK,
	})
	if err != nil {
		return RunInfo{}, err
	}

	var payload runInfoResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return RunInfo{}, fmt.Errorf("decode run info: %w", err)
	}

	return payload.Data, nil
}

func (s *RunSession) runPath(suffix string) string {
	return "/runs/" + url.PathEscape(string(s.runID)) + suffix
}

type request struct {
	op          string
	commandType string
	method      string
	path        string
	query       url.Values
	body        any
	want        int
	skipJournal bool
}

// submitCommand posts a command and waits for the robot to finish executing it.
func (s *RunSession) submitCommand(ctx context.Context, op string, cmd command) (commandResponse, error) {
	body, err := s.send(ctx, request{
		op:          op,
		commandType: cmd.CommandType,
		method:      http.MethodPost,
		path:        s.runPath("/commands"),
		query:       url.Values{"waitUntilComplete": []string{"true"}},
		body:        envelope{Data: cmd},
		want:        http.StatusCreated,
	})
	if err != nil {
		return commandResponse{}, err
	}

	var payload commandResponse
	if len(bytes.TrimSpace(body)) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return commandResponse{}, fmt.Errorf("%s: decode command response: %w", op, err)
	}

	return payload, nil
}

func (s *RunSession) send(ctx context.Context, req request) ([]byte, error) {
	log := pslog.Ctx(ctx)

	endpoint := s.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var reader io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", req.op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	requestCtx, cancel := s.requestContext(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, req.method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", req.op, err)
	}
	for key, values := range s.headers {
		httpReq.Header[key] = append([]string(nil), values...)
	}
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	log.Debug("robot request", "op", req.op, "method", req.method, "url", endpoint, "command_type", req.commandType)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.recordRequest(ctx, req, 0, false, "")
		return nil, fmt.Errorf("%s: perform request: %w", req.op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		s.recordRequest(ctx, req, resp.StatusCode, false, "")
		return nil, fmt.Errorf("%s: read response: %w", req.op, err)
	}

	if resp.StatusCode != req.want {
		s.recordRequest(ctx, req, resp.StatusCode, false, remoteStatus(body))
		log.Warn("robot request failed", "op", req.op, "status", resp.StatusCode, "run", s.runID)
		return nil, &CommandError{Op: req.op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	status := remoteStatus(body)
	s.recordRequest(ctx, req, resp.StatusCode, true, status)
	log.Debug("robot response", "op", req.op, "status", resp.StatusCode, "remote_status", status)

	return body, nil
}

func (s *RunSession) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.timeout)
}

func (s *RunSession) recordRequest(ctx context.Context, req request, statusCode int, ok bool, status string) {
	if req.skipJournal {
		return
	}
	s.record(ctx, req.op, req.commandType, statusCode, ok, status)
}

func (s *RunSession) record(ctx context.Context, op, commandType string, statusCode int, ok bool, status string) {
	err := s.journal.Record(ctx, domain.JournalEntry{
		RunID:        s.runID,
		Operation:    op,
		CommandType:  commandType,
		StatusCode:   statusCode,
		OK:           ok,
		RemoteStatus: status,
		RecordedAt:   s.clock.Now(),
	})
	if err != nil {
		pslog.Ctx(ctx).Warn("journal record failed", "op", op, "err", err)
	}
}

// remoteStatus pulls data.status out of a response body. A "failed" value is
// not turned into an error here.
func remoteStatus(body []byte) string {
	var payload struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Data.Status
}

func validateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", errors.New("robot base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse robot base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("robot base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("robot base url host is required")
	}

	return strings.TrimRight(parsed.String(), "/"), nil
}
