package robot

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingVersionHeader = errors.New("header set must include the " + VersionHeader + " header")
	ErrWellRequired         = errors.New("well name is required")
)

// CommandError reports a request the robot answered with an unexpected status.
type CommandError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: error code %d: %s", e.Op, e.StatusCode, strings.TrimSpace(e.Body))
}

// RunCreationError reports a failed POST /runs. No session exists afterwards.
type RunCreationError struct {
	StatusCode int
	Body       string
}

func (e *RunCreationError) Error() string {
	return fmt.Sprintf("create run: error code %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}
