package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type RunAction string

const (
	RunActionPause RunAction = "pause"
	RunActionPlay  RunAction = "play"
	RunActionStop  RunAction = "stop"
)

func ParseRunAction(raw string) (RunAction, error) {
	switch action := RunAction(strings.ToLower(raw)); action {
	case RunActionPause, RunActionPlay, RunActionStop:
		return action, nil
	default:
		return "", fmt.Errorf("%w: %q, needs to be 'pause', 'play', or 'stop'", ErrInvalidRunAction, raw)
	}
}

type LightsState string

const (
	LightsOn  LightsState = "true"
	LightsOff LightsState = "false"
)

// ParseLightsState accepts a bool or a string. Strings are lower-cased and must
// then read exactly "true" or "false".
func ParseLightsState(value any) (LightsState, error) {
	var raw string
	switch v := value.(type) {
	case bool:
		raw = strconv.FormatBool(v)
	case string:
		raw = v
	case LightsState:
		raw = string(v)
	default:
		raw = fmt.Sprint(v)
	}

	switch state := LightsState(strings.ToLower(raw)); state {
	case LightsOn, LightsOff:
		return state, nil
	default:
		return "", fmt.Errorf("%w: %q, needs to be 'true' or 'false'", ErrInvalidLightsState, raw)
	}
}
