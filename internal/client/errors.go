package client

import (
	"encoding/json"
	"strings"
)

// errorAction is the classification outcome for a controller error code.
type errorAction int

const (
	// actionSurface: terminal request failure, show the message to the user.
	actionSurface errorAction = iota
	// actionRecover: device subsystem unresponsive, reset and poll.
	actionRecover
	// actionUnclassified: codes the controller contract leaves unspecified.
	actionUnclassified
)

const codeSubsystemUnavailable = 503

// classifyError maps a controller error code to an action.
func classifyError(code int) errorAction {
	switch {
	case code >= 400 && code < 500:
		return actionSurface
	case code == codeSubsystemUnavailable:
		return actionRecover
	default:
		return actionUnclassified
	}
}

// extractErrorMessage pulls the inner "message" field out of a controller
// error payload. The controller emits pseudo-JSON with single quotes; those
// are normalized before parsing. Falls back to the raw string when the
// payload is not parseable.
func extractErrorMessage(raw string) string {
	normalized := strings.ReplaceAll(raw, "'", `"`)
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(normalized), &payload); err != nil || payload.Message == "" {
		return raw
	}
	return payload.Message
}
