package client

import (
	"encoding/json"

	"printsync/internal/models"
)

// Notification topics pushed by the controller.
const (
	notifyStatusUpdate       = "notify_status_update"
	notifyGcodeResponse      = "notify_gcode_response"
	notifyFilelistChanged    = "notify_filelist_changed"
	notifyMetadataUpdate     = "notify_metadata_update"
	notifyPowerChanged       = "notify_power_changed"
	notifyUpdateResponse     = "notify_update_response"
	notifyUpdateRefreshed    = "notify_update_refreshed"
	notifyKlippyDisconnected = "notify_klippy_disconnected"
	notifyKlippyShutdown     = "notify_klippy_shutdown"
)

// handleNotification dispatches a push notification by topic. The controller
// may push before acknowledging the subscribe call; until that ack arrives
// the gate is closed and notifications are dropped, as accepting them early
// would corrupt state the subscribe response is about to initialize. The
// klippy lifecycle topics bypass the gate: a shutdown pushed mid-bootstrap
// must still restart the probe loop.
func (c *Core) handleNotification(method string, params []json.RawMessage) {
	switch method {
	case notifyKlippyDisconnected, notifyKlippyShutdown:
		// Session reset, not an error: the transport stays up and bootstrap
		// restarts from a fresh printer.info probe.
		c.retry.Cancel()
		c.resetSession()
		c.request(methodPrinterInfo, nil)
		return
	}

	if !c.gate {
		return
	}

	switch method {
	case notifyStatusUpdate:
		var status map[string]json.RawMessage
		if !decodeParam(params, &status) {
			return
		}
		c.applyStatus(status, c.now())
	case notifyGcodeResponse:
		var msg string
		if !decodeParam(params, &msg) {
			return
		}
		c.addConsoleEntry(models.ConsoleEntry{Message: msg})
	case notifyFilelistChanged:
		if len(params) == 0 {
			return
		}
		var payload struct {
			Action string `json:"action"`
		}
		if err := json.Unmarshal(params[0], &payload); err != nil {
			return
		}
		action := ParseFileAction(payload.Action)
		if action == FileActionUnknown {
			c.log.Warnw("unrecognized_filelist_action", "action", payload.Action)
		}
		c.files.FileListChanged(action, params[0])
	case notifyMetadataUpdate:
		if len(params) > 0 {
			c.files.MetadataUpdate(params[0])
		}
	case notifyPowerChanged:
		var change struct {
			Device string `json:"device"`
			Status string `json:"status"`
		}
		if !decodeParam(params, &change) || change.Device == "" {
			return
		}
		c.power.Status(map[string]string{change.Device: change.Status})
	case notifyUpdateResponse:
		if len(params) > 0 {
			c.updates.UpdateResponse(params[0])
		}
	case notifyUpdateRefreshed:
		if len(params) > 0 {
			c.updates.UpdateStatus(params[0])
		}
	default:
		c.log.Debugw("unhandled_notification", "method", method)
	}
}

// decodeParam unmarshals the first notification parameter into v.
func decodeParam(params []json.RawMessage, v any) bool {
	if len(params) == 0 {
		return false
	}
	return json.Unmarshal(params[0], v) == nil
}
