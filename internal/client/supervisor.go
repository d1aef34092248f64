package client

import "printsync/internal/models"

// Connection lifecycle: Disconnected → Connecting → Open → {Disconnected |
// Error}. Error returns to Open once a printer.info probe succeeds.

func (c *Core) handleOpen() {
	c.setConnState(models.ConnOpen)
	c.stage = stageDiscovering
	c.request(methodPrinterInfo, nil)
	c.request(methodServerInfo, nil)
}

// handleClose atomically cancels the pending retry and tears down session
// state so a late timer or notification cannot resurrect it.
func (c *Core) handleClose() {
	c.retry.Cancel()
	c.resetSession()
	c.setConnState(models.ConnDisconnected)
}

func (c *Core) handleConnecting(isReconnect bool) {
	c.reconnecting = isReconnect
	c.setConnState(models.ConnConnecting)
}

// handleError reacts to a controller error per its classification.
func (c *Core) handleError(code int, message string) {
	switch classifyError(code) {
	case actionSurface:
		// Terminal request failure: tell the user, change nothing.
		c.emitRequestError(extractErrorMessage(message))
	case actionRecover:
		// Device subsystem unresponsive: reset, show an error state and
		// poll printer.info until it comes back.
		c.resetSession()
		c.setConnState(models.ConnError)
		c.printer.State = models.PrinterStateError
		c.printer.StateMessage = message
		c.emitPrinter()
		c.scheduleProbe()
	default:
		// Unspecified upstream; log and wait for a classified signal.
		c.log.Warnw("unclassified_controller_error", "code", code, "message", message)
	}
}

// scheduleProbe arms the single retry slot with a fixed-delay printer.info
// probe. Arming cancels any pending probe, device-error and not-ready
// retries share the slot.
func (c *Core) scheduleProbe() {
	c.retry.Arm(c.retryDelay, func() {
		c.post(func() { c.request(methodPrinterInfo, nil) })
	})
}
