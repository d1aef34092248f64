package client

import (
	"encoding/json"

	"printsync/internal/models"
)

// bootstrapStage tracks how far startup has advanced. Responses advance the
// stage idempotently: a duplicate printer.info response cannot re-issue the
// seeding calls.
type bootstrapStage int

const (
	stageIdle bootstrapStage = iota
	stageDiscovering // connection open, printer.info/server.info in flight
	stagePolling     // controller not ready, fixed-delay probe armed
	stageSeeding     // histories and help requested, waiting to subscribe
	stageSubscribed  // gate open, live notifications flowing
)

// Components with a status request to issue when discovered.
var initializablePlugins = map[string]string{
	"power":          methodPowerDevices,
	"update_manager": methodUpdateStatus,
}

// handlePrinterInfo drives the bootstrap sequencer: poll while the controller
// is starting up, seed histories once it reports ready.
func (c *Core) handlePrinterInfo(result json.RawMessage) {
	var info models.PrinterInfo
	if err := json.Unmarshal(result, &info); err != nil {
		c.log.Warnw("printer_info_decode_failed", "err", err)
		return
	}
	c.printer = info
	c.emitPrinter()
	if c.connState == models.ConnError {
		// A successful probe after a device error: channel is usable again.
		c.setConnState(models.ConnOpen)
	}

	if info.State != models.PrinterStateReady {
		// Startup has no completion signal to wait on; poll at a fixed delay.
		c.stage = stagePolling
		c.scheduleProbe()
		return
	}

	if c.stage >= stageSeeding {
		return
	}
	c.stage = stageSeeding
	c.retry.Cancel()

	// No ordering dependency among these; each response has its own handler.
	c.request(methodServerInfo, nil)
	c.request(methodGcodeStore, map[string]any{"count": consoleHistory})
	c.request(methodTemperatureStore, nil)
	c.request(methodGcodeHelp, nil)
}

// handleServerInfo records failed plugins, issues subsystem-status requests
// for known-initializable plugins exactly once, and forwards registered root
// directories to the file manager.
func (c *Core) handleServerInfo(result json.RawMessage) {
	var info models.ServerInfo
	if err := json.Unmarshal(result, &info); err != nil {
		c.log.Warnw("server_info_decode_failed", "err", err)
		return
	}
	for _, p := range info.FailedPlugins {
		c.log.Warnw("controller_plugin_failed", "plugin", p)
	}
	c.failed = info.FailedPlugins

	for _, component := range info.Components {
		method, ok := initializablePlugins[component]
		if !ok || c.statusIssued[component] {
			continue
		}
		c.statusIssued[component] = true
		c.request(method, nil)
	}

	if len(info.RootDirectories) > 0 {
		c.files.RegisteredDirectories(info.RootDirectories)
	}
}

// handleGcodeHelp stores the command help map for the console.
func (c *Core) handleGcodeHelp(result json.RawMessage) {
	var help map[string]string
	if err := json.Unmarshal(result, &help); err != nil {
		c.log.Warnw("gcode_help_decode_failed", "err", err)
		return
	}
	c.gcodeHelp = help
}

// handleResponse routes a controller response by its request method.
func (c *Core) handleResponse(method string, result json.RawMessage) {
	switch method {
	case methodPrinterInfo:
		c.handlePrinterInfo(result)
	case methodServerInfo:
		c.handleServerInfo(result)
	case methodObjectsList:
		c.handleObjectsList(result)
	case methodObjectsSubscribe:
		c.handleSubscribe(result)
	case methodTemperatureStore:
		c.handleTemperatureStore(result)
	case methodGcodeStore:
		c.handleGcodeStore(result)
	case methodGcodeHelp:
		c.handleGcodeHelp(result)
	case methodPowerDevices:
		c.handlePowerDevices(result)
	case methodUpdateStatus:
		c.updates.UpdateStatus(result)
	case methodGcodeScript:
		// "ok" acknowledgment; the interesting output arrives as a
		// notify_gcode_response.
	default:
		c.log.Debugw("unhandled_response", "method", method)
	}
}

// handlePowerDevices forwards the initial device-power status snapshot.
func (c *Core) handlePowerDevices(result json.RawMessage) {
	var res struct {
		Devices []struct {
			Device string `json:"device"`
			Status string `json:"status"`
		} `json:"devices"`
	}
	if err := json.Unmarshal(result, &res); err != nil {
		c.log.Warnw("power_devices_decode_failed", "err", err)
		return
	}
	status := make(map[string]string, len(res.Devices))
	for _, d := range res.Devices {
		status[d.Device] = d.Status
	}
	if len(status) > 0 {
		c.power.Status(status)
	}
}
