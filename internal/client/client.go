package client

import (
	"context"
	"encoding/json"
	"time"

	"printsync/internal/logger"
	"printsync/internal/models"
)

// Controller request methods.
const (
	methodPrinterInfo      = "printer.info"
	methodServerInfo       = "server.info"
	methodObjectsList      = "printer.objects.list"
	methodObjectsSubscribe = "printer.objects.subscribe"
	methodTemperatureStore = "server.temperature_store"
	methodGcodeStore       = "server.gcode_store"
	methodGcodeHelp        = "printer.gcode.help"
	methodGcodeScript      = "printer.gcode.script"
	methodPowerDevices     = "machine.device_power.devices"
	methodUpdateStatus     = "machine.update.status"
)

// Tuning knobs. The sampling geometry is part of the chart contract with the
// UI and is deliberately not configurable.
const (
	historyTarget     = 1200             // samples a full bulk history carries (~20 min at 1 s)
	chartWindow       = 600              // points in the reconstructed/rolling chart window
	sampleMinInterval = 1 * time.Second  // minimum spacing between live chart samples
	consoleHistory    = 1000             // console entries requested and retained
	defaultRetryDelay = 2 * time.Second  // fixed delay for the printer.info polling loop
	eventQueueSize    = 64
)

// Requester issues a named request to the controller. Calls are
// fire-and-forget; the matching response arrives later as a separate event.
type Requester interface {
	Request(method string, params any) error
}

// Deps carries the core's collaborators. Nil collaborators are replaced by
// no-op implementations.
type Deps struct {
	Conn       Requester
	Files      FileManager
	Power      PowerHandler
	Updates    UpdateHandler
	Macros     MacroConfig
	Sinks      []Sink
	RetryDelay time.Duration
	Log        *logger.Logger
}

// Status is a point-in-time view of the connection and printer, safe to hand
// to the dashboard.
type Status struct {
	ConnState     models.ConnState   `json:"conn_state"`
	Reconnecting  bool               `json:"reconnecting"` // current attempt is an automatic retry
	Printer       models.PrinterInfo `json:"printer"`
	Ready         bool               `json:"ready"`
	FailedPlugins []string           `json:"failed_plugins,omitempty"`
}

// Core reconstructs a consistent, bounded-memory view of controller state
// from transport events. All state is owned by the event loop goroutine:
// transport callbacks and timers post closures onto the loop, which Run
// drains one at a time, so handlers never race each other.
type Core struct {
	conn     Requester
	files    FileManager
	power    PowerHandler
	updates  UpdateHandler
	macroCfg MacroConfig
	sinks    []Sink
	log      *logger.Logger

	loop  chan func()
	retry retryTimer
	now   func() time.Time

	retryDelay time.Duration

	connState    models.ConnState
	reconnecting bool
	printer      models.PrinterInfo
	failed       []string
	stage        bootstrapStage
	statusIssued map[string]bool

	gate          bool
	subscriptions map[string]any
	objects       map[string]map[string]any
	sensors       map[string]*sensorState
	chartable     map[string]bool
	macros        map[string]models.Macro
	gcodeHelp     map[string]string

	chart      *chartBuffer
	lastSample time.Time
	console    []models.ConsoleEntry
	ready      bool
}

// New constructs a core around the given collaborators.
func New(deps Deps) *Core {
	c := &Core{
		conn:       deps.Conn,
		files:      deps.Files,
		power:      deps.Power,
		updates:    deps.Updates,
		macroCfg:   deps.Macros,
		sinks:      deps.Sinks,
		log:        deps.Log,
		loop:       make(chan func(), eventQueueSize),
		now:        time.Now,
		retryDelay: deps.RetryDelay,
		connState:  models.ConnDisconnected,
		chart:      newChartBuffer(chartWindow),
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	if c.retryDelay <= 0 {
		c.retryDelay = defaultRetryDelay
	}
	if c.files == nil {
		c.files = nopFiles{}
	}
	if c.power == nil {
		c.power = nopPower{}
	}
	if c.updates == nil {
		c.updates = nopUpdates{}
	}
	if c.macroCfg == nil {
		c.macroCfg = nopMacros{}
	}
	c.resetSession()
	return c
}

// AttachConn sets the transport used for outgoing requests. The transport
// takes the core as its event handler, so the caller builds the core first,
// then the transport, then attaches it here before Run.
func (c *Core) AttachConn(conn Requester) {
	c.conn = conn
}

// Run drains the event loop until ctx is canceled. Every handler runs to
// completion before the next event is processed.
func (c *Core) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.retry.Cancel()
			return
		case fn := <-c.loop:
			fn()
		}
	}
}

// post schedules fn on the event loop.
func (c *Core) post(fn func()) {
	c.loop <- fn
}

// ask runs fn on the event loop and waits for it. Requires Run to be active.
func (c *Core) ask(fn func()) {
	done := make(chan struct{})
	c.loop <- func() {
		fn()
		close(done)
	}
	<-done
}

// Transport event entrypoints. These satisfy the transport handler contract
// and only forward onto the loop.

func (c *Core) OnOpen()                 { c.post(c.handleOpen) }
func (c *Core) OnClose()                { c.post(c.handleClose) }
func (c *Core) OnConnecting(isRec bool) { c.post(func() { c.handleConnecting(isRec) }) }
func (c *Core) OnError(code int, msg string) {
	c.post(func() { c.handleError(code, msg) })
}
func (c *Core) OnResponse(method string, result json.RawMessage) {
	c.post(func() { c.handleResponse(method, result) })
}
func (c *Core) OnNotification(method string, params []json.RawMessage) {
	c.post(func() { c.handleNotification(method, params) })
}

// Queries. All run through the loop so readers never observe a half-applied
// handler.

// Snapshot returns the current connection and printer view.
func (c *Core) Snapshot() Status {
	var s Status
	c.ask(func() {
		s = Status{
			ConnState:     c.connState,
			Reconnecting:  c.reconnecting,
			Printer:       c.printer,
			Ready:         c.ready,
			FailedPlugins: append([]string(nil), c.failed...),
		}
	})
	return s
}

// Chart returns a copy of the rolling chart window.
func (c *Core) Chart() []models.ChartPoint {
	var pts []models.ChartPoint
	c.ask(func() { pts = c.chart.Points() })
	return pts
}

// Console returns up to limit most recent console entries, oldest first.
func (c *Core) Console(limit int) []models.ConsoleEntry {
	var out []models.ConsoleEntry
	c.ask(func() {
		entries := c.console
		if limit > 0 && len(entries) > limit {
			entries = entries[len(entries)-limit:]
		}
		out = append(out, entries...)
	})
	return out
}

// Macros returns the registered macros.
func (c *Core) Macros() []models.Macro {
	var out []models.Macro
	c.ask(func() {
		for _, m := range c.macros {
			out = append(out, m)
		}
	})
	return out
}

// SetChartable marks a sensor as included in (or excluded from) chart
// sampling.
func (c *Core) SetChartable(key string, on bool) {
	c.post(func() { c.chartable[key] = on })
}

// SendGcode echoes the script into the console and forwards it to the
// controller.
func (c *Core) SendGcode(script string) error {
	var err error
	c.ask(func() {
		c.addConsoleEntry(models.ConsoleEntry{
			Message: script,
			Type:    models.ConsoleTypeCommand,
		})
		err = c.request(methodGcodeScript, map[string]any{"script": script})
	})
	return err
}

// request issues a controller call, logging transport refusals. Responses
// arrive later as OnResponse/OnError events.
func (c *Core) request(method string, params any) error {
	if err := c.conn.Request(method, params); err != nil {
		c.log.Warnw("controller_request_failed", "method", method, "err", err)
		return err
	}
	return nil
}

// resetSession clears all downstream session state: gate, subscriptions,
// tracked objects, chart window, console and readiness. Connection state and
// the retry timer are managed by the callers.
func (c *Core) resetSession() {
	c.gate = false
	c.stage = stageIdle
	c.statusIssued = map[string]bool{}
	c.subscriptions = map[string]any{}
	c.objects = map[string]map[string]any{}
	c.sensors = map[string]*sensorState{}
	c.chartable = map[string]bool{}
	c.macros = map[string]models.Macro{}
	c.gcodeHelp = map[string]string{}
	c.failed = nil
	c.chart.Reset()
	c.lastSample = time.Time{}
	c.console = nil
	c.ready = false
}

// markReady flips the session-ready flag exactly once.
func (c *Core) markReady() {
	if c.ready {
		return
	}
	c.ready = true
	for _, s := range c.sinks {
		s.SessionReady()
	}
}

func (c *Core) setConnState(state models.ConnState) {
	if c.connState == state {
		return
	}
	c.connState = state
	for _, s := range c.sinks {
		s.ConnStateChanged(state)
	}
}

func (c *Core) emitPrinter() {
	for _, s := range c.sinks {
		s.PrinterUpdated(c.printer)
	}
}

func (c *Core) emitRequestError(message string) {
	for _, s := range c.sinks {
		s.RequestError(message)
	}
}

// No-op collaborator fallbacks.

type nopFiles struct{}

func (nopFiles) RegisteredDirectories([]string)              {}
func (nopFiles) FileListChanged(FileAction, json.RawMessage) {}
func (nopFiles) MetadataUpdate(json.RawMessage)              {}

type nopPower struct{}

func (nopPower) Status(map[string]string) {}

type nopUpdates struct{}

func (nopUpdates) UpdateResponse(json.RawMessage) {}
func (nopUpdates) UpdateStatus(json.RawMessage)   {}

type nopMacros struct{}

func (nopMacros) HiddenMacros() []string { return nil }
