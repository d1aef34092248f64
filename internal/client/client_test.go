package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"printsync/internal/logger"
	"printsync/internal/models"
)

// ---- shared test doubles ----

type requestCall struct {
	method string
	params any
}

// fakeConn records outbound controller requests.
type fakeConn struct {
	calls []requestCall
	err   error
}

func (f *fakeConn) Request(method string, params any) error {
	f.calls = append(f.calls, requestCall{method: method, params: params})
	return f.err
}

func (f *fakeConn) methods() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.method)
	}
	return out
}

func (f *fakeConn) count(method string) int {
	n := 0
	for _, c := range f.calls {
		if c.method == method {
			n++
		}
	}
	return n
}

// recordSink records everything the core emits.
type recordSink struct {
	connStates []models.ConnState
	printers   []models.PrinterInfo
	points     []models.ChartPoint
	console    []models.ConsoleEntry
	errors     []string
	readyCalls int
}

func (s *recordSink) ConnStateChanged(st models.ConnState)   { s.connStates = append(s.connStates, st) }
func (s *recordSink) PrinterUpdated(p models.PrinterInfo)    { s.printers = append(s.printers, p) }
func (s *recordSink) ChartPointAdded(p models.ChartPoint)    { s.points = append(s.points, p) }
func (s *recordSink) ConsoleAppended(e models.ConsoleEntry)  { s.console = append(s.console, e) }
func (s *recordSink) RequestError(msg string)                { s.errors = append(s.errors, msg) }
func (s *recordSink) SessionReady()                          { s.readyCalls++ }

// recordFiles records file-management collaborator calls.
type recordFiles struct {
	dirs     [][]string
	actions  []FileAction
	payloads []json.RawMessage
	metadata []json.RawMessage
}

func (f *recordFiles) RegisteredDirectories(dirs []string) { f.dirs = append(f.dirs, dirs) }
func (f *recordFiles) FileListChanged(a FileAction, p json.RawMessage) {
	f.actions = append(f.actions, a)
	f.payloads = append(f.payloads, p)
}
func (f *recordFiles) MetadataUpdate(p json.RawMessage) { f.metadata = append(f.metadata, p) }

type recordPower struct {
	statuses []map[string]string
}

func (p *recordPower) Status(devices map[string]string) { p.statuses = append(p.statuses, devices) }

type recordUpdates struct {
	responses []json.RawMessage
	statuses  []json.RawMessage
}

func (u *recordUpdates) UpdateResponse(p json.RawMessage) { u.responses = append(u.responses, p) }
func (u *recordUpdates) UpdateStatus(p json.RawMessage)   { u.statuses = append(u.statuses, p) }

type staticMacroConfig struct {
	hidden []string
}

func (m staticMacroConfig) HiddenMacros() []string { return m.hidden }

// testEnv bundles a core with all its recording collaborators. Handlers are
// invoked directly, the event loop is not started.
type testEnv struct {
	core    *Core
	conn    *fakeConn
	sink    *recordSink
	files   *recordFiles
	power   *recordPower
	updates *recordUpdates
	clock   time.Time
}

func newTestEnv(hidden ...string) *testEnv {
	env := &testEnv{
		conn:    &fakeConn{},
		sink:    &recordSink{},
		files:   &recordFiles{},
		power:   &recordPower{},
		updates: &recordUpdates{},
		clock:   time.Unix(1700000000, 0),
	}
	env.core = New(Deps{
		Conn:    env.conn,
		Files:   env.files,
		Power:   env.power,
		Updates: env.updates,
		Macros:  staticMacroConfig{hidden: hidden},
		Sinks:   []Sink{env.sink},
		Log:     logger.Nop(),
	})
	env.core.now = func() time.Time { return env.clock }
	return env
}

// advance moves the injected clock forward.
func (e *testEnv) advance(d time.Duration) { e.clock = e.clock.Add(d) }

// openReady walks the core through open → printer ready, leaving it in the
// seeding stage with histories requested.
func (e *testEnv) openReady() {
	e.core.handleOpen()
	e.core.handlePrinterInfo(rawJSON(`{"state":"ready","state_message":""}`))
}

// subscribeWith opens the gate with the given initial status snapshot.
func (e *testEnv) subscribeWith(status string) {
	e.core.handleSubscribe(rawJSON(`{"status":` + status + `}`))
}

func rawJSON(s string) json.RawMessage { return json.RawMessage(s) }

func rawParams(ss ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(ss))
	for _, s := range ss {
		out = append(out, json.RawMessage(s))
	}
	return out
}

var errConnDown = errors.New("transport not connected")

// ---- queries through a live loop ----

func TestSendGcode_TransportFailureSurfaces(t *testing.T) {
	env := newTestEnv()
	env.conn.err = errConnDown

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go env.core.Run(ctx)

	if err := env.core.SendGcode("G28"); !errors.Is(err, errConnDown) {
		t.Fatalf("expected transport error, got %v", err)
	}
	// the command is still echoed into the console
	entries := env.core.Console(0)
	if len(entries) != 1 || entries[0].Message != "G28" {
		t.Fatalf("console echo missing: %+v", entries)
	}
	if entries[0].Type != models.ConsoleTypeCommand {
		t.Fatalf("echoed entry type = %q", entries[0].Type)
	}
}
