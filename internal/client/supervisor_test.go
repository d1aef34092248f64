package client

import (
	"testing"
	"time"

	"printsync/internal/models"
)

func TestSupervisor_OpenIssuesDiscovery(t *testing.T) {
	env := newTestEnv()
	env.core.handleOpen()

	if env.core.connState != models.ConnOpen {
		t.Errorf("state = %v, want open", env.core.connState)
	}
	want := []string{methodPrinterInfo, methodServerInfo}
	got := env.conn.methods()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("discovery calls = %v, want %v", got, want)
	}
}

func TestSupervisor_CloseClearsSessionBeforeDisconnect(t *testing.T) {
	env := newTestEnv()
	env.openReady()
	env.subscribeWith(`{"extruder":{"temperature":200.0}}`)

	env.core.handleClose()

	if env.core.connState != models.ConnDisconnected {
		t.Errorf("state = %v, want disconnected", env.core.connState)
	}
	if env.core.gate {
		t.Error("gate still open after close")
	}
	if env.core.chart.Len() != 0 {
		t.Error("chart not cleared after close")
	}
	if len(env.core.subscriptions) != 0 || len(env.core.sensors) != 0 {
		t.Error("subscriptions/sensors not cleared after close")
	}
	if env.core.retry.Pending() {
		t.Error("retry timer survived close")
	}

	// A late notification must not resurrect state.
	env.core.handleNotification(notifyStatusUpdate,
		rawParams(`{"extruder":{"temperature":210.0}}`))
	if env.core.chart.Len() != 0 {
		t.Error("late notification appended a chart point after close")
	}

	// Reconnect restarts bootstrap from scratch.
	env.conn.calls = nil
	env.core.handleOpen()
	if env.conn.count(methodPrinterInfo) != 1 {
		t.Error("reopen did not re-issue printer.info")
	}
}

func TestSupervisor_ConnectingRecordsRetryFlag(t *testing.T) {
	env := newTestEnv()

	env.core.handleConnecting(false)
	if env.core.connState != models.ConnConnecting || env.core.reconnecting {
		t.Errorf("manual connect: state=%v reconnecting=%v", env.core.connState, env.core.reconnecting)
	}

	env.core.handleConnecting(true)
	if !env.core.reconnecting {
		t.Error("automatic retry not recorded")
	}
}

func TestSupervisor_ClientErrorSurfacedWithoutStateChange(t *testing.T) {
	env := newTestEnv()
	env.openReady()
	env.subscribeWith(`{"extruder":{"temperature":200.0}}`)
	before := env.core.chart.Len()

	env.core.handleError(400, `{'code': 400, 'message': 'Unknown command: FOO'}`)

	if len(env.sink.errors) != 1 || env.sink.errors[0] != "Unknown command: FOO" {
		t.Fatalf("surfaced errors = %v, want extracted message", env.sink.errors)
	}
	if !env.core.gate || env.core.chart.Len() != before {
		t.Error("client error mutated session state")
	}
	if env.core.retry.Pending() {
		t.Error("client error armed a retry")
	}
}

func TestSupervisor_DeviceErrorForcesErrorStateAndSingleRetry(t *testing.T) {
	env := newTestEnv()
	env.openReady()
	env.subscribeWith(`{"extruder":{"temperature":200.0}}`)

	env.core.handleError(503, "Klippy host not connected")

	if env.core.printer.State != models.PrinterStateError {
		t.Errorf("printer state = %q, want error", env.core.printer.State)
	}
	if env.core.printer.StateMessage != "Klippy host not connected" {
		t.Errorf("state message = %q", env.core.printer.StateMessage)
	}
	if env.core.connState != models.ConnError {
		t.Errorf("conn state = %v, want error", env.core.connState)
	}
	if env.core.gate || env.core.chart.Len() != 0 {
		t.Error("session state not reset on device error")
	}
	if !env.core.retry.Pending() {
		t.Fatal("no retry armed after device error")
	}

	// A second 503 before the timer fires replaces the pending timer; the
	// slot never holds more than one.
	env.core.handleError(503, "still down")
	if !env.core.retry.Pending() {
		t.Error("retry slot empty after re-arm")
	}
}

func TestSupervisor_UnclassifiedErrorIsNoOp(t *testing.T) {
	env := newTestEnv()
	env.openReady()

	env.core.handleError(500, "internal")

	if len(env.sink.errors) != 0 {
		t.Error("unclassified error surfaced to user")
	}
	if env.core.retry.Pending() {
		t.Error("unclassified error armed a retry")
	}
	if env.core.printer.State == models.PrinterStateError {
		t.Error("unclassified error mutated printer state")
	}
}

func TestSupervisor_ProbeAfterDeviceErrorRestoresOpen(t *testing.T) {
	env := newTestEnv()
	env.openReady()
	env.core.handleError(503, "down")

	env.core.handlePrinterInfo(rawJSON(`{"state":"ready"}`))

	if env.core.connState != models.ConnOpen {
		t.Errorf("conn state = %v, want open after successful probe", env.core.connState)
	}
}

func TestSupervisor_RetryProbeRequestsPrinterInfo(t *testing.T) {
	env := newTestEnv()
	env.core.retryDelay = 10 * time.Millisecond
	env.core.handleError(503, "down")

	// Drain the loop: the timer posts the probe onto it.
	deadline := time.After(time.Second)
	for {
		select {
		case fn := <-env.core.loop:
			fn()
		case <-deadline:
			t.Fatal("retry probe never posted")
		}
		if env.conn.count(methodPrinterInfo) > 0 {
			return
		}
	}
}
