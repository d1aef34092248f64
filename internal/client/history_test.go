package client

import (
	"encoding/json"
	"testing"
	"time"

	"printsync/internal/models"
)

// series returns n samples counting up from start.
func series(start float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

func TestNormalizeSensorHistory_Padding(t *testing.T) {
	t.Parallel()

	h := models.SensorHistory{
		Temperatures: series(100, 1000), // deficit of 200
		Targets:      series(0, 1000),
	}
	got := normalizeSensorHistory("extruder", h)

	if len(got.Temperatures) != historyTarget {
		t.Fatalf("padded length = %d, want %d", len(got.Temperatures), historyTarget)
	}
	// Left padding replicates the first real temperature sample.
	for i := 0; i < 200; i++ {
		if got.Temperatures[i] != 100 {
			t.Fatalf("temperature pad[%d] = %v, want 100", i, got.Temperatures[i])
		}
	}
	if got.Temperatures[200] != 100 || got.Temperatures[1199] != 1099 {
		t.Errorf("real samples misplaced: [200]=%v [1199]=%v", got.Temperatures[200], got.Temperatures[1199])
	}
	// Targets zero-fill.
	for i := 0; i < 200; i++ {
		if got.Targets[i] != 0 {
			t.Fatalf("target pad[%d] = %v, want 0", i, got.Targets[i])
		}
	}
	// Input not mutated.
	if len(h.Temperatures) != 1000 {
		t.Errorf("input mutated: length %d", len(h.Temperatures))
	}
}

func TestNormalizeSensorHistory_TrimsOverlongHistory(t *testing.T) {
	t.Parallel()

	h := models.SensorHistory{Temperatures: series(0, 1500)}
	got := normalizeSensorHistory("extruder", h)
	if len(got.Temperatures) != historyTarget {
		t.Fatalf("length = %d, want %d", len(got.Temperatures), historyTarget)
	}
	// Only the most recent samples are kept.
	if got.Temperatures[0] != 300 || got.Temperatures[1199] != 1499 {
		t.Errorf("trim kept wrong samples: [0]=%v [1199]=%v", got.Temperatures[0], got.Temperatures[1199])
	}
}

func TestNormalizeSensorHistory_DropsSpuriousTargets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		key        string
		wantTarget bool
	}{
		{"temperature_sensor chamber", false},
		{"temperature_probe nozzle", false},
		{"probe", false},
		{"extruder", true},
		{"heater_generic chamber_heater", true},
	}
	for _, tc := range cases {
		h := models.SensorHistory{
			Temperatures: series(25, historyTarget),
			Targets:      series(0, historyTarget),
		}
		got := normalizeSensorHistory(tc.key, h)
		if (got.Targets != nil) != tc.wantTarget {
			t.Errorf("%s: targets kept = %v, want %v", tc.key, got.Targets != nil, tc.wantTarget)
		}
	}
}

func TestReconstructWindow_Geometry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	stores := map[string]models.SensorHistory{
		"extruder": {
			Temperatures: series(0, 1000), // deficit 200, pad value 0
		},
	}
	points := reconstructWindow(stores, now)

	if len(points) != chartWindow {
		t.Fatalf("window size = %d, want %d", len(points), chartWindow)
	}
	// Output index 0 reads padded index 600. With a 200 deficit, padded[600]
	// is raw[400].
	if got := points[0].Values["extruder"]; got != 400 {
		t.Errorf("points[0] = %v, want 400 (padded[600])", got)
	}
	if got := points[chartWindow-1].Values["extruder"]; got != 999 {
		t.Errorf("last point = %v, want 999 (newest sample)", got)
	}
	// Timestamps: now - (windowSize - i) seconds.
	if got := points[0].Time; !got.Equal(now.Add(-600 * time.Second)) {
		t.Errorf("points[0].Time = %v, want now-600s", got)
	}
	if got := points[chartWindow-1].Time; !got.Equal(now.Add(-1 * time.Second)) {
		t.Errorf("last point time = %v, want now-1s", got)
	}
}

func TestReconstructWindow_NoTargetForSensorClasses(t *testing.T) {
	t.Parallel()

	stores := map[string]models.SensorHistory{
		"temperature_sensor chamber": {
			Temperatures: series(30, historyTarget),
			Targets:      series(50, historyTarget), // spurious
		},
	}
	for _, p := range reconstructWindow(stores, time.Unix(1700000000, 0)) {
		if _, ok := p.Values["chamberTarget"]; ok {
			t.Fatal("chamberTarget present for a target-less sensor class")
		}
		if _, ok := p.Values["chamber"]; !ok {
			t.Fatal("chamber temperature missing")
		}
	}
}

func TestHandleTemperatureStore_SeedsAndTriggersDiscovery(t *testing.T) {
	env := newTestEnv()
	env.openReady()
	env.conn.calls = nil

	payload, _ := json.Marshal(map[string]models.SensorHistory{
		"extruder": {
			Temperatures: series(180, 1200),
			Targets:      series(200, 1200),
		},
	})
	env.core.handleTemperatureStore(payload)

	if got := env.core.chart.Len(); got != chartWindow {
		t.Fatalf("seeded points = %d, want %d", got, chartWindow)
	}
	st, ok := env.core.sensors["extruder"]
	if !ok {
		t.Fatal("extruder sensor not seeded")
	}
	if st.Temperature != 180+1199 || !st.HasTarget {
		t.Errorf("seeded latest = %+v, want newest history sample", st)
	}
	if env.conn.count(methodObjectsList) != 1 {
		t.Errorf("objects.list requests = %d, want 1 (after reconstruction)", env.conn.count(methodObjectsList))
	}
}

func TestHandleGcodeStore_ReplaysThroughNormalization(t *testing.T) {
	env := newTestEnv()
	env.core.handleGcodeStore(rawJSON(`{"gcode_store":[
		{"message":"ok\r\nok","time":1699999000.5,"type":"response"},
		{"message":"G28","time":1699999001.2,"type":"command"}
	]}`))

	if len(env.sink.console) != 2 {
		t.Fatalf("replayed entries = %d, want 2", len(env.sink.console))
	}
	first := env.sink.console[0]
	if first.Message != receivedMarker+"ok<br />ok" {
		t.Errorf("message = %q, want received marker + normalized text", first.Message)
	}
	if first.Time != 1699999000 {
		t.Errorf("time = %d, want truncated history timestamp", first.Time)
	}
	if env.sink.console[1].Type != models.ConsoleTypeCommand {
		t.Errorf("type = %q, want command preserved", env.sink.console[1].Type)
	}
}
