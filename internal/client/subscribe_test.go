package client

import (
	"testing"
)

func TestObjectsList_MacrosMenusAndSubscriptions(t *testing.T) {
	env := newTestEnv("hidden_macro")
	env.openReady()
	env.conn.calls = nil

	env.core.handleObjectsList(rawJSON(`{"objects":[
		"extruder",
		"heater_bed",
		"gcode_macro PAUSE",
		"gcode_macro HIDDEN_MACRO",
		"menu main",
		"temperature_sensor chamber"
	]}`))

	// Macros registered with visibility from configuration.
	if m, ok := env.core.macros["PAUSE"]; !ok || !m.Visible {
		t.Errorf("PAUSE macro = %+v, want visible", env.core.macros["PAUSE"])
	}
	if m, ok := env.core.macros["HIDDEN_MACRO"]; !ok || m.Visible {
		t.Errorf("HIDDEN_MACRO macro = %+v, want hidden", env.core.macros["HIDDEN_MACRO"])
	}

	// Subscription set excludes macros and menu objects.
	for _, key := range []string{"extruder", "heater_bed", "temperature_sensor chamber"} {
		if _, ok := env.core.subscriptions[key]; !ok {
			t.Errorf("subscription set missing %q", key)
		}
	}
	for _, key := range []string{"gcode_macro PAUSE", "menu main"} {
		if _, ok := env.core.subscriptions[key]; ok {
			t.Errorf("subscription set wrongly contains %q", key)
		}
	}

	// A single subscribe call carrying the accumulated set.
	if env.conn.count(methodObjectsSubscribe) != 1 {
		t.Fatalf("subscribe calls = %d, want 1", env.conn.count(methodObjectsSubscribe))
	}
	params, ok := env.conn.calls[len(env.conn.calls)-1].params.(map[string]any)
	if !ok {
		t.Fatal("subscribe params not a map")
	}
	objects, ok := params["objects"].(map[string]any)
	if !ok || len(objects) != 3 {
		t.Fatalf("subscribe objects = %v, want 3 placeholders", params["objects"])
	}
}

func TestSubscribe_OpensGateAndFeedsSnapshot(t *testing.T) {
	env := newTestEnv()
	env.openReady()

	if env.core.gate {
		t.Fatal("gate open before subscribe ack")
	}
	env.subscribeWith(`{"extruder":{"temperature":195.0,"target":200.0}}`)

	if !env.core.gate {
		t.Fatal("gate closed after subscribe ack")
	}
	if env.core.stage != stageSubscribed {
		t.Errorf("stage = %v, want subscribed", env.core.stage)
	}
	// The snapshot went down the same path as live updates: sensor tracked
	// and an initial chart point sampled.
	st, ok := env.core.sensors["extruder"]
	if !ok || st.Temperature != 195.0 {
		t.Errorf("snapshot not applied: %+v", st)
	}
	if env.core.chart.Len() != 1 {
		t.Errorf("chart points = %d, want 1 from snapshot", env.core.chart.Len())
	}
}

func TestMacroHidden_CaseInsensitive(t *testing.T) {
	env := newTestEnv("Start_Print")
	if !env.core.macroHidden("START_PRINT") {
		t.Error("hidden-macro lookup should be case-insensitive")
	}
	if env.core.macroHidden("PAUSE") {
		t.Error("PAUSE wrongly hidden")
	}
}
