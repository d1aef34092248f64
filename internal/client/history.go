package client

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"printsync/internal/models"
)

// Marker prefixing replayed console history so the UI can tell it from live
// traffic.
const receivedMarker = "// "

// Sensor classes that never legitimately report a target; the controller
// sometimes returns a spurious targets array for them.
var targetlessClasses = map[string]bool{
	"temperature_sensor": true,
	"temperature_probe":  true,
	"probe":              true,
}

// handleGcodeStore replays historical console entries through the same path
// as live entries, so normalization applies uniformly.
func (c *Core) handleGcodeStore(result json.RawMessage) {
	var res struct {
		GcodeStore []struct {
			Message string  `json:"message"`
			Time    float64 `json:"time"`
			Type    string  `json:"type"`
		} `json:"gcode_store"`
	}
	if err := json.Unmarshal(result, &res); err != nil {
		c.log.Warnw("gcode_store_decode_failed", "err", err)
		return
	}
	for _, e := range res.GcodeStore {
		c.addConsoleEntry(models.ConsoleEntry{
			Message: receivedMarker + e.Message,
			Time:    int64(e.Time),
			Type:    e.Type,
		})
	}
}

// handleTemperatureStore normalizes the bulk history into the initial chart
// window, seeds latest-value sensor state from the newest samples, and then
// triggers object discovery. History must land before live subscription so
// the first live sample extends a populated window.
func (c *Core) handleTemperatureStore(result json.RawMessage) {
	var stores map[string]models.SensorHistory
	if err := json.Unmarshal(result, &stores); err != nil {
		c.log.Warnw("temperature_store_decode_failed", "err", err)
		return
	}

	for _, p := range reconstructWindow(stores, c.now()) {
		c.appendChartPoint(p)
	}
	c.seedSensors(stores)

	c.request(methodObjectsList, nil)
}

// seedSensors primes latest-value state and chartability from the newest
// history sample of each sensor.
func (c *Core) seedSensors(stores map[string]models.SensorHistory) {
	for key, h := range stores {
		n := normalizeSensorHistory(key, h)
		st := &sensorState{}
		if len(n.Temperatures) > 0 {
			st.Temperature = n.Temperatures[len(n.Temperatures)-1]
		}
		if len(n.Targets) > 0 {
			st.Target = n.Targets[len(n.Targets)-1]
			st.HasTarget = true
		}
		if len(n.Powers) > 0 {
			st.Power = n.Powers[len(n.Powers)-1]
			st.HasPower = true
		}
		if len(n.Speeds) > 0 {
			st.Speed = n.Speeds[len(n.Speeds)-1]
			st.HasSpeed = true
		}
		c.sensors[key] = st
		if _, set := c.chartable[key]; !set {
			c.chartable[key] = true
		}
	}
}

// reconstructWindow is a pure transform from raw per-sensor history arrays to
// exactly chartWindow chart points covering the most recent half of the
// padded history. The input payload is never mutated.
func reconstructWindow(stores map[string]models.SensorHistory, now time.Time) []models.ChartPoint {
	type series struct {
		label string
		h     models.SensorHistory
	}
	keys := make([]string, 0, len(stores))
	for key := range stores {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	normalized := make([]series, 0, len(keys))
	for _, key := range keys {
		normalized = append(normalized, series{
			label: chartLabel(key),
			h:     normalizeSensorHistory(key, stores[key]),
		})
	}

	points := make([]models.ChartPoint, 0, chartWindow)
	for i := 0; i < chartWindow; i++ {
		idx := i + chartWindow
		values := map[string]float64{}
		for _, s := range normalized {
			if idx < len(s.h.Temperatures) {
				values[s.label] = s.h.Temperatures[idx]
			}
			if idx < len(s.h.Targets) {
				values[s.label+"Target"] = s.h.Targets[idx]
			}
			if idx < len(s.h.Powers) {
				values[s.label+"Power"] = s.h.Powers[idx]
			}
			if idx < len(s.h.Speeds) {
				values[s.label+"Speed"] = s.h.Speeds[idx]
			}
		}
		points = append(points, models.ChartPoint{
			Time:   now.Add(-time.Duration(chartWindow-i) * time.Second),
			Values: values,
		})
	}
	return points
}

// normalizeSensorHistory returns a copy of h padded (or trimmed) to exactly
// historyTarget samples. A short history is left-padded: temperatures
// replicate the first real sample for a flat, non-misleading lead-in, while
// targets/powers/speeds zero-fill. Targets are dropped entirely for sensor
// classes that cannot have one.
func normalizeSensorHistory(key string, h models.SensorHistory) models.SensorHistory {
	out := models.SensorHistory{
		Temperatures: padLeft(h.Temperatures, firstOrZero(h.Temperatures)),
		Targets:      padLeft(h.Targets, 0),
		Powers:       padLeft(h.Powers, 0),
		Speeds:       padLeft(h.Speeds, 0),
	}
	if targetlessClasses[sensorClass(key)] {
		out.Targets = nil
	}
	return out
}

// padLeft copies src resized to historyTarget: short arrays are left-padded
// with fill, long ones keep only the most recent samples.
func padLeft(src []float64, fill float64) []float64 {
	if src == nil {
		return nil
	}
	if len(src) >= historyTarget {
		out := make([]float64, historyTarget)
		copy(out, src[len(src)-historyTarget:])
		return out
	}
	deficit := historyTarget - len(src)
	out := make([]float64, historyTarget)
	for i := 0; i < deficit; i++ {
		out[i] = fill
	}
	copy(out[deficit:], src)
	return out
}

func firstOrZero(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return vals[0]
}

// sensorClass is the class portion of an object key ("temperature_sensor
// chamber" → "temperature_sensor").
func sensorClass(key string) string {
	if i := strings.IndexByte(key, ' '); i >= 0 {
		return key[:i]
	}
	return key
}
