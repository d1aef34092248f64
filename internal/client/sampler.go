package client

import (
	"encoding/json"
	"strings"
	"time"

	"printsync/internal/models"
)

// sensorState holds the latest values for one temperature-reporting object.
type sensorState struct {
	Temperature float64
	Target      float64
	Power       float64
	Speed       float64
	HasTarget   bool
	HasPower    bool
	HasSpeed    bool
}

// applyStatus writes the latest value of every updated key into tracked
// state immediately (unconditional), then runs rate-limited chart sampling.
// Both the subscribe snapshot and live notifications land here.
func (c *Core) applyStatus(status map[string]json.RawMessage, now time.Time) {
	for key, raw := range status {
		if strings.HasPrefix(key, macroPrefix) {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			c.log.Debugw("status_decode_failed", "object", key, "err", err)
			continue
		}
		obj, ok := c.objects[key]
		if !ok {
			obj = map[string]any{}
			c.objects[key] = obj
		}
		for f, v := range fields {
			obj[f] = v
		}
		c.updateSensor(key, fields)
	}
	c.sample(now)
}

// updateSensor maintains the per-sensor latest-value state used to build
// chart points.
func (c *Core) updateSensor(key string, fields map[string]any) {
	temp, hasTemp := fields["temperature"].(float64)
	if !hasTemp {
		if _, tracked := c.sensors[key]; !tracked {
			return
		}
	}
	st, ok := c.sensors[key]
	if !ok {
		st = &sensorState{}
		c.sensors[key] = st
		if _, set := c.chartable[key]; !set {
			c.chartable[key] = true
		}
	}
	if hasTemp {
		st.Temperature = temp
	}
	if v, ok := fields["target"].(float64); ok {
		st.Target = v
		st.HasTarget = true
	}
	if v, ok := fields["power"].(float64); ok {
		st.Power = v
		st.HasPower = true
	}
	if v, ok := fields["speed"].(float64); ok {
		st.Speed = v
		st.HasSpeed = true
	}
}

// sample appends one chart point unless the previous one is younger than the
// minimum interval. Evaluated synchronously on each accepted update: a burst
// of notifications yields at most one point per window. The first successful
// sample marks the session ready.
func (c *Core) sample(now time.Time) {
	if !c.lastSample.IsZero() && now.Sub(c.lastSample) < sampleMinInterval {
		return
	}
	c.appendChartPoint(c.buildChartPoint(now))
	c.lastSample = now
	c.markReady()
}

// buildChartPoint snapshots the current values of all chartable sensors.
func (c *Core) buildChartPoint(now time.Time) models.ChartPoint {
	values := map[string]float64{}
	for key, st := range c.sensors {
		if !c.chartable[key] {
			continue
		}
		label := chartLabel(key)
		values[label] = st.Temperature
		if st.HasTarget {
			values[label+"Target"] = st.Target
		}
		if st.HasPower {
			values[label+"Power"] = st.Power
		}
		if st.HasSpeed {
			values[label+"Speed"] = st.Speed
		}
	}
	return models.ChartPoint{Time: now, Values: values}
}

func (c *Core) appendChartPoint(p models.ChartPoint) {
	c.chart.Append(p)
	for _, s := range c.sinks {
		s.ChartPointAdded(p)
	}
}

// chartLabel maps a sensor key to its chart series label: compound object
// names ("temperature_sensor chamber") contribute under their second token.
func chartLabel(key string) string {
	if i := strings.IndexByte(key, ' '); i >= 0 {
		rest := key[i+1:]
		if j := strings.IndexByte(rest, ' '); j >= 0 {
			return rest[:j]
		}
		return rest
	}
	return key
}
