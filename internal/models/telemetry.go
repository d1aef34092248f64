package models

import "time"

// SensorHistory holds the raw per-field arrays returned by a bulk temperature
// history query for one sensor key. Arrays are time-ordered, oldest first, at
// a nominal 1 s cadence. Targets/Powers/Speeds are optional per sensor class.
type SensorHistory struct {
	Temperatures []float64 `json:"temperatures"`
	Targets      []float64 `json:"targets,omitempty"`
	Powers       []float64 `json:"powers,omitempty"`
	Speeds       []float64 `json:"speeds,omitempty"`
}

// ChartPoint is one down-sampled observation across all charted sensors.
// Values keys are the sensor label plus the "<label>Target", "<label>Power"
// and "<label>Speed" variants when the sensor reports them.
type ChartPoint struct {
	Time   time.Time          `json:"time"`
	Values map[string]float64 `json:"values"`
}
