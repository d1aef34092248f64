package client

import "printsync/internal/models"

// chartBuffer is the rolling window consumed by the UI: append-only with
// oldest-eviction once the configured capacity is exceeded.
type chartBuffer struct {
	capacity int
	points   []models.ChartPoint
}

func newChartBuffer(capacity int) *chartBuffer {
	return &chartBuffer{capacity: capacity}
}

// Append adds a point, evicting the oldest entries beyond capacity.
func (b *chartBuffer) Append(p models.ChartPoint) {
	b.points = append(b.points, p)
	if n := len(b.points) - b.capacity; n > 0 {
		b.points = append(b.points[:0], b.points[n:]...)
	}
}

// Points returns a copy of the current window, oldest first.
func (b *chartBuffer) Points() []models.ChartPoint {
	out := make([]models.ChartPoint, len(b.points))
	copy(out, b.points)
	return out
}

// Last returns the most recent point.
func (b *chartBuffer) Last() (models.ChartPoint, bool) {
	if len(b.points) == 0 {
		return models.ChartPoint{}, false
	}
	return b.points[len(b.points)-1], true
}

func (b *chartBuffer) Len() int { return len(b.points) }

// Reset drops all points.
func (b *chartBuffer) Reset() { b.points = nil }
