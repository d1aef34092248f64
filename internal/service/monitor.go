package service

import (
	"errors"
	"strings"

	"printsync/internal/client"
	"printsync/internal/models"
)

// ErrEmptyScript rejects blank gcode submissions before they reach the
// controller.
var ErrEmptyScript = errors.New("gcode script is empty")

// MonitorService is the read model over the sync core.
type MonitorService struct {
	core *client.Core
}

func NewMonitorService(core *client.Core) *MonitorService {
	return &MonitorService{core: core}
}

var _ Monitor = (*MonitorService)(nil)

func (s *MonitorService) Snapshot() client.Status { return s.core.Snapshot() }

func (s *MonitorService) Chart() []models.ChartPoint { return s.core.Chart() }

func (s *MonitorService) Console(limit int) []models.ConsoleEntry { return s.core.Console(limit) }

func (s *MonitorService) Macros() []models.Macro { return s.core.Macros() }

// SendGcode validates and forwards a gcode script to the controller.
func (s *MonitorService) SendGcode(script string) error {
	if strings.TrimSpace(script) == "" {
		return ErrEmptyScript
	}
	return s.core.SendGcode(script)
}
