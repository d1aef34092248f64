package service

import (
	"context"
	"time"

	"printsync/internal/client"
	"printsync/internal/models"
	"printsync/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Monitor exposes the live controller mirror: connection status, chart
// window, console and macros.
type Monitor interface {
	Snapshot() client.Status
	Chart() []models.ChartPoint
	Console(limit int) []models.ConsoleEntry
	Macros() []models.Macro
	SendGcode(script string) error
}

// HistoryFilter bounds an archive query; zero times mean unbounded.
type HistoryFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

// Archive exposes the persisted console and telemetry history.
type Archive interface {
	ConsoleHistory(ctx context.Context, f HistoryFilter) ([]models.ConsoleEntry, error)
	SampleHistory(ctx context.Context, f HistoryFilter) ([]models.ChartPoint, error)
}

// Peripherals exposes the latest collaborator state forwarded by the core.
type Peripherals interface {
	PowerDevices() map[string]string
	RootDirectories() []string
}

// Service aggregates all sub-services.
type Service struct {
	Monitor
	Archive
	Peripherals
	Authorization
}

// Config carries the service-level settings sourced from the config file.
type Config struct {
	SigningKey string
}

// NewService composes the concrete sub-services. The archiver and
// peripheral state are built by the caller first: both must be handed to the
// core as collaborators before it starts.
func NewService(core *client.Core, archiver *Archiver, periph *PeripheralState, repos *repository.Repository, cfg Config) *Service {
	return &Service{
		Monitor:       NewMonitorService(core),
		Archive:       archiver,
		Peripherals:   periph,
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey),
	}
}
