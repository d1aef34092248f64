package service

import (
	"encoding/json"
	"sync"

	"printsync/internal/client"
	"printsync/internal/logger"
)

// PeripheralState is the log-and-remember implementation of the core's
// file-management, device-power and software-update collaborator boundaries.
// The core calls it from its event loop; the dashboard reads it from request
// goroutines, hence the lock.
type PeripheralState struct {
	log *logger.Logger

	mu      sync.RWMutex
	roots   []string
	devices map[string]string
	update  json.RawMessage
}

func NewPeripheralState(log *logger.Logger) *PeripheralState {
	if log == nil {
		log = logger.Nop()
	}
	return &PeripheralState{
		log:     log,
		devices: map[string]string{},
	}
}

var (
	_ client.FileManager   = (*PeripheralState)(nil)
	_ client.PowerHandler  = (*PeripheralState)(nil)
	_ client.UpdateHandler = (*PeripheralState)(nil)
	_ Peripherals          = (*PeripheralState)(nil)
)

// RegisteredDirectories records the controller's root directories.
func (p *PeripheralState) RegisteredDirectories(dirs []string) {
	p.mu.Lock()
	p.roots = append([]string(nil), dirs...)
	p.mu.Unlock()
	p.log.Infow("registered_directories", "dirs", dirs)
}

// FileListChanged logs the routed file event.
func (p *PeripheralState) FileListChanged(action client.FileAction, payload json.RawMessage) {
	p.log.Infow("file_list_changed", "action", action.String())
}

// MetadataUpdate logs the file-metadata event.
func (p *PeripheralState) MetadataUpdate(payload json.RawMessage) {
	p.log.Debugw("file_metadata_update")
}

// Status merges the latest per-device power status.
func (p *PeripheralState) Status(devices map[string]string) {
	p.mu.Lock()
	for name, status := range devices {
		p.devices[name] = status
	}
	p.mu.Unlock()
	p.log.Infow("power_status", "devices", devices)
}

// UpdateResponse logs software-update progress output.
func (p *PeripheralState) UpdateResponse(payload json.RawMessage) {
	p.log.Infow("update_response")
}

// UpdateStatus remembers the latest software-update status payload.
func (p *PeripheralState) UpdateStatus(payload json.RawMessage) {
	p.mu.Lock()
	p.update = append(json.RawMessage(nil), payload...)
	p.mu.Unlock()
}

// PowerDevices returns a copy of the latest device-power map.
func (p *PeripheralState) PowerDevices() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.devices))
	for name, status := range p.devices {
		out[name] = status
	}
	return out
}

// RootDirectories returns the registered controller root directories.
func (p *PeripheralState) RootDirectories() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.roots...)
}
