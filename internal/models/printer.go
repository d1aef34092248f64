package models

// ConnState is the lifecycle state of the controller connection.
type ConnState string

const (
	ConnDisconnected ConnState = "disconnected"
	ConnConnecting   ConnState = "connecting"
	ConnOpen         ConnState = "open"
	ConnError        ConnState = "error"
)

// PrinterInfo is the controller-reported firmware state.
type PrinterInfo struct {
	State        string `json:"state"`         // startup | ready | error | shutdown
	StateMessage string `json:"state_message"` // human-readable detail from the controller
	Hostname     string `json:"hostname,omitempty"`
	SoftwareVer  string `json:"software_version,omitempty"`
}

// Printer firmware states as reported by printer.info.
const (
	PrinterStateStartup  = "startup"
	PrinterStateReady    = "ready"
	PrinterStateError    = "error"
	PrinterStateShutdown = "shutdown"
)

// ServerInfo is the host-process half of discovery: which components loaded,
// which failed, and where the registered root directories live.
type ServerInfo struct {
	KlippyConnected bool     `json:"klippy_connected"`
	KlippyState     string   `json:"klippy_state"`
	Components      []string `json:"components"`
	FailedPlugins   []string `json:"failed_components,omitempty"`
	RootDirectories []string `json:"registered_directories,omitempty"`
}

// Macro is a named gcode macro discovered from the object list. Visibility is
// resolved against the hidden-macro configuration once, at registration.
type Macro struct {
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
}
