package models

// Console entry types.
const (
	ConsoleTypeCommand  = "command"
	ConsoleTypeResponse = "response"
)

// ConsoleEntry is one line of gcode console traffic, live or replayed.
type ConsoleEntry struct {
	Message string `json:"message"`
	Time    int64  `json:"time"` // unix seconds
	Type    string `json:"type"` // command | response
}
