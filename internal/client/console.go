package client

import (
	"strings"

	"printsync/internal/models"
)

// lineBreak replaces CR/LF sequences in console messages for the UI.
const lineBreak = "<br />"

var lineBreakReplacer = strings.NewReplacer(
	"\r\n", lineBreak,
	"\r", lineBreak,
	"\n", lineBreak,
)

// addConsoleEntry normalizes and appends one console entry. Shared by live
// gcode responses, locally issued commands and replayed history.
func (c *Core) addConsoleEntry(entry models.ConsoleEntry) {
	entry.Message = lineBreakReplacer.Replace(entry.Message)
	if entry.Time <= 0 {
		entry.Time = c.now().Unix()
	}
	if entry.Type == "" {
		entry.Type = models.ConsoleTypeResponse
	}

	c.console = append(c.console, entry)
	if n := len(c.console) - consoleHistory; n > 0 {
		c.console = append(c.console[:0], c.console[n:]...)
	}
	for _, s := range c.sinks {
		s.ConsoleAppended(entry)
	}
}
