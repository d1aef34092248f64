package client

import (
	"encoding/json"

	"printsync/internal/models"
)

// FileAction is the closed set of file-list-changed actions the controller
// emits. Unrecognized actions map to FileActionUnknown.
type FileAction int

const (
	FileActionUnknown FileAction = iota
	FileActionCreateFile
	FileActionDeleteFile
	FileActionMoveFile
	FileActionModifyFile
	FileActionCreateDir
	FileActionDeleteDir
	FileActionMoveDir
	FileActionRootUpdate
)

var fileActionNames = map[string]FileAction{
	"create_file": FileActionCreateFile,
	"delete_file": FileActionDeleteFile,
	"move_file":   FileActionMoveFile,
	"modify_file": FileActionModifyFile,
	"create_dir":  FileActionCreateDir,
	"delete_dir":  FileActionDeleteDir,
	"move_dir":    FileActionMoveDir,
	"root_update": FileActionRootUpdate,
}

// ParseFileAction maps an action verb to its variant.
func ParseFileAction(name string) FileAction {
	if a, ok := fileActionNames[name]; ok {
		return a
	}
	return FileActionUnknown
}

func (a FileAction) String() string {
	for name, v := range fileActionNames {
		if v == a {
			return name
		}
	}
	return "unknown"
}

// FileManager is the file-management collaborator boundary.
type FileManager interface {
	RegisteredDirectories(dirs []string)
	FileListChanged(action FileAction, payload json.RawMessage)
	MetadataUpdate(payload json.RawMessage)
}

// PowerHandler is the device-power collaborator boundary.
type PowerHandler interface {
	Status(devices map[string]string)
}

// UpdateHandler is the software-update collaborator boundary.
type UpdateHandler interface {
	UpdateResponse(payload json.RawMessage)
	UpdateStatus(payload json.RawMessage)
}

// MacroConfig exposes the hidden-macro list, consulted once per macro
// registration.
type MacroConfig interface {
	HiddenMacros() []string
}

// Sink receives the core's outputs: state transitions, chart points, console
// entries and surfaced request errors. Implementations run on the core's
// event loop and must not block.
type Sink interface {
	ConnStateChanged(state models.ConnState)
	PrinterUpdated(info models.PrinterInfo)
	ChartPointAdded(point models.ChartPoint)
	ConsoleAppended(entry models.ConsoleEntry)
	RequestError(message string)
	SessionReady()
}
