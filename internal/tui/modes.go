package tui

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeMove
	ModeResize
	ModeConnect
	ModeFileInput
	ModeConfirm
	ModeProperties
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModeMove:
		return "MOVE"
	case ModeResize:
		return "RESIZE"
	case ModeConnect:
		return "CONNECT"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	case ModeProperties:
		return "PROPS"
	default:
		return "UNKNOWN"
	}
}

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpExportPNG
	FileOpExportText
)

func (op FileOperation) String() string {
	switch op {
	case FileOpOpen:
		return "Open"
	case FileOpExportPNG:
		return "Export PNG"
	case FileOpExportText:
		return "Export text"
	default:
		return "Save"
	}
}

type ConfirmAction int

const (
	ConfirmDelete ConfirmAction = iota
	ConfirmQuit
	ConfirmNewDiagram
	ConfirmOverwriteFile
)

const (
	sidePanelWidth = 30
	minimapHeight  = 8
	zoomStep       = 1.1
)
