package core

// Action represents a semantic game action, abstracted from physical key presses
// and mouse clicks.
type Action int

const (
	ActionNone      Action = iota
	ActionToggle           // Space, Enter - start, or stop a running session
	ActionReset            // R - back to idle
	ActionTap              // 1-9, mouse click - select a cell
	ActionClearBest        // C - ask to clear the saved best score
	ActionConfirm          // Y - answer yes to a prompt
	ActionCancel           // N, Esc - answer no to a prompt
	ActionHelp             // ? - toggle full help
	ActionQuit             // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionToggle:
		return "Toggle"
	case ActionReset:
		return "Reset"
	case ActionTap:
		return "Tap"
	case ActionClearBest:
		return "ClearBest"
	case ActionConfirm:
		return "Confirm"
	case ActionCancel:
		return "Cancel"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Input is one player intent. Cell is only meaningful for ActionTap.
type Input struct {
	Action Action
	Cell   int
}

// Tap returns a tap input for the given cell.
func Tap(cell int) Input {
	return Input{Action: ActionTap, Cell: cell}
}
