package interaction

import "fmt"

// Mode selects how pointer gestures are interpreted.
type Mode uint8

const (
	ModeSelect Mode = iota
	ModePen
	ModeRectangle
)

func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModePen:
		return "pen"
	case ModeRectangle:
		return "rectangle"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode accepts the names returned by String.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "select":
		return ModeSelect, true
	case "pen":
		return ModePen, true
	case "rectangle":
		return ModeRectangle, true
	}
	return 0, false
}
