package tui

// Level is the severity of a status bar notification
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// notification is the single message shown in the status bar. It is
// cleared by the next key press.
type notification struct {
	level   Level
	message string
}

func (n *notification) set(level Level, message string) {
	n.level = level
	n.message = message
}

func (n *notification) clear() {
	n.message = ""
}

func (n notification) active() bool {
	return n.message != ""
}
