package runlog

// Level classifies a log line. All levels share the same line structure and
// differ only in their console colour.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelError   Level = "ERROR"
	LevelSuccess Level = "SUCCESS"
	LevelWarning Level = "WARNING"
)

const colorReset = "\033[0m"

// color returns the ANSI escape rendering the level on the console.
func (l Level) color() string {
	switch l {
	case LevelError:
		return "\033[31m"
	case LevelSuccess:
		return "\033[32m"
	case LevelWarning:
		return "\033[33m"
	default:
		return "\033[36m"
	}
}
