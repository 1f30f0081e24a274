package log

import (
	"fmt"
	"strings"
)

// Level is the severity of a log message.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Parse converts a level name such as "debug" or "WARN" into a Level.
func Parse(level string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return Debug, nil
	case "INFO":
		return Info, nil
	case "WARN", "WARNING":
		return Warn, nil
	case "ERROR":
		return Error, nil
	default:
		return Warn, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", level)
	}
}

// color is the ANSI color used for the level prefix.
func (l Level) color() string {
	switch l {
	case Debug:
		return "4"
	case Info:
		return "2"
	case Warn:
		return "3"
	case Error:
		return "1"
	default:
		return "7"
	}
}
