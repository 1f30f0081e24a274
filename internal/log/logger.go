// Package log provides the leveled logger used for diagnostics.
//
// Messages go to a terminal writer (normally stderr) with a colored level
// prefix and, optionally, to a size-rotated log file.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes leveled messages.
type Logger struct {
	term     io.Writer
	file     io.WriteCloser
	renderer *lipgloss.Renderer

	Name  string
	Level Level

	TimeFormat string
	NoColor    bool
	JSON       bool
	Rotation   *Rotation
}

// Rotation configures the rotation of the log file.
type Rotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Logger    string `json:"logger,omitempty"`
	Message   string `json:"message"`
}

// NewLogger creates a logger writing to term and, if file is not empty, to a
// rotated log file.
func NewLogger(name string, level Level, term io.Writer, file string) *Logger {
	l := &Logger{
		term: term,

		Name:  name,
		Level: level,

		TimeFormat: "2006-01-02 15:04:05",
		Rotation: &Rotation{
			MaxSize:    16,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}

	if term != nil {
		l.renderer = lipgloss.NewRenderer(term)
	}

	if file != "" {
		l.file = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    l.Rotation.MaxSize,
			MaxBackups: l.Rotation.MaxBackups,
			MaxAge:     l.Rotation.MaxAge,
			Compress:   l.Rotation.Compress,
		}
	}

	return l
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}

	return l.file.Close()
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if level < l.Level {
		return
	}

	timestamp := time.Now().Format(l.TimeFormat)
	formattedMsg := fmt.Sprintf(msg, args...)

	if l.JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Logger:    l.Name,
			Message:   formattedMsg,
		}

		jsonBytes, _ := json.Marshal(entry)
		l.write(string(jsonBytes), string(jsonBytes))

		return
	}

	prefix := fmt.Sprintf("%-5s", level)
	if l.Name != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, l.Name)
	}

	colored := prefix
	if !l.NoColor && l.renderer != nil {
		colored = l.renderer.NewStyle().Foreground(lipgloss.Color(level.color())).Render(prefix)
	}

	l.write(
		fmt.Sprintf("%s %s", colored, formattedMsg),
		fmt.Sprintf("[%s] %s %s", timestamp, prefix, formattedMsg),
	)
}

// write sends line to the terminal and fileLine to the log file.
func (l *Logger) write(line, fileLine string) {
	if l.term != nil {
		fmt.Fprintln(l.term, line)
	}

	if l.file != nil {
		fmt.Fprintln(l.file, fileLine)
	}
}

func (l *Logger) Debugf(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Infof(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warnf(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Errorf(msg string, args ...any) {
	l.log(Error, msg, args...)
}

// Named returns a logger sharing the writers of l with name appended to its own.
func (l *Logger) Named(name string) *Logger {
	if l.Name != "" {
		name = fmt.Sprintf("%s/%s", l.Name, name)
	}

	return &Logger{
		term:     l.term,
		file:     l.file,
		renderer: l.renderer,

		Name:  name,
		Level: l.Level,

		TimeFormat: l.TimeFormat,
		NoColor:    l.NoColor,
		JSON:       l.JSON,
		Rotation:   l.Rotation,
	}
}
