// Package logx contains logging extensions.
package logx

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
)

// Handler implements [log.Handler]. The zero value of this struct is
// invalid; please, use [NewHandlerWithDefaultSettings] and then optionally
// modify the public fields before using the handler.
type Handler struct {
	// Emoji is OPTIONAL and indicates whether to use emojis
	// to prefix messages depending on their severity.
	Emoji bool

	// Now is MANDATORY and is the function returning the current time.
	Now func() time.Time

	// StartTime is MANDATORY and is the logging start time, used to
	// print the elapsed time of each log entry.
	StartTime time.Time

	// Writer is MANDATORY and is the writer where we write logs.
	Writer io.Writer
}

// NewHandlerWithDefaultSettings creates a new [Handler] with default settings.
func NewHandlerWithDefaultSettings() *Handler {
	return &Handler{
		Emoji:     false,
		Now:       time.Now,
		StartTime: time.Now(),
		Writer:    os.Stderr,
	}
}

var _ log.Handler = &Handler{}

// HandleLog implements [log.Handler].
func (h *Handler) HandleLog(e *log.Entry) error {
	elapsed := h.Now().Sub(h.StartTime)
	level := fmt.Sprintf("<%s>", e.Level.String())
	if h.Emoji {
		switch e.Level {
		case log.DebugLevel:
			level = "🧐"
		case log.InfoLevel:
			level = "  " // two spaces to align with emojis
		case log.WarnLevel:
			level = "🔥"
		default:
			// keep the original string
		}
	}
	linePrefix := fmt.Sprintf("[%10.6f] %s", elapsed.Seconds(), level)
	switch e.Level {
	case log.DebugLevel:
		linePrefix = color.HiBlackString(linePrefix)
	case log.WarnLevel, log.ErrorLevel, log.FatalLevel:
		linePrefix = color.RedString(linePrefix)
	default:
		// keep the original string
	}
	s := fmt.Sprintf("%s %s", linePrefix, e.Message)
	for _, name := range e.Fields.Names() {
		s += fmt.Sprintf(" %s=%+v", name, e.Fields.Get(name))
	}
	s += "\n"
	_, err := h.Writer.Write([]byte(s))
	return err
}
