package server

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info" or "warning"
}

// WebLogger implements core.Logger by mirroring messages to the server log
// and queueing them for the client's console
type WebLogger struct {
	renderID    string
	server      *log.Logger
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, server *log.Logger, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		server:      server.With("render", renderID),
		consoleChan: consoleChan,
	}
}

// Debugf logs a debug message
func (wl *WebLogger) Debugf(format string, args ...interface{}) {
	wl.server.Debugf(format, args...)
	wl.send("debug", format, args...)
}

// Infof logs an info message
func (wl *WebLogger) Infof(format string, args ...interface{}) {
	wl.server.Infof(format, args...)
	wl.send("info", format, args...)
}

// Warnf logs a warning
func (wl *WebLogger) Warnf(format string, args ...interface{}) {
	wl.server.Warnf(format, args...)
	wl.send("warning", format, args...)
}

func (wl *WebLogger) send(level, format string, args ...interface{}) {
	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
		// Channel full, skip (don't block)
	}
}
