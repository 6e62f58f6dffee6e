// Package notify is the user-facing toast channel. Toasts are fire and
// forget: they are written immediately and never queued.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Level is a toast severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is one notification.
type Toast struct {
	Level   Level
	Message string
}

// Console writes toasts as single lines, typically to stderr.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewConsole returns a notifier writing to out. color enables ANSI colours.
func NewConsole(out io.Writer, color bool) *Console {
	return &Console{out: out, color: color}
}

func (c *Console) Success(msg string) { c.write(LevelSuccess, msg) }
func (c *Console) Error(msg string)   { c.write(LevelError, msg) }

func (c *Console) write(level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	icon, code := "✔", "32"
	if level == LevelError {
		icon, code = "✖", "31"
	}

	if c.color {
		fmt.Fprintf(c.out, "\033[%sm%s\033[0m %s\n", code, icon, msg)
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", icon, msg)
}

// Recorder keeps toasts in memory. Tests use it to assert on notifications.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Level: level, Message: msg})
}

// Toasts returns a copy of everything recorded so far.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}
