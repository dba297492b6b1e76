// Package notify keeps the single transient notification shown to the user.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

type Toast struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Toaster shows one toast at a time; a new toast replaces the previous one
// and each toast dismisses itself after ttl.
type Toaster struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	current *Toast
	timer   *time.Timer
}

func NewToaster(ttl time.Duration) *Toaster {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Toaster{ttl: ttl, now: time.Now}
}

func (t *Toaster) Info(msg string) {
	slog.Info(msg)
	t.show(LevelInfo, msg)
}

func (t *Toaster) Error(msg string) {
	slog.Error(msg)
	t.show(LevelError, msg)
}

// Err shows err's message, or nothing for a nil error.
func (t *Toaster) Err(err error) {
	if err != nil {
		t.Error(err.Error())
	}
}

func (t *Toaster) show(level Level, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	toast := &Toast{Level: level, Message: msg, ExpiresAt: t.now().Add(t.ttl)}
	t.current = toast
	t.timer = time.AfterFunc(t.ttl, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.current == toast {
			t.current = nil
		}
	})
}

// Current returns the visible toast, if any.
func (t *Toaster) Current() (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Toast{}, false
	}
	return *t.current, true
}

func (t *Toaster) Dismiss() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.current = nil
}
