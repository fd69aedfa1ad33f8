// Package notification carries the toast-style messages a user sees after an
// operation. Services emit them; the HTTP layer returns the ones collected
// during a request alongside the response.
package notification

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Level is the severity shown to the user
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is one user-facing message
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}

// Notifier delivers notifications to the user behind ctx
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Success builds a success notification
func Success(title, message string) Notification {
	return Notification{Level: LevelSuccess, Title: title, Message: message}
}

// Failure builds an error notification
func Failure(title, message string) Notification {
	return Notification{Level: LevelError, Title: title, Message: message}
}

// Info builds an informational notification
func Info(title, message string) Notification {
	return Notification{Level: LevelInfo, Title: title, Message: message}
}

// Collector accumulates the notifications of one request
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

// Add appends n
func (c *Collector) Add(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
}

// Drain returns the collected notifications and empties the collector
func (c *Collector) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.items
	c.items = nil
	return out
}

type collectorKey struct{}

// WithCollector returns a context carrying a fresh collector
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// CollectorFrom returns the collector carried by ctx, if any
func CollectorFrom(ctx context.Context) (*Collector, bool) {
	c, ok := ctx.Value(collectorKey{}).(*Collector)
	return c, ok
}

// Dispatcher logs every notification and hands it to the request's collector
type Dispatcher struct {
	logger *zap.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{logger: logger}
}

// Notify implements Notifier
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	d.logger.Debug("User notification",
		zap.String("level", string(n.Level)),
		zap.String("title", n.Title),
		zap.String("message", n.Message),
	)
	if c, ok := CollectorFrom(ctx); ok {
		c.Add(n)
	}
}

// Recorder keeps every notification in memory. Used by tests and the CLI.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Count returns how many notifications of level were recorded
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if it.Level == level {
			n++
		}
	}
	return n
}

var (
	_ Notifier = (*Dispatcher)(nil)
	_ Notifier = (*Recorder)(nil)
)
