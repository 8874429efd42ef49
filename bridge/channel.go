// Package bridge routes method calls from the UI layer to native handlers.
package bridge

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultChannelName is the channel the screen recording check is served on.
const DefaultChannelName = "phishsafe_sdk/screen_recording"

type Status string

const (
	StatusSuccess        Status = "success"
	StatusNotImplemented Status = "not_implemented"
)

// Result is what a channel hands back to the caller.
type Result struct {
	Status Status `json:"status"`
	Value  any    `json:"result,omitempty"`
}

func Success(v any) Result { return Result{Status: StatusSuccess, Value: v} }

func NotImplemented() Result { return Result{Status: StatusNotImplemented} }

func (r Result) Implemented() bool { return r.Status == StatusSuccess }

type HandlerFunc func() Result

// Channel is a named dispatch table. Handlers are registered while wiring
// and looked up on every call.
type Channel struct {
	name     string
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func NewChannel(name string) *Channel {
	return &Channel{name: name, handlers: make(map[string]HandlerFunc)}
}

func (c *Channel) Name() string { return c.name }

// Handle registers h for method. It panics on an empty or already registered
// method name.
func (c *Channel) Handle(method string, h HandlerFunc) {
	if method == "" {
		panic("bridge: empty method name")
	}
	if h == nil {
		panic("bridge: nil handler for " + method)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.handlers[method]; exists {
		panic(fmt.Sprintf("bridge: method %q already registered on %s", method, c.name))
	}
	c.handlers[method] = h
}

// Invoke runs the handler registered for method, or returns NotImplemented.
func (c *Channel) Invoke(method string) Result {
	c.mu.RLock()
	h, ok := c.handlers[method]
	c.mu.RUnlock()
	if !ok {
		return NotImplemented()
	}
	return h()
}

func (c *Channel) Methods() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.handlers))
	for name := range c.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
