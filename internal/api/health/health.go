// Package health reports whether the API's dependencies are reachable.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentStatus represents the health status of a single component.
type ComponentStatus struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Response represents the health check response.
type Response struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
}

// Pinger is implemented by store.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type component struct {
	pinger Pinger
	// A failing optional component degrades the service instead of taking it down.
	optional bool
}

// Checker pings registered components. The storage component is always
// present under the name "database".
type Checker struct {
	startTime time.Time
	version   string

	mu         sync.RWMutex
	timeout    time.Duration
	components map[string]component
}

// NewChecker creates a health checker for the given storage handle.
func NewChecker(db Pinger, version string) *Checker {
	return &Checker{
		startTime:  time.Now(),
		version:    version,
		timeout:    5 * time.Second,
		components: map[string]component{"database": {pinger: db}},
	}
}

// AddOptional registers a component whose failure reports "degraded".
func (c *Checker) AddOptional(name string, p Pinger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[name] = component{pinger: p, optional: true}
}

// SetTimeout sets the timeout applied to the whole check.
func (c *Checker) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

// Check pings every component and aggregates the result.
func (c *Checker) Check(ctx context.Context) *Response {
	c.mu.RLock()
	timeout := c.timeout
	names := make([]string, 0, len(c.components))
	comps := make(map[string]component, len(c.components))
	for name, comp := range c.components {
		names = append(names, name)
		comps[name] = comp
	}
	c.mu.RUnlock()
	sort.Strings(names)

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	overall := StatusHealthy
	statuses := make(map[string]ComponentStatus, len(names))
	for _, name := range names {
		comp := comps[name]
		st := ping(checkCtx, name, comp.pinger)
		if st.Status != StatusHealthy {
			switch {
			case !comp.optional:
				overall = StatusUnhealthy
			case overall == StatusHealthy:
				overall = StatusDegraded
			}
		}
		statuses[name] = st
	}

	return &Response{
		Status:     overall,
		Components: statuses,
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
	}
}

func ping(ctx context.Context, name string, p Pinger) ComponentStatus {
	if p == nil {
		return ComponentStatus{Status: StatusUnhealthy, Message: name + " not configured"}
	}
	if err := p.Ping(ctx); err != nil {
		return ComponentStatus{Status: StatusUnhealthy, Message: name + " ping failed: " + err.Error()}
	}
	return ComponentStatus{Status: StatusHealthy, Message: "connected"}
}

// Handler serves the check. Unhealthy answers 503; degraded still answers 200.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := c.Check(r.Context())

		status := http.StatusOK
		if response.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(response)
	}
}
