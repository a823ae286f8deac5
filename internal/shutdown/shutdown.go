// Package shutdown coordinates graceful process shutdown: it waits for
// SIGTERM/SIGINT, then stops registered components newest first within a
// single deadline.
package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultTimeout is the default graceful shutdown timeout.
const DefaultTimeout = 30 * time.Second

// Component is something that must be stopped on exit.
type Component interface {
	Name() string
	// Shutdown should return by the context deadline.
	Shutdown(ctx context.Context) error
}

// Coordinator manages graceful shutdown of registered components.
type Coordinator struct {
	timeout time.Duration
	logger  *slog.Logger

	mu         sync.Mutex
	components []Component

	// signalCh replaces OS signal delivery in tests.
	signalCh chan os.Signal

	shutdownOnce sync.Once
	shutdownDone chan struct{}
	exitCode     int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout sets the shutdown timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithSignalChannel sets a custom signal channel (for testing).
func WithSignalChannel(ch chan os.Signal) Option {
	return func(c *Coordinator) {
		c.signalCh = ch
	}
}

// NewCoordinator creates a new shutdown coordinator.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		timeout:      DefaultTimeout,
		logger:       slog.Default(),
		shutdownDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds a component. Components stop in reverse registration order,
// so register the store before the HTTP server that uses it.
func (c *Coordinator) Register(component Component) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components = append(c.components, component)
	c.logger.Debug("registered shutdown component", "name", component.Name())
}

// WaitForSignal blocks until SIGTERM/SIGINT arrives or ctx is done, then
// shuts down.
func (c *Coordinator) WaitForSignal(ctx context.Context) {
	sigCh := c.signalCh
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
	}

	select {
	case sig := <-sigCh:
		c.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		c.logger.Info("shutdown requested", "reason", context.Cause(ctx))
	}

	c.Shutdown()
}

// Shutdown stops every component once. Each component gets whatever remains
// of the shared deadline; if the deadline passes the exit code becomes 1.
func (c *Coordinator) Shutdown() {
	c.shutdownOnce.Do(func() {
		defer close(c.shutdownDone)
		c.logger.Info("initiating graceful shutdown", "timeout", c.timeout)

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		c.mu.Lock()
		components := make([]Component, len(c.components))
		copy(components, c.components)
		c.mu.Unlock()

		for i := len(components) - 1; i >= 0; i-- {
			comp := components[i]
			if ctx.Err() != nil {
				c.logger.Warn("shutdown timeout exceeded, skipping component", "name", comp.Name())
				c.exitCode = 1
				continue
			}

			c.logger.Info("shutting down component", "name", comp.Name())
			if err := stop(ctx, comp); err != nil {
				c.logger.Error("component shutdown error", "name", comp.Name(), "error", err)
				c.exitCode = 1
				continue
			}
			c.logger.Info("component shutdown complete", "name", comp.Name())
		}

		if c.exitCode == 0 {
			c.logger.Info("all components shut down successfully")
		}
	})
}

// stop runs comp.Shutdown but gives up at the context deadline even if the
// component ignores it.
func stop(ctx context.Context, comp Component) error {
	errCh := make(chan error, 1)
	go func() { errCh <- comp.Shutdown(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until shutdown is complete.
func (c *Coordinator) Wait() {
	<-c.shutdownDone
}

// ExitCode returns 0 after a clean shutdown and 1 if any component failed
// or the deadline passed.
func (c *Coordinator) ExitCode() int {
	return c.exitCode
}
