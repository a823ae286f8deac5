package shutdown

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/narvanalabs/eventplanner/internal/store/memstore"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) component(name string, err error) Component {
	return NewFuncComponent(name, func(ctx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.order = append(r.order, name)
		return err
	})
}

// **Feature: event-planner, Property: Components stop newest first**
// For any number of registered components, each is stopped exactly once in
// reverse registration order.
func TestPropertyShutdownOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("reverse registration order", prop.ForAll(
		func(names []string) bool {
			rec := &recorder{}
			c := NewCoordinator(WithLogger(quietLogger()), WithTimeout(time.Second))
			for _, n := range names {
				c.Register(rec.component(n, nil))
			}
			c.Shutdown()
			c.Shutdown()
			c.Wait()

			if len(rec.order) != len(names) || c.ExitCode() != 0 {
				return false
			}
			for i, n := range rec.order {
				if n != names[len(names)-1-i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("any failure sets exit code 1", prop.ForAll(
		func(n int, failAt int) bool {
			rec := &recorder{}
			c := NewCoordinator(WithLogger(quietLogger()))
			for i := 0; i < n; i++ {
				var err error
				if i == failAt%n {
					err = errors.New("close failed")
				}
				c.Register(rec.component("c", err))
			}
			c.Shutdown()
			return c.ExitCode() == 1 && len(rec.order) == n
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

func TestShutdownTimeout(t *testing.T) {
	c := NewCoordinator(WithLogger(quietLogger()), WithTimeout(30*time.Millisecond))
	c.Register(NewFuncComponent("never", func(ctx context.Context) error {
		select {}
	}))

	start := time.Now()
	c.Shutdown()
	if time.Since(start) > time.Second {
		t.Fatal("shutdown did not respect the deadline")
	}
	if c.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", c.ExitCode())
	}
}

func TestWaitForSignal(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	c := NewCoordinator(WithLogger(quietLogger()), WithSignalChannel(sigCh))

	st := memstore.New()
	c.Register(NewCloserComponent("store", st))

	go c.WaitForSignal(context.Background())
	sigCh <- syscall.SIGTERM
	c.Wait()

	if err := st.Ping(context.Background()); err == nil {
		t.Error("store still open after shutdown")
	}
	if c.ExitCode() != 0 {
		t.Errorf("exit code = %d", c.ExitCode())
	}
}

func TestWaitForSignalContextCancel(t *testing.T) {
	c := NewCoordinator(WithLogger(quietLogger()), WithSignalChannel(make(chan os.Signal)))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.WaitForSignal(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForSignal ignored context cancellation")
	}
}
