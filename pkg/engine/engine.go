// Package engine runs events through every route table of the active
// configuration and hands the rewritten events to a dispatcher.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/oscremap/pkg/config"
	"github.com/oscremap/pkg/logger"
	"github.com/oscremap/pkg/metrics"
)

// Event is an addressed message carrying a single numeric value
type Event struct {
	Address string  `json:"address"`
	Value   float32 `json:"value"`
}

// Outbound is an event rewritten for one remote
type Outbound struct {
	Remote  string  `json:"remote"`
	Host    string  `json:"host"`
	Port    int     `json:"port"`
	Address string  `json:"address"`
	Value   float32 `json:"value"`
}

// Dispatcher delivers outbound events to their remote
type Dispatcher interface {
	Dispatch(ctx context.Context, out Outbound) error
}

// DispatcherFunc adapts a function to the Dispatcher interface
type DispatcherFunc func(ctx context.Context, out Outbound) error

// Dispatch calls f
func (f DispatcherFunc) Dispatch(ctx context.Context, out Outbound) error {
	return f(ctx, out)
}

// Engine remaps events against the active configuration model. The model is
// swapped atomically on reload so every event sees exactly one model.
// Engine is safe for concurrent use.
type Engine struct {
	model atomic.Pointer[config.Model]

	// loadMu serializes Load so the route gauges describe the stored model
	loadMu     sync.Mutex
	dispatcher Dispatcher
	logger     *logger.Logger
}

// New creates an engine serving model. A nil model is replaced by the
// fallback model.
func New(logger *logger.Logger, model *config.Model, dispatcher Dispatcher) *Engine {
	e := &Engine{
		dispatcher: dispatcher,
		logger:     logger,
	}
	e.Load(model)
	return e
}

// Load makes model the active configuration
func (e *Engine) Load(model *config.Model) {
	if model == nil || model.Len() == 0 {
		e.logger.Warn("Refusing empty model, using fallback configuration")
		model = config.DefaultModel()
	}

	e.loadMu.Lock()
	defer e.loadMu.Unlock()
	e.model.Store(model)

	metrics.RouteTables.Set(float64(model.Len()))
	metrics.RouteMappings.Reset()
	for _, t := range model.Tables() {
		metrics.RouteMappings.WithLabelValues(t.Name()).Set(float64(t.Len()))
	}
	e.logger.Info("Active configuration has %d route tables", model.Len())
}

// Model returns the active configuration
func (e *Engine) Model() *config.Model {
	return e.model.Load()
}

// Process returns the outbound events for ev: one per destination address
// of every route table that handles ev's address, in table order.
func (e *Engine) Process(ev Event) []Outbound {
	metrics.EventsReceived.Inc()

	var out []Outbound
	for _, t := range e.model.Load().Tables() {
		if !t.ShouldHandle(ev.Address) {
			continue
		}
		for _, addr := range t.Remap(ev.Address) {
			out = append(out, Outbound{
				Remote:  t.Name(),
				Host:    t.Host(),
				Port:    t.Port(),
				Address: addr,
				Value:   ev.Value,
			})
		}
	}

	if len(out) == 0 {
		metrics.EventsUnrouted.Inc()
		e.logger.Debug("No route for %s", ev.Address)
	}
	return out
}

// Handle processes ev and dispatches every resulting event. A failed
// dispatch does not stop the remaining ones; all failures are returned
// joined.
func (e *Engine) Handle(ctx context.Context, ev Event) error {
	var errs []error
	for _, out := range e.Process(ev) {
		if err := e.dispatcher.Dispatch(ctx, out); err != nil {
			metrics.DispatchFailures.WithLabelValues(out.Remote).Inc()
			e.logger.Error("Failed to dispatch %s -> %s to %s: %v", ev.Address, out.Address, out.Remote, err)
			errs = append(errs, fmt.Errorf("dispatch to %s: %w", out.Remote, err))
			continue
		}
		metrics.EventsDispatched.WithLabelValues(out.Remote).Inc()
		e.logger.Debug("%s -> %s %s = %v", ev.Address, out.Remote, out.Address, out.Value)
	}
	return errors.Join(errs...)
}
