package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Prober checks whether the backend is reachable.
type Prober interface {
	Health(ctx context.Context) (string, error)
}

// Monitor tracks backend reachability with a startup probe followed by a
// fixed-interval poll. It is purely informational; no other state reacts to
// it.
type Monitor struct {
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	notify   func(connected bool)

	mu        sync.Mutex
	connected bool
	checked   bool
}

// Options tune the monitor. A zero interval defaults to 30s.
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
	Notify   func(connected bool)
	Logger   *slog.Logger
}

// NewMonitor creates a monitor that has not probed yet.
func NewMonitor(prober Prober, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Notify == nil {
		opts.Notify = func(bool) {}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Monitor{
		prober:   prober,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
		notify:   opts.Notify,
	}
}

// Run probes immediately, then on every tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

// Probe runs a single health check and returns the resulting state.
func (m *Monitor) Probe(ctx context.Context) bool {
	m.probe(ctx)
	return m.Connected()
}

// Connected reports the last observed reachability. False until the first
// probe completes.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	message, err := m.prober.Health(probeCtx)
	connected := err == nil

	m.mu.Lock()
	changed := !m.checked || connected != m.connected
	m.checked = true
	m.connected = connected
	m.mu.Unlock()

	if !changed {
		return
	}
	if connected {
		m.logger.Info("backend reachable", "message", message)
	} else {
		m.logger.Warn("backend unreachable", "error", err)
	}
	m.notify(connected)
}
