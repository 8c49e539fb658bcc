// Package netmon bridges reachability of the sync endpoint to sync triggers,
// standing in for the platform online/offline signal: the endpoint is probed
// on a fixed interval and transitions are pushed to subscribers.
package netmon

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Status is the last observed connectivity state.
type Status int

const (
	StatusUnknown Status = iota
	StatusOnline
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "Online"
	case StatusOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Monitor probes a URL periodically and reports transitions. Any HTTP
// response counts as online; only transport failure counts as offline.
type Monitor struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger

	// onOnline runs on every offline→online transition, in the monitor's
	// goroutine.
	onOnline func()

	mu     sync.Mutex
	status Status

	events chan Status
	done   chan struct{}
	once   sync.Once
}

// New creates a monitor for url, probing every interval.
func New(url string, interval time.Duration, onOnline func(), logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		url:      url,
		interval: interval,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger:   logger,
		onOnline: onOnline,
		status:   StatusUnknown,
		events:   make(chan Status, 4),
		done:     make(chan struct{}),
	}
}

// Status returns the last observed state.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Events delivers state transitions. The channel is buffered and never
// closed; slow consumers drop events rather than block the prober.
func (m *Monitor) Events() <-chan Status {
	return m.events
}

// Start launches the probe loop. It probes once immediately, then on every
// tick until ctx is cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		m.probe(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.probe(ctx)
			case <-ctx.Done():
				return
			case <-m.done:
				return
			}
		}
	}()
}

// Stop terminates the probe loop.
func (m *Monitor) Stop() {
	m.once.Do(func() { close(m.done) })
}

func (m *Monitor) probe(ctx context.Context) {
	status := StatusOnline
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.url, nil)
	if err != nil {
		m.logger.Error("invalid probe url", "url", m.url, "error", err)
		return
	}
	resp, err := m.client.Do(req)
	if err != nil {
		status = StatusOffline
	} else {
		resp.Body.Close()
	}

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.mu.Unlock()

	if status == prev {
		return
	}

	m.logger.Info("connectivity changed", "from", prev.String(), "to", status.String())

	select {
	case m.events <- status:
	default:
	}

	// Reconnect triggers a background sync; first observation after startup
	// is a state report, not a reconnect.
	if status == StatusOnline && prev == StatusOffline && m.onOnline != nil {
		m.onOnline()
	}
}
