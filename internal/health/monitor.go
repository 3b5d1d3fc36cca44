package health

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ncecere/voice_translator/internal/config"
)

// Check probes a single provider.
type Check func(ctx context.Context) error

// Status is the last observed health of a provider.
type Status struct {
	Provider  string    `json:"provider"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
	Latency   string    `json:"latency"`
}

// Monitor periodically pings providers and keeps the latest status of each.
type Monitor struct {
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
	startOnce sync.Once

	mu       sync.RWMutex
	checks   map[string]Check
	statuses map[string]Status
}

// NewMonitor constructs a monitor using the health configuration.
func NewMonitor(cfg config.HealthConfig, logger *slog.Logger) *Monitor {
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = time.Minute
	}
	timeout := cfg.Timeout
	if timeout <= 0 || timeout > interval {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		statuses: make(map[string]Status),
	}
}

// Start begins the monitoring loop until ctx is canceled.
func (m *Monitor) Start(ctx context.Context, checks map[string]Check) {
	if len(checks) == 0 {
		return
	}
	m.mu.Lock()
	m.checks = checks
	m.mu.Unlock()

	m.startOnce.Do(func() {
		go m.run(ctx)
	})
}

func (m *Monitor) run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckNow(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckNow(ctx)
		}
	}
}

// CheckNow probes every provider concurrently and records the results.
func (m *Monitor) CheckNow(ctx context.Context) {
	m.mu.RLock()
	checks := m.checks
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for name, check := range checks {
		if check == nil {
			continue
		}
		wg.Add(1)
		go func(name string, check Check) {
			defer wg.Done()
			timeoutCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()

			started := time.Now()
			err := check(timeoutCtx)
			status := Status{
				Provider:  name,
				Healthy:   err == nil,
				CheckedAt: started.UTC(),
				Latency:   time.Since(started).Round(time.Millisecond).String(),
			}
			if err != nil {
				status.Error = err.Error()
				m.logger.Warn("provider health check failed", slog.String("provider", name), slog.Any("error", err))
			}
			m.mu.Lock()
			m.statuses[name] = status
			m.mu.Unlock()
		}(name, check)
	}
	wg.Wait()
}

// Snapshot returns the latest statuses sorted by provider name.
func (m *Monitor) Snapshot() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Status, 0, len(m.statuses))
	for _, st := range m.statuses {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

// Healthy reports false when any checked provider failed its last probe.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, st := range m.statuses {
		if !st.Healthy {
			return false
		}
	}
	return true
}
