package inventory

import (
	"context"
	"log/slog"
	"time"
)

// Monitor probes the server on an interval while the engine is online
// and records the answer. It never switches modes; going offline and
// back stays a user decision.
type Monitor struct {
	engine   *Engine
	interval time.Duration
	logger   *slog.Logger
}

// NewMonitor creates a monitor for engine.
func NewMonitor(engine *Engine, interval time.Duration, logger *slog.Logger) *Monitor {
	return &Monitor{engine: engine, interval: interval, logger: logger}
}

// Run blocks until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	last := true

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if m.engine.Mode() != ModeOnline {
				continue
			}

			ok := m.engine.CheckConnection(ctx)
			if ok != last {
				if ok {
					m.logger.Info("monitor: server reachable again")
				} else {
					m.logger.Warn("monitor: server unreachable, consider going offline")
				}
			}

			last = ok
		}
	}
}
