package metrics

import (
	"context"
	"runtime"
	"time"
)

const nanosecondsPerMillisecond = 1e6

// CollectSystem samples runtime statistics into the system gauges once, then
// again every refresh interval until ctx ends.
func (m *Manager) CollectSystem(ctx context.Context) {
	m.sampleSystem()

	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sampleSystem()
		}
	}
}

func (m *Manager) sampleSystem() {
	if !m.enabled {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.Alloc))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
	if ms.NumGC > 0 {
		m.systemGCPauseTime.Observe(float64(ms.PauseTotalNs) / float64(ms.NumGC) / nanosecondsPerMillisecond)
	}
}

// CollectSystem runs the global collector until ctx ends. A positive
// interval replaces the refresh interval; call it once per process.
func CollectSystem(ctx context.Context, interval time.Duration) {
	WithRefreshInterval(interval)(globalManager)
	globalManager.CollectSystem(ctx)
}
