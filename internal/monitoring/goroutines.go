// Package monitoring samples process health while a simulation is served.
package monitoring

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Gauge reports the current size of a component, such as the number of
// connected observers.
type Gauge func() int

// GoroutineMonitor tracks the goroutine count against a baseline and warns
// when it passes a threshold.
type GoroutineMonitor struct {
	mu             sync.RWMutex
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration
	gauges         map[string]Gauge
	numGoroutine   func() int
	logger         zerolog.Logger
}

// NewGoroutineMonitor creates a monitor with the current goroutine count as
// its baseline.
func NewGoroutineMonitor(interval time.Duration, threshold int, logger zerolog.Logger) *GoroutineMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	baseline := runtime.NumGoroutine()
	return &GoroutineMonitor{
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  interval,
		alertThreshold: threshold,
		alertCooldown:  5 * time.Minute,
		gauges:         make(map[string]Gauge),
		numGoroutine:   runtime.NumGoroutine,
		logger:         logger.With().Str("component", "GoroutineMonitor").Logger(),
	}
}

// Register adds a component gauge that is sampled with every check.
func (gm *GoroutineMonitor) Register(name string, g Gauge) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.gauges[name] = g
}

// Run samples until ctx is done.
func (gm *GoroutineMonitor) Run(ctx context.Context) {
	gm.logger.Info().Int("baseline", gm.baseline).Msg("Started goroutine monitoring")
	ticker := time.NewTicker(gm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gm.Check()
		case <-ctx.Done():
			return
		}
	}
}

// Check takes one sample and returns it.
func (gm *GoroutineMonitor) Check() GoroutineMetrics {
	current := gm.numGoroutine()

	gm.mu.Lock()
	gm.current = current
	if current > gm.peak {
		gm.peak = current
	}
	shouldAlert := gm.alertThreshold > 0 && current > gm.alertThreshold &&
		time.Since(gm.lastAlert) > gm.alertCooldown
	if shouldAlert {
		gm.lastAlert = time.Now()
	}
	m := gm.metricsLocked()
	gm.mu.Unlock()

	ev := gm.logger.Debug().
		Int("current", m.Current).
		Int("baseline", m.Baseline).
		Int("peak", m.Peak)
	for _, name := range sortedKeys(m.Components) {
		ev = ev.Int(name, m.Components[name])
	}
	ev.Msg("Goroutine metrics")

	if shouldAlert {
		gm.logger.Warn().
			Int("current", current).
			Int("threshold", gm.alertThreshold).
			Int("growth", m.Growth).
			Msg("High goroutine count detected - possible leak")
	}
	return m
}

// Metrics returns the last sample.
func (gm *GoroutineMonitor) Metrics() GoroutineMetrics {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.metricsLocked()
}

func (gm *GoroutineMonitor) metricsLocked() GoroutineMetrics {
	components := make(map[string]int, len(gm.gauges))
	for name, g := range gm.gauges {
		components[name] = g()
	}
	return GoroutineMetrics{
		Current:    gm.current,
		Baseline:   gm.baseline,
		Peak:       gm.peak,
		Growth:     gm.current - gm.baseline,
		Components: components,
	}
}

// GoroutineMetrics contains goroutine statistics
type GoroutineMetrics struct {
	Current    int            `json:"current"`
	Baseline   int            `json:"baseline"`
	Peak       int            `json:"peak"`
	Growth     int            `json:"growth"`
	Components map[string]int `json:"components"`
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
