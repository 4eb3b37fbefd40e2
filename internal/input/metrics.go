package input

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const maxLatencySamples = 1000

// Metrics counts engine activity. All methods are safe for concurrent use.
type Metrics struct {
	keyDowns          atomic.Uint64
	keyUps            atomic.Uint64
	repeats           atomic.Uint64
	fires             atomic.Uint64
	chordsStarted     atomic.Uint64
	chordsCompleted   atomic.Uint64
	chordsFailed      atomic.Uint64
	chordsExpired     atomic.Uint64
	defaultsPrevented atomic.Uint64
	keysCancelled     atomic.Uint64
	handlerPanics     atomic.Uint64
	layoutErrors      atomic.Uint64

	// Latency of HandleKeyDown/HandleKeyUp, listeners included.
	mu         sync.Mutex
	latencies  []time.Duration
	latencyIdx int
	peak       atomic.Int64

	startTime time.Time
}

// NewMetrics creates a metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		latencies: make([]time.Duration, maxLatencySamples),
		startTime: time.Now(),
	}
}

func (m *Metrics) recordKeyEvent(down, repeat bool, latency time.Duration) {
	switch {
	case repeat:
		m.repeats.Add(1)
	case down:
		m.keyDowns.Add(1)
	default:
		m.keyUps.Add(1)
	}

	ns := latency.Nanoseconds()
	for {
		cur := m.peak.Load()
		if ns <= cur || m.peak.CompareAndSwap(cur, ns) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % maxLatencySamples
	m.mu.Unlock()
}

func (m *Metrics) recordFire()               { m.fires.Add(1) }
func (m *Metrics) recordChordStarted()       { m.chordsStarted.Add(1) }
func (m *Metrics) recordChordCompleted()     { m.chordsCompleted.Add(1) }
func (m *Metrics) recordChordsFailed(n int)  { m.chordsFailed.Add(uint64(n)) }
func (m *Metrics) recordChordsExpired(n int) { m.chordsExpired.Add(uint64(n)) }
func (m *Metrics) recordDefaultPrevented()   { m.defaultsPrevented.Add(1) }
func (m *Metrics) recordKeyCancelled()       { m.keysCancelled.Add(1) }
func (m *Metrics) recordHandlerPanic()       { m.handlerPanics.Add(1) }
func (m *Metrics) recordLayoutError()        { m.layoutErrors.Add(1) }

// MetricsSnapshot is a point-in-time view of the counters.
type MetricsSnapshot struct {
	KeyDowns          uint64
	KeyUps            uint64
	Repeats           uint64
	Fires             uint64
	ChordsStarted     uint64
	ChordsCompleted   uint64
	ChordsFailed      uint64
	ChordsExpired     uint64
	DefaultsPrevented uint64
	KeysCancelled     uint64
	HandlerPanics     uint64
	LayoutErrors      uint64

	AvgLatency  time.Duration
	P99Latency  time.Duration
	PeakLatency time.Duration

	Uptime time.Duration
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	samples := make([]time.Duration, 0, len(m.latencies))
	for _, l := range m.latencies {
		if l > 0 {
			samples = append(samples, l)
		}
	}
	start := m.startTime
	m.mu.Unlock()

	snap := MetricsSnapshot{
		KeyDowns:          m.keyDowns.Load(),
		KeyUps:            m.keyUps.Load(),
		Repeats:           m.repeats.Load(),
		Fires:             m.fires.Load(),
		ChordsStarted:     m.chordsStarted.Load(),
		ChordsCompleted:   m.chordsCompleted.Load(),
		ChordsFailed:      m.chordsFailed.Load(),
		ChordsExpired:     m.chordsExpired.Load(),
		DefaultsPrevented: m.defaultsPrevented.Load(),
		KeysCancelled:     m.keysCancelled.Load(),
		HandlerPanics:     m.handlerPanics.Load(),
		LayoutErrors:      m.layoutErrors.Load(),
		PeakLatency:       time.Duration(m.peak.Load()),
		Uptime:            time.Since(start),
	}
	snap.AvgLatency, snap.P99Latency = latencyStats(samples)
	return snap
}

func latencyStats(samples []time.Duration) (avg, p99 time.Duration) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum time.Duration
	for _, l := range samples {
		sum += l
	}
	avg = sum / time.Duration(len(samples))

	slices.Sort(samples)
	idx := int(float64(len(samples)) * 0.99)
	if idx >= len(samples) {
		idx = len(samples) - 1
	}
	return avg, samples[idx]
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Uint64{
		&m.keyDowns, &m.keyUps, &m.repeats, &m.fires,
		&m.chordsStarted, &m.chordsCompleted, &m.chordsFailed, &m.chordsExpired,
		&m.defaultsPrevented, &m.keysCancelled, &m.handlerPanics, &m.layoutErrors,
	} {
		c.Store(0)
	}
	m.peak.Store(0)

	m.mu.Lock()
	m.latencies = make([]time.Duration, maxLatencySamples)
	m.latencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}
