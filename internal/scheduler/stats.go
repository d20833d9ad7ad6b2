package scheduler

import "time"

// reportingInterval is how often the published stats are recomputed.
const reportingInterval = time.Second

// PerformanceStats is the read-only telemetry snapshot exposed to
// external callers. Values reflect the last completed reporting interval
// and are never retroactively corrected.
type PerformanceStats struct {
	FPS             float64 // observed frames per second
	UPS             float64 // observed fixed updates per second
	FrameTime       float64 // average frame time, milliseconds
	UpdateTime      float64 // average variable update time, milliseconds
	RenderTime      float64 // average render time, milliseconds
	FixedUpdateTime float64 // average fixed update time, milliseconds
	DroppedFrames   uint64  // frames on which the frame-skip cap was hit
	QualityLevel    float64 // adaptive quality signal, 0..1
}

// monitor accumulates rolling measurements within the current reporting
// interval. Mutated only by the loop, on its own callback thread.
type monitor struct {
	enabled bool

	windowStart time.Time
	hasWindow   bool

	frames       int
	fixedUpdates int

	frameDur  time.Duration
	updateDur time.Duration
	renderDur time.Duration
	fixedDur  time.Duration

	droppedTotal uint64

	published PerformanceStats
}

func newMonitor(cfg Config) monitor {
	return monitor{enabled: cfg.EnablePerformanceMonitoring}
}

func (m *monitor) recordFixedUpdate(d time.Duration) {
	if !m.enabled {
		return
	}
	m.fixedUpdates++
	m.fixedDur += d
}

func (m *monitor) recordVariableUpdate(d time.Duration) {
	if m.enabled {
		m.updateDur += d
	}
}

func (m *monitor) recordRender(d time.Duration) {
	if m.enabled {
		m.renderDur += d
	}
}

func (m *monitor) recordDroppedFrame() {
	m.droppedTotal++
}

func (m *monitor) recordFrame(d time.Duration) {
	if !m.enabled {
		return
	}
	m.frames++
	m.frameDur += d
}

// maybePublish recomputes the published stats once per reporting
// interval. Returns whether a recompute happened and the interval's
// average frame time in seconds (for adaptive quality).
func (m *monitor) maybePublish(now time.Time) (bool, float64) {
	if !m.enabled {
		return false, 0
	}
	if !m.hasWindow {
		m.windowStart = now
		m.hasWindow = true
		return false, 0
	}

	elapsed := now.Sub(m.windowStart)
	if elapsed < reportingInterval {
		return false, 0
	}

	secs := elapsed.Seconds()
	stats := PerformanceStats{
		FPS:           float64(m.frames) / secs,
		UPS:           float64(m.fixedUpdates) / secs,
		DroppedFrames: m.droppedTotal,
	}
	avgFrameSec := 0.0
	if m.frames > 0 {
		avgFrameSec = m.frameDur.Seconds() / float64(m.frames)
		stats.FrameTime = avgFrameSec * 1000
		stats.UpdateTime = m.updateDur.Seconds() / float64(m.frames) * 1000
		stats.RenderTime = m.renderDur.Seconds() / float64(m.frames) * 1000
	}
	if m.fixedUpdates > 0 {
		stats.FixedUpdateTime = m.fixedDur.Seconds() / float64(m.fixedUpdates) * 1000
	}
	m.published = stats

	m.windowStart = now
	m.frames = 0
	m.fixedUpdates = 0
	m.frameDur = 0
	m.updateDur = 0
	m.renderDur = 0
	m.fixedDur = 0

	return true, avgFrameSec
}

// snapshot returns the most recently published stats plus the live
// dropped-frame total.
func (m *monitor) snapshot() PerformanceStats {
	stats := m.published
	stats.DroppedFrames = m.droppedTotal
	return stats
}
