// Package profiler logs frame timing and memory statistics for the render
// loop at a fixed interval.
package profiler

import (
	"log"
	"runtime"
	"time"
)

// Profiler accumulates per-frame timings and periodically logs frame rate,
// frame time spread, and heap statistics.
type Profiler struct {
	frameCount     int
	worstFrame     time.Duration
	lastFrameStart time.Time
	lastReport     time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
}

// NewProfiler creates a Profiler that reports once per second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	now := time.Now()
	return &Profiler{
		lastFrameStart: now,
		lastReport:     now,
		updateInterval: time.Second,
	}
}

// Tick records one completed frame and logs a report when the update interval
// has elapsed. The report covers FPS, average and worst frame time over the
// interval, live heap, and GC activity.
//
// Returns:
//   - bool: true if a report was logged this tick
func (p *Profiler) Tick() bool {
	now := time.Now()
	frame := now.Sub(p.lastFrameStart)
	p.lastFrameStart = now

	p.frameCount++
	if frame > p.worstFrame {
		p.worstFrame = frame
	}

	elapsed := now.Sub(p.lastReport)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	avgMS := elapsed.Seconds() * 1000 / float64(p.frameCount)
	worstMS := float64(p.worstFrame.Microseconds()) / 1000

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	gcDelta := p.memStats.NumGC - p.lastGCCount

	log.Printf("[Profiler] FPS: %.1f | frame: %.2f ms avg, %.2f ms worst | Heap: %.2f MB | GC: +%d",
		fps, avgMS, worstMS, heapMB, gcDelta)

	p.frameCount = 0
	p.worstFrame = 0
	p.lastReport = now
	p.lastGCCount = p.memStats.NumGC
	return true
}
