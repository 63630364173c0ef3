package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports reembedding progress to a writer every
// reportInterval records. Updates before Start are ignored. Safe for
// concurrent use.
type ProgressTracker struct {
	mu             sync.Mutex
	writer         io.Writer
	total          int
	current        int
	reportInterval int
	lastReported   int
	startedAt      time.Time
	running        bool
}

// NewProgressTracker creates a tracker for total records, reporting every
// reportInterval records processed.
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start resets the counters and begins timing.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startedAt = time.Now()
	p.running = true
	p.current = 0
	p.lastReported = 0
}

// Update sets the absolute number of records processed so far.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.advance(current)
}

// Increment adds delta to the number of records processed so far.
func (p *ProgressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.advance(p.current + delta)
}

// Finish forces a final report at the full total and terminates the
// progress line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return 0
	}
	return time.Since(p.startedAt)
}

// advance moves the counter, capped at total, and reports when a report
// interval boundary is crossed. Callers hold the lock.
func (p *ProgressTracker) advance(current int) {
	if current > p.total {
		current = p.total
	}
	p.current = current

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// report rewrites the progress line in place. Callers hold the lock.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.startedAt)

	percent := 0.0
	if p.total > 0 {
		percent = float64(p.current) / float64(p.total) * 100
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f records/s",
		p.current, p.total, percent, float64(p.current)/elapsed.Seconds())
}
