// Package profiler times nested sections of the frame loop.
package profiler

import (
	"sort"
	"sync"
	"time"
)

// Sample is one completed section.
type Sample struct {
	Label   string
	Elapsed time.Duration
}

// Average is the mean duration of a label over all its completed sections.
type Average struct {
	Label string
	Mean  time.Duration
	Count int
}

type open struct {
	start time.Time
	label string
}

// Profiler keeps a stack of open sections and per-label totals.
// Safe for concurrent use.
type Profiler struct {
	now    func() time.Time
	totals map[string]time.Duration
	counts map[string]int
	stack  []open
	mu     sync.Mutex
}

// New returns a profiler using the wall clock.
func New() *Profiler {
	return NewWithClock(time.Now)
}

// NewWithClock returns a profiler reading time from now.
func NewWithClock(now func() time.Time) *Profiler {
	return &Profiler{
		now:    now,
		totals: make(map[string]time.Duration),
		counts: make(map[string]int),
	}
}

// Push opens a section.
func (p *Profiler) Push(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stack = append(p.stack, open{label: label, start: p.now()})
}

// Pop closes the innermost section. It returns false if none is open.
func (p *Profiler) Pop() (Sample, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pop()
}

func (p *Profiler) pop() (Sample, bool) {
	n := len(p.stack)
	if n == 0 {
		return Sample{}, false
	}
	top := p.stack[n-1]
	p.stack = p.stack[:n-1]

	elapsed := p.now().Sub(top.start)
	p.totals[top.label] += elapsed
	p.counts[top.label]++
	return Sample{Label: top.label, Elapsed: elapsed}, true
}

// Rebegin closes the innermost section and opens label in its place.
func (p *Profiler) Rebegin(label string) (Sample, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.pop()
	p.stack = append(p.stack, open{label: label, start: p.now()})
	return s, ok
}

// Depth returns the number of open sections.
func (p *Profiler) Depth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stack)
}

// Averages returns the mean of every label, sorted by label.
func (p *Profiler) Averages() []Average {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Average, 0, len(p.totals))
	for label, total := range p.totals {
		count := max(p.counts[label], 1)
		out = append(out, Average{Label: label, Mean: total / time.Duration(count), Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Reset drops open sections and totals.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stack = nil
	clear(p.totals)
	clear(p.counts)
}
