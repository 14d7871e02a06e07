package profiler

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestProfiler_PushPop(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	p := NewWithClock(clk.now)

	p.Push("frame")
	clk.advance(3 * time.Millisecond)
	p.Push("update")
	clk.advance(2 * time.Millisecond)

	s, ok := p.Pop()
	if !ok || s.Label != "update" || s.Elapsed != 2*time.Millisecond {
		t.Fatalf("Pop = %+v, %v", s, ok)
	}
	s, ok = p.Pop()
	if !ok || s.Label != "frame" || s.Elapsed != 5*time.Millisecond {
		t.Fatalf("Pop = %+v, %v", s, ok)
	}
	if _, ok := p.Pop(); ok {
		t.Fatal("Pop on empty stack should report false")
	}
}

func TestProfiler_Rebegin(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	p := NewWithClock(clk.now)

	if _, ok := p.Rebegin("update"); ok {
		t.Fatal("nothing was open")
	}
	clk.advance(time.Millisecond)
	s, ok := p.Rebegin("render")
	if !ok || s.Label != "update" {
		t.Fatalf("Rebegin = %+v, %v", s, ok)
	}
	if p.Depth() != 1 {
		t.Fatalf("Depth = %d", p.Depth())
	}
}

func TestProfiler_Averages(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	p := NewWithClock(clk.now)

	for _, d := range []time.Duration{2, 4, 6} {
		p.Push("update")
		clk.advance(d * time.Millisecond)
		p.Pop()
	}
	p.Push("render")
	clk.advance(time.Millisecond)
	p.Pop()

	avg := p.Averages()
	if len(avg) != 2 {
		t.Fatalf("Averages = %+v", avg)
	}
	if avg[0].Label != "render" || avg[0].Mean != time.Millisecond || avg[0].Count != 1 {
		t.Fatalf("render = %+v", avg[0])
	}
	if avg[1].Label != "update" || avg[1].Mean != 4*time.Millisecond || avg[1].Count != 3 {
		t.Fatalf("update = %+v", avg[1])
	}

	p.Reset()
	if len(p.Averages()) != 0 || p.Depth() != 0 {
		t.Fatal("Reset should clear everything")
	}
}
