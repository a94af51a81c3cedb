// Package scroll turns a scroll offset into the normalised progress that
// drives the background parallax.
package scroll

import (
	"math"
	"strconv"
	"sync"

	"github.com/Zachkp/portfolio/internal/events"
)

// Progress maps offset into [0,1] relative to the region [start, end].
// A region with end <= start cannot scroll and always yields 0.
func Progress(offset, start, end float64) float64 {
	if !(end > start) || math.IsNaN(offset) {
		return 0
	}
	return clamp((offset-start)/(end-start), 0, 1)
}

// Interpolate maps progress linearly onto [from, to]. Progress outside
// [0,1] is clamped first.
func Interpolate(progress, from, to float64) float64 {
	if math.IsNaN(progress) {
		progress = 0
	}
	p := clamp(progress, 0, 1)
	return from + (to-from)*p
}

// BackgroundOffset renders progress as the CSS percentage used for the
// background translation: 0 -> "0%", 1 -> "100%".
func BackgroundOffset(progress float64) string {
	v := Interpolate(progress, 0, 100)
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + "%"
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Region is the scrollable range of the page container, in pixels.
type Region struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// sampleBuffer bounds how far a slow consumer may lag before older
// samples are dropped.
const sampleBuffer = 16

// Tracker owns the progress of one view. Every observed offset produces a
// sample on Samples until the tracker is detached.
type Tracker struct {
	mu       sync.RWMutex
	region   Region
	progress float64
	samples  chan float64
	closed   bool
	subs     events.Group
}

// NewTracker returns a tracker for region with progress 0.
func NewTracker(region Region) *Tracker {
	return &Tracker{
		region:  region,
		samples: make(chan float64, sampleBuffer),
	}
}

// Observe records a new scroll offset and returns the resulting progress.
func (t *Tracker) Observe(offset float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = Progress(offset, t.region.Start, t.region.End)
	t.emit(t.progress)
	return t.progress
}

// Resize changes the bounds. The current progress is kept until the next
// Observe.
func (t *Tracker) Resize(r Region) {
	t.mu.Lock()
	t.region = r
	t.mu.Unlock()
}

// Region returns the current bounds.
func (t *Tracker) Region() Region {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.region
}

// Progress returns the latest sample.
func (t *Tracker) Progress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// Samples is the stream of progress values. It is closed by Detach.
func (t *Tracker) Samples() <-chan float64 {
	return t.samples
}

// emit must be called with mu held. When the buffer is full the oldest
// sample is dropped so the newest always gets through.
func (t *Tracker) emit(p float64) {
	if t.closed {
		return
	}
	for {
		select {
		case t.samples <- p:
			return
		default:
		}
		select {
		case <-t.samples:
		default:
		}
	}
}

// Attach subscribes to scroll events on src. Attaching twice is a no-op,
// as is attaching after Detach.
func (t *Tracker) Attach(src events.Source) {
	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed || t.subs.Len() > 0 {
		return
	}
	t.subs.Add(src.Subscribe(events.Scroll, t.handle))
}

func (t *Tracker) handle(e events.Event) {
	if e.Start != nil || e.End != nil {
		r := t.Region()
		if e.Start != nil {
			r.Start = *e.Start
		}
		if e.End != nil {
			r.End = *e.End
		}
		t.Resize(r)
	}
	t.Observe(e.Offset)
}

// Detach releases the subscription and ends the sample stream. A detached
// tracker cannot be restarted.
func (t *Tracker) Detach() {
	t.subs.Release()
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.samples)
	}
}
