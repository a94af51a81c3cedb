// Package pointer follows the visitor's pointer for the custom cursor overlay.
package pointer

import (
	"sync"

	"github.com/Zachkp/portfolio/internal/events"
)

// Position is the cursor overlay state. Hidden is true before the first
// move and after the pointer leaves the page.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Hidden bool    `json:"hidden"`
}

// Opacity is 0 for a hidden cursor and 1 otherwise.
func (p Position) Opacity() float64 {
	if p.Hidden {
		return 0
	}
	return 1
}

// Tracker owns one Position.
type Tracker struct {
	mu   sync.RWMutex
	pos  Position
	subs events.Group
}

// NewTracker returns a tracker with a hidden cursor at the origin.
func NewTracker() *Tracker {
	return &Tracker{pos: Position{Hidden: true}}
}

// Move records the latest coordinates and shows the cursor.
func (t *Tracker) Move(x, y float64) {
	t.mu.Lock()
	t.pos = Position{X: x, Y: y}
	t.mu.Unlock()
}

// Leave hides the cursor and keeps the last coordinates.
func (t *Tracker) Leave() {
	t.mu.Lock()
	t.pos.Hidden = true
	t.mu.Unlock()
}

// Position returns the current state.
func (t *Tracker) Position() Position {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pos
}

// Attach subscribes to pointer move and leave events on src. Attaching an
// already attached tracker is a no-op.
func (t *Tracker) Attach(src events.Source) {
	if t.subs.Len() > 0 {
		return
	}
	t.subs.Add(src.Subscribe(events.PointerMove, func(e events.Event) { t.Move(e.X, e.Y) }))
	t.subs.Add(src.Subscribe(events.PointerLeave, func(events.Event) { t.Leave() }))
}

// Detach releases the subscriptions made by Attach.
func (t *Tracker) Detach() {
	t.subs.Release()
}
