// Package view composes the per-visitor page state: the highlighted
// navigation dot, the cursor overlay and the scroll parallax.
//
// A View is mounted on an event source for as long as the visitor's page is
// open. Unmount releases every subscription it made.
package view

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/events"
	"github.com/Zachkp/portfolio/internal/pointer"
	"github.com/Zachkp/portfolio/internal/profile"
	"github.com/Zachkp/portfolio/internal/scroll"
	"github.com/Zachkp/portfolio/internal/section"
)

var (
	ErrAlreadyMounted = errors.New("view already mounted")
	ErrUnmounted      = errors.New("view was unmounted")
)

// Cursor is the overlay's rendered state.
type Cursor struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Hidden  bool    `json:"hidden"`
	Opacity float64 `json:"opacity"`
}

// State is a snapshot of everything the page derives from UI events.
type State struct {
	ViewID           string     `json:"view_id,omitempty"`
	Active           section.ID `json:"active"`
	Cursor           Cursor     `json:"cursor"`
	Progress         float64    `json:"progress"`
	BackgroundOffset string     `json:"background_offset"`
}

// Initial is the state of a freshly mounted page.
func Initial() State {
	return State{
		Active:           section.Home,
		Cursor:           Cursor{Hidden: true},
		BackgroundOffset: scroll.BackgroundOffset(0),
	}
}

// Option configures a View.
type Option func(*View)

// WithRegion sets the initial scrollable region.
func WithRegion(r scroll.Region) Option {
	return func(v *View) { v.region = r }
}

// WithOnSelect registers a callback for rejected and accepted selections.
func WithOnSelect(fn func(id section.ID, err error)) Option {
	return func(v *View) { v.onSelect = fn }
}

// View owns the three trackers of one page.
type View struct {
	id      string
	profile *profile.Profile
	region  scroll.Region

	selector *section.Selector
	pointer  *pointer.Tracker
	scroll   *scroll.Tracker
	onSelect func(section.ID, error)

	mu      sync.Mutex
	mounted bool
	done    bool
	subs    events.Group
}

// New returns an unmounted view of p.
func New(p *profile.Profile, opts ...Option) *View {
	v := &View{
		id:       uuid.NewString(),
		profile:  p,
		selector: section.NewSelector(),
		pointer:  pointer.NewTracker(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.scroll = scroll.NewTracker(v.region)
	return v
}

// ID identifies the view in logs and metrics.
func (v *View) ID() string { return v.id }

// Profile is the content the view renders.
func (v *View) Profile() *profile.Profile { return v.profile }

// Mount subscribes the trackers to src.
func (v *View) Mount(src events.Source) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.done:
		return ErrUnmounted
	case v.mounted:
		return ErrAlreadyMounted
	}

	v.pointer.Attach(src)
	v.scroll.Attach(src)
	v.subs.Add(src.Subscribe(events.SectionSelect, func(e events.Event) {
		_ = v.Select(e.Section)
	}))
	v.mounted = true
	return nil
}

// Unmount releases every subscription and ends the progress stream. It is
// safe to call more than once and on a view that was never mounted.
func (v *View) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.subs.Release()
	v.pointer.Detach()
	v.scroll.Detach()
	v.mounted = false
	v.done = true
}

// Mounted reports whether the view currently holds subscriptions.
func (v *View) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted
}

// Select highlights id. The id is normalised by section.Parse, so "Skills"
// selects skills. It does not scroll and does not touch pointer or scroll
// state.
func (v *View) Select(id section.ID) error {
	parsed, err := section.Parse(string(id))
	if err == nil {
		id = parsed
		err = v.selector.Select(id)
	}
	if v.onSelect != nil {
		v.onSelect(id, err)
	}
	return err
}

// Progress is the scroll progress stream. It closes on Unmount.
func (v *View) Progress() <-chan float64 {
	return v.scroll.Samples()
}

// State returns a snapshot of the derived visual state.
func (v *View) State() State {
	pos := v.pointer.Position()
	p := v.scroll.Progress()
	return State{
		ViewID: v.id,
		Active: v.selector.Current(),
		Cursor: Cursor{
			X:       pos.X,
			Y:       pos.Y,
			Hidden:  pos.Hidden,
			Opacity: pos.Opacity(),
		},
		Progress:         p,
		BackgroundOffset: scroll.BackgroundOffset(p),
	}
}
