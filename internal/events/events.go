// Package events carries raw UI events from a browser tab (or a test) to the
// trackers of a mounted view.
package events

import (
	"errors"
	"sync"

	"github.com/Zachkp/portfolio/internal/section"
)

// Kind names an event stream.
type Kind string

const (
	PointerMove   Kind = "pointer.move"
	PointerLeave  Kind = "pointer.leave"
	Scroll        Kind = "scroll"
	SectionSelect Kind = "section.select"
)

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("unknown event kind")

// Kinds lists every stream a Source may carry.
func Kinds() []Kind {
	return []Kind{PointerMove, PointerLeave, Scroll, SectionSelect}
}

// ParseKind validates a wire value.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

// Event is one UI event. Only the fields relevant to Kind are set.
type Event struct {
	Kind Kind `json:"type"`

	// Pointer coordinates in viewport pixels.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// Scroll offset and, when the layout changed, the scrollable bounds.
	Offset float64  `json:"offset,omitempty"`
	Start  *float64 `json:"start,omitempty"`
	End    *float64 `json:"end,omitempty"`

	Section section.ID `json:"section,omitempty"`
}

// Handler consumes one event.
type Handler func(Event)

// Subscription is returned by Subscribe. Unsubscribe may be called any
// number of times.
type Subscription interface {
	Unsubscribe()
}

// Source delivers events of a kind to subscribed handlers.
type Source interface {
	Subscribe(kind Kind, h Handler) Subscription
}

// Bus is an in-process Source. Publish delivers synchronously, one event at
// a time, to handlers in subscription order. Handlers must not Publish.
type Bus struct {
	mu       sync.Mutex // guards listeners and nextID
	deliver  sync.Mutex // serialises Publish
	nextID   uint64
	closed   bool
	handlers map[Kind][]listener
}

type listener struct {
	id uint64
	h  Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]listener)}
}

// Subscribe registers h for kind. Subscribing to a closed bus returns a
// subscription that does nothing.
func (b *Bus) Subscribe(kind Kind, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || h == nil {
		return &subscription{}
	}
	b.nextID++
	id := b.nextID
	b.handlers[kind] = append(b.handlers[kind], listener{id: id, h: h})
	return &subscription{bus: b, kind: kind, id: id}
}

// Publish hands e to every handler subscribed to e.Kind.
func (b *Bus) Publish(e Event) {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	ls := make([]listener, len(b.handlers[e.Kind]))
	copy(ls, b.handlers[e.Kind])
	b.mu.Unlock()

	for _, l := range ls {
		l.h(e)
	}
}

// Listeners returns the number of active handlers for kind.
func (b *Bus) Listeners(kind Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[kind])
}

// Len returns the number of active handlers across all kinds.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, ls := range b.handlers {
		n += len(ls)
	}
	return n
}

// Close drops every handler; later subscriptions are inert.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[Kind][]listener)
}

func (b *Bus) remove(kind Kind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ls := b.handlers[kind]
	for i, l := range ls {
		if l.id == id {
			b.handlers[kind] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(b.handlers[kind]) == 0 {
		delete(b.handlers, kind)
	}
}

type subscription struct {
	once sync.Once
	bus  *Bus
	kind Kind
	id   uint64
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.bus != nil {
			s.bus.remove(s.kind, s.id)
		}
	})
}

// Group collects subscriptions so they can be released together.
type Group struct {
	mu   sync.Mutex
	subs []Subscription
}

// Add records s for a later Release.
func (g *Group) Add(s Subscription) {
	g.mu.Lock()
	g.subs = append(g.subs, s)
	g.mu.Unlock()
}

// Release unsubscribes everything added so far. Safe to call repeatedly.
func (g *Group) Release() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.mu.Unlock()
	for _, s := range subs {
		s.Unsubscribe()
	}
}

// Len reports how many subscriptions are held.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}
