package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe(Scroll, func(Event) { got = append(got, "first") })
	b.Subscribe(Scroll, func(Event) { got = append(got, "second") })
	b.Subscribe(PointerMove, func(Event) { got = append(got, "other") })

	b.Publish(Event{Kind: Scroll, Offset: 10})

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := NewBus()
	calls := 0
	s1 := b.Subscribe(PointerMove, func(Event) { calls++ })
	s2 := b.Subscribe(PointerMove, func(Event) { calls++ })
	require.Equal(t, 2, b.Listeners(PointerMove))

	s1.Unsubscribe()
	s1.Unsubscribe()
	assert.Equal(t, 1, b.Listeners(PointerMove))

	b.Publish(Event{Kind: PointerMove})
	assert.Equal(t, 1, calls)

	s2.Unsubscribe()
	assert.Zero(t, b.Len())
}

func TestClosedBusIgnoresSubscriptions(t *testing.T) {
	b := NewBus()
	b.Subscribe(Scroll, func(Event) {})
	b.Close()
	assert.Zero(t, b.Len())

	s := b.Subscribe(Scroll, func(Event) { t.Fatal("closed bus delivered") })
	b.Publish(Event{Kind: Scroll})
	s.Unsubscribe()
	assert.Zero(t, b.Len())
}

func TestGroupRelease(t *testing.T) {
	b := NewBus()
	var g Group
	for _, k := range Kinds() {
		g.Add(b.Subscribe(k, func(Event) {}))
	}
	require.Equal(t, 4, b.Len())
	require.Equal(t, 4, g.Len())

	g.Release()
	g.Release()

	assert.Zero(t, b.Len())
	assert.Zero(t, g.Len())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("pointer.leave")
	require.NoError(t, err)
	assert.Equal(t, PointerLeave, k)

	_, err = ParseKind("keydown")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
