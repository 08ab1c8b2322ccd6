package input

import (
	"testing"

	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejadejade/vplayer/host"
)

type fakeSource struct {
	pending [][]RawEvent
	scale   float32
	drains  int
}

func (s *fakeSource) Drain() []RawEvent {
	s.drains++
	if len(s.pending) == 0 {
		return nil
	}
	ev := s.pending[0]
	s.pending = s.pending[1:]
	return ev
}

func (s *fakeSource) Scale() float32 {
	return s.scale
}

func TestPollEmpty(t *testing.T) {
	src := &fakeSource{scale: 1}
	p := NewPump(src)

	sig := p.Poll()
	assert.False(t, sig.Close)
	assert.Nil(t, sig.Resized)
	assert.Empty(t, sig.Events)
	assert.Equal(t, 1, src.drains)
}

func TestPollDrainsOnce(t *testing.T) {
	src := &fakeSource{scale: 1, pending: [][]RawEvent{
		{{Kind: KindKey, Key: key.NameSpace, Press: true}},
		{{Kind: KindClose}},
	}}
	p := NewPump(src)

	sig := p.Poll()
	assert.False(t, sig.Close)
	assert.Len(t, sig.Events, 1)

	sig = p.Poll()
	assert.True(t, sig.Close)
	assert.Empty(t, sig.Events)
}

func TestResizeUsesScale(t *testing.T) {
	src := &fakeSource{scale: 2, pending: [][]RawEvent{{
		{Kind: KindResize, Width: 500, Height: 300},
		{Kind: KindResize, Width: 640, Height: 360},
	}}}

	sig := NewPump(src).Poll()
	require.NotNil(t, sig.Resized)
	assert.Equal(t, host.Size{Width: 1280, Height: 720}, *sig.Resized)
	assert.Empty(t, sig.Events)
}

func TestPointerTranslation(t *testing.T) {
	src := &fakeSource{scale: 1.5, pending: [][]RawEvent{{
		{Kind: KindCursor, X: 10, Y: 20},
		{Kind: KindButton, Button: pointer.ButtonPrimary, Press: true},
		{Kind: KindCursor, X: 30, Y: 20},
		{Kind: KindButton, Button: pointer.ButtonPrimary},
		{Kind: KindScroll, Y: 1},
	}}}

	sig := NewPump(src).Poll()
	require.Len(t, sig.Events, 5)

	move := sig.Events[0].(pointer.Event)
	assert.Equal(t, pointer.Move, move.Type)
	assert.Equal(t, f32.Point{X: 15, Y: 30}, move.Position)

	press := sig.Events[1].(pointer.Event)
	assert.Equal(t, pointer.Press, press.Type)
	assert.Equal(t, pointer.ButtonPrimary, press.Buttons)
	assert.Equal(t, f32.Point{X: 15, Y: 30}, press.Position)

	held := sig.Events[2].(pointer.Event)
	assert.Equal(t, pointer.Move, held.Type)
	assert.Equal(t, pointer.ButtonPrimary, held.Buttons)
	assert.Equal(t, f32.Point{X: 45, Y: 30}, held.Position)

	release := sig.Events[3].(pointer.Event)
	assert.Equal(t, pointer.Release, release.Type)
	assert.Equal(t, pointer.Buttons(0), release.Buttons)

	scroll := sig.Events[4].(pointer.Event)
	assert.Equal(t, pointer.Scroll, scroll.Type)
	assert.Equal(t, pointer.Buttons(0), scroll.Buttons)
	assert.Equal(t, float32(-15), scroll.Scroll.Y)
}

func TestKeyTranslation(t *testing.T) {
	src := &fakeSource{scale: 1, pending: [][]RawEvent{{
		{Kind: KindKey, Key: key.NameLeftArrow, Press: true, Modifiers: key.ModShift},
		{Kind: KindKey, Key: key.NameLeftArrow},
		{Kind: KindChar, Char: 'x'},
	}}}

	sig := NewPump(src).Poll()
	require.Len(t, sig.Events, 3)
	assert.Equal(t, key.Event{Name: key.NameLeftArrow, Modifiers: key.ModShift, State: key.Press}, sig.Events[0])
	assert.Equal(t, key.Event{Name: key.NameLeftArrow, State: key.Release}, sig.Events[1])
	assert.Equal(t, key.EditEvent{Text: "x"}, sig.Events[2])
}

func TestPointerEventsQueueOnRouter(t *testing.T) {
	src := &fakeSource{scale: 1, pending: [][]RawEvent{{
		{Kind: KindCursor, X: 5, Y: 5},
		{Kind: KindButton, Button: pointer.ButtonPrimary, Press: true},
		{Kind: KindCursor, X: 50, Y: 5},
		{Kind: KindButton, Button: pointer.ButtonSecondary, Press: true},
		{Kind: KindButton, Button: pointer.ButtonPrimary},
		{Kind: KindCursor, X: 60, Y: 5},
		{Kind: KindButton, Button: pointer.ButtonSecondary},
		{Kind: KindScroll, X: 1, Y: -1},
	}}}

	sig := NewPump(src).Poll()
	require.Len(t, sig.Events, 8)

	var r router.Router
	assert.NotPanics(t, func() {
		for _, e := range sig.Events {
			r.Queue(e)
		}
	})

	release := sig.Events[4].(pointer.Event)
	assert.Equal(t, pointer.Release, release.Type)
	assert.Equal(t, pointer.ButtonSecondary, release.Buttons)
}
