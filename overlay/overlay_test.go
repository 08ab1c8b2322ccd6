package overlay

import (
	"errors"
	"image"
	"testing"
	"time"

	"gioui.org/gpu"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejadejade/vplayer/host"
)

type fakeWidget struct {
	layouts    int
	last       layout.Constraints
	invalidate bool
	keys       []string
}

func (w *fakeWidget) Layout(gtx layout.Context) layout.Dimensions {
	w.layouts++
	w.last = gtx.Constraints
	if w.invalidate {
		w.invalidate = false
		op.InvalidateOp{}.Add(gtx.Ops)
	}
	return layout.Dimensions{Size: gtx.Constraints.Max}
}

func (w *fakeWidget) HandleKey(e key.Event) bool {
	if e.Name != key.NameSpace {
		return false
	}
	w.keys = append(w.keys, e.Name)
	return true
}

type fakeRenderer struct {
	frames   []image.Point
	released int
	err      error
}

func (r *fakeRenderer) Frame(frame *op.Ops, target gpu.RenderTarget, viewport image.Point) error {
	if r.err != nil {
		return r.err
	}
	r.frames = append(r.frames, viewport)
	return nil
}

func (r *fakeRenderer) Release() { r.released++ }

func newTestState(w Widget) *State {
	s := Build(w, 500, 300, 2, 2)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }
	return s
}

func TestBuildUsesPhysicalSize(t *testing.T) {
	w := &fakeWidget{}
	s := newTestState(w)
	assert.Equal(t, image.Pt(1000, 600), s.Size())
	assert.Equal(t, float32(2), s.metric.PxPerDp)

	require.NotNil(t, s.MaybeDraw(false))
	assert.Equal(t, layout.Exact(image.Pt(1000, 600)), w.last)
}

func TestMaybeDraw(t *testing.T) {
	w := &fakeWidget{}
	s := newTestState(w)

	assert.NotNil(t, s.MaybeDraw(false), "first layout is pending")
	assert.Nil(t, s.MaybeDraw(false))
	assert.Equal(t, 1, w.layouts)

	assert.NotNil(t, s.MaybeDraw(true))
	assert.Equal(t, 2, w.layouts)
	assert.Nil(t, s.MaybeDraw(false))

	s.HandleInput(key.Event{Name: key.NameSpace, State: key.Press})
	assert.Equal(t, []string{key.NameSpace}, w.keys)
	assert.NotNil(t, s.MaybeDraw(false))
	assert.Nil(t, s.MaybeDraw(false))

	s.Resize(640, 480)
	assert.NotNil(t, s.MaybeDraw(false))
	assert.Equal(t, layout.Exact(image.Pt(640, 480)), w.last)
}

func TestMaybeDrawOnWakeup(t *testing.T) {
	w := &fakeWidget{}
	s := newTestState(w)
	require.NotNil(t, s.MaybeDraw(false))

	w.invalidate = true
	require.NotNil(t, s.MaybeDraw(true))
	assert.NotNil(t, s.MaybeDraw(false), "widget asked for a redraw")
	assert.Nil(t, s.MaybeDraw(false))
	assert.Equal(t, 3, w.layouts)
}

func newTestLayer(w Widget) (*Layer, *fakeRenderer) {
	r := &fakeRenderer{}
	c := NewCompositor()
	c.newRenderer = func() (Renderer, error) { return r, nil }
	return NewLayer(newTestState(w), c), r
}

func TestLayerNeedsTarget(t *testing.T) {
	l, r := newTestLayer(&fakeWidget{})
	drew, err := l.Draw(host.Viewport{Width: 1000, Height: 600}, true)
	assert.ErrorIs(t, err, ErrNoTarget)
	assert.False(t, drew)
	assert.Empty(t, r.frames)
}

func TestLayerDraw(t *testing.T) {
	w := &fakeWidget{}
	l, r := newTestLayer(w)
	sz := host.Size{Width: 1000, Height: 600}
	l.OnResize(host.Targets{Color: sz, Depth: sz})

	vp := host.Viewport{Width: 1000, Height: 600, Scale: 2}
	drew, err := l.Draw(vp, false)
	require.NoError(t, err)
	assert.True(t, drew)

	drew, err = l.Draw(vp, false)
	require.NoError(t, err)
	assert.False(t, drew)

	drew, err = l.Draw(vp, true)
	require.NoError(t, err)
	assert.True(t, drew)
	assert.Equal(t, []image.Point{{1000, 600}, {1000, 600}}, r.frames)

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	assert.Equal(t, 1, r.released)
}

func TestLayerRendererFailure(t *testing.T) {
	l, _ := newTestLayer(&fakeWidget{})
	l.comp.newRenderer = func() (Renderer, error) { return nil, errors.New("no gl") }
	l.OnResize(host.Targets{Color: host.Size{Width: 10, Height: 10}})

	_, err := l.Draw(host.Viewport{Width: 10, Height: 10}, true)
	assert.Error(t, err)

	r := &fakeRenderer{err: errors.New("lost")}
	l.comp.newRenderer = func() (Renderer, error) { return r, nil }
	_, err = l.Draw(host.Viewport{Width: 10, Height: 10}, true)
	assert.Error(t, err)
}
