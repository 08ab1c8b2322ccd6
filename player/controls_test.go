package player

import (
	"image"
	"testing"
	"time"

	"gioui.org/io/key"
	"gioui.org/io/router"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/stretchr/testify/assert"
)

type fakeTransport struct {
	playing  bool
	pos, dur time.Duration
	calls    []string
}

func (f *fakeTransport) Playing() bool { return f.playing }

func (f *fakeTransport) TogglePause() error {
	f.playing = !f.playing
	f.calls = append(f.calls, "toggle")
	return nil
}

func (f *fakeTransport) Stop() error {
	f.playing = false
	f.pos = 0
	f.calls = append(f.calls, "stop")
	return nil
}

func (f *fakeTransport) Seek(pos time.Duration) error {
	f.pos = pos
	f.calls = append(f.calls, "seek "+pos.String())
	return nil
}

func (f *fakeTransport) Position() time.Duration { return f.pos }
func (f *fakeTransport) Duration() time.Duration { return f.dur }

func TestHandleKey(t *testing.T) {
	tr := &fakeTransport{playing: true, pos: 20 * time.Second, dur: time.Minute}
	c := NewControls(tr, nil)

	assert.True(t, c.HandleKey(key.Event{Name: key.NameSpace, State: key.Press}))
	assert.False(t, tr.playing)
	assert.True(t, c.HandleKey(key.Event{Name: key.NameLeftArrow, State: key.Press}))
	assert.True(t, c.HandleKey(key.Event{Name: key.NameRightArrow, State: key.Press}))
	assert.True(t, c.HandleKey(key.Event{Name: key.NameHome, State: key.Press}))

	assert.False(t, c.HandleKey(key.Event{Name: key.NameSpace, State: key.Release}))
	assert.False(t, c.HandleKey(key.Event{Name: "Q", State: key.Press}))

	assert.Equal(t, []string{"toggle", "seek 15s", "seek 20s", "stop"}, tr.calls)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "00:00:00", format(0))
	assert.Equal(t, "00:00:00", format(-time.Second))
	assert.Equal(t, "01:02:03", format(time.Hour+2*time.Minute+3*time.Second+400*time.Millisecond))
}

func TestControlsLayout(t *testing.T) {
	tr := &fakeTransport{playing: true, pos: 15 * time.Second, dur: time.Minute}
	c := NewControls(tr, nil)

	gtx := layout.Context{
		Ops:         new(op.Ops),
		Queue:       new(router.Router),
		Metric:      unit.Metric{PxPerDp: 1, PxPerSp: 1},
		Constraints: layout.Exact(image.Pt(800, 600)),
	}
	dims := c.Layout(gtx)
	assert.Equal(t, image.Pt(800, 600), dims.Size)
	assert.InDelta(t, 0.25, c.seek.Value, 1e-6)
	assert.Empty(t, tr.calls)
}
