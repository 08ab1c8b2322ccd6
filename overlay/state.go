// Package overlay lays out a gio widget tree and composites it into
// the shared framebuffer on top of the video.
package overlay

import (
	"image"
	"math"
	"time"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/router"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
)

// Widget is the root of the overlay. It gets first pick of key
// presses, before the router.
type Widget interface {
	Layout(gtx layout.Context) layout.Dimensions
	HandleKey(e key.Event) bool
}

// State holds the widget tree, its event router and the op list of
// the last layout.
type State struct {
	root   Widget
	router router.Router
	ops    op.Ops

	size   image.Point
	metric unit.Metric
	dirty  bool

	now func() time.Time
}

// Build creates the overlay state for a window of the given logical
// size. scale converts logical to physical pixels, dpScale is the
// number of physical pixels per dp.
func Build(root Widget, logicalW, logicalH int, scale, dpScale float32) *State {
	if dpScale <= 0 {
		dpScale = 1
	}
	return &State{
		root:   root,
		size:   image.Pt(physical(logicalW, scale), physical(logicalH, scale)),
		metric: unit.Metric{PxPerDp: dpScale, PxPerSp: dpScale},
		dirty:  true,
		now:    time.Now,
	}
}

func physical(v int, scale float32) int {
	if scale <= 0 {
		scale = 1
	}
	return int(math.Round(float64(float32(v) * scale)))
}

func (s *State) HandleInput(e event.Event) {
	if ke, ok := e.(key.Event); ok && s.root.HandleKey(ke) {
		s.dirty = true
	}
	if s.router.Queue(e) {
		s.dirty = true
	}
}

// Resize sets the physical layout size and forces the next layout.
func (s *State) Resize(physW, physH int) {
	s.size = image.Pt(physW, physH)
	s.dirty = true
}

func (s *State) Size() image.Point {
	return s.size
}

func (s *State) wakeup() bool {
	t, ok := s.router.WakeupTime()
	return ok && !s.now().Before(t)
}

// MaybeDraw lays the tree out and returns its ops when forced, when
// input changed something or when a widget asked to be redrawn by
// now. Otherwise it returns nil. The ops are valid until the next call.
func (s *State) MaybeDraw(force bool) *op.Ops {
	if !force && !s.dirty && !s.wakeup() {
		return nil
	}
	s.dirty = false

	s.ops.Reset()
	gtx := layout.Context{
		Ops:         &s.ops,
		Now:         s.now(),
		Queue:       &s.router,
		Metric:      s.metric,
		Constraints: layout.Exact(s.size),
	}
	s.root.Layout(gtx)
	s.router.Frame(&s.ops)
	return &s.ops
}
