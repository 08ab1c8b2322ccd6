package host

import (
	"errors"
	"io"
	"log"

	"gioui.org/io/event"
)

// State of the frame loop.
type State uint8

const (
	Running State = iota
	Terminating
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminating:
		return "terminating"
	}
	return "unknown"
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height int
}

// Signals is the control record produced by one poll of the event pump.
type Signals struct {
	Close   bool
	Resized *Size // physical pixels
	Events  []event.Event
}

// Viewport is the physical framebuffer area writers draw into.
type Viewport struct {
	Width, Height int
	Scale         float32
}

// Targets describes the color and depth/stencil attachments of the
// context's framebuffer.
type Targets struct {
	Framebuffer uint
	Color       Size
	Depth       Size
}

// Context is the window and graphics context shared by every writer.
type Context interface {
	Resize(width, height int) Targets
	// Size returns the logical window size, ok is false once the
	// window handle is gone.
	Size() (width, height int, ok bool)
	Scale() float32
	Swap() error
	Destroy()
}

// Pump drains pending window events without blocking.
type Pump interface {
	Poll() Signals
}

// Input receives the non-control events of a cycle.
type Input interface {
	HandleInput(e event.Event)
}

// Writer draws into the shared framebuffer. force is set when an
// earlier writer already drew this cycle, so whatever the writer
// rendered before is gone.
type Writer interface {
	Draw(vp Viewport, force bool) (bool, error)
}

// Resizer is notified after the context rebuilt its targets.
type Resizer interface {
	OnResize(t Targets)
}

// Driver sequences the writers over one context.
type Driver struct {
	ctx     Context
	pump    Pump
	input   Input
	writers []Writer

	state    State
	released bool
}

// New returns a driver that draws the writers in the given order.
func New(ctx Context, pump Pump, input Input, writers ...Writer) *Driver {
	return &Driver{ctx: ctx, pump: pump, input: input, writers: writers}
}

func (d *Driver) State() State {
	return d.state
}

// Cycle runs one frame: events, resize, draws and at most one swap.
func (d *Driver) Cycle() State {
	if d.state == Terminating {
		return d.state
	}

	sig := d.pump.Poll()
	if d.input != nil {
		for _, e := range sig.Events {
			d.input.HandleInput(e)
		}
	}
	if sig.Close {
		log.Printf("Close requested\n")
		d.state = Terminating
		return d.state
	}

	if r := sig.Resized; r != nil {
		t := d.ctx.Resize(r.Width, r.Height)
		for _, w := range d.writers {
			if rs, ok := w.(Resizer); ok {
				rs.OnResize(t)
			}
		}
	}

	w, h, ok := d.ctx.Size()
	if !ok {
		log.Printf("Window handle lost\n")
		d.state = Terminating
		return d.state
	}
	scale := d.ctx.Scale()
	vp := Viewport{
		Width:  int(float32(w)*scale + .5),
		Height: int(float32(h)*scale + .5),
		Scale:  scale,
	}

	if vp.Width == 0 || vp.Height == 0 {
		// minimized: nothing to draw into
		return d.state
	}

	needsSwap := false
	for _, wr := range d.writers {
		drew, err := wr.Draw(vp, needsSwap)
		if err != nil {
			log.Printf("Failed to draw: %v\n", err)
			d.state = Terminating
			return d.state
		}
		needsSwap = needsSwap || drew
	}

	if needsSwap {
		if err := d.ctx.Swap(); err != nil {
			log.Printf("Failed to swap: %v\n", err)
			d.state = Terminating
		}
	}
	return d.state
}

// Run cycles until the driver terminates.
func (d *Driver) Run() {
	for d.Cycle() == Running {
	}
}

// Release frees the writers in registration order and then destroys
// the context. Writers hold GPU resources of that context, so they
// go first.
func (d *Driver) Release() error {
	if d.released {
		return nil
	}
	d.released = true
	d.state = Terminating

	var errs []error
	for _, w := range d.writers {
		if c, ok := w.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	d.ctx.Destroy()
	return errors.Join(errs...)
}
