package overlay

import (
	"errors"
	"fmt"
	"image"
	"log"

	"gioui.org/gpu"
	"gioui.org/op"

	"github.com/dejadejade/vplayer/host"
)

var ErrNoTarget = errors.New("overlay: no render target")

// Renderer draws gio ops into a render target.
type Renderer interface {
	Frame(frame *op.Ops, target gpu.RenderTarget, viewport image.Point) error
	Release()
}

// Compositor draws the overlay into the current GL context, sharing
// its state with the engine.
type Compositor struct {
	newRenderer func() (Renderer, error)
	r           Renderer

	target host.Targets
	sized  bool
}

func NewCompositor() *Compositor {
	return &Compositor{newRenderer: func() (Renderer, error) {
		// Shared makes gio restore the GL state it touches.
		return gpu.New(gpu.OpenGL{Shared: true})
	}}
}

// OnResize records the color target for the next Composite.
func (c *Compositor) OnResize(t host.Targets) {
	c.target = t
	c.sized = true
}

// Composite draws ops over whatever the framebuffer holds. GPU
// resources are only allocated here.
func (c *Compositor) Composite(ops *op.Ops, vp host.Viewport) error {
	if !c.sized {
		return ErrNoTarget
	}
	if c.r == nil {
		r, err := c.newRenderer()
		if err != nil {
			return fmt.Errorf("overlay: gpu: %w", err)
		}
		c.r = r
		log.Printf("Created overlay renderer\n")
	}
	// glfw windows only expose the default framebuffer
	return c.r.Frame(ops, gpu.OpenGLRenderTarget{}, image.Pt(vp.Width, vp.Height))
}

// Release frees the GPU resources. The context must still be current.
func (c *Compositor) Release() {
	if c.r != nil {
		c.r.Release()
		c.r = nil
	}
}

// Layer plugs the overlay into the frame driver as a writer.
type Layer struct {
	state *State
	comp  *Compositor
}

func NewLayer(s *State, c *Compositor) *Layer {
	return &Layer{state: s, comp: c}
}

func (l *Layer) Draw(vp host.Viewport, force bool) (bool, error) {
	ops := l.state.MaybeDraw(force)
	if ops == nil {
		return false, nil
	}
	if err := l.comp.Composite(ops, vp); err != nil {
		return false, err
	}
	return true, nil
}

func (l *Layer) OnResize(t host.Targets) {
	l.comp.OnResize(t)
	l.state.Resize(t.Color.Width, t.Color.Height)
}

func (l *Layer) Close() error {
	l.comp.Release()
	return nil
}
