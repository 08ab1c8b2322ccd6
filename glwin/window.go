// Package glwin owns the native window and its OpenGL context.
package glwin

import (
	"errors"
	"fmt"
	"log"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/dejadejade/vplayer/host"
	"github.com/dejadejade/vplayer/input"
)

var (
	ErrNoContext     = errors.New("context is not current")
	ErrUnknownSymbol = errors.New("unknown GL symbol")
	ErrHandleLost    = errors.New("window handle lost")
)

// Window is a GLFW window with a current GL context. All methods must
// be called from the thread that created it.
type Window struct {
	glw     *glfw.Window
	targets host.Targets
	vao     uint32

	queue []input.RawEvent
}

// Create opens a window of the given logical size with a GL 3.3 core
// context using samples for multisampling.
func Create(title string, width, height, samples int) (*Window, error) {
	const op = "glwin.Create"

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%s glfw.Init: %w", op, err)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.StencilBits, 8)
	glfw.WindowHint(glfw.Samples, samples)
	// gio blends in linear space and emulates sRGB with an extra
	// framebuffer otherwise, which would cover the video.
	glfw.WindowHint(glfw.SRGBCapable, glfw.True)
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, glfw.True)

	glw, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("%s glfw.CreateWindow: %w", op, err)
	}
	glw.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		glw.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("%s gl.Init: %w", op, err)
	}

	w := &Window{glw: glw}
	// the core profile draws nothing without a bound vertex array
	gl.GenVertexArrays(1, &w.vao)
	gl.BindVertexArray(w.vao)

	w.setCallbacks()
	fw, fh := glw.GetFramebufferSize()
	w.Resize(fw, fh)

	log.Printf("Opened window %dx%d, %s\n", width, height, gl.GoStr(gl.GetString(gl.VERSION)))
	return w, nil
}

// Handle returns the native GLFW window pointer.
func (w *Window) Handle() uintptr {
	if w.glw == nil {
		return 0
	}
	return uintptr(w.glw.Handle())
}

// ProcAddress resolves a GL entry point of this window's context.
func (w *Window) ProcAddress(name string) (unsafe.Pointer, error) {
	if w.glw == nil || glfw.GetCurrentContext() != w.glw {
		return nil, ErrNoContext
	}
	p := glfw.GetProcAddress(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, name)
	}
	return p, nil
}

// Resize rebuilds the target record and viewport for the given
// physical size. The default framebuffer's attachments are reallocated
// by the platform; the window handle is unchanged.
func (w *Window) Resize(width, height int) host.Targets {
	sz := host.Size{Width: width, Height: height}
	w.targets = host.Targets{Framebuffer: 0, Color: sz, Depth: sz}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
	return w.targets
}

func (w *Window) Targets() host.Targets {
	return w.targets
}

// Size returns the logical window size.
func (w *Window) Size() (int, int, bool) {
	if w.glw == nil || w.glw.ShouldClose() {
		return 0, 0, false
	}
	width, height := w.glw.GetSize()
	return width, height, true
}

// Scale returns framebuffer pixels per window coordinate.
func (w *Window) Scale() float32 {
	if w.glw == nil {
		return 1
	}
	ww, _ := w.glw.GetSize()
	fw, _ := w.glw.GetFramebufferSize()
	if ww <= 0 || fw <= 0 {
		return 1
	}
	return float32(fw) / float32(ww)
}

// ContentScale returns the monitor DPI scale used for dp units.
func (w *Window) ContentScale() float32 {
	if w.glw == nil {
		return 1
	}
	x, _ := w.glw.GetContentScale()
	if x <= 0 {
		return 1
	}
	return x
}

func (w *Window) Swap() error {
	if w.glw == nil {
		return ErrHandleLost
	}
	w.glw.SwapBuffers()
	return nil
}

// RequestClose flags the window closed; the next size query reports
// the handle as gone. Safe to call from any goroutine.
func (w *Window) RequestClose() {
	if glw := w.glw; glw != nil {
		glw.SetShouldClose(true)
		glfw.PostEmptyEvent()
	}
}

// Destroy releases the context and the window.
func (w *Window) Destroy() {
	if w.glw == nil {
		return
	}
	if w.vao != 0 {
		gl.DeleteVertexArrays(1, &w.vao)
		w.vao = 0
	}
	w.glw.Destroy()
	w.glw = nil
	glfw.Terminate()
	log.Printf("Window destroyed\n")
}
