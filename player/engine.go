package player

import (
	"errors"
	"time"
	"unsafe"
)

var (
	ErrEngineInit = errors.New("engine initialization failed")
	ErrLoad       = errors.New("file/stream could not be loaded")
	ErrClosed     = errors.New("surface closed")
)

// GLContext is what the engine gets to render into the host's
// context: the raw handle and a resolver for GL entry points. The
// engine borrows it; the window stays owned by the host.
type GLContext struct {
	Handle  uintptr
	Resolve func(name string) (unsafe.Pointer, error)
}

// Engine is the decoding/playback engine.
type Engine interface {
	// APIVersion returns the client API version as "major.minor".
	APIVersion() string
	SetOption(name, value string) error
	Initialize() error
	AttachGL(gl GLContext) error
	Command(args ...string) error
	// WaitLoaded blocks until the last loadfile either started
	// playback or failed.
	WaitLoaded(timeout time.Duration) error
	GetProperty(name string) (string, error)
	SetProperty(name, value string) error
	// Draw renders the current frame into fbo. A negative height
	// flips the picture vertically.
	Draw(fbo, width, height int) error
	Destroy()
}

// NewEngine returns the platform engine.
func NewEngine() (Engine, error) {
	return newEngine()
}
