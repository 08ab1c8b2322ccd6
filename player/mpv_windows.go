//go:build windows

package player

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	libmpv = windows.NewLazyDLL("libmpv-2.dll")

	mpv_create                = libmpv.NewProc("mpv_create")
	mpv_initialize            = libmpv.NewProc("mpv_initialize")
	mpv_client_api_version    = libmpv.NewProc("mpv_client_api_version")
	mpv_error_string          = libmpv.NewProc("mpv_error_string")
	mpv_set_option_string     = libmpv.NewProc("mpv_set_option_string")
	mpv_set_property_string   = libmpv.NewProc("mpv_set_property_string")
	mpv_get_property_string   = libmpv.NewProc("mpv_get_property_string")
	mpv_free                  = libmpv.NewProc("mpv_free")
	mpv_command               = libmpv.NewProc("mpv_command")
	mpv_wait_event            = libmpv.NewProc("mpv_wait_event")
	mpv_terminate_destroy     = libmpv.NewProc("mpv_terminate_destroy")
	mpv_render_context_create = libmpv.NewProc("mpv_render_context_create")
	mpv_render_context_render = libmpv.NewProc("mpv_render_context_render")
	mpv_render_context_free   = libmpv.NewProc("mpv_render_context_free")
)

const (
	renderParamInvalid    = 0
	renderParamAPIType    = 1
	renderParamOpenGLInit = 2
	renderParamOpenGLFBO  = 3
	renderParamFlipY      = 4
	eventShutdown         = 1
	eventEndFile          = 7
	eventFileLoaded       = 8
	endFileReasonError    = 4
	errorLoadingFailed    = -13
)

type renderParam struct {
	typ  int32
	data unsafe.Pointer
}

type openGLInitParams struct {
	getProcAddress    uintptr
	getProcAddressCtx uintptr
}

type openGLFBO struct {
	fbo, w, h, internalFormat int32
}

type mpvEvent struct {
	id    int32
	err   int32
	reply uint64
	data  uintptr
}

type mpvEndFile struct {
	reason int32
	err    int32
}

// contexts maps the callback ctx argument to the GL capability it
// resolves against.
var (
	contexts   sync.Map
	contextSeq uintptr

	getProcAddress = windows.NewCallback(func(ctx, name uintptr) uintptr {
		v, ok := contexts.Load(ctx)
		if !ok {
			return 0
		}
		p, err := v.(GLContext).Resolve(windows.BytePtrToString((*byte)(unsafe.Pointer(name))))
		if err != nil {
			return 0
		}
		return uintptr(p)
	})
)

type mpvEngine struct {
	handle uintptr
	render uintptr
	ctx    uintptr
}

func newEngine() (Engine, error) {
	if err := libmpv.Load(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineInit, err)
	}
	h, _, _ := mpv_create.Call()
	if h == 0 {
		return nil, fmt.Errorf("%w: mpv_create", ErrEngineInit)
	}
	return &mpvEngine{handle: h}, nil
}

func cstr(s string) *byte {
	p, _ := windows.BytePtrFromString(s)
	return p
}

func mpvError(ret uintptr) error {
	if int32(ret) >= 0 {
		return nil
	}
	msg, _, _ := mpv_error_string.Call(uintptr(int32(ret)))
	return fmt.Errorf("mpv: %s", windows.BytePtrToString((*byte)(unsafe.Pointer(msg))))
}

func (m *mpvEngine) APIVersion() string {
	v, _, _ := mpv_client_api_version.Call()
	return fmt.Sprintf("%d.%d", uint32(v)>>16, uint32(v)&0xffff)
}

func (m *mpvEngine) SetOption(name, value string) error {
	ret, _, _ := mpv_set_option_string.Call(m.handle, uintptr(unsafe.Pointer(cstr(name))), uintptr(unsafe.Pointer(cstr(value))))
	return mpvError(ret)
}

func (m *mpvEngine) Initialize() error {
	ret, _, _ := mpv_initialize.Call(m.handle)
	return mpvError(ret)
}

func (m *mpvEngine) AttachGL(gl GLContext) error {
	contextSeq++
	m.ctx = contextSeq
	contexts.Store(m.ctx, gl)

	api := cstr("opengl")
	glInit := &openGLInitParams{getProcAddress: getProcAddress, getProcAddressCtx: m.ctx}
	params := []renderParam{
		{renderParamAPIType, unsafe.Pointer(api)},
		{renderParamOpenGLInit, unsafe.Pointer(glInit)},
		{renderParamInvalid, nil},
	}
	ret, _, _ := mpv_render_context_create.Call(uintptr(unsafe.Pointer(&m.render)), m.handle, uintptr(unsafe.Pointer(&params[0])))
	runtime.KeepAlive(api)
	runtime.KeepAlive(glInit)
	if int32(ret) < 0 {
		contexts.Delete(m.ctx)
		m.render = 0
	}
	return mpvError(ret)
}

func (m *mpvEngine) Command(args ...string) error {
	cargs := make([]*byte, len(args)+1)
	for i, a := range args {
		cargs[i] = cstr(a)
	}
	ret, _, _ := mpv_command.Call(m.handle, uintptr(unsafe.Pointer(&cargs[0])))
	runtime.KeepAlive(cargs)
	return mpvError(ret)
}

func (m *mpvEngine) WaitLoaded(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		left := time.Until(deadline)
		if left <= 0 {
			return fmt.Errorf("mpv: no playback after %v", timeout)
		}
		p, _, _ := mpv_wait_event.Call(m.handle, uintptr(math.Float64bits(left.Seconds())))
		ev := (*mpvEvent)(unsafe.Pointer(p))
		switch ev.id {
		case eventFileLoaded:
			return nil
		case eventEndFile:
			ef := (*mpvEndFile)(unsafe.Pointer(ev.data))
			if ef.reason == endFileReasonError {
				if ef.err < 0 {
					return mpvError(uintptr(ef.err))
				}
				return mpvError(uintptr(errorLoadingFailed & 0xffffffff))
			}
		case eventShutdown:
			return fmt.Errorf("mpv: shut down while loading")
		}
	}
}

func (m *mpvEngine) GetProperty(name string) (string, error) {
	v, _, _ := mpv_get_property_string.Call(m.handle, uintptr(unsafe.Pointer(cstr(name))))
	if v == 0 {
		return "", fmt.Errorf("mpv: property %s unavailable", name)
	}
	defer mpv_free.Call(v)
	return windows.BytePtrToString((*byte)(unsafe.Pointer(v))), nil
}

func (m *mpvEngine) SetProperty(name, value string) error {
	ret, _, _ := mpv_set_property_string.Call(m.handle, uintptr(unsafe.Pointer(cstr(name))), uintptr(unsafe.Pointer(cstr(value))))
	return mpvError(ret)
}

func (m *mpvEngine) Draw(fbo, width, height int) error {
	if m.render == 0 {
		return fmt.Errorf("mpv: no render context")
	}
	var flip int32
	if height < 0 {
		height = -height
		flip = 1
	}
	target := &openGLFBO{fbo: int32(fbo), w: int32(width), h: int32(height)}
	params := []renderParam{
		{renderParamOpenGLFBO, unsafe.Pointer(target)},
		{renderParamFlipY, unsafe.Pointer(&flip)},
		{renderParamInvalid, nil},
	}
	ret, _, _ := mpv_render_context_render.Call(m.render, uintptr(unsafe.Pointer(&params[0])))
	runtime.KeepAlive(target)
	return mpvError(ret)
}

func (m *mpvEngine) Destroy() {
	if m.render != 0 {
		mpv_render_context_free.Call(m.render)
		m.render = 0
	}
	if m.ctx != 0 {
		contexts.Delete(m.ctx)
		m.ctx = 0
	}
	if m.handle != 0 {
		mpv_terminate_destroy.Call(m.handle)
		m.handle = 0
	}
}
