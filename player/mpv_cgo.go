//go:build !windows && cgo

package player

// #cgo pkg-config: mpv
// #include <stdlib.h>
// #include <stdint.h>
// #include <mpv/client.h>
// #include <mpv/render_gl.h>
//
// extern void *vplayerGetProcAddress(void *ctx, char *name);
//
// static int vplayer_render_create(mpv_render_context **res, mpv_handle *mpv, uintptr_t handle) {
// 	mpv_opengl_init_params gl_init = {
// 		.get_proc_address = (void *(*)(void *, const char *))vplayerGetProcAddress,
// 		.get_proc_address_ctx = (void *)handle,
// 	};
// 	mpv_render_param params[] = {
// 		{MPV_RENDER_PARAM_API_TYPE, (void *)MPV_RENDER_API_TYPE_OPENGL},
// 		{MPV_RENDER_PARAM_OPENGL_INIT_PARAMS, &gl_init},
// 		{MPV_RENDER_PARAM_INVALID, NULL},
// 	};
// 	return mpv_render_context_create(res, mpv, params);
// }
//
// static int vplayer_render(mpv_render_context *ctx, int fbo, int w, int h, int flip) {
// 	mpv_opengl_fbo target = {.fbo = fbo, .w = w, .h = h};
// 	mpv_render_param params[] = {
// 		{MPV_RENDER_PARAM_OPENGL_FBO, &target},
// 		{MPV_RENDER_PARAM_FLIP_Y, &flip},
// 		{MPV_RENDER_PARAM_INVALID, NULL},
// 	};
// 	return mpv_render_context_render(ctx, params);
// }
//
// static int vplayer_end_file_error(mpv_event *ev) {
// 	mpv_event_end_file *ef = ev->data;
// 	if (ef->reason != MPV_END_FILE_REASON_ERROR) {
// 		return 0;
// 	}
// 	return ef->error < 0 ? ef->error : MPV_ERROR_LOADING_FAILED;
// }
import "C"

import (
	"fmt"
	"runtime/cgo"
	"time"
	"unsafe"
)

type mpvEngine struct {
	handle *C.mpv_handle
	render *C.mpv_render_context
	gl     cgo.Handle
}

func newEngine() (Engine, error) {
	h := C.mpv_create()
	if h == nil {
		return nil, fmt.Errorf("%w: mpv_create", ErrEngineInit)
	}
	return &mpvEngine{handle: h}, nil
}

func mpvError(ret C.int) error {
	if ret >= 0 {
		return nil
	}
	return fmt.Errorf("mpv: %s", C.GoString(C.mpv_error_string(ret)))
}

func (m *mpvEngine) APIVersion() string {
	v := uint32(C.mpv_client_api_version())
	return fmt.Sprintf("%d.%d", v>>16, v&0xffff)
}

func (m *mpvEngine) SetOption(name, value string) error {
	cname, cvalue := C.CString(name), C.CString(value)
	defer C.free(unsafe.Pointer(cname))
	defer C.free(unsafe.Pointer(cvalue))
	return mpvError(C.mpv_set_option_string(m.handle, cname, cvalue))
}

func (m *mpvEngine) Initialize() error {
	return mpvError(C.mpv_initialize(m.handle))
}

func (m *mpvEngine) AttachGL(gl GLContext) error {
	m.gl = cgo.NewHandle(gl)
	ret := C.vplayer_render_create(&m.render, m.handle, C.uintptr_t(m.gl))
	if ret < 0 {
		m.gl.Delete()
		m.gl = 0
		m.render = nil
	}
	return mpvError(ret)
}

func (m *mpvEngine) Command(args ...string) error {
	cargs := make([]*C.char, len(args)+1)
	for i, a := range args {
		cargs[i] = C.CString(a)
		defer C.free(unsafe.Pointer(cargs[i]))
	}
	return mpvError(C.mpv_command(m.handle, &cargs[0]))
}

func (m *mpvEngine) WaitLoaded(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		left := time.Until(deadline)
		if left <= 0 {
			return fmt.Errorf("mpv: no playback after %v", timeout)
		}
		ev := C.mpv_wait_event(m.handle, C.double(left.Seconds()))
		switch ev.event_id {
		case C.MPV_EVENT_FILE_LOADED:
			return nil
		case C.MPV_EVENT_END_FILE:
			if ret := C.vplayer_end_file_error(ev); ret < 0 {
				return mpvError(ret)
			}
		case C.MPV_EVENT_SHUTDOWN:
			return fmt.Errorf("mpv: shut down while loading")
		}
	}
}

func (m *mpvEngine) GetProperty(name string) (string, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	v := C.mpv_get_property_string(m.handle, cname)
	if v == nil {
		return "", fmt.Errorf("mpv: property %s unavailable", name)
	}
	defer C.mpv_free(unsafe.Pointer(v))
	return C.GoString(v), nil
}

func (m *mpvEngine) SetProperty(name, value string) error {
	cname, cvalue := C.CString(name), C.CString(value)
	defer C.free(unsafe.Pointer(cname))
	defer C.free(unsafe.Pointer(cvalue))
	return mpvError(C.mpv_set_property_string(m.handle, cname, cvalue))
}

func (m *mpvEngine) Draw(fbo, width, height int) error {
	if m.render == nil {
		return fmt.Errorf("mpv: no render context")
	}
	flip := 0
	if height < 0 {
		height = -height
		flip = 1
	}
	return mpvError(C.vplayer_render(m.render, C.int(fbo), C.int(width), C.int(height), C.int(flip)))
}

// Destroy frees the render context before the core; both must go
// while the GL context is still alive.
func (m *mpvEngine) Destroy() {
	if m.render != nil {
		C.mpv_render_context_free(m.render)
		m.render = nil
	}
	if m.gl != 0 {
		m.gl.Delete()
		m.gl = 0
	}
	if m.handle != nil {
		C.mpv_terminate_destroy(m.handle)
		m.handle = nil
	}
}
