//go:build !windows && cgo

package player

// #include <stdint.h>
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

//export vplayerGetProcAddress
func vplayerGetProcAddress(ctx unsafe.Pointer, name *C.char) unsafe.Pointer {
	gl, ok := cgo.Handle(uintptr(ctx)).Value().(GLContext)
	if !ok || gl.Resolve == nil {
		return nil
	}
	p, err := gl.Resolve(C.GoString(name))
	if err != nil {
		return nil
	}
	return p
}
