package glwin

import (
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/dejadejade/vplayer/input"
)

func (w *Window) setCallbacks() {
	w.glw.SetCloseCallback(w.closeReq)
	w.glw.SetSizeCallback(w.winResized)
	w.glw.SetCursorPosCallback(w.cursorPosEvent)
	w.glw.SetMouseButtonCallback(w.mouseButtonEvent)
	w.glw.SetScrollCallback(w.scrollEvent)
	w.glw.SetKeyCallback(w.keyEvent)
	w.glw.SetCharModsCallback(w.charEvent)
}

// Drain processes pending platform events and returns what the
// callbacks queued. It never waits.
func (w *Window) Drain() []input.RawEvent {
	if w.glw == nil {
		return []input.RawEvent{{Kind: input.KindClose}}
	}
	glfw.PollEvents()
	q := w.queue
	w.queue = nil
	return q
}

func (w *Window) push(e input.RawEvent) {
	w.queue = append(w.queue, e)
}

func (w *Window) closeReq(gw *glfw.Window) {
	w.push(input.RawEvent{Kind: input.KindClose})
}

func (w *Window) winResized(gw *glfw.Window, width, height int) {
	w.push(input.RawEvent{Kind: input.KindResize, Width: width, Height: height})
}

func (w *Window) cursorPosEvent(gw *glfw.Window, x, y float64) {
	w.push(input.RawEvent{Kind: input.KindCursor, X: x, Y: y})
}

func (w *Window) mouseButtonEvent(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	but, ok := glfwButton(button)
	if !ok {
		return
	}
	w.push(input.RawEvent{
		Kind:      input.KindButton,
		Button:    but,
		Press:     action == glfw.Press,
		Modifiers: glfwMods(mod),
	})
}

func (w *Window) scrollEvent(gw *glfw.Window, xoff, yoff float64) {
	w.push(input.RawEvent{Kind: input.KindScroll, X: xoff, Y: yoff})
}

func (w *Window) keyEvent(gw *glfw.Window, k glfw.Key, scancode int, action glfw.Action, mod glfw.ModifierKey) {
	name, ok := glfwKeyName(k)
	if !ok {
		return
	}
	w.push(input.RawEvent{
		Kind:      input.KindKey,
		Key:       name,
		Press:     action != glfw.Release,
		Repeat:    action == glfw.Repeat,
		Modifiers: glfwMods(mod),
	})
}

func (w *Window) charEvent(gw *glfw.Window, char rune, mod glfw.ModifierKey) {
	w.push(input.RawEvent{Kind: input.KindChar, Char: char, Modifiers: glfwMods(mod)})
}

func glfwButton(b glfw.MouseButton) (pointer.Buttons, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return pointer.ButtonPrimary, true
	case glfw.MouseButtonRight:
		return pointer.ButtonSecondary, true
	case glfw.MouseButtonMiddle:
		return pointer.ButtonTertiary, true
	}
	return 0, false
}

func glfwMods(mod glfw.ModifierKey) key.Modifiers {
	var m key.Modifiers
	if mod&glfw.ModShift != 0 {
		m |= key.ModShift
	}
	if mod&glfw.ModControl != 0 {
		m |= key.ModCtrl
	}
	if mod&glfw.ModAlt != 0 {
		m |= key.ModAlt
	}
	if mod&glfw.ModSuper != 0 {
		m |= key.ModSuper
	}
	return m
}

func glfwKeyName(k glfw.Key) (string, bool) {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return string(rune('A' + (k - glfw.KeyA))), true
	case k >= glfw.Key0 && k <= glfw.Key9:
		return string(rune('0' + (k - glfw.Key0))), true
	}
	switch k {
	case glfw.KeySpace:
		return key.NameSpace, true
	case glfw.KeyEnter:
		return key.NameReturn, true
	case glfw.KeyEscape:
		return key.NameEscape, true
	case glfw.KeyTab:
		return key.NameTab, true
	case glfw.KeyBackspace:
		return key.NameDeleteBackward, true
	case glfw.KeyDelete:
		return key.NameDeleteForward, true
	case glfw.KeyLeft:
		return key.NameLeftArrow, true
	case glfw.KeyRight:
		return key.NameRightArrow, true
	case glfw.KeyUp:
		return key.NameUpArrow, true
	case glfw.KeyDown:
		return key.NameDownArrow, true
	case glfw.KeyHome:
		return key.NameHome, true
	case glfw.KeyEnd:
		return key.NameEnd, true
	case glfw.KeyPageUp:
		return key.NamePageUp, true
	case glfw.KeyPageDown:
		return key.NamePageDown, true
	}
	return "", false
}
