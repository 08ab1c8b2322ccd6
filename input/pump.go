// Package input turns raw window events into control signals and gio
// input events.
package input

import (
	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"github.com/dejadejade/vplayer/host"
)

type Kind uint8

const (
	KindClose Kind = iota
	KindResize
	KindCursor
	KindButton
	KindScroll
	KindKey
	KindChar
)

// RawEvent is a platform event as queued by the window callbacks.
// Positions and sizes are in logical (window) coordinates.
type RawEvent struct {
	Kind Kind

	X, Y          float64 // cursor position or scroll offsets
	Width, Height int     // KindResize

	Button    pointer.Buttons
	Press     bool // KindButton, KindKey
	Repeat    bool
	Modifiers key.Modifiers
	Key       string // gio key name
	Char      rune
}

// Source is the window side of the pump.
type Source interface {
	// Drain returns the events queued since the last call without
	// waiting for new ones.
	Drain() []RawEvent
	// Scale is the current number of device pixels per logical pixel.
	Scale() float32
}

// Pump polls a Source once per cycle.
type Pump struct {
	src     Source
	cursor  f32.Point
	buttons pointer.Buttons
}

func NewPump(src Source) *Pump {
	return &Pump{src: src}
}

// Poll drains the pending events and translates them.
func (p *Pump) Poll() host.Signals {
	return p.translate(p.src.Drain(), p.src.Scale())
}

func (p *Pump) translate(raw []RawEvent, scale float32) host.Signals {
	var sig host.Signals
	if scale <= 0 {
		scale = 1
	}
	for _, r := range raw {
		switch r.Kind {
		case KindClose:
			sig.Close = true

		case KindResize:
			sig.Resized = &host.Size{
				Width:  int(float32(r.Width)*scale + .5),
				Height: int(float32(r.Height)*scale + .5),
			}

		case KindCursor:
			p.cursor = f32.Point{X: float32(r.X) * scale, Y: float32(r.Y) * scale}
			// the router turns moves into drags while a button is held
			sig.Events = append(sig.Events, p.pointer(pointer.Move, r.Modifiers))

		case KindButton:
			typ := pointer.Release
			if r.Press {
				typ = pointer.Press
				p.buttons |= r.Button
			} else {
				p.buttons &^= r.Button
			}
			sig.Events = append(sig.Events, p.pointer(typ, r.Modifiers))

		case KindScroll:
			e := p.pointer(pointer.Scroll, r.Modifiers)
			e.Scroll = f32.Point{X: float32(-r.X) * scale * 10, Y: float32(-r.Y) * scale * 10}
			sig.Events = append(sig.Events, e)

		case KindKey:
			state := key.Release
			if r.Press {
				state = key.Press
			}
			sig.Events = append(sig.Events, key.Event{Name: r.Key, Modifiers: r.Modifiers, State: state})

		case KindChar:
			sig.Events = append(sig.Events, key.EditEvent{Text: string(r.Char)})
		}
	}
	return sig
}

func (p *Pump) pointer(typ pointer.Type, mods key.Modifiers) pointer.Event {
	return pointer.Event{
		Type:      typ,
		Source:    pointer.Mouse,
		Position:  p.cursor,
		Buttons:   p.buttons,
		Modifiers: mods,
	}
}
