// SPDX-License-Identifier: Unlicense OR MIT

package fn

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

func rgb(c uint32) color.NRGBA {
	return argb((0xff << 24) | c)
}

func argb(c uint32) color.NRGBA {
	return color.NRGBA{A: uint8(c >> 24), R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c)}
}

func fillRect(ops *op.Ops, r image.Rectangle, col color.NRGBA) {
	paint.FillShape(ops, col, clip.Rect(r).Op())
}

// sizeS forces the widget to w x h dp, within the incoming constraints.
type sizeS struct {
	w, h float32
}

func (s sizeS) Layout(gtx C, w layout.Widget) D {
	sz := image.Point{X: gtx.Dp(unit.Dp(s.w)), Y: gtx.Dp(unit.Dp(s.h))}
	if s.w == 0 {
		sz.X = gtx.Constraints.Max.X
	}
	if s.h == 0 {
		sz.Y = gtx.Constraints.Max.Y
	}
	gtx.Constraints = layout.Exact(gtx.Constraints.Constrain(sz))
	return w(gtx)
}

// borderS draws edges of the given dp widths over the widget.
type borderS struct {
	left, top, right, bottom float32
	col                      color.NRGBA
}

func (b borderS) Layout(gtx C, w layout.Widget) D {
	dims := w(gtx)
	sz := dims.Size
	l, t := gtx.Dp(unit.Dp(b.left)), gtx.Dp(unit.Dp(b.top))
	r, btm := gtx.Dp(unit.Dp(b.right)), gtx.Dp(unit.Dp(b.bottom))
	if l > 0 {
		fillRect(gtx.Ops, image.Rect(0, 0, l, sz.Y), b.col)
	}
	if t > 0 {
		fillRect(gtx.Ops, image.Rect(0, 0, sz.X, t), b.col)
	}
	if r > 0 && sz.X > r {
		fillRect(gtx.Ops, image.Rect(sz.X-r, 0, sz.X, sz.Y), b.col)
	}
	if btm > 0 && sz.Y > btm {
		fillRect(gtx.Ops, image.Rect(0, sz.Y-btm, sz.X, sz.Y), b.col)
	}
	return dims
}

// backgroundS fills the widget's area before drawing it.
type backgroundS struct {
	col color.NRGBA
}

func (b backgroundS) Layout(gtx C, w layout.Widget) D {
	m := op.Record(gtx.Ops)
	dims := w(gtx)
	call := m.Stop()

	fillRect(gtx.Ops, image.Rectangle{Max: dims.Size}, b.col)
	call.Add(gtx.Ops)
	return dims
}

type clipCircle struct {
}

func (c *clipCircle) Layout(gtx C, w layout.Widget) D {
	m := op.Record(gtx.Ops)
	dims := w(gtx)
	call := m.Stop()
	max := dims.Size.X
	if dy := dims.Size.Y; dy > max {
		max = dy
	}
	defer clip.UniformRRect(image.Rectangle{Max: image.Point{X: max, Y: max}}, max/2).Push(gtx.Ops).Pop()
	call.Add(gtx.Ops)
	return dims
}
