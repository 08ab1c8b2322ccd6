package player

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"golang.org/x/exp/shiny/materialdesign/icons"
	"golang.org/x/image/colornames"

	"github.com/dejadejade/vplayer/fn"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// SeekStep is how far the arrow keys move the playback position.
const SeekStep = 5 * time.Second

// Transport is the playback control surface the overlay drives.
type Transport interface {
	Playing() bool
	TogglePause() error
	Stop() error
	Seek(pos time.Duration) error
	Position() time.Duration
	Duration() time.Duration
}

// Resource holds the widget resources
type Resource struct {
	PlayIcon  *widget.Icon
	StopIcon  *widget.Icon
	PauseIcon *widget.Icon
	Theme     *material.Theme
}

func DefaultResource() *Resource {
	th := material.NewTheme(gofont.Collection())
	th.Palette.Fg = nrgba(colornames.White)
	th.Palette.ContrastBg = nrgba(colornames.Orangered)
	stopIcon, _ := widget.NewIcon(icons.AVStop)
	playIcon, _ := widget.NewIcon(icons.AVPlayArrow)
	pauseIcon, _ := widget.NewIcon(icons.AVPause)
	return &Resource{PlayIcon: playIcon, PauseIcon: pauseIcon, StopIcon: stopIcon, Theme: th}
}

func nrgba(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Controls is the transport bar drawn over the video.
type Controls struct {
	playBtn widget.Clickable
	stopBtn widget.Clickable
	seek    widget.Float

	res *Resource
	t   Transport
}

func NewControls(t Transport, res *Resource) *Controls {
	if res == nil {
		res = DefaultResource()
	}
	return &Controls{t: t, res: res}
}

// HandleKey applies the keyboard shortcuts: space toggles pause, the
// arrows seek, home stops.
func (c *Controls) HandleKey(e key.Event) bool {
	if e.State != key.Press {
		return false
	}

	var err error
	switch e.Name {
	case key.NameSpace:
		err = c.t.TogglePause()
	case key.NameLeftArrow:
		err = c.t.Seek(c.t.Position() - SeekStep)
	case key.NameRightArrow:
		err = c.t.Seek(c.t.Position() + SeekStep)
	case key.NameHome:
		err = c.t.Stop()
	default:
		return false
	}
	if err != nil {
		log.Printf("Failed to handle %s: %v\n", e.Name, err)
	}
	return true
}

// update applies the clicks and slider moves the last layout saw and
// reports whether it touched the transport.
func (c *Controls) update() bool {
	changed := false
	if c.playBtn.Clicked() {
		changed = true
		if err := c.t.TogglePause(); err != nil {
			log.Printf("Failed to toggle pause: %v\n", err)
		}
	}
	if c.stopBtn.Clicked() {
		changed = true
		if err := c.t.Stop(); err != nil {
			log.Printf("Failed to stop: %v\n", err)
		}
	}

	if dur := c.t.Duration(); c.seek.Changed() && dur > 0 {
		changed = true
		if err := c.t.Seek(time.Duration(float64(c.seek.Value) * float64(dur))); err != nil {
			log.Printf("Failed to seek: %v\n", err)
		}
	}
	return changed
}

func (c *Controls) syncSeek() {
	if c.seek.Dragging() {
		return
	}
	c.seek.Value = 0
	if dur := c.t.Duration(); dur > 0 {
		c.seek.Value = float32(c.t.Position()) / float32(dur)
	}
}

func (c *Controls) Layout(gtx C) D {
	c.syncSeek()

	th := c.res.Theme
	playing := c.t.Playing()
	playIcon := c.res.PlayIcon
	if playing {
		playIcon = c.res.PauseIcon
	}

	iconBtn := func(btn *widget.Clickable, icon *widget.Icon, desc string, col color.NRGBA) layout.Widget {
		return func(gtx C) D {
			b := material.IconButton(th, btn, icon, desc)
			b.Background = color.NRGBA{}
			b.Color = col
			b.Size = unit.Dp(28)
			b.Inset = layout.UniformInset(unit.Dp(4))
			return b.Layout(gtx)
		}
	}

	stopColor := nrgba(colornames.White)
	if !playing && c.t.Position() == 0 {
		stopColor = nrgba(colornames.Dimgray)
	}

	remaining := material.Caption(th, format(c.t.Duration()-c.t.Position()))
	remaining.Color = nrgba(colornames.White)

	bar := fn.FormatF("hflex(middle);bkground(a0000000);size(0,48)",
		fn.Child(";inset(8,0,0,0);dir(center)", iconBtn(&c.playBtn, playIcon, "play/pause", nrgba(colornames.White))),
		fn.Child(";dir(center)", iconBtn(&c.stopBtn, c.res.StopIcon, "stop", stopColor)),
		fn.Child("f;inset(8,0,8,0);dir(w)", material.Slider(th, &c.seek, 0, 1).Layout),
		fn.Child(";inset(0,0,12,0);dir(center)", remaining.Layout),
	)
	dims := fn.Format(gtx, "stack(s)", fn.Child("", bar))

	// widgets see their input while laying out; redraw with the new state
	if c.update() {
		op.InvalidateOp{}.Add(gtx.Ops)
	}
	return dims
}
