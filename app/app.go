// Package app wires a window, the playback surface and the overlay
// into a frame driver.
package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/dejadejade/vplayer/config"
	"github.com/dejadejade/vplayer/glwin"
	"github.com/dejadejade/vplayer/host"
	"github.com/dejadejade/vplayer/input"
	"github.com/dejadejade/vplayer/overlay"
	"github.com/dejadejade/vplayer/player"
)

// Player is an open window playing one url.
type Player struct {
	driver *host.Driver
	win    *glwin.Window

	mu   sync.Mutex
	done bool
}

// Open builds the window and everything drawing into it. It must run
// on the locked main thread, as must Run.
func Open(cfg config.Config, url string) (*Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	win, err := glwin.Create(cfg.Title, cfg.Width, cfg.Height, cfg.Samples)
	if err != nil {
		log.Printf("Failed to create window: %v\n", err)
		return nil, err
	}

	engine, err := player.NewEngine()
	if err != nil {
		win.Destroy()
		log.Printf("Failed to create engine: %v\n", err)
		return nil, err
	}
	gl := player.GLContext{Handle: win.Handle(), Resolve: win.ProcAddress}
	surface, err := player.Open(engine, gl, url, settings)
	if err != nil {
		win.Destroy()
		log.Printf("Failed to open %s: %v\n", url, err)
		return nil, err
	}

	w, h, ok := win.Size()
	if !ok {
		surface.Close()
		win.Destroy()
		return nil, fmt.Errorf("%w: closed during construction", glwin.ErrHandleLost)
	}
	state := overlay.Build(player.NewControls(surface, nil), w, h, win.Scale(), win.ContentScale())
	layer := overlay.NewLayer(state, overlay.NewCompositor())

	targets := win.Targets()
	surface.OnResize(targets)
	layer.OnResize(targets)

	drv := host.New(win, input.NewPump(win), state, surface, layer)
	return &Player{driver: drv, win: win}, nil
}

// Run drives frames until the window closes, then tears everything
// down: playback, overlay, window.
func (p *Player) Run() error {
	p.driver.Run()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
	return p.driver.Release()
}

// Close asks the window to close; Run returns after the current frame.
// Safe to call from any goroutine.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.done {
		p.win.RequestClose()
	}
}
