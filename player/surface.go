package player

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/dejadejade/vplayer/host"
)

// MinAPIVersion is the first client API with the render context.
const MinAPIVersion = "1.28"

// Option is an engine option applied before initialization.
type Option struct {
	Name, Value string
}

// Settings configures Open.
type Settings struct {
	// Hwdec is the hardware decoding preference. The engine falls back
	// to software decoding on its own.
	Hwdec       string
	Options     []Option
	LoadTimeout time.Duration
}

// Surface draws the engine's current frame into the shared
// framebuffer and exposes the playback transport.
type Surface struct {
	engine Engine
	url    string
	fbo    int

	playing bool
	closed  bool
}

// Open initializes the engine against gl and loads url. Any failure is
// final for the window; the engine is destroyed before returning.
func Open(e Engine, gl GLContext, url string, s Settings) (*Surface, error) {
	if err := checkAPI(e.APIVersion()); err != nil {
		e.Destroy()
		return nil, err
	}
	target, err := preflight(url)
	if err != nil {
		e.Destroy()
		return nil, err
	}

	opts := s.Options
	if s.Hwdec != "" {
		opts = append([]Option{{"hwdec", s.Hwdec}}, opts...)
	}
	for _, o := range opts {
		if err := e.SetOption(o.Name, o.Value); err != nil {
			e.Destroy()
			return nil, fmt.Errorf("%w: option %s=%s: %v", ErrEngineInit, o.Name, o.Value, err)
		}
	}
	if err := e.Initialize(); err != nil {
		e.Destroy()
		return nil, fmt.Errorf("%w: %v", ErrEngineInit, err)
	}
	if err := e.AttachGL(gl); err != nil {
		e.Destroy()
		return nil, fmt.Errorf("%w: opengl: %v", ErrEngineInit, err)
	}

	if err := e.Command("loadfile", target); err != nil {
		e.Destroy()
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, url, err)
	}
	timeout := s.LoadTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if err := e.WaitLoaded(timeout); err != nil {
		e.Destroy()
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, url, err)
	}

	sf := &Surface{engine: e, url: url, playing: true}
	if v, err := e.GetProperty("pause"); err == nil {
		sf.playing = v != "yes"
	}
	log.Printf("Opened %s\n", url)
	return sf, nil
}

func checkAPI(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: bad api version %q: %v", ErrEngineInit, version, err)
	}
	c, _ := semver.NewConstraint(">= " + MinAPIVersion)
	if !c.Check(v) {
		return fmt.Errorf("%w: api version %s, need %s", ErrEngineInit, version, MinAPIVersion)
	}
	return nil
}

// Draw renders whatever frame the engine has buffered. It does not
// wait for a new frame.
func (s *Surface) Draw(vp host.Viewport, force bool) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	// the engine's origin is top-left, the framebuffer's bottom-left
	if err := s.engine.Draw(s.fbo, vp.Width, -vp.Height); err != nil {
		return false, fmt.Errorf("render %s: %w", s.url, err)
	}
	return true, nil
}

func (s *Surface) OnResize(t host.Targets) {
	s.fbo = int(t.Framebuffer)
}

// Close releases the engine and the GPU resources it holds against
// the context.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.engine.Destroy()
	log.Printf("Closed %s\n", s.url)
	return nil
}

func (s *Surface) Playing() bool {
	return s.playing
}

func (s *Surface) TogglePause() error {
	return s.setPaused(s.playing)
}

func (s *Surface) setPaused(paused bool) error {
	v := "no"
	if paused {
		v = "yes"
	}
	if err := s.engine.SetProperty("pause", v); err != nil {
		return err
	}
	s.playing = !paused
	return nil
}

// Stop pauses and rewinds to the start.
func (s *Surface) Stop() error {
	if err := s.setPaused(true); err != nil {
		return err
	}
	return s.Seek(0)
}

func (s *Surface) Seek(pos time.Duration) error {
	if pos < 0 {
		pos = 0
	}
	if d := s.Duration(); d > 0 && pos > d {
		pos = d
	}
	return s.engine.Command("seek", strconv.FormatFloat(pos.Seconds(), 'f', 3, 64), "absolute")
}

func (s *Surface) Position() time.Duration {
	return s.seconds("time-pos")
}

func (s *Surface) Duration() time.Duration {
	return s.seconds("duration")
}

func (s *Surface) seconds(prop string) time.Duration {
	if s.closed {
		return 0
	}
	v, err := s.engine.GetProperty(prop)
	if err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
