// Package config holds the construction-time settings of a player
// window.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/dejadejade/vplayer/player"
)

var ErrInvalid = errors.New("invalid config")

// Duration reads TOML strings such as "10s".
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

type Config struct {
	Title       string       `toml:"title"`
	Width       int          `toml:"width"`
	Height      int          `toml:"height"`
	Samples     int          `toml:"samples"`
	LoadTimeout Duration     `toml:"load_timeout"`
	Engine      EngineConfig `toml:"engine"`
}

type EngineConfig struct {
	Hwdec    string            `toml:"hwdec"`
	Terminal bool              `toml:"terminal"`
	MsgLevel string            `toml:"msg_level"`
	Options  map[string]string `toml:"options"`
	// Args are extra options in command line form, e.g.
	// "--loop=inf --no-audio".
	Args string `toml:"args"`
}

func Default() Config {
	return Config{
		Title:       "Player",
		Width:       1000,
		Height:      600,
		Samples:     4,
		LoadTimeout: Duration(10 * time.Second),
		Engine: EngineConfig{
			Hwdec:    "auto",
			Terminal: true,
			MsgLevel: "all=v",
		},
	}
}

// Load reads path over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	p, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Width, c.Height)
	case c.Samples < 0 || c.Samples > 16 || c.Samples&(c.Samples-1) != 0:
		return fmt.Errorf("%w: samples %d", ErrInvalid, c.Samples)
	case c.LoadTimeout <= 0:
		return fmt.Errorf("%w: load timeout %v", ErrInvalid, time.Duration(c.LoadTimeout))
	}
	if _, err := c.Engine.args(); err != nil {
		return err
	}
	return nil
}

// args turns the Args string into options. "--x=y" sets x to y,
// "--no-x" sets x to no and a bare "--x" sets it to yes.
func (e EngineConfig) args() ([]player.Option, error) {
	words, err := shellwords.Parse(e.Args)
	if err != nil {
		return nil, fmt.Errorf("%w: engine args: %v", ErrInvalid, err)
	}

	var opts []player.Option
	for _, w := range words {
		if !strings.HasPrefix(w, "--") || len(w) == 2 {
			return nil, fmt.Errorf("%w: engine arg %q", ErrInvalid, w)
		}
		w = w[2:]
		if name, value, ok := strings.Cut(w, "="); ok {
			opts = append(opts, player.Option{Name: name, Value: value})
		} else if name, ok := strings.CutPrefix(w, "no-"); ok {
			opts = append(opts, player.Option{Name: name, Value: "no"})
		} else {
			opts = append(opts, player.Option{Name: w, Value: "yes"})
		}
	}
	return opts, nil
}

// Settings returns the engine settings: terminal and msg-level first,
// then Options by name, then Args in order.
func (c Config) Settings() (player.Settings, error) {
	s := player.Settings{
		Hwdec:       c.Engine.Hwdec,
		LoadTimeout: time.Duration(c.LoadTimeout),
	}

	terminal := "no"
	if c.Engine.Terminal {
		terminal = "yes"
	}
	s.Options = append(s.Options, player.Option{Name: "terminal", Value: terminal})
	if c.Engine.MsgLevel != "" {
		s.Options = append(s.Options, player.Option{Name: "msg-level", Value: c.Engine.MsgLevel})
	}

	names := make([]string, 0, len(c.Engine.Options))
	for k := range c.Engine.Options {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		s.Options = append(s.Options, player.Option{Name: k, Value: c.Engine.Options[k]})
	}

	extra, err := c.Engine.args()
	if err != nil {
		return s, err
	}
	s.Options = append(s.Options, extra...)
	return s, nil
}
