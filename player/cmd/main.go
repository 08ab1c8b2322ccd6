package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dejadejade/vplayer/app"
	"github.com/dejadejade/vplayer/config"
	"github.com/dejadejade/vplayer/host"
	"github.com/dejadejade/vplayer/remote"
)

func init() {
	// GLFW and the GL context live on the main thread.
	runtime.LockOSThread()
}

var (
	configPath string
	engineArgs string
)

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if engineArgs != "" {
		cfg.Engine.Args = strings.TrimSpace(cfg.Engine.Args + " " + engineArgs)
	}
	return cfg, cfg.Validate()
}

func main() {
	root := &cobra.Command{
		Use:          "vplayer <url>",
		Short:        "Play a file or stream in a window",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return play(cmd.Context(), cfg, args[0])
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&engineArgs, "engine-args", "", `extra engine options, e.g. "--loop=inf --volume=50"`)

	root.AddCommand(&cobra.Command{
		Use:          "serve",
		Short:        "Open windows for JSON requests read from stdin",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func play(ctx context.Context, cfg config.Config, url string) error {
	p, err := app.Open(cfg, url)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			log.Printf("Interrupted\n")
			p.Close()
		case <-done:
		}
	}()
	return p.Run()
}

func serve(ctx context.Context, cfg config.Config) error {
	mt := host.NewMainThread()

	var mu sync.Mutex
	var current *app.Player
	setCurrent := func(p *app.Player) {
		mu.Lock()
		current = p
		mu.Unlock()
	}

	// A window is built and then run in one main thread call, so
	// nothing else can be scheduled in between.
	open := func(ctx context.Context, url string, closed func()) error {
		built := make(chan error, 1)
		run := func() {
			p, err := app.Open(cfg, url)
			built <- err
			if err != nil {
				return
			}
			setCurrent(p)
			if ctx.Err() != nil {
				p.Close()
			}
			if err := p.Run(); err != nil {
				log.Printf("Failed to release %s: %v\n", url, err)
			}
			setCurrent(nil)
			closed()
		}
		go func() {
			if err := mt.Call(run); err != nil {
				built <- err
			}
		}()
		return <-built
	}
	svc := remote.NewService(open)

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(loopCtx)
	g.Go(func() error {
		defer cancel()
		err := svc.Serve(gctx, os.Stdin, os.Stdout)
		// let an open window play out
		mt.Call(func() {})
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		mu.Lock()
		if current != nil {
			current.Close()
		}
		mu.Unlock()
		return nil
	})

	mt.Loop(gctx)
	if ctx.Err() != nil {
		// interrupted; the stdin reader cannot be unblocked
		return nil
	}
	return g.Wait()
}
