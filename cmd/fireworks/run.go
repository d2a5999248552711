package main

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/fireworks/config"
	"github.com/lixenwraith/fireworks/core"
	"github.com/lixenwraith/fireworks/countdown"
	"github.com/lixenwraith/fireworks/engine"
	"github.com/lixenwraith/fireworks/parameter"
	"github.com/lixenwraith/fireworks/status"
	"github.com/lixenwraith/fireworks/terminal"
	"github.com/lixenwraith/fireworks/window"
)

// runTerminal mounts the engine on the controlling terminal until quit or ctx is done
func runTerminal(ctx context.Context, cfg config.Config) error {
	// Terminal pixels are one cell wide and half a cell tall
	ecfg, err := cfg.Scaled(parameter.CellScale, parameter.MinCellRadius).Engine()
	if err != nil {
		return err
	}

	screen, closeScreen, err := terminal.OpenScreen()
	if err != nil {
		return err
	}
	defer closeScreen()

	reg := status.NewRegistry()
	host := terminal.New(screen, terminal.Options{
		FrameInterval: cfg.FrameInterval(),
		HUD:           cfg.HUD,
		Status:        reg,
	})
	clock := engine.NewMonotonicTimeProvider()
	eng, err := engine.New(ecfg, host.EngineHost(cfg.Rand(), engine.NewRealTicker, clock))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(core.Guard(func() error {
		return host.Pump(gctx)
	}))
	g.Go(core.Guard(func() error {
		return host.RunFrames(gctx, engine.NewRealTicker)
	}))
	g.Go(core.Guard(func() error {
		// Present overwrites every cell, the countdown needs no explicit clear
		return launch(gctx, cfg, eng, clock, host.ShowCountdown, nil)
	}))

	err = g.Wait()
	log.Printf("final status:\n%s", reg.Dump())
	if errors.Is(err, terminal.ErrQuit) {
		return nil
	}
	return err
}

// runWindow mounts the engine in a desktop window, ebiten owns the calling goroutine
func runWindow(ctx context.Context, cfg config.Config) error {
	ecfg, err := cfg.Engine()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reg := status.NewRegistry()
	game := window.New(ctx, window.Options{
		FPS:    cfg.FPS,
		HUD:    cfg.HUD,
		Status: reg,
	})
	clock := engine.NewMonotonicTimeProvider()
	eng, err := engine.New(ecfg, game.EngineHost(cfg.Rand(), clock))
	if err != nil {
		return err
	}
	game.Bind(eng)

	var g errgroup.Group
	g.Go(core.Guard(func() error {
		// A failed mount closes the window
		defer cancel()
		return launch(ctx, cfg, eng, clock, func(r countdown.Remaining) {
			game.SetCaption("launch in " + r.String())
		}, func() {
			// Frees the corner for the HUD line
			game.SetCaption("")
		})
	}))

	werr := game.Run()
	cancel()
	gerr := g.Wait()
	log.Printf("final status:\n%s", reg.Dump())
	if werr != nil {
		return werr
	}
	return gerr
}

// launch waits out the countdown then runs the engine until ctx is done
// done, if set, runs once the countdown is over and before the engine mounts
func launch(ctx context.Context, cfg config.Config, eng *engine.Engine, clock engine.TimeProvider, show func(countdown.Remaining), done func()) error {
	if err := countdown.Wait(ctx, clock, engine.NewRealTicker, cfg.At, parameter.CountdownRefresh, show); err != nil {
		// Cancelled before launch
		return nil
	}
	if done != nil {
		done()
	}

	log.Printf("launching preset=%s mode=%s interval=%s count=%d", cfg.Preset, cfg.Mode, cfg.BurstInterval, cfg.ParticlesPerBurst)
	err := eng.Run(ctx)
	if errors.Is(err, engine.ErrUnavailableSurface) {
		// Nothing is drawn, the host stays up until quit
		log.Printf("mount skipped: %v", err)
		<-ctx.Done()
		return nil
	}
	return err
}
