package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"csgview/app"
	"csgview/hal"
	"csgview/internal/telemetry"
	"csgview/viewer/tasks/canvas"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet("csgview", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: csgview [flags] [play <session-file>]\n")
		fs.PrintDefaults()
	}
	cfg, err := app.ParseConfig(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	shutdown, err := telemetry.Setup(context.Background(), cfg.Telemetry())
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: %v; tracing disabled\n", err)
	}
	defer shutdown(context.Background())

	newApp := func(h hal.HAL) func() error { return app.New(h, cfg) }

	if !cfg.Headless {
		err := hal.RunWindow(newApp, hal.WindowConfig{
			Width:  cfg.Width,
			Height: cfg.Height,
			Scale:  cfg.Scale,
			TPS:    cfg.Hz,
		})
		if err == nil {
			return 0
		}
		if !errors.Is(err, hal.ErrNoContext) {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "%s (%v); continuing headless\n", canvas.NoContextMessage, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
		Width:  cfg.Width,
		Height: cfg.Height,
		Hz:     cfg.Hz,
		Ticks:  cfg.Ticks,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
