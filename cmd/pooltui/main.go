package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/cuesim/internal/layout"
	"github.com/playmatatu/cuesim/internal/sim"
	"github.com/playmatatu/cuesim/internal/tui"
)

func main() {
	layoutPath := flag.String("layout", "", "layout file (text, yaml, json or toml); default is the built-in table")
	logPath := flag.String("log", "", "write logs to this file")
	tick := flag.Duration("tick", 16*time.Millisecond, "simulation tick interval")
	maxSubstep := flag.Duration("max-substep", 0, "split ticks longer than this into sub-steps")
	mute := flag.Bool("mute", false, "disable sounds")
	flag.Parse()

	// The screen owns the terminal, so logs go to a file or nowhere.
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	if err := run(*layoutPath, *tick, *maxSubstep, *mute); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(layoutPath string, tick, maxSubstep time.Duration, mute bool) error {
	l := layout.Default()
	if layoutPath != "" {
		var err error
		if l, err = layout.Load(layoutPath); err != nil {
			return err
		}
	}
	world, err := l.Build(maxSubstep)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := sim.NewSession("local", world, tick)
	if !mute {
		sound, err := tui.NewSound()
		if err != nil {
			log.Printf("[TUI] Audio unavailable: %v", err)
		} else {
			defer sound.Close()
			session.AddEventSink(sound)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[SIM] Session stopped: %v", err)
		}
	}()

	err = tui.NewApp(screen, session).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
