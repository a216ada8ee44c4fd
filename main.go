package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onefight/config"
	"onefight/game"
	"onefight/server"
	"onefight/term"
)

const (
	exitUsage    = 2
	exitTerminal = 3
)

// onefight entry point: every positional argument becomes a fighter whose
// avatar is the argument's first character.
func main() {
	os.Exit(run())
}

func run() int {
	var (
		envFile string
		flags   config.Config
	)
	flag.StringVar(&envFile, "env", ".env", "optional dotenv file with ONEFIGHT_* settings")
	flag.StringVar(&flags.Mode, "mode", "", "duel, arena, roster or lobby (default: roster with arguments, duel without)")
	flag.IntVar(&flags.Width, "width", 0, "board columns")
	flag.IntVar(&flags.Height, "height", 0, "board rows")
	flag.DurationVar(&flags.Tick, "tick", 0, "pause between ticks")
	flag.Int64Var(&flags.Seed, "seed", 0, "spawn seed (0: time based)")
	flag.StringVar(&flags.LogFile, "log", "", "log file")
	flag.StringVar(&flags.HTTPAddr, "http", "", "spectator/admin listen address, e.g. :8080")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [avatar ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	overlay(&cfg, flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	mode, err := pickMode(cfg.Mode, flag.NArg())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		return exitUsage
	}

	if err := server.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	defer server.SyncLogger()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	bounds := game.NewBounds(cfg.Width, cfg.Height)

	var roster *game.Roster
	switch mode {
	case game.ModeDuel, game.ModeArena:
		roster, err = game.NewDuelRoster(bounds)
	case game.ModeRoster:
		roster, err = game.NewFixedRoster(flag.Args(), bounds, rng)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	screen, err := term.Open(bounds)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		server.Log.Errorf("terminal: %v", err)
		return exitTerminal
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if mode == game.ModeLobby {
		roster, err = game.Lobby(ctx, screen, screen, game.LobbyOptions{
			Bounds:   bounds,
			Capacity: cfg.MaxFighters,
			Rand:     rng,
			Logger:   server.Log,
		})
		if err != nil {
			_ = screen.Close()
			return finish(mode, nil, err)
		}
	}

	metrics := &game.Metrics{}
	hub := server.NewHub(cfg.SpectatorFPS)
	match := game.NewMatch(roster, game.Options{
		Mode:         mode,
		Bounds:       bounds,
		TickInterval: cfg.Tick,
		Logger:       server.Log,
		Metrics:      metrics,
		Spectator:    hub,
	})

	if cfg.HTTPAddr != "" {
		srv, err := server.Start(cfg.HTTPAddr, match, metrics, hub)
		if err != nil {
			server.Log.Errorf("spectator server disabled: %v", err)
		} else {
			defer func() {
				if err := srv.Close(); err != nil {
					server.Log.Warnf("spectator server close: %v", err)
				}
			}()
		}
	}

	winner, err := match.Run(ctx, screen, screen)
	_ = screen.Close()
	return finish(mode, winner, err)
}

// finish reports the outcome on stderr once the terminal is released.
func finish(mode game.Mode, winner *game.Fighter, err error) int {
	switch {
	case winner != nil:
		fmt.Fprintf(os.Stderr, "winner is player %d (%c)\n", winner.Number, winner.Avatar)
		return mode.ExitCode(winner)
	case errors.Is(err, game.ErrQuit), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "no winner")
		return 0
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		server.Log.Errorf("match: %v", err)
		return 1
	}
	return 0
}

// pickMode resolves the match mode: positional avatars imply roster mode and
// are only accepted there.
func pickMode(name string, nargs int) (game.Mode, error) {
	if name == "" {
		if nargs > 0 {
			return game.ModeRoster, nil
		}
		return game.ModeDuel, nil
	}
	mode, err := game.ParseMode(name)
	if err != nil {
		return "", err
	}
	switch {
	case mode == game.ModeRoster && nargs == 0:
		return "", errors.New("roster mode needs at least one avatar argument")
	case mode != game.ModeRoster && nargs > 0:
		return "", fmt.Errorf("%s mode takes no avatar arguments", mode)
	}
	return mode, nil
}

// overlay copies the flags that were given over the loaded configuration.
func overlay(cfg *config.Config, flags config.Config) {
	if flags.Mode != "" {
		cfg.Mode = flags.Mode
	}
	if flags.Width > 0 {
		cfg.Width = flags.Width
	}
	if flags.Height > 0 {
		cfg.Height = flags.Height
	}
	if flags.Tick > 0 {
		cfg.Tick = flags.Tick
	}
	if flags.Seed != 0 {
		cfg.Seed = flags.Seed
	}
	if flags.LogFile != "" {
		cfg.LogFile = flags.LogFile
	}
	if flags.HTTPAddr != "" {
		cfg.HTTPAddr = flags.HTTPAddr
	}
}
