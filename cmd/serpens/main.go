// Serpens is a turn-based text adventure played in the terminal.
// Usage: serpens [--config <file>] [--plain] [--script <file>] [--version]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nathoo/serpens/cli"
	"github.com/nathoo/serpens/config"
	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/engine/save"
	"github.com/nathoo/serpens/loader"
	"github.com/nathoo/serpens/observability"
	"github.com/nathoo/serpens/tui"
	"github.com/nathoo/serpens/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	plain := flag.Bool("plain", false, "use the plain line console instead of the full-screen UI")
	script := flag.String("script", "", "play commands from a file and echo them")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("serpens %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if err := run(*configPath, *plain, *script); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "serpens: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, plain bool, script string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	dict, err := content.Default()
	if err != nil {
		return fmt.Errorf("loading dictionary: %w", err)
	}

	var game *loader.Game
	if cfg.Game.ContentDir != "" {
		game, err = loader.Load(cfg.Game.ContentDir, dict)
	} else {
		game, err = loader.Default(dict)
	}
	if err != nil {
		return fmt.Errorf("loading game: %w", err)
	}
	for _, w := range game.Warnings {
		logger.Warn("content warning", zap.String("warning", w))
	}
	logger.Info("game loaded",
		zap.String("title", game.Title),
		zap.String("version", game.Version),
		zap.String("mode", cfg.UI.Mode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// The first signal ends the game at the next prompt; a second one
	// kills the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	menu := &cli.Menu{
		Game:   game,
		Dict:   dict,
		Slots:  save.Slots{Dir: cfg.Game.SaveDir},
		Logger: logger,
		Clock:  cli.RealClock{},
		Cheats: cfg.Game.Cheats,
		Silent: cfg.Game.Silent,
		Seed:   cfg.Game.Seed,
	}

	if script != "" {
		f, err := os.Open(script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.NewConsole(f, os.Stdout)
		c.Echo = true
		return menu.Run(ctx, c)
	}

	if plain || cfg.UI.Mode == "plain" || !isTerminal() {
		c := cli.NewConsole(os.Stdin, os.Stdout)
		c.Color = cfg.UI.Color
		c.Delay = cfg.Game.TypewriterDelay
		return menu.Run(ctx, c)
	}

	return tui.Run(ctx, func(ctx context.Context, c types.Console) error {
		return menu.Run(ctx, c)
	})
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
