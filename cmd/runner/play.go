package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/career-runner/internal/config"
	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/platform/tui"
	"github.com/vovakirdan/career-runner/internal/registry"
	"github.com/vovakirdan/career-runner/internal/state"
	"github.com/vovakirdan/career-runner/internal/storage"
)

var flagWatch bool

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a variant",
	Long: `Start a run of the given variant (platformer if omitted).

Controls:
  Left/Right, A/D  - Run
  Space, Up/W      - Jump (hold for a higher jump)
  Up/Down, W/S     - Move vertically (freeroam)
  P/Esc            - Pause
  Enter            - Next level
  R                - Retry after game over
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

With --watch the file given by --config is reloaded whenever it changes.
Invalid edits are logged and the running config stays in force.

Examples:
  runner play
  runner play freeroam
  runner play --config ./runner.toml --watch
  runner play --seed 42 --fps 30`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the --config file when it changes")
}

func runPlay(cmd *cobra.Command, args []string) {
	variant := config.ModePlatformer
	if len(args) > 0 {
		variant = args[0]
	}

	if !registry.Exists(variant) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", variant)
		fmt.Fprintln(os.Stderr, "Run 'runner list' to see available variants.")
		os.Exit(1)
	}
	if flagWatch && flagConfig == "" {
		fail("--watch needs a --config file")
	}

	cfg := loadConfig()

	// The terminal belongs to the game, so logs go to a file.
	logFile, err := openLogFile()
	if err != nil {
		fail("cannot open log file: %v", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, "runner")

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	game, err := registry.Create(variant, registry.Deps{
		Logger: logger,
		Sink:   state.NewStore(state.DefaultState()),
		Config: cfg,
	})
	if err != nil {
		fail("creating game: %v", err)
	}

	var updates <-chan config.RunnerConfig
	if flagWatch {
		watcher, watchErr := config.Watch(flagConfig)
		if watchErr != nil {
			fail("cannot watch config: %v", watchErr)
		}
		defer watcher.Close()

		go func() {
			for err := range watcher.Errors {
				logger.Warn("config reload failed", "path", watcher.Path(), "err", err)
			}
		}()
		updates = watcher.Updates
		logger.Info("watching config", "path", watcher.Path())
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}

	runErr := tui.Run(game, tui.Options{
		Store:  store,
		Logger: logger,
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Updates: updates,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
