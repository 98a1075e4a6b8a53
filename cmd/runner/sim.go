package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/career-runner/internal/config"
	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/games/runner"
	"github.com/vovakirdan/career-runner/internal/registry"
	"github.com/vovakirdan/career-runner/internal/state"
	"github.com/vovakirdan/career-runner/internal/storage"
)

var (
	flagSimDuration time.Duration
	flagSimSave     bool
)

var simCmd = &cobra.Command{
	Use:   "sim [variant]",
	Short: "Run a headless simulation with an autopilot",
	Long: `Play a run without a terminal UI. An autopilot jumps obstacles and
chases power-ups until the run ends or the simulated duration runs out.
Completed levels are continued automatically.

The same --seed always produces the same run.

Examples:
  runner sim
  runner sim freeroam --duration 5m
  runner sim --seed 42 --save
  runner sim --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().DurationVar(&flagSimDuration, "duration", time.Minute, "Simulated time to play")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Store the run in the history database")
}

func runSim(cmd *cobra.Command, args []string) {
	variant := config.ModePlatformer
	if len(args) > 0 {
		variant = args[0]
	}
	if !registry.Exists(variant) {
		fail("unknown variant %q", variant)
	}
	if flagFPS <= 0 {
		fail("--fps must be positive")
	}

	cfg := loadConfig()
	logger := newLogger(os.Stderr, "sim")

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sink := state.NewStore(state.DefaultState())
	sink.Subscribe(func(st core.GameState) {
		logger.Debug("state pushed", "score", st.Score, "level", st.Level, "health", st.Health, "game_over", st.GameOver)
	})

	game := runner.New(variant, registry.Deps{Logger: logger, Sink: sink, Config: cfg})
	game.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagFPS, Seed: seed})

	pilot := newAutopilot(variant == config.ModeFreeRoam)
	tracker := core.NewInputTracker()
	frames := int(flagSimDuration * time.Duration(flagFPS) / time.Second)

	var st core.GameState
	levels := 0
	for range frames {
		player, grounded := game.Player()
		held := pilot.next(player, grounded, game.Entities())
		if st.Phase == runner.RunLevelComplete.String() {
			held = append(held, core.ActionConfirm)
			levels++
		}

		st = game.Step(tracker.Next(held...)).State
		if st.GameOver {
			break
		}
	}

	stats := game.Stats()
	fmt.Printf("Simulation - %s (seed %d)\n", game.Title(), seed)
	fmt.Println()
	fmt.Printf("  %-18s %s\n", "Played:", game.Elapsed().Round(time.Millisecond))
	fmt.Printf("  %-18s %s\n", "Phase:", st.Phase)
	fmt.Printf("  %-18s %d\n", "Score:", st.Score)
	fmt.Printf("  %-18s %d\n", "Level:", st.Level)
	fmt.Printf("  %-18s %d\n", "Health:", st.Health)
	fmt.Printf("  %-18s %d\n", "Levels completed:", levels)
	fmt.Printf("  %-18s %d\n", "Jumps:", stats.Jumps)
	fmt.Printf("  %-18s %d / %d\n", "Power-ups:", stats.Collected, stats.PowerUpsSpawned)
	fmt.Printf("  %-18s %d / %d\n", "Hits:", stats.Hits, stats.ObstaclesSpawned)
	fmt.Printf("  %-18s %d\n", "State pushes:", sink.Pushes())

	if !flagSimSave {
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening run history: %v", err)
	}
	defer store.Close()

	reason := storage.ReasonQuit
	if st.GameOver {
		reason = storage.ReasonGameOver
	}
	rec, err := store.SaveRun(storage.RunRecord{
		Variant:  variant,
		Score:    st.Score,
		Level:    st.Level,
		Reason:   reason,
		Duration: game.Elapsed(),
	})
	if err != nil {
		fail("saving run: %v", err)
	}
	fmt.Println()
	fmt.Printf("Saved run %s\n", rec.RunID)
}
