package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/career-runner/internal/platform/tui"
	"github.com/vovakirdan/career-runner/internal/registry"
	"github.com/vovakirdan/career-runner/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresTUI   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show the best runs",
	Long: `Display the best runs for a variant. Without a variant a summary of
every variant is printed.

Examples:
  runner scores
  runner scores platformer
  runner scores freeroam --limit 20
  runner scores --tui`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse runs interactively")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening run history: %v", err)
	}
	defer store.Close()

	switch {
	case flagScoresTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunRunsView(store, width, height); err != nil {
			fail("running run history: %v", err)
		}
	case len(args) == 0:
		printSummary(store)
	default:
		printRuns(store, args[0])
	}
}

func printRuns(store *storage.Store, variant string) {
	if !registry.Exists(variant) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", variant)
		fmt.Fprintln(os.Stderr, "Run 'runner list' to see available variants.")
		os.Exit(1)
	}

	runs, err := store.TopRuns(variant, flagScoresLimit)
	if err != nil {
		fail("retrieving runs: %v", err)
	}

	fmt.Printf("Best Runs - %s\n", variant)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'runner play %s' to set the first score!\n", variant)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-8s  %s\n", "Rank", "Score", "Level", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-8s  %s\n", "----", "-----", "-----", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-5d  %-8s  %s\n",
			i+1, r.Score, r.Level, r.Duration.Round(time.Second), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(variant); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}

func printSummary(store *storage.Store) {
	stats, err := store.Stats()
	if err != nil {
		fail("retrieving stats: %v", err)
	}

	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	variants := make([]string, 0, len(stats))
	for v := range stats {
		variants = append(variants, v)
	}
	sort.Strings(variants)

	fmt.Printf("  %-12s  %-5s  %-8s  %-5s  %-8s  %s\n", "Variant", "Runs", "Best", "Level", "Average", "Last played")
	fmt.Printf("  %-12s  %-5s  %-8s  %-5s  %-8s  %s\n", "-------", "----", "----", "-----", "-------", "-----------")
	for _, v := range variants {
		s := stats[v]
		fmt.Printf("  %-12s  %-5d  %-8d  %-5d  %-8.0f  %s\n",
			v, s.Runs, s.HighScore, s.BestLevel, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}
}
