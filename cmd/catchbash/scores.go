package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/catch-bash/internal/games/catchbash"
	"github.com/vovakirdan/catch-bash/internal/registry"
	"github.com/vovakirdan/catch-bash/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresRegion string
	flagScoresRecent bool
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show the best chases",
	Long: `Display the best chases for a mode (default: catchbash).

Examples:
  catchbash scores
  catchbash scores catchbash_glide --limit 20
  catchbash scores --region Europe
  catchbash scores --recent
  catchbash scores catchbash --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of chases to show")
	scoresCmd.Flags().StringVar(&flagScoresRegion, "region", "", "Only chases played in this region")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show the latest chases of every mode instead")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all chases of the mode")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := catchbash.IDClassic
	if len(args) > 0 {
		gameID = args[0]
	}

	info, ok := registry.Info(gameID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'catchbash list' to see available modes.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening chases database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagScoresClear:
		n, err := store.ClearChases(gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing chases: %v\n", err)
			return
		}
		fmt.Printf("Deleted %d chases of %s.\n", n, info.Title)
		return

	case flagScoresRecent:
		chases, err := store.RecentChases(flagScoresLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving chases: %v\n", err)
			return
		}
		fmt.Println("Recent chases")
		fmt.Println()
		printChases(chases, true)
		return
	}

	chases, err := store.TopChases(gameID, flagScoresRegion, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving chases: %v\n", err)
		return
	}

	title := fmt.Sprintf("Best chases - %s", info.Title)
	if flagScoresRegion != "" {
		title += " (" + flagScoresRegion + ")"
	}
	fmt.Println(title)
	fmt.Println()

	if len(chases) == 0 {
		fmt.Println("Bash has never been caught here.")
		fmt.Println()
		fmt.Printf("Play 'catchbash play %s' to record the first catch!\n", gameID)
		return
	}

	printChases(chases, false)

	if stats, err := store.GetModeStats(gameID); err == nil && stats.Chases > 0 {
		fmt.Println()
		fmt.Printf("Chases: %d   Best: %d   Average: %.0f   Fewest guesses: %d\n",
			stats.Chases, stats.BestScore, stats.AvgScore, stats.FewestGuesses)
	}
}

func printChases(chases []storage.ChaseRecord, withMode bool) {
	if len(chases) == 0 {
		fmt.Println("No chases recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-6s  %-24s  %-7s  %-4s  %-10s  %s\n", "Rank", "Score", "Caught in", "Guesses", "Hops", "Region", "Date")
	fmt.Printf("  %-4s  %-6s  %-24s  %-7s  %-4s  %-10s  %s\n", "----", "-----", "---------", "-------", "----", "------", "----")

	for i, c := range chases {
		region := c.Region
		if region == "" {
			region = "World"
		}
		line := fmt.Sprintf("  %-4d  %-6d  %-24s  %-7d  %-4d  %-10s  %s",
			i+1, c.Score, c.CaughtIn, c.Guesses, c.RunnerHops, region, c.CreatedAt.Local().Format("2006-01-02 15:04"))
		if withMode {
			line += "  " + c.Mode
		}
		fmt.Println(line)
	}
}
