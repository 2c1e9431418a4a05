package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/catch-bash/internal/games/catchbash"
	"github.com/vovakirdan/catch-bash/internal/platform/tui"
	"github.com/vovakirdan/catch-bash/internal/registry"
)

var (
	flagRegion     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Start a chase",
	Long: `Start a chase in the given mode (default: catchbash).

Controls:
  Enter      - Start / move to the typed country
  Esc        - Clear the guess; back out from the title or caught screen
  Ctrl+P     - Pause
  Ctrl+S     - Screenshot
  Ctrl+C     - Quit

Difficulty options:
  easy   - Bash rests longer between hops
  normal - Bash speeds up as it runs
  hard   - Bash starts fast and gets faster
  fixed  - Bash keeps the configured pace

Examples:
  catchbash play
  catchbash play catchbash_glide
  catchbash play --region Europe --difficulty hard
  catchbash play --config ./my-chase.yaml --countries ./islands.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagRegion, "region", "", "Only use countries of this region (e.g. Europe)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := catchbash.IDClassic
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'catchbash list' to see available modes.")
		os.Exit(1)
	}

	logger, closeLog := newLogger(nil)
	defer closeLog()

	opts := gameOptions()
	opts.Region = flagRegion
	opts.Difficulty = flagDifficulty

	game, err := registry.Create(gameID, opts)
	if err != nil {
		logger.Error("could not create game", "game", gameID, "error", err)
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore(logger)

	runErr := tui.Run(game, store, runtimeConfig(), logger)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		logger.Error("game stopped", "error", runErr)
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
