package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/catch-bash/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick mode, region and difficulty interactively",
	Long: `Start Catch Bash in interactive menu mode.

Pick a mode, then a region and a difficulty. After a chase you return
to the menu. Tab opens the best chases.

Controls:
  Up/Down/j/k  - Navigate
  Enter/Space  - Select
  Tab          - Scores
  Esc/B        - Back
  Q            - Quit

Examples:
  catchbash menu
  catchbash menu --fps 20
  catchbash menu --db ./chases.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger(nil)
	defer closeLog()

	store := openStore(logger)

	err := tui.RunSession(store, runtimeConfig(), gameOptions(), logger)

	if store != nil {
		store.Close()
	}

	if err != nil {
		logger.Error("session stopped", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
