// catchbash is a terminal geography chase: Bash hops across the borders of
// the world and you catch it by typing country names.
//
// Usage:
//
//	catchbash list                 - List game modes
//	catchbash play [mode]          - Play a chase directly
//	catchbash menu                 - Pick mode, region and difficulty interactively
//	catchbash serve                - Start SSH server for remote play
//	catchbash scores [mode]        - Show the best chases
//	catchbash countries [region]   - Show the country dataset
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 30)
//	--seed <value>       - Set RNG seed for reproducible chases
//	--db <path>          - Set database path (default: ~/.catchbash/chases.db)
//	--config <path>      - Custom game config YAML
//	--countries <path>   - Custom country dataset YAML
//	--log-file <path>    - Where to write logs (default: ~/.catchbash/catchbash.log)
//	--debug              - Log every game event
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/catch-bash/internal/core"
	// Import games to register them
	_ "github.com/vovakirdan/catch-bash/internal/games/catchbash"
	"github.com/vovakirdan/catch-bash/internal/registry"
	"github.com/vovakirdan/catch-bash/internal/storage"
)

var (
	// Global flags
	flagFPS       int
	flagSeed      int64
	flagDBPath    string
	flagConfig    string
	flagCountries string
	flagLogFile   string
	flagDebug     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "catchbash",
	Short: "Catch Bash - chase a runaway across the world map",
	Long: `Catch Bash is a geography chase for the terminal. Bash hops from
country to neighbouring country; type country names to move your marker
and close in. Land on Bash, or type the country it is hiding in, to win.

Available commands:
  list       - Show the game modes
  play       - Start a chase directly
  menu       - Interactive mode, region and difficulty picker
  serve      - Start SSH server for remote play
  scores     - View the best chases
  countries  - Browse the country dataset

Examples:
  catchbash play
  catchbash play catchbash_glide --region Europe
  catchbash menu
  catchbash serve --ssh :2222
  catchbash scores`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.catchbash/chases.db", "Path to chases database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagCountries, "countries", "", "Path to custom country dataset YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.catchbash/catchbash.log", "Log file (the terminal belongs to the game)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log every game event")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(countriesCmd)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// newLogger returns a logger writing to w, or to the log file when w is nil.
// The returned func closes the file.
func newLogger(w io.Writer) (*log.Logger, func()) {
	closeFn := func() {}
	if w == nil {
		path := expandHome(flagLogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
			w = io.Discard
		} else if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
			w = io.Discard
		} else {
			w = f
			closeFn = func() { _ = f.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "catchbash",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closeFn
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// gameOptions are the options every command passes to the game factories.
func gameOptions() registry.Options {
	return registry.Options{
		ConfigPath:  flagConfig,
		DatasetPath: flagCountries,
	}
}

// openStore opens the chases database. Failure is not fatal: chases are
// simply not recorded.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open chases database: %v\n", err)
		logger.Warn("chases will not be saved", "db", flagDBPath, "error", err)
		return nil
	}
	return store
}
