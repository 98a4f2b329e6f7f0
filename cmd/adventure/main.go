// adventure is a top-down action game played in the terminal: walk a tile
// map, fight skeletons, and pick up where you left off next time.
//
// Usage:
//
//	adventure play [map]        - Play a map (default: meadow)
//	adventure menu              - Pick maps interactively
//	adventure serve             - Start SSH server for remote play
//	adventure maps              - List available maps
//	adventure scores <map>      - Show the best runs on a map
//	adventure saves ...         - Inspect actor snapshots
//	adventure sim --ticks N     - Run a map headless and print the result
//	adventure config            - Print the default config
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Set database path (default: ~/.adventure/adventure.db)
//	--store <kind>   - Where snapshots live: file, sqlite or memory
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Registers the built-in maps
	_ "github.com/vovakirdan/tui-adventure/internal/world"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagStore      string
	flagSavesDir   string
	flagConfig     string
	flagDifficulty string
	flagMapsDir    string
	flagLogFile    string
	flagDebug      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "adventure",
	Short: "TUI Adventure - fight skeletons in your terminal",
	Long: `TUI Adventure is a top-down action game for the terminal.

Walk the map, swing at skeletons before they reach you, and respawn when
you fall. Every actor is saved as it moves, so quitting and coming back
resumes exactly where you were.

Available commands:
  play     - Play a map directly
  menu     - Interactive map picker
  serve    - Start SSH server for remote play
  maps     - Show all available maps
  scores   - View the best runs on a map
  saves    - Inspect saved actor snapshots
  sim      - Run a map without a terminal
  config   - Print the default config

Examples:
  adventure play
  adventure play crypt --difficulty hard
  adventure menu --store sqlite
  adventure serve --ssh :2222
  adventure sim --ticks 600 --seed 7`,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (simulation steps per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.adventure/adventure.db", "Path to the run database")
	pf.StringVar(&flagStore, "store", "file", "Snapshot storage: file, sqlite or memory")
	pf.StringVar(&flagSavesDir, "saves", "~/.adventure/saves", "Directory for file snapshots")
	pf.StringVar(&flagConfig, "config", "", "Path to custom adventure config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagMapsDir, "maps", "", "Extra map directory (default: ~/.adventure/maps)")
	pf.StringVar(&flagLogFile, "log", "", "Write logs to this file")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(configCmd)
}

// fail prints the error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
