package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-adventure/internal/registry"
)

var flagClearRuns bool

var scoresCmd = &cobra.Command{
	Use:   "scores <map>",
	Short: "Show the best runs on a map",
	Long: `Display the top 10 runs for the given map. A run is one life: the
skeletons killed between spawning and dying.

Examples:
  adventure scores meadow
  adventure scores crypt --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearRuns, "clear", false, "Delete every run recorded for the map")
}

func runScores(_ *cobra.Command, args []string) {
	mapID := args[0]

	e, err := openEnv(false)
	if err != nil {
		fail("%v", err)
	}
	defer e.close() //nolint:errcheck

	if !registry.Exists(mapID) {
		fail("unknown map %q\nRun 'adventure maps' to see available maps.", mapID)
	}
	game, err := registry.Create(mapID)
	if err != nil {
		fail("creating map: %v", err)
	}

	runs := e.runs
	if runs == nil {
		fail("run database %s is not available", flagDBPath)
	}

	if flagClearRuns {
		if err := runs.ClearRuns(mapID); err != nil {
			fail("%v", err)
		}
		fmt.Printf("Cleared runs for %s.\n", game.Title())
		return
	}

	top, err := runs.TopRuns(mapID, 10)
	if err != nil {
		fail("retrieving runs: %v", err)
	}

	fmt.Printf("Best Runs - %s\n", game.Title())
	fmt.Println()

	if len(top) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'adventure play %s' and kill a skeleton to get on the board!\n", mapID)
		return
	}

	fmt.Printf("  %-4s  %-6s  %-8s  %-16s  %s\n", "Rank", "Kills", "Time", "Player", "Date")
	fmt.Printf("  %-4s  %-6s  %-8s  %-16s  %s\n", "----", "-----", "----", "------", "----")
	for i, r := range top {
		fmt.Printf("  %-4d  %-6d  %-8s  %-16s  %s\n",
			i+1, r.Kills, runTime(r.Ticks), r.PlayerID, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := runs.GetMapStats(mapID); err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Best: %d  Average: %.1f  Total kills: %d\n",
			stats.RunsCount, stats.BestKills, stats.AvgKills, stats.TotalKills)
	}
}

// runTime converts ticks at the --fps rate to wall time.
func runTime(ticks int) string {
	fps := max(flagFPS, 1)
	d := time.Duration(ticks) * time.Second / time.Duration(fps)
	return d.Round(time.Second).String()
}
