package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-adventure/internal/core"
	"github.com/vovakirdan/tui-adventure/internal/platform/tui"
	"github.com/vovakirdan/tui-adventure/internal/registry"
)

const defaultMap = "meadow"

var playCmd = &cobra.Command{
	Use:   "play [map]",
	Short: "Play a map",
	Long: `Start playing the given map (default: meadow).

Controls:
  W/A/S/D, arrows  - Walk
  O/Space          - Swing
  R                - Respawn (after death)
  P                - Pause
  Esc/B            - Back (while dead or paused)
  Ctrl+S           - Screenshot to ~/.adventure/screenshots
  Q/Ctrl+C         - Quit

Difficulty options (default: no progression, at most 4 skeletons):
  easy   - Slow spawns, ramps up to the configured maximum
  normal - Starts at 30% difficulty
  hard   - Starts at 70% difficulty
  fixed  - No progression

Examples:
  adventure play
  adventure play crypt --difficulty hard
  adventure play --store memory --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	mapID := defaultMap
	if len(args) > 0 {
		mapID = args[0]
	}

	e, err := openEnv(true)
	if err != nil {
		fail("%v", err)
	}

	if !registry.Exists(mapID) {
		e.close() //nolint:errcheck
		fail("unknown map %q\nRun 'adventure maps' to see available maps.", mapID)
	}

	game, err := registry.Create(mapID)
	if err != nil {
		e.close() //nolint:errcheck
		fail("creating map: %v", err)
	}

	_, runErr := tui.Run(game, e.runs, terminalConfig(), localPlayer(), e.logger)
	closeErr := e.close()

	if runErr != nil {
		fail("running game: %v", runErr)
	}
	if closeErr != nil {
		fail("saving: %v", closeErr)
	}
}

// terminalConfig sizes the runtime to the current terminal.
func terminalConfig() core.RuntimeConfig {
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

// localPlayer names the local player in the run table.
func localPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player1"
}
