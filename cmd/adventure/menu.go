package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-adventure/internal/platform/tui"
	"github.com/vovakirdan/tui-adventure/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a map from a menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a map, Tab for the
scoreboard. Esc while dead or paused returns to the menu.

Examples:
  adventure menu
  adventure menu --fps 30
  adventure menu --store sqlite`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	e, err := openEnv(true)
	if err != nil {
		fail("%v", err)
	}
	defer func() {
		if err := e.close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: saving: %v\n", err)
		}
	}()

	cfg := terminalConfig()
	player := localPlayer()

	for {
		menuResult, err := tui.RunMenu(e.runs, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(e.runs, cfg)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating map: %v\n", err)
			continue
		}

		// Fresh seed per game unless one was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		result, err := tui.Run(game, e.runs, cfg, player, e.logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			return
		}
		cfg.ScreenW, cfg.ScreenH = result.Config.ScreenW, result.Config.ScreenH
		if !result.BackToMenu {
			return
		}
	}
}
