package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-adventure/internal/config"
	"github.com/vovakirdan/tui-adventure/internal/core"
	"github.com/vovakirdan/tui-adventure/internal/registry"
	"github.com/vovakirdan/tui-adventure/internal/storage"
)

// ticker is implemented by games that count simulated ticks.
type ticker interface {
	Ticks() int
}

// GameModel is the Bubble Tea model that runs one game. Esc or B while dead
// or paused goes back to the menu.
type GameModel struct {
	game      registry.Game
	screen    *core.Screen
	runs      *storage.Store
	config    core.RuntimeConfig
	input     *HeldInput
	keyMapper *KeyMapper
	gameState core.GameState
	playerID  string
	logger    *log.Logger

	standalone bool // Own program: going back to the menu ends it
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current death has been recorded
	lifeStart  int  // Tick the current life started at
	err        error
}

// NewGameModel creates a model for game. runs may be nil, in which case no
// runs are recorded. playerID names the player in the run table.
func NewGameModel(game registry.Game, runs *storage.Store, cfg core.RuntimeConfig, playerID string, logger *log.Logger) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	return GameModel{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		runs:      runs,
		config:    cfg,
		input:     NewHeldInput(),
		keyMapper: NewKeyMapper(),
		playerID:  playerID,
		logger:    logger,
	}
}

// Init initializes the model and starts the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The world does not depend on the screen size, so no reset.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if action == core.ActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	}

	m.input.Press(action)
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	wasOver := m.gameState.GameOver
	result := m.game.Step(m.input.Frame())
	m.gameState = result.State

	if result.Err != nil {
		m.err = result.Err
		m.logger.Error("game stopped", "game", m.game.ID(), "err", result.Err)
		m.quitting = true
		return m, tea.Quit
	}

	// Record the life once when the player dies
	if m.gameState.GameOver && !m.runSaved {
		m.saveRun()
		m.runSaved = true
	}
	if wasOver && !m.gameState.GameOver {
		m.runSaved = false
		m.lifeStart = m.ticks()
		m.input.Release()
	}

	return m, tickCmd(m.config.TickRate)
}

func (m GameModel) ticks() int {
	if t, ok := m.game.(ticker); ok {
		return t.Ticks()
	}
	return 0
}

// saveRun records the life that just ended. Lives without kills are not recorded.
func (m *GameModel) saveRun() {
	if m.runs == nil || m.gameState.Score <= 0 {
		return
	}
	run := storage.Run{
		MapID:    m.game.ID(),
		PlayerID: m.playerID,
		Kills:    m.gameState.Score,
		Ticks:    m.ticks() - m.lifeStart,
	}
	if _, err := m.runs.SaveRun(run); err != nil {
		m.logger.Warn("could not save run", "game", m.game.ID(), "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	dir := config.UserDir()
	if dir == "" {
		return
	}
	dir = filepath.Join(dir, "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Err returns the error that stopped the game, if any.
func (m GameModel) Err() error {
	return m.err
}

// State returns the game state after the last tick.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// PlayResult tells the caller how a game session ended.
type PlayResult struct {
	BackToMenu bool
	Config     core.RuntimeConfig
}

// Run plays game until the user quits or goes back to the menu. The game
// is closed before Run returns.
func Run(game registry.Game, runs *storage.Store, cfg core.RuntimeConfig, playerID string, logger *log.Logger) (PlayResult, error) {
	model := NewGameModel(game, runs, cfg, playerID, logger)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	closeErr := game.Close()
	if err != nil {
		return PlayResult{Config: cfg}, err
	}

	m, ok := finalModel.(GameModel)
	if !ok {
		return PlayResult{Config: cfg}, closeErr
	}
	if m.Err() != nil {
		return PlayResult{Config: m.config}, m.Err()
	}
	return PlayResult{BackToMenu: m.BackToMenu(), Config: m.config}, closeErr
}
