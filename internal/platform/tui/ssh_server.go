package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-adventure/internal/config"
	"github.com/vovakirdan/tui-adventure/internal/core"
	"github.com/vovakirdan/tui-adventure/internal/registry"
	"github.com/vovakirdan/tui-adventure/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.adventure/host_key.
	HostKeyPath string

	// DBPath is the path to the run database. Empty disables run records.
	DBPath string

	// Runs, if set, is used instead of opening DBPath. The caller keeps
	// ownership and closes it.
	Runs *storage.Store

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of every session.
	TickRate int

	// Logger receives session events. Nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer serves the game over SSH with Wish. Every session plays its
// own world; actor ids are namespaced by the SSH user so a returning
// player resumes their snapshots.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	runs     *storage.Store
	ownsRuns bool
	logger   *log.Logger

	mu     sync.Mutex
	active map[string]*activeGame // keyed by SSH session id
	once   sync.Once
}

// activeGame is the game a session is playing, shared between the
// session model copies and the server so a dropped connection still
// closes it.
type activeGame struct {
	mu   sync.Mutex
	game registry.Game
}

func (a *activeGame) set(g registry.Game) {
	a.mu.Lock()
	a.game = g
	a.mu.Unlock()
}

// close closes the current game, if any.
func (a *activeGame) close() error {
	a.mu.Lock()
	g := a.game
	a.game = nil
	a.mu.Unlock()
	if g == nil {
		return nil
	}
	return g.Close()
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "adventure-ssh",
		})
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
		active: make(map[string]*activeGame),
	}

	switch {
	case cfg.Runs != nil:
		srv.runs = cfg.Runs
	case cfg.DBPath != "":
		runs, err := storage.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("could not open run database", "error", err)
			// Continue without run records
		} else {
			srv.runs = runs
			srv.ownsRuns = true
		}
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		dir := config.UserDir()
		if dir == "" {
			return nil, errors.New("tui: cannot resolve home directory for host key")
		}
		hostKeyPath = filepath.Join(dir, "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	)
	if err != nil {
		if srv.ownsRuns {
			srv.runs.Close() //nolint:errcheck
		}
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:   pty.Window.Width,
		ScreenH:   pty.Window.Height,
		TickRate:  s.config.TickRate,
		Seed:      time.Now().UnixNano(),
		Namespace: Namespace(sess.User()),
	}

	active := &activeGame{}
	s.mu.Lock()
	s.active[sess.Context().SessionID()] = active
	s.mu.Unlock()

	model := NewSessionModel(s.runs, cfg, sess.User(), s.logger)
	model.active = active
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// sessionMiddleware logs session events and closes whatever game the
// session left open.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		id := sess.Context().SessionID()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)

		s.mu.Lock()
		active := s.active[id]
		delete(s.active, id)
		s.mu.Unlock()
		if active != nil {
			if err := active.close(); err != nil {
				s.logger.Error("could not save session", "user", sess.User(), "err", err)
			}
		}
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe serves until ctx is done, SIGINT or SIGTERM arrives, or
// the listener fails.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("starting SSH server", "address", s.config.Address)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("tui: ssh server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down...")
		return s.Shutdown()
	})
	return g.Wait()
}

// Shutdown gracefully stops the server and closes every open game.
// Calling it more than once is a no-op.
func (s *SSHServer) Shutdown() error {
	var err error
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err = s.server.Shutdown(ctx)
		if errors.Is(err, ssh.ErrServerClosed) {
			err = nil
		}

		s.mu.Lock()
		for id, active := range s.active {
			if closeErr := active.close(); closeErr != nil {
				err = errors.Join(err, closeErr)
			}
			delete(s.active, id)
		}
		s.mu.Unlock()

		if s.ownsRuns {
			err = errors.Join(err, s.runs.Close())
		}
	})
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// Namespace turns an SSH user name into an actor id prefix. Characters that
// are not safe in a file name become underscores.
func Namespace(user string) string {
	if user == "" {
		user = "guest"
	}
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, user)
	return clean + "-"
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
)

// SessionModel manages the full session flow: menu -> game or scores -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	runs      *storage.Store
	config    core.RuntimeConfig
	username  string
	sessionID string
	logger    *log.Logger
	active    *activeGame

	screen    sessionScreen
	menu      MenuModel
	board     ScoreboardModel
	gameModel GameModel
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(runs *storage.Store, cfg core.RuntimeConfig, username string, logger *log.Logger) SessionModel {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	id := uuid.NewString()
	return SessionModel{
		runs:      runs,
		config:    cfg,
		username:  username,
		sessionID: id,
		logger:    logger.With("session", id, "user", username),
		active:    &activeGame{},
		menu:      NewMenuModel(runs, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		// The menu asks its own program to quit; the session keeps running.
		m.board = NewScoreboardModel(m.runs, m.config)
		m.screen = screenScores
		return m, m.board.Init()

	case m.menu.Selected() != nil:
		id := m.menu.Selected().GameID
		game, err := registry.Create(id)
		if err != nil {
			m.logger.Warn("cannot create game", "game", id, "err", err)
			m.menu = NewMenuModel(m.runs, m.config)
			return m, nil
		}
		m.active.set(game)
		m.gameModel = NewGameModel(game, m.runs, m.config, m.username, m.logger)
		m.screen = screenGame
		m.logger.Info("game started", "game", id)
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is shown.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.board = board
	}

	switch {
	case m.board.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.board.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = gameModel
	}

	switch {
	case m.gameModel.Err() != nil, m.gameModel.IsQuitting():
		m.closeGame()
		m.quitting = true
		return m, tea.Quit
	case m.gameModel.BackToMenu():
		m.closeGame()
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.runs, m.config) // Reload best kills
	return m, m.menu.Init()
}

func (m SessionModel) closeGame() {
	if err := m.active.close(); err != nil {
		m.logger.Error("could not save game", "err", err)
	}
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.gameModel.View()
	case screenScores:
		return m.board.View()
	default:
		return m.menu.View()
	}
}

// SessionID returns the id used to tag this session's log lines.
func (m SessionModel) SessionID() string {
	return m.sessionID
}
