package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-adventure/internal/core"
	"github.com/vovakirdan/tui-adventure/internal/registry"
	"github.com/vovakirdan/tui-adventure/internal/storage"
)

const (
	minWidthForSidebar = 90 // Below this the map list collapses to a single line
	sidebarWidth       = 22
	maxRuns            = 50
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextMap key.Binding
	PrevMap key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMap, k.PrevMap, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMap, k.PrevMap},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextMap: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next map")),
		PrevMap: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev map")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	boardDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ScoreboardModel shows the best runs per map.
type ScoreboardModel struct {
	maps     []registry.GameInfo
	current  int
	runs     *storage.Store
	rows     []storage.Run
	stats    *storage.MapStats
	tickRate int
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	quitting bool
	back     bool
}

// NewScoreboardModel creates a scoreboard over every registered map.
func NewScoreboardModel(runs *storage.Store, cfg core.RuntimeConfig) ScoreboardModel {
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}

	m := ScoreboardModel{
		maps:     registry.List(),
		runs:     runs,
		tickRate: tickRate,
		help:     help.New(),
		keys:     DefaultScoreboardKeyMap(),
		width:    cfg.ScreenW,
		height:   cfg.ScreenH,
	}
	m.table = m.newTable()
	m.load()
	return m
}

func (m ScoreboardModel) newTable() table.Model {
	// Player column takes whatever the fixed columns leave.
	avail := m.width - 8
	if m.width >= minWidthForSidebar {
		avail -= sidebarWidth + 4
	}
	player := max(avail-(5+7+9+14), 8)
	player = min(player, 24)

	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Kills", Width: 7},
		{Title: "Time", Width: 9},
		{Title: "Player", Width: player},
		{Title: "Date", Width: 14},
	}

	width := 0
	for _, c := range columns {
		width += c.Width + 2 // cell padding
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithWidth(width),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("22"))
	t.SetStyles(s)
	return t
}

// load fetches the runs and stats of the current map.
func (m *ScoreboardModel) load() {
	m.rows = nil
	m.stats = nil
	if m.runs != nil && len(m.maps) > 0 {
		id := m.maps[m.current].ID
		if runs, err := m.runs.TopRuns(id, maxRuns); err == nil {
			m.rows = runs
		}
		if stats, err := m.runs.GetMapStats(id); err == nil {
			m.stats = stats
		}
	}
	m.fillTable()
}

func (m *ScoreboardModel) fillTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for i, r := range m.rows {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Kills),
			formatTicks(r.Ticks, m.tickRate),
			r.PlayerID,
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// formatTicks renders a tick count as m:ss.
func formatTicks(ticks, tickRate int) string {
	d := time.Duration(ticks) * time.Second / time.Duration(tickRate)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.back = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMap):
			m.cycle(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevMap):
			m.cycle(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.fillTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ScoreboardModel) cycle(delta int) {
	if len(m.maps) == 0 {
		return
	}
	m.current = (m.current + delta + len(m.maps)) % len(m.maps)
	m.load()
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	title := "BEST RUNS"
	if len(m.maps) > 0 {
		title += " - " + m.maps[m.current].Title
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(boardTitleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	body := boardFrameStyle.Render(m.tableView())
	if m.width >= minWidthForSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), "  ", body)
	} else if len(m.maps) > 0 {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.maps[m.current].Title), m.width))
		b.WriteString("\n")
	}
	b.WriteString(body)
	b.WriteString("\n")

	if line := m.statsLine(); line != "" {
		b.WriteString(boardDimStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) sidebar() string {
	var sb strings.Builder
	sb.WriteString("Maps\n")
	for i, g := range m.maps {
		name := g.Title
		if lipgloss.Width(name) > sidebarWidth-4 {
			name = string([]rune(name)[:sidebarWidth-5]) + "."
		}
		if i == m.current {
			sb.WriteString(boardTitleStyle.Render("> " + name))
		} else {
			sb.WriteString("  " + name)
		}
		sb.WriteString("\n")
	}
	return boardFrameStyle.Width(sidebarWidth).Render(sb.String())
}

func (m ScoreboardModel) tableView() string {
	if len(m.rows) == 0 {
		return boardDimStyle.Italic(true).Padding(1, 2).
			Render("No runs yet.\nKill a skeleton to get on the board.")
	}
	return m.table.View()
}

// statsLine summarizes every recorded run of the current map.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.RunsCount == 0 {
		return ""
	}
	line := fmt.Sprintf("Runs: %d  Best: %d  Avg: %.1f  Total kills: %d",
		m.stats.RunsCount, m.stats.BestKills, m.stats.AvgKills, m.stats.TotalKills)
	if !m.stats.LastPlayed.IsZero() {
		line += "  Last played: " + m.stats.LastPlayed.Format("Jan 02 15:04")
	}
	return line
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(runs *storage.Store, cfg core.RuntimeConfig) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(runs, cfg), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
