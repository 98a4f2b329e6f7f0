// Package tilemap loads tile maps and derives the static wall rectangles and
// spawn points the world simulates against.
package tilemap

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-adventure/internal/core"
)

// DefaultTileSize is the tile edge length in world units.
const DefaultTileSize = 64

// Tile legend.
const (
	TileFloor       = '.'
	TileWall        = '#'
	TileWater       = '~'
	TileTree        = 'T'
	TilePlayerSpawn = 'P'
	TileEnemySpawn  = 'E'
)

// Blocking reports whether a tile stops movement.
func Blocking(r rune) bool {
	return r == TileWall || r == TileWater || r == TileTree
}

// Map is a parsed tile map.
type Map struct {
	ID          string
	Name        string
	Description string
	TileSize    float64
	FilePath    string

	rows        [][]rune
	walls       []core.Rect
	playerSpawn core.Vec
	enemySpawns []core.Vec
	open        []core.Vec
}

// yamlMap is the on-disk layout.
type yamlMap struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	TileSize    float64  `yaml:"tile_size"`
	Rows        []string `yaml:"rows"`
}

// Parse decodes and validates a YAML map.
func Parse(data []byte) (*Map, error) {
	var raw yamlMap
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("tilemap: invalid YAML: %w", err)
	}
	return build(raw)
}

func build(raw yamlMap) (*Map, error) {
	if raw.ID == "" {
		return nil, errors.New("tilemap: missing id")
	}
	if len(raw.Rows) == 0 {
		return nil, fmt.Errorf("tilemap: %s has no rows", raw.ID)
	}

	m := &Map{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		TileSize:    raw.TileSize,
	}
	if m.Name == "" {
		m.Name = raw.ID
	}
	if m.TileSize <= 0 {
		m.TileSize = DefaultTileSize
	}

	width := -1
	spawnFound := false
	for y, line := range raw.Rows {
		row := []rune(line)
		if width == -1 {
			width = len(row)
		} else if len(row) != width {
			return nil, fmt.Errorf("tilemap: %s row %d has width %d, expected %d", raw.ID, y, len(row), width)
		}

		for x, r := range row {
			pos := core.V(float64(x)*m.TileSize, float64(y)*m.TileSize)
			switch {
			case Blocking(r):
				m.walls = append(m.walls, core.NewRect(pos.X, pos.Y, m.TileSize, m.TileSize))
			case r == TilePlayerSpawn:
				if spawnFound {
					return nil, fmt.Errorf("tilemap: %s has more than one player spawn", raw.ID)
				}
				spawnFound = true
				m.playerSpawn = pos
				m.open = append(m.open, pos)
			case r == TileEnemySpawn:
				m.enemySpawns = append(m.enemySpawns, pos)
				m.open = append(m.open, pos)
			case r == TileFloor:
				m.open = append(m.open, pos)
			default:
				return nil, fmt.Errorf("tilemap: %s has unknown tile %q at (%d, %d)", raw.ID, r, x, y)
			}
		}
		m.rows = append(m.rows, row)
	}

	if width == 0 {
		return nil, fmt.Errorf("tilemap: %s has empty rows", raw.ID)
	}
	if !spawnFound {
		return nil, fmt.Errorf("tilemap: %s has no player spawn", raw.ID)
	}

	return m, nil
}

// Cols returns the map width in tiles.
func (m *Map) Cols() int {
	if len(m.rows) == 0 {
		return 0
	}
	return len(m.rows[0])
}

// Rows returns the map height in tiles.
func (m *Map) Rows() int {
	return len(m.rows)
}

// Bounds returns the map extent in world units.
func (m *Map) Bounds() core.Rect {
	return core.NewRect(0, 0, float64(m.Cols())*m.TileSize, float64(m.Rows())*m.TileSize)
}

// TileAt returns the tile at a tile coordinate. Outside the map is a wall.
func (m *Map) TileAt(col, row int) rune {
	if row < 0 || row >= len(m.rows) || col < 0 || col >= len(m.rows[row]) {
		return TileWall
	}
	return m.rows[row][col]
}

// TileAtPoint returns the tile covering a world position.
func (m *Map) TileAtPoint(p core.Vec) rune {
	if p.X < 0 || p.Y < 0 {
		return TileWall
	}
	return m.TileAt(int(p.X/m.TileSize), int(p.Y/m.TileSize))
}

// Walls returns one rectangle per blocking tile. The slice is shared; callers
// must not modify it.
func (m *Map) Walls() []core.Rect {
	return m.walls
}

// PlayerSpawn returns the top-left corner of the player spawn tile.
func (m *Map) PlayerSpawn() core.Vec {
	return m.playerSpawn
}

// EnemySpawns returns the enemy spawn tiles in row-major order.
func (m *Map) EnemySpawns() []core.Vec {
	return m.enemySpawns
}

// Intn is the random source used to pick spawn tiles.
type Intn interface {
	Intn(n int) int
}

// RandomOpenPosition returns the top-left corner of a uniformly chosen
// non-blocking tile.
func (m *Map) RandomOpenPosition(rng Intn) core.Vec {
	if len(m.open) == 0 {
		return m.playerSpawn
	}
	return m.open[rng.Intn(len(m.open))]
}

// String renders the tile grid, one row per line.
func (m *Map) String() string {
	lines := make([]string, len(m.rows))
	for i, row := range m.rows {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}
