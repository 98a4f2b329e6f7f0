package actor

import (
	"time"

	"github.com/vovakirdan/tui-adventure/internal/config"
	"github.com/vovakirdan/tui-adventure/internal/core"
)

// step is the simulated tick length used by tests. It divides every
// configured cooldown exactly.
const step = 10 * time.Millisecond

func testConfig() config.AdventureConfig {
	return config.DefaultAdventureConfig()
}

func at(i int) time.Duration {
	return time.Duration(i) * step
}

func newTestPlayer(x, y float64) *Actor {
	return NewPlayer("player1", core.V(x, y), testConfig(), nil)
}

func newTestEnemy(x, y float64) *Actor {
	return NewEnemy("enemy1", core.V(x, y), testConfig(), nil)
}
