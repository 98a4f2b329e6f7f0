package actor

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-adventure/internal/core"
)

func TestEnemyStateByDistance(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     AIState
	}{
		{"attack range", 40, AIAttack},
		{"just inside attack range", 49.9, AIAttack},
		{"attack range boundary chases", 50, AIChase},
		{"chase range", 100, AIChase},
		{"chase boundary wanders", 150, AIWander},
		{"far away", 200, AIWander},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enemy := newTestEnemy(0, 0)
			player := newTestPlayer(tc.distance, 0)

			enemy.Update(&TickContext{
				Opponents: []*Actor{player},
				Rand:      rand.New(rand.NewSource(1)),
			})

			assert.Equal(t, tc.want, enemy.AIState())
			if tc.want == AIAttack {
				assert.Equal(t, 90, player.Health())
			} else {
				assert.Equal(t, 100, player.Health())
			}
		})
	}
}

func TestEnemyAttackCooldown(t *testing.T) {
	enemy := newTestEnemy(0, 0)
	player := newTestPlayer(40, 0)
	ctx := &TickContext{Opponents: []*Actor{player}}

	ctx.Now = 0
	enemy.Update(ctx)
	require.Equal(t, 90, player.Health(), "first attack lands immediately")
	require.True(t, enemy.Attacking())

	// 2 seconds at 10ms per tick is 200 ticks.
	for i := 1; i < 200; i++ {
		ctx.Now = at(i)
		enemy.Update(ctx)
		require.Equal(t, 90, player.Health(), "retriggered at %v", ctx.Now)
	}
	assert.False(t, enemy.Attacking(), "attack animation finished")
	assert.Equal(t, core.V(0, 0), enemy.Pos(), "holds position while cooling down")

	ctx.Now = 2 * time.Second
	enemy.Update(ctx)
	assert.Equal(t, 80, player.Health())
}

func TestEnemyAttackAnimationSuspendsAI(t *testing.T) {
	enemy := newTestEnemy(0, 0)
	player := newTestPlayer(40, 0)
	ctx := &TickContext{Opponents: []*Actor{player}}

	enemy.Update(ctx)
	require.True(t, enemy.Attacking())

	// Target steps into chase range; the swing still finishes first.
	player.pos = core.V(120, 0)
	ticks := 0
	for enemy.Attacking() {
		ticks++
		ctx.Now = at(ticks)
		enemy.Update(ctx)
		require.Less(t, ticks, 100)
	}
	assert.Equal(t, core.V(0, 0), enemy.Pos())
	assert.Equal(t, 47, ticks, "7 frames at 0.15 per tick")

	ctx.Now = at(ticks + 1)
	enemy.Update(ctx)
	assert.Equal(t, AIChase, enemy.AIState())
	assert.Equal(t, core.V(2, 0), enemy.Pos())
}

func TestEnemyChaseDirection(t *testing.T) {
	tests := []struct {
		name   string
		target core.Vec
		wantDX float64
		wantDY float64
	}{
		{"right and below", core.V(100, 60), 2, 2},
		{"left and above", core.V(-100, -60), -2, -2},
		{"inside horizontal dead-zone", core.V(25, 90), 0, 2},
		{"inside vertical dead-zone at target", core.V(80, 0), 2, 0},
		{"inside vertical dead-zone below target", core.V(80, -10), 2, 0},
		{"just outside vertical dead-zone", core.V(80, -11), 2, -2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enemy := newTestEnemy(0, 0)
			player := newTestPlayer(tc.target.X, tc.target.Y)

			enemy.Update(&TickContext{Opponents: []*Actor{player}})

			require.Equal(t, AIChase, enemy.AIState())
			assert.Equal(t, core.V(tc.wantDX, tc.wantDY), enemy.Pos())
			assert.Equal(t, tc.wantDX != 0 || tc.wantDY != 0, enemy.Moving())
			if tc.wantDX < 0 {
				assert.True(t, enemy.FacingLeft())
			}
		})
	}
}

func TestEnemyChaseSettlesWithoutJitter(t *testing.T) {
	enemy := newTestEnemy(0, 100)
	player := newTestPlayer(60, 0)
	ctx := &TickContext{Opponents: []*Actor{player}}

	var lastDY float64
	flips := 0
	for i := 0; i < 200; i++ {
		ctx.Now = at(i)
		enemy.Update(ctx)
		if enemy.AIState() != AIChase {
			break
		}
		dy := enemy.Velocity().Y
		if dy != 0 && lastDY != 0 && dy != lastDY {
			flips++
		}
		if dy != 0 {
			lastDY = dy
		}
	}
	assert.Zero(t, flips, "vertical direction never reverses while closing in")
}

func TestEnemyIgnoresDeadOpponents(t *testing.T) {
	enemy := newTestEnemy(0, 0)
	corpse := newTestPlayer(40, 0)
	corpse.health = 0
	alive := newTestPlayer(120, 0)

	enemy.Update(&TickContext{Opponents: []*Actor{corpse, alive}})

	assert.Equal(t, AIChase, enemy.AIState(), "targets the living player further away")
	assert.Equal(t, 0, corpse.Health())
}

func TestEnemyNearestOpponent(t *testing.T) {
	enemy := newTestEnemy(0, 0)
	far := newTestPlayer(45, 0)
	near := newTestPlayer(0, 30)

	enemy.Update(&TickContext{Opponents: []*Actor{far, near}})

	assert.Equal(t, 90, near.Health())
	assert.Equal(t, 100, far.Health())
}

func TestEnemyDiesExactlyOnce(t *testing.T) {
	enemy := newTestEnemy(0, 0)
	player := newTestPlayer(40, 0)
	ctx := &TickContext{Opponents: []*Actor{player}, Rand: rand.New(rand.NewSource(3))}

	enemy.TakeDamage(100)

	transitions := 0
	wasDead := false
	doneAt := -1
	for i := 0; i < 300; i++ {
		ctx.Now = at(i)
		done := enemy.Update(ctx)

		if enemy.Dead() && !wasDead {
			transitions++
		}
		wasDead = enemy.Dead()

		require.Equal(t, AIDead, enemy.AIState())
		require.Equal(t, AnimDead, enemy.AnimState())
		if done && doneAt < 0 {
			doneAt = i
		}

		// Reviving health does not bring it back.
		enemy.health = 100
	}

	assert.Equal(t, 1, transitions)
	assert.Equal(t, 100, player.Health(), "a dead enemy never attacks")
	assert.Equal(t, core.V(0, 0), enemy.Pos())
	assert.InDelta(t, 100, doneAt, 2, "10 frames at 0.1 per tick")
	assert.Equal(t, 9, enemy.FrameIndex(), "death animation holds its last frame")
}

func TestEnemyWanderWithoutOpponents(t *testing.T) {
	enemy := newTestEnemy(500, 500)
	ctx := &TickContext{Rand: rand.New(rand.NewSource(99))}

	moved := false
	for i := 0; i < 1000; i++ {
		ctx.Now = at(i)
		enemy.Update(ctx)
		require.Equal(t, AIWander, enemy.AIState())
		v := enemy.Velocity()
		require.True(t, v.X == 0 || v.Y == 0, "wander moves along one axis")
		if enemy.Pos() != core.V(500, 500) {
			moved = true
		}
	}
	assert.True(t, moved, "wandering eventually walks somewhere")
}

func TestEnemyWanderDeterministic(t *testing.T) {
	run := func(seed int64) []core.Vec {
		enemy := newTestEnemy(500, 500)
		ctx := &TickContext{Rand: rand.New(rand.NewSource(seed))}
		var path []core.Vec
		for i := 0; i < 500; i++ {
			enemy.Update(ctx)
			path = append(path, enemy.Pos())
		}
		return path
	}

	assert.Equal(t, run(7), run(7))
}

func TestEnemyWanderStopsAtWall(t *testing.T) {
	enemy := newTestEnemy(0, 0)
	policy := enemy.Policy().(*EnemyPolicy)
	policy.walking = true
	policy.dir = DirRight

	// One unit of wander speed would overlap the wall by half a unit.
	wall := core.NewRect(54.5, 0, 64, 64)
	enemy.Update(&TickContext{Walls: []core.Rect{wall}, Rand: rand.New(rand.NewSource(1))})

	assert.False(t, policy.walking)
	assert.False(t, enemy.Moving())
	assert.Equal(t, 0.5, enemy.Pos().X)
}

func TestEnemyWithoutRandStandsStill(t *testing.T) {
	enemy := newTestEnemy(10, 10)
	for i := 0; i < 100; i++ {
		enemy.Update(&TickContext{})
	}
	assert.Equal(t, core.V(10, 10), enemy.Pos())
	assert.Equal(t, AnimIdle, enemy.AnimState())
}
