package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-adventure/internal/core"
)

func TestHitbox(t *testing.T) {
	cfg := testConfig().Combat
	a := newTestPlayer(100, 200)

	assert.Equal(t, core.NewRect(154, 200, 70, 50), Hitbox(a, cfg), "facing right: flush with right edge")

	a.facingLeft = true
	assert.Equal(t, core.NewRect(30, 200, 70, 50), Hitbox(a, cfg), "facing left: flush with left edge")
}

func TestStrike(t *testing.T) {
	cfg := testConfig().Combat
	attacker := newTestPlayer(0, 0)

	inRange := NewEnemy("e1", core.V(60, 0), testConfig(), nil)
	behind := NewEnemy("e2", core.V(-60, 0), testConfig(), nil)
	below := NewEnemy("e3", core.V(60, 50), testConfig(), nil)
	corpse := NewEnemy("e4", core.V(60, 10), testConfig(), nil)
	corpse.health = 0

	hit := Strike(attacker, []*Actor{inRange, behind, below, corpse, nil, attacker}, cfg)

	require.Len(t, hit, 1)
	assert.Same(t, inRange, hit[0])
	assert.Equal(t, 80, inRange.Health())
	assert.Equal(t, 100, behind.Health())
	assert.Equal(t, 100, below.Health(), "hitbox is 50 tall; y=50 only touches")
	assert.Equal(t, 0, corpse.Health())
	assert.Equal(t, 100, attacker.Health())
}

func TestStrikeFloorsAtZero(t *testing.T) {
	cfg := testConfig().Combat
	attacker := newTestPlayer(0, 0)
	target := NewEnemy("e1", core.V(60, 0), testConfig(), nil)
	target.health = 5

	Strike(attacker, []*Actor{target}, cfg)
	assert.Equal(t, 0, target.Health())
}

func TestPlayerSwingDamagesOncePerTrigger(t *testing.T) {
	player := newTestPlayer(0, 0)
	enemy := NewEnemy("e1", core.V(60, 0), testConfig(), nil)

	ctx := &TickContext{
		Opponents: []*Actor{enemy},
		Input:     core.NewInputFrame(core.ActionAttack),
	}

	// Hold attack through the whole swing, short of the 1.25s cooldown.
	swingTicks := 0
	for i := 0; i < 124; i++ {
		ctx.Now = at(i)
		player.Update(ctx)
		if player.Attacking() {
			swingTicks++
		}
	}
	assert.Greater(t, swingTicks, 1, "the swing spans several ticks")
	assert.Equal(t, 80, enemy.Health(), "one trigger, one application of 20")

	// Cooldown elapsed: next trigger lands again.
	ctx.Now = at(125)
	player.Update(ctx)
	assert.Equal(t, 60, enemy.Health())
}

func TestPlayerSwingWithoutEnemies(t *testing.T) {
	player := newTestPlayer(0, 0)

	player.Update(&TickContext{Input: core.NewInputFrame(core.ActionAttack)})
	assert.True(t, player.Attacking())
	assert.Equal(t, AnimAttacking, player.AnimState())
}

func TestPlayerAttackFreezesMovement(t *testing.T) {
	player := newTestPlayer(0, 0)

	ctx := &TickContext{Input: core.NewInputFrame(core.ActionAttack, core.ActionRight)}
	player.Update(ctx)
	assert.Equal(t, core.V(0, 0), player.Pos(), "movement input ignored while attacking")

	ctx.Input = core.NewInputFrame(core.ActionRight)
	for i := 1; i < 200 && player.Attacking(); i++ {
		ctx.Now = at(i)
		player.Update(ctx)
	}
	require.False(t, player.Attacking())

	before := player.Pos()
	ctx.Now += step
	player.Update(ctx)
	assert.Equal(t, before.X+3, player.Pos().X)
}
