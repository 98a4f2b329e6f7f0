package actor

import (
	"time"

	"github.com/vovakirdan/tui-adventure/internal/config"
	"github.com/vovakirdan/tui-adventure/internal/core"
	"github.com/vovakirdan/tui-adventure/internal/snapshot"
)

// PlayerPolicy drives an actor from keyboard input.
type PlayerPolicy struct {
	cfg    config.PlayerConfig
	combat config.CombatConfig

	attacked   bool
	lastAttack time.Duration
	lastRegen  time.Duration
}

// NewPlayer creates a player at spawn, restoring position, speed and health
// from store when a record for id exists. A restored player with no health
// starts dead. The snapshot is saved immediately.
func NewPlayer(id string, spawn core.Vec, cfg config.AdventureConfig, store snapshot.Store) *Actor {
	a := newActor(id, KindPlayer, spawn, cfg.Body, Animation{
		FrameSpeed:  cfg.Animation.FrameSpeed,
		AttackSpeed: cfg.Animation.AttackSpeed,
		Frames:      cfg.Animation.Player,
	}, store)
	a.speed = cfg.Player.Speed
	a.health = cfg.Player.Health
	a.maxHealth = cfg.Player.Health
	a.policy = &PlayerPolicy{cfg: cfg.Player, combat: cfg.Combat}

	if s, ok := a.restore(); ok {
		a.apply(s)
	}
	if a.health <= 0 {
		a.die()
	}

	a.persist()
	return a
}

// Think implements Policy.
func (p *PlayerPolicy) Think(a *Actor, ctx *TickContext) {
	a.moving = false
	a.dx, a.dy = 0, 0

	started := false
	if !a.attacking && ctx.Input.Has(core.ActionAttack) && p.cooledDown(ctx.Now) {
		Strike(a, ctx.Opponents, p.combat)
		a.beginAttack()
		p.attacked = true
		p.lastAttack = ctx.Now
		started = true
	}

	if !a.attacking {
		p.readInput(a, ctx.Input)
	}

	a.Move(ctx.Walls)

	switch {
	case started:
	case a.attacking:
		a.advanceAttack()
	default:
		a.advanceLoop()
	}

	p.regen(a, ctx.Now)
}

func (p *PlayerPolicy) readInput(a *Actor, in core.InputFrame) {
	if in.Has(core.ActionUp) {
		a.dy = -a.speed
		a.moving = true
	}
	if in.Has(core.ActionDown) {
		a.dy = a.speed
		a.moving = true
	}
	if in.Has(core.ActionLeft) {
		a.dx = -a.speed
		a.facingLeft = true
		a.moving = true
	}
	if in.Has(core.ActionRight) {
		a.dx = a.speed
		a.facingLeft = false
		a.moving = true
	}
}

func (p *PlayerPolicy) cooledDown(now time.Duration) bool {
	return !p.attacked || now-p.lastAttack >= p.cfg.AttackCooldown
}

// regen heals once per interval while the player is hurt but alive.
func (p *PlayerPolicy) regen(a *Actor, now time.Duration) {
	if now <= p.lastRegen+p.cfg.RegenInterval {
		return
	}
	if a.health > 0 && a.health < a.maxHealth {
		a.Heal(p.cfg.RegenAmount)
		p.lastRegen = now
	}
}
