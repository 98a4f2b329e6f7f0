package actor

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-adventure/internal/config"
	"github.com/vovakirdan/tui-adventure/internal/core"
	"github.com/vovakirdan/tui-adventure/internal/snapshot"
)

// AIState is the enemy behavior selected for the current tick.
type AIState int

const (
	AIWander AIState = iota
	AIChase
	AIAttack
	AIDead
)

// String returns the state name.
func (s AIState) String() string {
	switch s {
	case AIWander:
		return "wander"
	case AIChase:
		return "chase"
	case AIAttack:
		return "attack"
	case AIDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Direction is a cardinal wander heading.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// EnemyPolicy is the skeleton AI: wander, chase the nearest living
// opponent, or attack it when in range.
type EnemyPolicy struct {
	cfg config.EnemyConfig

	state      AIState
	dir        Direction
	walking    bool
	attacked   bool
	lastAttack time.Duration
}

// NewEnemy creates a skeleton at spawn. A stored record for id restores
// position, speed and health unless it describes a dead enemy, in which case
// the enemy starts fresh. The snapshot is saved immediately.
func NewEnemy(id string, spawn core.Vec, cfg config.AdventureConfig, store snapshot.Store) *Actor {
	a := newActor(id, KindEnemy, spawn, cfg.Body, Animation{
		FrameSpeed:  cfg.Animation.FrameSpeed,
		AttackSpeed: cfg.Animation.AttackSpeed,
		Frames:      cfg.Animation.Enemy,
	}, store)
	a.speed = cfg.Enemy.Speed
	a.health = cfg.Enemy.Health
	a.maxHealth = cfg.Enemy.Health
	a.policy = &EnemyPolicy{cfg: cfg.Enemy}

	if s, ok := a.restore(); ok && bool(s.Alive) && s.Stats.Health > 0 {
		a.apply(s)
	}

	a.persist()
	return a
}

// State returns the behavior chosen on the last tick.
func (p *EnemyPolicy) State() AIState {
	return p.state
}

// AIState returns the actor's AI state. Dead actors report AIDead; actors
// without enemy AI report AIWander.
func (a *Actor) AIState() AIState {
	if a.dead {
		return AIDead
	}
	if p, ok := a.policy.(*EnemyPolicy); ok {
		return p.state
	}
	return AIWander
}

// Think implements Policy.
func (p *EnemyPolicy) Think(a *Actor, ctx *TickContext) {
	// The attack animation runs to completion before anything else.
	if a.attacking {
		a.advanceAttack()
		return
	}

	target, dist := nearestLiving(a, ctx.Opponents)
	switch {
	case target != nil && dist < p.cfg.AttackRange:
		p.state = AIAttack
		p.walking = false
		p.attack(a, target, ctx.Now)
	case target != nil && dist < p.cfg.ChaseDistance:
		p.state = AIChase
		p.walking = false
		p.chase(a, target, ctx.Walls)
	default:
		p.state = AIWander
		p.wander(a, ctx)
	}
}

// attack deals damage directly to the target when the cooldown allows.
// Otherwise the enemy holds position.
func (p *EnemyPolicy) attack(a, target *Actor, now time.Duration) {
	a.dx, a.dy = 0, 0
	a.moving = false
	if target.pos.X != a.pos.X {
		a.facingLeft = target.pos.X < a.pos.X
	}

	if p.attacked && now-p.lastAttack < p.cfg.AttackCooldown {
		a.advanceLoop()
		return
	}

	target.TakeDamage(p.cfg.AttackDamage)
	p.attacked = true
	p.lastAttack = now
	a.beginAttack()
}

// chase steps toward the target on each axis outside its dead-zone:
// ±DeadZoneX horizontally and [target.y, target.y+DeadZoneY] vertically.
func (p *EnemyPolicy) chase(a, target *Actor, walls []core.Rect) {
	a.dx, a.dy = 0, 0
	t := target.pos

	switch {
	case a.pos.X < t.X-p.cfg.DeadZoneX:
		a.dx = p.cfg.ChaseSpeed
		a.facingLeft = false
	case a.pos.X > t.X+p.cfg.DeadZoneX:
		a.dx = -p.cfg.ChaseSpeed
		a.facingLeft = true
	}

	switch {
	case a.pos.Y < t.Y:
		a.dy = p.cfg.ChaseSpeed
	case a.pos.Y > t.Y+p.cfg.DeadZoneY:
		a.dy = -p.cfg.ChaseSpeed
	}

	a.Move(walls)
	a.moving = a.dx != 0 || a.dy != 0
	a.advanceLoop()
}

// wander occasionally starts walking in a random cardinal direction and
// occasionally stops. Without a random source the enemy stands still.
func (p *EnemyPolicy) wander(a *Actor, ctx *TickContext) {
	a.dx, a.dy = 0, 0
	rng := ctx.Rand
	if rng == nil {
		p.walking = false
		a.moving = false
		a.advanceLoop()
		return
	}

	if !p.walking && rng.Intn(100) < p.cfg.Wander.StartChance {
		p.walking = true
		if p.dir == DirNone || rng.Intn(100) < p.cfg.Wander.TurnChance {
			p.dir = Direction(1 + rng.Intn(4))
		}
	}

	if p.walking {
		switch p.dir {
		case DirUp:
			a.dy = -a.speed
		case DirDown:
			a.dy = a.speed
		case DirLeft:
			a.dx = -a.speed
			a.facingLeft = true
		case DirRight:
			a.dx = a.speed
			a.facingLeft = false
		}

		hitX, hitY := a.Move(ctx.Walls)
		if hitX || hitY || rng.Intn(100) < p.cfg.Wander.StopChance {
			p.walking = false
		}
	}

	a.moving = p.walking
	a.advanceLoop()
}

// nearestLiving returns the closest opponent with health above zero.
func nearestLiving(a *Actor, opponents []*Actor) (*Actor, float64) {
	var best *Actor
	bestDist := math.Inf(1)
	for _, o := range opponents {
		if o == nil || o == a || o.dead || o.health <= 0 {
			continue
		}
		if d := a.DistanceTo(o); d < bestDist {
			best, bestDist = o, d
		}
	}
	return best, bestDist
}
