// Package actor implements the player and skeleton actors: movement with
// wall collision, enemy AI, melee combat, animation phase and per-tick
// snapshot persistence.
//
// Player and enemy share the Actor type. What differs is the Policy that
// decides each tick's intent.
package actor

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-adventure/internal/config"
	"github.com/vovakirdan/tui-adventure/internal/core"
	"github.com/vovakirdan/tui-adventure/internal/snapshot"
)

// Kind distinguishes players from enemies.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// AnimState is the animation strip an actor shows this tick.
type AnimState int

const (
	AnimIdle AnimState = iota
	AnimMoving
	AnimAttacking
	AnimDead
)

// String returns the state name.
func (s AnimState) String() string {
	switch s {
	case AnimIdle:
		return "idle"
	case AnimMoving:
		return "moving"
	case AnimAttacking:
		return "attacking"
	case AnimDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Rand is a seedable uniform random source.
type Rand interface {
	Intn(n int) int
}

// TickContext carries everything an actor reads during one update.
type TickContext struct {
	Walls     []core.Rect
	Opponents []*Actor
	Input     core.InputFrame
	Now       time.Duration
	Rand      Rand
}

// Policy decides an actor's movement and attacks for one tick.
// It is not called once the actor is dead.
type Policy interface {
	Think(a *Actor, ctx *TickContext)
}

// Animation holds frame advance rates and strip lengths for one actor kind.
type Animation struct {
	FrameSpeed  float64
	AttackSpeed float64
	Frames      config.FrameCounts
}

// Actor is a player or enemy in the world.
type Actor struct {
	id   string
	kind Kind

	pos       core.Vec
	w, h      float64
	dx, dy    float64
	speed     float64
	health    int
	maxHealth int

	moving     bool
	facingLeft bool
	attacking  bool
	dead       bool
	deathDone  bool

	frame       float64
	attackFrame float64
	anim        Animation

	policy Policy
	store  snapshot.Store
}

func newActor(id string, kind Kind, pos core.Vec, body config.BodyConfig, anim Animation, store snapshot.Store) *Actor {
	return &Actor{
		id:    id,
		kind:  kind,
		pos:   pos,
		w:     body.Width,
		h:     body.Height,
		anim:  anim,
		store: store,
	}
}

// restore overlays the stored record for the actor's id onto the current
// position, speed and health. Returns the applied snapshot and whether a
// record existed.
func (a *Actor) restore() (snapshot.Snapshot, bool) {
	def := a.Snapshot()
	if a.store == nil {
		return def, false
	}
	rec, ok := a.store.Load(a.id)
	if !ok {
		return def, false
	}
	return rec.Apply(def), true
}

func (a *Actor) apply(s snapshot.Snapshot) {
	a.pos = core.V(s.Position.X, s.Position.Y)
	a.speed = s.Stats.Speed
	a.health = core.Clamp(s.Stats.Health, 0, a.maxHealth)
}

// Update advances the actor by one tick. It returns true once the actor is
// dead and its death animation has finished.
//
// The snapshot is saved at the end of every call, including death ticks.
func (a *Actor) Update(ctx *TickContext) bool {
	if ctx == nil {
		ctx = &TickContext{}
	}

	if a.health <= 0 && !a.dead {
		a.die()
	}

	if a.dead {
		a.advanceDeath()
	} else if a.policy != nil {
		a.policy.Think(a, ctx)
	}

	a.persist()
	return a.dead && a.deathDone
}

// die performs the one-way transition into the dead state.
func (a *Actor) die() {
	a.dead = true
	a.deathDone = false
	a.moving = false
	a.attacking = false
	a.dx, a.dy = 0, 0
	a.frame = 0
	a.attackFrame = 0
}

// Respawn brings a dead actor back at pos with the given health.
func (a *Actor) Respawn(pos core.Vec, health int) {
	a.pos = pos
	a.health = core.Clamp(health, 0, a.maxHealth)
	a.dead = false
	a.deathDone = false
	a.moving = false
	a.attacking = false
	a.dx, a.dy = 0, 0
	a.frame = 0
	a.attackFrame = 0
	a.persist()
}

// TakeDamage subtracts n from health. Health never goes below zero.
// The death transition happens on the actor's next Update.
func (a *Actor) TakeDamage(n int) {
	a.health = max(a.health-n, 0)
}

// Heal adds n to health, capped at max health. Dead actors are not healed.
func (a *Actor) Heal(n int) {
	if a.health <= 0 {
		return
	}
	a.health = min(a.health+n, a.maxHealth)
}

// Move applies the current velocity with axis-separated wall collision,
// horizontal first. A blocked axis has its velocity zeroed.
func (a *Actor) Move(walls []core.Rect) (hitX, hitY bool) {
	r := a.Rect()
	r, a.dx, hitX = ResolveX(r, a.dx, walls)
	r, a.dy, hitY = ResolveY(r, a.dy, walls)
	a.pos = core.V(r.X, r.Y)
	return hitX, hitY
}

// Snapshot returns the persisted view of the actor.
func (a *Actor) Snapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Alive:    snapshot.Flag(!a.dead),
		ID:       a.id,
		Position: snapshot.Position{X: a.pos.X, Y: a.pos.Y},
		Stats:    snapshot.Stats{Speed: a.speed, Health: a.health},
	}
}

func (a *Actor) persist() {
	if a.store != nil {
		a.store.Save(a.Snapshot())
	}
}

// AnimState returns exactly one of idle, moving, attacking or dead.
func (a *Actor) AnimState() AnimState {
	switch {
	case a.dead:
		return AnimDead
	case a.attacking:
		return AnimAttacking
	case a.moving:
		return AnimMoving
	default:
		return AnimIdle
	}
}

// FrameIndex returns the frame of the current animation strip to display.
func (a *Actor) FrameIndex() int {
	f := a.anim.Frames
	switch a.AnimState() {
	case AnimDead:
		return min(int(a.frame), max(f.Death-1, 0))
	case AnimAttacking:
		return int(a.attackFrame)
	default:
		return int(a.frame)
	}
}

// advanceLoop steps the walk or idle strip, wrapping at its length.
func (a *Actor) advanceLoop() {
	n := a.anim.Frames.Idle
	if a.moving {
		n = a.anim.Frames.Walk
	}
	a.frame += a.anim.FrameSpeed
	if a.frame >= float64(n) {
		a.frame = 0
	}
}

// beginAttack starts the attack strip.
func (a *Actor) beginAttack() {
	a.attacking = true
	a.attackFrame = 0
	a.moving = false
}

// advanceAttack steps the attack strip and ends the attack after the last frame.
func (a *Actor) advanceAttack() {
	a.attackFrame += a.anim.AttackSpeed
	if int(a.attackFrame) >= a.anim.Frames.Attack {
		a.attacking = false
		a.attackFrame = 0
	}
}

// advanceDeath steps the death strip and marks it done after the last frame.
// With a loop start the tail of the strip keeps repeating.
func (a *Actor) advanceDeath() {
	f := a.anim.Frames
	looping := f.DeathLoopStart > 0 && f.DeathLoopStart < f.Death
	if a.deathDone && !looping {
		return
	}
	a.frame += a.anim.FrameSpeed
	if int(a.frame) >= f.Death {
		a.deathDone = true
		if looping {
			a.frame -= float64(f.Death - f.DeathLoopStart)
		} else {
			a.frame = float64(max(f.Death-1, 0))
		}
	}
}

// Accessors.

func (a *Actor) ID() string { return a.id }
func (a *Actor) Kind() Kind { return a.kind }
func (a *Actor) Pos() core.Vec { return a.pos }
func (a *Actor) Speed() float64 { return a.speed }
func (a *Actor) Health() int { return a.health }
func (a *Actor) MaxHealth() int { return a.maxHealth }
func (a *Actor) Moving() bool { return a.moving }
func (a *Actor) FacingLeft() bool { return a.facingLeft }
func (a *Actor) Attacking() bool { return a.attacking }
func (a *Actor) Dead() bool { return a.dead }
func (a *Actor) DeathDone() bool { return a.deathDone }
func (a *Actor) Policy() Policy { return a.policy }
func (a *Actor) Velocity() core.Vec { return core.V(a.dx, a.dy) }

// Rect returns the actor's bounding box.
func (a *Actor) Rect() core.Rect {
	return core.NewRect(a.pos.X, a.pos.Y, a.w, a.h)
}

// DistanceTo returns the Euclidean distance between the two actors' positions.
func (a *Actor) DistanceTo(o *Actor) float64 {
	return a.pos.Dist(o.pos)
}

// HealthBarWidth returns how many of width cells a health bar fills for a
// health value out of 100. The result is always in [0, width].
func HealthBarWidth(health, width int) int {
	if width <= 0 {
		return 0
	}
	filled := int(math.Floor(float64(width) * float64(health) / 100))
	return core.Clamp(filled, 0, width)
}
