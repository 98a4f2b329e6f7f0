package actor

import (
	"github.com/vovakirdan/tui-adventure/internal/config"
	"github.com/vovakirdan/tui-adventure/internal/core"
)

// Hitbox returns the swing rectangle flush against the attacker's leading
// edge on its facing side, top-aligned with its body.
func Hitbox(a *Actor, cfg config.CombatConfig) core.Rect {
	body := a.Rect()
	if a.facingLeft {
		return core.NewRect(body.X-cfg.HitboxWidth, body.Y, cfg.HitboxWidth, cfg.HitboxHeight)
	}
	return core.NewRect(body.Right(), body.Y, cfg.HitboxWidth, cfg.HitboxHeight)
}

// Strike applies cfg.Damage once to every living target whose body overlaps
// the attacker's hitbox. Returns the targets hit.
func Strike(attacker *Actor, targets []*Actor, cfg config.CombatConfig) []*Actor {
	box := Hitbox(attacker, cfg)

	var hit []*Actor
	for _, t := range targets {
		if t == nil || t == attacker || t.dead || t.health <= 0 {
			continue
		}
		if box.Intersects(t.Rect()) {
			t.TakeDamage(cfg.Damage)
			hit = append(hit, t)
		}
	}
	return hit
}
