package actor

import "github.com/vovakirdan/tui-adventure/internal/core"

// ResolveX moves r by dx and pushes it out of any wall it then overlaps:
// moving right puts the right edge on the wall's left edge, moving left puts
// the left edge on the wall's right edge. Returns the resolved rectangle,
// the velocity left on the axis (zero after a hit) and whether a wall was hit.
func ResolveX(r core.Rect, dx float64, walls []core.Rect) (core.Rect, float64, bool) {
	if dx == 0 {
		return r, 0, false
	}
	r.X += dx

	hit := false
	// Clamping can uncover an overlap with a wall earlier in the list, so
	// repeat until a pass changes nothing.
	for pass := 0; pass <= len(walls); pass++ {
		moved := false
		for _, w := range walls {
			if !r.Intersects(w) {
				continue
			}
			if dx > 0 {
				r.X = w.X - r.W
			} else {
				r.X = w.Right()
			}
			hit, moved = true, true
		}
		if !moved {
			break
		}
	}

	if hit {
		return r, 0, true
	}
	return r, dx, false
}

// ResolveY is ResolveX for the vertical axis.
func ResolveY(r core.Rect, dy float64, walls []core.Rect) (core.Rect, float64, bool) {
	if dy == 0 {
		return r, 0, false
	}
	r.Y += dy

	hit := false
	for pass := 0; pass <= len(walls); pass++ {
		moved := false
		for _, w := range walls {
			if !r.Intersects(w) {
				continue
			}
			if dy > 0 {
				r.Y = w.Y - r.H
			} else {
				r.Y = w.Bottom()
			}
			hit, moved = true, true
		}
		if !moved {
			break
		}
	}

	if hit {
		return r, 0, true
	}
	return r, dy, false
}
