package world

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-adventure/internal/actor"
	"github.com/vovakirdan/tui-adventure/internal/core"
	"github.com/vovakirdan/tui-adventure/internal/tilemap"
)

// One screen cell covers cellW x cellH world units, so a 64-unit tile is
// 8 columns by 4 rows.
const (
	cellW = 8.0
	cellH = 16.0

	hudRows = 1

	minScreenW = 40
	minScreenH = 12
)

// Visual characters for rendering
const (
	WallChar   = '█'
	WaterChar  = '≈'
	TreeChar   = '♣'
	HitboxChar = '·'
	BarFull    = '█'
	BarEmpty   = '░'
)

// Camera returns the top-left world position of the viewport for a screen
// of the given size. It follows the player's center and stays inside the
// map bounds.
func (w *World) Camera(screenW, screenH int) core.Vec {
	viewW := float64(screenW) * cellW
	viewH := float64(max(screenH-hudRows, 0)) * cellH
	bounds := w.m.Bounds()

	c := w.player.Rect().Center()
	return core.V(
		core.ClampF(c.X-viewW/2, 0, bounds.W-viewW),
		core.ClampF(c.Y-viewH/2, 0, bounds.H-viewH),
	)
}

// toScreen maps a world position to a screen cell.
func toScreen(p, cam core.Vec) (int, int) {
	x := int(math.Floor((p.X - cam.X) / cellW))
	y := int(math.Floor((p.Y-cam.Y)/cellH)) + hudRows
	return x, y
}

// Render draws the visible part of the map, every actor and the HUD.
func (w *World) Render(dst *core.Screen) {
	dst.Clear()

	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", minScreenW, minScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	cam := w.Camera(dst.Width(), dst.Height())

	w.renderTiles(dst, cam)
	if w.player.Attacking() {
		w.renderHitbox(dst, cam)
	}
	for _, e := range w.enemies {
		renderActor(dst, e, cam)
	}
	renderActor(dst, w.player, cam)
	w.renderHUD(dst)
	w.renderOverlay(dst)
}

// renderTiles draws blocking tiles by sampling the map at each cell center.
func (w *World) renderTiles(dst *core.Screen, cam core.Vec) {
	for y := hudRows; y < dst.Height(); y++ {
		for x := range dst.Width() {
			p := core.V(cam.X+(float64(x)+0.5)*cellW, cam.Y+(float64(y-hudRows)+0.5)*cellH)
			switch w.m.TileAtPoint(p) {
			case tilemap.TileWall:
				dst.SetColored(x, y, WallChar, core.ColorGray)
			case tilemap.TileWater:
				dst.SetColored(x, y, WaterChar, core.ColorBlue)
			case tilemap.TileTree:
				dst.SetColored(x, y, TreeChar, core.ColorGreen)
			}
		}
	}
}

// renderHitbox marks the player's swing area on empty cells.
func (w *World) renderHitbox(dst *core.Screen, cam core.Vec) {
	box := actor.Hitbox(w.player, w.cfg.Combat)
	x0, y0 := toScreen(core.V(box.X, box.Y), cam)
	x1, y1 := toScreen(core.V(box.Right(), box.Bottom()), cam)
	for y := max(y0, hudRows); y < y1; y++ {
		for x := x0; x < x1; x++ {
			if dst.Get(x, y) == ' ' {
				dst.SetColored(x, y, HitboxChar, core.ColorYellow)
			}
		}
	}
}

// renderActor draws the body, a facing marker, walking legs and a health
// bar on the row above.
func renderActor(dst *core.Screen, a *actor.Actor, cam core.Vec) {
	r := a.Rect()
	x0, y0 := toScreen(core.V(r.X, r.Y), cam)
	x1, y1 := toScreen(core.V(r.Right(), r.Bottom()), cam)
	w, h := max(x1-x0, 1), max(y1-y0, 1)

	body, color := actorStyle(a)

	if a.AnimState() == actor.AnimDead {
		// Collapsed on the ground.
		dst.FillRect(x0, y0+h-1, w, 1, '_', core.ColorGray)
		return
	}

	dst.FillRect(x0, max(y0, hudRows), w, y0+h-max(y0, hudRows), body, color)

	face := '>'
	faceX := x0 + w - 2
	if a.FacingLeft() {
		face = '<'
		faceX = x0 + 1
	}
	if y0 >= hudRows {
		dst.SetColored(faceX, y0, face, color)
	}

	if a.AnimState() == actor.AnimMoving {
		legs := '/'
		if a.FrameIndex()%2 == 1 {
			legs = '\\'
		}
		dst.DrawHLine(x0, y0+h-1, w, legs, color)
	}

	if y0-1 >= hudRows {
		filled := actor.HealthBarWidth(a.Health(), w)
		barColor := core.ColorGreen
		if a.Kind() == actor.KindEnemy {
			barColor = core.ColorRed
		}
		dst.DrawHLine(x0, y0-1, filled, BarFull, barColor)
		dst.DrawHLine(x0+filled, y0-1, w-filled, BarEmpty, core.ColorGray)
	}
}

func actorStyle(a *actor.Actor) (rune, core.Color) {
	if a.Kind() == actor.KindPlayer {
		if a.Attacking() {
			return '▓', core.ColorBrightYellow
		}
		return '▓', core.ColorBrightCyan
	}
	if a.Attacking() {
		return '▒', core.ColorBrightRed
	}
	return '▒', core.ColorWhite
}

// renderHUD draws health, kills and the map name on the top row.
func (w *World) renderHUD(dst *core.Screen) {
	for x := range dst.Width() {
		dst.Set(x, 0, ' ')
	}

	hp := fmt.Sprintf("HP %3d ", w.player.Health())
	dst.DrawText(1, 0, hp)

	const barW = 10
	filled := actor.HealthBarWidth(w.player.Health(), barW)
	dst.DrawHLine(1+len(hp), 0, filled, BarFull, core.ColorGreen)
	dst.DrawHLine(1+len(hp)+filled, 0, barW-filled, BarEmpty, core.ColorGray)

	kills := fmt.Sprintf("Kills: %d  Skeletons: %d", w.kills, w.livingEnemies())
	dst.DrawTextCentered(0, kills)

	title := w.Title()
	dst.DrawText(dst.Width()-len([]rune(title))-1, 0, title)
}

// renderOverlay draws the death, pause and error screens.
func (w *World) renderOverlay(dst *core.Screen) {
	switch {
	case w.err != nil:
		dst.Dim()
		drawCenteredBox(dst, "Save failed", w.err.Error())
	case w.player.Dead():
		dst.Dim()
		drawCenteredBox(dst, "You Died", "Press R to Respawn")
	case w.paused:
		drawCenteredBox(dst, "PAUSED", "Press P to resume")
	}
}

// drawCenteredBox draws a centered message box.
func drawCenteredBox(dst *core.Screen, title, subtitle string) {
	tw, sw := len([]rune(title)), len([]rune(subtitle))
	boxW := min(max(tw, sw)+4, dst.Width())
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH)

	dst.DrawTextColored(boxX+(boxW-tw)/2, boxY+1, title, core.ColorBrightRed)
	dst.DrawText(boxX+max((boxW-sw)/2, 1), boxY+3, subtitle)
}
