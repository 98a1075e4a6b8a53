package runner

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/physics"
)

// Visual characters for rendering
const (
	PlayerChar   = '█'
	GroundChar   = '▓'
	PlatformChar = '═'
)

// hudRows is the number of screen rows above the playfield.
const hudRows = 1

// viewport maps world units to screen cells.
type viewport struct {
	sx, sy float64
	dx     int
}

func (v viewport) cell(r core.Rect) (x, y, w, h int) {
	x0 := int(math.Floor(r.X*v.sx)) + v.dx
	y0 := int(math.Floor(r.Y*v.sy)) + hudRows
	x1 := int(math.Ceil(r.Right()*v.sx)) + v.dx
	y1 := int(math.Ceil(r.Bottom()*v.sy)) + hudRows
	return x0, y0, max(x1-x0, 1), max(y1-y0, 1)
}

func (v viewport) point(x, y float64) (int, int) {
	return int(x*v.sx) + v.dx, int(y*v.sy) + hudRows
}

// Render draws the current run to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.ctx == nil || dst.Width() == 0 || dst.Height() <= hudRows {
		return
	}
	ctx := g.ctx

	v := viewport{
		sx: float64(dst.Width()) / g.cfg.World.Width,
		sy: float64(dst.Height()-hudRows) / g.cfg.World.Height,
	}
	if g.hud.Shaking() {
		v.dx = 1
		if (ctx.Now/(50*time.Millisecond))%2 == 1 {
			v.dx = -1
		}
	}

	for _, h := range ctx.World.Bodies(physics.KindPlatform) {
		r, _ := ctx.World.Rect(h)
		x, y, w, hh := v.cell(r)
		ch := PlatformChar
		if r.Bottom() >= g.cfg.World.Height {
			ch = GroundChar
		}
		dst.FillRect(x, y, w, hh, ch, core.ColorGray)
	}

	for _, kind := range []physics.Kind{physics.KindObstacle, physics.KindPowerUp} {
		for _, h := range ctx.World.Bodies(kind) {
			e, ok := ctx.Entities[h]
			if !ok {
				continue
			}
			r, _ := ctx.World.Rect(h)
			x, y, w, hh := v.cell(r)
			ch, c := e.glyph()
			dst.FillRect(x, y, w, hh, ch, c)
		}
	}

	if r, ok := ctx.World.Rect(ctx.Player); ok {
		c := core.ColorCyan
		if tint, ok := g.hud.TintOf(ctx.Player); ok {
			c = tint
		}
		x, y, w, hh := v.cell(r)
		dst.FillRect(x, y, w, hh, PlayerChar, c)
	}

	for _, t := range g.hud.texts {
		x, y := v.point(t.x, t.y)
		dst.DrawTextColor(x-len(t.text)/2, y, t.text, core.ColorYellow)
	}

	g.drawStatus(dst)

	switch g.hud.Overlay() {
	case OverlayPaused:
		drawMessage(dst, "PAUSED", "Press P to resume")
	case OverlayLevelComplete:
		drawMessage(dst, fmt.Sprintf("LEVEL %d COMPLETE", ctx.Run.Level()), "Press Enter for the next level")
	case OverlayGameOver:
		drawMessage(dst, "GAME OVER", "Press R to retry")
	}
}

// drawStatus draws score, health and level on the top row.
func (g *Game) drawStatus(dst *core.Screen) {
	run := g.ctx.Run
	left := fmt.Sprintf(" Score: %d  Level: %d ", run.Score(), run.Level())
	dst.DrawText(1, 0, left)

	bar := healthBar(run.Health(), g.cfg.Combat.MaxHealth, 10)
	x := 1 + len([]rune(left)) + 1
	dst.DrawText(x, 0, "Health:")
	c := core.ColorGreen
	switch {
	case run.Health() <= g.cfg.Combat.MaxHealth/4:
		c = core.ColorRed
	case run.Health() <= g.cfg.Combat.MaxHealth/2:
		c = core.ColorYellow
	}
	dst.DrawTextColor(x+8, 0, bar, c)
	dst.DrawText(x+8+len([]rune(bar))+1, 0, fmt.Sprintf("%d", run.Health()))

	title := " " + g.title + " "
	dst.DrawTextColor(dst.Width()-len(title)-1, 0, title, core.ColorGray)
}

func healthBar(health, maxHealth, width int) string {
	if maxHealth <= 0 {
		maxHealth = 1
	}
	filled := core.Clamp(health*width/maxHealth, 0, width)
	return "[" + strings.Repeat("■", filled) + strings.Repeat("·", width-filled) + "]"
}

// drawMessage draws a message box in the center of the screen.
func drawMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH, core.ColorWhite)
	dst.DrawTextColor(boxX+(boxW-len(title))/2, boxY+1, title, core.ColorYellow)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}
