package main

import (
	"math"

	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/games/runner"
)

// autopilot plays a run without a human. It jumps obstacles that are about
// to reach the player and drifts towards the nearest power-up.
type autopilot struct {
	freeRoam  bool
	lookahead float64 // World units in front of the player that count as a threat
	maxHold   int     // Frames the jump key is held for a full jump
	holding   int
}

func newAutopilot(freeRoam bool) *autopilot {
	return &autopilot{freeRoam: freeRoam, lookahead: 140, maxHold: 14}
}

// next returns the actions to hold this frame.
func (a *autopilot) next(player core.Rect, grounded bool, entities []runner.EntityView) []core.Action {
	threat, hasThreat := a.threat(player, entities)
	target, hasTarget := nearestPowerUp(player, entities)

	if a.freeRoam {
		return a.roam(player, threat, hasThreat, target, hasTarget)
	}

	var acts []core.Action
	switch {
	case a.holding > 0:
		a.holding++
		if a.holding > a.maxHold || (grounded && a.holding > 2) {
			a.holding = 0
		} else {
			acts = append(acts, core.ActionJump)
		}
	case grounded && hasThreat:
		a.holding = 1
		acts = append(acts, core.ActionJump)
	}

	if hasTarget {
		acts = append(acts, steer(player.Center().X, target.Center().X, core.ActionLeft, core.ActionRight)...)
	}
	return acts
}

// roam moves vertically out of the way of threats, otherwise towards power-ups.
func (a *autopilot) roam(player, threat core.Rect, hasThreat bool, target core.Rect, hasTarget bool) []core.Action {
	pc := player.Center()
	switch {
	case hasThreat:
		if threat.Center().Y > pc.Y {
			return []core.Action{core.ActionUp}
		}
		return []core.Action{core.ActionDown}
	case hasTarget:
		tc := target.Center()
		acts := steer(pc.X, tc.X, core.ActionLeft, core.ActionRight)
		return append(acts, steer(pc.Y, tc.Y, core.ActionUp, core.ActionDown)...)
	}
	return nil
}

// threat returns the closest obstacle ahead of the player that shares its rows.
func (a *autopilot) threat(player core.Rect, entities []runner.EntityView) (core.Rect, bool) {
	best, found := core.Rect{}, false
	for _, e := range entities {
		if e.Kind != runner.EntityObstacle {
			continue
		}
		r := e.Rect
		if r.Bottom() <= player.Y || r.Y >= player.Bottom() {
			continue
		}
		gap := r.X - player.Right()
		if r.Right() < player.X || gap > a.lookahead {
			continue
		}
		if !found || r.X < best.X {
			best, found = r, true
		}
	}
	return best, found
}

func nearestPowerUp(player core.Rect, entities []runner.EntityView) (core.Rect, bool) {
	pc := player.Center()
	best, found, bestDist := core.Rect{}, false, math.Inf(1)
	for _, e := range entities {
		if e.Kind != runner.EntityPowerUp {
			continue
		}
		c := e.Rect.Center()
		if d := math.Hypot(c.X-pc.X, c.Y-pc.Y); d < bestDist {
			best, found, bestDist = e.Rect, true, d
		}
	}
	return best, found
}

// steer returns less or more when to is outside a small dead zone around from.
func steer(from, to float64, less, more core.Action) []core.Action {
	const deadZone = 8
	switch {
	case to < from-deadZone:
		return []core.Action{less}
	case to > from+deadZone:
		return []core.Action{more}
	}
	return nil
}
