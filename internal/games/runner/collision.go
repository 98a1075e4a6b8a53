package runner

import (
	"fmt"

	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/physics"
)

// registerCollisions wires the world's pair callbacks to the resolver.
func (g *Game) registerCollisions() {
	w := g.ctx.World
	w.OnCollide(physics.KindPlayer, physics.KindPlatform, nil)
	w.OnCollide(physics.KindPlayer, physics.KindObstacle, g.onObstacleHit)
	w.OnOverlap(physics.KindPlayer, physics.KindPowerUp, g.onPowerUpCollected)
}

// onObstacleHit applies damage for touching an obstacle. The obstacle is
// consumed. Hits outside Playing, or on an entity that is already gone, do
// nothing.
func (g *Game) onObstacleHit(player, obstacle physics.Handle) {
	ctx := g.ctx
	ent, ok := ctx.Entities[obstacle]
	if !ok || ent.Kind != EntityObstacle || ctx.Run.Phase() != RunPlaying {
		return
	}

	ctx.Run.Damage(g.cfg.Combat.ObstacleDamage)
	ctx.stats.Hits++

	g.tint(player, core.ColorRed)
	g.presenter.Shake(g.cfg.Combat.Shake())
	g.presenter.PlaySound(SoundHit)
	g.destroyEntity(obstacle)
	ctx.Run.PushVitals()

	g.log.Debug("obstacle hit", "subtype", ent.Obstacle, "health", ctx.Run.Health())

	if ctx.Run.Health() <= 0 {
		g.gameOver()
	}
}

// onPowerUpCollected applies a power-up's effect and checks for level
// completion.
func (g *Game) onPowerUpCollected(player, powerUp physics.Handle) {
	ctx := g.ctx
	ent, ok := ctx.Entities[powerUp]
	if !ok || ent.Kind != EntityPowerUp || ctx.Run.Phase() != RunPlaying {
		return
	}

	effect := EffectOf(ent.PowerUp)
	ctx.Run.AddScore(effect.Score)
	ctx.Run.Heal(effect.Health)
	if effect.Boost {
		ctx.Queue.Schedule(ctx.Timers+g.cfg.Combat.NetworkingDelay(), Event{Kind: EventNetworkingBoost})
	}
	ctx.stats.Collected++

	g.tint(player, core.ColorGreen)
	r, _ := ctx.World.Rect(powerUp)
	g.destroyEntity(powerUp)
	center := r.Center()
	g.presenter.FloatingText(center.X, center.Y, fmt.Sprintf("+%d", ctx.Run.Score()))
	g.presenter.PlaySound(SoundCollect)
	ctx.Run.PushVitals()

	g.log.Debug("power-up collected", "subtype", ent.PowerUp, "score", ctx.Run.Score(), "health", ctx.Run.Health())

	if ctx.Run.Score() >= g.cfg.Level.ScoreThreshold {
		g.levelComplete()
	}
}

// tint colors h and schedules the tint to clear. A newer tint replaces the
// pending clear of an older one.
func (g *Game) tint(h physics.Handle, c core.Color) {
	ctx := g.ctx
	g.presenter.Tint(h, c)
	if ctx.tintTimer != 0 {
		ctx.Queue.Cancel(ctx.tintTimer)
	}
	ctx.tintTimer = ctx.Queue.Schedule(ctx.Timers+g.cfg.Combat.Tint(), Event{Kind: EventClearTint, Target: h})
}

// applyBoost multiplies the player's current velocity.
func (g *Game) applyBoost() {
	ctx := g.ctx
	if !ctx.World.Exists(ctx.Player) {
		return
	}
	v := ctx.World.Velocity(ctx.Player)
	ctx.World.SetVelocity(ctx.Player, v.Scale(g.cfg.Combat.NetworkingMultiplier))
	g.log.Debug("networking boost applied", "vx", v.X, "vy", v.Y)
}
