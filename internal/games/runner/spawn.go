package runner

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/career-runner/internal/config"
	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/physics"
	"github.com/vovakirdan/career-runner/internal/sched"
)

// EventKind is the kind of a queued timer event.
type EventKind int

const (
	EventSpawnObstacle EventKind = iota
	EventSpawnPowerUp
	EventExpire          // time-to-live reached for Target
	EventClearTint       // end of the hit/collect tint on Target
	EventNetworkingBoost // delayed velocity multiplier on the player
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventSpawnObstacle:
		return "spawn_obstacle"
	case EventSpawnPowerUp:
		return "spawn_powerup"
	case EventExpire:
		return "expire"
	case EventClearTint:
		return "clear_tint"
	case EventNetworkingBoost:
		return "networking_boost"
	default:
		return "unknown"
	}
}

// Event is the payload of a timer queue entry.
type Event struct {
	Kind   EventKind
	Target physics.Handle
}

// Spawner decides when, what and where entities spawn. It draws from the
// run's RNG so a seed reproduces a run.
type Spawner struct {
	cfg config.RunnerConfig
	rng *rand.Rand
}

// NewSpawner creates a spawner.
func NewSpawner(cfg config.RunnerConfig, rng *rand.Rand) *Spawner {
	return &Spawner{cfg: cfg, rng: rng}
}

// Configure replaces the tunables.
func (s *Spawner) Configure(cfg config.RunnerConfig) {
	s.cfg = cfg
}

// ObstacleDelay returns a uniform delay in the obstacle window.
func (s *Spawner) ObstacleDelay() time.Duration {
	return s.delay(s.cfg.Spawn.ObstacleMinMs, s.cfg.Spawn.ObstacleMaxMs)
}

// PowerUpDelay returns a uniform delay in the power-up window.
func (s *Spawner) PowerUpDelay() time.Duration {
	return s.delay(s.cfg.Spawn.PowerUpMinMs, s.cfg.Spawn.PowerUpMaxMs)
}

// delay picks a whole number of milliseconds in [minMs, maxMs].
func (s *Spawner) delay(minMs, maxMs int) time.Duration {
	if maxMs < minMs {
		maxMs = minMs
	}
	return time.Duration(minMs+s.rng.Intn(maxMs-minMs+1)) * time.Millisecond
}

// PickObstacle returns a uniformly random obstacle subtype.
func (s *Spawner) PickObstacle() ObstacleType {
	return ObstacleType(s.rng.Intn(int(obstacleTypeCount)))
}

// PickPowerUp returns a uniformly random power-up subtype.
func (s *Spawner) PickPowerUp() PowerUpType {
	return PowerUpType(s.rng.Intn(int(powerUpTypeCount)))
}

// Position returns a spawn center: the right edge of the playfield at a
// uniformly random height within the play band.
func (s *Spawner) Position() core.Vec {
	w := s.cfg.World
	lo := int(w.BandMargin)
	hi := int(w.Height - w.BandMargin)
	if hi < lo {
		hi = lo
	}
	return core.Vec{X: w.Width, Y: float64(lo + s.rng.Intn(hi-lo+1))}
}

// Velocity returns the initial velocity of a new entity: constant scroll to
// the left, or a random 2D velocity in free roam.
func (s *Spawner) Velocity() core.Vec {
	if s.cfg.Movement.Mode == config.ModeFreeRoam {
		f := s.cfg.Spawn.FreeRoamSpeed
		return core.Vec{
			X: (s.rng.Float64()*2 - 1) * f,
			Y: (s.rng.Float64()*2 - 1) * f,
		}
	}
	return core.Vec{X: -s.cfg.World.ScrollSpeed}
}

// BodySpec builds the body of a new entity of the given kind.
func (s *Spawner) BodySpec(kind physics.Kind) physics.BodySpec {
	size := s.cfg.Spawn.EntitySize
	center := s.Position()
	spec := physics.BodySpec{
		Kind:     kind,
		Rect:     core.NewRect(center.X-size/2, center.Y-size/2, size, size),
		Velocity: s.Velocity(),
	}
	if s.cfg.Movement.Mode == config.ModeFreeRoam {
		spec.CollideWorldBounds = true
		spec.Bounce = 1
	}
	return spec
}

func (g *Game) armObstacle(from time.Duration) sched.TimerID {
	return g.ctx.Queue.Schedule(from+g.ctx.Spawner.ObstacleDelay(), Event{Kind: EventSpawnObstacle})
}

func (g *Game) armPowerUp(from time.Duration) sched.TimerID {
	return g.ctx.Queue.Schedule(from+g.ctx.Spawner.PowerUpDelay(), Event{Kind: EventSpawnPowerUp})
}

// drainTimers fires every due timer in FireAt order. Handlers may schedule
// more timers; those fire in the same drain if already due.
func (g *Game) drainTimers() {
	for {
		e, ok := g.ctx.Queue.PopDue(g.ctx.Timers)
		if !ok {
			return
		}
		g.fire(e)
	}
}

func (g *Game) fire(e sched.Entry[Event]) {
	ctx := g.ctx
	switch e.Payload.Kind {
	case EventSpawnObstacle:
		g.spawnObstacle(e.FireAt)
	case EventSpawnPowerUp:
		g.spawnPowerUp(e.FireAt)
	case EventExpire:
		if _, ok := ctx.Entities[e.Payload.Target]; ok {
			g.log.Debug("entity expired", "handle", e.Payload.Target)
			g.destroyEntity(e.Payload.Target)
		}
	case EventClearTint:
		ctx.tintTimer = 0
		if ctx.World.Exists(e.Payload.Target) {
			g.presenter.ClearTint(e.Payload.Target)
		}
	case EventNetworkingBoost:
		g.applyBoost()
	}
}

// spawnObstacle creates an obstacle and re-arms. Nothing spawns or re-arms
// once the run is over.
func (g *Game) spawnObstacle(at time.Duration) {
	ctx := g.ctx
	if ctx.Run.GameOver() {
		g.log.Debug("obstacle spawn skipped", "reason", "game over")
		return
	}

	subtype := ctx.Spawner.PickObstacle()
	h := ctx.World.CreateBody(ctx.Spawner.BodySpec(physics.KindObstacle))
	ctx.Entities[h] = &Entity{Handle: h, Kind: EntityObstacle, Obstacle: subtype, SpawnedAt: at}
	if g.freeRoam() {
		// Bouncing obstacles never leave the playfield.
		ctx.Queue.Schedule(at+g.cfg.Spawn.PowerUpTTL(), Event{Kind: EventExpire, Target: h})
	}
	ctx.stats.ObstaclesSpawned++
	g.log.Debug("spawned", "kind", EntityObstacle, "subtype", subtype, "handle", h)

	g.armObstacle(at)
}

// spawnPowerUp creates a power-up with a time to live and re-arms.
func (g *Game) spawnPowerUp(at time.Duration) {
	ctx := g.ctx
	if ctx.Run.GameOver() {
		g.log.Debug("power-up spawn skipped", "reason", "game over")
		return
	}

	subtype := ctx.Spawner.PickPowerUp()
	h := ctx.World.CreateBody(ctx.Spawner.BodySpec(physics.KindPowerUp))
	ctx.Entities[h] = &Entity{Handle: h, Kind: EntityPowerUp, PowerUp: subtype, SpawnedAt: at}
	ctx.Queue.Schedule(at+g.cfg.Spawn.PowerUpTTL(), Event{Kind: EventExpire, Target: h})
	ctx.stats.PowerUpsSpawned++
	g.log.Debug("spawned", "kind", EntityPowerUp, "subtype", subtype, "handle", h)

	g.armPowerUp(at)
}

// despawnOffscreen removes entities that passed the left edge by their own width.
func (g *Game) despawnOffscreen() {
	ctx := g.ctx
	for _, kind := range []physics.Kind{physics.KindObstacle, physics.KindPowerUp} {
		for _, h := range ctx.World.Bodies(kind) {
			r, ok := ctx.World.Rect(h)
			if !ok || r.X >= -r.W {
				continue
			}
			g.log.Debug("despawned", "kind", kind, "handle", h)
			g.destroyEntity(h)
		}
	}
}

// destroyEntity removes an entity and its body. Unknown handles are ignored.
func (g *Game) destroyEntity(h physics.Handle) {
	delete(g.ctx.Entities, h)
	g.ctx.World.DestroyBody(h)
}

// EntityView is a read-only view of a live entity.
type EntityView struct {
	Kind EntityKind
	Name string
	Rect core.Rect
}

// Entities returns the live entities, obstacles first, each kind in spawn order.
func (g *Game) Entities() []EntityView {
	if g.ctx == nil {
		return nil
	}
	var out []EntityView
	for _, kind := range []physics.Kind{physics.KindObstacle, physics.KindPowerUp} {
		for _, h := range g.ctx.World.Bodies(kind) {
			e, ok := g.ctx.Entities[h]
			if !ok {
				continue
			}
			r, _ := g.ctx.World.Rect(h)
			out = append(out, EntityView{Kind: e.Kind, Name: e.Name(), Rect: r})
		}
	}
	return out
}

// Player returns the player's bounding box and whether it is grounded.
func (g *Game) Player() (core.Rect, bool) {
	if g.ctx == nil {
		return core.Rect{}, false
	}
	r, _ := g.ctx.World.Rect(g.ctx.Player)
	return r, g.ctx.World.QueryGrounded(g.ctx.Player)
}
