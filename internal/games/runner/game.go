// Package runner implements Career Runner: a side-scrolling runner where the
// player jumps over obstacles and collects power-ups. It is one core
// parameterized by movement mode (platformer jump or free-roam top-down).
package runner

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/career-runner/internal/config"
	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/physics"
	"github.com/vovakirdan/career-runner/internal/registry"
	"github.com/vovakirdan/career-runner/internal/sched"
	"github.com/vovakirdan/career-runner/internal/state"
)

// Stats counts what happened during a Game's lifetime.
type Stats struct {
	ObstaclesSpawned int
	PowerUpsSpawned  int
	Hits             int
	Collected        int
	Jumps            int
	Restarts         int
}

// RunContext holds every piece of mutable per-run data. Only the Game's
// update thread touches it.
type RunContext struct {
	Now    time.Duration // Host clock, always advances
	Timers time.Duration // Clock the timer queue is drained against

	World    Physics
	Player   physics.Handle
	Entities map[physics.Handle]*Entity
	Queue    *sched.Queue[Event]
	RNG      *rand.Rand

	Run     *Machine
	Jump    *Controller
	Spawner *Spawner

	tintTimer sched.TimerID
	stats     Stats
}

// Option customizes a Game.
type Option func(*Game)

// WithPresenter forwards delegated effects to p in addition to the built-in HUD.
func WithPresenter(p Presenter) Option {
	return func(g *Game) {
		g.presenter = fanout{g.hud, p}
	}
}

// WithPhysics replaces the physics collaborator.
func WithPhysics(f PhysicsFactory) Option {
	return func(g *Game) {
		g.newPhysics = f
	}
}

// Game implements registry.Game for one movement mode.
type Game struct {
	mode       string
	title      string
	cfg        config.RunnerConfig
	log        *log.Logger
	sink       core.StateSink
	hud        *HUD
	presenter  Presenter
	newPhysics PhysicsFactory
	runtime    core.RuntimeConfig
	ctx        *RunContext
}

// New creates a game in the given movement mode.
func New(mode string, deps registry.Deps, opts ...Option) *Game {
	cfg := deps.Config
	if cfg.Validate() != nil {
		cfg = config.DefaultRunnerConfig()
	}
	if err := config.ApplyMode(&cfg, mode); err != nil {
		mode = config.ModePlatformer
		cfg.Movement.Mode = mode
	}

	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sink := deps.Sink
	if sink == nil {
		sink = state.NewStore(state.DefaultState())
	}

	g := &Game{
		mode:       mode,
		title:      titleFor(mode),
		cfg:        cfg,
		log:        logger.WithPrefix("runner"),
		sink:       sink,
		hud:        NewHUD(),
		newPhysics: defaultPhysics,
	}
	g.presenter = g.hud
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func titleFor(mode string) string {
	if mode == config.ModeFreeRoam {
		return "Career Runner: Free Roam"
	}
	return "Career Runner"
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return g.mode
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// Config returns the active configuration.
func (g *Game) Config() config.RunnerConfig {
	return g.cfg
}

// HUD returns the built-in presenter.
func (g *Game) HUD() *HUD {
	return g.hud
}

// Reset starts a new run. The initial score, level and health are read once
// from the state sink.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if runtime.TickRate <= 0 {
		runtime.TickRate = 60
	}
	g.runtime = runtime

	rng := rand.New(rand.NewSource(runtime.Seed))
	ctx := &RunContext{
		World:    g.newPhysics(core.NewRect(0, 0, g.cfg.World.Width, g.cfg.World.Height)),
		Entities: make(map[physics.Handle]*Entity),
		Queue:    sched.NewQueue[Event](),
		RNG:      rng,
		Run:      NewMachine(g.sink, g.cfg.Combat.MaxHealth),
		Jump:     NewController(g.cfg),
		Spawner:  NewSpawner(g.cfg, rng),
	}
	g.ctx = ctx

	g.registerCollisions()
	g.bindRunPhases()
	g.createPlatforms()
	ctx.Run.Start(g.sink.Snapshot())
	g.hud.Reset()
	g.resetScene()

	g.log.Info("run started", "mode", g.mode, "seed", runtime.Seed,
		"score", ctx.Run.Score(), "level", ctx.Run.Level(), "health", ctx.Run.Health())
}

// Step advances the run by one fixed tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	return g.Advance(in, time.Second/time.Duration(g.tickRate()))
}

// Advance advances the run by dt. It is the single entry point of the
// per-frame update; timers fire here too, never concurrently.
func (g *Game) Advance(in core.InputFrame, dt time.Duration) core.StepResult {
	if g.ctx == nil {
		g.Reset(core.DefaultConfig())
	}
	ctx := g.ctx
	sig := in.Signal()

	ctx.Now += dt
	if !g.cfg.Spawn.FreezeTimersOnPause || ctx.Run.Phase() == RunPlaying {
		ctx.Timers += dt
	}
	g.hud.Tick(dt)

	switch ctx.Run.Phase() {
	case RunLevelComplete:
		if sig.ConfirmJustPressed {
			g.nextLevel()
		}
	case RunGameOver:
		if sig.RestartJustPressed || sig.ConfirmJustPressed {
			g.retry()
		}
	}

	g.drainTimers()

	if ctx.Run.GameOver() {
		return g.finish()
	}
	if sig.PauseJustPressed {
		g.togglePause()
	}
	if ctx.Run.Phase() != RunPlaying {
		return g.finish()
	}

	if ctx.Jump.Update(ctx.World, ctx.Player, sig, ctx.Now, dt) {
		ctx.stats.Jumps++
		g.presenter.PlaySound(SoundJump)
	}
	ctx.World.Step(dt)
	g.despawnOffscreen()

	return g.finish()
}

func (g *Game) finish() core.StepResult {
	g.ctx.Run.Sanitize()
	return core.StepResult{State: g.State()}
}

// State returns the current run state.
func (g *Game) State() core.GameState {
	if g.ctx == nil {
		return state.DefaultState()
	}
	return g.ctx.Run.State()
}

// Stats returns counters for the game's lifetime.
func (g *Game) Stats() Stats {
	if g.ctx == nil {
		return Stats{}
	}
	return g.ctx.stats
}

// Elapsed returns the host clock.
func (g *Game) Elapsed() time.Duration {
	if g.ctx == nil {
		return 0
	}
	return g.ctx.Now
}

// ApplyConfig swaps tunables mid-run. The movement mode is fixed per game;
// world size and player size apply from the next reset.
func (g *Game) ApplyConfig(cfg config.RunnerConfig) error {
	cfg.Movement.Mode = g.mode
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg
	if g.ctx != nil {
		g.ctx.Jump.Configure(cfg)
		g.ctx.Spawner.Configure(cfg)
		g.ctx.Run.SetMaxHealth(cfg.Combat.MaxHealth)
	}
	g.log.Info("config applied")
	return nil
}

func (g *Game) tickRate() int {
	if g.runtime.TickRate <= 0 {
		return 60
	}
	return g.runtime.TickRate
}

func (g *Game) freeRoam() bool {
	return g.mode == config.ModeFreeRoam
}

// createPlatforms adds the ground and the floating platforms.
// Free roam has neither.
func (g *Game) createPlatforms() {
	if g.freeRoam() {
		return
	}
	w := g.cfg.World
	g.ctx.World.CreateBody(physics.BodySpec{
		Kind:   physics.KindPlatform,
		Rect:   core.NewRect(0, w.Height-w.GroundHeight, w.Width, w.GroundHeight),
		Static: true,
	})
	for _, p := range w.Platforms {
		g.ctx.World.CreateBody(physics.BodySpec{
			Kind:   physics.KindPlatform,
			Rect:   core.NewRect(p.X, p.Y, p.Width, p.Height),
			Static: true,
		})
	}
}

func (g *Game) playerSpec() physics.BodySpec {
	p := g.cfg.Player
	return physics.BodySpec{
		Kind:               physics.KindPlayer,
		Rect:               core.NewRect(p.X, p.Y, p.Width, p.Height),
		Gravity:            g.cfg.Gravity.Rise,
		AllowGravity:       !g.freeRoam(),
		CollideWorldBounds: true,
	}
}

// resetScene is the single restart operation: it cancels every timer,
// destroys every entity, re-places the player, resumes the simulation and
// re-arms both spawners.
func (g *Game) resetScene() {
	ctx := g.ctx

	ctx.Queue.Clear()
	ctx.tintTimer = 0

	for h := range ctx.Entities {
		ctx.World.DestroyBody(h)
	}
	ctx.Entities = make(map[physics.Handle]*Entity)

	if ctx.Player != 0 {
		g.presenter.ClearTint(ctx.Player)
		ctx.World.DestroyBody(ctx.Player)
	}
	ctx.Player = ctx.World.CreateBody(g.playerSpec())
	ctx.Jump.Reset()

	g.presenter.ShowOverlay(OverlayNone)
	ctx.World.Resume()

	g.armObstacle(ctx.Timers)
	g.armPowerUp(ctx.Timers)
}

// bindRunPhases hooks the scene into the run chart: entering a phase
// pauses or resumes the world, switches the overlay and resets the scene.
func (g *Game) bindRunPhases() {
	ctx := g.ctx
	run := ctx.Run

	run.OnEnter(RunPaused, func(RunPhase, RunTrigger) {
		ctx.World.Pause()
		g.presenter.ShowOverlay(OverlayPaused)
	})
	run.OnEnter(RunPlaying, func(_ RunPhase, tr RunTrigger) {
		switch tr {
		case TriggerResume:
			ctx.World.Resume()
			g.presenter.ShowOverlay(OverlayNone)
		case TriggerRetry:
			ctx.stats.Restarts++
			g.resetScene()
		case TriggerNextLevel:
			g.resetScene()
		}
	})
	run.OnEnter(RunGameOver, func(RunPhase, RunTrigger) {
		ctx.World.Pause()
		g.presenter.ShowOverlay(OverlayGameOver)
		g.presenter.PlaySound(SoundGameOver)
	})
	run.OnEnter(RunLevelComplete, func(RunPhase, RunTrigger) {
		ctx.World.Pause()
		g.presenter.ShowOverlay(OverlayLevelComplete)
		g.presenter.PlaySound(SoundLevelComplete)
	})
}

func (g *Game) retry() {
	if err := g.ctx.Run.Retry(); err != nil {
		g.log.Debug("retry ignored", "err", err)
		return
	}
	g.log.Info("run restarted")
}

func (g *Game) nextLevel() {
	if err := g.ctx.Run.NextLevel(); err != nil {
		g.log.Debug("next level ignored", "err", err)
		return
	}
	g.log.Info("level started", "level", g.ctx.Run.Level())
}

func (g *Game) togglePause() {
	if err := g.ctx.Run.TogglePause(); err != nil {
		g.log.Debug("pause ignored", "err", err)
		return
	}
	g.log.Debug("pause toggled", "paused", g.ctx.Run.Paused())
}

func (g *Game) gameOver() {
	ctx := g.ctx
	if err := ctx.Run.EnterGameOver(); err != nil {
		g.log.Debug("game over ignored", "err", err)
		return
	}
	g.log.Info("game over", "score", ctx.Run.Score(), "level", ctx.Run.Level())
}

func (g *Game) levelComplete() {
	ctx := g.ctx
	if err := ctx.Run.EnterLevelComplete(); err != nil {
		g.log.Debug("level complete ignored", "err", err)
		return
	}
	g.log.Info("level complete", "score", ctx.Run.Score(), "level", ctx.Run.Level())
}

// fanout forwards effects to several presenters.
type fanout []Presenter

func (f fanout) PlaySound(s Sound) {
	for _, p := range f {
		p.PlaySound(s)
	}
}

func (f fanout) Tint(h physics.Handle, c core.Color) {
	for _, p := range f {
		p.Tint(h, c)
	}
}

func (f fanout) ClearTint(h physics.Handle) {
	for _, p := range f {
		p.ClearTint(h)
	}
}

func (f fanout) Shake(d time.Duration) {
	for _, p := range f {
		p.Shake(d)
	}
}

func (f fanout) FloatingText(x, y float64, text string) {
	for _, p := range f {
		p.FloatingText(x, y, text)
	}
}

func (f fanout) ShowOverlay(o Overlay) {
	for _, p := range f {
		p.ShowOverlay(o)
	}
}

func init() {
	registry.Register(config.ModePlatformer, titleFor(config.ModePlatformer), func(deps registry.Deps) registry.Game {
		return New(config.ModePlatformer, deps)
	})
	registry.Register(config.ModeFreeRoam, titleFor(config.ModeFreeRoam), func(deps registry.Deps) registry.Game {
		return New(config.ModeFreeRoam, deps)
	})
}
