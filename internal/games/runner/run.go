package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/comalice/statechartx"

	"github.com/vovakirdan/career-runner/internal/core"
)

// ErrIllegalTransition is returned when a run transition is not allowed from
// the current phase. Callers log and drop it; a frame always completes.
var ErrIllegalTransition = errors.New("runner: illegal transition")

// RunPhase is the phase of the current run.
type RunPhase int

const (
	RunPlaying RunPhase = iota
	RunPaused
	RunLevelComplete
	RunGameOver
)

// String returns the phase name used in GameState.Phase.
func (p RunPhase) String() string {
	switch p {
	case RunPlaying:
		return "playing"
	case RunPaused:
		return "paused"
	case RunLevelComplete:
		return "level_complete"
	case RunGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// RunTrigger is an event that moves the run between phases.
type RunTrigger int

const (
	TriggerStart RunTrigger = iota // entering the initial phase
	TriggerPause
	TriggerResume
	TriggerComplete
	TriggerNextLevel
	TriggerGameOver
	TriggerRetry
)

var triggerNames = [...]string{
	TriggerStart:     "start",
	TriggerPause:     "pause",
	TriggerResume:    "resume",
	TriggerComplete:  "complete",
	TriggerNextLevel: "next level",
	TriggerGameOver:  "game over",
	TriggerRetry:     "retry",
}

// String returns the trigger name.
func (t RunTrigger) String() string {
	if t < 0 || int(t) >= len(triggerNames) {
		return "unknown"
	}
	return triggerNames[t]
}

// runEdges is the run chart: phase --trigger--> phase.
var runEdges = []struct {
	from    RunPhase
	trigger RunTrigger
	to      RunPhase
}{
	{RunPlaying, TriggerPause, RunPaused},
	{RunPlaying, TriggerComplete, RunLevelComplete},
	{RunPlaying, TriggerGameOver, RunGameOver},
	{RunPaused, TriggerResume, RunPlaying},
	{RunLevelComplete, TriggerNextLevel, RunPlaying},
	{RunGameOver, TriggerRetry, RunPlaying},
}

// newRunChart builds one chart state per phase. enter, when set, runs as
// the entry action of every state.
func newRunChart(enter func(from, to RunPhase, tr RunTrigger)) (*statechartx.Machine, map[RunPhase]*statechartx.State, error) {
	states := map[RunPhase]*statechartx.State{
		RunPlaying:       {ID: statechartx.StateID(RunPlaying), Initial: true},
		RunPaused:        {ID: statechartx.StateID(RunPaused)},
		RunLevelComplete: {ID: statechartx.StateID(RunLevelComplete)},
		RunGameOver:      {ID: statechartx.StateID(RunGameOver)},
	}
	for _, e := range runEdges {
		states[e.from].On(statechartx.Event{ID: statechartx.EventID(e.trigger)}, states[e.to], nil, nil)
	}

	if enter != nil {
		for _, st := range states {
			st.OnEntry(func(_ context.Context, evt *statechartx.Event, from, to statechartx.StateID) error {
				tr := TriggerStart
				if evt != nil {
					tr = RunTrigger(evt.ID)
				}
				enter(RunPhase(from), RunPhase(to), tr)
				return nil
			})
		}
	}

	chart, err := statechartx.NewMachine(
		states[RunPlaying], states[RunPaused], states[RunLevelComplete], states[RunGameOver],
	)
	return chart, states, err
}

// legalStates is a chart without actions, used to answer CanTransition.
var _, legalStates, _ = newRunChart(nil)

// CanTransition reports whether from -> to is legal.
func CanTransition(from, to RunPhase) bool {
	st, ok := legalStates[from]
	if !ok {
		return false
	}
	for _, t := range st.Transitions {
		if t.Target != nil && t.Target.ID == statechartx.StateID(to) {
			return true
		}
	}
	return false
}

// PhaseHook runs after the machine has entered a phase.
type PhaseHook func(from RunPhase, tr RunTrigger)

// Machine owns score, level, health and the run phase. Phase changes go
// through a statechart; the entry actions update the run and push every
// mutation to the sink, then run the hooks registered for the phase.
type Machine struct {
	chart     *statechartx.Machine
	states    map[RunPhase]*statechartx.State
	hooks     map[RunPhase][]PhaseHook
	phase     RunPhase
	score     int
	level     int
	health    int
	maxHealth int
	sink      core.StateSink

	gameOvers      int
	levelCompletes int
}

// NewMachine creates a machine pushing to sink.
func NewMachine(sink core.StateSink, maxHealth int) *Machine {
	if maxHealth <= 0 {
		maxHealth = 100
	}
	return &Machine{
		sink:      sink,
		maxHealth: maxHealth,
		level:     1,
		health:    maxHealth,
		hooks:     make(map[RunPhase][]PhaseHook),
	}
}

// OnEnter registers a hook that runs every time the machine enters phase.
func (m *Machine) OnEnter(phase RunPhase, hook PhaseHook) {
	m.hooks[phase] = append(m.hooks[phase], hook)
}

// SetMaxHealth changes the health cap. Current health is clamped.
func (m *Machine) SetMaxHealth(maxHealth int) {
	if maxHealth <= 0 {
		return
	}
	m.maxHealth = maxHealth
	m.health = core.Clamp(m.health, 0, maxHealth)
}

// Start begins a run from the sink's snapshot. A finished or dead snapshot
// starts a fresh run; anything out of range is clamped.
func (m *Machine) Start(snapshot core.GameState) {
	if snapshot.GameOver || snapshot.Health <= 0 {
		m.score, m.level, m.health = 0, 1, m.maxHealth
	} else {
		m.score = max(snapshot.Score, 0)
		m.level = max(snapshot.Level, 1)
		m.health = core.Clamp(snapshot.Health, 1, m.maxHealth)
	}

	chart, states, err := newRunChart(m.enter)
	if err != nil {
		// The chart is static; NewMachine only fails on a malformed one.
		panic(fmt.Sprintf("runner: building run chart: %v", err))
	}
	m.chart, m.states = chart, states
	m.phase = RunPlaying
	_ = m.chart.Start(context.Background())
	m.pushAll()
}

// Phase returns the current phase.
func (m *Machine) Phase() RunPhase { return m.phase }

// Score returns the current score.
func (m *Machine) Score() int { return m.score }

// Level returns the current level.
func (m *Machine) Level() int { return m.level }

// Health returns the current health. It may be negative between an obstacle
// hit and the game-over transition of the same callback.
func (m *Machine) Health() int { return m.health }

// GameOver reports whether the run has ended.
func (m *Machine) GameOver() bool { return m.phase == RunGameOver }

// Paused reports whether the run is paused.
func (m *Machine) Paused() bool { return m.phase == RunPaused }

// GameOvers counts game-over transitions since the machine was created.
func (m *Machine) GameOvers() int { return m.gameOvers }

// LevelCompletes counts level-complete transitions since the machine was created.
func (m *Machine) LevelCompletes() int { return m.levelCompletes }

// State returns the run state.
func (m *Machine) State() core.GameState {
	return core.GameState{
		Score:    m.score,
		Level:    m.level,
		Health:   m.health,
		GameOver: m.phase == RunGameOver,
		Paused:   m.phase == RunPaused,
		Phase:    m.phase.String(),
	}
}

// AddScore adds a non-negative amount.
func (m *Machine) AddScore(delta int) {
	if delta > 0 {
		m.score += delta
	}
}

// Heal adds health, capped at max health.
func (m *Machine) Heal(delta int) {
	if delta > 0 {
		m.health = min(m.health+delta, m.maxHealth)
	}
}

// Damage removes health without clamping. The caller checks for game over.
func (m *Machine) Damage(delta int) {
	if delta > 0 {
		m.health -= delta
	}
}

// PushVitals pushes {health, score}.
func (m *Machine) PushVitals() {
	m.push(core.StatePatch{
		Health: core.IntPtr(max(m.health, 0)),
		Score:  core.IntPtr(m.score),
	})
}

// Sanitize restores the health invariants after a frame.
func (m *Machine) Sanitize() {
	if m.phase == RunGameOver {
		m.health = 0
		return
	}
	m.health = core.Clamp(m.health, 0, m.maxHealth)
}

// TogglePause flips between Playing and Paused.
func (m *Machine) TogglePause() error {
	if m.phase == RunPaused {
		return m.send(TriggerResume)
	}
	return m.send(TriggerPause)
}

// EnterGameOver ends the run and forces health to zero.
func (m *Machine) EnterGameOver() error {
	return m.send(TriggerGameOver)
}

// EnterLevelComplete marks the level as complete.
func (m *Machine) EnterLevelComplete() error {
	return m.send(TriggerComplete)
}

// Retry starts a fresh run after game over.
func (m *Machine) Retry() error {
	return m.send(TriggerRetry)
}

// NextLevel continues after a completed level. Score and health reset,
// level increments.
func (m *Machine) NextLevel() error {
	return m.send(TriggerNextLevel)
}

// send fires tr on the chart. The chart ignores events the current phase
// has no transition for; those are reported as ErrIllegalTransition.
func (m *Machine) send(tr RunTrigger) error {
	if m.chart == nil {
		m.Start(core.GameState{Level: 1, Health: m.maxHealth})
	}
	if !m.accepts(tr) {
		return fmt.Errorf("%w: %s from %s", ErrIllegalTransition, tr, m.phase)
	}
	return m.chart.Send(context.Background(), statechartx.Event{ID: statechartx.EventID(tr)})
}

func (m *Machine) accepts(tr RunTrigger) bool {
	for _, t := range m.states[m.phase].Transitions {
		if t.Event.ID == statechartx.EventID(tr) {
			return true
		}
	}
	return false
}

// enter is the entry action of every phase.
func (m *Machine) enter(from, to RunPhase, tr RunTrigger) {
	m.phase = to

	switch tr {
	case TriggerGameOver:
		m.health = 0
		m.gameOvers++
		m.push(core.StatePatch{GameOver: core.BoolPtr(true), Health: core.IntPtr(0)})
	case TriggerComplete:
		m.levelCompletes++
	case TriggerRetry:
		m.score, m.level, m.health = 0, 1, m.maxHealth
		m.pushAll()
	case TriggerNextLevel:
		m.score, m.health = 0, m.maxHealth
		m.level++
		m.pushAll()
	}

	for _, hook := range m.hooks[to] {
		hook(from, tr)
	}
}

func (m *Machine) pushAll() {
	m.push(core.StatePatch{
		Score:    core.IntPtr(m.score),
		Level:    core.IntPtr(m.level),
		Health:   core.IntPtr(m.health),
		GameOver: core.BoolPtr(false),
	})
}

func (m *Machine) push(p core.StatePatch) {
	if m.sink != nil {
		m.sink.PushState(p)
	}
}
