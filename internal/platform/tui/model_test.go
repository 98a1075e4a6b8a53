package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/career-runner/internal/config"
	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/storage"
)

// scriptedGame records input frames and returns a state the test controls.
type scriptedGame struct {
	frames  []core.InputFrame
	state   core.GameState
	applied []config.RunnerConfig
}

func (g *scriptedGame) ID() string               { return "platformer" }
func (g *scriptedGame) Title() string            { return "Scripted" }
func (g *scriptedGame) Reset(core.RuntimeConfig) {}
func (g *scriptedGame) Render(*core.Screen)      {}
func (g *scriptedGame) State() core.GameState    { return g.state }

func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	g.frames = append(g.frames, in.Clone())
	return core.StepResult{State: g.state}
}

func (g *scriptedGame) ApplyConfig(cfg config.RunnerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.applied = append(g.applied, cfg)
	return nil
}

func (g *scriptedGame) last() core.InputFrame {
	return g.frames[len(g.frames)-1]
}

func newTestModel(g *scriptedGame, store *storage.Store) Model {
	return NewModel(g, Options{
		Store:   store,
		Config:  config.DefaultRunnerConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1},
	})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return model
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModelHeldKeyEmulation(t *testing.T) {
	g := &scriptedGame{state: core.GameState{Level: 1, Health: 100}}
	m := newTestModel(g, nil)

	m = update(t, m, runeKey('d'))
	now := time.Now()

	m = update(t, m, TickMsg(now))
	if f := g.last(); !f.JustPressed(core.ActionRight) || !f.Down(core.ActionRight) {
		t.Errorf("first tick = %+v, expected right pressed", f)
	}

	m = update(t, m, TickMsg(now.Add(100*time.Millisecond)))
	if f := g.last(); f.JustPressed(core.ActionRight) || !f.Down(core.ActionRight) {
		t.Errorf("second tick = %+v, expected right held without a new press", f)
	}

	m = update(t, m, TickMsg(now.Add(2*time.Second)))
	if f := g.last(); f.Down(core.ActionRight) {
		t.Errorf("tick after the hold window = %+v, expected right released", f)
	}
}

func TestModelMomentaryKeys(t *testing.T) {
	g := &scriptedGame{state: core.GameState{Level: 1, Health: 100}}
	m := newTestModel(g, nil)
	now := time.Now()

	m = update(t, m, runeKey('p'))
	m = update(t, m, TickMsg(now))
	m = update(t, m, TickMsg(now.Add(16*time.Millisecond)))

	if !g.frames[0].JustPressed(core.ActionPause) {
		t.Error("pause should be pressed on the first tick")
	}
	if g.frames[1].Down(core.ActionPause) {
		t.Error("pause should be released on the next tick")
	}
}

func TestModelSavesRunOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	g := &scriptedGame{state: core.GameState{Score: 300, Level: 2, Health: 20}}
	m := newTestModel(g, store)
	now := time.Now()

	m = update(t, m, TickMsg(now))
	g.state = core.GameState{Score: 300, Level: 2, Health: 0, GameOver: true}
	for i := 1; i <= 5; i++ {
		m = update(t, m, TickMsg(now.Add(time.Duration(i)*16*time.Millisecond)))
	}

	runs, err := store.TopRuns("platformer", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("saved %d runs, expected 1", len(runs))
	}
	if runs[0].Score != 300 || runs[0].Level != 2 || runs[0].Reason != storage.ReasonGameOver {
		t.Errorf("saved run = %+v, expected score 300 level 2 game_over", runs[0])
	}

	// Retry starts a new run that is saved on its own game over.
	g.state = core.GameState{Score: 0, Level: 1, Health: 100}
	m = update(t, m, TickMsg(now.Add(time.Second)))
	g.state = core.GameState{Score: 150, Level: 1, Health: 0, GameOver: true}
	m = update(t, m, TickMsg(now.Add(2*time.Second)))

	// Quit after game over does not save again.
	update(t, m, runeKey('q'))

	runs, _ = store.TopRuns("platformer", 10)
	if len(runs) != 2 {
		t.Errorf("saved %d runs, expected 2", len(runs))
	}
}

func TestModelAppliesReloadedConfig(t *testing.T) {
	g := &scriptedGame{state: core.GameState{Level: 1, Health: 100}}
	m := newTestModel(g, nil)

	cfg := config.DefaultRunnerConfig()
	cfg.Controls.Right = []string{"l"}
	m = update(t, m, ConfigMsg(cfg))

	if len(g.applied) != 1 {
		t.Fatalf("ApplyConfig() called %d times, expected 1", len(g.applied))
	}
	if m.keys.Action(runeKey('l')) != core.ActionRight {
		t.Error("reloaded controls were not bound")
	}
	if m.keys.Action(runeKey('d')) == core.ActionRight {
		t.Error("old binding should be gone")
	}

	bad := config.DefaultRunnerConfig()
	bad.Spawn.ObstacleMinMs = 0
	bad.Controls.Right = []string{"x"}
	m = update(t, m, ConfigMsg(bad))
	if m.keys.Action(runeKey('l')) != core.ActionRight {
		t.Error("rejected config should keep the previous bindings")
	}
}

func TestKeyMapFromControls(t *testing.T) {
	controls := config.DefaultRunnerConfig().Controls
	controls.Restart = nil
	km := NewKeyMap(controls, nil)

	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionJump},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{runeKey('a'), core.ActionLeft},
		{runeKey('w'), core.ActionUp},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause},
		{runeKey('q'), core.ActionQuit},
		{runeKey('r'), core.ActionNone}, // unbound control is inert
		{runeKey('z'), core.ActionNone},
	}

	for _, tt := range tests {
		if got := km.Action(tt.msg); got != tt.want {
			t.Errorf("Action(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawTextColor(0, 0, "Score", core.ColorYellow)
	s.DrawText(0, 1, "Health")

	out := RenderScreen(s)
	for _, want := range []string{"Score", "Health"} {
		if !containsPlain(out, want) {
			t.Errorf("RenderScreen() = %q, expected it to contain %q", out, want)
		}
	}
}

// containsPlain reports whether s contains want once ANSI escapes are removed.
func containsPlain(s, want string) bool {
	var plain strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEscape = false
		case !inEscape:
			plain.WriteRune(r)
		}
	}
	return strings.Contains(plain.String(), want)
}
