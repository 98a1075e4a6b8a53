package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/career-runner/internal/config"
	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/registry"
	"github.com/vovakirdan/career-runner/internal/storage"
)

// helpRows is the number of rows reserved under the playfield.
const helpRows = 1

// Options configures a Model.
type Options struct {
	Store   *storage.Store             // Run history; nil disables saving
	Logger  *log.Logger                // Host logger; nil discards
	Config  config.RunnerConfig        // Controls and tunables
	Runtime core.RuntimeConfig         // Screen size, tick rate, seed
	Updates <-chan config.RunnerConfig // Optional hot-reloaded configs
}

// ConfigMsg carries a reloaded configuration.
type ConfigMsg config.RunnerConfig

// Model is the Bubble Tea model that hosts one runner game.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	store     *storage.Store
	logger    *log.Logger
	runtime   core.RuntimeConfig
	keys      KeyMap
	help      help.Model
	hold      *holdState
	tracker   *core.InputTracker
	updates   <-chan config.RunnerConfig
	gameState core.GameState
	lastTick  time.Time
	runTime   time.Duration
	quitting  bool
	runSaved  bool // Whether the current run has been saved
}

// NewModel creates a Bubble Tea model for the given game.
func NewModel(game registry.Game, opts Options) Model {
	cfg := opts.Runtime
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.ShowAll = false

	return Model{
		game:    game,
		screen:  core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-helpRows, 1)),
		store:   opts.Store,
		logger:  logger,
		runtime: cfg,
		keys:    NewKeyMap(opts.Config.Controls, logger),
		help:    h,
		hold:    newHoldState(),
		tracker: core.NewInputTracker(),
		updates: opts.Updates,
	}
}

// Init starts the game, the tick loop and the config listener.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.runtime)
	// Note: gameState will be set on first tick (value receiver limitation)

	return tea.Batch(tickCmd(m.runtime.TickRate), waitForConfig(m.updates))
}

// waitForConfig returns a command that delivers the next reloaded config.
func waitForConfig(updates <-chan config.RunnerConfig) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-updates
		if !ok {
			return nil
		}
		return ConfigMsg(cfg)
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case ConfigMsg:
		return m.handleConfig(config.RunnerConfig(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	switch a := m.keys.Action(msg); a {
	case core.ActionQuit:
		m.saveRun(storage.ReasonQuit)
		m.quitting = true
		return m, tea.Quit
	case core.ActionNone:
	default:
		m.hold.press(a, time.Now())
	}

	return m, nil
}

// handleResize resizes the screen buffer. The game scales its world to
// whatever screen it renders into, so the run continues.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.runtime.ScreenW = msg.Width
	m.runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-helpRows, 1))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick runs one simulation tick with the currently held controls.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	frame := m.tracker.Next(m.hold.active(now)...)
	wasOver := m.gameState.GameOver
	result := m.game.Step(frame)
	m.gameState = result.State

	if !m.gameState.Paused && !m.gameState.GameOver && !m.lastTick.IsZero() {
		m.runTime += now.Sub(m.lastTick)
	}
	m.lastTick = now

	switch {
	case m.gameState.GameOver && !wasOver:
		m.saveRun(storage.ReasonGameOver)
	case !m.gameState.GameOver && wasOver:
		// Retried inside the game: a new run starts.
		m.runSaved = false
		m.runTime = 0
	}

	return m, tickCmd(m.runtime.TickRate)
}

// handleConfig applies a reloaded configuration to the running game.
func (m Model) handleConfig(cfg config.RunnerConfig) (tea.Model, tea.Cmd) {
	if rc, ok := m.game.(registry.Reconfigurable); ok {
		if err := rc.ApplyConfig(cfg); err != nil {
			m.logger.Warn("config reload rejected", "err", err)
		} else {
			m.keys = NewKeyMap(cfg.Controls, m.logger)
			m.hold.reset()
			m.logger.Info("config reloaded")
		}
	}
	return m, waitForConfig(m.updates)
}

// saveRun records the current run once. Runs without points are skipped.
func (m *Model) saveRun(reason string) {
	if m.runSaved || m.store == nil || m.gameState.Score <= 0 {
		return
	}
	m.runSaved = true

	rec, err := m.store.SaveRun(storage.RunRecord{
		Variant:  m.game.ID(),
		Score:    m.gameState.Score,
		Level:    m.gameState.Level,
		Reason:   reason,
		Duration: m.runTime,
	})
	if err != nil {
		m.logger.Error("cannot save run", "err", err)
		return
	}
	m.logger.Info("run saved", "run", rec.RunID, "score", rec.Score, "level", rec.Level, "reason", reason)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(config.UserDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// State returns the state observed on the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Run starts the Bubble Tea program for game.
func Run(game registry.Game, opts Options) error {
	p := tea.NewProgram(
		NewModel(game, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
