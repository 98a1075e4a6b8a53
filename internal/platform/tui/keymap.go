package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/career-runner/internal/config"
	"github.com/vovakirdan/career-runner/internal/core"
)

// KeyMap binds terminal keys to runner actions. It is built from the
// controls section of the configuration and doubles as the help.KeyMap for
// the in-game help line.
type KeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Jump    key.Binding
	Pause   key.Binding
	Confirm key.Binding
	Restart key.Binding
	Quit    key.Binding
}

// NewKeyMap builds bindings from controls. A control with no keys is
// disabled and reported through logger; the runner keeps working without it.
func NewKeyMap(controls config.ControlsConfig, logger *log.Logger) KeyMap {
	bind := func(name string, keys []string, desc string) key.Binding {
		if len(keys) == 0 {
			if logger != nil {
				logger.Warn("control has no keys bound", "control", name)
			}
			b := key.NewBinding(key.WithHelp("-", desc))
			b.SetEnabled(false)
			return b
		}
		return key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(helpKeys(keys), desc),
		)
	}

	return KeyMap{
		Left:    bind("left", controls.Left, "left"),
		Right:   bind("right", controls.Right, "right"),
		Up:      bind("up", controls.Up, "up/jump"),
		Down:    bind("down", controls.Down, "down"),
		Jump:    bind("jump", controls.Jump, "jump"),
		Pause:   bind("pause", controls.Pause, "pause"),
		Confirm: bind("confirm", controls.Confirm, "next level"),
		Restart: bind("restart", controls.Restart, "retry"),
		Quit:    bind("quit", controls.Quit, "quit"),
	}
}

// helpKeys renders key names for the help line.
func helpKeys(keys []string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		names[i] = k
	}
	return strings.Join(names, "/")
}

// Action maps a key message to an action. Quit is reported as ActionQuit.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Up):
		return core.ActionUp
	case key.Matches(msg, k.Down):
		return core.ActionDown
	case key.Matches(msg, k.Jump):
		return core.ActionJump
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Confirm):
		return core.ActionConfirm
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	}
	return core.ActionNone
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Jump, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Jump},
		{k.Pause, k.Confirm, k.Restart, k.Quit},
	}
}
