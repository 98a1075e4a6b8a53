package core

import "sort"

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left arrow, A - run left
	ActionRight          // Right arrow, D - run right
	ActionUp             // Up arrow, W - second jump control, move up in free-roam
	ActionDown           // Down arrow, S - move down in free-roam
	ActionJump           // Space - primary jump control
	ActionPause          // P, Escape - pause/unpause game
	ActionConfirm        // Enter - continue to the next level
	ActionRestart        // R - retry after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionJump:
		return "Jump"
	case ActionPause:
		return "Pause"
	case ActionConfirm:
		return "Confirm"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for a single simulation tick.
// Held contains every action whose control is down during the tick; Pressed
// contains the actions whose control went from up to down on this tick.
type InputFrame struct {
	Held    map[Action]bool
	Pressed map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Held:    make(map[Action]bool),
		Pressed: make(map[Action]bool),
	}
}

// Hold marks an action's control as down for this frame.
func (f *InputFrame) Hold(a Action) {
	if f.Held == nil {
		f.Held = make(map[Action]bool)
	}
	f.Held[a] = true
}

// Press marks an action as just pressed (and therefore held) for this frame.
func (f *InputFrame) Press(a Action) {
	f.Hold(a)
	if f.Pressed == nil {
		f.Pressed = make(map[Action]bool)
	}
	f.Pressed[a] = true
}

// Down returns true if the action's control is held this frame.
func (f InputFrame) Down(a Action) bool {
	return f.Held[a]
}

// JustPressed returns true if the action was pressed on this frame.
func (f InputFrame) JustPressed(a Action) bool {
	return f.Pressed[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Held {
		delete(f.Held, k)
	}
	for k := range f.Pressed {
		delete(f.Pressed, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Held {
		clone.Held[k] = v
	}
	for k, v := range f.Pressed {
		clone.Pressed[k] = v
	}
	return clone
}

// HeldActions returns the held actions in a stable order.
func (f InputFrame) HeldActions() []Action {
	out := make([]Action, 0, len(f.Held))
	for a, down := range f.Held {
		if down {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Signal is the logical per-frame input consumed by the runner core.
// Jump is bound to two controls (ActionJump and ActionUp).
type Signal struct {
	LeftDown  bool
	RightDown bool
	UpDown    bool
	DownDown  bool

	JumpDown        bool
	JumpJustPressed bool

	PauseJustPressed   bool
	ConfirmJustPressed bool
	RestartJustPressed bool
}

// Signal collapses the frame into the logical signal the core consumes.
func (f InputFrame) Signal() Signal {
	return Signal{
		LeftDown:           f.Down(ActionLeft),
		RightDown:          f.Down(ActionRight),
		UpDown:             f.Down(ActionUp),
		DownDown:           f.Down(ActionDown),
		JumpDown:           f.Down(ActionJump) || f.Down(ActionUp),
		JumpJustPressed:    f.JustPressed(ActionJump) || f.JustPressed(ActionUp),
		PauseJustPressed:   f.JustPressed(ActionPause),
		ConfirmJustPressed: f.JustPressed(ActionConfirm),
		RestartJustPressed: f.JustPressed(ActionRestart),
	}
}

// InputTracker turns a stream of "which controls are down" samples into
// frames with just-pressed edges. Hosts that can only poll held state use it
// to produce the Pressed set.
type InputTracker struct {
	prev map[Action]bool
}

// NewInputTracker creates a tracker with every control released.
func NewInputTracker() *InputTracker {
	return &InputTracker{prev: make(map[Action]bool)}
}

// Next builds the frame for the given held controls.
func (t *InputTracker) Next(held ...Action) InputFrame {
	frame := NewInputFrame()
	now := make(map[Action]bool, len(held))
	for _, a := range held {
		if a == ActionNone {
			continue
		}
		now[a] = true
		if t.prev[a] {
			frame.Hold(a)
		} else {
			frame.Press(a)
		}
	}
	t.prev = now
	return frame
}

// Reset forgets all held controls.
func (t *InputTracker) Reset() {
	t.prev = make(map[Action]bool)
}
