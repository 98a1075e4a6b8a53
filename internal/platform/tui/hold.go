package tui

import (
	"time"

	"github.com/vovakirdan/career-runner/internal/core"
)

// Terminals report key presses and auto-repeats but never releases. A key
// counts as held until a window after its last event: the first window
// covers the keyboard's initial repeat delay, later ones the repeat interval.
const (
	firstHoldWindow  = 550 * time.Millisecond
	repeatHoldWindow = 120 * time.Millisecond
)

// momentary actions are held for a single tick so each key press is a new
// press edge.
var momentary = map[core.Action]bool{
	core.ActionPause:   true,
	core.ActionConfirm: true,
	core.ActionRestart: true,
}

// holdState emulates held controls from key events.
type holdState struct {
	until  map[core.Action]time.Time
	first  time.Duration
	repeat time.Duration
}

func newHoldState() *holdState {
	return &holdState{
		until:  make(map[core.Action]time.Time),
		first:  firstHoldWindow,
		repeat: repeatHoldWindow,
	}
}

// press records a key event for a at now.
func (h *holdState) press(a core.Action, now time.Time) {
	if momentary[a] {
		h.until[a] = now
		return
	}
	if t, ok := h.until[a]; ok && !now.After(t) {
		h.until[a] = now.Add(h.repeat)
		return
	}
	h.until[a] = now.Add(h.first)
}

// active returns the actions held at now and forgets expired ones.
// Momentary actions are returned once.
func (h *holdState) active(now time.Time) []core.Action {
	var held []core.Action
	for a, t := range h.until {
		if momentary[a] {
			held = append(held, a)
			delete(h.until, a)
			continue
		}
		if now.After(t) {
			delete(h.until, a)
			continue
		}
		held = append(held, a)
	}
	return held
}

// reset releases every control.
func (h *holdState) reset() {
	h.until = make(map[core.Action]time.Time)
}
