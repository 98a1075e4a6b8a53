package runner

import (
	"time"

	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/physics"
)

// Sound is a delegated sound effect.
type Sound int

const (
	SoundJump Sound = iota
	SoundHit
	SoundCollect
	SoundLevelComplete
	SoundGameOver
)

// String returns the sound name.
func (s Sound) String() string {
	switch s {
	case SoundJump:
		return "jump"
	case SoundHit:
		return "hit"
	case SoundCollect:
		return "collect"
	case SoundLevelComplete:
		return "level_complete"
	case SoundGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Overlay is a full-screen message.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayPaused
	OverlayLevelComplete
	OverlayGameOver
)

// Presenter receives the effects the core delegates to its host: audio,
// tints, camera shake, floating text and overlays. Calls happen on the
// update thread.
type Presenter interface {
	PlaySound(s Sound)
	Tint(h physics.Handle, c core.Color)
	ClearTint(h physics.Handle)
	Shake(d time.Duration)
	FloatingText(x, y float64, text string)
	ShowOverlay(o Overlay)
}

// floatingTextTTL is how long floating text stays on screen.
const floatingTextTTL = 800 * time.Millisecond

// floatingTextRise is how far floating text drifts up per second, in world units.
const floatingTextRise = 60.0

type floatingText struct {
	x, y float64
	text string
	left time.Duration
}

// HUD is the built-in presenter. It keeps effect state for Render and
// counts sounds so a terminal host can flash or ring on them.
type HUD struct {
	tints    map[physics.Handle]core.Color
	shake    time.Duration
	texts    []floatingText
	overlay  Overlay
	sounds   map[Sound]int
	lastPlay Sound
}

// NewHUD creates an empty HUD.
func NewHUD() *HUD {
	h := &HUD{}
	h.Reset()
	return h
}

// Reset drops every effect.
func (h *HUD) Reset() {
	h.tints = make(map[physics.Handle]core.Color)
	h.shake = 0
	h.texts = h.texts[:0]
	h.overlay = OverlayNone
	if h.sounds == nil {
		h.sounds = make(map[Sound]int)
	}
}

// PlaySound records the sound.
func (h *HUD) PlaySound(s Sound) {
	h.sounds[s]++
	h.lastPlay = s
}

// Tint colors a body until ClearTint.
func (h *HUD) Tint(b physics.Handle, c core.Color) {
	h.tints[b] = c
}

// ClearTint removes a body's tint.
func (h *HUD) ClearTint(b physics.Handle) {
	delete(h.tints, b)
}

// Shake starts or extends camera shake.
func (h *HUD) Shake(d time.Duration) {
	h.shake = max(h.shake, d)
}

// FloatingText adds a rising label at world position (x, y).
func (h *HUD) FloatingText(x, y float64, text string) {
	h.texts = append(h.texts, floatingText{x: x, y: y, text: text, left: floatingTextTTL})
}

// ShowOverlay replaces the overlay.
func (h *HUD) ShowOverlay(o Overlay) {
	h.overlay = o
}

// Tick ages shake and floating text.
func (h *HUD) Tick(dt time.Duration) {
	h.shake = max(h.shake-dt, 0)

	kept := h.texts[:0]
	for _, t := range h.texts {
		t.left -= dt
		if t.left <= 0 {
			continue
		}
		t.y -= floatingTextRise * dt.Seconds()
		kept = append(kept, t)
	}
	h.texts = kept
}

// TintOf returns a body's tint.
func (h *HUD) TintOf(b physics.Handle) (core.Color, bool) {
	c, ok := h.tints[b]
	return c, ok
}

// Shaking reports whether camera shake is active.
func (h *HUD) Shaking() bool { return h.shake > 0 }

// Overlay returns the current overlay.
func (h *HUD) Overlay() Overlay { return h.overlay }

// SoundCount returns how often s has played.
func (h *HUD) SoundCount(s Sound) int { return h.sounds[s] }

// TotalSounds returns how many sounds have played.
func (h *HUD) TotalSounds() int {
	n := 0
	for _, c := range h.sounds {
		n += c
	}
	return n
}

// LastSound returns the most recent sound.
func (h *HUD) LastSound() Sound { return h.lastPlay }
