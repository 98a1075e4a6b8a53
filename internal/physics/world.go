// Package physics is a small arcade-style AABB world: bodies with velocity,
// per-body vertical gravity, static platforms, world bounds and
// collide/overlap callbacks. It is deterministic and single-threaded.
package physics

import (
	"sort"
	"time"

	"github.com/vovakirdan/career-runner/internal/core"
)

// Handle identifies a body. Zero is never issued.
type Handle uint32

// Kind tags a body for collision pairing.
type Kind int

const (
	KindNone Kind = iota
	KindPlayer
	KindObstacle
	KindPowerUp
	KindPlatform
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindObstacle:
		return "obstacle"
	case KindPowerUp:
		return "powerup"
	case KindPlatform:
		return "platform"
	default:
		return "none"
	}
}

// BodySpec describes a body to create.
type BodySpec struct {
	Kind               Kind
	Rect               core.Rect
	Velocity           core.Vec
	Gravity            float64 // Vertical acceleration, units/s^2
	AllowGravity       bool
	CollideWorldBounds bool
	Bounce             float64 // Velocity kept after hitting a world bound (0..1)
	Static             bool    // Never moves; other bodies are separated from it
}

// PairFunc is invoked with the bodies of a matching pair, in registration order.
type PairFunc func(a, b Handle)

type body struct {
	handle   Handle
	spec     BodySpec
	rect     core.Rect
	vel      core.Vec
	gravity  float64
	grounded bool
}

type pairRule struct {
	a, b  Kind
	solid bool
	fn    PairFunc
}

// World owns every body. It is not safe for concurrent use.
type World struct {
	bounds core.Rect
	bodies map[Handle]*body
	next   Handle
	paused bool
	rules  []pairRule
}

// NewWorld creates an empty world with the given bounds.
func NewWorld(bounds core.Rect) *World {
	return &World{
		bounds: bounds,
		bodies: make(map[Handle]*body),
	}
}

// Bounds returns the world bounds.
func (w *World) Bounds() core.Rect {
	return w.bounds
}

// CreateBody adds a body and returns its handle.
func (w *World) CreateBody(spec BodySpec) Handle {
	w.next++
	b := &body{
		handle:  w.next,
		spec:    spec,
		rect:    spec.Rect,
		vel:     spec.Velocity,
		gravity: spec.Gravity,
	}
	if spec.Static {
		b.vel = core.Vec{}
	}
	w.bodies[b.handle] = b
	return b.handle
}

// DestroyBody removes a body. It reports whether the body existed.
func (w *World) DestroyBody(h Handle) bool {
	if _, ok := w.bodies[h]; !ok {
		return false
	}
	delete(w.bodies, h)
	return true
}

// Exists reports whether h refers to a live body.
func (w *World) Exists(h Handle) bool {
	_, ok := w.bodies[h]
	return ok
}

// KindOf returns the kind of a body, or KindNone if it does not exist.
func (w *World) KindOf(h Handle) Kind {
	if b, ok := w.bodies[h]; ok {
		return b.spec.Kind
	}
	return KindNone
}

// Bodies returns the handles of every live body of the given kind, ascending.
func (w *World) Bodies(kind Kind) []Handle {
	var out []Handle
	for h, b := range w.bodies {
		if b.spec.Kind == kind {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Count returns the number of live bodies of the given kind.
func (w *World) Count(kind Kind) int {
	n := 0
	for _, b := range w.bodies {
		if b.spec.Kind == kind {
			n++
		}
	}
	return n
}

// Rect returns the body's bounding box.
func (w *World) Rect(h Handle) (core.Rect, bool) {
	b, ok := w.bodies[h]
	if !ok {
		return core.Rect{}, false
	}
	return b.rect, true
}

// SetPosition moves the body's top-left corner.
func (w *World) SetPosition(h Handle, x, y float64) {
	if b, ok := w.bodies[h]; ok {
		b.rect.X = x
		b.rect.Y = y
	}
}

// Velocity returns the body's velocity, or zero if it does not exist.
func (w *World) Velocity(h Handle) core.Vec {
	if b, ok := w.bodies[h]; ok {
		return b.vel
	}
	return core.Vec{}
}

// SetVelocity sets the body's velocity. Static bodies ignore it.
func (w *World) SetVelocity(h Handle, v core.Vec) {
	if b, ok := w.bodies[h]; ok && !b.spec.Static {
		b.vel = v
	}
}

// SetGravity sets the body's vertical acceleration.
func (w *World) SetGravity(h Handle, g float64) {
	if b, ok := w.bodies[h]; ok {
		b.gravity = g
	}
}

// Gravity returns the body's vertical acceleration.
func (w *World) Gravity(h Handle) float64 {
	if b, ok := w.bodies[h]; ok {
		return b.gravity
	}
	return 0
}

// QueryGrounded reports whether the body rested on something at the end of
// the last step.
func (w *World) QueryGrounded(h Handle) bool {
	b, ok := w.bodies[h]
	return ok && b.grounded
}

// OnCollide registers a solid pair: bodies of kind a are separated from
// static bodies of kind b, and fn (if non-nil) runs when they touch.
// Dynamic bodies of kind b are not pushed apart, only reported.
func (w *World) OnCollide(a, b Kind, fn PairFunc) {
	w.rules = append(w.rules, pairRule{a: a, b: b, solid: true, fn: fn})
}

// OnOverlap registers an overlap pair: no separation, fn runs while bodies
// of kind a and b intersect.
func (w *World) OnOverlap(a, b Kind, fn PairFunc) {
	w.rules = append(w.rules, pairRule{a: a, b: b, fn: fn})
}

// Pause freezes the simulation. Bodies keep their state.
func (w *World) Pause() {
	w.paused = true
}

// Resume unfreezes the simulation.
func (w *World) Resume() {
	w.paused = false
}

// Paused reports whether the simulation is frozen.
func (w *World) Paused() bool {
	return w.paused
}

// Clear destroys every body. Pair rules stay registered.
func (w *World) Clear() {
	w.bodies = make(map[Handle]*body)
}

// Step advances the simulation by dt. Callbacks run after every body has
// moved; a body destroyed by one callback is skipped by later ones.
func (w *World) Step(dt time.Duration) {
	if w.paused || dt <= 0 {
		return
	}
	secs := dt.Seconds()

	handles := w.handles()
	prev := make(map[Handle]core.Rect, len(handles))

	for _, h := range handles {
		b := w.bodies[h]
		if b.spec.Static {
			continue
		}
		prev[h] = b.rect
		b.grounded = false
		if b.spec.AllowGravity {
			b.vel.Y += b.gravity * secs
		}
		b.rect = b.rect.Translate(b.vel.Scale(secs))
	}

	var touching []pair
	for _, rule := range w.rules {
		if !rule.solid {
			continue
		}
		for _, h := range handles {
			b := w.bodies[h]
			if b.spec.Static || b.spec.Kind != rule.a {
				continue
			}
			for _, sh := range handles {
				s := w.bodies[sh]
				if sh == h || s.spec.Kind != rule.b {
					continue
				}
				// Dynamic partners only report contact; the callback
				// decides what happens to them.
				var hit bool
				if s.spec.Static {
					hit = separate(b, prev[h], s.rect)
				} else {
					hit = b.rect.Intersects(s.rect)
				}
				if hit {
					touching = append(touching, pair{a: h, b: sh, fn: rule.fn})
				}
			}
		}
	}

	for _, h := range handles {
		b := w.bodies[h]
		if !b.spec.Static && b.spec.CollideWorldBounds {
			w.clampToBounds(b)
		}
	}

	for _, rule := range w.rules {
		if rule.solid {
			continue
		}
		for _, ha := range handles {
			a := w.bodies[ha]
			if a.spec.Kind != rule.a {
				continue
			}
			for _, hb := range handles {
				if ha == hb {
					continue
				}
				b := w.bodies[hb]
				if b.spec.Kind != rule.b || !a.rect.Intersects(b.rect) {
					continue
				}
				touching = append(touching, pair{a: ha, b: hb, fn: rule.fn})
			}
		}
	}

	for _, p := range touching {
		if p.fn == nil || !w.Exists(p.a) || !w.Exists(p.b) {
			continue
		}
		p.fn(p.a, p.b)
	}
}

type pair struct {
	a, b Handle
	fn   PairFunc
}

func (w *World) handles() []Handle {
	out := make([]Handle, 0, len(w.bodies))
	for h := range w.bodies {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// separate pushes b out of the static rect s along the axis it entered from.
// It reports whether b ends up touching s.
func separate(b *body, before, s core.Rect) bool {
	r := b.rect
	if !r.Intersects(s) {
		// Resting exactly on top still counts as touching.
		if r.Bottom() == s.Y && r.OverlapsX(s) && b.vel.Y >= 0 {
			b.grounded = true
			return true
		}
		return false
	}

	switch {
	case before.Bottom() <= s.Y:
		b.rect.Y = s.Y - r.H
		if b.vel.Y > 0 {
			b.vel.Y = 0
		}
		b.grounded = true
	case before.Y >= s.Bottom():
		b.rect.Y = s.Bottom()
		if b.vel.Y < 0 {
			b.vel.Y = 0
		}
	case before.Right() <= s.X:
		b.rect.X = s.X - r.W
		if b.vel.X > 0 {
			b.vel.X = 0
		}
	case before.X >= s.Right():
		b.rect.X = s.Right()
		if b.vel.X < 0 {
			b.vel.X = 0
		}
	default:
		// Started inside: eject upward.
		b.rect.Y = s.Y - r.H
		if b.vel.Y > 0 {
			b.vel.Y = 0
		}
		b.grounded = true
	}
	return true
}

func (w *World) clampToBounds(b *body) {
	bounce := b.spec.Bounce
	if b.rect.X < w.bounds.X {
		b.rect.X = w.bounds.X
		if b.vel.X < 0 {
			b.vel.X = -b.vel.X * bounce
		}
	}
	if b.rect.Right() > w.bounds.Right() {
		b.rect.X = w.bounds.Right() - b.rect.W
		if b.vel.X > 0 {
			b.vel.X = -b.vel.X * bounce
		}
	}
	if b.rect.Y < w.bounds.Y {
		b.rect.Y = w.bounds.Y
		if b.vel.Y < 0 {
			b.vel.Y = -b.vel.Y * bounce
		}
	}
	if b.rect.Bottom() > w.bounds.Bottom() {
		b.rect.Y = w.bounds.Bottom() - b.rect.H
		if b.vel.Y > 0 {
			b.vel.Y = -b.vel.Y * bounce
		}
		if bounce == 0 {
			b.grounded = true
		}
	}
}
