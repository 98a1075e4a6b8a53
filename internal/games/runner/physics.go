package runner

import (
	"time"

	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/physics"
)

// Kinematics is the part of the physics collaborator the jump controller
// needs: read grounded and velocity, write velocity and gravity.
type Kinematics interface {
	QueryGrounded(h physics.Handle) bool
	Velocity(h physics.Handle) core.Vec
	SetVelocity(h physics.Handle, v core.Vec)
	SetGravity(h physics.Handle, g float64)
}

// Physics is the physics collaborator the runner drives. *physics.World
// satisfies it.
type Physics interface {
	Kinematics

	CreateBody(spec physics.BodySpec) physics.Handle
	DestroyBody(h physics.Handle) bool
	Exists(h physics.Handle) bool
	Rect(h physics.Handle) (core.Rect, bool)
	Bodies(kind physics.Kind) []physics.Handle

	OnCollide(a, b physics.Kind, fn physics.PairFunc)
	OnOverlap(a, b physics.Kind, fn physics.PairFunc)

	Pause()
	Resume()
	Paused() bool
	Step(dt time.Duration)
}

var _ Physics = (*physics.World)(nil)

// PhysicsFactory builds a physics collaborator for a playfield.
type PhysicsFactory func(bounds core.Rect) Physics

func defaultPhysics(bounds core.Rect) Physics {
	return physics.NewWorld(bounds)
}
