package runner

import (
	"math"
	"time"

	"github.com/vovakirdan/career-runner/internal/config"
	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/physics"
)

// JumpPhase is the controller's view of the player.
type JumpPhase int

const (
	PhaseGrounded JumpPhase = iota
	PhaseAscending
	PhaseDescending
)

// String returns the phase name.
func (p JumpPhase) String() string {
	switch p {
	case PhaseGrounded:
		return "grounded"
	case PhaseAscending:
		return "ascending"
	default:
		return "descending"
	}
}

// never is a timestamp far enough in the past that no window contains it.
const never = time.Duration(-1 << 62)

// Controller turns input signals and elapsed time into player velocity.
//
// In platformer mode it implements the variable-height jump: a press is
// honored while both the jump buffer (time since jump was last held) and
// coyote window (time since the body last touched ground) are open, and both
// are re-checked every frame. Holding jump adds a decaying upward force for
// at most MaxDuration. One impulse per grounded period.
//
// In free-roam mode arrows set both velocity components and there is no jump.
type Controller struct {
	jump     config.JumpConfig
	gravity  config.GravityConfig
	runSpeed float64
	freeRoam bool

	lastGrounded   time.Duration
	lastJumpButton time.Duration
	pending        bool // unconsumed just-pressed edge
	boosting       bool
	hold           time.Duration
	impulseUsed    bool
	phase          JumpPhase
	jumps          int
}

// NewController creates a controller for cfg.
func NewController(cfg config.RunnerConfig) *Controller {
	c := &Controller{}
	c.Configure(cfg)
	c.Reset()
	return c
}

// Configure replaces the tunables. Jump state is kept.
func (c *Controller) Configure(cfg config.RunnerConfig) {
	c.jump = cfg.Jump
	c.gravity = cfg.Gravity
	c.runSpeed = cfg.Movement.RunSpeed
	c.freeRoam = cfg.Movement.Mode == config.ModeFreeRoam
}

// Reset forgets all jump state.
func (c *Controller) Reset() {
	c.lastGrounded = never
	c.lastJumpButton = never
	c.pending = false
	c.boosting = false
	c.hold = 0
	c.impulseUsed = false
	c.phase = PhaseGrounded
	c.jumps = 0
}

// Phase returns the phase computed on the last update.
func (c *Controller) Phase() JumpPhase {
	return c.phase
}

// Jumps returns how many impulses were applied since Reset.
func (c *Controller) Jumps() int {
	return c.jumps
}

// Update applies one frame of input at time now. It reports whether a jump
// impulse started on this frame.
func (c *Controller) Update(k Kinematics, h physics.Handle, sig core.Signal, now, dt time.Duration) bool {
	vel := k.Velocity(h)

	vel.X = 0
	if sig.LeftDown {
		vel.X = -c.runSpeed
	} else if sig.RightDown {
		vel.X = c.runSpeed
	}

	if c.freeRoam {
		vel.Y = 0
		if sig.UpDown {
			vel.Y = -c.runSpeed
		} else if sig.DownDown {
			vel.Y = c.runSpeed
		}
		k.SetVelocity(h, vel)
		c.phase = PhaseGrounded
		return false
	}

	grounded := k.QueryGrounded(h)
	if grounded {
		c.lastGrounded = now
		if vel.Y >= 0 {
			// Landed: a new grounded period starts.
			c.impulseUsed = false
			c.boosting = false
			c.hold = 0
		}
	}
	if sig.JumpDown {
		c.lastJumpButton = now
	}
	if sig.JumpJustPressed {
		c.pending = true
	}

	started := false
	if now-c.lastJumpButton <= c.jump.Buffer() {
		if now-c.lastGrounded <= c.jump.Coyote() {
			started = c.evaluate(&vel, grounded, sig, now, dt)
		}
	} else {
		c.pending = false
		c.boosting = false
		c.hold = 0
	}

	if vel.Y > 0 {
		k.SetGravity(h, c.gravity.Fall)
	} else {
		k.SetGravity(h, c.gravity.Rise)
	}
	k.SetVelocity(h, vel)

	switch {
	case started || vel.Y < 0:
		c.phase = PhaseAscending
	case grounded:
		c.phase = PhaseGrounded
	default:
		c.phase = PhaseDescending
	}
	return started
}

// evaluate runs the jump logic while the buffer and coyote gate is open.
func (c *Controller) evaluate(vel *core.Vec, grounded bool, sig core.Signal, now, dt time.Duration) bool {
	pressed := c.pending
	c.pending = false
	started := false

	switch {
	case pressed && !c.impulseUsed:
		vel.Y = c.jump.InitialVelocity
		c.boosting = true
		c.hold = 0
		c.impulseUsed = true
		c.lastGrounded = never
		c.lastJumpButton = never
		c.jumps++
		started = true
	case sig.JumpDown && c.boosting:
		c.hold += dt
		limit := c.jump.MaxDuration()
		if c.hold <= limit {
			force := c.jump.HoldForce * (1 - float64(c.hold)/float64(limit))
			vel.Y = math.Max(vel.Y+force, c.jump.MaxRiseSpeed)
		} else {
			c.boosting = false
		}
	case c.boosting && !sig.JumpDown:
		c.boosting = false
	}

	if grounded && vel.Y == 0 {
		c.boosting = false
		c.hold = 0
	}

	if pressed {
		c.lastJumpButton = now
	}
	if grounded {
		c.lastGrounded = now
	}
	return started
}
