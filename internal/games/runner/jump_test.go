package runner

import (
	"testing"
	"time"

	"github.com/vovakirdan/career-runner/internal/config"
	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/physics"
)

const tick = time.Second / 60

var (
	noInput   = core.Signal{}
	jumpHeld  = core.Signal{JumpDown: true}
	jumpPress = core.Signal{JumpDown: true, JumpJustPressed: true}
)

// fakeBody is a Kinematics whose grounded flag the test controls.
type fakeBody struct {
	grounded bool
	vel      core.Vec
	gravity  float64
}

func (f *fakeBody) QueryGrounded(physics.Handle) bool        { return f.grounded }
func (f *fakeBody) Velocity(physics.Handle) core.Vec         { return f.vel }
func (f *fakeBody) SetVelocity(_ physics.Handle, v core.Vec) { f.vel = v }
func (f *fakeBody) SetGravity(_ physics.Handle, g float64)   { f.gravity = g }

func TestCoyoteWindowBoundary(t *testing.T) {
	tests := []struct {
		name  string
		after time.Duration
		jumps bool
	}{
		{"at 0ms", 0, true},
		{"at 100ms", 100 * time.Millisecond, true},
		{"at 101ms", 101 * time.Millisecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(config.DefaultRunnerConfig())
			body := &fakeBody{grounded: true}
			leftGround := time.Second

			c.Update(body, 1, noInput, leftGround, tick)

			body.grounded = false
			body.vel = core.Vec{Y: 40}
			started := c.Update(body, 1, jumpPress, leftGround+tt.after, tick)

			if started != tt.jumps {
				t.Errorf("Update() started = %v, expected %v", started, tt.jumps)
			}
			if tt.jumps && body.vel.Y != -300 {
				t.Errorf("vy = %v, expected -300", body.vel.Y)
			}
			if !tt.jumps && body.vel.Y != 40 {
				t.Errorf("vy = %v, expected unchanged 40", body.vel.Y)
			}
		})
	}
}

func TestJumpBufferBoundary(t *testing.T) {
	tests := []struct {
		name   string
		before time.Duration
		jumps  bool
	}{
		{"pressed 50ms before landing", 50 * time.Millisecond, true},
		{"pressed 150ms before landing", 150 * time.Millisecond, true},
		{"pressed 151ms before landing", 151 * time.Millisecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(config.DefaultRunnerConfig())
			body := &fakeBody{vel: core.Vec{Y: 200}}
			pressedAt := 2 * time.Second
			landAt := pressedAt + tt.before

			if c.Update(body, 1, jumpPress, pressedAt, tick) {
				t.Fatal("jump started in mid-air without coyote time")
			}
			for now := pressedAt + 10*time.Millisecond; now < landAt; now += 10 * time.Millisecond {
				if c.Update(body, 1, noInput, now, 10*time.Millisecond) {
					t.Fatalf("jump started in mid-air at %v", now-pressedAt)
				}
			}

			body.grounded = true
			body.vel = core.Vec{}
			started := c.Update(body, 1, noInput, landAt, 10*time.Millisecond)

			if started != tt.jumps {
				t.Errorf("Update() on landing started = %v, expected %v", started, tt.jumps)
			}
		})
	}
}

// The coyote and buffer gate is re-evaluated every frame rather than at key
// press time. A press that physically happened inside the coyote window but
// is first observed on a frame past it is dropped.
func TestLiteralPerFrameGateDropsLatePress(t *testing.T) {
	c := NewController(config.DefaultRunnerConfig())
	body := &fakeBody{grounded: true}
	frame := 16 * time.Millisecond
	now := time.Second

	c.Update(body, 1, noInput, now, frame)
	body.grounded = false
	body.vel = core.Vec{Y: 30}

	for i := 0; i < 6; i++ { // 96ms after leaving the ground
		now += frame
		c.Update(body, 1, noInput, now, frame)
	}
	// Key went down at ~99ms but this frame is at 112ms.
	now += frame
	if c.Update(body, 1, jumpPress, now, frame) {
		t.Fatal("press observed past the coyote window should not jump")
	}
	for i := 0; i < 30; i++ {
		now += frame
		c.Update(body, 1, noInput, now, frame)
	}

	body.grounded = true
	body.vel = core.Vec{}
	now += frame
	c.Update(body, 1, noInput, now, frame)

	if c.Jumps() != 0 {
		t.Errorf("Jumps() = %d, expected 0", c.Jumps())
	}
}

func TestHorizontalVelocity(t *testing.T) {
	tests := []struct {
		name string
		sig  core.Signal
		want float64
	}{
		{"none", noInput, 0},
		{"left", core.Signal{LeftDown: true}, -200},
		{"right", core.Signal{RightDown: true}, 200},
		{"both prefers left", core.Signal{LeftDown: true, RightDown: true}, -200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(config.DefaultRunnerConfig())
			body := &fakeBody{grounded: true, vel: core.Vec{X: 999}}
			c.Update(body, 1, tt.sig, time.Second, tick)
			if body.vel.X != tt.want {
				t.Errorf("vx = %v, expected %v", body.vel.X, tt.want)
			}
		})
	}
}

func TestAsymmetricGravity(t *testing.T) {
	tests := []struct {
		name string
		vy   float64
		want float64
	}{
		{"falling", 50, 2000},
		{"rising", -50, 1500},
		{"resting", 0, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(config.DefaultRunnerConfig())
			body := &fakeBody{vel: core.Vec{Y: tt.vy}}
			c.Update(body, 1, noInput, time.Second, tick)
			if body.gravity != tt.want {
				t.Errorf("gravity = %v, expected %v", body.gravity, tt.want)
			}
		})
	}
}

func TestFreeRoamMovement(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Movement.Mode = config.ModeFreeRoam
	c := NewController(cfg)
	body := &fakeBody{}

	if c.Update(body, 1, core.Signal{UpDown: true, RightDown: true, JumpDown: true, JumpJustPressed: true}, time.Second, tick) {
		t.Error("free roam should never jump")
	}
	if body.vel != (core.Vec{X: 200, Y: -200}) {
		t.Errorf("velocity = %+v, expected {200 -200}", body.vel)
	}

	c.Update(body, 1, core.Signal{DownDown: true}, time.Second+tick, tick)
	if body.vel != (core.Vec{Y: 200}) {
		t.Errorf("velocity = %+v, expected {0 200}", body.vel)
	}
}

// jumpSim drives a controller against a real physics world.
type jumpSim struct {
	world  *physics.World
	player physics.Handle
	ctrl   *Controller
	now    time.Duration
	peakY  float64
}

func newJumpSim() *jumpSim {
	cfg := config.DefaultRunnerConfig()
	w := physics.NewWorld(core.NewRect(0, 0, 800, 600))
	w.CreateBody(physics.BodySpec{Kind: physics.KindPlatform, Rect: core.NewRect(0, 560, 800, 40), Static: true})
	w.OnCollide(physics.KindPlayer, physics.KindPlatform, nil)
	h := w.CreateBody(physics.BodySpec{
		Kind:               physics.KindPlayer,
		Rect:               core.NewRect(100, 512, 32, 48),
		Gravity:            cfg.Gravity.Rise,
		AllowGravity:       true,
		CollideWorldBounds: true,
	})
	w.Step(tick)

	s := &jumpSim{world: w, player: h, ctrl: NewController(cfg), now: time.Second}
	s.peakY = s.y()
	return s
}

func (s *jumpSim) y() float64 {
	r, _ := s.world.Rect(s.player)
	return r.Y
}

func (s *jumpSim) frame(sig core.Signal) {
	s.now += tick
	s.ctrl.Update(s.world, s.player, sig, s.now, tick)
	s.world.Step(tick)
	s.peakY = min(s.peakY, s.y())
}

// jumpPeak returns the highest point (smallest y) reached when jump is held
// for holdFrames frames after the press.
func jumpPeak(holdFrames int) float64 {
	s := newJumpSim()
	s.frame(jumpPress)
	for i := 0; i < holdFrames; i++ {
		s.frame(jumpHeld)
	}
	for i := 0; i < 120; i++ {
		s.frame(noInput)
	}
	return s.peakY
}

func TestVariableJumpHeight(t *testing.T) {
	tap := jumpPeak(0)
	short := jumpPeak(2)
	full := jumpPeak(15)  // 250ms
	long := jumpPeak(120) // 2s

	if !(short < tap) {
		t.Errorf("short hold peak %v should be above tap peak %v", short, tap)
	}
	if !(full < short) {
		t.Errorf("full hold peak %v should be above short hold peak %v", full, short)
	}
	if long != full {
		t.Errorf("holding past the max duration changed the peak: %v, expected %v", long, full)
	}
}

func TestSingleImpulsePerGroundedPeriod(t *testing.T) {
	s := newJumpSim()
	if !s.world.QueryGrounded(s.player) {
		t.Fatal("player should start grounded")
	}

	s.frame(jumpPress)
	s.frame(noInput)
	s.frame(jumpPress) // still inside the coyote window measured from take-off
	s.frame(noInput)
	s.frame(jumpPress)

	if s.ctrl.Jumps() != 1 {
		t.Fatalf("Jumps() = %d mid-air, expected 1", s.ctrl.Jumps())
	}

	for i := 0; i < 120 && !s.world.QueryGrounded(s.player); i++ {
		s.frame(noInput)
	}
	if !s.world.QueryGrounded(s.player) {
		t.Fatal("player never landed")
	}
	s.frame(noInput)
	if s.ctrl.Phase() != PhaseGrounded {
		t.Errorf("Phase() = %v after landing, expected grounded", s.ctrl.Phase())
	}

	s.frame(jumpPress)
	if s.ctrl.Jumps() != 2 {
		t.Errorf("Jumps() = %d after landing and re-jumping, expected 2", s.ctrl.Jumps())
	}
}

func TestHeldJumpThroughLandingDoesNotHop(t *testing.T) {
	s := newJumpSim()
	s.frame(jumpPress)
	for i := 0; i < 120; i++ {
		s.frame(jumpHeld)
	}

	if !s.world.QueryGrounded(s.player) {
		t.Error("player should rest on the ground while jump stays held")
	}
	if s.ctrl.Jumps() != 1 {
		t.Errorf("Jumps() = %d, expected 1", s.ctrl.Jumps())
	}
}
