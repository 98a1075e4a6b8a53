// Package config provides YAML/TOML-based runner configuration loading,
// validation and hot reload.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid runner config")

// Movement modes.
const (
	ModePlatformer = "platformer" // side-scrolling jump variant
	ModeFreeRoam   = "freeroam"   // top-down variant, no gravity
)

// RunnerConfig contains all tunables of the runner.
type RunnerConfig struct {
	Movement MovementConfig `yaml:"movement" toml:"movement"`
	Jump     JumpConfig     `yaml:"jump" toml:"jump"`
	Gravity  GravityConfig  `yaml:"gravity" toml:"gravity"`
	World    WorldConfig    `yaml:"world" toml:"world"`
	Player   PlayerConfig   `yaml:"player" toml:"player"`
	Spawn    SpawnConfig    `yaml:"spawn" toml:"spawn"`
	Combat   CombatConfig   `yaml:"combat" toml:"combat"`
	Level    LevelConfig    `yaml:"level" toml:"level"`
	Controls ControlsConfig `yaml:"controls" toml:"controls"`
}

// MovementConfig selects the movement model.
type MovementConfig struct {
	Mode     string  `yaml:"mode" toml:"mode"`
	RunSpeed float64 `yaml:"run_speed" toml:"run_speed"` // horizontal speed, units/s
}

// JumpConfig defines the variable-height jump.
type JumpConfig struct {
	InitialVelocity float64 `yaml:"initial_velocity" toml:"initial_velocity"`
	HoldForce       float64 `yaml:"hold_force" toml:"hold_force"`
	MaxDurationMs   int     `yaml:"max_duration_ms" toml:"max_duration_ms"`
	BufferMs        int     `yaml:"buffer_ms" toml:"buffer_ms"`
	CoyoteMs        int     `yaml:"coyote_ms" toml:"coyote_ms"`
	MaxRiseSpeed    float64 `yaml:"max_rise_speed" toml:"max_rise_speed"` // most negative vertical velocity
}

// MaxDuration returns the hold-boost window.
func (j JumpConfig) MaxDuration() time.Duration { return ms(j.MaxDurationMs) }

// Buffer returns the jump buffer window.
func (j JumpConfig) Buffer() time.Duration { return ms(j.BufferMs) }

// Coyote returns the coyote window.
func (j JumpConfig) Coyote() time.Duration { return ms(j.CoyoteMs) }

// GravityConfig defines the asymmetric gravity.
type GravityConfig struct {
	Rise float64 `yaml:"rise" toml:"rise"` // while rising or grounded
	Fall float64 `yaml:"fall" toml:"fall"` // while vertical velocity > 0
}

// WorldConfig defines the playfield.
type WorldConfig struct {
	Width        float64          `yaml:"width" toml:"width"`
	Height       float64          `yaml:"height" toml:"height"`
	GroundHeight float64          `yaml:"ground_height" toml:"ground_height"`
	ScrollSpeed  float64          `yaml:"scroll_speed" toml:"scroll_speed"` // units/s
	BandMargin   float64          `yaml:"band_margin" toml:"band_margin"`   // spawn band is [margin, height-margin]
	Platforms    []PlatformConfig `yaml:"platforms" toml:"platforms"`
}

// PlatformConfig is a static platform given by its top-left corner.
type PlatformConfig struct {
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// PlayerConfig defines the player body.
type PlayerConfig struct {
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// SpawnConfig defines obstacle and power-up scheduling.
type SpawnConfig struct {
	ObstacleMinMs       int     `yaml:"obstacle_min_ms" toml:"obstacle_min_ms"`
	ObstacleMaxMs       int     `yaml:"obstacle_max_ms" toml:"obstacle_max_ms"`
	PowerUpMinMs        int     `yaml:"powerup_min_ms" toml:"powerup_min_ms"`
	PowerUpMaxMs        int     `yaml:"powerup_max_ms" toml:"powerup_max_ms"`
	PowerUpTTLMs        int     `yaml:"powerup_ttl_ms" toml:"powerup_ttl_ms"`
	EntitySize          float64 `yaml:"entity_size" toml:"entity_size"`
	FreeRoamSpeed       float64 `yaml:"freeroam_speed" toml:"freeroam_speed"`
	FreezeTimersOnPause bool    `yaml:"freeze_timers_on_pause" toml:"freeze_timers_on_pause"`
}

// PowerUpTTL returns the power-up time to live.
func (s SpawnConfig) PowerUpTTL() time.Duration { return ms(s.PowerUpTTLMs) }

// CombatConfig defines damage, healing limits and effect timings.
type CombatConfig struct {
	MaxHealth            int     `yaml:"max_health" toml:"max_health"`
	ObstacleDamage       int     `yaml:"obstacle_damage" toml:"obstacle_damage"`
	TintMs               int     `yaml:"tint_ms" toml:"tint_ms"`
	ShakeMs              int     `yaml:"shake_ms" toml:"shake_ms"`
	NetworkingDelayMs    int     `yaml:"networking_delay_ms" toml:"networking_delay_ms"`
	NetworkingMultiplier float64 `yaml:"networking_multiplier" toml:"networking_multiplier"`
}

// Tint returns how long a hit/collect tint lasts.
func (c CombatConfig) Tint() time.Duration { return ms(c.TintMs) }

// Shake returns the camera shake duration on obstacle hits.
func (c CombatConfig) Shake() time.Duration { return ms(c.ShakeMs) }

// NetworkingDelay returns the delay before the networking boost applies.
func (c CombatConfig) NetworkingDelay() time.Duration { return ms(c.NetworkingDelayMs) }

// LevelConfig defines level completion.
type LevelConfig struct {
	ScoreThreshold int `yaml:"score_threshold" toml:"score_threshold"`
}

// ControlsConfig lists terminal key names per logical control.
// An empty list leaves the control inert.
type ControlsConfig struct {
	Left    []string `yaml:"left" toml:"left"`
	Right   []string `yaml:"right" toml:"right"`
	Up      []string `yaml:"up" toml:"up"`
	Down    []string `yaml:"down" toml:"down"`
	Jump    []string `yaml:"jump" toml:"jump"`
	Pause   []string `yaml:"pause" toml:"pause"`
	Confirm []string `yaml:"confirm" toml:"confirm"`
	Restart []string `yaml:"restart" toml:"restart"`
	Quit    []string `yaml:"quit" toml:"quit"`
}

// Validate checks the configuration for values the runner cannot work with.
func (c RunnerConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Movement.Mode == ModePlatformer || c.Movement.Mode == ModeFreeRoam,
		"movement.mode %q must be %q or %q", c.Movement.Mode, ModePlatformer, ModeFreeRoam)
	check(c.Movement.RunSpeed > 0, "movement.run_speed must be positive")

	check(c.Jump.InitialVelocity < 0, "jump.initial_velocity must be negative (up)")
	check(c.Jump.HoldForce <= 0, "jump.hold_force must not point down")
	check(c.Jump.MaxDurationMs > 0, "jump.max_duration_ms must be positive")
	check(c.Jump.BufferMs >= 0, "jump.buffer_ms must not be negative")
	check(c.Jump.CoyoteMs >= 0, "jump.coyote_ms must not be negative")
	check(c.Jump.MaxRiseSpeed <= c.Jump.InitialVelocity, "jump.max_rise_speed must not be slower than initial_velocity")

	check(c.Gravity.Rise >= 0 && c.Gravity.Fall >= 0, "gravity must not be negative")

	check(c.World.Width > 0 && c.World.Height > 0, "world size must be positive")
	check(c.World.BandMargin >= 0 && 2*c.World.BandMargin <= c.World.Height, "world.band_margin leaves no spawn band")
	check(c.World.ScrollSpeed > 0, "world.scroll_speed must be positive")

	check(c.Player.Width > 0 && c.Player.Height > 0, "player size must be positive")

	check(c.Spawn.ObstacleMinMs > 0 && c.Spawn.ObstacleMinMs <= c.Spawn.ObstacleMaxMs,
		"spawn obstacle window [%d, %d] is invalid", c.Spawn.ObstacleMinMs, c.Spawn.ObstacleMaxMs)
	check(c.Spawn.PowerUpMinMs > 0 && c.Spawn.PowerUpMinMs <= c.Spawn.PowerUpMaxMs,
		"spawn power-up window [%d, %d] is invalid", c.Spawn.PowerUpMinMs, c.Spawn.PowerUpMaxMs)
	check(c.Spawn.PowerUpTTLMs > 0, "spawn.powerup_ttl_ms must be positive")
	check(c.Spawn.EntitySize > 0, "spawn.entity_size must be positive")

	check(c.Combat.MaxHealth > 0, "combat.max_health must be positive")
	check(c.Combat.ObstacleDamage >= 0, "combat.obstacle_damage must not be negative")
	check(c.Combat.TintMs >= 0 && c.Combat.ShakeMs >= 0 && c.Combat.NetworkingDelayMs >= 0,
		"combat durations must not be negative")

	check(c.Level.ScoreThreshold > 0, "level.score_threshold must be positive")

	return errors.Join(errs...)
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
