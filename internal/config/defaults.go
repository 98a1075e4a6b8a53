package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the default runner configuration.
// It matches defaults/runner.yaml.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Movement: MovementConfig{
			Mode:     ModePlatformer,
			RunSpeed: 200,
		},
		Jump: JumpConfig{
			InitialVelocity: -300,
			HoldForce:       -200,
			MaxDurationMs:   250,
			BufferMs:        150,
			CoyoteMs:        100,
			MaxRiseSpeed:    -800,
		},
		Gravity: GravityConfig{
			Rise: 1500,
			Fall: 2000,
		},
		World: WorldConfig{
			Width:        800,
			Height:       600,
			GroundHeight: 40,
			ScrollSpeed:  120, // 2 units per frame at 60 FPS
			BandMargin:   100,
			Platforms: []PlatformConfig{
				{X: 500, Y: 390, Width: 200, Height: 20},
				{X: 0, Y: 240, Width: 125, Height: 20},
				{X: 660, Y: 210, Width: 140, Height: 20},
			},
		},
		Player: PlayerConfig{
			X:      84,
			Y:      452,
			Width:  32,
			Height: 48,
		},
		Spawn: SpawnConfig{
			ObstacleMinMs:       2000,
			ObstacleMaxMs:       5000,
			PowerUpMinMs:        5000,
			PowerUpMaxMs:        10000,
			PowerUpTTLMs:        10000,
			EntitySize:          32,
			FreeRoamSpeed:       150,
			FreezeTimersOnPause: true,
		},
		Combat: CombatConfig{
			MaxHealth:            100,
			ObstacleDamage:       20,
			TintMs:               250,
			ShakeMs:              250,
			NetworkingDelayMs:    5000,
			NetworkingMultiplier: 1.5,
		},
		Level: LevelConfig{
			ScoreThreshold: 1000,
		},
		Controls: ControlsConfig{
			Left:    []string{"left", "a"},
			Right:   []string{"right", "d"},
			Up:      []string{"up", "w"},
			Down:    []string{"down", "s"},
			Jump:    []string{" "},
			Pause:   []string{"p", "esc"},
			Confirm: []string{"enter"},
			Restart: []string{"r"},
			Quit:    []string{"q", "ctrl+c"},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
