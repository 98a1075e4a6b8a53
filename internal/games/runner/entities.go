package runner

import (
	"time"

	"github.com/vovakirdan/career-runner/internal/core"
	"github.com/vovakirdan/career-runner/internal/physics"
)

// EntityKind separates obstacles from power-ups.
type EntityKind int

const (
	EntityObstacle EntityKind = iota
	EntityPowerUp
)

// String returns the kind name.
func (k EntityKind) String() string {
	if k == EntityPowerUp {
		return "powerup"
	}
	return "obstacle"
}

// ObstacleType is an obstacle subtype.
type ObstacleType int

const (
	ObstacleDebtSign ObstacleType = iota
	ObstacleBurnout
	ObstacleMissedOpportunity
	obstacleTypeCount
)

var obstacleNames = [...]string{
	ObstacleDebtSign:          "debt-sign",
	ObstacleBurnout:           "burnout-icon",
	ObstacleMissedOpportunity: "missed-opportunity",
}

// String returns the subtype name.
func (t ObstacleType) String() string {
	if t < 0 || t >= obstacleTypeCount {
		return "unknown"
	}
	return obstacleNames[t]
}

// PowerUpType is a power-up subtype.
type PowerUpType int

const (
	PowerUpTuitionAssistance PowerUpType = iota
	PowerUpCareerAdvice
	PowerUpCertification
	PowerUpNetworking
	PowerUpAdvancedDegree
	PowerUpMentorship
	powerUpTypeCount
)

var powerUpNames = [...]string{
	PowerUpTuitionAssistance: "tuition-assistance",
	PowerUpCareerAdvice:      "career-advice",
	PowerUpCertification:     "certification",
	PowerUpNetworking:        "networking",
	PowerUpAdvancedDegree:    "advanced-degree",
	PowerUpMentorship:        "mentorship",
}

// String returns the subtype name.
func (t PowerUpType) String() string {
	if t < 0 || t >= powerUpTypeCount {
		return "unknown"
	}
	return powerUpNames[t]
}

// PowerUpEffect is what collecting a power-up does to the run.
type PowerUpEffect struct {
	Score  int
	Health int  // Healing, capped at max health
	Boost  bool // Delayed velocity multiplier
}

var powerUpEffects = [...]PowerUpEffect{
	PowerUpTuitionAssistance: {Score: 100},
	PowerUpCareerAdvice:      {Score: 50, Health: 10},
	PowerUpCertification:     {Score: 150},
	PowerUpNetworking:        {Score: 75, Boost: true},
	PowerUpAdvancedDegree:    {Score: 200},
	PowerUpMentorship:        {Score: 100, Health: 20},
}

// EffectOf returns the effect of a power-up subtype.
func EffectOf(t PowerUpType) PowerUpEffect {
	if t < 0 || t >= powerUpTypeCount {
		return PowerUpEffect{}
	}
	return powerUpEffects[t]
}

// Entity is a live obstacle or power-up. Its body is owned by the physics
// collaborator; the entity only records what it is.
type Entity struct {
	Handle    physics.Handle
	Kind      EntityKind
	Obstacle  ObstacleType
	PowerUp   PowerUpType
	SpawnedAt time.Duration
}

// Name returns the subtype name.
func (e *Entity) Name() string {
	if e.Kind == EntityPowerUp {
		return e.PowerUp.String()
	}
	return e.Obstacle.String()
}

// glyph returns the rune and color used to draw the entity.
func (e *Entity) glyph() (rune, core.Color) {
	if e.Kind == EntityObstacle {
		switch e.Obstacle {
		case ObstacleDebtSign:
			return '$', core.ColorRed
		case ObstacleBurnout:
			return '#', core.ColorOrange
		default:
			return 'X', core.ColorMagenta
		}
	}
	switch e.PowerUp {
	case PowerUpTuitionAssistance:
		return 'T', core.ColorGreen
	case PowerUpCareerAdvice:
		return 'A', core.ColorCyan
	case PowerUpCertification:
		return 'C', core.ColorYellow
	case PowerUpNetworking:
		return 'N', core.ColorBlue
	case PowerUpAdvancedDegree:
		return 'D', core.ColorWhite
	default:
		return 'M', core.ColorGreen
	}
}
