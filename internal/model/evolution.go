package model

// Complexity is the visual-complexity tier name for an evolution level.
type Complexity string

const (
	ComplexitySimple       Complexity = "simple"
	ComplexityShimmering   Complexity = "shimmering"
	ComplexityPulsing      Complexity = "pulsing"
	ComplexityRadiant      Complexity = "radiant"
	ComplexityTranscendent Complexity = "transcendent"
	ComplexityLegendary    Complexity = "legendary"
)

// MaxEvolutionLevel bounds Evolution.Level.
const MaxEvolutionLevel = 5

// Evolution is the derived visual state attached to an orb at creation,
// computed from the emotion's recurrence in history up to that point.
type Evolution struct {
	Level       int        `json:"level"`
	Size        float64    `json:"size"`
	Complexity  Complexity `json:"complexity"`
	Effects     []string   `json:"effects"`
	StreakCount int        `json:"streak_count"`
}
