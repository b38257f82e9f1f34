package model

// Composite is the transient result of resolving a multi-orb combination.
// It is not itself an orb unless the caller explicitly commits it.
type Composite struct {
	Emotion          Emotion   `json:"emotion"`
	Color            string    `json:"color"`
	Name             string    `json:"name"`
	Intensity        float64   `json:"intensity"`
	CombinedEmotions []Emotion `json:"combined_emotions"`
	SourceOrbIDs     []int64   `json:"source_orb_ids"`
}

// Settings holds the session feature toggles persisted alongside history
// and analytics.
type Settings struct {
	// AIEnabled gates the primary classification path. When false the
	// classifier goes straight to the lexicon fallback.
	AIEnabled bool `json:"ai_enabled"`

	// FusionBoost applies the 1.2x intensity formula when committing a
	// combination instead of the plain mean.
	FusionBoost bool `json:"fusion_boost"`
}

// DefaultSettings returns the toggles used when no settings record exists.
func DefaultSettings() Settings {
	return Settings{AIEnabled: true, FusionBoost: false}
}
