// Package evolve derives an orb's visual evolution state from how often
// its emotion has recurred in history.
package evolve

import "github.com/kokoro-ai/kokoro/internal/model"

// tier is one row of the fixed level table. Each higher level's effect
// set is a strict superset of the previous one's.
type tier struct {
	size       float64
	complexity model.Complexity
	effects    []string
}

var tiers = [model.MaxEvolutionLevel + 1]tier{
	{size: 1.0, complexity: model.ComplexitySimple, effects: nil},
	{size: 1.15, complexity: model.ComplexityShimmering, effects: []string{"glow"}},
	{size: 1.3, complexity: model.ComplexityPulsing, effects: []string{"glow", "particles"}},
	{size: 1.5, complexity: model.ComplexityRadiant, effects: []string{"glow", "particles", "rings"}},
	{size: 1.75, complexity: model.ComplexityTranscendent, effects: []string{"glow", "particles", "rings", "aura"}},
	{size: 2.0, complexity: model.ComplexityLegendary, effects: []string{"glow", "particles", "rings", "aura", "corona"}},
}

// Evolve computes the evolution state for an emotion given the full
// history. Pure and order-independent: only the count of same-emotion
// entries matters. The level is floor(count/3), clamped to [0,5].
func Evolve(emotion model.Emotion, history []model.Orb) model.Evolution {
	count := 0
	for _, o := range history {
		if o.Emotion == emotion {
			count++
		}
	}

	level := count / 3
	if level > model.MaxEvolutionLevel {
		level = model.MaxEvolutionLevel
	}

	t := tiers[level]
	effects := make([]string, len(t.effects))
	copy(effects, t.effects)

	return model.Evolution{
		Level:       level,
		Size:        t.size,
		Complexity:  t.complexity,
		Effects:     effects,
		StreakCount: count,
	}
}
