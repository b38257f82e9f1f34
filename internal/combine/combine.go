// Package combine resolves multi-orb combinations into composite
// emotional descriptors.
//
// Resolution is a pure query: the referenced orbs' distinct emotions form
// a canonical sorted key looked up in a fixed table, with a generic
// "complex" result when no entry matches. Committing the descriptor as a
// new history entry is a separate, explicit caller action.
package combine

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kokoro-ai/kokoro/internal/model"
)

// ErrInvalidCombination signals a combine request with fewer than two
// distinct ids, or ids not present in history. No composite is produced
// and no state changes.
var ErrInvalidCombination = errors.New("combine: need at least two existing orbs")

//go:embed data/combinations.yaml
var tableData []byte

// entry is one combination table row.
type entry struct {
	Key     string        `yaml:"key"`
	Emotion model.Emotion `yaml:"emotion"`
	Color   string        `yaml:"color"`
	Name    string        `yaml:"name"`
}

type tableFile struct {
	Combinations []entry `yaml:"combinations"`
}

// complexColor is the fixed placeholder for the generic fallback result.
const complexColor = "#9b8ec4"

// fusionBoost is the alternate intensity formula's multiplier.
const fusionBoost = 1.2

// Resolver resolves combinations against the fixed table.
type Resolver struct {
	table map[string]entry
}

// NewResolver loads the embedded combination table.
func NewResolver() (*Resolver, error) {
	var f tableFile
	if err := yaml.Unmarshal(tableData, &f); err != nil {
		return nil, fmt.Errorf("combine: parse table: %w", err)
	}
	table := make(map[string]entry, len(f.Combinations))
	for i, e := range f.Combinations {
		if !e.Emotion.IsComposite() {
			return nil, fmt.Errorf("combine: combinations[%d]: %q is not a composite emotion", i, e.Emotion)
		}
		if _, dup := table[e.Key]; dup {
			return nil, fmt.Errorf("combine: duplicate key %q", e.Key)
		}
		table[e.Key] = e
	}
	return &Resolver{table: table}, nil
}

// Option adjusts resolution behavior.
type Option func(*options)

type options struct {
	boost bool
}

// WithFusionBoost applies the alternate intensity formula used on the
// commit path: mean intensity times 1.2, clamped to 1. The default is
// the plain mean.
func WithFusionBoost() Option {
	return func(o *options) { o.boost = true }
}

// Resolve merges the referenced orbs into a composite descriptor.
//
// Requires at least two distinct ids, all present in history; otherwise
// ErrInvalidCombination. The output intensity is the arithmetic mean of
// the source intensities (see WithFusionBoost for the alternate policy).
func (r *Resolver) Resolve(ids []int64, history []model.Orb, opts ...Option) (model.Composite, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	byID := make(map[int64]model.Orb, len(history))
	for _, orb := range history {
		byID[orb.ID] = orb
	}

	seen := make(map[int64]bool, len(ids))
	var sources []model.Orb
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		orb, ok := byID[id]
		if !ok {
			return model.Composite{}, fmt.Errorf("%w: orb %d not found", ErrInvalidCombination, id)
		}
		sources = append(sources, orb)
	}
	if len(sources) < 2 {
		return model.Composite{}, ErrInvalidCombination
	}

	// Distinct emotions, sorted lexicographically, form the canonical key.
	distinct := make(map[model.Emotion]bool, len(sources))
	sum := 0.0
	sourceIDs := make([]int64, 0, len(sources))
	for _, orb := range sources {
		distinct[orb.Emotion] = true
		sum += orb.Intensity
		sourceIDs = append(sourceIDs, orb.ID)
	}
	emotions := make([]model.Emotion, 0, len(distinct))
	for e := range distinct {
		emotions = append(emotions, e)
	}
	sort.Slice(emotions, func(i, j int) bool { return emotions[i] < emotions[j] })

	intensity := sum / float64(len(sources))
	if o.boost {
		intensity *= fusionBoost
	}
	intensity = model.Clamp01(intensity)

	c := model.Composite{
		Intensity:        intensity,
		CombinedEmotions: emotions,
		SourceOrbIDs:     sourceIDs,
	}

	if e, ok := r.table[key(emotions)]; ok {
		c.Emotion = e.Emotion
		c.Color = e.Color
		c.Name = e.Name
		return c, nil
	}

	// Default branch: never an error, always the generic composite.
	c.Emotion = model.EmotionComplex
	c.Color = complexColor
	c.Name = fmt.Sprintf("Mixed Emotions (%s)", joinEmotions(emotions, " + "))
	return c, nil
}

func key(emotions []model.Emotion) string {
	return joinEmotions(emotions, ",")
}

func joinEmotions(emotions []model.Emotion, sep string) string {
	parts := make([]string, len(emotions))
	for i, e := range emotions {
		parts[i] = string(e)
	}
	return strings.Join(parts, sep)
}
