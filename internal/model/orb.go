// Package model defines the core domain types: orbs, emotions, evolution
// state, analytics snapshots, and composite descriptors.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Emotion is a classified emotional state. Orbs carry either one of the
// base emotions or, for committed combinations, a composite emotion.
type Emotion string

// Base emotions producible by the classifier.
const (
	EmotionJoy     Emotion = "joy"
	EmotionLove    Emotion = "love"
	EmotionSadness Emotion = "sadness"
	EmotionAnger   Emotion = "anger"
	EmotionFear    Emotion = "fear"
	EmotionPeace   Emotion = "peace"
	EmotionNeutral Emotion = "neutral"
)

// Composite emotions produced by the combination resolver. EmotionComplex
// is the generic fallback when no table entry matches.
const (
	EmotionBliss       Emotion = "bliss"
	EmotionMelancholy  Emotion = "melancholy"
	EmotionPassion     Emotion = "passion"
	EmotionSerenity    Emotion = "serenity"
	EmotionTurmoil     Emotion = "turmoil"
	EmotionBittersweet Emotion = "bittersweet"
	EmotionDevotion    Emotion = "devotion"
	EmotionDread       Emotion = "dread"
	EmotionGrace       Emotion = "grace"
	EmotionResolve     Emotion = "resolve"
	EmotionComplex     Emotion = "complex"
)

// BaseEmotions lists the classifier's output vocabulary in a stable order.
var BaseEmotions = []Emotion{
	EmotionJoy,
	EmotionLove,
	EmotionSadness,
	EmotionAnger,
	EmotionFear,
	EmotionPeace,
	EmotionNeutral,
}

// IsBase reports whether e is one of the base emotions.
func (e Emotion) IsBase() bool {
	switch e {
	case EmotionJoy, EmotionLove, EmotionSadness, EmotionAnger,
		EmotionFear, EmotionPeace, EmotionNeutral:
		return true
	}
	return false
}

// IsComposite reports whether e belongs to the composite vocabulary.
func (e Emotion) IsComposite() bool {
	switch e {
	case EmotionBliss, EmotionMelancholy, EmotionPassion, EmotionSerenity,
		EmotionTurmoil, EmotionBittersweet, EmotionDevotion, EmotionDread,
		EmotionGrace, EmotionResolve, EmotionComplex:
		return true
	}
	return false
}

// Valid reports whether e is drawn from either fixed vocabulary.
func (e Emotion) Valid() bool {
	return e.IsBase() || e.IsComposite()
}

// emotionColors binds each emotion one-to-one to its display color.
// Colors are never independently settable on creation.
var emotionColors = map[Emotion]string{
	EmotionJoy:     "#ffb000",
	EmotionLove:    "#ff6b9d",
	EmotionSadness: "#4a9eff",
	EmotionAnger:   "#ff4757",
	EmotionFear:    "#b644ff",
	EmotionPeace:   "#00ff88",
	EmotionNeutral: "#808080",

	EmotionBliss:       "#ffd4a8",
	EmotionMelancholy:  "#6b7fd4",
	EmotionPassion:     "#ff3d6e",
	EmotionSerenity:    "#7fe8c4",
	EmotionTurmoil:     "#c23b52",
	EmotionBittersweet: "#c48cff",
	EmotionDevotion:    "#ff9ec4",
	EmotionDread:       "#7a4f9e",
	EmotionGrace:       "#b8ffd9",
	EmotionResolve:     "#ffa04d",
	EmotionComplex:     "#9b8ec4",
}

// ColorFor returns the display color for an emotion. Unknown emotions get
// the neutral color so a malformed record never renders colorless.
func ColorFor(e Emotion) string {
	if c, ok := emotionColors[e]; ok {
		return c
	}
	return emotionColors[EmotionNeutral]
}

// MaxTextLen is the upper bound on statement length, enforced at the API
// boundary. The classifier itself does not re-validate.
const MaxTextLen = 500

// ValidateText checks a statement before it enters the classifier.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text must not be empty")
	}
	if len([]rune(text)) > MaxTextLen {
		return fmt.Errorf("text exceeds maximum length of %d characters", MaxTextLen)
	}
	return nil
}

// Orb is one classified emotional statement.
type Orb struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	Emotion    Emotion   `json:"emotion"`
	Color      string    `json:"color"`
	Intensity  float64   `json:"intensity"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
	AIAnalyzed bool      `json:"ai_analyzed"`
	Evolution  Evolution `json:"evolution"`
}

// Valid checks the orb's invariants: vocabulary membership, [0,1] bounds,
// and color/emotion binding.
func (o Orb) Valid() error {
	if !o.Emotion.Valid() {
		return fmt.Errorf("unknown emotion %q", o.Emotion)
	}
	if o.Intensity < 0 || o.Intensity > 1 {
		return fmt.Errorf("intensity %g out of range [0,1]", o.Intensity)
	}
	if o.Confidence < 0 || o.Confidence > 1 {
		return fmt.Errorf("confidence %g out of range [0,1]", o.Confidence)
	}
	return nil
}

// Clamp01 bounds v to [0,1]. Used on every externally supplied intensity
// or confidence before it reaches an Orb.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
