package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmotionVocabulary(t *testing.T) {
	for _, e := range BaseEmotions {
		assert.True(t, e.IsBase(), "base emotion %q", e)
		assert.True(t, e.Valid())
	}
	assert.True(t, EmotionBliss.IsComposite())
	assert.True(t, EmotionComplex.IsComposite())
	assert.False(t, EmotionBliss.IsBase())
	assert.False(t, Emotion("excitement").Valid())
}

func TestColorBinding(t *testing.T) {
	// Every emotion in either vocabulary has a color.
	for _, e := range BaseEmotions {
		assert.NotEmpty(t, ColorFor(e))
	}
	assert.Equal(t, "#ff6b9d", ColorFor(EmotionLove))
	assert.Equal(t, "#4a9eff", ColorFor(EmotionSadness))

	// Unknown emotions render neutral rather than colorless.
	assert.Equal(t, ColorFor(EmotionNeutral), ColorFor(Emotion("bogus")))
}

func TestValidateText(t *testing.T) {
	assert.NoError(t, ValidateText("I feel fine"))
	assert.Error(t, ValidateText(""))
	assert.Error(t, ValidateText("   \t  "))
	assert.NoError(t, ValidateText(strings.Repeat("a", MaxTextLen)))
	assert.Error(t, ValidateText(strings.Repeat("a", MaxTextLen+1)))
}

func TestOrbValid(t *testing.T) {
	orb := Orb{Emotion: EmotionJoy, Intensity: 0.5, Confidence: 0.5}
	assert.NoError(t, orb.Valid())

	orb.Intensity = 1.2
	assert.Error(t, orb.Valid())

	orb.Intensity = 0.5
	orb.Confidence = -0.1
	assert.Error(t, orb.Valid())

	orb.Confidence = 0.5
	orb.Emotion = "whatever"
	assert.Error(t, orb.Valid())
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-3))
	assert.Equal(t, 1.0, Clamp01(1.2))
	assert.Equal(t, 0.7, Clamp01(0.7))
}

func TestSnapshotClone(t *testing.T) {
	s := EmptySnapshot()
	s.EmotionCounts[EmotionJoy] = 2
	s.DailyMoods["2026-08-30"] = map[Emotion]int{EmotionJoy: 2}
	s.Streaks[EmotionJoy] = 2

	c := s.Clone()
	c.EmotionCounts[EmotionJoy] = 99
	c.DailyMoods["2026-08-30"][EmotionJoy] = 99

	assert.Equal(t, 2, s.EmotionCounts[EmotionJoy])
	assert.Equal(t, 2, s.DailyMoods["2026-08-30"][EmotionJoy])
}
