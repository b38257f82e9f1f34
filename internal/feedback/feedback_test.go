package feedback

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokoro-ai/kokoro/internal/model"
)

func correction(text string, predicted, corrected model.Emotion) model.Feedback {
	return model.Feedback{
		Text:                text,
		PredictedEmotion:    predicted,
		PredictedConfidence: 0.5,
		CorrectedEmotion:    corrected,
		CorrectedConfidence: 0.9,
	}
}

func TestStatsEmpty(t *testing.T) {
	stats := Stats(nil)
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.ByCorrectedEmotion)
	assert.Zero(t, stats.AvgConfidenceDelta)
	assert.Empty(t, stats.Suggestions)
}

func TestStatsCountsAndDelta(t *testing.T) {
	entries := []model.Feedback{
		correction("a", model.EmotionNeutral, model.EmotionJoy),
		correction("b", model.EmotionNeutral, model.EmotionJoy),
		correction("c", model.EmotionJoy, model.EmotionSadness),
	}

	stats := Stats(entries)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByCorrectedEmotion[model.EmotionJoy])
	assert.Equal(t, 1, stats.ByCorrectedEmotion[model.EmotionSadness])
	assert.InDelta(t, 0.4, stats.AvgConfidenceDelta, 1e-9)
}

func TestStatsSuggestionThresholds(t *testing.T) {
	var entries []model.Feedback
	// Two neutral→joy corrections stay below the suggestion threshold.
	for i := 0; i < 2; i++ {
		entries = append(entries, correction(fmt.Sprintf("below %d", i), model.EmotionNeutral, model.EmotionJoy))
	}
	stats := Stats(entries)
	assert.Empty(t, stats.Suggestions)

	// A third occurrence surfaces a medium-priority suggestion.
	entries = append(entries, correction("third", model.EmotionNeutral, model.EmotionJoy))
	stats = Stats(entries)
	require.Len(t, stats.Suggestions, 1)
	assert.Equal(t, model.EmotionNeutral, stats.Suggestions[0].Predicted)
	assert.Equal(t, model.EmotionJoy, stats.Suggestions[0].Corrected)
	assert.Equal(t, 3, stats.Suggestions[0].Count)
	assert.Equal(t, "medium", stats.Suggestions[0].Priority)

	// Five occurrences raise the priority to high.
	for i := 0; i < 2; i++ {
		entries = append(entries, correction(fmt.Sprintf("more %d", i), model.EmotionNeutral, model.EmotionJoy))
	}
	stats = Stats(entries)
	require.Len(t, stats.Suggestions, 1)
	assert.Equal(t, "high", stats.Suggestions[0].Priority)
}

func TestStatsAgreementsCarryNoSuggestion(t *testing.T) {
	var entries []model.Feedback
	for i := 0; i < 10; i++ {
		entries = append(entries, correction(fmt.Sprintf("agree %d", i), model.EmotionJoy, model.EmotionJoy))
	}
	stats := Stats(entries)
	assert.Equal(t, 10, stats.Total)
	assert.Empty(t, stats.Suggestions)
}

func TestStatsSuggestionsSortedByFrequency(t *testing.T) {
	var entries []model.Feedback
	for i := 0; i < 3; i++ {
		entries = append(entries, correction(fmt.Sprintf("a %d", i), model.EmotionNeutral, model.EmotionFear))
	}
	for i := 0; i < 5; i++ {
		entries = append(entries, correction(fmt.Sprintf("b %d", i), model.EmotionJoy, model.EmotionLove))
	}

	stats := Stats(entries)
	require.Len(t, stats.Suggestions, 2)
	assert.Equal(t, model.EmotionLove, stats.Suggestions[0].Corrected)
	assert.Equal(t, 5, stats.Suggestions[0].Count)
	assert.Equal(t, model.EmotionFear, stats.Suggestions[1].Corrected)
}

func TestStatsExamplesBounded(t *testing.T) {
	var entries []model.Feedback
	for i := 0; i < 8; i++ {
		entries = append(entries, correction(fmt.Sprintf("ex %d", i), model.EmotionNeutral, model.EmotionJoy))
	}
	stats := Stats(entries)
	require.Len(t, stats.Suggestions, 1)
	assert.Len(t, stats.Suggestions[0].Examples, 5)
	assert.Equal(t, "ex 0", stats.Suggestions[0].Examples[0])
}
