package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokoro-ai/kokoro/internal/model"
)

func TestLoadDefault(t *testing.T) {
	lex, err := Load()
	require.NoError(t, err)

	cats := lex.Categories()
	require.Len(t, cats, 5)
	assert.Equal(t, model.EmotionLove, cats[0].Emotion)
	assert.Equal(t, model.EmotionJoy, cats[1].Emotion)
	assert.Equal(t, model.EmotionSadness, cats[2].Emotion)
	assert.Equal(t, model.EmotionAnger, cats[3].Emotion)
	assert.Equal(t, model.EmotionFear, cats[4].Emotion)
}

func TestMatch(t *testing.T) {
	lex, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name       string
		text       string
		emotion    model.Emotion
		intensity  float64
		confidence float64
	}{
		{"love", "I love you so much and adore you", model.EmotionLove, 0.9, 0.8},
		{"joy", "feeling happy today", model.EmotionJoy, 0.9, 0.8},
		{"sadness", "I am so sad and heartbroken", model.EmotionSadness, 0.8, 0.7},
		{"anger", "this makes me furious", model.EmotionAnger, 0.9, 0.8},
		{"fear", "I'm scared of tomorrow", model.EmotionFear, 0.7, 0.6},
		{"case insensitive", "SO HAPPY RIGHT NOW", model.EmotionJoy, 0.9, 0.8},
		{"substring", "unhappy", model.EmotionJoy, 0.9, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, ok := lex.Match(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.emotion, cat.Emotion)
			assert.Equal(t, tt.intensity, cat.Intensity)
			assert.Equal(t, tt.confidence, cat.Confidence)
		})
	}
}

func TestMatchPrecedence(t *testing.T) {
	lex, err := Load()
	require.NoError(t, err)

	// "I love you but I'm also sad" hits both the love and sadness
	// categories. Love is listed first, so it wins.
	cat, ok := lex.Match("I love you but I'm also sad")
	require.True(t, ok)
	assert.Equal(t, model.EmotionLove, cat.Emotion)
}

func TestMatchMiss(t *testing.T) {
	lex, err := Load()
	require.NoError(t, err)

	_, ok := lex.Match("the weather report said partly cloudy")
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := `categories:
  - emotion: peace
    intensity: 0.6
    confidence: 0.5
    patterns: ["calm", "serene"]
`
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o644))

	lex, err := LoadFile(path)
	require.NoError(t, err)

	cat, ok := lex.Match("feeling calm tonight")
	require.True(t, ok)
	assert.Equal(t, model.EmotionPeace, cat.Emotion)
	assert.Equal(t, 0.6, cat.Intensity)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "{{{"},
		{"empty", "categories: []"},
		{"unknown emotion", "categories:\n  - emotion: revenge\n    intensity: 0.5\n    confidence: 0.5\n    patterns: [x]"},
		{"composite emotion", "categories:\n  - emotion: bliss\n    intensity: 0.5\n    confidence: 0.5\n    patterns: [x]"},
		{"intensity out of range", "categories:\n  - emotion: joy\n    intensity: 1.5\n    confidence: 0.5\n    patterns: [x]"},
		{"no patterns", "categories:\n  - emotion: joy\n    intensity: 0.5\n    confidence: 0.5\n    patterns: []"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestReplace(t *testing.T) {
	lex, err := Load()
	require.NoError(t, err)

	other, err := parse([]byte("categories:\n  - emotion: peace\n    intensity: 0.6\n    confidence: 0.5\n    patterns: [calm]"))
	require.NoError(t, err)

	lex.Replace(other)

	_, ok := lex.Match("so happy")
	assert.False(t, ok, "old rules should be gone")

	cat, ok := lex.Match("calm evening")
	require.True(t, ok)
	assert.Equal(t, model.EmotionPeace, cat.Emotion)
}
