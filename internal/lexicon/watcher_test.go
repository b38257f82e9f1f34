package lexicon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokoro-ai/kokoro/internal/model"
)

func writeRules(t *testing.T, path, rules string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o644))
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, "categories:\n  - emotion: joy\n    intensity: 0.9\n    confidence: 0.8\n    patterns: [happy]")

	lex, err := LoadFile(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, lex, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	writeRules(t, path, "categories:\n  - emotion: peace\n    intensity: 0.6\n    confidence: 0.5\n    patterns: [calm]")

	require.Eventually(t, func() bool {
		_, ok := lex.Match("calm evening")
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	cat, ok := lex.Match("calm evening")
	require.True(t, ok)
	assert.Equal(t, model.EmotionPeace, cat.Emotion)

	cancel()
	<-done
}

func TestWatcherKeepsRulesOnBadEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, "categories:\n  - emotion: joy\n    intensity: 0.9\n    confidence: 0.8\n    patterns: [happy]")

	lex, err := LoadFile(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, lex, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	writeRules(t, path, "{{{ not yaml")

	// The watcher sees the write but keeps the last good rule set.
	time.Sleep(200 * time.Millisecond)
	_, ok := lex.Match("so happy")
	assert.True(t, ok)

	cancel()
	<-done
}
