package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:", slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPutGetRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Put(ctx, RecordHistory, []byte(`{"orbs":[]}`)))

	body, err := db.Get(ctx, RecordHistory)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"orbs":[]}`), body)
}

func TestGetMissing(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutOverwrites(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Put(ctx, RecordSettings, []byte(`{"ai_enabled":true}`)))
	require.NoError(t, db.Put(ctx, RecordSettings, []byte(`{"ai_enabled":false}`)))

	body, err := db.Get(ctx, RecordSettings)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"ai_enabled":false}`), body)
}

func TestDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Put(ctx, RecordAnalytics, []byte(`{}`)))
	require.NoError(t, db.Delete(ctx, RecordAnalytics))

	_, err := db.Get(ctx, RecordAnalytics)
	assert.ErrorIs(t, err, ErrNotFound)

	// Absent records delete without error.
	assert.NoError(t, db.Delete(ctx, RecordAnalytics))
}

func TestRecordsIndependent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Put(ctx, RecordHistory, []byte("a")))
	require.NoError(t, db.Put(ctx, RecordAnalytics, []byte("b")))

	body, err := db.Get(ctx, RecordHistory)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), body)

	body, err = db.Get(ctx, RecordAnalytics)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), body)
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kokoro.db")
	ctx := context.Background()

	db, err := Open(ctx, path, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.NoError(t, db.Put(ctx, RecordHistory, []byte("persisted")))
	require.NoError(t, db.Close())

	// Reopen and read the same record back.
	db, err = Open(ctx, path, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	body, err := db.Get(ctx, RecordHistory)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), body)
}
