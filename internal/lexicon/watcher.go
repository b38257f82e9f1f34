package lexicon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads an on-disk rule file into a live Lexicon whenever
// the file changes. A bad edit keeps the previous rules and logs a warning
// rather than breaking classification.
type Watcher struct {
	path    string
	lexicon *Lexicon
	fs      *fsnotify.Watcher
	logger  *slog.Logger
}

// NewWatcher starts watching path for changes to apply to lex.
// The watch is on the parent directory so editors that replace the file
// (rename-over-write) are still observed.
func NewWatcher(path string, lex *Lexicon, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("lexicon: create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("lexicon: watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{path: path, lexicon: lex, fs: fsw, logger: logger}, nil
}

// Run processes file events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fs.Close() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("lexicon watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	fresh, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("lexicon reload failed, keeping previous rules", "path", w.path, "error", err)
		return
	}
	w.lexicon.Replace(fresh)
	w.logger.Info("lexicon reloaded", "path", w.path, "categories", len(fresh.categories))
}
