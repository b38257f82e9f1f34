// Package session owns the live state of one orb journal: the history,
// the analytics snapshot, the feature settings, and collected
// classification feedback.
//
// The Service is an explicit object constructed once per session and
// injected into callers; there is no package-level state. A single mutex
// serializes every mutating operation, so the
// classify → append → evolve → analytics sequence for one statement is
// applied as one atomic step.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kokoro-ai/kokoro/internal/analytics"
	"github.com/kokoro-ai/kokoro/internal/classify"
	"github.com/kokoro-ai/kokoro/internal/combine"
	"github.com/kokoro-ai/kokoro/internal/evolve"
	"github.com/kokoro-ai/kokoro/internal/feedback"
	"github.com/kokoro-ai/kokoro/internal/model"
	"github.com/kokoro-ai/kokoro/internal/storage"
	"github.com/kokoro-ai/kokoro/internal/telemetry"
)

// persistedHistory is the on-disk shape of the history record. NextID is
// stored so ids stay monotonic across deletions and restarts.
type persistedHistory struct {
	NextID int64       `json:"next_id"`
	Orbs   []model.Orb `json:"orbs"`
}

// persistedFeedback is the on-disk shape of the feedback record.
type persistedFeedback struct {
	NextID  int64            `json:"next_id"`
	Entries []model.Feedback `json:"entries"`
}

// Service owns History + Analytics + Settings for one session.
type Service struct {
	classifier *classify.Classifier
	resolver   *combine.Resolver
	db         *storage.DB
	logger     *slog.Logger

	mu             sync.Mutex
	history        []model.Orb // insertion order, oldest first
	snapshot       model.Snapshot
	settings       model.Settings
	nextID         int64
	feedback       []model.Feedback
	feedbackNextID int64

	submits   metric.Int64Counter
	submitDur metric.Float64Histogram
	combines  metric.Int64Counter
}

// New constructs the service and loads persisted state.
//
// Malformed or absent persisted records reset to empty defaults rather
// than failing. This silently discards unreadable data; the reset is
// logged at warn level so operators can tell it happened.
func New(ctx context.Context, classifier *classify.Classifier, resolver *combine.Resolver, db *storage.DB, logger *slog.Logger) (*Service, error) {
	meter := telemetry.Meter("kokoro/session")
	submits, _ := meter.Int64Counter("kokoro.session.submits",
		metric.WithDescription("Statements submitted, by emotion and path"),
	)
	submitDur, _ := meter.Float64Histogram("kokoro.session.submit_duration",
		metric.WithDescription("Submit latency including classification (ms)"),
		metric.WithUnit("ms"),
	)
	combines, _ := meter.Int64Counter("kokoro.session.combines",
		metric.WithDescription("Combination resolutions, by result emotion"),
	)

	s := &Service{
		classifier:     classifier,
		resolver:       resolver,
		db:             db,
		logger:         logger,
		snapshot:       model.EmptySnapshot(),
		settings:       model.DefaultSettings(),
		nextID:         1,
		feedbackNextID: 1,
		submits:        submits,
		submitDur:      submitDur,
		combines:       combines,
	}
	s.load(ctx)
	return s, nil
}

// load reads the three persisted records, applying the reset-to-empty
// policy per record.
func (s *Service) load(ctx context.Context) {
	var ph persistedHistory
	if ok := s.loadRecord(ctx, storage.RecordHistory, &ph); ok {
		s.history = ph.Orbs
		s.nextID = ph.NextID
		if s.nextID <= 0 {
			s.nextID = maxID(ph.Orbs) + 1
		}
	}

	var snap model.Snapshot
	if ok := s.loadRecord(ctx, storage.RecordAnalytics, &snap); ok {
		snap.Normalize()
		s.snapshot = snap
	}

	var settings model.Settings
	if ok := s.loadRecord(ctx, storage.RecordSettings, &settings); ok {
		s.settings = settings
	}

	var pf persistedFeedback
	if ok := s.loadRecord(ctx, storage.RecordFeedback, &pf); ok {
		s.feedback = pf.Entries
		s.feedbackNextID = pf.NextID
		if s.feedbackNextID <= 0 {
			s.feedbackNextID = int64(len(pf.Entries)) + 1
		}
	}
}

func (s *Service) loadRecord(ctx context.Context, name string, target any) bool {
	body, err := s.db.Get(ctx, name)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("session: record unreadable, resetting to empty", "record", name, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(body, target); err != nil {
		s.logger.Warn("session: record malformed, resetting to empty", "record", name, "error", err)
		return false
	}
	return true
}

func maxID(orbs []model.Orb) int64 {
	var max int64
	for _, o := range orbs {
		if o.ID > max {
			max = o.ID
		}
	}
	return max
}

// Submit classifies text, appends the resulting orb to history, computes
// its evolution state, and updates analytics, atomically with respect to
// every other mutating operation.
func (s *Service) Submit(ctx context.Context, text string) (model.Orb, error) {
	text = strings.TrimSpace(text)
	if err := model.ValidateText(text); err != nil {
		return model.Orb{}, fmt.Errorf("session: %w", err)
	}

	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.classifier.Classify(ctx, text, s.settings.AIEnabled)

	orb := model.Orb{
		ID:         s.nextID,
		Text:       text,
		Emotion:    res.Emotion,
		Color:      res.Color,
		Intensity:  res.Intensity,
		Confidence: res.Confidence,
		CreatedAt:  time.Now().UTC(),
		AIAnalyzed: res.AIAnalyzed,
	}
	s.nextID++

	// Evolution sees the history including this orb; the streak window in
	// analytics sees the history before it.
	prior := s.history
	s.history = append(s.history, orb)
	orb.Evolution = evolve.Evolve(orb.Emotion, s.history)
	s.history[len(s.history)-1].Evolution = orb.Evolution

	analytics.Update(&s.snapshot, orb, prior)
	s.persist(ctx)

	path := "fallback"
	if orb.AIAnalyzed {
		path = "ai"
	}
	s.submits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("emotion", string(orb.Emotion)),
		attribute.String("path", path),
	))
	s.submitDur.Record(ctx, float64(time.Since(start).Milliseconds()))

	return orb, nil
}

// List returns the history newest-first, as the display layer expects.
func (s *Service) List() []model.Orb {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Orb, len(s.history))
	copy(out, s.history)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// Remove deletes the orb with the given id. Removing an absent id is a
// no-op, not an error. Surviving entries keep their ids and order.
func (s *Service) Remove(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.history {
		if o.ID == id {
			s.history = append(s.history[:i], s.history[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// Clear wipes the history and analytics, keeping settings.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	s.snapshot = model.EmptySnapshot()
	s.persist(ctx)
}

// Combine resolves the referenced orbs into a composite descriptor. Pure
// query: the result is not appended. Membership is validated against the
// history as it stands now, so a deleted id invalidates the combination.
func (s *Service) Combine(ctx context.Context, ids []int64) (model.Composite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.resolver.Resolve(ids, s.history)
	if err != nil {
		return model.Composite{}, err
	}

	s.combines.Add(ctx, 1, metric.WithAttributes(
		attribute.String("emotion", string(c.Emotion)),
	))
	return c, nil
}

// CombineCommit resolves the combination and appends the composite as a
// new orb in one atomic step. When the FusionBoost setting is on, the
// alternate 1.2x intensity formula applies.
func (s *Service) CombineCommit(ctx context.Context, ids []int64) (model.Composite, model.Orb, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var opts []combine.Option
	if s.settings.FusionBoost {
		opts = append(opts, combine.WithFusionBoost())
	}
	c, err := s.resolver.Resolve(ids, s.history, opts...)
	if err != nil {
		return model.Composite{}, model.Orb{}, err
	}

	orb := model.Orb{
		ID:        s.nextID,
		Text:      c.Name,
		Emotion:   c.Emotion,
		Color:     c.Color,
		Intensity: c.Intensity,
		// Deterministic table result, not a classifier guess.
		Confidence: 1.0,
		CreatedAt:  time.Now().UTC(),
	}
	s.nextID++

	prior := s.history
	s.history = append(s.history, orb)
	orb.Evolution = evolve.Evolve(orb.Emotion, s.history)
	s.history[len(s.history)-1].Evolution = orb.Evolution

	analytics.Update(&s.snapshot, orb, prior)
	s.persist(ctx)

	s.combines.Add(ctx, 1, metric.WithAttributes(
		attribute.String("emotion", string(c.Emotion)),
	))
	return c, orb, nil
}

// Analytics returns a copy of the current snapshot.
func (s *Service) Analytics() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// Settings returns the current feature toggles.
func (s *Service) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetSettings replaces the feature toggles.
func (s *Service) SetSettings(ctx context.Context, settings model.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.persist(ctx)
}

// AddFeedback records a user correction of a classification result.
// Feedback is kept separate from the orb history: it survives Clear and
// never affects analytics or evolution.
func (s *Service) AddFeedback(ctx context.Context, req model.FeedbackRequest) (model.Feedback, error) {
	fb := model.Feedback{
		Text:                strings.TrimSpace(req.Text),
		PredictedEmotion:    req.PredictedEmotion,
		PredictedConfidence: req.PredictedConfidence,
		CorrectedEmotion:    req.CorrectedEmotion,
		CorrectedConfidence: req.CorrectedConfidence,
		Notes:               req.Notes,
	}
	if err := fb.Valid(); err != nil {
		return model.Feedback{}, fmt.Errorf("session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fb.ID = s.feedbackNextID
	fb.CreatedAt = time.Now().UTC()
	s.feedbackNextID++
	s.feedback = append(s.feedback, fb)
	s.persist(ctx)

	return fb, nil
}

// FeedbackStats summarizes all collected feedback.
func (s *Service) FeedbackStats() model.FeedbackStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return feedback.Stats(s.feedback)
}

// persist writes all persisted records as full-snapshot replacements. Write
// failures are logged, not surfaced: the in-memory state is authoritative
// for the session and the next successful persist catches up.
func (s *Service) persist(ctx context.Context) {
	records := []struct {
		name string
		data any
	}{
		{storage.RecordHistory, persistedHistory{NextID: s.nextID, Orbs: s.history}},
		{storage.RecordAnalytics, s.snapshot},
		{storage.RecordSettings, s.settings},
		{storage.RecordFeedback, persistedFeedback{NextID: s.feedbackNextID, Entries: s.feedback}},
	}
	for _, rec := range records {
		body, err := json.Marshal(rec.data)
		if err != nil {
			s.logger.Error("session: marshal record", "record", rec.name, "error", err)
			continue
		}
		if err := s.db.Put(ctx, rec.name, body); err != nil {
			s.logger.Error("session: persist record", "record", rec.name, "error", err)
		}
	}
}
