// Package analytics maintains the running snapshot derived from history:
// per-emotion totals, per-day totals, and trailing-window streak
// high-water marks.
package analytics

import "github.com/kokoro-ai/kokoro/internal/model"

// streakWindow is the trailing-entry window inspected for streaks.
const streakWindow = 7

// dayFormat keys DailyMoods by calendar date in the orb timestamp's
// location. The service stamps orbs in UTC, so server-side days are UTC
// days; callers supplying their own timestamps get their local boundary.
const dayFormat = "2006-01-02"

// Update applies one new orb to the snapshot in place.
//
// prior is the history as it stood before the orb was appended; the
// streak for the orb's emotion is recomputed over the last streakWindow
// entries of prior and kept as a high-water mark. Streak values for other
// emotions are untouched, so the exact streak state reproduces only by
// replaying updates in insertion order. Counts and daily moods are
// order-independent and replay-equivalent.
func Update(s *model.Snapshot, orb model.Orb, prior []model.Orb) {
	s.Normalize()

	s.EmotionCounts[orb.Emotion]++

	day := orb.CreatedAt.Format(dayFormat)
	if s.DailyMoods[day] == nil {
		s.DailyMoods[day] = make(map[model.Emotion]int)
	}
	s.DailyMoods[day][orb.Emotion]++

	streak := trailingCount(prior, orb.Emotion)
	if streak > s.Streaks[orb.Emotion] {
		s.Streaks[orb.Emotion] = streak
	}
}

// trailingCount counts entries matching emotion among the last
// streakWindow entries of history.
func trailingCount(history []model.Orb, emotion model.Emotion) int {
	start := len(history) - streakWindow
	if start < 0 {
		start = 0
	}
	count := 0
	for _, o := range history[start:] {
		if o.Emotion == emotion {
			count++
		}
	}
	return count
}

// Rebuild derives a snapshot by replaying the full history in insertion
// order. Counts and daily moods always match the incrementally maintained
// snapshot; streaks match because the replay order is the insertion order.
func Rebuild(history []model.Orb) model.Snapshot {
	s := model.EmptySnapshot()
	for i, orb := range history {
		Update(&s, orb, history[:i])
	}
	return s
}
