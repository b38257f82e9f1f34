package model

// Snapshot holds the derived analytics over the orb history.
//
// EmotionCounts and DailyMoods are recomputable from a full replay of
// history. Streaks are high-water marks over trailing 7-entry windows and
// reproduce exactly only when updates replay in original insertion order.
type Snapshot struct {
	// EmotionCounts maps emotion to total occurrence count.
	EmotionCounts map[Emotion]int `json:"emotion_counts"`

	// DailyMoods maps a calendar date ("2006-01-02") to per-emotion counts
	// for that day.
	DailyMoods map[string]map[Emotion]int `json:"daily_moods"`

	// Streaks maps emotion to the maximum observed count of that emotion
	// within any trailing 7-entry window of history. Never reset.
	Streaks map[Emotion]int `json:"streaks"`
}

// EmptySnapshot returns a Snapshot with all maps allocated.
func EmptySnapshot() Snapshot {
	return Snapshot{
		EmotionCounts: make(map[Emotion]int),
		DailyMoods:    make(map[string]map[Emotion]int),
		Streaks:       make(map[Emotion]int),
	}
}

// Normalize allocates any nil maps, so a Snapshot decoded from a partial
// persisted record is safe to update in place.
func (s *Snapshot) Normalize() {
	if s.EmotionCounts == nil {
		s.EmotionCounts = make(map[Emotion]int)
	}
	if s.DailyMoods == nil {
		s.DailyMoods = make(map[string]map[Emotion]int)
	}
	if s.Streaks == nil {
		s.Streaks = make(map[Emotion]int)
	}
}

// Clone returns a deep copy. Callers get copies so a held Snapshot never
// aliases the service's live maps.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		EmotionCounts: make(map[Emotion]int, len(s.EmotionCounts)),
		DailyMoods:    make(map[string]map[Emotion]int, len(s.DailyMoods)),
		Streaks:       make(map[Emotion]int, len(s.Streaks)),
	}
	for k, v := range s.EmotionCounts {
		out.EmotionCounts[k] = v
	}
	for day, moods := range s.DailyMoods {
		m := make(map[Emotion]int, len(moods))
		for k, v := range moods {
			m[k] = v
		}
		out.DailyMoods[day] = m
	}
	for k, v := range s.Streaks {
		out.Streaks[k] = v
	}
	return out
}
