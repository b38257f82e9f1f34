// Package feedback summarizes user corrections of classification results
// into statistics and lexicon improvement suggestions.
package feedback

import (
	"sort"

	"github.com/kokoro-ai/kokoro/internal/model"
)

// Suggestion thresholds: a predicted→corrected pattern needs suggestCount
// occurrences to surface at all and highCount to be flagged high priority.
const (
	suggestCount = 3
	highCount    = 5
)

// maxExamples bounds the example statements carried per suggestion.
const maxExamples = 5

// Stats derives the feedback summary from all collected entries. Pure:
// the caller owns the slice and ordering does not matter except for which
// example statements appear first.
func Stats(entries []model.Feedback) model.FeedbackStats {
	stats := model.FeedbackStats{
		Total:              len(entries),
		ByCorrectedEmotion: make(map[model.Emotion]int),
	}

	type patternKey struct {
		predicted model.Emotion
		corrected model.Emotion
	}
	type pattern struct {
		count    int
		examples []string
	}
	patterns := make(map[patternKey]*pattern)

	deltaSum := 0.0
	for _, f := range entries {
		stats.ByCorrectedEmotion[f.CorrectedEmotion]++
		deltaSum += f.CorrectedConfidence - f.PredictedConfidence

		// Agreements carry no misclassification signal.
		if f.PredictedEmotion == f.CorrectedEmotion {
			continue
		}
		key := patternKey{predicted: f.PredictedEmotion, corrected: f.CorrectedEmotion}
		p, ok := patterns[key]
		if !ok {
			p = &pattern{}
			patterns[key] = p
		}
		p.count++
		if len(p.examples) < maxExamples {
			p.examples = append(p.examples, f.Text)
		}
	}
	if len(entries) > 0 {
		stats.AvgConfidenceDelta = deltaSum / float64(len(entries))
	}

	for key, p := range patterns {
		if p.count < suggestCount {
			continue
		}
		priority := "medium"
		if p.count >= highCount {
			priority = "high"
		}
		stats.Suggestions = append(stats.Suggestions, model.FeedbackSuggestion{
			Predicted: key.predicted,
			Corrected: key.corrected,
			Count:     p.count,
			Priority:  priority,
			Examples:  p.examples,
		})
	}
	// Most frequent first; ties break on the emotion pair for stable output.
	sort.Slice(stats.Suggestions, func(i, j int) bool {
		a, b := stats.Suggestions[i], stats.Suggestions[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Predicted != b.Predicted {
			return a.Predicted < b.Predicted
		}
		return a.Corrected < b.Corrected
	})

	return stats
}
