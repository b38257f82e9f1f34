package model

import (
	"fmt"
	"time"
)

// Feedback is one user correction of a classification result: the
// statement, what the classifier predicted, and what the user says the
// emotion actually was.
type Feedback struct {
	ID                  int64     `json:"id"`
	Text                string    `json:"text"`
	PredictedEmotion    Emotion   `json:"predicted_emotion"`
	PredictedConfidence float64   `json:"predicted_confidence"`
	CorrectedEmotion    Emotion   `json:"corrected_emotion"`
	CorrectedConfidence float64   `json:"corrected_confidence"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// Valid checks the feedback invariants. Both emotions must come from the
// base vocabulary; corrections name what the classifier should have said,
// and the classifier only says base emotions.
func (f Feedback) Valid() error {
	if err := ValidateText(f.Text); err != nil {
		return err
	}
	if !f.PredictedEmotion.IsBase() {
		return fmt.Errorf("unknown predicted emotion %q", f.PredictedEmotion)
	}
	if !f.CorrectedEmotion.IsBase() {
		return fmt.Errorf("unknown corrected emotion %q", f.CorrectedEmotion)
	}
	if f.PredictedConfidence < 0 || f.PredictedConfidence > 1 {
		return fmt.Errorf("predicted confidence %g out of range [0,1]", f.PredictedConfidence)
	}
	if f.CorrectedConfidence < 0 || f.CorrectedConfidence > 1 {
		return fmt.Errorf("corrected confidence %g out of range [0,1]", f.CorrectedConfidence)
	}
	return nil
}

// FeedbackSuggestion is a lexicon improvement derived from recurring
// misclassification patterns.
type FeedbackSuggestion struct {
	Predicted Emotion  `json:"predicted"`
	Corrected Emotion  `json:"corrected"`
	Count     int      `json:"count"`
	Priority  string   `json:"priority"` // "high" or "medium"
	Examples  []string `json:"examples"`
}

// FeedbackStats summarizes collected feedback.
type FeedbackStats struct {
	Total int `json:"total"`

	// ByCorrectedEmotion counts feedback per user-corrected emotion.
	ByCorrectedEmotion map[Emotion]int `json:"by_corrected_emotion"`

	// AvgConfidenceDelta is the mean of corrected minus predicted
	// confidence; positive means users are more certain than the
	// classifier was.
	AvgConfidenceDelta float64 `json:"avg_confidence_delta"`

	Suggestions []FeedbackSuggestion `json:"suggestions"`
}
