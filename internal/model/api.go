package model

import "time"

// APIResponse is the standard response envelope for all HTTP API responses.
type APIResponse struct {
	Data any          `json:"data,omitempty"`
	Meta ResponseMeta `json:"meta"`
}

// APIError is the standard error response envelope.
type APIError struct {
	Error ErrorDetail  `json:"error"`
	Meta  ResponseMeta `json:"meta"`
}

// ResponseMeta contains request metadata included in every response.
type ResponseMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorDetail describes an API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorCode constants for standard API error codes.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeRateLimited   = "RATE_LIMITED"
)

// SubmitRequest is the request body for POST /v1/orbs.
type SubmitRequest struct {
	Text string `json:"text"`
}

// CombineRequest is the request body for POST /v1/orbs/combine.
type CombineRequest struct {
	OrbIDs []int64 `json:"orb_ids"`
	Commit bool    `json:"commit"`
}

// CombineResponse pairs the resolved composite with the orb created when
// the caller asked for the result to be committed.
type CombineResponse struct {
	Composite Composite `json:"composite"`
	Orb       *Orb      `json:"orb,omitempty"`
}

// FeedbackRequest is the request body for POST /v1/feedback.
type FeedbackRequest struct {
	Text                string  `json:"text"`
	PredictedEmotion    Emotion `json:"predicted_emotion"`
	PredictedConfidence float64 `json:"predicted_confidence"`
	CorrectedEmotion    Emotion `json:"corrected_emotion"`
	CorrectedConfidence float64 `json:"corrected_confidence"`
	Notes               string  `json:"notes,omitempty"`
}
