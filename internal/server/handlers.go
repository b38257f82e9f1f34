package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kokoro-ai/kokoro/internal/combine"
	"github.com/kokoro-ai/kokoro/internal/model"
	"github.com/kokoro-ai/kokoro/internal/session"
)

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	svc       *session.Service
	logger    *slog.Logger
	startedAt time.Time
	version   string
}

// NewHandlers creates a new Handlers.
func NewHandlers(svc *session.Service, logger *slog.Logger, version string) *Handlers {
	return &Handlers{
		svc:       svc,
		logger:    logger,
		startedAt: time.Now(),
		version:   version,
	}
}

// HandleSubmit handles POST /v1/orbs.
func (h *Handlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}
	if err := model.ValidateText(req.Text); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	orb, err := h.svc.Submit(r.Context(), req.Text)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}
	writeJSON(w, r, http.StatusCreated, orb)
}

// HandleList handles GET /v1/orbs. Orbs come back newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.List())
}

// HandleRemove handles DELETE /v1/orbs/{id}. Removing an absent id is a
// no-op and still answers 204.
func (h *Handlers) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "id must be an integer")
		return
	}
	h.svc.Remove(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleClear handles DELETE /v1/orbs.
func (h *Handlers) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.svc.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// HandleCombine handles POST /v1/orbs/combine. With commit=true the
// composite is appended to history as a new orb.
func (h *Handlers) HandleCombine(w http.ResponseWriter, r *http.Request) {
	var req model.CombineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}

	var resp model.CombineResponse
	var err error
	if req.Commit {
		var orb model.Orb
		resp.Composite, orb, err = h.svc.CombineCommit(r.Context(), req.OrbIDs)
		resp.Orb = &orb
	} else {
		resp.Composite, err = h.svc.Combine(r.Context(), req.OrbIDs)
	}
	if err != nil {
		if errors.Is(err, combine.ErrInvalidCombination) {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
			return
		}
		h.logger.Error("combine failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "combine failed")
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// HandleSubmitFeedback handles POST /v1/feedback.
func (h *Handlers) HandleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req model.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}

	fb, err := h.svc.AddFeedback(r.Context(), req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}
	writeJSON(w, r, http.StatusCreated, fb)
}

// HandleFeedbackStats handles GET /v1/feedback/stats.
func (h *Handlers) HandleFeedbackStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.FeedbackStats())
}

// HandleAnalytics handles GET /v1/analytics.
func (h *Handlers) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.Analytics())
}

// HandleGetSettings handles GET /v1/settings.
func (h *Handlers) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.Settings())
}

// HandlePutSettings handles PUT /v1/settings.
func (h *Handlers) HandlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if err := decodeJSON(r, &settings); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}
	h.svc.SetSettings(r.Context(), settings)
	writeJSON(w, r, http.StatusOK, settings)
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
	})
}
