package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/kokoro-ai/kokoro/internal/combine"
	"github.com/kokoro-ai/kokoro/internal/model"
)

func (s *Server) handleSubmit(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	text := strings.TrimSpace(request.GetString("text", ""))
	if err := model.ValidateText(text); err != nil {
		return errorResult(err.Error()), nil
	}

	orb, err := s.svc.Submit(ctx, text)
	if err != nil {
		return errorResult(fmt.Sprintf("submit failed: %v", err)), nil
	}
	return jsonResult(orb)
}

func (s *Server) handleOrbs(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	limit := int(request.GetFloat("limit", 20))
	if limit < 1 {
		limit = 20
	}

	orbs := s.svc.List()
	if len(orbs) > limit {
		orbs = orbs[:limit]
	}
	return jsonResult(orbs)
}

func (s *Server) handleCombine(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	raw := request.GetString("orb_ids", "")
	commit := request.GetBool("commit", false)

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid orb id %q", part)), nil
		}
		ids = append(ids, id)
	}

	var resp model.CombineResponse
	var err error
	if commit {
		var orb model.Orb
		resp.Composite, orb, err = s.svc.CombineCommit(ctx, ids)
		resp.Orb = &orb
	} else {
		resp.Composite, err = s.svc.Combine(ctx, ids)
	}
	if err != nil {
		if errors.Is(err, combine.ErrInvalidCombination) {
			return errorResult(err.Error()), nil
		}
		s.logger.Error("mcp combine failed", "error", err)
		return errorResult("combine failed"), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleFeedback(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	req := model.FeedbackRequest{
		Text:                request.GetString("text", ""),
		PredictedEmotion:    model.Emotion(request.GetString("predicted_emotion", "")),
		PredictedConfidence: request.GetFloat("predicted_confidence", 0),
		CorrectedEmotion:    model.Emotion(request.GetString("corrected_emotion", "")),
		CorrectedConfidence: request.GetFloat("corrected_confidence", 1),
		Notes:               request.GetString("notes", ""),
	}

	fb, err := s.svc.AddFeedback(ctx, req)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(fb)
}

func (s *Server) handleAnalytics(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return jsonResult(s.svc.Analytics())
}
