// Package classify implements the two-tier emotion classifier.
//
// The primary path delegates to an external AI provider; when that call
// fails, times out, trips the circuit breaker, or is disabled, the
// deterministic lexicon fallback decides instead. Classification never
// fails for well-formed non-empty text; the worst case is neutral.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kokoro-ai/kokoro/internal/lexicon"
	"github.com/kokoro-ai/kokoro/internal/model"
	"github.com/kokoro-ai/kokoro/internal/telemetry"
)

// Result is a classification outcome: the attributes of an orb before it
// is appended to history.
type Result struct {
	Emotion    model.Emotion
	Color      string
	Intensity  float64
	Confidence float64
	AIAnalyzed bool
}

// Provider is the external AI classification boundary. A failed call is
// recoverable; the classifier falls back to the lexicon.
type Provider interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// Neutral defaults used when no lexicon category matches.
const (
	neutralIntensity  = 0.5
	neutralConfidence = 0.3
)

// Classifier decides orb attributes from text.
type Classifier struct {
	provider Provider // nil means the AI path is disabled
	lexicon  *lexicon.Lexicon
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker
	logger   *slog.Logger

	aiCalls    metric.Int64Counter
	aiDuration metric.Float64Histogram
}

// New creates a Classifier. provider may be nil to force the fallback
// path. timeout bounds each AI call; the breaker opens after repeated
// failures so a dead endpoint stops costing a timeout per statement.
func New(provider Provider, lex *lexicon.Lexicon, timeout time.Duration, logger *slog.Logger) *Classifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "ai-classify",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("classifier breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	meter := telemetry.Meter("kokoro/classify")
	aiCalls, _ := meter.Int64Counter("kokoro.classify.ai_calls",
		metric.WithDescription("AI classification attempts by outcome"),
	)
	aiDur, _ := meter.Float64Histogram("kokoro.classify.ai_duration",
		metric.WithDescription("AI classification call duration (ms)"),
		metric.WithUnit("ms"),
	)

	return &Classifier{
		provider:   provider,
		lexicon:    lex,
		timeout:    timeout,
		breaker:    cb,
		logger:     logger,
		aiCalls:    aiCalls,
		aiDuration: aiDur,
	}
}

// Classify decides the emotion attributes for text. The caller is
// responsible for trimming and length limits; text is assumed non-empty.
// aiEnabled gates the primary path per session settings.
func (c *Classifier) Classify(ctx context.Context, text string, aiEnabled bool) Result {
	if aiEnabled && c.provider != nil {
		if res, err := c.classifyAI(ctx, text); err == nil {
			return res
		} else {
			c.logger.Debug("ai classification failed, using fallback", "error", err)
		}
	}
	return c.classifyFallback(text)
}

func (c *Classifier) classifyAI(ctx context.Context, text string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	out, err := c.breaker.Execute(func() (any, error) {
		res, err := c.provider.Classify(ctx, text)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	c.aiDuration.Record(ctx, float64(time.Since(start).Milliseconds()))

	if err != nil {
		c.aiCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		return Result{}, err
	}

	res := out.(Result)
	if !res.Emotion.IsBase() {
		c.aiCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "invalid")))
		return Result{}, fmt.Errorf("classify: provider returned unknown emotion %q", res.Emotion)
	}

	res.Intensity = model.Clamp01(res.Intensity)
	res.Confidence = model.Clamp01(res.Confidence)
	if res.Color == "" {
		res.Color = model.ColorFor(res.Emotion)
	}
	res.AIAnalyzed = true

	c.aiCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
	return res, nil
}

// classifyFallback applies the lexicon in category precedence order and
// falls back to neutral when nothing matches.
func (c *Classifier) classifyFallback(text string) Result {
	if cat, ok := c.lexicon.Match(text); ok {
		return Result{
			Emotion:    cat.Emotion,
			Color:      model.ColorFor(cat.Emotion),
			Intensity:  cat.Intensity,
			Confidence: cat.Confidence,
		}
	}
	return Result{
		Emotion:    model.EmotionNeutral,
		Color:      model.ColorFor(model.EmotionNeutral),
		Intensity:  neutralIntensity,
		Confidence: neutralConfidence,
	}
}
