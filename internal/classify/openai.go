package classify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/kokoro-ai/kokoro/internal/model"
)

// OpenAIProvider classifies statements with an OpenAI model using a
// strict structured-output schema, so a well-behaved response always
// parses into a typed result.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates the provider. model should be a small, fast
// chat model; classification prompts are a single short statement.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{client: &client, model: model}
}

// classifyResponse is the schema the model must produce.
type classifyResponse struct {
	Emotion    string  `json:"emotion" jsonschema:"enum=joy,enum=love,enum=sadness,enum=anger,enum=fear,enum=peace,enum=neutral,description=The dominant emotion of the statement"`
	Intensity  float64 `json:"intensity" jsonschema:"description=How strongly the emotion is expressed from 0.0 to 1.0"`
	Confidence float64 `json:"confidence" jsonschema:"description=How certain the classification is from 0.0 to 1.0"`
}

var classifySchema = generateSchema[classifyResponse]()

const classifyInstructions = `You classify short emotional statements.
Given the user's statement, pick the single dominant emotion from:
joy, love, sadness, anger, fear, peace, neutral.
Rate intensity (how strongly the emotion is expressed) and confidence
(how certain you are) on a 0.0-1.0 scale. Use neutral with low
confidence when the statement carries no clear emotion.`

// Classify sends a single classification request. One attempt; the
// caller's fallback policy handles failure.
func (p *OpenAIProvider) Classify(ctx context.Context, text string) (Result, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "EmotionClassification",
			Schema:      classifySchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Emotion classification JSON"),
			Type:        "json_schema",
		},
	}

	resp, err := p.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           p.model,
		MaxOutputTokens: openai.Int(200),
		Instructions:    openai.String(classifyInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{Format: format},
	})
	if err != nil {
		return Result{}, fmt.Errorf("classify: openai request: %w", err)
	}

	var out classifyResponse
	if err := json.Unmarshal([]byte(resp.OutputText()), &out); err != nil {
		return Result{}, fmt.Errorf("classify: decode openai response: %w", err)
	}

	return Result{
		Emotion:    model.Emotion(out.Emotion),
		Intensity:  out.Intensity,
		Confidence: out.Confidence,
	}, nil
}

// generateSchema reflects a strict JSON schema for structured outputs.
func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	// Strict mode requires every property to be listed as required.
	if props, ok := m["properties"].(map[string]any); ok {
		required := make([]any, 0, len(props))
		for name := range props {
			required = append(required, name)
		}
		m["required"] = required
	}
	return m
}
