package deepseek

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"stayscout/internal/adapters/observability"
	"stayscout/internal/domain"
)

const systemPrompt = `You are an expert hotel review analyst. The user will provide aspects that they are looking for in a hotel as well as an array of hotels to analyze.
Analyze the provided hotel reviews and return a score of how well the hotel matches their query from 0 to 100 with 2 decimal places as well as key points from the reviews.
For each hotel, consider both the review content and the ratings if available.
Return the result as a JSON array where each element has the shape
{"hotel_id": "...", "score": 53.53, "key_points": ["...", "..."]}
with exactly one element per input hotel, in input order. Respond with JSON only.`

// Scorer scores review evidence against a user query through an
// OpenAI-compatible chat endpoint (DeepSeek by default). Only the
// request/response contract leaks out of this package.
type Scorer struct {
	client *openai.Client
	model  string
}

// New builds a Scorer. baseURL selects the provider ("https://api.deepseek.com"
// for DeepSeek); any OpenAI-compatible endpoint works.
func New(baseURL, apiKey, model string) (*Scorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = "deepseek-chat"
	}
	return &Scorer{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

// ScoreBatch sends one batch of evidence plus the user query and decodes
// the structured response. The response is parsed leniently: surrounding
// prose or an object wrapper around the array does not fail the batch.
func (s *Scorer) ScoreBatch(ctx context.Context, query string, batch []domain.ReviewEvidence) ([]domain.ScoredHotel, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("marshal evidence: %w", err)
	}
	userPrompt := fmt.Sprintf("User Query: %s\nHotel Reviews:\n%s", query, payload)

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.1,
	})
	observability.ObserveExternal("deepseek", "chat-completions", statusOf(err), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("scorer request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("scorer returned no choices")
	}
	return parseScores(resp.Choices[0].Message.Content)
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	return 0
}

// parseScores extracts the scored array from model output. Models wrap the
// array in markdown fences or an enclosing object often enough that both
// get a chance before the batch is declared malformed.
func parseScores(content string) ([]domain.ScoredHotel, error) {
	raw := strings.TrimSpace(content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	if arr := sliceBetween(raw, '[', ']'); arr != "" {
		var out []domain.ScoredHotel
		if err := json.Unmarshal([]byte(arr), &out); err == nil {
			return out, nil
		}
	}

	// object wrapper: take the first array-valued field
	if obj := sliceBetween(raw, '{', '}'); obj != "" {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal([]byte(obj), &wrapper); err == nil {
			for _, v := range wrapper {
				var out []domain.ScoredHotel
				if err := json.Unmarshal(v, &out); err == nil {
					return out, nil
				}
			}
		}
	}

	return nil, fmt.Errorf("no scored array in scorer response")
}

func sliceBetween(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
