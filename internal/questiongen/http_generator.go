package questiongen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPGenerator calls the external generative-text API.
type HTTPGenerator struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPGenerator(baseURL, apiKey string, logger *slog.Logger) *HTTPGenerator {
	return &HTTPGenerator{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type generateRequestBody struct {
	Topic      string `json:"topic"`
	Skill      string `json:"skill"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

type generateResponseBody struct {
	Questions []Question `json:"questions"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, req Request) ([]Question, error) {
	req = normalizeRequest(req)

	body, err := json.Marshal(generateRequestBody{
		Topic:      req.Topic,
		Skill:      req.SkillName,
		Difficulty: req.Difficulty,
		Count:      req.Count,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/questions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("question generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("question generation API returned %d: %s", resp.StatusCode, payload)
	}

	var parsed generateResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode generate response: %w", err)
	}

	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("question generation API returned no questions")
	}

	g.logger.Debug("Questions generated",
		"topic", req.Topic,
		"count", len(parsed.Questions))

	return parsed.Questions, nil
}
