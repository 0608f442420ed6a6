// Package questiongen produces practice questions for post-session
// assignments via a third-party generative-text API.
package questiongen

import (
	"context"
)

// Question is one generated practice question.
type Question struct {
	Prompt string `json:"prompt"`
	Hint   string `json:"hint,omitempty"`
}

// Request describes the questions to generate.
type Request struct {
	Topic      string `json:"topic"`
	SkillName  string `json:"skill_name"`
	Difficulty string `json:"difficulty"` // easy|medium|hard
	Count      int    `json:"count"`
}

// Generator produces questions for a topic. Implementations must be safe for
// concurrent use.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Question, error)
}

// DefaultCount is used when a request does not say how many questions it
// wants.
const DefaultCount = 5

// normalizeRequest fills defaults so equivalent requests hit the same cache
// key downstream.
func normalizeRequest(req Request) Request {
	if req.Count <= 0 {
		req.Count = DefaultCount
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}
	return req
}
