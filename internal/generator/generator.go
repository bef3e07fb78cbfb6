// Package generator calls the upstream LLM API to synthesize candidate quiz
// questions. Output is untrusted: every candidate is validated against the
// same schema as stored questions and non-conforming ones are rejected
// per-question. Malformed payloads are never repaired, only rejected.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/finprep/certquiz-backend/internal/config"
	"github.com/rs/zerolog"
)

// ErrUnavailable marks a generation failure after all attempts. It is
// retryable from the caller's point of view (mapped to 503).
var ErrUnavailable = errors.New("question generator unavailable")

// Candidate is one generated question as returned by the LLM, prior to
// validation.
type Candidate struct {
	QuestionText  string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	http     *http.Client
	baseURL  string
	apiKey   string
	model    string
	attempts int
	log      zerolog.Logger
}

// NewClient creates a generator Client from configuration.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	attempts := cfg.GeneratorRetries
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		http:     &http.Client{Timeout: cfg.GeneratorTimeout},
		baseURL:  strings.TrimRight(cfg.GeneratorBaseURL, "/"),
		apiKey:   cfg.GeneratorAPIKey,
		model:    cfg.GeneratorModel,
		attempts: attempts,
		log:      log.With().Str("component", "generator").Logger(),
	}
}

// Generate requests count questions for the given certification label. It
// retries a bounded number of times and returns ErrUnavailable (wrapped) when
// no attempt produced enough valid candidates.
func (c *Client) Generate(ctx context.Context, certification string, count int) ([]Candidate, error) {
	prompt := buildPrompt(certification, count)

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		candidates, err := c.generateOnce(ctx, prompt)
		if err != nil {
			lastErr = err
			c.log.Warn().Err(err).Int("attempt", attempt).Msg("generation attempt failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}

		valid := candidates[:0]
		for _, cand := range candidates {
			if err := ValidateCandidate(cand); err != nil {
				c.log.Debug().Err(err).Msg("rejected generated question")
				continue
			}
			valid = append(valid, cand)
		}

		if len(valid) >= count {
			return valid[:count], nil
		}
		lastErr = fmt.Errorf("only %d of %d candidates passed validation", len(valid), count)
		c.log.Warn().Int("attempt", attempt).Int("valid", len(valid)).Int("wanted", count).
			Msg("not enough valid generated questions")
	}

	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (c *Client) generateOnce(ctx context.Context, prompt string) ([]Candidate, error) {
	content, err := c.chatCompletion(ctx, prompt)
	if err != nil {
		return nil, err
	}

	raw := extractJSON(content)
	if raw == "" {
		return nil, errors.New("no JSON object in model output")
	}

	var payload struct {
		Questions []Candidate `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	if payload.Questions == nil {
		return nil, errors.New("model output missing questions array")
	}
	return payload.Questions, nil
}

// ValidateCandidate checks a generated question against the stored-question
// schema: non-empty stem, exactly four non-empty options, correct index in
// range. Explanation is optional.
func ValidateCandidate(c Candidate) error {
	if strings.TrimSpace(c.QuestionText) == "" {
		return errors.New("empty question text")
	}
	if len(c.Options) != 4 {
		return fmt.Errorf("expected 4 options, got %d", len(c.Options))
	}
	for i, opt := range c.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("option %d is empty", i)
		}
	}
	if c.CorrectAnswer < 0 || c.CorrectAnswer > 3 {
		return fmt.Errorf("correct answer index %d out of range", c.CorrectAnswer)
	}
	return nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) chatCompletion(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
		MaxTokens:   4000,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("empty choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractJSON strips markdown code fences and returns the outermost JSON
// object in s, or "" if none exists.
func extractJSON(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func buildPrompt(certification string, count int) string {
	return fmt.Sprintf(`Generate a practice quiz for the %s certification with exactly %d multiple choice questions.

Respond ONLY with valid JSON in this exact format:
{
  "questions": [
    {
      "question": "What is the question text?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Why the correct option is correct."
    }
  ]
}

Requirements:
- Exactly %d questions
- Each question must have exactly 4 options
- correctAnswer must be the index (0, 1, 2, or 3) of the correct option
- Questions should be practical and certification-relevant
- No markdown formatting, just pure JSON`, certification, count, count)
}
