// Package practiceapi talks to the question generation and grading backend.
package practiceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/models"
	"github.com/noah-isme/prepx-tracker-api/pkg/middleware/requestid"
)

const maxErrorBody = 512

// Client calls the practice backend over HTTP. It implements both the question
// generator and the answer grader used by practice sessions.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("practice api %s returned status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("practice api %s returned status %d: %s", e.Endpoint, e.Status, e.Body)
}

// NewClient creates a client for baseURL, e.g. "http://localhost:8000".
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type generateRequest struct {
	UserID     string `json:"user_id"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty,omitempty"`
}

type submitRequest struct {
	UserID         string `json:"user_id"`
	Topic          string `json:"topic"`
	SelectedOption string `json:"selected_option"`
	CorrectAnswer  string `json:"correct_answer"`
}

// generateResponse keeps difficulty as a raw string; backends are free to answer with
// labels outside the closed set, which callers then replace.
type generateResponse struct {
	Topic      string          `json:"topic"`
	Difficulty string          `json:"difficulty"`
	Question   models.Question `json:"question"`
}

// GenerateQuestion requests a question for topic. difficulty may be empty.
func (c *Client) GenerateQuestion(ctx context.Context, userID, topic string, difficulty models.Difficulty) (*models.GeneratedQuestion, error) {
	var resp generateResponse
	err := c.post(ctx, "/api/practice/generate", generateRequest{
		UserID:     userID,
		Topic:      topic,
		Difficulty: string(difficulty),
	}, &resp)
	if err != nil {
		return nil, err
	}

	parsed, err := models.ParseDifficulty(resp.Difficulty)
	if err != nil {
		c.logger.Debug("practice api returned unknown difficulty", zap.String("difficulty", resp.Difficulty))
		parsed = ""
	}
	return &models.GeneratedQuestion{Topic: topic, Difficulty: parsed, Question: resp.Question}, nil
}

// SubmitAnswer asks the backend to grade an answer.
func (c *Client) SubmitAnswer(ctx context.Context, userID, topic, selectedOption, correctAnswer string) (*models.GradeResult, error) {
	var result models.GradeResult
	err := c.post(ctx, "/api/practice/submit", submitRequest{
		UserID:         userID,
		Topic:          topic,
		SelectedOption: selectedOption,
		CorrectAnswer:  correctAnswer,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.Header, reqID)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("practice api %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("practice api call",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Endpoint: endpoint, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
