package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"assessment-service/internal/config"
	"assessment-service/internal/models"
)

// ErrResumeUnsupported means the remote service cannot return the in-flight
// question for a session. This is a known capability gap, not a transport
// failure; callers should tell the user to abandon and restart.
var ErrResumeUnsupported = errors.New("oracle does not support resuming this session")

// StartResult is the remote service's answer to opening a session.
type StartResult struct {
	SessionID string               `json:"session_id"`
	Question  *models.ExamQuestion `json:"question"`
	Ability   float64              `json:"ability_estimate"`
}

// SubmitResult is the remote service's scoring of one answer.
type SubmitResult struct {
	Correct       bool                 `json:"is_correct"`
	CorrectAnswer string               `json:"correct_answer"`
	Ability       float64              `json:"ability_estimate"`
	NextQuestion  *models.ExamQuestion `json:"next_question"`
	QuizComplete  bool                 `json:"quiz_complete"`
}

// Client is the ability-scoring service consumed by the exam tracker. The
// service owns all ability math; we only keep the books around it.
type Client interface {
	Start(ctx context.Context, userID string) (*StartResult, error)
	Submit(ctx context.Context, sessionID, questionID, answer string, timeSpentSeconds int) (*SubmitResult, error)
	Resume(ctx context.Context, sessionID string) (*models.ExamQuestion, error)
}

type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewHTTPClient(cfg config.OracleConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *HTTPClient) Start(ctx context.Context, userID string) (*StartResult, error) {
	var result StartResult
	err := c.post(ctx, "/v1/sessions", map[string]interface{}{"user_id": userID}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Submit(ctx context.Context, sessionID, questionID, answer string, timeSpentSeconds int) (*SubmitResult, error) {
	var result SubmitResult
	err := c.post(ctx, "/v1/sessions/"+sessionID+"/answers", map[string]interface{}{
		"question_id":        questionID,
		"answer":             answer,
		"time_spent_seconds": timeSpentSeconds,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Resume(ctx context.Context, sessionID string) (*models.ExamQuestion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/sessions/"+sessionID+"/question", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNotImplemented {
		return nil, ErrResumeUnsupported
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}
	var question models.ExamQuestion
	if err := json.NewDecoder(resp.Body).Decode(&question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
