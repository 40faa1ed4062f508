// Package openai implements the model-backed recommendation engine using
// the OpenAI Chat Completions API in JSON mode.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skyops/aeromaint/pkg/advisor"
	"github.com/skyops/aeromaint/pkg/models"
)

const (
	defaultAPIURL  = "https://api.openai.com/v1/chat/completions"
	defaultTimeout = 60 * time.Second

	engineID = "openai"
)

// Config holds the settings required to reach the completions endpoint.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string        // defaults to the public API endpoint
	Timeout time.Duration // defaults to 60s
}

// Client is the model-backed advisor.
type Client struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates the configuration and builds the client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("openai model is required")
	}

	apiURL := cfg.BaseURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("module", "advisor", "engine", engineID),
	}, nil
}

// Name returns the engine identifier.
func (c *Client) Name() string {
	return engineID
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float32        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type generatedPayload struct {
	Recommendations []struct {
		TailNumber    string   `json:"tail_number"`
		Type          string   `json:"type"`
		Confidence    float64  `json:"confidence"`
		EstimatedCost float64  `json:"estimated_cost"`
		Urgency       string   `json:"urgency"`
		Reasoning     []string `json:"reasoning"`
	} `json:"recommendations"`
}

// Recommendations prompts the model with the fleet snapshot and converts
// the validated payload into domain records.
func (c *Client) Recommendations(
	ctx context.Context,
	fleet []models.AircraftUtilization,
	schedule *models.ScheduleContext,
) ([]*models.Recommendation, error) {
	userPrompt, err := buildUserPrompt(fleet, schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	raw, err := c.complete(ctx, userPrompt)
	if err != nil {
		return nil, err
	}

	err = advisor.ValidateGenerated(raw)
	if err != nil {
		return nil, err
	}

	var payload generatedPayload

	err = json.Unmarshal(raw, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated payload: %w", err)
	}

	now := time.Now().UTC()
	recs := make([]*models.Recommendation, 0, len(payload.Recommendations))

	for _, item := range payload.Recommendations {
		recs = append(recs, &models.Recommendation{
			ID:            uuid.New().String(),
			TailNumber:    item.TailNumber,
			Type:          models.MaintenanceType(item.Type),
			Confidence:    models.ClampConfidence(item.Confidence),
			EstimatedCost: item.EstimatedCost,
			Urgency:       models.Urgency(item.Urgency),
			Reasoning:     item.Reasoning,
			Status:        models.RecommendationStatusPending,
			GeneratedBy:   engineID + ":" + c.model,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	c.logger.InfoContext(ctx, "generated recommendations",
		"fleet_size", len(fleet),
		"count", len(recs),
	)

	return recs, nil
}

func (c *Client) complete(ctx context.Context, userPrompt string) (json.RawMessage, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read openai response: %w", err)
	}

	var parsed chatResponse

	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openai response: %w", err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}

	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai response missing choices")
	}

	if parsed.Usage != nil {
		c.logger.DebugContext(ctx, "token usage",
			"prompt_tokens", parsed.Usage.PromptTokens,
			"completion_tokens", parsed.Usage.CompletionTokens,
			"total_tokens", parsed.Usage.TotalTokens,
		)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("openai response empty content")
	}

	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("invalid JSON from openai")
	}

	return json.RawMessage(content), nil
}
