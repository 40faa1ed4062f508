package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/aeromaint/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: server.URL,
	}, slog.Default())
	require.NoError(t, err)

	return client
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()

	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}

	require.NoError(t, json.NewEncoder(w).Encode(reply))
}

func TestNewClient_RequiresKeyAndModel(t *testing.T) {
	_, err := NewClient(Config{Model: "gpt-4o-mini"}, slog.Default())
	require.Error(t, err)

	_, err = NewClient(Config{APIKey: "k"}, slog.Default())
	require.Error(t, err)
}

func TestRecommendations_ParsesAndClamps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest

		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		assert.Equal(t, "gpt-4o-mini", req.Model)

		chatReply(t, w, `{
			"recommendations": [
				{
					"tail_number": "N123AM",
					"type": "ENGINE_INSPECTION",
					"confidence": 99,
					"estimated_cost": 85000,
					"urgency": "HIGH",
					"reasoning": ["1150 flight hours"]
				}
			]
		}`)
	})

	recs, err := client.Recommendations(context.Background(), []models.AircraftUtilization{
		{TailNumber: "N123AM", UtilizationPct: 70, FlightHours: 1150},
	}, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "N123AM", recs[0].TailNumber)
	assert.Equal(t, models.MaintenanceTypeEngineInspect, recs[0].Type)
	assert.Equal(t, models.ConfidenceCeiling, recs[0].Confidence)
	assert.Equal(t, models.RecommendationStatusPending, recs[0].Status)
	assert.Equal(t, "openai:gpt-4o-mini", recs[0].GeneratedBy)
}

func TestRecommendations_RejectsInvalidPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		chatReply(t, w, `{"recommendations": [{"tail_number": "N1", "type": "WINGS", "confidence": 50, "estimated_cost": 1, "urgency": "LOW", "reasoning": []}]}`)
	})

	_, err := client.Recommendations(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestRecommendations_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit_error"}}`))
	})

	_, err := client.Recommendations(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestRecommendations_NonJSONContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		chatReply(t, w, "sorry, I cannot help with that")
	})

	_, err := client.Recommendations(context.Background(), nil, nil)
	require.Error(t, err)
}
