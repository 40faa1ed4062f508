package mailtrap

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/aeromaint/pkg/mailer"
	"github.com/skyops/aeromaint/pkg/models"
)

func testMessage() mailer.Message {
	return mailer.Message{
		To:       models.Recipient{Name: "Maintenance Manager", Email: "mx@skyops.example", Role: "maintenance_manager"},
		Subject:  "Maintenance approved",
		TextBody: "text",
		HTMLBody: "<p>html</p>",
	}
}

func TestSend_PostsBearerTokenAndPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPost, r.Method)

		var req sendRequest

		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mx@skyops.example", req.To[0].Email)
		assert.Equal(t, "Maintenance approved", req.Subject)

		_ = json.NewEncoder(w).Encode(sendResponse{Success: true, MessageIDs: []string{"mt-1"}})
	}))
	t.Cleanup(server.Close)

	transport, err := NewTransport(Config{Token: "token-1", BaseURL: server.URL}, slog.Default())
	require.NoError(t, err)

	id, err := transport.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "mt-1", id)
}

func TestSend_SandboxAppendsInboxID(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		_ = json.NewEncoder(w).Encode(sendResponse{Success: true, MessageIDs: []string{"mt-2"}})
	}))
	t.Cleanup(server.Close)

	transport, err := NewTransport(Config{
		Token:   "token-1",
		Sandbox: true,
		InboxID: "12345",
		BaseURL: server.URL,
	}, slog.Default())
	require.NoError(t, err)

	_, err = transport.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "/12345", gotPath)
}

func TestSend_APIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(sendResponse{Success: false, Errors: []string{"invalid token"}})
	}))
	t.Cleanup(server.Close)

	transport, err := NewTransport(Config{Token: "bad", BaseURL: server.URL}, slog.Default())
	require.NoError(t, err)

	_, err = transport.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestNewTransport_Validation(t *testing.T) {
	_, err := NewTransport(Config{}, slog.Default())
	require.Error(t, err)

	_, err = NewTransport(Config{Token: "t", Sandbox: true}, slog.Default())
	require.Error(t, err)
}
