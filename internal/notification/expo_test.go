package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpoSenderPayload(t *testing.T) {
	var got expoMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewExpoSender(server.URL, 2*time.Second)
	err := sender.Send(context.Background(), "ExponentPushToken[abc]", "Visitor at the Gate!", "The PIN is 1234.")
	require.NoError(t, err)

	assert.Equal(t, "ExponentPushToken[abc]", got.To)
	assert.Equal(t, "Visitor at the Gate!", got.Title)
	assert.Equal(t, "The PIN is 1234.", got.Body)
	assert.Equal(t, "default", got.Sound)
}

func TestExpoSenderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := NewExpoSender(server.URL, 2*time.Second)
	err := sender.Send(context.Background(), "token", "title", "body")
	assert.Error(t, err)
}
