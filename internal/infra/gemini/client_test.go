package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{APIKey: "test-key"})
	require.NoError(t, err)
	c.baseURL = srv.URL
	return c
}

func TestClient_Generate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "Dynamite - BTS\nLevitating - Dua Lipa"}]}}
			]
		}`))
	})

	text, err := c.Generate(context.Background(), "suggest songs")
	require.NoError(t, err)
	assert.Equal(t, "Dynamite - BTS\nLevitating - Dua Lipa", text)
}

func TestClient_Generate_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "invalid argument"}}`))
	})

	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument")
}

func TestClient_Generate_EmptyCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	})

	_, err := c.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	c, err := New(Config{APIKey: "k", Model: "gemini-1.5-pro"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", c.model)
}
