package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatReturnsAssistantReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openRouterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "meta-llama/llama-3.3-70b-instruct", req.Model)
		require.NotEmpty(t, req.Messages)

		fmt.Fprint(w, `{"choices": [{"message": {"content": "Day 1: arrive and relax."}}]}`)
	}))
	defer srv.Close()

	client := NewAIClient("test-key", "meta-llama/llama-3.3-70b-instruct", srv.URL)
	reply, err := client.Chat(context.Background(), []ChatTurn{{Role: "user", Content: "plan my trip"}})

	require.NoError(t, err)
	assert.Equal(t, "Day 1: arrive and relax.", reply)
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "upstream error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model overloaded", http.StatusServiceUnavailable)
			},
		},
		{
			name: "empty choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"choices": []}`)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `not json`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewAIClient("test-key", "test-model", srv.URL)
			_, err := client.Chat(context.Background(), []ChatTurn{{Role: "user", Content: "hi"}})
			assert.Error(t, err)
		})
	}
}

func TestChatWithoutAPIKey(t *testing.T) {
	client := NewAIClient("", "test-model", "https://openrouter.invalid")
	_, err := client.Chat(context.Background(), []ChatTurn{{Role: "user", Content: "hi"}})
	assert.EqualError(t, err, "openrouter API key not configured")
}
