package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClientValidation(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{BaseURL: "http://x"}, nil)
	assert.Error(t, err)

	_, err = NewOpenAIClient(OpenAIConfig{Model: "m"}, nil)
	assert.Error(t, err)

	c, err := NewOpenAIClient(OpenAIConfig{Model: "m", BaseURL: "http://x/"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://x", c.baseURL)
}

func TestOpenAIClientComplete(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{
					"message":       map[string]any{"content": "hello"},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(OpenAIConfig{
		Model:   "test-model",
		BaseURL: srv.URL,
		APIKey:  "secret",
	}, nil)
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hi"},
		},
		Temperature: 0.3,
		MaxTokens:   100,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Len(t, gotReq.Messages, 2)
	assert.InDelta(t, 0.3, gotReq.Temperature, 1e-9)
	assert.Equal(t, 100, gotReq.MaxTokens)
	assert.False(t, gotReq.Stream)
}

func TestOpenAIClientCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantIn  string
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream overloaded", http.StatusBadGateway)
			},
			wantIn: "status 502",
		},
		{
			name: "API error payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error": {"message": "invalid model", "type": "invalid_request_error"}}`))
			},
			wantIn: "invalid model",
		},
		{
			name: "empty choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices": []}`))
			},
			wantIn: "no choices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client, err := NewOpenAIClient(OpenAIConfig{Model: "m", BaseURL: srv.URL}, nil)
			require.NoError(t, err)

			_, err = client.Complete(context.Background(), Request{
				Messages: []Message{{Role: RoleUser, Content: "hi"}},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantIn)
		})
	}
}

func TestMockClient(t *testing.T) {
	m := NewMock().Respond("one").Respond("two")

	r1, err := m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "one", r1.Content)

	r2, err := m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "two", r2.Content)

	_, err = m.Complete(context.Background(), Request{})
	assert.Error(t, err)
	assert.Equal(t, 3, m.Calls())
}
