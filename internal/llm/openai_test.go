package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewOpenAIClientWithConfig(cfg, "gpt-4")
}

func TestCompleteReturnsAssistantContent(t *testing.T) {
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "BOOK:2025-11-06:09:00\nDone."}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	content, err := client.Complete(context.Background(), "You are a scheduler.", []Message{
		{Role: "user", Content: "book me in"},
	})
	require.NoError(t, err)
	assert.Equal(t, "BOOK:2025-11-06:09:00\nDone.", content)

	assert.Equal(t, "gpt-4", gotBody.Model)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Equal(t, "You are a scheduler.", gotBody.Messages[0].Content)
	assert.Equal(t, "user", gotBody.Messages[1].Role)
}

func TestCompleteCoercesUnknownRoles(t *testing.T) {
	var roles []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		for _, m := range body.Messages {
			roles = append(roles, m.Role)
		}
		w.Header().Set("Content-Type", "application/json")
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "ok"}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	_, err := client.Complete(context.Background(), "prompt", []Message{
		{Role: "tool", Content: "something odd"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"system", "user"}, roles)
}

func TestCompleteTransportFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	})

	_, err := client.Complete(context.Background(), "prompt", nil)
	assert.Error(t, err)
}

func TestCompleteEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(openai.ChatCompletionResponse{}))
	})

	content, err := client.Complete(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "Error parsing response: no choices in completion", content)
}
