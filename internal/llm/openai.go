// Package llm wraps the OpenAI chat-completion API behind a small client
// interface so the agent can be exercised against a stub in tests.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Message is a minimal chat message. Role must be one of: "system",
// "user", or "assistant".
type Message struct {
	Role    string
	Content string
}

// Client yields the assistant's reply for a system prompt plus the prior
// conversation. Complete blocks; callers that must not stall run it on
// their own goroutine.
type Client interface {
	Complete(ctx context.Context, systemPrompt string, history []Message) (string, error)
}

// OpenAIClient calls the OpenAI API for chat responses. API credentials and
// the model name are loaded from environment variables.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs an OpenAI-backed client. It reads the API key
// from OPENAI_API_KEY; OPENAI_MODEL overrides the model argument, and an
// empty model falls back to gpt-4. A missing key is not an error here; the
// API rejects the first call instead, and that surfaces through the normal
// error path.
func NewOpenAIClient(model string) *OpenAIClient {
	if env := os.Getenv("OPENAI_MODEL"); env != "" {
		model = env
	}
	if model == "" {
		model = openai.GPT4
	}
	return &OpenAIClient{
		client: openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		model:  model,
	}
}

// NewOpenAIClientWithConfig constructs a client from an explicit
// configuration. Tests point the BaseURL at a local httptest server.
func NewOpenAIClientWithConfig(cfg openai.ClientConfig, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}
}

// Model returns the chat model this client requests.
func (c *OpenAIClient) Model() string { return c.model }

// Complete sends the system prompt and conversation history to the chat
// completion endpoint and returns the assistant's reply.
//
// Transport and HTTP failures return an error. A response that lacks
// choices[0].message.content is reported in-band as "Error parsing
// response: <cause>" with a nil error: the caller treats it as assistant
// text, so it reaches the transcript and the user but never parses as a
// directive.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		role := m.Role
		if role != openai.ChatMessageRoleSystem && role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			// coerce anything unknown to user
			role = openai.ChatMessageRoleUser
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return fmt.Sprintf("Error parsing response: %s", "no choices in completion"), nil
	}
	return resp.Choices[0].Message.Content, nil
}
