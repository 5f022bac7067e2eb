package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/config"
	"pdfchat/internal/models"
)

func TestNewCompleterRequiresCredential(t *testing.T) {
	_, err := NewCompleter(context.Background(), config.CompletionConfig{Provider: "groq"})
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestNewCompleterRejectsUnknownProvider(t *testing.T) {
	_, err := NewCompleter(context.Background(), config.CompletionConfig{Provider: "hal", APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid provider")
}

func TestConvertMessages(t *testing.T) {
	out := convertMessages([]*models.Message{
		models.SystemMessage("rules"),
		nil,
		models.UserMessage("hi"),
		{Role: models.RoleAssistant, Content: "hello"},
	})
	require.Len(t, out, 3)
	assert.Equal(t, "system", string(out[0].Role))
	assert.Equal(t, "user", string(out[1].Role))
	assert.Equal(t, "assistant", string(out[2].Role))
	assert.Equal(t, "hi", out[1].Content)
}

func TestOpenAICompatibleCompleter(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "llama-3.1-8b-instant",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"reply\":\"hello there\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 3, "completion_tokens": 5, "total_tokens": 8}
		}`))
	}))
	defer srv.Close()

	c, err := NewCompleter(context.Background(), config.CompletionConfig{
		Provider:  "groq",
		BaseURL:   srv.URL,
		Model:     "llama-3.1-8b-instant",
		APIKey:    "test-key",
		MaxTokens: 1024,
	})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), []*models.Message{
		models.SystemMessage("answer in json"),
		models.UserMessage("hi"),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"reply":"hello there"}`, out)
	assert.Equal(t, "llama-3.1-8b-instant", gotBody["model"])
	assert.True(t, gotBody["max_tokens"] != nil || gotBody["max_completion_tokens"] != nil)
}

func TestOpenAICompatibleCompleterSurfacesProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c, err := NewCompleter(context.Background(), config.CompletionConfig{
		Provider: "groq", BaseURL: srv.URL, Model: "m", APIKey: "bad",
	})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), []*models.Message{models.UserMessage("hi")})
	require.Error(t, err)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
	assert.Equal(t, "Invalid API Key", ProviderMessage(err))
}

func TestOpenAICompatibleCompleterFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html><body>upstream exploded</body></html>"))
	}))
	defer srv.Close()

	c, err := NewCompleter(context.Background(), config.CompletionConfig{
		Provider: "groq", BaseURL: srv.URL, Model: "m", APIKey: "k",
	})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), []*models.Message{models.UserMessage("hi")})
	require.Error(t, err)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusInternalServerError, pe.StatusCode)
	assert.Equal(t, "groq error: 500", ProviderMessage(err))
}

type failingModel struct {
	err error
}

func (f failingModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	return nil, f.err
}

func (f failingModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, f.err
}

func TestChatModelCompleterWrapsErrors(t *testing.T) {
	pe := &ProviderError{Provider: "groq", StatusCode: 500, Message: "groq error: 500"}
	c := NewChatModelCompleter("groq", failingModel{err: pe}, 10)
	_, err := c.Complete(context.Background(), []*models.Message{models.UserMessage("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pe))
	assert.Equal(t, "groq error: 500", ProviderMessage(err))
}
