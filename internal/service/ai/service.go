package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pdfchat/internal/config"
	"pdfchat/internal/models"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const GroqBaseURL = "https://api.groq.com/openai/v1"

var ErrMissingCredential = errors.New("provider credential is not set")

// Completer turns a prompt into a single text completion.
type Completer interface {
	Complete(ctx context.Context, messages []*models.Message) (string, error)
}

type chatModelCompleter struct {
	provider  string
	chatModel model.BaseChatModel
	maxTokens int
}

// NewCompleter builds the completion client for the configured provider.
// Requests are single-shot: no retries and no timeout beyond the HTTP stack's own.
func NewCompleter(ctx context.Context, cfg config.CompletionConfig) (Completer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredential, cfg.CredentialEnv())
	}
	provider := strings.ToLower(cfg.Provider)
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.DefaultMaxTokens
	}

	var (
		chatModel model.BaseChatModel
		err       error
	)
	switch provider {
	case "groq", "openai":
		baseURL := cfg.BaseURL
		if baseURL == "" && provider == "groq" {
			baseURL = GroqBaseURL
		}
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:    baseURL,
			Model:      cfg.Model,
			APIKey:     cfg.APIKey,
			HTTPClient: &http.Client{Transport: newProviderTransport(provider, nil)},
		})
	case "gemini":
		client, cerr := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.APIKey,
		})
		if cerr != nil {
			return nil, fmt.Errorf("create gemini client: %w", cerr)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  cfg.Model,
		})
	case "claude":
		var baseURLPtr *string
		if cfg.BaseURL != "" {
			baseURLPtr = &cfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: maxTokens,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}
	return NewChatModelCompleter(provider, chatModel, maxTokens), nil
}

// NewChatModelCompleter adapts any eino chat model.
func NewChatModelCompleter(provider string, chatModel model.BaseChatModel, maxTokens int) Completer {
	return &chatModelCompleter{provider: provider, chatModel: chatModel, maxTokens: maxTokens}
}

func (c *chatModelCompleter) Complete(ctx context.Context, messages []*models.Message) (string, error) {
	resp, err := c.chatModel.Generate(ctx, convertMessages(messages), model.WithMaxTokens(c.maxTokens))
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", c.provider, err)
	}
	if resp == nil {
		return "", nil
	}
	return resp.Content, nil
}

func convertMessages(history []*models.Message) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history))
	for _, msg := range history {
		if msg == nil {
			continue
		}
		var role schema.RoleType
		switch msg.Role {
		case models.RoleAssistant:
			role = schema.Assistant
		case models.RoleSystem:
			role = schema.System
		default:
			role = schema.User
		}
		messages = append(messages, &schema.Message{
			Role:    role,
			Content: msg.Content,
		})
	}
	return messages
}
