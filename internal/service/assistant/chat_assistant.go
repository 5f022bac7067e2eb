package assistant

import (
	"context"
)

// Chat sends one user message to the provider and returns the unwrapped reply.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	if err := s.Ready(); err != nil {
		return "", err
	}
	if message == "" {
		return "", newError(KindInvalidRequest, msgEmptyMessage, nil)
	}
	return s.complete(context.WithoutCancel(ctx), chatSystemPrompt, message)
}
