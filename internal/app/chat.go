package app

import (
	"context"

	"bizdev/api/internal/llm"

	"go.uber.org/zap"
)

// Converse forwards a message history to the model and returns the reply.
// Provider and transport failures are logged here; callers surface only a
// generic error.
func (s *Service) Converse(ctx context.Context, history []llm.Message) (string, error) {
	text, err := s.chat.Converse(ctx, history)
	if err != nil {
		s.logger.Error("chat gateway failure", zap.Error(err))
		return "", domainError(500, "UPSTREAM_FAILURE", "Chat is unavailable right now", nil)
	}
	return text, nil
}
