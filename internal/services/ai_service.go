package services

import (
	"context"
	"errors"
	"strings"

	"github.com/brahimakil/coachingsystem-sub001/internal/ai"
	"github.com/brahimakil/coachingsystem-sub001/internal/models"
)

var ErrAIUnavailable = errors.New("ai client is not configured")

type aiTurnStore interface {
	Append(ctx context.Context, playerID string, role models.AIRole, content string) (*models.AITurn, error)
	History(ctx context.Context, playerID string) ([]models.AITurn, error)
	Clear(ctx context.Context, playerID string) error
}

// AIChatService stores chat turns and forwards prompts to the hosted model.
// No business logic lives here: generation failures propagate to the caller
// as-is, and no fallback text is ever synthesized.
type AIChatService struct {
	repo   aiTurnStore
	client ai.CompletionClient
}

func NewAIChatService(repo aiTurnStore, client ai.CompletionClient) *AIChatService {
	return &AIChatService{repo: repo, client: client}
}

func (s *AIChatService) History(ctx context.Context, playerID string) ([]models.AITurn, error) {
	if playerID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.History(ctx, playerID)
}

// Send stores the player's turn, forwards it with the prior history to the
// model, and stores the assistant's reply. A generation failure leaves the
// user turn persisted so the history stays honest about what was asked.
func (s *AIChatService) Send(ctx context.Context, playerID, message string) (*models.AITurn, error) {
	if s.client == nil {
		return nil, ErrAIUnavailable
	}
	message = strings.TrimSpace(message)
	if playerID == "" || message == "" {
		return nil, ErrInvalidInput
	}

	history, err := s.repo.History(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Append(ctx, playerID, models.AIRoleUser, message); err != nil {
		return nil, err
	}

	turns := make([]ai.Turn, 0, len(history))
	for _, turn := range history {
		turns = append(turns, ai.Turn{Role: string(turn.Role), Content: turn.Content})
	}

	reply, err := s.client.Complete(ctx, message, turns)
	if err != nil {
		return nil, err
	}

	return s.repo.Append(ctx, playerID, models.AIRoleAssistant, reply)
}

// StoreResponse writes an assistant turn directly, without a model call.
// The admin console uses this to inject a human reply into the thread.
func (s *AIChatService) StoreResponse(ctx context.Context, playerID, response string) (*models.AITurn, error) {
	response = strings.TrimSpace(response)
	if playerID == "" || response == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.Append(ctx, playerID, models.AIRoleAssistant, response)
}

func (s *AIChatService) Clear(ctx context.Context, playerID string) error {
	if playerID == "" {
		return ErrInvalidInput
	}
	return s.repo.Clear(ctx, playerID)
}
