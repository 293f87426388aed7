package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/repository"
)

// SubscriptionInactiveError rejects a message send because the pair's
// subscription is not currently active. The offending status is part of the
// client-facing message.
type SubscriptionInactiveError struct {
	Status models.SubscriptionStatus
}

func (e *SubscriptionInactiveError) Error() string {
	return fmt.Sprintf("cannot send message, subscription is %s", e.Status)
}

type conversationStore interface {
	GetOrCreate(ctx context.Context, coachID, playerID string) (*models.Conversation, bool, error)
	Reactivate(ctx context.Context, id string) error
	Close(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	ListForCoach(ctx context.Context, coachID string) ([]models.Conversation, error)
	ListForPlayer(ctx context.Context, playerID string) ([]models.Conversation, error)
	AddMessage(ctx context.Context, conversationID string, input repository.CreateMessageInput) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID string) (int, error)
	DeleteWithMessages(ctx context.Context, id string) error
}

type pairSubscriptionReader interface {
	ListByPair(ctx context.Context, playerID, coachID string) ([]models.Subscription, error)
}

type ChatService struct {
	conversations conversationStore
	subscriptions pairSubscriptionReader
	players       playerDirectory
	coaches       coachDirectory
}

func NewChatService(
	conversations conversationStore,
	subscriptions pairSubscriptionReader,
	players playerDirectory,
	coaches coachDirectory,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		subscriptions: subscriptions,
		players:       players,
		coaches:       coaches,
	}
}

// GetOrCreateConversation returns the pair's single conversation, creating it
// lazily on first contact. When the conversation already exists, the
// requested status reactivates or archives it. That is an archival-state
// signal for the UI; message admission is gated on the subscription, never
// on this field.
func (s *ChatService) GetOrCreateConversation(
	ctx context.Context,
	coachID, playerID string,
	status models.ConversationStatus,
) (*models.Conversation, error) {
	if coachID == "" || playerID == "" {
		return nil, ErrInvalidInput
	}

	conversation, created, err := s.conversations.GetOrCreate(ctx, coachID, playerID)
	if err != nil {
		return nil, err
	}

	if !created {
		switch status {
		case models.ConversationActive:
			if err := s.conversations.Reactivate(ctx, conversation.ID); err != nil {
				return nil, err
			}
			conversation.Status = models.ConversationActive
			conversation.ClosedAt = nil
		case models.ConversationClosed:
			if err := s.conversations.Close(ctx, conversation.ID); err != nil {
				return nil, err
			}
			conversation.Status = models.ConversationClosed
		}
	}

	return conversation, nil
}

type SendMessageInput struct {
	SenderID   string
	SenderType models.SenderType
	Text       string
	MediaURL   *string
}

type ChatDelivery struct {
	Conversation *models.Conversation
	Message      *models.Message
	RecipientID  string
}

// SendMessage re-derives the pair's subscription status at send time and
// admits the message only while it is active. Any transition away from
// active, explicit or swept, closes the channel on the next send without
// touching the conversation document.
func (s *ChatService) SendMessage(ctx context.Context, conversationID string, input SendMessageInput) (*ChatDelivery, error) {
	if conversationID == "" || input.SenderID == "" || !input.SenderType.Valid() {
		return nil, ErrInvalidInput
	}
	trimmed := strings.TrimSpace(input.Text)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.admitMessage(ctx, conversation); err != nil {
		return nil, err
	}

	message, err := s.conversations.AddMessage(ctx, conversationID, repository.CreateMessageInput{
		SenderID:   input.SenderID,
		SenderType: input.SenderType,
		Text:       trimmed,
		MediaURL:   input.MediaURL,
	})
	if err != nil {
		return nil, err
	}

	recipientID := conversation.CoachID
	if input.SenderType == models.SenderCoach {
		recipientID = conversation.PlayerID
	}

	return &ChatDelivery{
		Conversation: conversation,
		Message:      message,
		RecipientID:  recipientID,
	}, nil
}

func (s *ChatService) admitMessage(ctx context.Context, conversation *models.Conversation) error {
	subscriptions, err := s.subscriptions.ListByPair(ctx, conversation.PlayerID, conversation.CoachID)
	if err != nil {
		return err
	}
	if len(subscriptions) == 0 {
		return ErrNoSubscription
	}

	latest := subscriptions[0]
	for _, subscription := range subscriptions {
		if subscription.Status == models.SubscriptionActive {
			return nil
		}
		if subscription.UpdatedAt.After(latest.UpdatedAt) {
			latest = subscription
		}
	}

	return &SubscriptionInactiveError{Status: latest.Status}
}

func (s *ChatService) ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	if conversationID == "" || limit <= 0 {
		return nil, ErrInvalidInput
	}

	if _, err := s.conversations.GetByID(ctx, conversationID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.conversations.ListMessages(ctx, conversationID, limit)
}

func (s *ChatService) MarkRead(ctx context.Context, conversationID, readerID string) (int, error) {
	if conversationID == "" || readerID == "" {
		return 0, ErrInvalidInput
	}

	if _, err := s.conversations.GetByID(ctx, conversationID); err != nil {
		if repository.IsNotFound(err) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	return s.conversations.MarkRead(ctx, conversationID, readerID)
}

func (s *ChatService) ListConversationsForCoach(ctx context.Context, coachID string) ([]models.ConversationSummary, error) {
	if coachID == "" {
		return nil, ErrInvalidInput
	}
	conversations, err := s.conversations.ListForCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, conversations)
}

func (s *ChatService) ListConversationsForPlayer(ctx context.Context, playerID string) ([]models.ConversationSummary, error) {
	if playerID == "" {
		return nil, ErrInvalidInput
	}
	conversations, err := s.conversations.ListForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, conversations)
}

func (s *ChatService) DeleteConversation(ctx context.Context, id string) error {
	if _, err := s.conversations.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.conversations.DeleteWithMessages(ctx, id)
}

func (s *ChatService) summarize(ctx context.Context, conversations []models.Conversation) ([]models.ConversationSummary, error) {
	players, err := s.players.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	coaches, err := s.coaches.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		summary := models.ConversationSummary{
			Conversation: conversation,
			CoachName:    "Unknown",
			PlayerName:   "Unknown",
		}
		if coach, ok := coaches[conversation.CoachID]; ok {
			summary.CoachName = coach.FullName
		}
		if player, ok := players[conversation.PlayerID]; ok {
			summary.PlayerName = player.FullName
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
