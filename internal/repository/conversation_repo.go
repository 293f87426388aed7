package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
)

const (
	conversationsCollection = "conversations"
	messagesSubcollection   = "messages"
)

type ConversationRepository struct {
	client *firestore.Client
}

func NewConversationRepository(client *firestore.Client) *ConversationRepository {
	return &ConversationRepository{client: client}
}

// GetOrCreate is idempotent: the conversation document id is derived from the
// pair, and creation uses create-if-absent, so concurrent first contacts
// converge on the same document.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, coachID, playerID string) (*models.Conversation, bool, error) {
	now := time.Now().UTC()
	ref := r.client.Collection(conversationsCollection).Doc(pairDocID(coachID, playerID))

	data := map[string]any{
		"coachId":   coachID,
		"playerId":  playerID,
		"status":    string(models.ConversationActive),
		"createdAt": now,
		"updatedAt": now,
	}

	_, err := ref.Create(ctx, data)
	if err == nil {
		return &models.Conversation{
			ID:        ref.ID,
			CoachID:   coachID,
			PlayerID:  playerID,
			Status:    models.ConversationActive,
			CreatedAt: now,
			UpdatedAt: now,
		}, true, nil
	}
	if !IsAlreadyExists(err) {
		return nil, false, fmt.Errorf("create conversation: %w", err)
	}

	doc, err := ref.Get(ctx)
	if err != nil {
		return nil, false, err
	}
	return docToConversation(doc.Ref.ID, doc.Data()), false, nil
}

// Reactivate flips an existing conversation back to active and refreshes its
// updatedAt. This tracks UI archival state only; it has no bearing on whether
// messages are admitted.
func (r *ConversationRepository) Reactivate(ctx context.Context, id string) error {
	_, err := r.client.Collection(conversationsCollection).Doc(id).Set(ctx, map[string]any{
		"status":    string(models.ConversationActive),
		"closedAt":  firestore.Delete,
		"updatedAt": time.Now().UTC(),
	}, firestore.MergeAll)
	return err
}

func (r *ConversationRepository) Close(ctx context.Context, id string) error {
	now := time.Now().UTC()
	_, err := r.client.Collection(conversationsCollection).Doc(id).Set(ctx, map[string]any{
		"status":    string(models.ConversationClosed),
		"closedAt":  now,
		"updatedAt": now,
	}, firestore.MergeAll)
	return err
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	doc, err := r.client.Collection(conversationsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	return docToConversation(doc.Ref.ID, doc.Data()), nil
}

func (r *ConversationRepository) ListForCoach(ctx context.Context, coachID string) ([]models.Conversation, error) {
	return r.listBy(ctx, "coachId", coachID)
}

func (r *ConversationRepository) ListForPlayer(ctx context.Context, playerID string) ([]models.Conversation, error) {
	return r.listBy(ctx, "playerId", playerID)
}

func (r *ConversationRepository) listBy(ctx context.Context, field, value string) ([]models.Conversation, error) {
	docs, err := r.client.Collection(conversationsCollection).
		Where(field, "==", value).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	conversations := make([]models.Conversation, 0, len(docs))
	for _, doc := range docs {
		conversations = append(conversations, *docToConversation(doc.Ref.ID, doc.Data()))
	}
	return conversations, nil
}

type CreateMessageInput struct {
	SenderID   string
	SenderType models.SenderType
	Text       string
	MediaURL   *string
}

// AddMessage appends the message and refreshes the conversation's
// denormalized lastMessage summary.
func (r *ConversationRepository) AddMessage(ctx context.Context, conversationID string, input CreateMessageInput) (*models.Message, error) {
	now := time.Now().UTC()
	convRef := r.client.Collection(conversationsCollection).Doc(conversationID)
	msgRef := convRef.Collection(messagesSubcollection).NewDoc()

	data := map[string]any{
		"senderId":   input.SenderID,
		"senderType": string(input.SenderType),
		"text":       input.Text,
		"read":       false,
		"createdAt":  now,
	}
	if input.MediaURL != nil {
		data["mediaUrl"] = *input.MediaURL
	}

	if _, err := msgRef.Create(ctx, data); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	_, err := convRef.Set(ctx, map[string]any{
		"lastMessage": map[string]any{
			"text":       input.Text,
			"senderId":   input.SenderID,
			"senderType": string(input.SenderType),
			"createdAt":  now,
		},
		"updatedAt": now,
	}, firestore.MergeAll)
	if err != nil {
		return nil, fmt.Errorf("update last message: %w", err)
	}

	return &models.Message{
		ID:         msgRef.ID,
		SenderID:   input.SenderID,
		SenderType: input.SenderType,
		Text:       input.Text,
		MediaURL:   input.MediaURL,
		Read:       false,
		CreatedAt:  now,
	}, nil
}

// ListMessages returns the most recent limit messages in oldest-first order.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	docs, err := r.client.Collection(conversationsCollection).Doc(conversationID).
		Collection(messagesSubcollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	messages := make([]models.Message, len(docs))
	for i, doc := range docs {
		messages[len(docs)-1-i] = *docToMessage(doc.Ref.ID, doc.Data())
	}
	return messages, nil
}

// MarkRead flags every unread message not sent by the reader as read, in one
// atomic multi-document batch. Returns the number of messages flagged.
func (r *ConversationRepository) MarkRead(ctx context.Context, conversationID, readerID string) (int, error) {
	docs, err := r.client.Collection(conversationsCollection).Doc(conversationID).
		Collection(messagesSubcollection).
		Where("read", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}

	batch := r.client.Batch()
	count := 0
	for _, doc := range docs {
		if strField(doc.Data(), "senderId") == readerID {
			continue
		}
		batch.Update(doc.Ref, []firestore.Update{{Path: "read", Value: true}})
		count++
	}
	if count == 0 {
		return 0, nil
	}

	if _, err := batch.Commit(ctx); err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return count, nil
}

// DeleteWithMessages removes the conversation document together with its
// messages subcollection. Messages are deleted in the same batch as the
// parent so a partial failure never leaves an orphaned subcollection behind
// a missing document.
func (r *ConversationRepository) DeleteWithMessages(ctx context.Context, id string) error {
	convRef := r.client.Collection(conversationsCollection).Doc(id)

	docs, err := convRef.Collection(messagesSubcollection).Documents(ctx).GetAll()
	if err != nil {
		return err
	}

	batch := r.client.Batch()
	for _, doc := range docs {
		batch.Delete(doc.Ref)
	}
	batch.Delete(convRef)

	_, err = batch.Commit(ctx)
	return err
}

func docToConversation(id string, data map[string]any) *models.Conversation {
	conversation := &models.Conversation{
		ID:        id,
		CoachID:   strField(data, "coachId"),
		PlayerID:  strField(data, "playerId"),
		Status:    models.ConversationStatus(strField(data, "status")),
		CreatedAt: timeField(data, "createdAt"),
		UpdatedAt: timeField(data, "updatedAt"),
	}

	if closedAt := timeField(data, "closedAt"); !closedAt.IsZero() {
		conversation.ClosedAt = &closedAt
	}

	if preview, ok := data["lastMessage"].(map[string]any); ok {
		conversation.LastMessage = &models.MessagePreview{
			Text:       strField(preview, "text"),
			SenderID:   strField(preview, "senderId"),
			SenderType: models.SenderType(strField(preview, "senderType")),
			CreatedAt:  timeField(preview, "createdAt"),
		}
	}

	return conversation
}

func docToMessage(id string, data map[string]any) *models.Message {
	return &models.Message{
		ID:         id,
		SenderID:   strField(data, "senderId"),
		SenderType: models.SenderType(strField(data, "senderType")),
		Text:       strField(data, "text"),
		MediaURL:   strPtrField(data, "mediaUrl"),
		Read:       boolField(data, "read"),
		CreatedAt:  timeField(data, "createdAt"),
	}
}
