package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
)

const aiConversationsCollection = "ai_conversations"

type AIChatRepository struct {
	client *firestore.Client
}

func NewAIChatRepository(client *firestore.Client) *AIChatRepository {
	return &AIChatRepository{client: client}
}

// Append stores one turn under the player's AI conversation document. The
// parent document is upserted so the first turn creates it lazily.
func (r *AIChatRepository) Append(ctx context.Context, playerID string, role models.AIRole, content string) (*models.AITurn, error) {
	now := time.Now().UTC()
	convRef := r.client.Collection(aiConversationsCollection).Doc(playerID)

	if _, err := convRef.Set(ctx, map[string]any{
		"playerId":  playerID,
		"updatedAt": now,
	}, firestore.MergeAll); err != nil {
		return nil, fmt.Errorf("upsert ai conversation: %w", err)
	}

	msgRef := convRef.Collection(messagesSubcollection).NewDoc()
	if _, err := msgRef.Create(ctx, map[string]any{
		"role":      string(role),
		"content":   content,
		"createdAt": now,
	}); err != nil {
		return nil, fmt.Errorf("append ai turn: %w", err)
	}

	return &models.AITurn{
		ID:        msgRef.ID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}, nil
}

func (r *AIChatRepository) History(ctx context.Context, playerID string) ([]models.AITurn, error) {
	docs, err := r.client.Collection(aiConversationsCollection).Doc(playerID).
		Collection(messagesSubcollection).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	turns := make([]models.AITurn, 0, len(docs))
	for _, doc := range docs {
		data := doc.Data()
		turns = append(turns, models.AITurn{
			ID:        doc.Ref.ID,
			Role:      models.AIRole(strField(data, "role")),
			Content:   strField(data, "content"),
			CreatedAt: timeField(data, "createdAt"),
		})
	}
	return turns, nil
}

// Clear deletes the player's turn subcollection and the conversation
// document in a single atomic batch.
func (r *AIChatRepository) Clear(ctx context.Context, playerID string) error {
	convRef := r.client.Collection(aiConversationsCollection).Doc(playerID)

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
