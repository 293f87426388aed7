package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
)

const subscriptionsCollection = "subscriptions"

type SubscriptionRepository struct {
	client *firestore.Client
}

func NewSubscriptionRepository(client *firestore.Client) *SubscriptionRepository {
	return &SubscriptionRepository{client: client}
}

type CreateSubscriptionInput struct {
	PlayerID  string
	CoachID   string
	Status    models.SubscriptionStatus
	StartDate time.Time
	EndDate   time.Time
}

func (r *SubscriptionRepository) Create(ctx context.Context, input CreateSubscriptionInput) (*models.Subscription, error) {
	now := time.Now().UTC()
	ref := r.client.Collection(subscriptionsCollection).NewDoc()

	data := map[string]any{
		"playerId":  input.PlayerID,
		"coachId":   input.CoachID,
		"status":    string(input.Status),
		"startDate": input.StartDate,
		"endDate":   input.EndDate,
		"createdAt": now,
		"updatedAt": now,
	}
	if _, err := ref.Create(ctx, data); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	return &models.Subscription{
		ID:        ref.ID,
		PlayerID:  input.PlayerID,
		CoachID:   input.CoachID,
		Status:    input.Status,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	doc, err := r.client.Collection(subscriptionsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	return docToSubscription(doc.Ref.ID, doc.Data()), nil
}

// ListByPair returns every subscription ever created for the pair, across all
// statuses. Both the duplicate-active check and the chat admission gate read
// through here.
func (r *SubscriptionRepository) ListByPair(ctx context.Context, playerID, coachID string) ([]models.Subscription, error) {
	docs, err := r.client.Collection(subscriptionsCollection).
		Where("playerId", "==", playerID).
		Where("coachId", "==", coachID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return docsToSubscriptions(docs), nil
}

func (r *SubscriptionRepository) ListActive(ctx context.Context) ([]models.Subscription, error) {
	docs, err := r.client.Collection(subscriptionsCollection).
		Where("status", "==", string(models.SubscriptionActive)).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return docsToSubscriptions(docs), nil
}

func (r *SubscriptionRepository) List(ctx context.Context, filter models.SubscriptionListFilter) ([]models.Subscription, error) {
	query := r.client.Collection(subscriptionsCollection).Query
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}
	if filter.CoachID != "" {
		query = query.Where("coachId", "==", filter.CoachID)
	}
	if filter.PlayerID != "" {
		query = query.Where("playerId", "==", filter.PlayerID)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return docsToSubscriptions(docs), nil
}

func (r *SubscriptionRepository) ListAll(ctx context.Context) ([]models.Subscription, error) {
	docs, err := r.client.Collection(subscriptionsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return docsToSubscriptions(docs), nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	updates["updatedAt"] = time.Now().UTC()
	_, err := r.client.Collection(subscriptionsCollection).Doc(id).Set(ctx, updates, firestore.MergeAll)
	return err
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(subscriptionsCollection).Doc(id).Delete(ctx)
	return err
}

func docsToSubscriptions(docs []*firestore.DocumentSnapshot) []models.Subscription {
	subscriptions := make([]models.Subscription, 0, len(docs))
	for _, doc := range docs {
		subscriptions = append(subscriptions, *docToSubscription(doc.Ref.ID, doc.Data()))
	}
	return subscriptions
}

func docToSubscription(id string, data map[string]any) *models.Subscription {
	return &models.Subscription{
		ID:        id,
		PlayerID:  strField(data, "playerId"),
		CoachID:   strField(data, "coachId"),
		Status:    models.SubscriptionStatus(strField(data, "status")),
		StartDate: timeField(data, "startDate"),
		EndDate:   timeField(data, "endDate"),
		CreatedAt: timeField(data, "createdAt"),
		UpdatedAt: timeField(data, "updatedAt"),
	}
}
