package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
)

const ratingsCollection = "ratings"

type RatingRepository struct {
	client *firestore.Client
}

func NewRatingRepository(client *firestore.Client) *RatingRepository {
	return &RatingRepository{client: client}
}

type CreateRatingInput struct {
	CoachID    string
	PlayerID   string
	PlayerName string
	Rating     int
	Review     *string
}

// Create uses the deterministic <coachID>_<playerID> document id so the
// one-rating-per-pair invariant is enforced by the store's create-if-absent
// semantics rather than a racy lookup. A second create surfaces as an
// AlreadyExists error.
func (r *RatingRepository) Create(ctx context.Context, input CreateRatingInput) (*models.Rating, error) {
	now := time.Now().UTC()
	ref := r.client.Collection(ratingsCollection).Doc(pairDocID(input.CoachID, input.PlayerID))

	data := map[string]any{
		"coachId":    input.CoachID,
		"playerId":   input.PlayerID,
		"playerName": input.PlayerName,
		"rating":     input.Rating,
		"createdAt":  now,
		"updatedAt":  now,
	}
	if input.Review != nil {
		data["review"] = *input.Review
	}

	if _, err := ref.Create(ctx, data); err != nil {
		return nil, err
	}

	return &models.Rating{
		ID:         ref.ID,
		CoachID:    input.CoachID,
		PlayerID:   input.PlayerID,
		PlayerName: input.PlayerName,
		Rating:     input.Rating,
		Review:     input.Review,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (r *RatingRepository) GetByID(ctx context.Context, id string) (*models.Rating, error) {
	doc, err := r.client.Collection(ratingsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	return docToRating(doc.Ref.ID, doc.Data()), nil
}

func (r *RatingRepository) GetByPair(ctx context.Context, coachID, playerID string) (*models.Rating, error) {
	return r.GetByID(ctx, pairDocID(coachID, playerID))
}

func (r *RatingRepository) ListByCoach(ctx context.Context, coachID string) ([]models.Rating, error) {
	docs, err := r.client.Collection(ratingsCollection).
		Where("coachId", "==", coachID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return docsToRatings(docs), nil
}

func (r *RatingRepository) List(ctx context.Context, coachID, playerID string) ([]models.Rating, error) {
	query := r.client.Collection(ratingsCollection).Query
	if coachID != "" {
		query = query.Where("coachId", "==", coachID)
	}
	if playerID != "" {
		query = query.Where("playerId", "==", playerID)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return docsToRatings(docs), nil
}

func (r *RatingRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	updates["updatedAt"] = time.Now().UTC()
	_, err := r.client.Collection(ratingsCollection).Doc(id).Set(ctx, updates, firestore.MergeAll)
	return err
}

func (r *RatingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(ratingsCollection).Doc(id).Delete(ctx)
	return err
}

func docsToRatings(docs []*firestore.DocumentSnapshot) []models.Rating {
	ratings := make([]models.Rating, 0, len(docs))
	for _, doc := range docs {
		ratings = append(ratings, *docToRating(doc.Ref.ID, doc.Data()))
	}
	return ratings
}

func docToRating(id string, data map[string]any) *models.Rating {
	return &models.Rating{
		ID:         id,
		CoachID:    strField(data, "coachId"),
		PlayerID:   strField(data, "playerId"),
		PlayerName: strField(data, "playerName"),
		Rating:     intField(data, "rating"),
		Review:     strPtrField(data, "review"),
		CreatedAt:  timeField(data, "createdAt"),
		UpdatedAt:  timeField(data, "updatedAt"),
	}
}
