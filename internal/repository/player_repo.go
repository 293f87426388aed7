package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
)

const playersCollection = "players"

type PlayerRepository struct {
	client *firestore.Client
}

func NewPlayerRepository(client *firestore.Client) *PlayerRepository {
	return &PlayerRepository{client: client}
}

type CreatePlayerInput struct {
	FullName string
	Email    string
	Phone    *string
	Status   models.AccountStatus
	PhotoURL *string
}

func (r *PlayerRepository) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	now := time.Now().UTC()
	ref := r.client.Collection(playersCollection).NewDoc()

	data := map[string]any{
		"fullName":  input.FullName,
		"email":     input.Email,
		"status":    string(input.Status),
		"createdAt": now,
		"updatedAt": now,
	}
	if input.Phone != nil {
		data["phone"] = *input.Phone
	}
	if input.PhotoURL != nil {
		data["photoUrl"] = *input.PhotoURL
	}

	if _, err := ref.Create(ctx, data); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	return &models.Player{
		ID:        ref.ID,
		FullName:  input.FullName,
		Email:     input.Email,
		Phone:     input.Phone,
		Status:    input.Status,
		PhotoURL:  input.PhotoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	doc, err := r.client.Collection(playersCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	return docToPlayer(doc.Ref.ID, doc.Data()), nil
}

func (r *PlayerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	iter := r.client.Collection(playersCollection).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PlayerRepository) List(ctx context.Context, filter models.PlayerListFilter) ([]models.Player, error) {
	query := r.client.Collection(playersCollection).Query
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	players := make([]models.Player, 0, len(docs))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, doc := range docs {
		player := docToPlayer(doc.Ref.ID, doc.Data())
		if search != "" &&
			!strings.Contains(strings.ToLower(player.FullName), search) &&
			!strings.Contains(strings.ToLower(player.Email), search) {
			continue
		}
		players = append(players, *player)
	}

	return players, nil
}

// ListAll returns every player keyed by document id, for in-memory joins.
func (r *PlayerRepository) ListAll(ctx context.Context) (map[string]models.Player, error) {
	docs, err := r.client.Collection(playersCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	players := make(map[string]models.Player, len(docs))
	for _, doc := range docs {
		players[doc.Ref.ID] = *docToPlayer(doc.Ref.ID, doc.Data())
	}
	return players, nil
}

func (r *PlayerRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	updates["updatedAt"] = time.Now().UTC()
	_, err := r.client.Collection(playersCollection).Doc(id).Set(ctx, updates, firestore.MergeAll)
	return err
}

func (r *PlayerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(playersCollection).Doc(id).Delete(ctx)
	return err
}

func docToPlayer(id string, data map[string]any) *models.Player {
	return &models.Player{
		ID:        id,
		FullName:  strField(data, "fullName", "name"),
		Email:     strField(data, "email"),
		Phone:     strPtrField(data, "phone"),
		Status:    models.AccountStatus(strField(data, "status")),
		PhotoURL:  strPtrField(data, "photoUrl"),
		CreatedAt: timeField(data, "createdAt"),
		UpdatedAt: timeField(data, "updatedAt"),
	}
}
