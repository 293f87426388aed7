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

const coachesCollection = "coaches"

type CoachRepository struct {
	client *firestore.Client
}

func NewCoachRepository(client *firestore.Client) *CoachRepository {
	return &CoachRepository{client: client}
}

type CreateCoachInput struct {
	FullName      string
	Email         string
	Phone         *string
	Specialty     *string
	Bio           *string
	Status        models.AccountStatus
	PhotoURL      *string
	AvailableDays []string
	TimeSlots     []models.TimeSlot
}

func (r *CoachRepository) Create(ctx context.Context, input CreateCoachInput) (*models.Coach, error) {
	now := time.Now().UTC()
	ref := r.client.Collection(coachesCollection).NewDoc()

	slots := input.TimeSlots
	if len(slots) == 0 {
		slots = []models.TimeSlot{{Start: models.DefaultSlotStart, End: models.DefaultSlotEnd}}
	}

	data := map[string]any{
		"fullName":      input.FullName,
		"email":         input.Email,
		"status":        string(input.Status),
		"availableDays": input.AvailableDays,
		"timeSlots":     slotsToData(slots),
		"averageRating": 0.0,
		"totalReviews":  0,
		"createdAt":     now,
		"updatedAt":     now,
	}
	if input.Phone != nil {
		data["phone"] = *input.Phone
	}
	if input.Specialty != nil {
		data["specialty"] = *input.Specialty
	}
	if input.Bio != nil {
		data["bio"] = *input.Bio
	}
	if input.PhotoURL != nil {
		data["photoUrl"] = *input.PhotoURL
	}

	if _, err := ref.Create(ctx, data); err != nil {
		return nil, fmt.Errorf("create coach: %w", err)
	}

	return &models.Coach{
		ID:            ref.ID,
		FullName:      input.FullName,
		Email:         input.Email,
		Phone:         input.Phone,
		Specialty:     input.Specialty,
		Bio:           input.Bio,
		Status:        input.Status,
		PhotoURL:      input.PhotoURL,
		AvailableDays: input.AvailableDays,
		TimeSlots:     slots,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (r *CoachRepository) GetByID(ctx context.Context, id string) (*models.Coach, error) {
	doc, err := r.client.Collection(coachesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	return docToCoach(doc.Ref.ID, doc.Data()), nil
}

func (r *CoachRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	iter := r.client.Collection(coachesCollection).
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

func (r *CoachRepository) List(ctx context.Context, filter models.CoachListFilter) ([]models.Coach, error) {
	query := r.client.Collection(coachesCollection).Query
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	coaches := make([]models.Coach, 0, len(docs))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, doc := range docs {
		coach := docToCoach(doc.Ref.ID, doc.Data())
		if search != "" &&
			!strings.Contains(strings.ToLower(coach.FullName), search) &&
			!strings.Contains(strings.ToLower(coach.Email), search) {
			continue
		}
		coaches = append(coaches, *coach)
	}

	return coaches, nil
}

// ListAll returns every coach keyed by document id, for in-memory joins.
func (r *CoachRepository) ListAll(ctx context.Context) (map[string]models.Coach, error) {
	docs, err := r.client.Collection(coachesCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	coaches := make(map[string]models.Coach, len(docs))
	for _, doc := range docs {
		coaches[doc.Ref.ID] = *docToCoach(doc.Ref.ID, doc.Data())
	}
	return coaches, nil
}

func (r *CoachRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	updates["updatedAt"] = time.Now().UTC()
	_, err := r.client.Collection(coachesCollection).Doc(id).Set(ctx, updates, firestore.MergeAll)
	return err
}

func (r *CoachRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(coachesCollection).Doc(id).Delete(ctx)
	return err
}

// SetRatingAggregate writes the denormalized rating summary onto the coach
// document. The values are recomputed wholesale by the rating service; this
// is never the source of truth.
func (r *CoachRepository) SetRatingAggregate(ctx context.Context, coachID string, average float64, total int) error {
	_, err := r.client.Collection(coachesCollection).Doc(coachID).Set(ctx, map[string]any{
		"averageRating": average,
		"totalReviews":  total,
		"updatedAt":     time.Now().UTC(),
	}, firestore.MergeAll)
	return err
}

func docToCoach(id string, data map[string]any) *models.Coach {
	return &models.Coach{
		ID:            id,
		FullName:      strField(data, "fullName", "name"),
		Email:         strField(data, "email"),
		Phone:         strPtrField(data, "phone"),
		Specialty:     strPtrField(data, "specialty"),
		Bio:           strPtrField(data, "bio"),
		Status:        models.AccountStatus(strField(data, "status")),
		PhotoURL:      strPtrField(data, "photoUrl"),
		AvailableDays: stringSliceField(data, "availableDays"),
		TimeSlots:     timeSlots(data),
		AverageRating: floatField(data, "averageRating"),
		TotalReviews:  intField(data, "totalReviews"),
		CreatedAt:     timeField(data, "createdAt"),
		UpdatedAt:     timeField(data, "updatedAt"),
	}
}

// timeSlots reads the availability window from either the current timeSlots
// field or the legacy availability field, defaulting to 09:00-17:00 when the
// document carries neither.
func timeSlots(data map[string]any) []models.TimeSlot {
	for _, key := range []string{"timeSlots", "availability"} {
		raw, ok := data[key].([]any)
		if !ok {
			continue
		}
		slots := make([]models.TimeSlot, 0, len(raw))
		for _, item := range raw {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			slot := models.TimeSlot{
				Start: strField(entry, "start", "from"),
				End:   strField(entry, "end", "to"),
			}
			if slot.Start != "" && slot.End != "" {
				slots = append(slots, slot)
			}
		}
		if len(slots) > 0 {
			return slots
		}
	}
	return []models.TimeSlot{{Start: models.DefaultSlotStart, End: models.DefaultSlotEnd}}
}

func slotsToData(slots []models.TimeSlot) []map[string]any {
	data := make([]map[string]any, 0, len(slots))
	for _, slot := range slots {
		data = append(data, map[string]any{"start": slot.Start, "end": slot.End})
	}
	return data
}
