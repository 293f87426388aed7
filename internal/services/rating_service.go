package services

import (
	"context"
	"math"
	"strings"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/repository"
)

type ratingStore interface {
	Create(ctx context.Context, input repository.CreateRatingInput) (*models.Rating, error)
	GetByID(ctx context.Context, id string) (*models.Rating, error)
	GetByPair(ctx context.Context, coachID, playerID string) (*models.Rating, error)
	ListByCoach(ctx context.Context, coachID string) ([]models.Rating, error)
	List(ctx context.Context, coachID, playerID string) ([]models.Rating, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
}

type coachAggregateWriter interface {
	SetRatingAggregate(ctx context.Context, coachID string, average float64, total int) error
}

type RatingService struct {
	repo          ratingStore
	subscriptions pairSubscriptionReader
	coaches       coachAggregateWriter
}

func NewRatingService(
	repo ratingStore,
	subscriptions pairSubscriptionReader,
	coaches coachAggregateWriter,
) *RatingService {
	return &RatingService{
		repo:          repo,
		subscriptions: subscriptions,
		coaches:       coaches,
	}
}

type CreateRatingInput struct {
	CoachID    string
	PlayerID   string
	PlayerName string
	Rating     int
	Review     *string
}

// Create accepts a rating only from a player with a subscription history for
// the coach; any status qualifies, which is looser than the chat admission
// gate. One rating per pair; a second attempt must go through Update.
func (s *RatingService) Create(ctx context.Context, input CreateRatingInput) (*models.Rating, error) {
	if input.CoachID == "" || input.PlayerID == "" || input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidInput
	}

	subscriptions, err := s.subscriptions.ListByPair(ctx, input.PlayerID, input.CoachID)
	if err != nil {
		return nil, err
	}
	if len(subscriptions) == 0 {
		return nil, ErrNoSubscription
	}

	rating, err := s.repo.Create(ctx, repository.CreateRatingInput{
		CoachID:    input.CoachID,
		PlayerID:   input.PlayerID,
		PlayerName: strings.TrimSpace(input.PlayerName),
		Rating:     input.Rating,
		Review:     input.Review,
	})
	if err != nil {
		if repository.IsAlreadyExists(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if err := s.recomputeAggregate(ctx, input.CoachID); err != nil {
		return nil, err
	}
	return rating, nil
}

type UpdateRatingInput struct {
	Rating     *int
	Review     *string
	PlayerName *string
}

func (s *RatingService) Update(ctx context.Context, id string, input UpdateRatingInput) (*models.Rating, error) {
	rating, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]any{}
	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, ErrInvalidInput
		}
		rating.Rating = *input.Rating
		updates["rating"] = *input.Rating
	}
	if input.Review != nil {
		rating.Review = input.Review
		updates["review"] = *input.Review
	}
	if input.PlayerName != nil {
		rating.PlayerName = *input.PlayerName
		updates["playerName"] = *input.PlayerName
	}
	if len(updates) == 0 {
		return rating, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	if err := s.recomputeAggregate(ctx, rating.CoachID); err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *RatingService) Delete(ctx context.Context, id string) error {
	rating, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	return s.recomputeAggregate(ctx, rating.CoachID)
}

func (s *RatingService) GetByPair(ctx context.Context, coachID, playerID string) (*models.Rating, error) {
	rating, err := s.repo.GetByPair(ctx, coachID, playerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rating, nil
}

func (s *RatingService) List(ctx context.Context, coachID, playerID string) ([]models.Rating, error) {
	return s.repo.List(ctx, coachID, playerID)
}

func (s *RatingService) CoachStats(ctx context.Context, coachID string) (*models.CoachRatingStats, error) {
	if coachID == "" {
		return nil, ErrInvalidInput
	}

	ratings, err := s.repo.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}

	stats := &models.CoachRatingStats{
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	sum := 0
	for _, rating := range ratings {
		if rating.Rating >= 1 && rating.Rating <= 5 {
			stats.RatingDistribution[rating.Rating]++
		}
		sum += rating.Rating
	}
	stats.TotalReviews = len(ratings)
	stats.AverageRating = averageRating(sum, len(ratings))

	return stats, nil
}

// recomputeAggregate rewrites the coach's denormalized rating summary from
// the full current rating set. Full recompute over incremental maintenance:
// rating volume per coach is small.
func (s *RatingService) recomputeAggregate(ctx context.Context, coachID string) error {
	ratings, err := s.repo.ListByCoach(ctx, coachID)
	if err != nil {
		return err
	}

	sum := 0
	for _, rating := range ratings {
		sum += rating.Rating
	}

	return s.coaches.SetRatingAggregate(ctx, coachID, averageRating(sum, len(ratings)), len(ratings))
}

// averageRating rounds to one decimal place, half away from zero.
func averageRating(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*10) / 10
}
