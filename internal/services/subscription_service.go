package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/repository"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNoSubscription = errors.New("no subscription found for this coach and player")
)

type subscriptionStore interface {
	Create(ctx context.Context, input repository.CreateSubscriptionInput) (*models.Subscription, error)
	GetByID(ctx context.Context, id string) (*models.Subscription, error)
	ListByPair(ctx context.Context, playerID, coachID string) ([]models.Subscription, error)
	ListActive(ctx context.Context) ([]models.Subscription, error)
	List(ctx context.Context, filter models.SubscriptionListFilter) ([]models.Subscription, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
}

type playerDirectory interface {
	ListAll(ctx context.Context) (map[string]models.Player, error)
}

type coachDirectory interface {
	ListAll(ctx context.Context) (map[string]models.Coach, error)
}

type SubscriptionService struct {
	repo    subscriptionStore
	players playerDirectory
	coaches coachDirectory
}

func NewSubscriptionService(
	repo subscriptionStore,
	players playerDirectory,
	coaches coachDirectory,
) *SubscriptionService {
	return &SubscriptionService{
		repo:    repo,
		players: players,
		coaches: coaches,
	}
}

type CreateSubscriptionInput struct {
	PlayerID  string
	CoachID   string
	Status    models.SubscriptionStatus
	StartDate time.Time
	EndDate   time.Time
}

func (s *SubscriptionService) Create(ctx context.Context, input CreateSubscriptionInput) (*models.Subscription, error) {
	if input.PlayerID == "" || input.CoachID == "" {
		return nil, ErrInvalidInput
	}
	if input.Status == "" {
		input.Status = models.SubscriptionPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidInput
	}

	existing, err := s.repo.ListByPair(ctx, input.PlayerID, input.CoachID)
	if err != nil {
		return nil, err
	}
	for _, subscription := range existing {
		if subscription.Status == models.SubscriptionActive {
			return nil, ErrConflict
		}
	}

	// An already-expired window is never persisted as active.
	if input.Status == models.SubscriptionActive && !input.EndDate.IsZero() &&
		input.EndDate.Before(time.Now().UTC()) {
		input.Status = models.SubscriptionStopped
	}

	return s.repo.Create(ctx, repository.CreateSubscriptionInput{
		PlayerID:  input.PlayerID,
		CoachID:   input.CoachID,
		Status:    input.Status,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
}

type UpdateSubscriptionInput struct {
	Status    *models.SubscriptionStatus
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *SubscriptionService) Update(ctx context.Context, id string, input UpdateSubscriptionInput) (*models.Subscription, error) {
	subscription, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidInput
		}
		subscription.Status = *input.Status
	}
	if input.StartDate != nil {
		subscription.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		subscription.EndDate = *input.EndDate
	}

	// The guard runs on every update, not only expiry-triggered ones: an
	// expired window cannot be edited back into active.
	if subscription.Status == models.SubscriptionActive && subscription.Expired(time.Now().UTC()) {
		subscription.Status = models.SubscriptionStopped
	}

	updates := map[string]any{
		"status":    string(subscription.Status),
		"startDate": subscription.StartDate,
		"endDate":   subscription.EndDate,
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	subscription.UpdatedAt = time.Now().UTC()
	return subscription, nil
}

// ExpireSubscriptions transitions every active subscription whose end date
// has passed to stopped. The transition is monotonic, so the sweep is
// idempotent and safe to run concurrently with itself or with updates.
// Per-item failures are logged and skipped; the next run retries them.
func (s *SubscriptionService) ExpireSubscriptions(ctx context.Context) (int, error) {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	expired := 0
	for _, subscription := range active {
		if !subscription.Expired(now) {
			continue
		}
		err := s.repo.Update(ctx, subscription.ID, map[string]any{
			"status": string(models.SubscriptionStopped),
		})
		if err != nil {
			log.Printf("expire subscription %s: %v", subscription.ID, err)
			continue
		}
		expired++
	}

	return expired, nil
}

func (s *SubscriptionService) Get(ctx context.Context, id string) (*models.SubscriptionDetail, error) {
	subscription, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	players, err := s.players.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	coaches, err := s.coaches.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	detail := enrichSubscription(*subscription, players, coaches)
	return &detail, nil
}

// List returns subscriptions joined in memory with player and coach display
// names. Stale active rows are swept first so callers (almost) never observe
// an expired subscription still marked active.
func (s *SubscriptionService) List(ctx context.Context, filter models.SubscriptionListFilter) ([]models.SubscriptionDetail, error) {
	if _, err := s.ExpireSubscriptions(ctx); err != nil {
		log.Printf("expiry sweep before subscription list: %v", err)
	}

	subscriptions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	players, err := s.players.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	coaches, err := s.coaches.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	details := make([]models.SubscriptionDetail, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		detail := enrichSubscription(subscription, players, coaches)
		if search != "" &&
			!strings.Contains(strings.ToLower(detail.PlayerName), search) &&
			!strings.Contains(strings.ToLower(detail.CoachName), search) {
			continue
		}
		details = append(details, detail)
	}

	return details, nil
}

func (s *SubscriptionService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func enrichSubscription(
	subscription models.Subscription,
	players map[string]models.Player,
	coaches map[string]models.Coach,
) models.SubscriptionDetail {
	detail := models.SubscriptionDetail{
		Subscription: subscription,
		PlayerName:   "Unknown",
		CoachName:    "Unknown",
	}
	if player, ok := players[subscription.PlayerID]; ok {
		detail.PlayerName = player.FullName
	}
	if coach, ok := coaches[subscription.CoachID]; ok {
		detail.CoachName = coach.FullName
	}
	return detail
}
