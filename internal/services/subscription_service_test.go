package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/repository"
)

type stubSubscriptionStore struct {
	subscriptions []models.Subscription
	updates       map[string][]map[string]any
	createErr     error
	lastCreate    repository.CreateSubscriptionInput
}

func newStubSubscriptionStore(subscriptions ...models.Subscription) *stubSubscriptionStore {
	return &stubSubscriptionStore{
		subscriptions: subscriptions,
		updates:       make(map[string][]map[string]any),
	}
}

func (s *stubSubscriptionStore) Create(_ context.Context, input repository.CreateSubscriptionInput) (*models.Subscription, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.lastCreate = input
	created := models.Subscription{
		ID:        "sub-new",
		PlayerID:  input.PlayerID,
		CoachID:   input.CoachID,
		Status:    input.Status,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.subscriptions = append(s.subscriptions, created)
	return &created, nil
}

func (s *stubSubscriptionStore) GetByID(_ context.Context, id string) (*models.Subscription, error) {
	for i := range s.subscriptions {
		if s.subscriptions[i].ID == id {
			subscription := s.subscriptions[i]
			return &subscription, nil
		}
	}
	return nil, status.Error(codes.NotFound, "subscription not found")
}

func (s *stubSubscriptionStore) ListByPair(_ context.Context, playerID, coachID string) ([]models.Subscription, error) {
	var matched []models.Subscription
	for _, subscription := range s.subscriptions {
		if subscription.PlayerID == playerID && subscription.CoachID == coachID {
			matched = append(matched, subscription)
		}
	}
	return matched, nil
}

func (s *stubSubscriptionStore) ListActive(_ context.Context) ([]models.Subscription, error) {
	var active []models.Subscription
	for _, subscription := range s.subscriptions {
		if subscription.Status == models.SubscriptionActive {
			active = append(active, subscription)
		}
	}
	return active, nil
}

func (s *stubSubscriptionStore) List(_ context.Context, filter models.SubscriptionListFilter) ([]models.Subscription, error) {
	var matched []models.Subscription
	for _, subscription := range s.subscriptions {
		if filter.Status != "" && subscription.Status != filter.Status {
			continue
		}
		if filter.CoachID != "" && subscription.CoachID != filter.CoachID {
			continue
		}
		if filter.PlayerID != "" && subscription.PlayerID != filter.PlayerID {
			continue
		}
		matched = append(matched, subscription)
	}
	return matched, nil
}

func (s *stubSubscriptionStore) Update(_ context.Context, id string, updates map[string]any) error {
	s.updates[id] = append(s.updates[id], updates)
	for i := range s.subscriptions {
		if s.subscriptions[i].ID != id {
			continue
		}
		if value, ok := updates["status"].(string); ok {
			s.subscriptions[i].Status = models.SubscriptionStatus(value)
		}
		if value, ok := updates["startDate"].(time.Time); ok {
			s.subscriptions[i].StartDate = value
		}
		if value, ok := updates["endDate"].(time.Time); ok {
			s.subscriptions[i].EndDate = value
		}
		return nil
	}
	return status.Error(codes.NotFound, "subscription not found")
}

func (s *stubSubscriptionStore) Delete(_ context.Context, id string) error {
	for i := range s.subscriptions {
		if s.subscriptions[i].ID == id {
			s.subscriptions = append(s.subscriptions[:i], s.subscriptions[i+1:]...)
			return nil
		}
	}
	return status.Error(codes.NotFound, "subscription not found")
}

type stubPlayerDirectory struct {
	players map[string]models.Player
}

func (s *stubPlayerDirectory) ListAll(_ context.Context) (map[string]models.Player, error) {
	if s.players == nil {
		return map[string]models.Player{}, nil
	}
	return s.players, nil
}

type stubCoachDirectory struct {
	coaches map[string]models.Coach
}

func (s *stubCoachDirectory) ListAll(_ context.Context) (map[string]models.Coach, error) {
	if s.coaches == nil {
		return map[string]models.Coach{}, nil
	}
	return s.coaches, nil
}

func newSubscriptionService(store *stubSubscriptionStore) *SubscriptionService {
	return NewSubscriptionService(store, &stubPlayerDirectory{}, &stubCoachDirectory{})
}

func TestCreateSubscriptionRejectsDuplicateActive(t *testing.T) {
	store := newStubSubscriptionStore(models.Subscription{
		ID:       "sub-1",
		PlayerID: "player-1",
		CoachID:  "coach-1",
		Status:   models.SubscriptionActive,
	})
	service := newSubscriptionService(store)

	_, err := service.Create(context.Background(), CreateSubscriptionInput{
		PlayerID: "player-1",
		CoachID:  "coach-1",
		Status:   models.SubscriptionActive,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateSubscriptionAllowsNewAfterStopped(t *testing.T) {
	store := newStubSubscriptionStore(models.Subscription{
		ID:       "sub-1",
		PlayerID: "player-1",
		CoachID:  "coach-1",
		Status:   models.SubscriptionStopped,
	})
	service := newSubscriptionService(store)

	created, err := service.Create(context.Background(), CreateSubscriptionInput{
		PlayerID: "player-1",
		CoachID:  "coach-1",
		Status:   models.SubscriptionActive,
		EndDate:  time.Now().UTC().AddDate(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.SubscriptionActive {
		t.Fatalf("expected active subscription, got %s", created.Status)
	}
}

func TestCreateSubscriptionDefaultsToPending(t *testing.T) {
	store := newStubSubscriptionStore()
	service := newSubscriptionService(store)

	created, err := service.Create(context.Background(), CreateSubscriptionInput{
		PlayerID: "player-1",
		CoachID:  "coach-1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.SubscriptionPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
}

func TestCreateSubscriptionStopsAlreadyExpiredWindow(t *testing.T) {
	store := newStubSubscriptionStore()
	service := newSubscriptionService(store)

	created, err := service.Create(context.Background(), CreateSubscriptionInput{
		PlayerID: "player-1",
		CoachID:  "coach-1",
		Status:   models.SubscriptionActive,
		EndDate:  time.Now().UTC().AddDate(0, 0, -2),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.SubscriptionStopped {
		t.Fatalf("expected expired window to be stored as stopped, got %s", created.Status)
	}
}

func TestCreateSubscriptionRejectsUnknownStatus(t *testing.T) {
	service := newSubscriptionService(newStubSubscriptionStore())

	_, err := service.Create(context.Background(), CreateSubscriptionInput{
		PlayerID: "player-1",
		CoachID:  "coach-1",
		Status:   models.SubscriptionStatus("paused"),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExpireSubscriptionsStopsOnlyLapsedActive(t *testing.T) {
	now := time.Now().UTC()
	store := newStubSubscriptionStore(
		models.Subscription{ID: "lapsed", Status: models.SubscriptionActive, EndDate: now.AddDate(0, 0, -1)},
		models.Subscription{ID: "running", Status: models.SubscriptionActive, EndDate: now.AddDate(0, 1, 0)},
		models.Subscription{ID: "open-ended", Status: models.SubscriptionActive},
		models.Subscription{ID: "pending", Status: models.SubscriptionPending, EndDate: now.AddDate(0, 0, -1)},
	)
	service := newSubscriptionService(store)

	expired, err := service.ExpireSubscriptions(context.Background())
	if err != nil {
		t.Fatalf("ExpireSubscriptions: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected 1 expired subscription, got %d", expired)
	}

	lapsed, err := store.GetByID(context.Background(), "lapsed")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if lapsed.Status != models.SubscriptionStopped {
		t.Fatalf("expected lapsed subscription stopped, got %s", lapsed.Status)
	}
	for _, id := range []string{"running", "open-ended"} {
		subscription, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID %s: %v", id, err)
		}
		if subscription.Status != models.SubscriptionActive {
			t.Fatalf("expected %s to stay active, got %s", id, subscription.Status)
		}
	}
	pending, _ := store.GetByID(context.Background(), "pending")
	if pending.Status != models.SubscriptionPending {
		t.Fatalf("expected pending subscription untouched, got %s", pending.Status)
	}
}

func TestExpireSubscriptionsIsIdempotent(t *testing.T) {
	store := newStubSubscriptionStore(models.Subscription{
		ID:      "lapsed",
		Status:  models.SubscriptionActive,
		EndDate: time.Now().UTC().AddDate(0, 0, -1),
	})
	service := newSubscriptionService(store)

	first, err := service.ExpireSubscriptions(context.Background())
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	second, err := service.ExpireSubscriptions(context.Background())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}

	if first != 1 || second != 0 {
		t.Fatalf("expected sweeps to report 1 then 0, got %d then %d", first, second)
	}
	if got := len(store.updates["lapsed"]); got != 1 {
		t.Fatalf("expected exactly one stop write, got %d", got)
	}
}

func TestUpdateSubscriptionGuardForcesStopped(t *testing.T) {
	store := newStubSubscriptionStore(models.Subscription{
		ID:      "sub-1",
		Status:  models.SubscriptionStopped,
		EndDate: time.Now().UTC().AddDate(0, 0, -5),
	})
	service := newSubscriptionService(store)

	active := models.SubscriptionActive
	updated, err := service.Update(context.Background(), "sub-1", UpdateSubscriptionInput{
		Status: &active,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.SubscriptionStopped {
		t.Fatalf("expected guard to force stopped, got %s", updated.Status)
	}
}

func TestUpdateSubscriptionAcceptsActiveWithFutureEndDate(t *testing.T) {
	store := newStubSubscriptionStore(models.Subscription{
		ID:      "sub-1",
		Status:  models.SubscriptionStopped,
		EndDate: time.Now().UTC().AddDate(0, 0, -5),
	})
	service := newSubscriptionService(store)

	active := models.SubscriptionActive
	endDate := time.Now().UTC().AddDate(0, 2, 0)
	updated, err := service.Update(context.Background(), "sub-1", UpdateSubscriptionInput{
		Status:  &active,
		EndDate: &endDate,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.SubscriptionActive {
		t.Fatalf("expected reactivation with extended window, got %s", updated.Status)
	}
}

func TestUpdateSubscriptionReturnsNotFound(t *testing.T) {
	service := newSubscriptionService(newStubSubscriptionStore())

	_, err := service.Update(context.Background(), "missing", UpdateSubscriptionInput{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListJoinsDisplayNamesWithUnknownFallback(t *testing.T) {
	store := newStubSubscriptionStore(
		models.Subscription{ID: "sub-1", PlayerID: "player-1", CoachID: "coach-1", Status: models.SubscriptionPending},
		models.Subscription{ID: "sub-2", PlayerID: "ghost", CoachID: "coach-1", Status: models.SubscriptionPending},
	)
	service := NewSubscriptionService(
		store,
		&stubPlayerDirectory{players: map[string]models.Player{
			"player-1": {ID: "player-1", FullName: "Lina Haddad"},
		}},
		&stubCoachDirectory{coaches: map[string]models.Coach{
			"coach-1": {ID: "coach-1", FullName: "Omar Fares"},
		}},
	)

	details, err := service.List(context.Background(), models.SubscriptionListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(details))
	}
	if details[0].PlayerName != "Lina Haddad" || details[0].CoachName != "Omar Fares" {
		t.Fatalf("unexpected joined names: %q / %q", details[0].PlayerName, details[0].CoachName)
	}
	if details[1].PlayerName != "Unknown" {
		t.Fatalf("expected Unknown fallback for ghost player, got %q", details[1].PlayerName)
	}
}

func TestListFiltersBySearchOnJoinedNames(t *testing.T) {
	store := newStubSubscriptionStore(
		models.Subscription{ID: "sub-1", PlayerID: "player-1", CoachID: "coach-1", Status: models.SubscriptionPending},
		models.Subscription{ID: "sub-2", PlayerID: "player-2", CoachID: "coach-1", Status: models.SubscriptionPending},
	)
	service := NewSubscriptionService(
		store,
		&stubPlayerDirectory{players: map[string]models.Player{
			"player-1": {ID: "player-1", FullName: "Lina Haddad"},
			"player-2": {ID: "player-2", FullName: "Sami Noor"},
		}},
		&stubCoachDirectory{coaches: map[string]models.Coach{
			"coach-1": {ID: "coach-1", FullName: "Omar Fares"},
		}},
	)

	details, err := service.List(context.Background(), models.SubscriptionListFilter{Search: "lina"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(details) != 1 || details[0].ID != "sub-1" {
		t.Fatalf("expected only sub-1 to match, got %+v", details)
	}
}

func TestListSweepsExpiredBeforeReturning(t *testing.T) {
	store := newStubSubscriptionStore(models.Subscription{
		ID:       "lapsed",
		PlayerID: "player-1",
		CoachID:  "coach-1",
		Status:   models.SubscriptionActive,
		EndDate:  time.Now().UTC().AddDate(0, 0, -1),
	})
	service := newSubscriptionService(store)

	details, err := service.List(context.Background(), models.SubscriptionListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(details))
	}
	if details[0].Status != models.SubscriptionStopped {
		t.Fatalf("expected listing to show swept status, got %s", details[0].Status)
	}
}

func TestDeleteSubscriptionReturnsNotFound(t *testing.T) {
	service := newSubscriptionService(newStubSubscriptionStore())

	if err := service.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
