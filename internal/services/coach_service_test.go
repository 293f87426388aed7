package services

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/repository"
)

type stubCoachStore struct {
	coaches map[string]*models.Coach
}

func newStubCoachStore(coaches ...*models.Coach) *stubCoachStore {
	store := &stubCoachStore{coaches: make(map[string]*models.Coach)}
	for _, coach := range coaches {
		store.coaches[coach.ID] = coach
	}
	return store
}

func (s *stubCoachStore) Create(_ context.Context, input repository.CreateCoachInput) (*models.Coach, error) {
	created := &models.Coach{
		ID:            "coach-new",
		FullName:      input.FullName,
		Email:         input.Email,
		Status:        input.Status,
		AvailableDays: input.AvailableDays,
		TimeSlots:     input.TimeSlots,
	}
	s.coaches[created.ID] = created
	copied := *created
	return &copied, nil
}

func (s *stubCoachStore) GetByID(_ context.Context, id string) (*models.Coach, error) {
	coach, ok := s.coaches[id]
	if !ok {
		return nil, status.Error(codes.NotFound, "coach not found")
	}
	copied := *coach
	return &copied, nil
}

func (s *stubCoachStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, coach := range s.coaches {
		if coach.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubCoachStore) List(_ context.Context, _ models.CoachListFilter) ([]models.Coach, error) {
	var coaches []models.Coach
	for _, coach := range s.coaches {
		coaches = append(coaches, *coach)
	}
	return coaches, nil
}

func (s *stubCoachStore) Update(_ context.Context, id string, _ map[string]any) error {
	if _, ok := s.coaches[id]; !ok {
		return status.Error(codes.NotFound, "coach not found")
	}
	return nil
}

func (s *stubCoachStore) Delete(_ context.Context, id string) error {
	if _, ok := s.coaches[id]; !ok {
		return status.Error(codes.NotFound, "coach not found")
	}
	delete(s.coaches, id)
	return nil
}

func TestCreateCoachRejectsTakenEmail(t *testing.T) {
	store := newStubCoachStore(&models.Coach{ID: "coach-1", Email: "omar@example.com"})
	service := NewCoachService(store, nil)

	_, err := service.Create(context.Background(), CreateCoachInput{
		FullName: "Omar Fares",
		Email:    "Omar@Example.com",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCoachCalendarExposesAvailability(t *testing.T) {
	store := newStubCoachStore(&models.Coach{
		ID:            "coach-1",
		FullName:      "Omar Fares",
		AvailableDays: []string{"monday", "wednesday"},
		TimeSlots:     []models.TimeSlot{{Start: "10:00", End: "12:00"}},
	})
	service := NewCoachService(store, nil)

	calendar, err := service.Calendar(context.Background(), "coach-1")
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	if calendar.CoachName != "Omar Fares" {
		t.Fatalf("unexpected coach name %q", calendar.CoachName)
	}
	if len(calendar.AvailableDays) != 2 || len(calendar.TimeSlots) != 1 {
		t.Fatalf("unexpected availability: %+v", calendar)
	}
	if calendar.TimeSlots[0].Start != "10:00" {
		t.Fatalf("unexpected slot start %q", calendar.TimeSlots[0].Start)
	}
}

func TestCoachCalendarReturnsNotFound(t *testing.T) {
	service := NewCoachService(newStubCoachStore(), nil)

	_, err := service.Calendar(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
