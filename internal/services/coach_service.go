package services

import (
	"context"
	"strings"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/repository"
)

type coachStore interface {
	Create(ctx context.Context, input repository.CreateCoachInput) (*models.Coach, error)
	GetByID(ctx context.Context, id string) (*models.Coach, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter models.CoachListFilter) ([]models.Coach, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
}

type CoachService struct {
	repo      coachStore
	registrar identityRegistrar
}

func NewCoachService(repo coachStore, registrar identityRegistrar) *CoachService {
	return &CoachService{repo: repo, registrar: registrar}
}

type CreateCoachInput struct {
	FullName      string
	Email         string
	Password      string
	Phone         *string
	Specialty     *string
	Bio           *string
	Status        models.AccountStatus
	PhotoURL      *string
	AvailableDays []string
	TimeSlots     []models.TimeSlot
}

func (s *CoachService) Create(ctx context.Context, input CreateCoachInput) (*models.Coach, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.FullName == "" || input.Email == "" {
		return nil, ErrInvalidInput
	}
	if input.Status == "" {
		input.Status = models.AccountPending
	}

	taken, err := s.repo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict
	}

	if s.registrar != nil && input.Password != "" {
		if _, err := s.registrar.CreateUser(ctx, input.Email, input.Password, input.FullName); err != nil {
			return nil, err
		}
	}

	return s.repo.Create(ctx, repository.CreateCoachInput{
		FullName:      input.FullName,
		Email:         input.Email,
		Phone:         input.Phone,
		Specialty:     input.Specialty,
		Bio:           input.Bio,
		Status:        input.Status,
		PhotoURL:      input.PhotoURL,
		AvailableDays: input.AvailableDays,
		TimeSlots:     input.TimeSlots,
	})
}

func (s *CoachService) Get(ctx context.Context, id string) (*models.Coach, error) {
	coach, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return coach, nil
}

func (s *CoachService) List(ctx context.Context, filter models.CoachListFilter) ([]models.Coach, error) {
	return s.repo.List(ctx, filter)
}

type UpdateCoachInput struct {
	FullName      *string
	Phone         *string
	Specialty     *string
	Bio           *string
	Status        *models.AccountStatus
	PhotoURL      *string
	AvailableDays *[]string
	TimeSlots     *[]models.TimeSlot
}

func (s *CoachService) Update(ctx context.Context, id string, input UpdateCoachInput) (*models.Coach, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FullName != nil {
		if strings.TrimSpace(*input.FullName) == "" {
			return nil, ErrInvalidInput
		}
		updates["fullName"] = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Specialty != nil {
		updates["specialty"] = *input.Specialty
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Status != nil {
		updates["status"] = string(*input.Status)
	}
	if input.PhotoURL != nil {
		updates["photoUrl"] = *input.PhotoURL
	}
	if input.AvailableDays != nil {
		updates["availableDays"] = *input.AvailableDays
	}
	if input.TimeSlots != nil {
		slots := make([]map[string]any, 0, len(*input.TimeSlots))
		for _, slot := range *input.TimeSlots {
			slots = append(slots, map[string]any{"start": slot.Start, "end": slot.End})
		}
		updates["timeSlots"] = slots
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id)
}

func (s *CoachService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Calendar exposes the coach's normalized availability for the admin
// calendar view. Defaults are already applied at the store boundary.
func (s *CoachService) Calendar(ctx context.Context, id string) (*models.CoachCalendar, error) {
	coach, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.CoachCalendar{
		CoachID:       coach.ID,
		CoachName:     coach.FullName,
		AvailableDays: coach.AvailableDays,
		TimeSlots:     coach.TimeSlots,
	}, nil
}
