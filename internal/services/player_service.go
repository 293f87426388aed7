package services

import (
	"context"
	"strings"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/repository"
)

type playerStore interface {
	Create(ctx context.Context, input repository.CreatePlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id string) (*models.Player, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter models.PlayerListFilter) ([]models.Player, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
}

// identityRegistrar is the identity-provider hook for account creation. It
// may be nil when the backend runs without credential management.
type identityRegistrar interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
}

type PlayerService struct {
	repo      playerStore
	registrar identityRegistrar
}

func NewPlayerService(repo playerStore, registrar identityRegistrar) *PlayerService {
	return &PlayerService{repo: repo, registrar: registrar}
}

type CreatePlayerInput struct {
	FullName string
	Email    string
	Password string
	Phone    *string
	Status   models.AccountStatus
	PhotoURL *string
}

func (s *PlayerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
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

	return s.repo.Create(ctx, repository.CreatePlayerInput{
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		Status:   input.Status,
		PhotoURL: input.PhotoURL,
	})
}

func (s *PlayerService) Get(ctx context.Context, id string) (*models.Player, error) {
	player, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *PlayerService) List(ctx context.Context, filter models.PlayerListFilter) ([]models.Player, error) {
	return s.repo.List(ctx, filter)
}

type UpdatePlayerInput struct {
	FullName *string
	Phone    *string
	Status   *models.AccountStatus
	PhotoURL *string
}

func (s *PlayerService) Update(ctx context.Context, id string, input UpdatePlayerInput) (*models.Player, error) {
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
	if input.Status != nil {
		updates["status"] = string(*input.Status)
	}
	if input.PhotoURL != nil {
		updates["photoUrl"] = *input.PhotoURL
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id)
}

func (s *PlayerService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
