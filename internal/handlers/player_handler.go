package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/services"
)

type playerApplicationService interface {
	Create(ctx context.Context, input services.CreatePlayerInput) (*models.Player, error)
	Get(ctx context.Context, id string) (*models.Player, error)
	List(ctx context.Context, filter models.PlayerListFilter) ([]models.Player, error)
	Update(ctx context.Context, id string, input services.UpdatePlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id string) error
}

type PlayerHandler struct {
	service playerApplicationService
}

func NewPlayerHandler(service playerApplicationService) *PlayerHandler {
	return &PlayerHandler{service: service}
}

type createPlayerRequest struct {
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
	Status   string  `json:"status"`
	PhotoURL *string `json:"photoUrl"`
}

func (h *PlayerHandler) Create(c *fiber.Ctx) error {
	var req createPlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.FullName == "" || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fullName and email are required"})
	}

	player, err := h.service.Create(c.Context(), services.CreatePlayerInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Status:   models.AccountStatus(req.Status),
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return mapPlayerError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"player": player})
}

func (h *PlayerHandler) List(c *fiber.Ctx) error {
	players, err := h.service.List(c.Context(), models.PlayerListFilter{
		Search: c.Query("search"),
		Status: models.AccountStatus(c.Query("status")),
	})
	if err != nil {
		return mapPlayerError(c, err)
	}
	return c.JSON(fiber.Map{"players": players})
}

func (h *PlayerHandler) Get(c *fiber.Ctx) error {
	player, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapPlayerError(c, err)
	}
	return c.JSON(fiber.Map{"player": player})
}

type updatePlayerRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Status   *string `json:"status"`
	PhotoURL *string `json:"photoUrl"`
}

func (h *PlayerHandler) Update(c *fiber.Ctx) error {
	var req updatePlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input := services.UpdatePlayerInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		PhotoURL: req.PhotoURL,
	}
	if req.Status != nil {
		status := models.AccountStatus(*req.Status)
		input.Status = &status
	}

	player, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return mapPlayerError(c, err)
	}

	return c.JSON(fiber.Map{"player": player})
}

func (h *PlayerHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return mapPlayerError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Player deleted"})
}

func mapPlayerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Player not found"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process player request"})
	}
}
