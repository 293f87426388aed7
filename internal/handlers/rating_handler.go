package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/services"
)

type ratingApplicationService interface {
	Create(ctx context.Context, input services.CreateRatingInput) (*models.Rating, error)
	Update(ctx context.Context, id string, input services.UpdateRatingInput) (*models.Rating, error)
	Delete(ctx context.Context, id string) error
	GetByPair(ctx context.Context, coachID, playerID string) (*models.Rating, error)
	List(ctx context.Context, coachID, playerID string) ([]models.Rating, error)
	CoachStats(ctx context.Context, coachID string) (*models.CoachRatingStats, error)
}

type RatingHandler struct {
	service ratingApplicationService
}

func NewRatingHandler(service ratingApplicationService) *RatingHandler {
	return &RatingHandler{service: service}
}

type createRatingRequest struct {
	CoachID    string  `json:"coachId"`
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Rating     int     `json:"rating"`
	Review     *string `json:"review"`
}

func (h *RatingHandler) Create(c *fiber.Ctx) error {
	var req createRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.CoachID == "" || req.PlayerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "coachId and playerId are required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "rating must be between 1 and 5"})
	}

	rating, err := h.service.Create(c.Context(), services.CreateRatingInput{
		CoachID:    req.CoachID,
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		Rating:     req.Rating,
		Review:     req.Review,
	})
	if err != nil {
		return mapRatingError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"rating": rating})
}

func (h *RatingHandler) List(c *fiber.Ctx) error {
	ratings, err := h.service.List(c.Context(), c.Query("coachId"), c.Query("playerId"))
	if err != nil {
		return mapRatingError(c, err)
	}
	return c.JSON(fiber.Map{"ratings": ratings})
}

func (h *RatingHandler) CoachStats(c *fiber.Ctx) error {
	stats, err := h.service.CoachStats(c.Context(), c.Params("coachId"))
	if err != nil {
		return mapRatingError(c, err)
	}
	return c.JSON(stats)
}

func (h *RatingHandler) GetByPair(c *fiber.Ctx) error {
	rating, err := h.service.GetByPair(c.Context(), c.Params("coachId"), c.Params("playerId"))
	if err != nil {
		return mapRatingError(c, err)
	}
	return c.JSON(fiber.Map{"rating": rating})
}

type updateRatingRequest struct {
	Rating     *int    `json:"rating"`
	Review     *string `json:"review"`
	PlayerName *string `json:"playerName"`
}

func (h *RatingHandler) Update(c *fiber.Ctx) error {
	var req updateRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	rating, err := h.service.Update(c.Context(), c.Params("id"), services.UpdateRatingInput{
		Rating:     req.Rating,
		Review:     req.Review,
		PlayerName: req.PlayerName,
	})
	if err != nil {
		return mapRatingError(c, err)
	}

	return c.JSON(fiber.Map{"rating": rating})
}

func (h *RatingHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return mapRatingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Rating deleted"})
}

func mapRatingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A rating already exists for this player and coach, update it instead",
		})
	case errors.Is(err, services.ErrNoSubscription):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Player has no subscription with this coach",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rating not found"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process rating request"})
	}
}
