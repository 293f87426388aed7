package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/services"
)

type subscriptionApplicationService interface {
	Create(ctx context.Context, input services.CreateSubscriptionInput) (*models.Subscription, error)
	Get(ctx context.Context, id string) (*models.SubscriptionDetail, error)
	List(ctx context.Context, filter models.SubscriptionListFilter) ([]models.SubscriptionDetail, error)
	Update(ctx context.Context, id string, input services.UpdateSubscriptionInput) (*models.Subscription, error)
	ExpireSubscriptions(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

type SubscriptionHandler struct {
	service subscriptionApplicationService
}

func NewSubscriptionHandler(service subscriptionApplicationService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

type createSubscriptionRequest struct {
	PlayerID  string `json:"playerId"`
	CoachID   string `json:"coachId"`
	Status    string `json:"status"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	var req createSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.PlayerID == "" || req.CoachID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "playerId and coachId are required"})
	}

	input := services.CreateSubscriptionInput{
		PlayerID: req.PlayerID,
		CoachID:  req.CoachID,
		Status:   models.SubscriptionStatus(req.Status),
	}
	if req.StartDate != "" {
		startDate, err := parseDate(req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid startDate"})
		}
		input.StartDate = startDate
	}
	if req.EndDate != "" {
		endDate, err := parseDate(req.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid endDate"})
		}
		input.EndDate = endDate
	}

	subscription, err := h.service.Create(c.Context(), input)
	if err != nil {
		return mapSubscriptionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"subscription": subscription})
}

func (h *SubscriptionHandler) List(c *fiber.Ctx) error {
	filter := models.SubscriptionListFilter{
		Search:   c.Query("search"),
		Status:   models.SubscriptionStatus(c.Query("status")),
		CoachID:  c.Query("coachId"),
		PlayerID: c.Query("playerId"),
	}

	subscriptions, err := h.service.List(c.Context(), filter)
	if err != nil {
		return mapSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"subscriptions": subscriptions})
}

func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	subscription, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapSubscriptionError(c, err)
	}
	return c.JSON(fiber.Map{"subscription": subscription})
}

type updateSubscriptionRequest struct {
	Status    *string `json:"status"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

func (h *SubscriptionHandler) Update(c *fiber.Ctx) error {
	var req updateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input := services.UpdateSubscriptionInput{}
	if req.Status != nil {
		status := models.SubscriptionStatus(*req.Status)
		input.Status = &status
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid startDate"})
		}
		input.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid endDate"})
		}
		input.EndDate = &endDate
	}

	subscription, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return mapSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{"subscription": subscription})
}

func (h *SubscriptionHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return mapSubscriptionError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subscription deleted"})
}

// ExpireCheck is the manual trigger for the sweep the scheduler normally
// runs; the admin console exposes it as a maintenance button.
func (h *SubscriptionHandler) ExpireCheck(c *fiber.Ctx) error {
	expired, err := h.service.ExpireSubscriptions(c.Context())
	if err != nil {
		return mapSubscriptionError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      fmt.Sprintf("Expiry check complete, %d subscriptions stopped", expired),
		"expiredCount": expired,
	})
}

func mapSubscriptionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "An active subscription already exists for this player and coach",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subscription not found"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process subscription request"})
	}
}
