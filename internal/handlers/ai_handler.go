package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/services"
)

type aiApplicationService interface {
	History(ctx context.Context, playerID string) ([]models.AITurn, error)
	Send(ctx context.Context, playerID, message string) (*models.AITurn, error)
	StoreResponse(ctx context.Context, playerID, response string) (*models.AITurn, error)
	Clear(ctx context.Context, playerID string) error
}

type AIHandler struct {
	service aiApplicationService
}

func NewAIHandler(service aiApplicationService) *AIHandler {
	return &AIHandler{service: service}
}

func (h *AIHandler) History(c *fiber.Ctx) error {
	turns, err := h.service.History(c.Context(), c.Params("playerId"))
	if err != nil {
		return mapAIError(c, err)
	}
	return c.JSON(fiber.Map{"messages": turns})
}

type aiSendRequest struct {
	PlayerID string `json:"playerId"`
	Message  string `json:"message"`
}

func (h *AIHandler) Send(c *fiber.Ctx) error {
	var req aiSendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.PlayerID == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "playerId and message are required"})
	}

	turn, err := h.service.Send(c.Context(), req.PlayerID, req.Message)
	if err != nil {
		return mapAIError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"response": turn})
}

type aiStoreResponseRequest struct {
	PlayerID string `json:"playerId"`
	Response string `json:"response"`
}

func (h *AIHandler) StoreResponse(c *fiber.Ctx) error {
	var req aiStoreResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.PlayerID == "" || req.Response == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "playerId and response are required"})
	}

	turn, err := h.service.StoreResponse(c.Context(), req.PlayerID, req.Response)
	if err != nil {
		return mapAIError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"response": turn})
}

func (h *AIHandler) Clear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.Context(), c.Params("playerId")); err != nil {
		return mapAIError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Conversation cleared"})
}

func mapAIError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAIUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "AI assistant is not configured"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		// Generation failures from the model propagate here. The upstream
		// message is not leaked to the client.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process AI request"})
	}
}
