package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/services"
)

type coachApplicationService interface {
	Create(ctx context.Context, input services.CreateCoachInput) (*models.Coach, error)
	Get(ctx context.Context, id string) (*models.Coach, error)
	List(ctx context.Context, filter models.CoachListFilter) ([]models.Coach, error)
	Update(ctx context.Context, id string, input services.UpdateCoachInput) (*models.Coach, error)
	Delete(ctx context.Context, id string) error
	Calendar(ctx context.Context, id string) (*models.CoachCalendar, error)
}

type CoachHandler struct {
	service coachApplicationService
}

func NewCoachHandler(service coachApplicationService) *CoachHandler {
	return &CoachHandler{service: service}
}

type createCoachRequest struct {
	FullName      string            `json:"fullName"`
	Email         string            `json:"email"`
	Password      string            `json:"password"`
	Phone         *string           `json:"phone"`
	Specialty     *string           `json:"specialty"`
	Bio           *string           `json:"bio"`
	Status        string            `json:"status"`
	PhotoURL      *string           `json:"photoUrl"`
	AvailableDays []string          `json:"availableDays"`
	TimeSlots     []models.TimeSlot `json:"timeSlots"`
}

func (h *CoachHandler) Create(c *fiber.Ctx) error {
	var req createCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.FullName == "" || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fullName and email are required"})
	}

	coach, err := h.service.Create(c.Context(), services.CreateCoachInput{
		FullName:      req.FullName,
		Email:         req.Email,
		Password:      req.Password,
		Phone:         req.Phone,
		Specialty:     req.Specialty,
		Bio:           req.Bio,
		Status:        models.AccountStatus(req.Status),
		PhotoURL:      req.PhotoURL,
		AvailableDays: req.AvailableDays,
		TimeSlots:     req.TimeSlots,
	})
	if err != nil {
		return mapCoachError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"coach": coach})
}

func (h *CoachHandler) List(c *fiber.Ctx) error {
	coaches, err := h.service.List(c.Context(), models.CoachListFilter{
		Search: c.Query("search"),
		Status: models.AccountStatus(c.Query("status")),
	})
	if err != nil {
		return mapCoachError(c, err)
	}
	return c.JSON(fiber.Map{"coaches": coaches})
}

func (h *CoachHandler) Get(c *fiber.Ctx) error {
	coach, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapCoachError(c, err)
	}
	return c.JSON(fiber.Map{"coach": coach})
}

func (h *CoachHandler) Calendar(c *fiber.Ctx) error {
	calendar, err := h.service.Calendar(c.Context(), c.Params("id"))
	if err != nil {
		return mapCoachError(c, err)
	}
	return c.JSON(fiber.Map{"calendar": calendar})
}

type updateCoachRequest struct {
	FullName      *string            `json:"fullName"`
	Phone         *string            `json:"phone"`
	Specialty     *string            `json:"specialty"`
	Bio           *string            `json:"bio"`
	Status        *string            `json:"status"`
	PhotoURL      *string            `json:"photoUrl"`
	AvailableDays *[]string          `json:"availableDays"`
	TimeSlots     *[]models.TimeSlot `json:"timeSlots"`
}

func (h *CoachHandler) Update(c *fiber.Ctx) error {
	var req updateCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input := services.UpdateCoachInput{
		FullName:      req.FullName,
		Phone:         req.Phone,
		Specialty:     req.Specialty,
		Bio:           req.Bio,
		PhotoURL:      req.PhotoURL,
		AvailableDays: req.AvailableDays,
		TimeSlots:     req.TimeSlots,
	}
	if req.Status != nil {
		status := models.AccountStatus(*req.Status)
		input.Status = &status
	}

	coach, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return mapCoachError(c, err)
	}

	return c.JSON(fiber.Map{"coach": coach})
}

func (h *CoachHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return mapCoachError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Coach deleted"})
}

func mapCoachError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process coach request"})
	}
}
