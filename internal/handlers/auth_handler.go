package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type tokenIssuer interface {
	CustomToken(ctx context.Context, uid string) (string, error)
}

type AuthHandler struct {
	issuer tokenIssuer
}

func NewAuthHandler(issuer tokenIssuer) *AuthHandler {
	return &AuthHandler{issuer: issuer}
}

type issueTokenRequest struct {
	UID string `json:"uid"`
}

// IssueToken mints a custom sign-in token for the given uid. The route sits
// behind the admin gate; credential validation itself happens upstream when
// the client exchanges the custom token.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req issueTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.UID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "uid is required"})
	}

	token, err := h.issuer.CustomToken(c.Context(), req.UID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
	}

	return c.JSON(fiber.Map{"token": token})
}
