package handlers

import (
	"context"
	"errors"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/brahimakil/coachingsystem-sub001/internal/middleware"
	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/services"
	chatws "github.com/brahimakil/coachingsystem-sub001/internal/websocket"
)

type chatApplicationService interface {
	GetOrCreateConversation(ctx context.Context, coachID, playerID string, status models.ConversationStatus) (*models.Conversation, error)
	SendMessage(ctx context.Context, conversationID string, input services.SendMessageInput) (*services.ChatDelivery, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID string) (int, error)
	ListConversationsForCoach(ctx context.Context, coachID string) ([]models.ConversationSummary, error)
	ListConversationsForPlayer(ctx context.Context, playerID string) ([]models.ConversationSummary, error)
	DeleteConversation(ctx context.Context, id string) error
}

type ChatHandler struct {
	service  chatApplicationService
	hub      *chatws.Hub
	verifier middleware.TokenVerifier
}

func NewChatHandler(service chatApplicationService, hub *chatws.Hub, verifier middleware.TokenVerifier) *ChatHandler {
	return &ChatHandler{
		service:  service,
		hub:      hub,
		verifier: verifier,
	}
}

type createConversationRequest struct {
	CoachID  string `json:"coachId"`
	PlayerID string `json:"playerId"`
	Status   string `json:"status"`
}

func (h *ChatHandler) CreateConversation(c *fiber.Ctx) error {
	var req createConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.CoachID == "" || req.PlayerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "coachId and playerId are required"})
	}

	status := models.ConversationStatus(req.Status)
	if req.Status == "" {
		status = models.ConversationActive
	}

	conversation, err := h.service.GetOrCreateConversation(c.Context(), req.CoachID, req.PlayerID, status)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"conversation": conversation})
}

func (h *ChatHandler) ListCoachConversations(c *fiber.Ctx) error {
	conversations, err := h.service.ListConversationsForCoach(c.Context(), c.Params("coachId"))
	if err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{"conversations": conversations})
}

func (h *ChatHandler) ListPlayerConversations(c *fiber.Ctx) error {
	conversations, err := h.service.ListConversationsForPlayer(c.Context(), c.Params("playerId"))
	if err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{"conversations": conversations})
}

func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	limit := parsePositiveInt(c.Query("limit"), defaultMessageLimit)
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	messages, err := h.service.ListMessages(c.Context(), c.Params("id"), limit)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"messages": messages})
}

type sendMessageRequest struct {
	SenderID   string  `json:"senderId"`
	SenderType string  `json:"senderType"`
	Text       string  `json:"text"`
	MediaURL   *string `json:"mediaUrl"`
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.SenderID == "" || req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "senderId and text are required"})
	}

	delivery, err := h.service.SendMessage(c.Context(), c.Params("id"), services.SendMessageInput{
		SenderID:   req.SenderID,
		SenderType: models.SenderType(req.SenderType),
		Text:       req.Text,
		MediaURL:   req.MediaURL,
	})
	if err != nil {
		return mapChatError(c, err)
	}

	h.hub.Broadcast(chatws.NewMessageEvent(delivery))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": delivery.Message})
}

type markReadRequest struct {
	ReaderID string `json:"readerId"`
}

func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	var req markReadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ReaderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "readerId is required"})
	}

	count, err := h.service.MarkRead(c.Context(), c.Params("id"), req.ReaderID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "markedCount": count})
}

func (h *ChatHandler) DeleteConversation(c *fiber.Ctx) error {
	if err := h.service.DeleteConversation(c.Context(), c.Params("id")); err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Conversation deleted"})
}

func (h *ChatHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	verified, err := h.verifier.VerifyIDToken(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("uid", verified.UID)
	if role, ok := verified.Claims["role"].(string); ok {
		c.Locals("role", role)
	}
	return c.Next()
}

func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	uid, _ := conn.Locals("uid").(string)
	role, _ := conn.Locals("role").(string)
	client := chatws.NewClient(h.hub, conn, uid)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(h.service, role)
}

func mapChatError(c *fiber.Ctx, err error) error {
	var inactive *services.SubscriptionInactiveError
	switch {
	case errors.As(err, &inactive):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": inactive.Error()})
	case errors.Is(err, services.ErrNoSubscription):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No subscription found for this coach and player",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process chat request"})
	}
}
