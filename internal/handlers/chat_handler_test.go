package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v2"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
	"github.com/brahimakil/coachingsystem-sub001/internal/services"
	chatws "github.com/brahimakil/coachingsystem-sub001/internal/websocket"
)

type stubChatService struct {
	conversationResult *models.Conversation
	conversationErr    error
	deliveryResult     *services.ChatDelivery
	deliveryErr        error
	messagesResult     []models.Message
	messagesErr        error
	markedCount        int
	markErr            error
	summariesResult    []models.ConversationSummary
	summariesErr       error
	deleteErr          error
	lastSend           services.SendMessageInput
	lastConversationID string
	lastLimit          int
}

func (s *stubChatService) GetOrCreateConversation(_ context.Context, _, _ string, _ models.ConversationStatus) (*models.Conversation, error) {
	return s.conversationResult, s.conversationErr
}

func (s *stubChatService) SendMessage(_ context.Context, conversationID string, input services.SendMessageInput) (*services.ChatDelivery, error) {
	s.lastConversationID = conversationID
	s.lastSend = input
	return s.deliveryResult, s.deliveryErr
}

func (s *stubChatService) ListMessages(_ context.Context, conversationID string, limit int) ([]models.Message, error) {
	s.lastConversationID = conversationID
	s.lastLimit = limit
	return s.messagesResult, s.messagesErr
}

func (s *stubChatService) MarkRead(_ context.Context, conversationID, _ string) (int, error) {
	s.lastConversationID = conversationID
	return s.markedCount, s.markErr
}

func (s *stubChatService) ListConversationsForCoach(_ context.Context, _ string) ([]models.ConversationSummary, error) {
	return s.summariesResult, s.summariesErr
}

func (s *stubChatService) ListConversationsForPlayer(_ context.Context, _ string) ([]models.ConversationSummary, error) {
	return s.summariesResult, s.summariesErr
}

func (s *stubChatService) DeleteConversation(_ context.Context, _ string) error {
	return s.deleteErr
}

type stubTokenVerifier struct {
	token *auth.Token
	err   error
}

func (s *stubTokenVerifier) VerifyIDToken(_ context.Context, _ string) (*auth.Token, error) {
	return s.token, s.err
}

func newChatApp(service *stubChatService) *fiber.App {
	handler := NewChatHandler(service, chatws.NewHub(), &stubTokenVerifier{})
	app := fiber.New()
	app.Post("/api/v1/chat/conversations", handler.CreateConversation)
	app.Get("/api/v1/chat/conversations/coach/:coachId", handler.ListCoachConversations)
	app.Get("/api/v1/chat/conversations/player/:playerId", handler.ListPlayerConversations)
	app.Get("/api/v1/chat/conversations/:id/messages", handler.GetMessages)
	app.Post("/api/v1/chat/conversations/:id/messages", handler.SendMessage)
	app.Post("/api/v1/chat/conversations/:id/read", handler.MarkRead)
	app.Delete("/api/v1/chat/conversations/:id", handler.DeleteConversation)
	return app
}

func TestSendMessageReturnsCreated(t *testing.T) {
	service := &stubChatService{
		deliveryResult: &services.ChatDelivery{
			Conversation: &models.Conversation{ID: "conv-1", CoachID: "coach-1", PlayerID: "player-1"},
			Message:      &models.Message{ID: "msg-1", SenderID: "player-1", Text: "hello"},
			RecipientID:  "coach-1",
		},
	}
	app := newChatApp(service)

	body := `{"senderId":"player-1","senderType":"player","text":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/conversations/conv-1/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastConversationID != "conv-1" || service.lastSend.SenderType != models.SenderPlayer {
		t.Fatalf("unexpected forwarded input: %q %+v", service.lastConversationID, service.lastSend)
	}

	var response struct {
		Message models.Message `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if response.Message.ID != "msg-1" {
		t.Fatalf("unexpected message body: %+v", response.Message)
	}
}

func TestSendMessageMapsInactiveSubscriptionToForbidden(t *testing.T) {
	service := &stubChatService{
		deliveryErr: &services.SubscriptionInactiveError{Status: models.SubscriptionStopped},
	}
	app := newChatApp(service)

	body := `{"senderId":"player-1","senderType":"player","text":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/conversations/conv-1/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	var response struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if response.Error != "cannot send message, subscription is stopped" {
		t.Fatalf("unexpected error message: %q", response.Error)
	}
}

func TestSendMessageMapsMissingSubscriptionToNotFound(t *testing.T) {
	service := &stubChatService{deliveryErr: services.ErrNoSubscription}
	app := newChatApp(service)

	body := `{"senderId":"player-1","senderType":"player","text":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/conversations/conv-1/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetMessagesCapsLimit(t *testing.T) {
	service := &stubChatService{}
	app := newChatApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/conversations/conv-1/messages?limit=999", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastLimit != maxMessageLimit {
		t.Fatalf("expected limit capped at %d, got %d", maxMessageLimit, service.lastLimit)
	}
}

func TestGetMessagesDefaultsLimit(t *testing.T) {
	service := &stubChatService{}
	app := newChatApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/conversations/conv-1/messages", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if service.lastLimit != defaultMessageLimit {
		t.Fatalf("expected default limit %d, got %d", defaultMessageLimit, service.lastLimit)
	}
}

func TestCreateConversationRequiresIDs(t *testing.T) {
	app := newChatApp(&stubChatService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/conversations", strings.NewReader(`{"coachId":"coach-1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMarkReadReturnsCount(t *testing.T) {
	service := &stubChatService{markedCount: 4}
	app := newChatApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/conversations/conv-1/read", strings.NewReader(`{"readerId":"coach-1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var response struct {
		Success     bool `json:"success"`
		MarkedCount int  `json:"markedCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !response.Success || response.MarkedCount != 4 {
		t.Fatalf("unexpected response: %+v", response)
	}
}

func TestDeleteConversationMapsNotFound(t *testing.T) {
	service := &stubChatService{deleteErr: services.ErrNotFound}
	app := newChatApp(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/chat/conversations/missing", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestWebSocketAuthRejectsPlainRequests(t *testing.T) {
	handler := NewChatHandler(&stubChatService{}, chatws.NewHub(), &stubTokenVerifier{err: errors.New("bad token")})
	app := fiber.New()
	app.Get("/v1/ws", handler.WebSocketAuth)

	req := httptest.NewRequest(http.MethodGet, "/v1/ws?token=abc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("expected 426, got %d", resp.StatusCode)
	}
}
