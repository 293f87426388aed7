package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/brahimakil/coachingsystem-sub001/internal/ai"
	"github.com/brahimakil/coachingsystem-sub001/internal/config"
	"github.com/brahimakil/coachingsystem-sub001/internal/database"
	"github.com/brahimakil/coachingsystem-sub001/internal/handlers"
	"github.com/brahimakil/coachingsystem-sub001/internal/middleware"
	"github.com/brahimakil/coachingsystem-sub001/internal/repository"
	"github.com/brahimakil/coachingsystem-sub001/internal/services"
	chatws "github.com/brahimakil/coachingsystem-sub001/internal/websocket"
)

// RegisterRoutes wires repositories, services, and handlers onto the app and
// returns the subscription service so the cron scheduler can share the same
// sweep implementation the read paths use.
func RegisterRoutes(app *fiber.App, cfg *config.Config, clients *database.Clients) *services.SubscriptionService {
	playerRepo := repository.NewPlayerRepository(clients.Firestore)
	coachRepo := repository.NewCoachRepository(clients.Firestore)
	subscriptionRepo := repository.NewSubscriptionRepository(clients.Firestore)
	ratingRepo := repository.NewRatingRepository(clients.Firestore)
	conversationRepo := repository.NewConversationRepository(clients.Firestore)
	aiChatRepo := repository.NewAIChatRepository(clients.Firestore)

	identity := database.NewIdentity(clients.Auth)

	var completionClient ai.CompletionClient
	if cfg.AIEndpoint != "" && cfg.AIAPIKey != "" {
		completionClient = ai.NewHTTPCompletionClient(cfg.AIEndpoint, cfg.AIAPIKey, cfg.AIModel)
	}

	playerService := services.NewPlayerService(playerRepo, identity)
	coachService := services.NewCoachService(coachRepo, identity)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, playerRepo, coachRepo)
	ratingService := services.NewRatingService(ratingRepo, subscriptionRepo, coachRepo)
	chatService := services.NewChatService(conversationRepo, subscriptionRepo, playerRepo, coachRepo)
	dashboardService := services.NewDashboardService(playerRepo, coachRepo, subscriptionRepo, subscriptionService)
	aiService := services.NewAIChatService(aiChatRepo, completionClient)

	chatHub := chatws.NewHub()
	go chatHub.Run()

	authHandler := handlers.NewAuthHandler(identity)
	playerHandler := handlers.NewPlayerHandler(playerService)
	coachHandler := handlers.NewCoachHandler(coachService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, identity)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	aiHandler := handlers.NewAIHandler(aiService)

	api := app.Group("/api")

	authRequired := middleware.AuthRequired(identity)
	adminRequired := middleware.AdminRequired()

	auth := api.Group("/auth", authRequired, adminRequired)
	auth.Post("/token", authHandler.IssueToken)

	v1 := api.Group("/v1", authRequired)

	players := v1.Group("/players", adminRequired)
	players.Post("", playerHandler.Create)
	players.Get("", playerHandler.List)
	players.Get("/:id", playerHandler.Get)
	players.Patch("/:id", playerHandler.Update)
	players.Delete("/:id", playerHandler.Delete)

	coaches := v1.Group("/coaches", adminRequired)
	coaches.Post("", coachHandler.Create)
	coaches.Get("", coachHandler.List)
	coaches.Get("/:id", coachHandler.Get)
	coaches.Get("/:id/calendar", coachHandler.Calendar)
	coaches.Patch("/:id", coachHandler.Update)
	coaches.Delete("/:id", coachHandler.Delete)

	subscriptions := v1.Group("/subscriptions")
	subscriptions.Post("", subscriptionHandler.Create)
	subscriptions.Get("", subscriptionHandler.List)
	subscriptions.Post("/expire-check", subscriptionHandler.ExpireCheck)
	subscriptions.Get("/:id", subscriptionHandler.Get)
	subscriptions.Patch("/:id", subscriptionHandler.Update)
	subscriptions.Delete("/:id", subscriptionHandler.Delete)

	ratings := v1.Group("/ratings")
	ratings.Post("", ratingHandler.Create)
	ratings.Get("", ratingHandler.List)
	ratings.Get("/coach/:coachId/stats", ratingHandler.CoachStats)
	ratings.Get("/coach/:coachId/player/:playerId", ratingHandler.GetByPair)
	ratings.Patch("/:id", ratingHandler.Update)
	ratings.Delete("/:id", ratingHandler.Delete)

	chat := v1.Group("/chat")
	chat.Post("/conversations", chatHandler.CreateConversation)
	chat.Get("/conversations/coach/:coachId", chatHandler.ListCoachConversations)
	chat.Get("/conversations/player/:playerId", chatHandler.ListPlayerConversations)
	chat.Get("/conversations/:id/messages", chatHandler.GetMessages)
	chat.Post("/conversations/:id/messages", chatHandler.SendMessage)
	chat.Post("/conversations/:id/read", chatHandler.MarkRead)
	chat.Delete("/conversations/:id", chatHandler.DeleteConversation)

	chat.Get("/ai/:playerId", aiHandler.History)
	chat.Post("/ai", aiHandler.Send)
	chat.Post("/ai/response", aiHandler.StoreResponse)
	chat.Delete("/ai/:playerId", aiHandler.Clear)

	v1.Get("/dashboard/stats", dashboardHandler.Stats)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))

	return subscriptionService
}
