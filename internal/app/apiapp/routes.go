package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/maisachinsharmahu/vanbackend/internal/config"
	adventuressvc "github.com/maisachinsharmahu/vanbackend/internal/services/adventures"
	authsvc "github.com/maisachinsharmahu/vanbackend/internal/services/auth"
	chatsvc "github.com/maisachinsharmahu/vanbackend/internal/services/chat"
	feedsvc "github.com/maisachinsharmahu/vanbackend/internal/services/feed"
	likessvc "github.com/maisachinsharmahu/vanbackend/internal/services/likes"
	matchessvc "github.com/maisachinsharmahu/vanbackend/internal/services/matches"
	postssvc "github.com/maisachinsharmahu/vanbackend/internal/services/posts"
	premiumsvc "github.com/maisachinsharmahu/vanbackend/internal/services/premium"
	swipesvc "github.com/maisachinsharmahu/vanbackend/internal/services/swipes"
	"github.com/maisachinsharmahu/vanbackend/internal/transport/http/handlers"
)

type Dependencies struct {
	SwipeService     *swipesvc.Service
	LikeService      *likessvc.Service
	MatchService     *matchessvc.Service
	FeedService      *feedsvc.Service
	ChatService      *chatsvc.Service
	PostService      *postssvc.Service
	AdventureService *adventuressvc.Service
	PremiumService   *premiumsvc.Service
	JWTManager       *authsvc.JWTManager
	Logger           *zap.Logger
	Config           config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	likesHandler := handlers.NewLikesHandler(deps.LikeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	chatHandler := handlers.NewChatHandler(deps.ChatService)
	postsHandler := handlers.NewPostsHandler(deps.PostService)
	adventuresHandler := handlers.NewAdventuresHandler(deps.AdventureService)
	premiumHandler := handlers.NewPremiumHandler(deps.PremiumService)
	authMW := AuthMiddleware(deps.JWTManager, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMW)

		r.Route("/match", func(r chi.Router) {
			r.Get("/", matchesHandler.List)
			r.Post("/swipe", swipeHandler.Swipe)
			r.Put("/{matchID}/respond", swipeHandler.Respond)
			r.Get("/suggestions", feedHandler.Suggestions)
			r.Get("/likes", likesHandler.Mine)
			r.Get("/incoming", likesHandler.Incoming)
			r.Get("/dating-chats", chatHandler.DatingChats)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/messages", chatHandler.Send)
			r.Post("/{matchID}/read", chatHandler.MarkRead)
		})

		r.Route("/premium", func(r chi.Router) {
			r.Get("/status", premiumHandler.Status)
			r.Post("/activate", premiumHandler.Activate)
			r.Post("/deactivate", premiumHandler.Deactivate)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", postsHandler.Create)
			r.Post("/{postID}/comments", postsHandler.Comment)
		})

		r.Route("/adventures", func(r chi.Router) {
			r.Get("/", adventuresHandler.List)
			r.Post("/", adventuresHandler.Create)
		})
	})
}
