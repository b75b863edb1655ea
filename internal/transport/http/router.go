package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"buzzline/internal/handler"
	"buzzline/internal/httputil"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	FollowHandler       *handler.FollowHandler
	FeedHandler         *handler.FeedHandler
	PostHandler         *handler.PostHandler
	CommentHandler      *handler.CommentHandler
	MediaHandler        *handler.MediaHandler
	NotificationHandler *handler.NotificationHandler
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/{id}", cfg.UserHandler.GetProfile)
		r.Put("/{id}", cfg.UserHandler.UpdateProfile)
		r.Get("/{id}/followers", cfg.FollowHandler.GetFollowers)
		r.Get("/{id}/following", cfg.FollowHandler.GetFollowing)
		r.Post("/{id}/follow", cfg.FollowHandler.Follow)
		r.Delete("/{id}/follow", cfg.FollowHandler.Unfollow)
		r.Get("/{id}/notifications", cfg.NotificationHandler.List)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", cfg.FeedHandler.ListPosts)
		r.Post("/", cfg.PostHandler.Create)
		r.Get("/{id}", cfg.PostHandler.GetByID)
		r.Post("/{id}/like", cfg.PostHandler.ToggleLike)
		r.Post("/{id}/share", cfg.PostHandler.Share)
		r.Get("/{id}/comments", cfg.CommentHandler.List)
		r.Post("/{id}/comments", cfg.CommentHandler.Add)
	})

	// Media upload is optional; only mounted when object storage is configured
	if cfg.MediaHandler != nil {
		r.Post("/media/upload", cfg.MediaHandler.Upload)
	}

	return r
}
