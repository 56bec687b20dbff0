package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"minigram/internal/handler"
	"minigram/internal/httputil"
	"minigram/internal/service"
	authmw "minigram/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	PostHandler    *handler.PostHandler
	AIHandler      *handler.AIHandler
	MediaHandler   *handler.MediaHandler
	Sessions       *service.SessionService
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteSuccess(w, http.StatusOK, "", httputil.M{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Get("/user/{username}", cfg.AuthHandler.GetUserByUsername)

			// Protected
			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireAuth(cfg.Sessions))
				r.Get("/me", cfg.AuthHandler.Me)
				r.Put("/profile", cfg.AuthHandler.UpdateProfile)
				r.Post("/follow/{userId}", cfg.AuthHandler.Follow)
				r.Delete("/unfollow/{userId}", cfg.AuthHandler.Unfollow)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			// Public reads pick up the viewer when a session cookie is present
			r.Group(func(r chi.Router) {
				r.Use(authmw.OptionalAuth(cfg.Sessions))
				r.Get("/", cfg.PostHandler.List)
				r.Get("/search/tag", cfg.PostHandler.SearchByTag)
				r.Get("/user/{userId}", cfg.PostHandler.ListByUser)
				r.Get("/{postId}", cfg.PostHandler.GetByID)
			})

			// Protected
			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireAuth(cfg.Sessions))
				r.Get("/feed", cfg.PostHandler.Feed)
				r.Post("/", cfg.PostHandler.Create)
				r.Put("/{postId}", cfg.PostHandler.Update)
				r.Delete("/{postId}", cfg.PostHandler.Delete)
				r.Post("/{postId}/like", cfg.PostHandler.Like)
				r.Delete("/{postId}/like", cfg.PostHandler.Unlike)
				r.Post("/{postId}/comments", cfg.PostHandler.AddComment)
				r.Delete("/{postId}/comments/{commentId}", cfg.PostHandler.DeleteComment)
			})
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(authmw.RequireAuth(cfg.Sessions))
			r.Post("/generate-caption", cfg.AIHandler.GenerateCaption)
			r.Post("/generate-suggestions", cfg.AIHandler.GenerateSuggestions)
			r.Post("/generate-hashtags", cfg.AIHandler.GenerateHashtags)
		})

		// Media upload is only mounted when R2 storage is configured
		if cfg.MediaHandler != nil {
			r.Route("/media", func(r chi.Router) {
				r.Use(authmw.RequireAuth(cfg.Sessions))
				r.Post("/upload", cfg.MediaHandler.Upload)
			})
		}
	})

	return r
}
