package handlers

import (
	"net/http"

	"travel-journal-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds everything the HTTP routes depend on
type RouterConfig struct {
	Users     *UserHandler
	Stories   *StoryHandler
	Images    *ImageHandler
	Health    *HealthHandler
	Tokens    middleware.TokenValidator
	AssetsDir string
}

// NewRouter builds the HTTP routes of the journal API
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Public routes
	r.Get("/health", cfg.Health.Health)
	r.Post("/create-account", cfg.Users.Register)
	r.Post("/login-account", cfg.Users.Login)
	r.Post("/image-upload", cfg.Images.UploadImage)
	r.Delete("/delete-image", cfg.Images.DeleteImage)

	// Static files
	r.Get("/uploads/{key}", cfg.Images.ServeImage)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetsDir))))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Tokens))
		r.Get("/get-user", cfg.Users.GetUser)
		r.Post("/add-travel-story", cfg.Stories.AddStory)
		r.Get("/get-all-stories", cfg.Stories.GetAllStories)
		r.Put("/edit-stories/{id}", cfg.Stories.EditStory)
		r.Delete("/delete-stories/{id}", cfg.Stories.DeleteStory)
		r.Put("/update-is-favourite/{id}", cfg.Stories.UpdateIsFavourite)
		r.Get("/search", cfg.Stories.Search)
		r.Get("/travel-stories/filter", cfg.Stories.FilterByDate)
	})

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
