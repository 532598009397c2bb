package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/quickchat/quickchat-go/internal/handler"
	"github.com/quickchat/quickchat-go/internal/middleware"
)

// Config contains the dependencies the router mounts.
type Config struct {
	AccountHandler *handler.AccountHandler
	Verifier       func(http.Handler) http.Handler
	Metrics        http.Handler
	Logger         *slog.Logger
	RateLimiter    *middleware.RateLimiter
	CORSOrigins    []string
}

// SetupRouter builds the application router.
func SetupRouter(cfg Config) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Middleware)
			}
			r.Post("/signup", cfg.AccountHandler.HandleSignup)
			r.Post("/login", cfg.AccountHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(cfg.Verifier)
			r.Get("/check", cfg.AccountHandler.HandleCheckAuth)
			r.Put("/update-profile", cfg.AccountHandler.HandleUpdateProfile)
		})
	})

	return r
}
