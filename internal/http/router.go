package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/contra-ai/contra-api/internal/auth"
	"github.com/contra-ai/contra-api/internal/config"
	"github.com/contra-ai/contra-api/internal/httputil"
	"github.com/contra-ai/contra-api/internal/logging"
	"github.com/contra-ai/contra-api/internal/transform"
)

// historyPaths maps each mode to its history route segment under /api/history.
var historyPaths = map[transform.Mode]string{
	transform.ModeHumanize:  "humanizedHis",
	transform.ModeRefine:    "refinedHis",
	transform.ModeConcise:   "concisedHis",
	transform.ModeAcademics: "academicsHis",
}

// deletePaths maps each mode to its delete route segment under /api/delete.
var deletePaths = map[transform.Mode]string{
	transform.ModeHumanize:  "humanized-del",
	transform.ModeRefine:    "refined-del",
	transform.ModeConcise:   "concise-del",
	transform.ModeAcademics: "academics-del",
}

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	authMiddleware *auth.Middleware,
	transformHandler *transform.Handler,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	// Public routes
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/sign-up", authHandler.SignUp)
		r.Post("/sign-in", authHandler.SignIn)
		r.Post("/verify-code", authHandler.VerifyCode)
		r.Get("/username-uniqueness", authHandler.UsernameUniqueness)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})

	// Transformation routes (require authentication)
	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		for _, mode := range transform.Modes {
			r.Post("/"+mode.String(), transformHandler.Create(mode))
			r.Get("/history/"+historyPaths[mode], transformHandler.History(mode))
			r.Delete("/delete/"+deletePaths[mode]+"/{id}", transformHandler.Delete(mode))
		}
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
