package api

import (
	"encoding/json"
	"net/http"

	"github.com/dmarlow/persona/internal/api/handlers"
	mw "github.com/dmarlow/persona/internal/api/middleware"
	"github.com/dmarlow/persona/internal/config"
	"github.com/dmarlow/persona/internal/domain"
	"github.com/dmarlow/persona/internal/service"
	"github.com/dmarlow/persona/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle
// management.
type App struct {
	Router  *chi.Mux
	Sweeper *service.SweeperService
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	userStore := store.NewUserStore(db)
	interactionStore := store.NewInteractionStore(db)
	factStore := store.NewFactStore(db)

	// Services
	learningSvc := service.NewLearningService(userStore, interactionStore, factStore, logger)
	userSvc := service.NewUserService(userStore, logger)
	interactionSvc := service.NewInteractionService(userStore, interactionStore, learningSvc, config.LearnOnIngest(), logger)
	analyticsSvc := service.NewAnalyticsService(userStore, interactionStore, factStore, logger)
	sweeperSvc := service.NewSweeperService(interactionStore, learningSvc, logger)
	sweeperSvc.SetInterval(config.SweepInterval())

	// Handlers
	userHandler := handlers.NewUserHandler(userSvc)
	interactionHandler := handlers.NewInteractionHandler(interactionSvc)
	learningHandler := handlers.NewLearningHandler(learningSvc)
	factHandler := handlers.NewFactHandler(factStore)
	analyzeHandler := handlers.NewAnalyzeHandler(learningSvc, analyticsSvc)

	r := chi.NewRouter()

	metrics := mw.NewMetrics("persona")

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health and metrics (no auth)
	r.Get("/health", healthHandler(db))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		if key := config.APIKey(); key != "" {
			r.Use(mw.APIKeyAuth(key))
		} else {
			logger.Warn("API_KEY not set, authentication disabled")
		}

		r.Post("/analyze", analyzeHandler.Analyze)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.GetByID)
				r.Put("/profile", userHandler.UpdateProfile)

				r.Post("/interactions", interactionHandler.Create)
				r.Get("/interactions", interactionHandler.List)

				r.Post("/learn", learningHandler.Learn)

				r.Get("/facts", factHandler.List)
				r.Post("/facts/{factID}/confirm", factHandler.Confirm)

				r.Get("/analytics", analyzeHandler.Analytics)
			})
		})
	})

	return &App{
		Router:  r,
		Sweeper: sweeperSvc,
	}
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// Ensure stores satisfy the domain interfaces at compile time.
var (
	_ domain.UserStore        = (*store.UserStore)(nil)
	_ domain.InteractionStore = (*store.InteractionStore)(nil)
	_ domain.FactStore        = (*store.FactStore)(nil)
)
