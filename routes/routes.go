package routes

import (
	"github.com/Dosada05/volley-planning/handlers"
	"github.com/Dosada05/volley-planning/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

// SetupRoutes настраивает все маршруты сервиса на переданном роутере.
func SetupRoutes(
	router *chi.Mux,
	planningHandler *handlers.PlanningHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler *handlers.HealthHandler,
	serviceTokenSecret string,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"}, // Настроить под окружение
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/", healthHandler.Root)
	router.Get("/healthz", healthHandler.Healthz)

	router.Route("/api/planning", func(r chi.Router) {
		// Публичные маршруты чтения
		r.Get("/{planning_id}/status", planningHandler.GetStatus)
		r.Get("/{planning_id}", planningHandler.GetByID)
		r.Get("/tournament/{tournament_id}", planningHandler.GetByTournamentID)

		// Мутирующие маршруты: генерация стоит вызова внешнего ассистента,
		// поэтому закрываем их сервисным токеном, когда секрет задан.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireServiceToken(serviceTokenSecret))

			r.Post("/generate", planningHandler.Generate)
			r.Post("/{planning_id}/regenerate", planningHandler.Regenerate)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
