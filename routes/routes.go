package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cueclub/tournament-engine/handlers"
	"github.com/cueclub/tournament-engine/middleware"
	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/services"
)

func SetupRoutes(
	router *chi.Mux,
	authService services.AuthService,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	participantHandler *handlers.ParticipantHandler,
	bracketHandler *handlers.BracketHandler,
	prizeHandler *handlers.PrizeHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.Subscribe)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.GetByID)
		r.Get("/{tournamentID}/participants", participantHandler.List)
		r.Get("/{tournamentID}/bracket", bracketHandler.Get)
		r.Get("/{tournamentID}/prizes/summary", prizeHandler.Summary)

		// Authenticated players.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authService))
			r.Post("/{tournamentID}/participants", participantHandler.Register)
		})

		// Organizer and admin operations.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authService))
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

			r.Post("/", tournamentHandler.Create)
			r.Post("/validate", tournamentHandler.Validate)
			r.Put("/{tournamentID}", tournamentHandler.Update)
			r.Patch("/{tournamentID}/status", tournamentHandler.UpdateStatus)
			r.Delete("/{tournamentID}", tournamentHandler.Delete)
			r.Post("/{tournamentID}/banner", tournamentHandler.UploadBanner)

			r.Patch("/{tournamentID}/participants/{participantID}/status", participantHandler.UpdateStatus)

			r.Post("/{tournamentID}/bracket", bracketHandler.Generate)
			r.Post("/{tournamentID}/bracket/matches/{matchUID}/start", bracketHandler.StartMatch)
			r.Post("/{tournamentID}/bracket/matches/{matchUID}/result", bracketHandler.RecordResult)
			r.Post("/{tournamentID}/bracket/substitutions", bracketHandler.Substitute)

			r.Post("/{tournamentID}/prizes/placements", prizeHandler.AddPlacement)
			r.Delete("/{tournamentID}/prizes/placements/{placementID}", prizeHandler.RemovePlacement)
			r.Post("/{tournamentID}/prizes/sponsors", prizeHandler.AddSponsor)
			r.Delete("/{tournamentID}/prizes/sponsors/{sponsorID}", prizeHandler.RemoveSponsor)
			r.Post("/{tournamentID}/prizes/rewards", prizeHandler.AddReward)
			r.Delete("/{tournamentID}/prizes/rewards/{rewardID}", prizeHandler.RemoveReward)
			r.Post("/{tournamentID}/prizes/reconcile", prizeHandler.Reconcile)
		})
	})
}
