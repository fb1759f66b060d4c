package handler

import (
	"fmt"
	"net/http"

	"project-pulse-backend/pkg/config"
	"project-pulse-backend/pkg/database"
	"project-pulse-backend/pkg/handlers"
	custommw "project-pulse-backend/pkg/middleware"
	"project-pulse-backend/pkg/realtime"
	"project-pulse-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// hub is process-wide; SSE subscribers and HTTP mutations must share it
var hub = realtime.NewHub()

// Handler is the serverless entry point. All API endpoints live on one
// chi router.
func Handler(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetCached()

	if err := cfg.Validate(); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Configuration error: "+err.Error())
		return
	}

	db := database.GetDatabase(database.Config{
		PostgresDSN: cfg.PostgresDSN,
		SupabaseURL: cfg.SupabaseURL,
		SupabaseKey: cfg.SupabaseKey,
		UseMemoryDB: cfg.UseMemoryDB,
		Debug:       cfg.Debug,
	})

	Router(cfg, db).ServeHTTP(w, r)
}

// Router builds the full route table
func Router(cfg *config.Config, db database.Interface) *chi.Mux {
	router := chi.NewRouter()
	setupMiddleware(router, cfg)
	setupRoutes(router, cfg, db)
	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommw.Normalize())
	router.Use(custommw.RequestLogger(cfg))
	router.Use(custommw.Recovery(cfg))
	router.Use(custommw.CORS(cfg))
	router.Use(middleware.Compress(5))
	router.Use(custommw.MaxBodySize(1 << 20))

	if cfg.IsDevelopment() {
		router.Use(middleware.Heartbeat("/ping"))
	}
}

func setupRoutes(router *chi.Mux, cfg *config.Config, db database.Interface) {
	authHandler := handlers.NewAuthHandler(cfg, db, hub)
	boardsHandler := handlers.NewBoardsHandler(cfg, db, hub)
	projectsHandler := handlers.NewProjectsHandler(cfg, db, hub)
	membersHandler := handlers.NewMembersHandler(cfg, db, hub)
	invitationsHandler := handlers.NewInvitationsHandler(cfg, db, hub)
	eventsHandler := handlers.NewEventsHandler(cfg, db, hub)

	router.Get("/", authHandler.HealthCheck)

	router.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Use(custommw.ContentTypeJSON)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})
		r.Get("/invitations/verify", invitationsHandler.Verify)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(custommw.AuthMiddleware(cfg))
			r.Use(custommw.ContentTypeJSON)

			r.Get("/auth/me", authHandler.Me)

			r.Route("/users", func(r chi.Router) {
				r.Put("/profile", authHandler.UpdateProfile)
				r.Post("/activity", authHandler.Heartbeat)
			})

			r.Route("/boards", func(r chi.Router) {
				r.Get("/", boardsHandler.ListBoards)
				r.Post("/", boardsHandler.CreateBoard)
				r.Get("/settings", boardsHandler.GetSettings)
				r.Put("/settings", boardsHandler.UpsertSettings)
				r.Get("/{id}", boardsHandler.GetBoard)
				r.Put("/{id}", boardsHandler.UpdateBoard)
				r.Delete("/{id}", boardsHandler.DeleteBoard)
				r.Put("/{id}/workflow", boardsHandler.ReplaceWorkflow)
				r.Get("/{id}/projects", projectsHandler.ListForBoard)
				r.Post("/{id}/projects", projectsHandler.Create)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectsHandler.ListByBoard) // expects ?board_id=
				r.Get("/{id}", projectsHandler.Get)
				r.Put("/{id}", projectsHandler.Update)
				r.Delete("/{id}", projectsHandler.Delete)
				r.Patch("/{id}/move", projectsHandler.Move)
				r.Post("/{id}/subtasks/{subTaskId}/toggle", projectsHandler.ToggleSubTask)
			})

			r.Route("/team", func(r chi.Router) {
				r.Get("/", membersHandler.List)
				r.Put("/{id}/role", membersHandler.UpdateRole)
				r.Delete("/{id}", membersHandler.Remove)
			})

			r.Route("/invitations", func(r chi.Router) {
				r.Get("/", invitationsHandler.ListPending)
				r.Post("/", invitationsHandler.Create)
				r.Delete("/{id}", invitationsHandler.Cancel)
			})

			// Settings alias kept for clients that predate the /boards prefix
			r.Get("/settings", boardsHandler.GetSettings)
			r.Put("/settings", boardsHandler.UpsertSettings)

			r.Get("/events", eventsHandler.Stream)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.Path))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponseWithCode(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path), "")
	})
}
