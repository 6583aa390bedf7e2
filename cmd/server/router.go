package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/task-api/internal/api"
	"github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	errs := api.NewErrorResponder(app.config.Server.IsDevelopment())

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, errs, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, errs, app.logger)
	authMiddleware := middleware.NewAuthMiddleware(app.jwtService, app.userService, app.logger)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.TraceMiddleware(app.logger))
	r.Use(middleware.RequestLogger)
	r.Use(app.metrics.Instrument)
	r.Use(middleware.Recoverer(errs.HandleError))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(app.rateLimiter.Limit)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			// Static segment registered ahead of the {id} routes
			r.Get("/stats/summary", taskHandler.Stats)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})
	})

	r.Get("/health", app.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Route not found")
	})

	return r
}

// handleHealth reports whether the database is reachable.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.health.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
