package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/todo-api/internal/api"
	"github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

// routerDeps are the services the HTTP layer is built from.
type routerDeps struct {
	accounts service.AccountService
	tasks    service.TaskService
	tokens   auth.TokenService
	logger   *slog.Logger
}

func (app *application) setupRouter() http.Handler {
	return newRouter(routerDeps{
		accounts: app.accountService,
		tasks:    app.taskService,
		tokens:   app.tokens,
		logger:   app.logger,
	})
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Trace(deps.logger))
	r.Use(chimiddleware.Recoverer)

	accountHandler := api.NewAccountHandler(deps.accounts, deps.logger)
	taskHandler := api.NewTaskHandler(deps.tasks, deps.logger)
	authMiddleware := middleware.NewAuthMiddleware(deps.tokens, deps.logger)

	r.Route("/users", func(r chi.Router) {
		r.Post("/signup", accountHandler.Signup)
		r.Post("/login", accountHandler.Login)

		r.With(authMiddleware.Authenticate).Put("/{id}", accountHandler.Update)
	})

	r.Route("/todos", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
		r.Get("/{id}", taskHandler.Get)
		r.Put("/{id}", taskHandler.Update)
		r.Patch("/{id}/status", taskHandler.UpdateStatus)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			deps.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
