// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nvoronin/taskboard/internal/auth"
	"github.com/nvoronin/taskboard/internal/authz"
	"github.com/nvoronin/taskboard/internal/middleware"
)

// Router assembles the HTTP handler tree.
type Router struct {
	handler *Handler
	chiMw   *ChiMiddleware
	authMw  *auth.Middleware
	authzMw *authz.Middleware
}

// NewRouter wires the router from its middleware and endpoint handlers.
func NewRouter(handler *Handler, chiMw *ChiMiddleware, authMw *auth.Middleware, authzMw *authz.Middleware) *Router {
	return &Router{
		handler: handler,
		chiMw:   chiMw,
		authMw:  authMw,
		authzMw: authzMw,
	}
}

// Setup builds the complete route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMw.CORS())
	r.Use(middleware.RequestLogger)

	// Health endpoints stay outside rate limiting so monitoring is never
	// throttled away.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Token endpoints carry the strict limiter.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMw.RateLimitAuth())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/token", router.handler.Login)
		r.Post("/token/refresh", router.handler.Refresh)
		r.Post("/logout", router.handler.Logout)
	})

	// Data endpoints: claims are populated when a token is present, and
	// the role policy decides what anonymous callers may reach.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMw.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.authMw.Optional)
		r.Use(router.authzMw.Authorize)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", router.handler.RegisterUser)
			r.Get("/", router.handler.ListUsers)
			r.Get("/{id}", router.handler.GetUser)
			r.Put("/{id}", router.handler.UpdateUser)
			r.Delete("/{id}", router.handler.DeleteUser)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", router.handler.CreateProject)
			r.Get("/", router.handler.ListProjects)
			r.Get("/{id}", router.handler.GetProject)
			r.Put("/{id}", router.handler.UpdateProject)
			r.Delete("/{id}", router.handler.DeleteProject)
			r.Get("/{id}/tasks", router.handler.ListProjectTasks)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", router.handler.CreateTask)
			r.Get("/", router.handler.ListTasks)
			r.Get("/{id}", router.handler.GetTask)
			r.Put("/{id}", router.handler.UpdateTask)
			r.Delete("/{id}", router.handler.DeleteTask)
			r.Get("/{id}/comments", router.handler.ListTaskComments)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Post("/", router.handler.CreateComment)
			r.Get("/", router.handler.ListComments)
			r.Get("/{id}", router.handler.GetComment)
			r.Put("/{id}", router.handler.UpdateComment)
			r.Delete("/{id}", router.handler.DeleteComment)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", router.handler.CreateMessage)
			r.Get("/", router.handler.ListMessages)
			r.Get("/{id}", router.handler.GetMessage)
			r.Delete("/{id}", router.handler.DeleteMessage)
		})
	})

	// Websocket subscriptions authenticate by route user id; see the
	// handler for the pre-upgrade validation.
	r.Get("/ws/notifications/{user_id}", router.handler.WebSocketNotifications)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
