// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/AnanyaNagabhushan/taskflow/internal/middleware"
)

// route is one row of the registration tables below.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

// Router wires middleware stacks and the route tables into a chi mux.
type Router struct {
	auth  *AuthHandler
	tasks *TaskHandler
	items *ItemHandler

	authenticator *middleware.Authenticator
	corsOrigins   []string
}

func NewRouter(
	auth *AuthHandler,
	tasks *TaskHandler,
	items *ItemHandler,
	authenticator *middleware.Authenticator,
	corsOrigins []string,
) *Router {
	return &Router{
		auth:          auth,
		tasks:         tasks,
		items:         items,
		authenticator: authenticator,
		corsOrigins:   corsOrigins,
	}
}

// Handler builds the HTTP handler tree.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.ClientMetadata)
	r.Use(middleware.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
	})

	public := []route{
		{http.MethodPost, "/auth/register", rt.auth.Register},
		{http.MethodPost, "/auth/login", rt.auth.Login},
		{http.MethodPost, "/auth/refresh", rt.auth.Refresh},
		{http.MethodPost, "/auth/forgot-password", rt.auth.ForgotPassword},
		{http.MethodPost, "/auth/reset-password", rt.auth.ResetPassword},
	}

	protected := []route{
		{http.MethodPost, "/auth/logout", rt.auth.Logout},
		{http.MethodGet, "/auth/me", rt.auth.Me},
		{http.MethodGet, "/tasks", rt.tasks.List},
		{http.MethodPost, "/tasks", rt.tasks.Create},
		{http.MethodPut, "/tasks/bulk", rt.tasks.BulkUpdate},
		{http.MethodPut, "/tasks/items/bulk", rt.items.BulkUpdate},
		{http.MethodGet, "/tasks/summary", rt.tasks.Summary},
		{http.MethodGet, "/tasks/{id}", rt.tasks.Get},
		{http.MethodPut, "/tasks/{id}", rt.tasks.Update},
		{http.MethodDelete, "/tasks/{id}", rt.tasks.Delete},
		{http.MethodGet, "/tasks/{id}/items", rt.items.List},
		{http.MethodPost, "/tasks/{id}/items", rt.items.Create},
		{http.MethodGet, "/tasks/{id}/items/{itemID}", rt.items.Get},
		{http.MethodPut, "/tasks/{id}/items/{itemID}", rt.items.Update},
		{http.MethodDelete, "/tasks/{id}/items/{itemID}", rt.items.Delete},
	}

	r.Route("/api", func(r chi.Router) {
		for _, rte := range public {
			r.Method(rte.method, rte.pattern, rte.handler)
		}

		r.Group(func(r chi.Router) {
			r.Use(rt.authenticator.Handler)
			for _, rte := range protected {
				r.Method(rte.method, rte.pattern, rte.handler)
			}
		})
	})

	return r
}
