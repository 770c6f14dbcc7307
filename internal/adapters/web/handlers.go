package web

import (
	"net/http"

	"optica-admin/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public API) ─────────────────────────────────────────────────────
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API ─────────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)

		// Routes (delivery runs)
		r.Get("/api/routes", h.listRoutes)
		r.Post("/api/routes", h.createRoute)
		r.Get("/api/routes/{id}", h.getRoute)
		r.Post("/api/routes/{id}/briefing", h.briefRoute)

		// Delivery form lookups
		r.Get("/api/lens-orders/eligible", h.listEligibleLensOrders)
		r.Get("/api/payments/eligible", h.listEligiblePayments)

		// Deliveries (reconciliation)
		r.Get("/api/deliveries/{id}", h.getDelivery)
		r.Post("/api/deliveries", h.saveDelivery)
		r.Put("/api/deliveries/{id}", h.updateDelivery)
	})

	h.router = r
	return r
}

// health handles GET /api/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
