package web

import (
	"net/http"
	"strconv"

	"optica-admin/internal/app"

	"github.com/go-chi/chi/v5"
)

// listRoutes handles GET /api/routes?date=YYYY-MM-DD.
func (h *Handler) listRoutes(w http.ResponseWriter, r *http.Request) {
	var datePtr *string
	if date := r.URL.Query().Get("date"); date != "" {
		datePtr = &date
	}

	result, err := h.svc.ListRoutes(r.Context(), datePtr)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getRoute handles GET /api/routes/{id} — one route with its deliveries.
func (h *Handler) getRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.svc.GetRoute(r.Context(), id)
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// createRoute handles POST /api/routes.
func (h *Handler) createRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RouteDate string `json:"route_date"`
		AdvisorID int    `json:"advisor_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AdvisorID == 0 {
		writeError(w, r, "advisor_id is required", "MISSING_REQUIRED_FIELD", http.StatusUnprocessableEntity)
		return
	}

	result, err := h.svc.CreateRoute(r.Context(), app.CreateRouteRequest{
		RouteDate: req.RouteDate,
		AdvisorID: req.AdvisorID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// briefRoute handles POST /api/routes/{id}/briefing — assistant summary.
func (h *Handler) briefRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.BriefRoute(r.Context(), id, req.Question)
	if err != nil {
		writeError(w, r, err.Error(), "ASSISTANT_ERROR", http.StatusBadGateway)
		return
	}
	writeJSON(w, result)
}

// pathID parses the named chi URL parameter as a positive integer.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
