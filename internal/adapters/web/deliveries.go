package web

import (
	"net/http"
	"strconv"

	"optica-admin/internal/app"

	"github.com/shopspring/decimal"
)

// deliveryRequest is the JSON body for delivery save endpoints.
type deliveryRequest struct {
	RouteID     int    `json:"route_id"`
	LensOrderID *int   `json:"lens_order_id"`
	PaymentID   *int   `json:"payment_id"`
	NewPayment  *struct {
		Folio  string          `json:"folio"`
		Amount decimal.Decimal `json:"amount"`
	} `json:"new_payment"`
	Status         string `json:"status"`
	Reason         string `json:"reason"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (req *deliveryRequest) toSaveRequest(deliveryID *int) app.SaveDeliveryRequest {
	out := app.SaveDeliveryRequest{
		DeliveryID:     deliveryID,
		RouteID:        req.RouteID,
		LensOrderID:    req.LensOrderID,
		PaymentID:      req.PaymentID,
		Status:         req.Status,
		Reason:         req.Reason,
		IdempotencyKey: req.IdempotencyKey,
	}
	if req.NewPayment != nil {
		out.NewPayment = &app.NewPaymentRequest{
			Folio:  req.NewPayment.Folio,
			Amount: req.NewPayment.Amount,
		}
	}
	return out
}

// getDelivery handles GET /api/deliveries/{id}.
func (h *Handler) getDelivery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.svc.GetDelivery(r.Context(), id)
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// saveDelivery handles POST /api/deliveries — the creation path.
func (h *Handler) saveDelivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.SaveDelivery(r.Context(), req.toSaveRequest(nil))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// updateDelivery handles PUT /api/deliveries/{id} — the edit path. Prior
// associations dropped by the edit are reverted to PENDING.
func (h *Handler) updateDelivery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req deliveryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.SaveDelivery(r.Context(), req.toSaveRequest(&id))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// listEligibleLensOrders handles GET /api/lens-orders/eligible?current_id=N.
func (h *Handler) listEligibleLensOrders(w http.ResponseWriter, r *http.Request) {
	currentID, ok := queryID(w, r, "current_id")
	if !ok {
		return
	}

	result, err := h.svc.ListEligibleLensOrders(r.Context(), currentID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// listEligiblePayments handles GET /api/payments/eligible?lens_order_id=N&current_id=N.
func (h *Handler) listEligiblePayments(w http.ResponseWriter, r *http.Request) {
	selected, ok := queryID(w, r, "lens_order_id")
	if !ok {
		return
	}
	currentID, ok := queryID(w, r, "current_id")
	if !ok {
		return
	}

	result, err := h.svc.ListEligiblePayments(r.Context(), selected, currentID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// queryID parses an optional positive-integer query parameter. A missing or
// empty parameter yields nil.
func queryID(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return nil, false
	}
	return &id, true
}
