package app

import (
	"github.com/shopspring/decimal"
)

// CreateRouteRequest opens a new delivery run.
type CreateRouteRequest struct {
	RouteDate string // YYYY-MM-DD; empty means today
	AdvisorID int
}

// SaveDeliveryRequest is the input for creating or editing a delivery.
// DeliveryID nil creates; non-nil edits the existing record, reverting any
// prior associations the edit drops.
type SaveDeliveryRequest struct {
	DeliveryID     *int
	RouteID        int
	LensOrderID    *int
	PaymentID      *int
	NewPayment     *NewPaymentRequest
	Status         string // DELIVERED | NOT_DELIVERED
	Reason         string
	IdempotencyKey string
}

// NewPaymentRequest creates a brand-new payment during delivery save. Its
// date is forced to the route's date regardless of caller input.
type NewPaymentRequest struct {
	Folio  string
	Amount decimal.Decimal
}
