package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// minReasonLen is the shortest accepted delivery reason.
const minReasonLen = 5

// NewPaymentInput requests creation of a brand-new payment as part of the
// reconciliation, instead of selecting an existing one.
type NewPaymentInput struct {
	Folio  string          `json:"folio"`
	Amount decimal.Decimal `json:"amount"`
}

// DeliveryInput is the desired outcome of a delivery save (create or edit).
type DeliveryInput struct {
	RouteID        int              `json:"route_id"`
	LensOrderID    *int             `json:"lens_order_id,omitempty"`
	PaymentID      *int             `json:"payment_id,omitempty"`
	NewPayment     *NewPaymentInput `json:"new_payment,omitempty"`
	Status         DeliveryStatus   `json:"status"`
	Reason         string           `json:"reason"`
	IdempotencyKey string           `json:"idempotency_key,omitempty"`
}

// LensOrderUpdate is a planned status change to a lens order.
type LensOrderUpdate struct {
	ID     int
	Status LensOrderStatus
}

// PaymentUpdate is a planned status/date change to a payment. The date is
// always (re)synchronized to the route's date.
type PaymentUpdate struct {
	ID     int
	Status PaymentStatus
	Date   string // YYYY-MM-DD
}

// CounterDelta is the planned increment to a route's tally counters.
type CounterDelta struct {
	LensesDelivered    int
	LensesNotDelivered int
	CardsDelivered     int
	CardsNotDelivered  int
}

// IsZero reports whether the delta changes nothing.
func (d CounterDelta) IsZero() bool {
	return d.LensesDelivered == 0 && d.LensesNotDelivered == 0 &&
		d.CardsDelivered == 0 && d.CardsNotDelivered == 0
}

// ReconciliationPlan is the consistent set of updates implied by one delivery
// outcome. The plan is computed before any mutation so an invalid input never
// leaves partial state.
type ReconciliationPlan struct {
	// Reversions: stale associations from the prior delivery state whose
	// entity must return to PENDING.
	RevertLensOrderID *int
	RevertPaymentID   *int

	// CreatePayment, when set, is inserted with the route's date and the
	// outcome-implied status before the delivery is persisted.
	CreatePayment *Payment

	// Status propagation to the attached entities.
	LensOrderUpdate *LensOrderUpdate
	PaymentUpdate   *PaymentUpdate

	// RouteCounters is non-zero on the creation path only.
	RouteCounters CounterDelta
}

// PlanReconciliation validates a desired delivery outcome against the current
// entity state and computes the full update set. prior is the delivery's
// stored state when editing, nil when creating. order and payment are the
// entities referenced by in (nil when not referenced); the caller loads them
// under row locks so the plan stays valid until applied.
func PlanReconciliation(prior *Delivery, in DeliveryInput, route *Route, order *LensOrder, payment *Payment) (*ReconciliationPlan, error) {
	if route == nil {
		return nil, invalidField("route_id", ErrMissingRequiredField)
	}
	if in.Status != Delivered && in.Status != NotDelivered {
		return nil, invalidField("status", ErrMissingRequiredField)
	}
	if len(strings.TrimSpace(in.Reason)) < minReasonLen {
		return nil, invalidField("reason", ErrMissingRequiredField)
	}
	if in.LensOrderID == nil && in.PaymentID == nil && in.NewPayment == nil {
		return nil, invalidField("lens_order_id/payment_id", ErrMissingRequiredField)
	}
	if in.PaymentID != nil && in.NewPayment != nil {
		return nil, invalidField("payment_id", ErrInvalidAssociation)
	}

	var priorOrderID, priorPaymentID *int
	if prior != nil {
		priorOrderID = prior.LensOrderID
		priorPaymentID = prior.PaymentID
	}

	if in.LensOrderID != nil {
		if order == nil || order.ID != *in.LensOrderID {
			return nil, invalidField("lens_order_id", ErrInvalidAssociation)
		}
		if !LensOrderEligible(*order, priorOrderID) {
			return nil, invalidField("lens_order_id", ErrInvalidAssociation)
		}
	}
	if in.PaymentID != nil {
		if payment == nil || payment.ID != *in.PaymentID {
			return nil, invalidField("payment_id", ErrInvalidAssociation)
		}
		if !PaymentEligible(*payment, priorPaymentID) {
			return nil, invalidField("payment_id", ErrInvalidAssociation)
		}
	}
	if order != nil && payment != nil && order.Folio != payment.Folio {
		return nil, ErrFolioMismatch
	}
	if order != nil && in.NewPayment != nil && order.Folio != in.NewPayment.Folio {
		return nil, ErrFolioMismatch
	}

	plan := &ReconciliationPlan{}
	routeDate := route.RouteDate.Format("2006-01-02")

	// Reversion: a previously attached entity that is no longer the desired
	// one (including becoming absent) returns to PENDING. Each side is
	// independent.
	if priorOrderID != nil && (in.LensOrderID == nil || *in.LensOrderID != *priorOrderID) {
		plan.RevertLensOrderID = priorOrderID
	}
	if priorPaymentID != nil && (in.PaymentID == nil || *in.PaymentID != *priorPaymentID) {
		plan.RevertPaymentID = priorPaymentID
	}

	// A new payment is created with the route's date, regardless of any
	// caller-supplied date. It enters PENDING and is immediately attached, so
	// outcome propagation collapses into the insert.
	if in.NewPayment != nil {
		plan.CreatePayment = &Payment{
			Folio:       in.NewPayment.Folio,
			Amount:      in.NewPayment.Amount,
			PaymentDate: route.RouteDate,
			Status:      PaymentStatusFor(in.Status),
		}
	}

	if in.LensOrderID != nil {
		plan.LensOrderUpdate = &LensOrderUpdate{
			ID:     *in.LensOrderID,
			Status: LensOrderStatusFor(in.Status),
		}
	}
	if in.PaymentID != nil {
		plan.PaymentUpdate = &PaymentUpdate{
			ID:     *in.PaymentID,
			Status: PaymentStatusFor(in.Status),
			Date:   routeDate,
		}
	}

	// Route counters move on the creation path only. Edit-path counter
	// maintenance is an unresolved product question; see DESIGN.md.
	if prior == nil {
		hasLens := in.LensOrderID != nil
		hasPayment := in.PaymentID != nil || in.NewPayment != nil
		if in.Status == Delivered {
			if hasLens {
				plan.RouteCounters.LensesDelivered = 1
			}
			if hasPayment {
				plan.RouteCounters.CardsDelivered = 1
			}
		} else {
			if hasLens {
				plan.RouteCounters.LensesNotDelivered = 1
			}
			if hasPayment {
				plan.RouteCounters.CardsNotDelivered = 1
			}
		}
	}

	return plan, nil
}
