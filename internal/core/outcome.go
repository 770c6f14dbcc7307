package core

// Explicit status machines for the two reconciled entities. The source system
// expressed these transitions as scattered conditional assignments; here each
// entity has a single transition function driven by the delivery outcome.
//
//	lens order:  PENDING ⇄ NOT_DELIVERED → DELIVERED, revert → PENDING
//	payment:     PENDING → PAID, revert → PENDING

// LensOrderStatusFor returns the lens order status implied by a delivery
// outcome: the order mirrors the outcome directly.
func LensOrderStatusFor(outcome DeliveryStatus) LensOrderStatus {
	if outcome == Delivered {
		return LensOrderDelivered
	}
	return LensOrderNotDelivered
}

// PaymentStatusFor returns the payment status implied by a delivery outcome:
// a payment is PAID only when the delivery succeeded, otherwise it stays
// collectible.
func PaymentStatusFor(outcome DeliveryStatus) PaymentStatus {
	if outcome == Delivered {
		return PaymentPaid
	}
	return PaymentPending
}

// RevertedLensOrderStatus is the status a lens order returns to when its
// delivery association is removed.
func RevertedLensOrderStatus() LensOrderStatus { return LensOrderPending }

// RevertedPaymentStatus is the status a payment returns to when its delivery
// association is removed.
func RevertedPaymentStatus() PaymentStatus { return PaymentPending }

// LensOrderEligible reports whether a lens order in the given status may be
// attached to a delivery. currentID is the lens order already attached to the
// delivery being edited, if any; the attached order stays selectable so an
// edit can keep it.
func LensOrderEligible(o LensOrder, currentID *int) bool {
	if currentID != nil && o.ID == *currentID {
		return true
	}
	return o.Status == LensOrderPending || o.Status == LensOrderNotDelivered
}

// PaymentEligible reports whether a payment in the given status may be
// attached to a delivery.
func PaymentEligible(p Payment, currentID *int) bool {
	if currentID != nil && p.ID == *currentID {
		return true
	}
	return p.Status == PaymentPending
}
