package core

// Eligibility filters feed the delivery form's dropdowns. They are advisory:
// the reconciliation engine re-validates every association independently,
// since UI-only enforcement is not trustworthy.

// EligibleLensOrders returns the lens orders selectable for a delivery:
// PENDING or NOT_DELIVERED orders, plus the one already attached when
// editing.
func EligibleLensOrders(orders []LensOrder, currentID *int) []LensOrder {
	var out []LensOrder
	for _, o := range orders {
		if LensOrderEligible(o, currentID) {
			out = append(out, o)
		}
	}
	return out
}

// EligiblePayments returns the payments selectable for a delivery: PENDING
// payments plus the one already attached. When a lens order is selected the
// list is further restricted to payments of the same sale, so the folio
// invariant holds by construction in the common case.
func EligiblePayments(payments []Payment, selected *LensOrder, currentID *int) []Payment {
	var out []Payment
	for _, p := range payments {
		if !PaymentEligible(p, currentID) {
			continue
		}
		if selected != nil && p.Folio != selected.Folio {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DeliveryForm mirrors the delivery form's selection state. The dependent-
// field rules below operate on it.
type DeliveryForm struct {
	RouteID     int
	LensOrderID *int
	PaymentID   *int
	Status      DeliveryStatus
	Reason      string
}

// FieldRule invalidates a dependent selection when its trigger field changes.
// The rule table replaces the source's inline "reset sibling field" mutations
// inside input-change handlers.
type FieldRule struct {
	Trigger    string
	Clears     string
	Invalidate func(form *DeliveryForm, orders []LensOrder, payments []Payment) bool
}

// DependentFieldRules is the invalidation table for the delivery form.
var DependentFieldRules = []FieldRule{
	{
		// Changing the lens order clears a payment from a different sale.
		Trigger: "lens_order_id",
		Clears:  "payment_id",
		Invalidate: func(form *DeliveryForm, orders []LensOrder, payments []Payment) bool {
			if form.LensOrderID == nil || form.PaymentID == nil {
				return false
			}
			order := findLensOrder(orders, *form.LensOrderID)
			payment := findPayment(payments, *form.PaymentID)
			if order == nil || payment == nil {
				return false
			}
			return order.Folio != payment.Folio
		},
	},
}

// ApplyFieldChange runs the invalidation rules triggered by a change to the
// named field and clears any dependent selections that became stale.
// It returns the names of the cleared fields.
func ApplyFieldChange(form *DeliveryForm, changed string, orders []LensOrder, payments []Payment) []string {
	var cleared []string
	for _, rule := range DependentFieldRules {
		if rule.Trigger != changed {
			continue
		}
		if rule.Invalidate(form, orders, payments) {
			switch rule.Clears {
			case "payment_id":
				form.PaymentID = nil
			case "lens_order_id":
				form.LensOrderID = nil
			}
			cleared = append(cleared, rule.Clears)
		}
	}
	return cleared
}

func findLensOrder(orders []LensOrder, id int) *LensOrder {
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i]
		}
	}
	return nil
}

func findPayment(payments []Payment, id int) *Payment {
	for i := range payments {
		if payments[i].ID == id {
			return &payments[i]
		}
	}
	return nil
}
