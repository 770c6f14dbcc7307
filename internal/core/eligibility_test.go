package core_test

import (
	"testing"

	"optica-admin/internal/core"
)

func sampleOrders() []core.LensOrder {
	return []core.LensOrder{
		{ID: 1, Folio: "V001", Status: core.LensOrderPending},
		{ID: 2, Folio: "V002", Status: core.LensOrderNotDelivered},
		{ID: 3, Folio: "V003", Status: core.LensOrderDelivered},
	}
}

func samplePayments() []core.Payment {
	return []core.Payment{
		{ID: 10, Folio: "V001", Status: core.PaymentPending},
		{ID: 11, Folio: "V002", Status: core.PaymentPending},
		{ID: 12, Folio: "V003", Status: core.PaymentPaid},
	}
}

func TestEligibleLensOrders(t *testing.T) {
	got := core.EligibleLensOrders(sampleOrders(), nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 eligible orders, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("expected orders 1 and 2, got %d and %d", got[0].ID, got[1].ID)
	}

	// Editing: the delivered-but-attached order joins the list.
	attached := 3
	got = core.EligibleLensOrders(sampleOrders(), &attached)
	if len(got) != 3 {
		t.Fatalf("expected 3 eligible orders when editing, got %d", len(got))
	}
}

func TestEligiblePayments(t *testing.T) {
	// No lens order selected: all PENDING payments.
	got := core.EligiblePayments(samplePayments(), nil, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 eligible payments, got %d", len(got))
	}

	// Selecting a lens order restricts to its folio.
	selected := core.LensOrder{ID: 1, Folio: "V001", Status: core.LensOrderPending}
	got = core.EligiblePayments(samplePayments(), &selected, nil)
	if len(got) != 1 || got[0].ID != 10 {
		t.Fatalf("expected only payment 10 for folio V001, got %v", got)
	}

	// A PAID payment that is currently attached stays selectable, but still
	// only within the selected folio.
	attached := 12
	selected3 := core.LensOrder{ID: 3, Folio: "V003", Status: core.LensOrderDelivered}
	got = core.EligiblePayments(samplePayments(), &selected3, &attached)
	if len(got) != 1 || got[0].ID != 12 {
		t.Fatalf("expected attached payment 12 for folio V003, got %v", got)
	}
}

func TestApplyFieldChange_ClearsMismatchedPayment(t *testing.T) {
	orderID, paymentID := 2, 10 // order folio V002, payment folio V001
	form := &core.DeliveryForm{
		RouteID:     1,
		LensOrderID: &orderID,
		PaymentID:   &paymentID,
	}

	cleared := core.ApplyFieldChange(form, "lens_order_id", sampleOrders(), samplePayments())
	if len(cleared) != 1 || cleared[0] != "payment_id" {
		t.Fatalf("expected payment_id cleared, got %v", cleared)
	}
	if form.PaymentID != nil {
		t.Error("expected payment selection to be cleared")
	}
	if form.LensOrderID == nil || *form.LensOrderID != 2 {
		t.Error("lens order selection must survive")
	}
}

func TestApplyFieldChange_KeepsMatchingPayment(t *testing.T) {
	orderID, paymentID := 1, 10 // both folio V001
	form := &core.DeliveryForm{
		RouteID:     1,
		LensOrderID: &orderID,
		PaymentID:   &paymentID,
	}

	cleared := core.ApplyFieldChange(form, "lens_order_id", sampleOrders(), samplePayments())
	if len(cleared) != 0 {
		t.Fatalf("expected nothing cleared, got %v", cleared)
	}
	if form.PaymentID == nil || *form.PaymentID != 10 {
		t.Error("matching payment selection must survive")
	}
}

func TestApplyFieldChange_UnrelatedTrigger(t *testing.T) {
	orderID, paymentID := 2, 10
	form := &core.DeliveryForm{
		LensOrderID: &orderID,
		PaymentID:   &paymentID,
	}

	cleared := core.ApplyFieldChange(form, "reason", sampleOrders(), samplePayments())
	if len(cleared) != 0 {
		t.Fatalf("expected no rule to fire for reason, got %v", cleared)
	}
}
