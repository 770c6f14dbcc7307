package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"optica-admin/internal/core"
)

var routeDate = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func testRoute() *core.Route {
	return &core.Route{ID: 1, RouteDate: routeDate, AdvisorID: 2}
}

func pendingOrder() *core.LensOrder {
	return &core.LensOrder{ID: 5, Folio: "V001", Status: core.LensOrderPending}
}

func pendingPayment() *core.Payment {
	return &core.Payment{ID: 7, Folio: "V001", Status: core.PaymentPending}
}

func intp(v int) *int { return &v }

func TestPlanReconciliation_DeliveredCreate(t *testing.T) {
	in := core.DeliveryInput{
		RouteID:     1,
		LensOrderID: intp(5),
		PaymentID:   intp(7),
		Status:      core.Delivered,
		Reason:      "handed to customer",
	}

	plan, err := core.PlanReconciliation(nil, in, testRoute(), pendingOrder(), pendingPayment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.LensOrderUpdate == nil || plan.LensOrderUpdate.Status != core.LensOrderDelivered {
		t.Errorf("lens order must move to DELIVERED, got %+v", plan.LensOrderUpdate)
	}
	if plan.PaymentUpdate == nil || plan.PaymentUpdate.Status != core.PaymentPaid {
		t.Errorf("payment must move to PAID, got %+v", plan.PaymentUpdate)
	}
	if plan.PaymentUpdate.Date != "2024-05-01" {
		t.Errorf("payment date must match the route date, got %q", plan.PaymentUpdate.Date)
	}
	if plan.RevertLensOrderID != nil || plan.RevertPaymentID != nil {
		t.Error("creation plans never revert")
	}
	want := core.CounterDelta{LensesDelivered: 1, CardsDelivered: 1}
	if plan.RouteCounters != want {
		t.Errorf("counters = %+v, want %+v", plan.RouteCounters, want)
	}
}

func TestPlanReconciliation_NotDeliveredCreate(t *testing.T) {
	in := core.DeliveryInput{
		RouteID:     1,
		LensOrderID: intp(5),
		Status:      core.NotDelivered,
		Reason:      "customer absent",
	}

	plan, err := core.PlanReconciliation(nil, in, testRoute(), pendingOrder(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.LensOrderUpdate.Status != core.LensOrderNotDelivered {
		t.Errorf("lens order must move to NOT_DELIVERED, got %v", plan.LensOrderUpdate.Status)
	}
	if plan.PaymentUpdate != nil {
		t.Error("no payment referenced, no payment update")
	}
	want := core.CounterDelta{LensesNotDelivered: 1}
	if plan.RouteCounters != want {
		t.Errorf("counters = %+v, want %+v", plan.RouteCounters, want)
	}
}

func TestPlanReconciliation_NewPayment(t *testing.T) {
	in := core.DeliveryInput{
		RouteID: 1,
		NewPayment: &core.NewPaymentInput{
			Folio:  "V001",
			Amount: decimal.RequireFromString("350.00"),
		},
		Status: core.Delivered,
		Reason: "card collected on site",
	}

	plan, err := core.PlanReconciliation(nil, in, testRoute(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.CreatePayment == nil {
		t.Fatal("expected a payment creation")
	}
	if !plan.CreatePayment.PaymentDate.Equal(routeDate) {
		t.Errorf("new payment date = %v, want the route date", plan.CreatePayment.PaymentDate)
	}
	if plan.CreatePayment.Status != core.PaymentPaid {
		t.Errorf("new payment on a delivered outcome must be PAID, got %v", plan.CreatePayment.Status)
	}
	want := core.CounterDelta{CardsDelivered: 1}
	if plan.RouteCounters != want {
		t.Errorf("counters = %+v, want %+v", plan.RouteCounters, want)
	}
}

func TestPlanReconciliation_EditRevertsDetachedOrder(t *testing.T) {
	prior := &core.Delivery{
		ID:          3,
		RouteID:     1,
		LensOrderID: intp(5),
		PaymentID:   intp(7),
		Status:      core.Delivered,
		Reason:      "handed to customer",
	}
	// The edit keeps the payment but drops the lens order.
	in := core.DeliveryInput{
		RouteID:   1,
		PaymentID: intp(7),
		Status:    core.Delivered,
		Reason:    "payment only after all",
	}
	payment := pendingPayment()
	payment.Status = core.PaymentPaid // attached, so still selectable

	plan, err := core.PlanReconciliation(prior, in, testRoute(), nil, payment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.RevertLensOrderID == nil || *plan.RevertLensOrderID != 5 {
		t.Errorf("detached lens order must revert, got %v", plan.RevertLensOrderID)
	}
	if plan.RevertPaymentID != nil {
		t.Error("the kept payment must not revert")
	}
	if !plan.RouteCounters.IsZero() {
		t.Errorf("edits never touch counters, got %+v", plan.RouteCounters)
	}
}

func TestPlanReconciliation_EditSwapsPayment(t *testing.T) {
	prior := &core.Delivery{
		ID:        3,
		RouteID:   1,
		PaymentID: intp(7),
		Status:    core.Delivered,
		Reason:    "card collected",
	}
	other := &core.Payment{ID: 8, Folio: "V002", Status: core.PaymentPending}
	in := core.DeliveryInput{
		RouteID:   1,
		PaymentID: intp(8),
		Status:    core.Delivered,
		Reason:    "wrong card attached before",
	}

	plan, err := core.PlanReconciliation(prior, in, testRoute(), nil, other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.RevertPaymentID == nil || *plan.RevertPaymentID != 7 {
		t.Errorf("the replaced payment must revert, got %v", plan.RevertPaymentID)
	}
	if plan.PaymentUpdate == nil || plan.PaymentUpdate.ID != 8 {
		t.Errorf("the new payment must be updated, got %+v", plan.PaymentUpdate)
	}
}

func TestPlanReconciliation_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		in      core.DeliveryInput
		route   *core.Route
		order   *core.LensOrder
		payment *core.Payment
		wantErr error
	}{
		{
			name:    "missing route",
			in:      core.DeliveryInput{LensOrderID: intp(5), Status: core.Delivered, Reason: "delivered fine"},
			route:   nil,
			wantErr: core.ErrMissingRequiredField,
		},
		{
			name:    "blank status",
			in:      core.DeliveryInput{LensOrderID: intp(5), Reason: "delivered fine"},
			route:   testRoute(),
			order:   pendingOrder(),
			wantErr: core.ErrMissingRequiredField,
		},
		{
			name:    "short reason",
			in:      core.DeliveryInput{LensOrderID: intp(5), Status: core.Delivered, Reason: "ok"},
			route:   testRoute(),
			order:   pendingOrder(),
			wantErr: core.ErrMissingRequiredField,
		},
		{
			name:    "whitespace-padded reason",
			in:      core.DeliveryInput{LensOrderID: intp(5), Status: core.Delivered, Reason: "  ok  "},
			route:   testRoute(),
			order:   pendingOrder(),
			wantErr: core.ErrMissingRequiredField,
		},
		{
			name:    "no association at all",
			in:      core.DeliveryInput{Status: core.Delivered, Reason: "nothing attached"},
			route:   testRoute(),
			wantErr: core.ErrMissingRequiredField,
		},
		{
			name: "existing and new payment together",
			in: core.DeliveryInput{
				PaymentID:  intp(7),
				NewPayment: &core.NewPaymentInput{Folio: "V001"},
				Status:     core.Delivered,
				Reason:     "both given",
			},
			route:   testRoute(),
			payment: pendingPayment(),
			wantErr: core.ErrInvalidAssociation,
		},
		{
			name:    "lens order already delivered",
			in:      core.DeliveryInput{LensOrderID: intp(5), Status: core.Delivered, Reason: "delivered fine"},
			route:   testRoute(),
			order:   &core.LensOrder{ID: 5, Folio: "V001", Status: core.LensOrderDelivered},
			wantErr: core.ErrInvalidAssociation,
		},
		{
			name:    "payment already paid",
			in:      core.DeliveryInput{PaymentID: intp(7), Status: core.Delivered, Reason: "delivered fine"},
			route:   testRoute(),
			payment: &core.Payment{ID: 7, Folio: "V001", Status: core.PaymentPaid},
			wantErr: core.ErrInvalidAssociation,
		},
		{
			name:    "referenced order not found",
			in:      core.DeliveryInput{LensOrderID: intp(99), Status: core.Delivered, Reason: "delivered fine"},
			route:   testRoute(),
			wantErr: core.ErrInvalidAssociation,
		},
		{
			name: "folio mismatch between order and payment",
			in: core.DeliveryInput{
				LensOrderID: intp(5),
				PaymentID:   intp(7),
				Status:      core.Delivered,
				Reason:      "delivered fine",
			},
			route:   testRoute(),
			order:   pendingOrder(),
			payment: &core.Payment{ID: 7, Folio: "V999", Status: core.PaymentPending},
			wantErr: core.ErrFolioMismatch,
		},
		{
			name: "folio mismatch with new payment",
			in: core.DeliveryInput{
				LensOrderID: intp(5),
				NewPayment:  &core.NewPaymentInput{Folio: "V999"},
				Status:      core.Delivered,
				Reason:      "delivered fine",
			},
			route:   testRoute(),
			order:   pendingOrder(),
			wantErr: core.ErrFolioMismatch,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := core.PlanReconciliation(nil, tc.in, tc.route, tc.order, tc.payment)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestPlanReconciliation_FieldNameInError(t *testing.T) {
	in := core.DeliveryInput{LensOrderID: intp(5), Status: core.Delivered, Reason: "no"}
	_, err := core.PlanReconciliation(nil, in, testRoute(), pendingOrder(), nil)

	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a ValidationError, got %T", err)
	}
	if verr.Field != "reason" {
		t.Errorf("field = %q, want reason", verr.Field)
	}
}
