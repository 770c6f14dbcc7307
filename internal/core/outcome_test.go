package core_test

import (
	"testing"

	"optica-admin/internal/core"
)

func TestLensOrderStatusFor(t *testing.T) {
	if got := core.LensOrderStatusFor(core.Delivered); got != core.LensOrderDelivered {
		t.Errorf("Delivered: expected DELIVERED, got %s", got)
	}
	if got := core.LensOrderStatusFor(core.NotDelivered); got != core.LensOrderNotDelivered {
		t.Errorf("NotDelivered: expected NOT_DELIVERED, got %s", got)
	}
}

func TestPaymentStatusFor(t *testing.T) {
	if got := core.PaymentStatusFor(core.Delivered); got != core.PaymentPaid {
		t.Errorf("Delivered: expected PAID, got %s", got)
	}
	// An undelivered payment stays collectible.
	if got := core.PaymentStatusFor(core.NotDelivered); got != core.PaymentPending {
		t.Errorf("NotDelivered: expected PENDING, got %s", got)
	}
}

func TestRevertedStatuses(t *testing.T) {
	if got := core.RevertedLensOrderStatus(); got != core.LensOrderPending {
		t.Errorf("expected PENDING, got %s", got)
	}
	if got := core.RevertedPaymentStatus(); got != core.PaymentPending {
		t.Errorf("expected PENDING, got %s", got)
	}
}

func TestLensOrderEligible(t *testing.T) {
	attached := 7
	tests := []struct {
		name      string
		status    core.LensOrderStatus
		id        int
		currentID *int
		want      bool
	}{
		{"pending is eligible", core.LensOrderPending, 1, nil, true},
		{"not delivered is eligible", core.LensOrderNotDelivered, 2, nil, true},
		{"delivered is not eligible", core.LensOrderDelivered, 3, nil, false},
		{"delivered but currently attached stays selectable", core.LensOrderDelivered, 7, &attached, true},
		{"delivered and not the attached one", core.LensOrderDelivered, 8, &attached, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := core.LensOrder{ID: tt.id, Status: tt.status}
			if got := core.LensOrderEligible(o, tt.currentID); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPaymentEligible(t *testing.T) {
	attached := 4
	tests := []struct {
		name      string
		status    core.PaymentStatus
		id        int
		currentID *int
		want      bool
	}{
		{"pending is eligible", core.PaymentPending, 1, nil, true},
		{"paid is not eligible", core.PaymentPaid, 2, nil, false},
		{"paid but currently attached stays selectable", core.PaymentPaid, 4, &attached, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := core.Payment{ID: tt.id, Status: tt.status}
			if got := core.PaymentEligible(p, tt.currentID); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
