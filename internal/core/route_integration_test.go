package core_test

import (
	"context"
	"testing"

	"optica-admin/internal/core"
)

func TestRouteService_CreateAndFilterByDate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewRouteService(pool)
	ctx := context.Background()

	created, err := svc.CreateRoute(ctx, "2024-05-02", 1)
	if err != nil {
		t.Fatalf("CreateRoute failed: %v", err)
	}
	if created.LensesDelivered != 0 || created.CardsDelivered != 0 {
		t.Errorf("new route must start with zero counters, got %+v", created)
	}

	date := "2024-05-02"
	routes, err := svc.GetRoutes(ctx, &date)
	if err != nil {
		t.Fatalf("GetRoutes failed: %v", err)
	}
	if len(routes) != 1 || routes[0].ID != created.ID {
		t.Errorf("date filter returned %v, want only route %d", routes, created.ID)
	}

	routes, err = svc.GetRoutes(ctx, nil)
	if err != nil {
		t.Fatalf("GetRoutes without filter failed: %v", err)
	}
	if len(routes) != 2 {
		t.Errorf("expected 2 routes in total, got %d", len(routes))
	}
}

func TestEligibilityServices(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewLensOrderService(pool)
	payments := core.NewPaymentService(pool)
	ctx := context.Background()

	eligible, err := orders.GetEligibleLensOrders(ctx, nil)
	if err != nil {
		t.Fatalf("GetEligibleLensOrders failed: %v", err)
	}
	if len(eligible) != 2 {
		t.Fatalf("expected both seeded orders eligible, got %d", len(eligible))
	}

	// Deliver order 1; it drops out of the list.
	if _, err := orders.UpdateStatus(ctx, 1, core.LensOrderDelivered); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	eligible, err = orders.GetEligibleLensOrders(ctx, nil)
	if err != nil {
		t.Fatalf("GetEligibleLensOrders failed: %v", err)
	}
	if len(eligible) != 1 || eligible[0].ID != 2 {
		t.Errorf("expected only order 2 eligible, got %v", eligible)
	}

	// Selecting order 2 (folio V002) restricts payments to that folio.
	selected := 2
	got, err := payments.GetEligiblePayments(ctx, &selected, nil)
	if err != nil {
		t.Fatalf("GetEligiblePayments failed: %v", err)
	}
	if len(got) != 1 || got[0].Folio != "V002" {
		t.Errorf("expected only the V002 payment, got %v", got)
	}
}
