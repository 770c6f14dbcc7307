package app

import (
	"optica-admin/internal/ai"
	"optica-admin/internal/core"
)

// EmployeeResult is returned by GetEmployee.
type EmployeeResult struct {
	Employee *core.Employee
}

// RouteResult is returned by route operations.
type RouteResult struct {
	Route      *core.Route
	Deliveries []core.Delivery
}

// RouteListResult is returned by ListRoutes.
type RouteListResult struct {
	Routes []core.Route
}

// LensOrderListResult is returned by ListEligibleLensOrders.
type LensOrderListResult struct {
	LensOrders []core.LensOrder
}

// PaymentListResult is returned by ListEligiblePayments.
type PaymentListResult struct {
	Payments []core.Payment
}

// DeliveryResult is returned by delivery operations, carrying the entities
// the save touched so the form layer can refresh without extra round-trips.
type DeliveryResult struct {
	Delivery  *core.Delivery
	Route     *core.Route
	LensOrder *core.LensOrder
	Payment   *core.Payment
}

// BriefingResult is returned by BriefRoute.
type BriefingResult struct {
	RouteID  int
	Briefing *ai.RouteBriefing
}
