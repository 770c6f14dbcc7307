package app

import (
	"context"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from the reconciliation logic; implementations
// contain no display logic of any kind.
type ApplicationService interface {
	// AuthenticateEmployee verifies credentials and returns a session on success.
	AuthenticateEmployee(ctx context.Context, username, password string) (*EmployeeSession, error)

	// GetEmployee returns an employee profile by ID.
	GetEmployee(ctx context.Context, employeeID int) (*EmployeeResult, error)

	// ListRoutes returns routes, optionally filtered to one date (YYYY-MM-DD).
	ListRoutes(ctx context.Context, date *string) (*RouteListResult, error)

	// GetRoute returns one route with its deliveries.
	GetRoute(ctx context.Context, routeID int) (*RouteResult, error)

	// CreateRoute opens a new delivery run for one advisor and date.
	CreateRoute(ctx context.Context, req CreateRouteRequest) (*RouteResult, error)

	// ListEligibleLensOrders returns the lens orders selectable for a
	// delivery form; currentID keeps the already-attached order selectable
	// when editing.
	ListEligibleLensOrders(ctx context.Context, currentID *int) (*LensOrderListResult, error)

	// ListEligiblePayments returns the payments selectable for a delivery
	// form, restricted to the selected lens order's folio when one is chosen.
	ListEligiblePayments(ctx context.Context, selectedLensOrderID, currentID *int) (*PaymentListResult, error)

	// GetDelivery returns one delivery.
	GetDelivery(ctx context.Context, deliveryID int) (*DeliveryResult, error)

	// SaveDelivery creates or edits a delivery, settling the referenced lens
	// order, payment and route counters in one transaction.
	SaveDelivery(ctx context.Context, req SaveDeliveryRequest) (*DeliveryResult, error)

	// BriefRoute asks the assistant a question about one route's
	// reconciliation state.
	BriefRoute(ctx context.Context, routeID int, question string) (*BriefingResult, error)
}

// EmployeeSession is returned by AuthenticateEmployee; the web adapter turns
// it into a signed cookie.
type EmployeeSession struct {
	EmployeeID int    `json:"employee_id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
}
