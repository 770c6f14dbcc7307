package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"optica-admin/internal/ai"
	"optica-admin/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type appService struct {
	pool       *pgxpool.Pool
	routes     core.RouteService
	lensOrders core.LensOrderService
	payments   core.PaymentService
	deliveries core.DeliveryService
	employees  core.EmployeeService
	agent      ai.AgentService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	routes core.RouteService,
	lensOrders core.LensOrderService,
	payments core.PaymentService,
	deliveries core.DeliveryService,
	employees core.EmployeeService,
	agent ai.AgentService,
) ApplicationService {
	return &appService{
		pool:       pool,
		routes:     routes,
		lensOrders: lensOrders,
		payments:   payments,
		deliveries: deliveries,
		employees:  employees,
		agent:      agent,
	}
}

// AuthenticateEmployee verifies credentials and returns a session on success.
func (s *appService) AuthenticateEmployee(ctx context.Context, username, password string) (*EmployeeSession, error) {
	emp, err := s.employees.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("authentication failed: invalid password")
	}
	return &EmployeeSession{
		EmployeeID: emp.ID,
		Username:   emp.Username,
		FullName:   emp.FullName,
		Role:       emp.Role,
	}, nil
}

// GetEmployee returns an employee profile by ID.
func (s *appService) GetEmployee(ctx context.Context, employeeID int) (*EmployeeResult, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return &EmployeeResult{Employee: emp}, nil
}

// ListRoutes returns routes, optionally filtered to one date.
func (s *appService) ListRoutes(ctx context.Context, date *string) (*RouteListResult, error) {
	routes, err := s.routes.GetRoutes(ctx, date)
	if err != nil {
		return nil, err
	}
	return &RouteListResult{Routes: routes}, nil
}

// GetRoute returns one route with its deliveries.
func (s *appService) GetRoute(ctx context.Context, routeID int) (*RouteResult, error) {
	route, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}
	deliveries, err := s.deliveries.GetDeliveries(ctx, routeID)
	if err != nil {
		return nil, err
	}
	return &RouteResult{Route: route, Deliveries: deliveries}, nil
}

// CreateRoute opens a new delivery run for one advisor and date.
func (s *appService) CreateRoute(ctx context.Context, req CreateRouteRequest) (*RouteResult, error) {
	routeDate := req.RouteDate
	if routeDate == "" {
		routeDate = time.Now().Format("2006-01-02")
	}
	route, err := s.routes.CreateRoute(ctx, routeDate, req.AdvisorID)
	if err != nil {
		return nil, err
	}
	return &RouteResult{Route: route}, nil
}

// ListEligibleLensOrders returns the lens orders selectable for a delivery form.
func (s *appService) ListEligibleLensOrders(ctx context.Context, currentID *int) (*LensOrderListResult, error) {
	orders, err := s.lensOrders.GetEligibleLensOrders(ctx, currentID)
	if err != nil {
		return nil, err
	}
	return &LensOrderListResult{LensOrders: orders}, nil
}

// ListEligiblePayments returns the payments selectable for a delivery form.
func (s *appService) ListEligiblePayments(ctx context.Context, selectedLensOrderID, currentID *int) (*PaymentListResult, error) {
	payments, err := s.payments.GetEligiblePayments(ctx, selectedLensOrderID, currentID)
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{Payments: payments}, nil
}

// GetDelivery returns one delivery.
func (s *appService) GetDelivery(ctx context.Context, deliveryID int) (*DeliveryResult, error) {
	delivery, err := s.deliveries.GetDelivery(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	return s.buildDeliveryResult(ctx, delivery)
}

// SaveDelivery creates or edits a delivery atomically.
func (s *appService) SaveDelivery(ctx context.Context, req SaveDeliveryRequest) (*DeliveryResult, error) {
	in := core.DeliveryInput{
		RouteID:        req.RouteID,
		LensOrderID:    req.LensOrderID,
		PaymentID:      req.PaymentID,
		Status:         core.DeliveryStatus(req.Status),
		Reason:         req.Reason,
		IdempotencyKey: req.IdempotencyKey,
	}
	if req.NewPayment != nil {
		in.NewPayment = &core.NewPaymentInput{
			Folio:  req.NewPayment.Folio,
			Amount: req.NewPayment.Amount,
		}
	}

	delivery, err := s.deliveries.SaveDelivery(ctx, req.DeliveryID, in)
	if err != nil {
		return nil, err
	}
	return s.buildDeliveryResult(ctx, delivery)
}

// BriefRoute asks the assistant a question about one route's reconciliation state.
func (s *appService) BriefRoute(ctx context.Context, routeID int, question string) (*BriefingResult, error) {
	routeContext, err := s.fetchRouteContext(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to build route context: %w", err)
	}
	if question == "" {
		question = "How did this route go and what is still outstanding?"
	}

	briefing, err := s.agent.BriefRoute(ctx, question, routeContext)
	if err != nil {
		return nil, err
	}
	return &BriefingResult{RouteID: routeID, Briefing: briefing}, nil
}

// ── private helpers ───────────────────────────────────────────────────────────

// buildDeliveryResult loads the route and referenced entities for a delivery.
func (s *appService) buildDeliveryResult(ctx context.Context, delivery *core.Delivery) (*DeliveryResult, error) {
	result := &DeliveryResult{Delivery: delivery}

	route, err := s.routes.GetRoute(ctx, delivery.RouteID)
	if err != nil {
		return nil, err
	}
	result.Route = route

	if delivery.LensOrderID != nil {
		order, err := s.lensOrders.GetLensOrder(ctx, *delivery.LensOrderID)
		if err != nil {
			return nil, err
		}
		result.LensOrder = order
	}
	if delivery.PaymentID != nil {
		payment, err := s.payments.GetPayment(ctx, *delivery.PaymentID)
		if err != nil {
			return nil, err
		}
		result.Payment = payment
	}
	return result, nil
}

// fetchRouteContext renders one route's reconciliation state as a formatted
// block for the assistant prompt.
func (s *appService) fetchRouteContext(ctx context.Context, routeID int) (string, error) {
	route, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Route %d on %s (advisor %d)\n", route.ID, route.RouteDate.Format("2006-01-02"), route.AdvisorID)
	fmt.Fprintf(&b, "Counters: lenses delivered=%d, lenses not delivered=%d, payments collected=%d, payments not collected=%d\n",
		route.LensesDelivered, route.LensesNotDelivered, route.CardsDelivered, route.CardsNotDelivered)

	rows, err := s.pool.Query(ctx, `
		SELECT d.id, d.status, d.reason,
		       o.folio, o.status,
		       p.folio, p.amount::text, p.status
		FROM deliveries d
		LEFT JOIN lens_orders o ON o.id = d.lens_order_id
		LEFT JOIN payments p ON p.id = d.payment_id
		WHERE d.route_id = $1
		ORDER BY d.id
	`, routeID)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	b.WriteString("Deliveries:\n")
	count := 0
	for rows.Next() {
		var (
			id                             int
			status, reason                 string
			orderFolio, orderStatus        *string
			payFolio, payAmount, payStatus *string
		)
		if err := rows.Scan(&id, &status, &reason, &orderFolio, &orderStatus, &payFolio, &payAmount, &payStatus); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "- delivery %d: %s (%s)", id, status, reason)
		if orderFolio != nil {
			fmt.Fprintf(&b, "; lens order folio %s status %s", *orderFolio, *orderStatus)
		}
		if payFolio != nil {
			fmt.Fprintf(&b, "; payment folio %s amount %s status %s", *payFolio, *payAmount, *payStatus)
		}
		b.WriteString("\n")
		count++
	}
	if count == 0 {
		b.WriteString("- none recorded yet\n")
	}
	return b.String(), nil
}
