package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeliveryService persists deliveries and applies the reconciliation plan.
// Every save runs as one database transaction: validation happens before the
// first mutation, so a rejected input never leaves partial state, and a
// storage failure rolls the whole update back.
type DeliveryService interface {
	GetDelivery(ctx context.Context, deliveryID int) (*Delivery, error)
	// GetDeliveries returns all deliveries for a route, oldest first.
	GetDeliveries(ctx context.Context, routeID int) ([]Delivery, error)
	// SaveDelivery creates (deliveryID nil) or edits a delivery and settles
	// the referenced lens order, payment and route counters atomically.
	SaveDelivery(ctx context.Context, deliveryID *int, in DeliveryInput) (*Delivery, error)
}

type deliveryService struct {
	pool *pgxpool.Pool
}

// NewDeliveryService constructs a DeliveryService backed by PostgreSQL.
func NewDeliveryService(pool *pgxpool.Pool) DeliveryService {
	return &deliveryService{pool: pool}
}

const deliveryColumns = `id, route_id, lens_order_id, payment_id, status, reason,
	COALESCE(idempotency_key, ''), created_at, updated_at`

func scanDelivery(row pgx.Row) (*Delivery, error) {
	d := &Delivery{}
	err := row.Scan(&d.ID, &d.RouteID, &d.LensOrderID, &d.PaymentID, &d.Status, &d.Reason,
		&d.IdempotencyKey, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *deliveryService) GetDelivery(ctx context.Context, deliveryID int) (*Delivery, error) {
	d, err := scanDelivery(s.pool.QueryRow(ctx,
		"SELECT "+deliveryColumns+" FROM deliveries WHERE id = $1", deliveryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("delivery %d not found", deliveryID)
		}
		return nil, fmt.Errorf("failed to fetch delivery %d: %w", deliveryID, err)
	}
	return d, nil
}

func (s *deliveryService) GetDeliveries(ctx context.Context, routeID int) ([]Delivery, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+deliveryColumns+" FROM deliveries WHERE route_id = $1 ORDER BY id", routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deliveries for route %d: %w", routeID, err)
	}
	defer rows.Close()

	var deliveries []Delivery
	for rows.Next() {
		d := Delivery{}
		if err := rows.Scan(&d.ID, &d.RouteID, &d.LensOrderID, &d.PaymentID, &d.Status, &d.Reason,
			&d.IdempotencyKey, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}

func (s *deliveryService) SaveDelivery(ctx context.Context, deliveryID *int, in DeliveryInput) (*Delivery, error) {
	// Replaying a create with a known idempotency key returns the recorded
	// delivery without touching statuses or counters again.
	if deliveryID == nil && in.IdempotencyKey != "" {
		existing, err := scanDelivery(s.pool.QueryRow(ctx,
			"SELECT "+deliveryColumns+" FROM deliveries WHERE idempotency_key = $1", in.IdempotencyKey))
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the route first; all counter arithmetic serializes on it.
	route, err := scanRoute(tx.QueryRow(ctx,
		"SELECT "+routeColumns+" FROM routes WHERE id = $1 FOR UPDATE", in.RouteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalidField("route_id", ErrMissingRequiredField)
		}
		return nil, fmt.Errorf("failed to fetch route %d: %w", in.RouteID, err)
	}

	var prior *Delivery
	if deliveryID != nil {
		prior, err = scanDelivery(tx.QueryRow(ctx,
			"SELECT "+deliveryColumns+" FROM deliveries WHERE id = $1 FOR UPDATE", *deliveryID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("delivery %d not found", *deliveryID)
			}
			return nil, fmt.Errorf("failed to fetch delivery %d: %w", *deliveryID, err)
		}
	}

	// Lock and load the referenced entities; absent rows surface as nil so
	// the planner rejects them as invalid associations.
	var order *LensOrder
	if in.LensOrderID != nil {
		order, err = lockLensOrder(ctx, tx, *in.LensOrderID)
		if err != nil {
			return nil, err
		}
	}
	var payment *Payment
	if in.PaymentID != nil {
		payment, err = lockPayment(ctx, tx, *in.PaymentID)
		if err != nil {
			return nil, err
		}
	}

	plan, err := PlanReconciliation(prior, in, route, order, payment)
	if err != nil {
		return nil, err
	}

	paymentID := in.PaymentID
	if plan.CreatePayment != nil {
		np := plan.CreatePayment
		var newID int
		err = tx.QueryRow(ctx, `
			INSERT INTO payments (folio, amount, payment_date, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			np.Folio, np.Amount, np.PaymentDate, np.Status).Scan(&newID)
		if err != nil {
			return nil, fmt.Errorf("failed to create payment for folio %s: %w", np.Folio, err)
		}
		paymentID = &newID
	}

	// Persist the delivery before reverting stale associations, so a failure
	// never strands a reverted entity without a matching delivery record.
	var saved *Delivery
	if prior == nil {
		saved, err = scanDelivery(tx.QueryRow(ctx, `
			INSERT INTO deliveries (route_id, lens_order_id, payment_id, status, reason, idempotency_key)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
			RETURNING `+deliveryColumns,
			in.RouteID, in.LensOrderID, paymentID, in.Status, in.Reason, in.IdempotencyKey))
		if err != nil {
			return nil, fmt.Errorf("failed to insert delivery: %w", err)
		}
	} else {
		saved, err = scanDelivery(tx.QueryRow(ctx, `
			UPDATE deliveries
			SET route_id = $1, lens_order_id = $2, payment_id = $3, status = $4, reason = $5, updated_at = NOW()
			WHERE id = $6
			RETURNING `+deliveryColumns,
			in.RouteID, in.LensOrderID, paymentID, in.Status, in.Reason, prior.ID))
		if err != nil {
			return nil, fmt.Errorf("failed to update delivery %d: %w", prior.ID, err)
		}
	}

	if plan.RevertLensOrderID != nil {
		if _, err = tx.Exec(ctx,
			"UPDATE lens_orders SET status = $1 WHERE id = $2",
			RevertedLensOrderStatus(), *plan.RevertLensOrderID); err != nil {
			return nil, fmt.Errorf("failed to revert lens order %d: %w", *plan.RevertLensOrderID, err)
		}
	}
	if plan.RevertPaymentID != nil {
		if _, err = tx.Exec(ctx,
			"UPDATE payments SET status = $1 WHERE id = $2",
			RevertedPaymentStatus(), *plan.RevertPaymentID); err != nil {
			return nil, fmt.Errorf("failed to revert payment %d: %w", *plan.RevertPaymentID, err)
		}
	}

	if plan.LensOrderUpdate != nil {
		u := plan.LensOrderUpdate
		if _, err = tx.Exec(ctx,
			"UPDATE lens_orders SET status = $1 WHERE id = $2", u.Status, u.ID); err != nil {
			return nil, fmt.Errorf("failed to update lens order %d: %w", u.ID, err)
		}
	}
	if plan.PaymentUpdate != nil {
		u := plan.PaymentUpdate
		if _, err = tx.Exec(ctx,
			"UPDATE payments SET status = $1, payment_date = $2 WHERE id = $3",
			u.Status, u.Date, u.ID); err != nil {
			return nil, fmt.Errorf("failed to update payment %d: %w", u.ID, err)
		}
	}

	if !plan.RouteCounters.IsZero() {
		c := plan.RouteCounters
		if _, err = tx.Exec(ctx, `
			UPDATE routes
			SET lenses_delivered     = lenses_delivered + $1,
			    lenses_not_delivered = lenses_not_delivered + $2,
			    cards_delivered      = cards_delivered + $3,
			    cards_not_delivered  = cards_not_delivered + $4
			WHERE id = $5`,
			c.LensesDelivered, c.LensesNotDelivered, c.CardsDelivered, c.CardsNotDelivered, route.ID); err != nil {
			return nil, fmt.Errorf("failed to update route %d counters: %w", route.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit delivery save: %w", err)
	}
	return saved, nil
}

// lockLensOrder loads a lens order under FOR UPDATE, returning nil when the
// row does not exist.
func lockLensOrder(ctx context.Context, tx pgx.Tx, orderID int) (*LensOrder, error) {
	o, err := scanLensOrder(tx.QueryRow(ctx,
		"SELECT "+lensOrderColumns+" FROM lens_orders WHERE id = $1 FOR UPDATE", orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch lens order %d: %w", orderID, err)
	}
	return o, nil
}

// lockPayment loads a payment under FOR UPDATE, returning nil when the row
// does not exist.
func lockPayment(ctx context.Context, tx pgx.Tx, paymentID int) (*Payment, error) {
	p, err := scanPayment(tx.QueryRow(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = $1 FOR UPDATE", paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch payment %d: %w", paymentID, err)
	}
	return p, nil
}
