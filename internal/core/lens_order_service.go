package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LensOrderService reads and updates lens order records. Orders are created
// when a sale is registered (outside this subsystem); status mutation beyond
// the reconciliation engine goes through UpdateStatus for the edit forms.
type LensOrderService interface {
	GetLensOrder(ctx context.Context, orderID int) (*LensOrder, error)
	// GetLensOrders returns all lens orders, newest first.
	GetLensOrders(ctx context.Context) ([]LensOrder, error)
	// GetEligibleLensOrders returns orders selectable for a delivery:
	// PENDING/NOT_DELIVERED plus the currently attached one when editing.
	GetEligibleLensOrders(ctx context.Context, currentID *int) ([]LensOrder, error)
	UpdateStatus(ctx context.Context, orderID int, status LensOrderStatus) (*LensOrder, error)
}

type lensOrderService struct {
	pool *pgxpool.Pool
}

// NewLensOrderService constructs a LensOrderService backed by PostgreSQL.
func NewLensOrderService(pool *pgxpool.Pool) LensOrderService {
	return &lensOrderService{pool: pool}
}

const lensOrderColumns = `id, folio, material, treatment,
	sphere_right, cylinder_right, sphere_left, cylinder_left, status, created_at`

func scanLensOrder(row pgx.Row) (*LensOrder, error) {
	o := &LensOrder{}
	err := row.Scan(&o.ID, &o.Folio, &o.Material, &o.Treatment,
		&o.SphereRight, &o.CylinderRight, &o.SphereLeft, &o.CylinderLeft, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *lensOrderService) GetLensOrder(ctx context.Context, orderID int) (*LensOrder, error) {
	o, err := scanLensOrder(s.pool.QueryRow(ctx,
		"SELECT "+lensOrderColumns+" FROM lens_orders WHERE id = $1", orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("lens order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to fetch lens order %d: %w", orderID, err)
	}
	return o, nil
}

func (s *lensOrderService) GetLensOrders(ctx context.Context) ([]LensOrder, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+lensOrderColumns+" FROM lens_orders ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query lens orders: %w", err)
	}
	defer rows.Close()
	return collectLensOrders(rows)
}

func (s *lensOrderService) GetEligibleLensOrders(ctx context.Context, currentID *int) ([]LensOrder, error) {
	orders, err := s.GetLensOrders(ctx)
	if err != nil {
		return nil, err
	}
	return EligibleLensOrders(orders, currentID), nil
}

func (s *lensOrderService) UpdateStatus(ctx context.Context, orderID int, status LensOrderStatus) (*LensOrder, error) {
	o, err := scanLensOrder(s.pool.QueryRow(ctx, `
		UPDATE lens_orders SET status = $1 WHERE id = $2
		RETURNING `+lensOrderColumns,
		status, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("lens order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to update lens order %d: %w", orderID, err)
	}
	return o, nil
}

func collectLensOrders(rows pgx.Rows) ([]LensOrder, error) {
	var orders []LensOrder
	for rows.Next() {
		o := LensOrder{}
		if err := rows.Scan(&o.ID, &o.Folio, &o.Material, &o.Treatment,
			&o.SphereRight, &o.CylinderRight, &o.SphereLeft, &o.CylinderLeft, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lens order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}
