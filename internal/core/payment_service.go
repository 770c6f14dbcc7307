package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PaymentService reads, creates and updates payment records.
type PaymentService interface {
	GetPayment(ctx context.Context, paymentID int) (*Payment, error)
	// GetPayments returns all payments, newest first.
	GetPayments(ctx context.Context) ([]Payment, error)
	// GetEligiblePayments returns payments selectable for a delivery: PENDING
	// plus the currently attached one, restricted to the selected lens
	// order's folio when one is selected.
	GetEligiblePayments(ctx context.Context, selectedLensOrderID *int, currentID *int) ([]Payment, error)
	CreatePayment(ctx context.Context, folio string, amount decimal.Decimal, paymentDate string) (*Payment, error)
	UpdateStatus(ctx context.Context, paymentID int, status PaymentStatus, paymentDate string) (*Payment, error)
}

type paymentService struct {
	pool *pgxpool.Pool
}

// NewPaymentService constructs a PaymentService backed by PostgreSQL.
func NewPaymentService(pool *pgxpool.Pool) PaymentService {
	return &paymentService{pool: pool}
}

const paymentColumns = `id, folio, amount, payment_date, status, created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	p := &Payment{}
	err := row.Scan(&p.ID, &p.Folio, &p.Amount, &p.PaymentDate, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *paymentService) GetPayment(ctx context.Context, paymentID int) (*Payment, error) {
	p, err := scanPayment(s.pool.QueryRow(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = $1", paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment %d not found", paymentID)
		}
		return nil, fmt.Errorf("failed to fetch payment %d: %w", paymentID, err)
	}
	return p, nil
}

func (s *paymentService) GetPayments(ctx context.Context) ([]Payment, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+paymentColumns+" FROM payments ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()
	return collectPayments(rows)
}

func (s *paymentService) GetEligiblePayments(ctx context.Context, selectedLensOrderID *int, currentID *int) ([]Payment, error) {
	payments, err := s.GetPayments(ctx)
	if err != nil {
		return nil, err
	}

	var selected *LensOrder
	if selectedLensOrderID != nil {
		selected, err = scanLensOrder(s.pool.QueryRow(ctx,
			"SELECT "+lensOrderColumns+" FROM lens_orders WHERE id = $1", *selectedLensOrderID))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch selected lens order %d: %w", *selectedLensOrderID, err)
		}
	}
	return EligiblePayments(payments, selected, currentID), nil
}

func (s *paymentService) CreatePayment(ctx context.Context, folio string, amount decimal.Decimal, paymentDate string) (*Payment, error) {
	p, err := scanPayment(s.pool.QueryRow(ctx, `
		INSERT INTO payments (folio, amount, payment_date)
		VALUES ($1, $2, $3)
		RETURNING `+paymentColumns,
		folio, amount, paymentDate))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment for folio %s: %w", folio, err)
	}
	return p, nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, paymentID int, status PaymentStatus, paymentDate string) (*Payment, error) {
	p, err := scanPayment(s.pool.QueryRow(ctx, `
		UPDATE payments SET status = $1, payment_date = $2 WHERE id = $3
		RETURNING `+paymentColumns,
		status, paymentDate, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment %d not found", paymentID)
		}
		return nil, fmt.Errorf("failed to update payment %d: %w", paymentID, err)
	}
	return p, nil
}

func collectPayments(rows pgx.Rows) ([]Payment, error) {
	var payments []Payment
	for rows.Next() {
		p := Payment{}
		if err := rows.Scan(&p.ID, &p.Folio, &p.Amount, &p.PaymentDate, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, nil
}
