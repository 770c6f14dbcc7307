package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EmployeeService provides employee lookup operations for authentication.
type EmployeeService interface {
	// GetByUsername finds an active employee by username.
	GetByUsername(ctx context.Context, username string) (*Employee, error)

	// GetByID returns an employee by primary key.
	GetByID(ctx context.Context, employeeID int) (*Employee, error)
}

type employeeService struct {
	pool *pgxpool.Pool
}

// NewEmployeeService constructs an EmployeeService backed by PostgreSQL.
func NewEmployeeService(pool *pgxpool.Pool) EmployeeService {
	return &employeeService{pool: pool}
}

func (s *employeeService) GetByUsername(ctx context.Context, username string) (*Employee, error) {
	e := &Employee{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, full_name, email, password_hash, role, is_active, created_at
		FROM employees
		WHERE username = $1 AND is_active = true
		LIMIT 1`,
		username,
	).Scan(&e.ID, &e.Username, &e.FullName, &e.Email, &e.PasswordHash, &e.Role, &e.IsActive, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("employee %q not found: %w", username, err)
	}
	return e, nil
}

func (s *employeeService) GetByID(ctx context.Context, employeeID int) (*Employee, error) {
	e := &Employee{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, full_name, email, password_hash, role, is_active, created_at
		FROM employees
		WHERE id = $1`,
		employeeID,
	).Scan(&e.ID, &e.Username, &e.FullName, &e.Email, &e.PasswordHash, &e.Role, &e.IsActive, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("employee id=%d not found: %w", employeeID, err)
	}
	return e, nil
}
