package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RouteService manages route records. Counter mutation happens only through
// the reconciliation engine; this service exposes reads and route creation
// for the dispatch layer.
type RouteService interface {
	GetRoute(ctx context.Context, routeID int) (*Route, error)
	// GetRoutes returns routes, optionally filtered to one date (YYYY-MM-DD).
	GetRoutes(ctx context.Context, date *string) ([]Route, error)
	CreateRoute(ctx context.Context, routeDate string, advisorID int) (*Route, error)
}

type routeService struct {
	pool *pgxpool.Pool
}

// NewRouteService constructs a RouteService backed by PostgreSQL.
func NewRouteService(pool *pgxpool.Pool) RouteService {
	return &routeService{pool: pool}
}

const routeColumns = `id, route_date, advisor_id,
	lenses_delivered, lenses_not_delivered, cards_delivered, cards_not_delivered, created_at`

func scanRoute(row pgx.Row) (*Route, error) {
	r := &Route{}
	err := row.Scan(&r.ID, &r.RouteDate, &r.AdvisorID,
		&r.LensesDelivered, &r.LensesNotDelivered, &r.CardsDelivered, &r.CardsNotDelivered, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *routeService) GetRoute(ctx context.Context, routeID int) (*Route, error) {
	r, err := scanRoute(s.pool.QueryRow(ctx,
		"SELECT "+routeColumns+" FROM routes WHERE id = $1", routeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("route %d not found", routeID)
		}
		return nil, fmt.Errorf("failed to fetch route %d: %w", routeID, err)
	}
	return r, nil
}

func (s *routeService) GetRoutes(ctx context.Context, date *string) ([]Route, error) {
	query := "SELECT " + routeColumns + " FROM routes"
	args := []any{}
	if date != nil {
		query += " WHERE route_date = $1"
		args = append(args, *date)
	}
	query += " ORDER BY route_date DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		r := Route{}
		if err := rows.Scan(&r.ID, &r.RouteDate, &r.AdvisorID,
			&r.LensesDelivered, &r.LensesNotDelivered, &r.CardsDelivered, &r.CardsNotDelivered, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func (s *routeService) CreateRoute(ctx context.Context, routeDate string, advisorID int) (*Route, error) {
	r, err := scanRoute(s.pool.QueryRow(ctx, `
		INSERT INTO routes (route_date, advisor_id)
		VALUES ($1, $2)
		RETURNING `+routeColumns,
		routeDate, advisorID))
	if err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}
	return r, nil
}
