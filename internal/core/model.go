package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// LensOrderStatus is the delivery status of one pair of lenses.
type LensOrderStatus string

const (
	LensOrderPending      LensOrderStatus = "PENDING"
	LensOrderNotDelivered LensOrderStatus = "NOT_DELIVERED"
	LensOrderDelivered    LensOrderStatus = "DELIVERED"
)

// PaymentStatus is the collection status of one payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// DeliveryStatus is the recorded outcome of a delivery attempt.
type DeliveryStatus string

const (
	Delivered    DeliveryStatus = "DELIVERED"
	NotDelivered DeliveryStatus = "NOT_DELIVERED"
)

// Sale is the owner record for a folio. Sales CRUD lives outside this
// subsystem; only the data contract is modeled here.
type Sale struct {
	ID         int             `json:"id"`
	Folio      string          `json:"folio"`
	ClientName string          `json:"client_name"`
	EmployeeID *int            `json:"employee_id,omitempty"`
	SaleDate   time.Time       `json:"sale_date"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}

// LensOrder is one pair of lenses tied to a sale folio.
type LensOrder struct {
	ID            int             `json:"id"`
	Folio         string          `json:"folio"`
	Material      string          `json:"material"`
	Treatment     string          `json:"treatment"`
	SphereRight   string          `json:"sphere_right"`
	CylinderRight string          `json:"cylinder_right"`
	SphereLeft    string          `json:"sphere_left"`
	CylinderLeft  string          `json:"cylinder_left"`
	Status        LensOrderStatus `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Payment is one payment tied to a sale folio. A payment reconciled through a
// route always carries that route's date.
type Payment struct {
	ID          int             `json:"id"`
	Folio       string          `json:"folio"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Status      PaymentStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Route is one advisor's delivery run for one date. Counters are only ever
// incremented by the reconciliation engine.
type Route struct {
	ID                 int       `json:"id"`
	RouteDate          time.Time `json:"route_date"`
	AdvisorID          int       `json:"advisor_id"`
	LensesDelivered    int       `json:"lenses_delivered"`
	LensesNotDelivered int       `json:"lenses_not_delivered"`
	CardsDelivered     int       `json:"cards_delivered"`
	CardsNotDelivered  int       `json:"cards_not_delivered"`
	CreatedAt          time.Time `json:"created_at"`
}

// Delivery is the reconciliation unit: it references a route plus at most one
// lens order and at most one payment. Referencing neither is invalid.
type Delivery struct {
	ID             int            `json:"id"`
	RouteID        int            `json:"route_id"`
	LensOrderID    *int           `json:"lens_order_id,omitempty"`
	PaymentID      *int           `json:"payment_id,omitempty"`
	Status         DeliveryStatus `json:"status"`
	Reason         string         `json:"reason"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Employee is an authenticated system user (advisor or admin).
type Employee struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
