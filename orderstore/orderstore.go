// Package orderstore persists customer orders in the relational store.
//
// The number column carries the day-scoped identifier issued by the sequence
// generator. Its unique index is the second line of defense against a
// generator defect and keeps the MaxNumber lookup cheap. Store satisfies
// sequence.Source.
package orderstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Shipment progression for an order.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var ErrNotFound = errors.New("orderstore: order not found")

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Number     string    `bun:"number,notnull,unique"`
	CustomerID int64     `bun:"customer_id,notnull"`
	Status     string    `bun:"status,notnull,default:'pending'"`
	TotalCents int64     `bun:"total_cents,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type Store struct {
	db *bun.DB
}

func New(db *bun.DB) *Store { return &Store{db: db} }

// MaxNumber returns the greatest order number with the given prefix.
// Ordering is by length first, then lexicographic: numbers are zero-padded
// to four digits but widen past 9999, so pure string order would put
// "…-10000" before "…-9999".
func (s *Store) MaxNumber(ctx context.Context, prefix string) (string, bool, error) {
	var number string
	err := s.db.NewSelect().
		Model((*Order)(nil)).
		Column("number").
		Where("number LIKE ?", prefix+"%").
		OrderExpr("length(number) DESC, number DESC").
		Limit(1).
		Scan(ctx, &number)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return number, true, nil
}

func (s *Store) Insert(ctx context.Context, o *Order) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	_, err := s.db.NewInsert().Model(o).Exec(ctx)
	return err
}

func (s *Store) ByNumber(ctx context.Context, number string) (*Order, error) {
	o := new(Order)
	err := s.db.NewSelect().Model(o).Where("number = ?", number).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) ByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	var orders []Order
	err := s.db.NewSelect().
		Model(&orders).
		Where("customer_id = ?", customerID).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves an order through the shipment progression.
func (s *Store) UpdateStatus(ctx context.Context, number, status string) error {
	res, err := s.db.NewUpdate().
		Model((*Order)(nil)).
		Set("status = ?", status).
		Where("number = ?", number).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
