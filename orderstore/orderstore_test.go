package orderstore

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/unkn0wn-root/storecore/sequence"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.NewCreateTable().Model((*Order)(nil)).Exec(context.Background())
	require.NoError(t, err)

	return New(db)
}

func TestInsertAndByNumber(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	o := &Order{Number: "ORD-20260106-0001", CustomerID: 7, TotalCents: 12500}
	require.NoError(t, s.Insert(ctx, o))
	require.NotZero(t, o.ID)

	got, err := s.ByNumber(ctx, "ORD-20260106-0001")
	require.NoError(t, err)
	require.Equal(t, int64(7), got.CustomerID)
	require.Equal(t, StatusPending, got.Status)

	_, err = s.ByNumber(ctx, "ORD-20260106-9999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNumberUniqueConstraint(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Insert(ctx, &Order{Number: "ORD-20260106-0001", CustomerID: 1}))
	err := s.Insert(ctx, &Order{Number: "ORD-20260106-0001", CustomerID: 2})
	require.Error(t, err, "unique index must reject a duplicate number")
}

func TestMaxNumber(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.MaxNumber(ctx, "ORD-20260106-")
	require.NoError(t, err)
	require.False(t, ok)

	for _, n := range []string{"ORD-20260105-0002", "ORD-20260106-0001", "ORD-20260106-0003"} {
		require.NoError(t, s.Insert(ctx, &Order{Number: n, CustomerID: 1}))
	}

	got, ok, err := s.MaxNumber(ctx, "ORD-20260106-")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ORD-20260106-0003", got)

	// The previous day's numbers do not leak into today's prefix.
	got, ok, err = s.MaxNumber(ctx, "ORD-20260105-")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ORD-20260105-0002", got)
}

func TestMaxNumberOrdersWidenedCountersNumerically(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, n := range []string{"ORD-20260106-9999", "ORD-20260106-10000"} {
		require.NoError(t, s.Insert(ctx, &Order{Number: n, CustomerID: 1}))
	}

	got, ok, err := s.MaxNumber(ctx, "ORD-20260106-")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ORD-20260106-10000", got, "length-aware ordering must beat plain string order")
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Insert(ctx, &Order{Number: "ORD-20260106-0001", CustomerID: 1}))
	require.NoError(t, s.UpdateStatus(ctx, "ORD-20260106-0001", StatusShipped))

	got, err := s.ByNumber(ctx, "ORD-20260106-0001")
	require.NoError(t, err)
	require.Equal(t, StatusShipped, got.Status)

	require.ErrorIs(t, s.UpdateStatus(ctx, "ORD-20260106-0002", StatusShipped), ErrNotFound)
}

func TestByCustomer(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Insert(ctx, &Order{Number: "ORD-20260106-0001", CustomerID: 1}))
	require.NoError(t, s.Insert(ctx, &Order{Number: "ORD-20260106-0002", CustomerID: 1}))
	require.NoError(t, s.Insert(ctx, &Order{Number: "ORD-20260106-0003", CustomerID: 2}))

	orders, err := s.ByCustomer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
}

// The store is the generator's Source; exercise the pair end to end.
func TestSequenceAgainstStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	g, err := sequence.New(sequence.Options{Prefix: "ORD", Source: s})
	require.NoError(t, err)

	var prev string
	for i := 0; i < 3; i++ {
		n, err := g.Next(ctx)
		require.NoError(t, err)
		require.Greater(t, n, prev, "numbers must increase in generation order")
		require.NoError(t, s.Insert(ctx, &Order{Number: n, CustomerID: 1}))
		prev = n
	}
}
