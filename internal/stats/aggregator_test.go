package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzcommerce/storefront-api/internal/orders"
)

// memOrders answers the aggregate queries from an in-memory order list, the
// same way the mongo repo answers them from the collection.
type memOrders struct{ list []orders.Order }

func (m *memOrders) CountOrders(context.Context) (int64, error) {
	return int64(len(m.list)), nil
}

func (m *memOrders) CountOrdersByStatus(_ context.Context, s orders.Status) (int64, error) {
	var n int64
	for _, o := range m.list {
		if o.Status == s {
			n++
		}
	}
	return n, nil
}

func (m *memOrders) CountDistinctEmails(context.Context) (int64, error) {
	seen := map[string]struct{}{}
	for _, o := range m.list {
		seen[o.Email] = struct{}{}
	}
	return int64(len(seen)), nil
}

func (m *memOrders) DeliveredRevenue(context.Context) (float64, error) {
	var total float64
	for _, o := range m.list {
		if o.Status == orders.StatusDelivered {
			total += o.ProductPrice * float64(o.Quantity)
		}
	}
	return total, nil
}

type memProducts struct{ n int64 }

func (m *memProducts) CountProducts(context.Context) (int64, error) { return m.n, nil }

type memSnapshots struct{ stored *Dashboard }

func (m *memSnapshots) Get(context.Context) (*Dashboard, error) {
	if m.stored == nil {
		return nil, assert.AnError
	}
	return m.stored, nil
}

func (m *memSnapshots) Put(_ context.Context, d *Dashboard) error {
	cp := *d
	m.stored = &cp
	return nil
}

func order(email string, status orders.Status, price float64, qty int) orders.Order {
	return orders.Order{Email: email, Status: status, ProductPrice: price, Quantity: qty}
}

func TestRecomputeCounters(t *testing.T) {
	src := &memOrders{list: []orders.Order{
		order("a@example.com", orders.StatusDelivered, 1000, 2),
		order("a@example.com", orders.StatusDelivered, 500, 1),
		order("b@example.com", orders.StatusPending, 9000, 3),
		order("c@example.com", orders.StatusCancelled, 700, 1),
		order("b@example.com", orders.StatusPending, 100, 1),
	}}
	snaps := &memSnapshots{}
	agg := NewAggregator(src, &memProducts{n: 7}, snaps)

	d, err := agg.Recompute(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 5, d.TotalOrders)
	assert.EqualValues(t, 2, d.PendingOrders)
	assert.EqualValues(t, 7, d.TotalProducts)
	assert.EqualValues(t, 3, d.TotalCustomers, "distinct emails only")
	assert.Equal(t, 2500.0, d.TotalRevenue, "delivered orders only, price*quantity")
	require.NotNil(t, snaps.stored)
}

func TestRecomputeEmptyCollections(t *testing.T) {
	agg := NewAggregator(&memOrders{}, &memProducts{}, &memSnapshots{})

	d, err := agg.Recompute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, d.TotalOrders)
	assert.Zero(t, d.TotalRevenue)
	assert.Zero(t, d.TotalCustomers)
	assert.Len(t, d.MonthlyRevenue, 6, "falls back to the seed series")
}

func TestRecomputePreservesMonthlySeries(t *testing.T) {
	snaps := &memSnapshots{stored: &Dashboard{
		MonthlyRevenue: []MonthRevenue{{Month: "Sep", Revenue: 1234}},
	}}
	agg := NewAggregator(&memOrders{}, &memProducts{}, snaps)

	d, err := agg.Recompute(context.Background())
	require.NoError(t, err)

	require.Len(t, d.MonthlyRevenue, 1)
	assert.Equal(t, "Sep", d.MonthlyRevenue[0].Month)
	assert.Equal(t, 1234.0, d.MonthlyRevenue[0].Revenue)
}

func TestRecomputeStampsUpdatedAt(t *testing.T) {
	agg := NewAggregator(&memOrders{}, &memProducts{}, &memSnapshots{})
	fixed := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	agg.now = func() time.Time { return fixed }

	d, err := agg.Recompute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixed, d.UpdatedAt)
}
