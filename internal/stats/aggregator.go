package stats

import (
	"context"
	"time"

	"github.com/dzcommerce/storefront-api/internal/orders"
)

// OrderSource and ProductSource are the aggregate queries the recompute
// needs; the mongo repos satisfy them.
type OrderSource interface {
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context, s orders.Status) (int64, error)
	CountDistinctEmails(ctx context.Context) (int64, error)
	DeliveredRevenue(ctx context.Context) (float64, error)
}

type ProductSource interface {
	CountProducts(ctx context.Context) (int64, error)
}

type SnapshotStore interface {
	Get(ctx context.Context) (*Dashboard, error)
	Put(ctx context.Context, d *Dashboard) error
}

// Aggregator rebuilds the dashboard singleton from full rescans of the
// order and product collections.
type Aggregator struct {
	Orders    OrderSource
	Products  ProductSource
	Snapshots SnapshotStore
	now       func() time.Time
}

func NewAggregator(o OrderSource, p ProductSource, s SnapshotStore) *Aggregator {
	return &Aggregator{Orders: o, Products: p, Snapshots: s, now: time.Now}
}

// Recompute derives every counter from scratch and persists the result.
// The monthly series is carried over from the stored record untouched.
func (a *Aggregator) Recompute(ctx context.Context) (*Dashboard, error) {
	totalOrders, err := a.Orders.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := a.Orders.CountOrdersByStatus(ctx, orders.StatusPending)
	if err != nil {
		return nil, err
	}
	customers, err := a.Orders.CountDistinctEmails(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := a.Orders.DeliveredRevenue(ctx)
	if err != nil {
		return nil, err
	}
	products, err := a.Products.CountProducts(ctx)
	if err != nil {
		return nil, err
	}

	monthly := seedMonths()
	if prev, err := a.Snapshots.Get(ctx); err == nil && len(prev.MonthlyRevenue) > 0 {
		monthly = prev.MonthlyRevenue
	}

	d := &Dashboard{
		ID:             singletonID,
		TotalRevenue:   revenue,
		TotalOrders:    totalOrders,
		TotalCustomers: customers,
		PendingOrders:  pending,
		TotalProducts:  products,
		MonthlyRevenue: monthly,
		UpdatedAt:      a.now(),
	}
	if err := a.Snapshots.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
