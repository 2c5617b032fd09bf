package stats

import "time"

type MonthRevenue struct {
	Month   string  `bson:"month" json:"month"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

// Dashboard is the singleton summary record backing the admin overview. It is
// derived data: equal to a pure function of the order/product collections as
// of the last recomputation, not consistent with concurrent writers.
type Dashboard struct {
	ID             string         `bson:"_id" json:"-"`
	TotalRevenue   float64        `bson:"totalRevenue" json:"totalRevenue"`
	TotalOrders    int64          `bson:"totalOrders" json:"totalOrders"`
	TotalCustomers int64          `bson:"totalCustomers" json:"totalCustomers"`
	PendingOrders  int64          `bson:"pendingOrders" json:"pendingOrders"`
	TotalProducts  int64          `bson:"totalProducts" json:"totalProducts"`
	MonthlyRevenue []MonthRevenue `bson:"monthlyRevenue" json:"monthlyRevenue"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

const singletonID = "dashboard"

// seedMonths is the fixed placeholder series written once at initialization.
// The recompute path never touches it.
func seedMonths() []MonthRevenue {
	return []MonthRevenue{
		{Month: "Jan", Revenue: 0},
		{Month: "Feb", Revenue: 0},
		{Month: "Mar", Revenue: 0},
		{Month: "Apr", Revenue: 0},
		{Month: "May", Revenue: 0},
		{Month: "Jun", Revenue: 0},
	}
}
