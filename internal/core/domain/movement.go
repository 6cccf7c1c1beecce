package domain

import "time"

// FinancialMovement is one entry of the money ledger, written by the
// backend when an order is confirmed.
type FinancialMovement struct {
	ID          int       `json:"id"`
	OrderID     int       `json:"order_id"`
	Timestamp   time.Time `json:"timestamp"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
}

// StockMovement is one entry of the inventory ledger. Change is negative
// for stock leaving the warehouse.
type StockMovement struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"product_id"`
	Timestamp   time.Time `json:"timestamp"`
	Change      int       `json:"change"`
	Description string    `json:"description"`
}

// AdminSummary is today's back-office dashboard snapshot.
type AdminSummary struct {
	NewOrders         int     `json:"new_orders"`
	Revenue           float64 `json:"revenue"`
	TotalUsers        int     `json:"total_users"`
	TotalProducts     int     `json:"total_products"`
	HistoricalRevenue float64 `json:"historical_revenue"`
}
