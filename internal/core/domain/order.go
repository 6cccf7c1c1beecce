package domain

import "time"

// Order lifecycle states as reported by the backend.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
)

// Payment states.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Order is the summary row the orders listing returns.
type Order struct {
	ID             int       `json:"id"`
	ClientID       int       `json:"client_id"`
	AddressID      int       `json:"address_id"`
	Total          float64   `json:"total"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"payment_status"`
	DeliveryStatus string    `json:"delivery_status"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrderLine is one priced line of a created order, including any promotion
// the backend applied.
type OrderLine struct {
	ProductID       int        `json:"product_id"`
	Name            string     `json:"name"`
	Quantity        int        `json:"quantity"`
	UnitPrice       float64    `json:"unit_price"`
	OriginalPrice   float64    `json:"original_price"`
	DiscountApplied float64    `json:"discount_applied"`
	FinalPrice      float64    `json:"final_price"`
	Promotion       *Promotion `json:"promotion,omitempty"`
}

// OrderReceipt is returned by order creation. UserLevel and UserPoints echo
// the gamification progress the purchase produced.
type OrderReceipt struct {
	Message    string      `json:"message"`
	OrderID    int         `json:"order_id"`
	Total      float64     `json:"total"`
	Items      []OrderLine `json:"items"`
	UserLevel  int         `json:"user_level"`
	UserPoints int         `json:"user_points"`
}

// OrderDetail is the full order view with its priced lines.
type OrderDetail struct {
	Order
	Items []OrderLine `json:"items"`
}
