package domain

import "time"

// Promotion kinds. A "promocion" discounts the unit price (percentage or
// fixed amount); an "oferta" is an N-for-M bundle (buy OfferQuantity, pay
// for OfferPay).
const (
	PromotionDiscount = "promocion"
	PromotionBundle   = "oferta"
)

// Promotion targets a single product or a whole category, never both.
type Promotion struct {
	ID              int       `json:"id"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	DiscountPercent *float64  `json:"discount_percent"`
	FixedDiscount   *float64  `json:"fixed_discount"`
	OfferQuantity   *int      `json:"offer_quantity"`
	OfferPay        *int      `json:"offer_pay"`
	ProductID       *int      `json:"product_id"`
	CategoryID      *int      `json:"category_id"`
	Active          bool      `json:"active"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}
