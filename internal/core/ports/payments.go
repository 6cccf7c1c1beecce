package ports

import "context"

// PaymentIntents creates processor payment intents for orders. The returned
// client secret is handed to the payment widget; this client never touches
// card data.
type PaymentIntents interface {
	CreateIntent(ctx context.Context, orderID int) (clientSecret string, err error)
}
