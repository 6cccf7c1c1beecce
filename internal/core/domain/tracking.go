package domain

// Delivery states reported by the tracking endpoint. The backend simulates
// the courier, so these are the only values it emits.
const (
	DeliveryPreparing = "alistando pedido"
	DeliveryEnRoute   = "en camino"
	DeliveryDelivered = "entregado"
)

// LatLng is a geographic point.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TrackingInfo is one snapshot of a paid order's simulated delivery,
// consumed on a fixed polling interval.
type TrackingInfo struct {
	OrderID        int    `json:"order_id"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"payment_status"`
	DeliveryStatus string `json:"delivery_status"`
	Origin         LatLng `json:"origin"`
	Destination    LatLng `json:"destination"`
	Courier        LatLng `json:"courier"`
	ETASeconds     int    `json:"eta_seconds"`
	UserLevel      int    `json:"user_level"`
}

// Delivered reports whether the courier has arrived.
func (t TrackingInfo) Delivered() bool {
	return t.DeliveryStatus == DeliveryDelivered
}
