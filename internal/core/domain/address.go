package domain

// Address is a delivery destination. The backend stores bare coordinates;
// street data lives with the map provider.
type Address struct {
	ID        int     `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
