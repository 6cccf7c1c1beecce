package ports

// TokenStore persists the bearer token across restarts. It is the client's
// only durable state: exactly one value, read at startup and before every
// outgoing request.
type TokenStore interface {
	// Load returns the persisted token, or "" when none is stored.
	Load() (string, error)
	Save(token string) error
	// Clear removes the token. Clearing an empty store is not an error.
	Clear() error
}
