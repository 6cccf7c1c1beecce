package ports

import (
	"context"
	"net/http"
	"net/url"
)

// Requester is the single configured HTTP client every service and store
// talks through. Implementations attach the persisted bearer token to each
// request when one is present; they never retry, never time out beyond the
// transport default, and never mutate session state.
//
// body is JSON-encoded when non-nil; out is JSON-decoded into when non-nil.
// extra headers are applied after the defaults, so callers can add headers
// such as Idempotency-Key, but Authorization is always owned by the client.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any, extra http.Header) error

	// PostForm sends an application/x-www-form-urlencoded body. The
	// token-issuing endpoint is the only consumer.
	PostForm(ctx context.Context, path string, form url.Values, out any) error
}
