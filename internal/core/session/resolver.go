package session

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// Resolver turns the store's token changes into profile fetches. It is the
// single subscriber of the token-change feed, started once at application
// startup; the store's sequence check makes out-of-order completions
// harmless, so each fetch runs on its own goroutine.
type Resolver struct {
	store *Store
	api   ports.Requester
	log   zerolog.Logger
}

func NewResolver(store *Store, api ports.Requester, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, api: api, log: log}
}

// Run consumes token changes until ctx is cancelled. Call it from a
// dedicated goroutine.
func (r *Resolver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-r.store.TokenChanges():
			if !ok {
				return
			}
			if change.Token == "" {
				// Logout or failed login; nothing to resolve.
				continue
			}
			go r.resolve(ctx, change)
		}
	}
}

func (r *Resolver) resolve(ctx context.Context, change TokenChange) {
	r.log.Debug().Uint64("seq", change.Seq).Msg("resolving profile")

	var user domain.User
	if err := r.api.Do(ctx, http.MethodGet, "/users/me", nil, &user, nil); err != nil {
		r.store.CompleteResolution(change.Seq, nil, err)
		return
	}
	r.store.CompleteResolution(change.Seq, &user, nil)
}
