// Package session holds the tab-lifetime authentication state: the bearer
// token, the resolved user profile, and the operations that move between
// them. The profile is never derived locally; whenever the token changes
// the Resolver re-fetches it from the profile endpoint.
package session

import (
	"context"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/api/metrics"
	"github.com/Zephyrodes/farmacia/internal/core/domain"
	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// Status is the session lifecycle state.
type Status int

const (
	// Unauthenticated: no token, no user.
	Unauthenticated Status = iota
	// Authenticating: a token is held and its profile resolution is in
	// flight. Route guards render a neutral placeholder in this state.
	Authenticating
	// Authenticated: the profile endpoint confirmed the token.
	Authenticated
	// Failed: the last login attempt was rejected.
	Failed
)

func (s Status) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "error"
	default:
		return "unauthenticated"
	}
}

// Snapshot is a value copy of the session state at one instant.
// Invariant: User is non-nil only when Status is Authenticated.
type Snapshot struct {
	Token  string
	User   *domain.User
	Status Status
}

// TokenChange is one entry of the token-change feed the Resolver consumes.
// Seq increases monotonically; only the resolution carrying the latest Seq
// is allowed to win.
type TokenChange struct {
	Seq   uint64
	Token string
}

// Store owns the session state. All mutation goes through its methods; it
// is safe for concurrent use, though the reference UI serializes access by
// disabling controls while calls are outstanding.
type Store struct {
	api    ports.Requester
	tokens ports.TokenStore
	log    zerolog.Logger

	mu        sync.Mutex
	token     string
	user      *domain.User
	status    Status
	seq       uint64
	changes   chan TokenChange
	observers []func(Snapshot)
}

// NewStore builds a Store. A token persisted by a previous run enters the
// Authenticating state immediately and emits a change, so the Resolver
// re-derives the profile on startup, the page-reload behaviour.
func NewStore(api ports.Requester, tokens ports.TokenStore, log zerolog.Logger) *Store {
	s := &Store{
		api:     api,
		tokens:  tokens,
		log:     log,
		status:  Unauthenticated,
		changes: make(chan TokenChange, 16),
	}

	token, err := tokens.Load()
	if err != nil {
		log.Warn().Err(err).Msg("token store unreadable at startup, starting unauthenticated")
		return s
	}
	if token != "" {
		s.token = token
		s.status = Authenticating
		s.pushChangeLocked()
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer invoked after every state change with a
// fresh snapshot. Observers run on the mutating goroutine; keep them cheap.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// TokenChanges exposes the feed the Resolver consumes. Only the latest
// change matters; older entries may be dropped under pressure.
func (s *Store) TokenChanges() <-chan TokenChange {
	return s.changes
}

// Login exchanges credentials for a token at the token-issuing endpoint.
// On success the token is persisted and the store enters Authenticating,
// which triggers profile resolution; ok is true and the caller should wait
// for the Authenticated snapshot. On failure any held token is cleared,
// the status becomes Failed, and ok is false.
//
// Overlapping calls are not serialized: the last call to settle wins.
func (s *Store) Login(ctx context.Context, username, password string) (bool, error) {
	s.setStatus(Authenticating)

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token domain.Token
	if err := s.api.PostForm(ctx, "/token", form, &token); err != nil {
		s.loginFailed()
		s.log.Info().Str("username", username).Msg("login rejected")
		return false, err
	}

	if err := s.tokens.Save(token.AccessToken); err != nil {
		s.loginFailed()
		return false, err
	}

	s.mu.Lock()
	s.token = token.AccessToken
	s.user = nil
	s.status = Authenticating
	s.pushChangeLocked()
	observers, snap := s.observersLocked()
	s.mu.Unlock()

	notify(observers, snap)
	s.log.Info().Str("username", username).Msg("login accepted, resolving profile")
	return true, nil
}

// Logout clears the persisted token and the in-memory user. Idempotent.
// The sequence bump guarantees an in-flight resolution can never
// re-populate the user afterwards.
func (s *Store) Logout() {
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted token")
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.status = Unauthenticated
	s.pushChangeLocked()
	observers, snap := s.observersLocked()
	s.mu.Unlock()

	notify(observers, snap)
}

// CompleteResolution applies the outcome of a profile fetch. Results whose
// sequence number is not the latest issued are discarded: the token changed
// again while the fetch was in flight. Any failure is treated as token
// expiry (the sole expiry detection mechanism) and forces a logout rather
// than surfacing an error.
func (s *Store) CompleteResolution(seq uint64, user *domain.User, err error) {
	s.mu.Lock()
	if seq != s.seq {
		latest := s.seq
		s.mu.Unlock()
		metrics.SessionResolutionsTotal.WithLabelValues("stale").Inc()
		s.log.Debug().Uint64("seq", seq).Uint64("latest", latest).Msg("stale profile resolution discarded")
		return
	}

	if err != nil {
		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.log.Warn().Err(clearErr).Msg("failed to clear persisted token")
		}
		s.token = ""
		s.user = nil
		s.status = Unauthenticated
		observers, snap := s.observersLocked()
		s.mu.Unlock()

		metrics.SessionResolutionsTotal.WithLabelValues("failed").Inc()
		s.log.Info().Err(err).Msg("profile resolution failed, session cleared")
		notify(observers, snap)
		return
	}

	s.user = user
	s.status = Authenticated
	observers, snap := s.observersLocked()
	s.mu.Unlock()

	metrics.SessionResolutionsTotal.WithLabelValues("resolved").Inc()
	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("session authenticated")
	notify(observers, snap)
}

func (s *Store) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	observers, snap := s.observersLocked()
	s.mu.Unlock()
	notify(observers, snap)
}

func (s *Store) loginFailed() {
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted token")
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.status = Failed
	s.pushChangeLocked()
	observers, snap := s.observersLocked()
	s.mu.Unlock()

	notify(observers, snap)
}

// pushChangeLocked bumps the sequence and publishes the change. If the feed
// is full the oldest entry is dropped; only the latest change matters.
func (s *Store) pushChangeLocked() {
	s.seq++
	change := TokenChange{Seq: s.seq, Token: s.token}
	for {
		select {
		case s.changes <- change:
			return
		default:
			select {
			case <-s.changes:
			default:
			}
		}
	}
}

func (s *Store) snapshotLocked() Snapshot {
	var user *domain.User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return Snapshot{Token: s.token, User: user, Status: s.status}
}

func (s *Store) observersLocked() ([]func(Snapshot), Snapshot) {
	observers := make([]func(Snapshot), len(s.observers))
	copy(observers, s.observers)
	return observers, s.snapshotLocked()
}

func notify(observers []func(Snapshot), snap Snapshot) {
	for _, fn := range observers {
		fn(snap)
	}
}
