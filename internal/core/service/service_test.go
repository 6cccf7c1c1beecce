package service

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/api"
	"github.com/Zephyrodes/farmacia/internal/apitest"
	"github.com/Zephyrodes/farmacia/internal/infrastructure/store"
)

// clientFor builds an API client authenticated as username against the fake
// backend. An empty username yields an anonymous client.
func clientFor(t *testing.T, srv *apitest.Server, username string) *api.Client {
	t.Helper()
	tokens := store.NewMemory()
	if username != "" {
		token := srv.IssueToken(username)
		if token == "" {
			t.Fatalf("no such account %q", username)
		}
		if err := tokens.Save(token); err != nil {
			t.Fatalf("save token: %v", err)
		}
	}
	return api.New(srv.URL(), tokens, 0, zerolog.Nop())
}

func startServer(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	return srv
}
