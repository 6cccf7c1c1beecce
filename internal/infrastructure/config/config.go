package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every runtime setting of the pharmacy client.
type Config struct {
	// APIBaseURL is the address of the remote pharmacy API. All business
	// logic lives behind it; this process only issues requests.
	APIBaseURL string `env:"API_BASE_URL, default=http://localhost:8000"`
	Env        string `env:"ENV,          default=development"`
	LogLevel   string `env:"LOG_LEVEL,    default=info"`

	// TokenStorePath is the sqlite file holding the persisted bearer token,
	// the client's only durable state.
	TokenStorePath string `env:"TOKEN_STORE_PATH, default=farmacia.db"`

	// HTTPTimeout bounds each outgoing request. Zero means the transport
	// default applies; no application-level timeout is layered on top.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=0"`

	// TrackingPollInterval is the fixed delay between order tracking
	// polls. No backoff, no jitter.
	TrackingPollInterval time.Duration `env:"TRACKING_POLL_INTERVAL, default=3s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
