package config

import (
	"time"

	"github.com/rgarg/angelone-data/internal/model"
)

// Default values for optional configuration fields.
const (
	DefaultAuthURL            = "https://apiconnect.angelone.in"
	DefaultWSURL              = "wss://smartapisocket.angelone.in/smart-stream"
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 10
	DefaultMinConns           = 2
	DefaultReadTimeout        = 30 * time.Second
	DefaultPongTimeout        = 10 * time.Second
	DefaultWriteTimeout       = 5 * time.Second
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
	DefaultMaxAttempts        = 10
	DefaultCooldown           = 10 * time.Second
	DefaultMetricsPort        = 9090
	DefaultMetricsPath        = "/metrics"
	DefaultSubscriptionMode   = model.ModeQuote
)

func (c *IngestorConfig) applyDefaults() {
	// Angel endpoints
	if c.Angel.AuthURL == "" {
		c.Angel.AuthURL = DefaultAuthURL
	}
	if c.Angel.WSURL == "" {
		c.Angel.WSURL = DefaultWSURL
	}

	// Subscription
	if c.Subscription.Mode == 0 {
		c.Subscription.Mode = DefaultSubscriptionMode
	}

	// Database
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Stream
	if c.Stream.ReadTimeout == 0 {
		c.Stream.ReadTimeout = DefaultReadTimeout
	}
	if c.Stream.PongTimeout == 0 {
		c.Stream.PongTimeout = DefaultPongTimeout
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultWriteTimeout
	}
	if c.Stream.ReconnectBaseDelay == 0 {
		c.Stream.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Stream.ReconnectMaxDelay == 0 {
		c.Stream.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Stream.MaxAttempts == 0 {
		c.Stream.MaxAttempts = DefaultMaxAttempts
	}

	// Pipeline
	if c.Pipeline.Cooldown == 0 {
		c.Pipeline.Cooldown = DefaultCooldown
	}

	// Metrics
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
