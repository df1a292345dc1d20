package config

import (
	"errors"
	"fmt"

	"github.com/rgarg/angelone-data/internal/model"
)

// Validate checks that all required fields are set and values are valid.
func (c *IngestorConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Angel.validate(); err != nil {
		return err
	}

	switch c.Subscription.Mode {
	case model.ModeLTP, model.ModeQuote, model.ModeSnapQuote:
	default:
		return fmt.Errorf("subscription.mode must be 1 (ltp), 2 (quote) or 3 (snap quote), got %d", c.Subscription.Mode)
	}
	if len(c.Subscription.Exchanges) == 0 {
		return errors.New("subscription.exchanges must contain at least one entry")
	}
	for i, ex := range c.Subscription.Exchanges {
		if ex.ExchangeType < 1 {
			return fmt.Errorf("subscription.exchanges[%d].exchange_type must be >= 1", i)
		}
		if len(ex.Tokens) == 0 {
			return fmt.Errorf("subscription.exchanges[%d].tokens must contain at least one token", i)
		}
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Stream.ReadTimeout <= 0 {
		return errors.New("stream.read_timeout must be > 0")
	}
	if c.Stream.PongTimeout <= 0 {
		return errors.New("stream.pong_timeout must be > 0")
	}
	if c.Stream.MaxAttempts < 1 {
		return errors.New("stream.max_attempts must be >= 1")
	}
	if c.Stream.ReconnectBaseDelay > c.Stream.ReconnectMaxDelay {
		return fmt.Errorf("stream.reconnect_base_delay (%v) cannot exceed reconnect_max_delay (%v)",
			c.Stream.ReconnectBaseDelay, c.Stream.ReconnectMaxDelay)
	}

	if c.Pipeline.Cooldown <= 0 {
		return errors.New("pipeline.cooldown must be > 0")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (a *AngelConfig) validate() error {
	if a.ClientCode == "" {
		return errors.New("angel.client_code is required")
	}
	if a.PIN == "" {
		return errors.New("angel.pin is required")
	}
	if a.TOTP == "" {
		return errors.New("angel.totp is required")
	}
	if a.APIKey == "" {
		return errors.New("angel.api_key is required")
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
