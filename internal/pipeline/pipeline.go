package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rgarg/angelone-data/internal/connection"
	"github.com/rgarg/angelone-data/internal/metrics"
	"github.com/rgarg/angelone-data/internal/session"
)

// DefaultCooldown is the pause between ingestion sessions after a
// terminal failure.
const DefaultCooldown = 10 * time.Second

// TokenSource produces fresh session tokens for a streaming session.
type TokenSource interface {
	Login(ctx context.Context) (session.Tokens, error)
}

// Runner drives one streaming session to its terminal state.
type Runner interface {
	Run(ctx context.Context, tokens session.Tokens) error
}

// Store prepares the durable sink before ingestion starts.
type Store interface {
	EnsureSchema(ctx context.Context) error
}

// Pipeline restarts the ingestion cycle forever: bootstrap the schema,
// log in, stream until the supervisor gives up, cool down, repeat.
type Pipeline struct {
	auth     TokenSource
	runner   Runner
	store    Store
	cooldown time.Duration
	logger   *slog.Logger

	schemaReady bool
}

// New creates a pipeline from pre-built stages. A non-positive cooldown
// falls back to DefaultCooldown.
func New(auth TokenSource, runner Runner, store Store, cooldown time.Duration, logger *slog.Logger) *Pipeline {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		auth:     auth,
		runner:   runner,
		store:    store,
		cooldown: cooldown,
		logger:   logger,
	}
}

// Run executes ingestion cycles until ctx is cancelled. Every failure
// inside a cycle is logged and absorbed; the only return value is
// ctx.Err().
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		if err := p.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("pipeline stopping", "reason", ctx.Err())
				return ctx.Err()
			}
			p.logger.Error("ingestion cycle ended", "error", err, "cooldown", p.cooldown)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-time.After(p.cooldown):
		}
	}
}

// runCycle performs one bootstrap-login-stream pass.
func (p *Pipeline) runCycle(ctx context.Context) error {
	if !p.schemaReady {
		if err := p.store.EnsureSchema(ctx); err != nil {
			return err
		}
		p.schemaReady = true
		p.logger.Info("store schema ready")
	}

	tokens, err := p.auth.Login(ctx)
	if err != nil {
		return err
	}
	p.logger.Info("session established")

	metrics.Sessions.Inc()
	err = p.runner.Run(ctx, tokens)

	var exhausted *connection.ExhaustedError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &exhausted):
		p.logger.Warn("reconnect budget exhausted",
			"attempts", exhausted.Attempts,
			"cause", exhausted.Err,
		)
		return err
	default:
		return err
	}
}
