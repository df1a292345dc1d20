package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rgarg/angelone-data/internal/metrics"
	"github.com/rgarg/angelone-data/internal/model"
)

// execer is the slice of pgxpool.Pool the writer needs.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS quote_ticks (
	token             TEXT             NOT NULL,
	observed_at       TIMESTAMPTZ      NOT NULL,
	last_traded_price DOUBLE PRECISION NOT NULL,
	open_price        DOUBLE PRECISION NOT NULL,
	high_price        DOUBLE PRECISION NOT NULL,
	low_price         DOUBLE PRECISION NOT NULL,
	close_price       DOUBLE PRECISION NOT NULL,
	volume            DOUBLE PRECISION NOT NULL
)`

const createHypertableSQL = `SELECT create_hypertable('quote_ticks', 'observed_at', if_not_exists => TRUE)`

const createIndexSQL = `CREATE INDEX IF NOT EXISTS quote_ticks_token_ts_idx ON quote_ticks (token, observed_at)`

const insertSQL = `
INSERT INTO quote_ticks (token, observed_at, last_traded_price, open_price, high_price, low_price, close_price, volume)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Writer appends quote records to the quote_ticks table.
type Writer struct {
	db     execer
	pool   *pgxpool.Pool // kept for Ping; nil in tests
	logger *slog.Logger
	now    func() time.Time
}

// NewWriter creates a Writer over the given pool.
func NewWriter(pool *pgxpool.Pool, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		db:     pool,
		pool:   pool,
		logger: logger,
		now:    time.Now,
	}
}

// EnsureSchema creates the quote_ticks table and index if they do not
// exist. Idempotent; safe to call on every bootstrap. The hypertable
// conversion is best-effort so plain PostgreSQL keeps working.
func (w *Writer) EnsureSchema(ctx context.Context) error {
	if _, err := w.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create quote_ticks table: %w", err)
	}

	if _, err := w.db.Exec(ctx, createHypertableSQL); err != nil {
		w.logger.Debug("hypertable conversion skipped", "error", err)
	}

	if _, err := w.db.Exec(ctx, createIndexSQL); err != nil {
		return fmt.Errorf("create quote_ticks index: %w", err)
	}

	w.logger.Info("quote_ticks schema ensured")
	return nil
}

// Append writes one record as a single row, stamped with the current
// wall clock. The caller is expected to log and drop the returned error:
// the write path is at-most-once by design.
func (w *Writer) Append(ctx context.Context, rec model.QuoteRecord) error {
	rec.ObservedAt = w.now()

	_, err := w.db.Exec(ctx, insertSQL,
		rec.Token,
		rec.ObservedAt,
		rec.LastTradedPrice,
		rec.Open,
		rec.High,
		rec.Low,
		rec.Close,
		rec.Volume,
	)
	if err != nil {
		metrics.WriteErrors.Inc()
		return fmt.Errorf("insert quote tick: %w", err)
	}

	metrics.RecordsWritten.Inc()
	return nil
}

// Ping verifies the store connection is healthy.
func (w *Writer) Ping(ctx context.Context) error {
	if w.pool == nil {
		return nil
	}
	return w.pool.Ping(ctx)
}
