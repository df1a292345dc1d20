// Package database provides the connection pool for the quote-tick store.
//
// The ingestor writes to a single TimescaleDB/PostgreSQL database; plain
// PostgreSQL works too, the hypertable conversion is best-effort.
package database
