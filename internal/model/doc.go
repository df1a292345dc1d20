// Package model defines shared data types for the AngelOne quote ingestor.
//
// Conventions:
//   - Prices: float64 currency units (the wire carries paise; scaled /100 at decode)
//   - Timestamps: time.Time, stamped with the ingestion-time clock at append
//   - Instrument tokens: strings (e.g. "2885" for RELIANCE on NSE)
package model
