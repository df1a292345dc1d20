package model

import "time"

// -----------------------------------------------------------------------------
// Quote Data
// -----------------------------------------------------------------------------

// QuoteRecord is one decoded market tick, ready for the durable sink.
//
// A record has no identity beyond its fields: duplicates produced by a
// reconnect-induced re-subscribe are appended as-is.
type QuoteRecord struct {
	Token           string    // Instrument token (e.g. "2885")
	ObservedAt      time.Time // Ingestion-time clock, set by the sink at append
	LastTradedPrice float64   // Currency units
	Open            float64   // Day open, 0 when the frame omits it
	High            float64   // Day high, 0 when the frame omits it
	Low             float64   // Day low, 0 when the frame omits it
	Close           float64   // Previous close, 0 when the frame omits it
	Volume          float64   // Day traded volume, plain magnitude
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

// Subscription modes understood by the smart-stream endpoint.
const (
	ModeLTP       = 1
	ModeQuote     = 2
	ModeSnapQuote = 3
)

// Exchange type identifiers used in subscribe frames.
const (
	ExchangeNSECM = 1
	ExchangeNSEFO = 2
	ExchangeBSECM = 3
	ExchangeBSEFO = 4
	ExchangeMCXFO = 5
	ExchangeNCXFO = 7
	ExchangeCDEFO = 13
)

// ExchangeTokens groups instrument tokens under one exchange segment.
type ExchangeTokens struct {
	ExchangeType int      `yaml:"exchange_type" json:"exchangeType"`
	Tokens       []string `yaml:"tokens" json:"tokens"`
}

// Subscription is the immutable subscription descriptor. It is constructed
// once from configuration and re-sent verbatim on every (re)connection.
type Subscription struct {
	Mode      int              `yaml:"mode"`
	Exchanges []ExchangeTokens `yaml:"exchanges"`
}
