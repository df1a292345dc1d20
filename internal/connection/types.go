package connection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rgarg/angelone-data/internal/model"
)

// Errors
var (
	// ErrClosedByPeer indicates the upstream closed the connection.
	ErrClosedByPeer = errors.New("connection closed by peer")

	// ErrWatchdogTimeout indicates the liveness probe went unanswered.
	ErrWatchdogTimeout = errors.New("liveness probe unanswered")
)

// ExhaustedError is returned when the reconnect budget for one session is
// spent. The orchestrator responds by acquiring a fresh session.
type ExhaustedError struct {
	Attempts int
	Err      error // last connection error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("reconnect budget exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// State is the supervisor's connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
	StateStreaming
	StateClosing
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateStreaming:
		return "streaming"
	case StateClosing:
		return "closing"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Appender is the sink consumed by the supervisor. A returned error is
// logged and the record dropped; it never ends the receive loop.
type Appender interface {
	Append(ctx context.Context, rec model.QuoteRecord) error
}

// Config configures a Supervisor.
type Config struct {
	URL        string // smart-stream WebSocket URL
	APIKey     string // x-api-key header
	ClientCode string // x-client-code header

	ReadTimeout        time.Duration // inactivity window before a liveness probe
	PongTimeout        time.Duration // probe reply window
	WriteTimeout       time.Duration // deadline for subscribe/control writes
	HandshakeTimeout   time.Duration // WebSocket dial deadline
	ReconnectBaseDelay time.Duration // first backoff delay
	ReconnectMaxDelay  time.Duration // backoff cap
	MaxAttempts        int           // consecutive failed cycles before giving up
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:        30 * time.Second,
		PongTimeout:        10 * time.Second,
		WriteTimeout:       5 * time.Second,
		HandshakeTimeout:   10 * time.Second,
		ReconnectBaseDelay: 1 * time.Second,
		ReconnectMaxDelay:  60 * time.Second,
		MaxAttempts:        10,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.PongTimeout <= 0 {
		c.PongTimeout = d.PongTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = d.HandshakeTimeout
	}
	if c.ReconnectBaseDelay <= 0 {
		c.ReconnectBaseDelay = d.ReconnectBaseDelay
	}
	if c.ReconnectMaxDelay <= 0 {
		c.ReconnectMaxDelay = d.ReconnectMaxDelay
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
}

// Stats is a snapshot of supervisor counters for health reporting.
type Stats struct {
	State      State
	Attempts   int    // failed cycles since the last successful connection
	Frames     uint64 // binary frames seen this session
	Records    uint64 // records forwarded to the sink
	Reconnects uint64 // reconnect waits performed this session
}

// actionSubscribe is the subscribe action code in the control frame.
const actionSubscribe = 1

// subscribeRequest is the outbound subscribe control frame.
type subscribeRequest struct {
	CorrelationID string          `json:"correlationID"`
	Action        int             `json:"action"`
	Params        subscribeParams `json:"params"`
}

type subscribeParams struct {
	Mode      int                    `json:"mode"`
	TokenList []model.ExchangeTokens `json:"tokenList"`
}
