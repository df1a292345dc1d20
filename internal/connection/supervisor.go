package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rgarg/angelone-data/internal/decoder"
	"github.com/rgarg/angelone-data/internal/metrics"
	"github.com/rgarg/angelone-data/internal/model"
	"github.com/rgarg/angelone-data/internal/session"
)

// Supervisor owns the live stream connection for one session and drives
// the subscribe/heartbeat/reconnect state machine.
type Supervisor struct {
	cfg    Config
	sub    model.Subscription
	sink   Appender
	logger *slog.Logger

	mu    sync.Mutex
	state State
	stats Stats
}

// NewSupervisor creates a Supervisor for the given subscription and sink.
func NewSupervisor(cfg Config, sub model.Subscription, sink Appender, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.applyDefaults()
	return &Supervisor{
		cfg:    cfg,
		sub:    sub,
		sink:   sink,
		logger: logger,
		state:  StateDisconnected,
	}
}

// Run connects, subscribes, and streams until the context is cancelled or
// the reconnect budget is spent. The token pair is read-only for the whole
// run; token renewal means a new Run with new tokens.
//
// Returns ctx.Err() on cancellation and *ExhaustedError once MaxAttempts
// consecutive connection cycles have failed.
func (s *Supervisor) Run(ctx context.Context, tokens session.Tokens) error {
	bo := s.newBackoff()
	attempts := 0
	var lastErr error

	for {
		if ctx.Err() != nil {
			s.transition(StateClosing)
			return ctx.Err()
		}

		conn, err := s.connect(ctx, tokens)
		if err == nil {
			s.transition(StateStreaming)
			attempts = 0
			bo.Reset()
			s.setAttempts(0)

			err = s.stream(ctx, conn)
			conn.Close()

			if ctx.Err() != nil {
				s.transition(StateClosing)
				return ctx.Err()
			}
			s.logger.Warn("stream interrupted", "error", err)
		}

		lastErr = err
		attempts++
		s.setAttempts(attempts)

		if attempts >= s.cfg.MaxAttempts {
			s.transition(StateFailed)
			return &ExhaustedError{Attempts: attempts, Err: lastErr}
		}

		delay := bo.NextBackOff()
		metrics.Reconnects.Inc()
		s.bumpReconnects()
		s.logger.Warn("reconnecting",
			"attempt", attempts,
			"budget", s.cfg.MaxAttempts,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			s.transition(StateClosing)
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Stats returns a snapshot of the supervisor counters.
func (s *Supervisor) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.State = s.state
	return st
}

// newBackoff builds the reconnect delay schedule: deterministic doubling
// from the base delay up to the cap. Attempts are budgeted by count, not
// wall clock, so MaxElapsedTime stays disabled.
func (s *Supervisor) newBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.cfg.ReconnectBaseDelay
	bo.RandomizationFactor = 0
	bo.Multiplier = 2.0
	bo.MaxInterval = s.cfg.ReconnectMaxDelay
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// connect dials the stream endpoint and sends the subscribe frame.
func (s *Supervisor) connect(ctx context.Context, tokens session.Tokens) (*websocket.Conn, error) {
	s.transition(StateConnecting)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+tokens.AuthToken)
	header.Set("x-api-key", s.cfg.APIKey)
	header.Set("x-client-code", s.cfg.ClientCode)
	header.Set("x-feed-token", tokens.FeedToken)

	dialer := websocket.Dialer{
		HandshakeTimeout: s.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, header)
	if err != nil {
		s.transition(StateFailed)
		return nil, fmt.Errorf("dial stream: %w", err)
	}

	if err := s.subscribe(conn); err != nil {
		conn.Close()
		s.transition(StateFailed)
		return nil, err
	}
	s.transition(StateSubscribed)

	s.logger.Info("subscribed to stream",
		"url", s.cfg.URL,
		"mode", s.sub.Mode,
		"exchanges", len(s.sub.Exchanges),
	)

	return conn, nil
}

// subscribe sends the subscription descriptor as a single control frame.
// The upstream protocol sends no acknowledgement; absence of a prompt
// rejection is treated as success.
func (s *Supervisor) subscribe(conn *websocket.Conn) error {
	payload, err := json.Marshal(subscribeRequest{
		CorrelationID: uuid.NewString(),
		Action:        actionSubscribe,
		Params: subscribeParams{
			Mode:      s.sub.Mode,
			TokenList: s.sub.Exchanges,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal subscribe frame: %w", err)
	}

	conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("send subscribe frame: %w", err)
	}
	return nil
}

// stream runs the receive loop until the connection dies or ctx is
// cancelled. The returned error states why streaming ended.
func (s *Supervisor) stream(ctx context.Context, conn *websocket.Conn) error {
	activity := make(chan struct{}, 1)
	var watchdogFired atomic.Bool

	conn.SetPongHandler(func(string) error {
		signal(activity)
		return nil
	})

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go s.watchdog(watchCtx, conn, activity, &watchdogFired)

	// Unblock ReadMessage deterministically on cancellation.
	go func() {
		<-watchCtx.Done()
		if ctx.Err() != nil {
			conn.Close()
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return ctx.Err()
			case watchdogFired.Load():
				metrics.WatchdogTimeouts.Inc()
				return ErrWatchdogTimeout
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure):
				return fmt.Errorf("%w: %v", ErrClosedByPeer, err)
			default:
				return fmt.Errorf("read frame: %w", err)
			}
		}
		signal(activity)

		switch msgType {
		case websocket.BinaryMessage:
			metrics.FramesTotal.WithLabelValues("binary").Inc()
			s.handleBinary(ctx, data)
		case websocket.TextMessage:
			// Subscribe acks and error notices; nothing to act on.
			metrics.FramesTotal.WithLabelValues("text").Inc()
			s.logger.Debug("text frame", "len", len(data))
		}
	}
}

// handleBinary decodes one frame and forwards the record to the sink.
// Both failure modes are contained: the connection stays open.
func (s *Supervisor) handleBinary(ctx context.Context, data []byte) {
	s.mu.Lock()
	s.stats.Frames++
	s.mu.Unlock()

	rec, err := decoder.Decode(data)
	if err != nil {
		metrics.DecodeErrors.Inc()
		s.logger.Warn("dropping undecodable frame", "len", len(data), "error", err)
		return
	}

	if err := s.sink.Append(ctx, rec); err != nil {
		s.logger.Error("append failed, record dropped", "token", rec.Token, "error", err)
		return
	}

	s.mu.Lock()
	s.stats.Records++
	s.mu.Unlock()
}

// watchdog pings after ReadTimeout of silence and closes the connection
// when no reply (or any other traffic) arrives within PongTimeout.
func (s *Supervisor) watchdog(ctx context.Context, conn *websocket.Conn, activity <-chan struct{}, fired *atomic.Bool) {
	idle := time.NewTimer(s.cfg.ReadTimeout)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-activity:
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(s.cfg.ReadTimeout)

		case <-idle.C:
			deadline := time.Now().Add(s.cfg.PongTimeout)
			if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				s.logger.Debug("liveness ping failed", "error", err)
			}

			select {
			case <-ctx.Done():
				return
			case <-activity:
				idle.Reset(s.cfg.ReadTimeout)
			case <-time.After(s.cfg.PongTimeout):
				fired.Store(true)
				s.logger.Warn("liveness probe unanswered, closing connection",
					"read_timeout", s.cfg.ReadTimeout,
					"pong_timeout", s.cfg.PongTimeout,
				)
				conn.Close()
				return
			}
		}
	}
}

// signal performs a non-blocking send on an activity channel.
func signal(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (s *Supervisor) transition(next State) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()

	metrics.ConnectionState.Set(float64(next))
	if prev != next {
		s.logger.Debug("state transition", "from", prev.String(), "to", next.String())
	}
}

func (s *Supervisor) setAttempts(n int) {
	s.mu.Lock()
	s.stats.Attempts = n
	s.mu.Unlock()
}

func (s *Supervisor) bumpReconnects() {
	s.mu.Lock()
	s.stats.Reconnects++
	s.mu.Unlock()
}
