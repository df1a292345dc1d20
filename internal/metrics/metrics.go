package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// FramesTotal counts inbound WebSocket frames by kind (binary, text, close).
	FramesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ingestor",
		Subsystem: "ws",
		Name:      "frames_total",
		Help:      "Total number of frames received from the stream",
	}, []string{"kind"})

	// DecodeErrors counts binary frames dropped because they failed to decode.
	DecodeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ingestor",
		Subsystem: "decoder",
		Name:      "errors_total",
		Help:      "Total number of frames dropped due to decode failures",
	})

	// RecordsWritten counts rows successfully appended to the sink.
	RecordsWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ingestor",
		Subsystem: "sink",
		Name:      "records_written_total",
		Help:      "Total number of quote records appended to the store",
	})

	// WriteErrors counts appends that failed and were dropped.
	WriteErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ingestor",
		Subsystem: "sink",
		Name:      "write_errors_total",
		Help:      "Total number of append failures (records dropped)",
	})

	// Reconnects counts reconnect attempts inside a session.
	Reconnects = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ingestor",
		Subsystem: "ws",
		Name:      "reconnects_total",
		Help:      "Total number of reconnect attempts",
	})

	// WatchdogTimeouts counts liveness probes that went unanswered.
	WatchdogTimeouts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ingestor",
		Subsystem: "ws",
		Name:      "watchdog_timeouts_total",
		Help:      "Total number of connections declared dead by the watchdog",
	})

	// Sessions counts full session (re)starts, including the first.
	Sessions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ingestor",
		Subsystem: "pipeline",
		Name:      "sessions_total",
		Help:      "Total number of authenticated sessions started",
	})

	// ConnectionState exposes the supervisor state as a gauge
	// (0 disconnected .. 5 failed, see connection.State).
	ConnectionState = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ingestor",
		Subsystem: "ws",
		Name:      "connection_state",
		Help:      "Current connection supervisor state",
	})
)

// Register registers all metrics in the given registerer, or the default
// registerer when none is supplied. Subsequent calls are no-ops.
func Register(registerers ...prometheus.Registerer) {
	once.Do(func() {
		reg := prometheus.Registerer(prometheus.DefaultRegisterer)
		if len(registerers) > 0 && registerers[0] != nil {
			reg = registerers[0]
		}
		reg.MustRegister(
			FramesTotal,
			DecodeErrors,
			RecordsWritten,
			WriteErrors,
			Reconnects,
			WatchdogTimeouts,
			Sessions,
			ConnectionState,
		)
	})
}
