// Package metrics defines the Prometheus instrumentation for the ingestor.
//
// Counters cover every stage of the pipeline: frames off the wire, decode
// outcomes, sink appends, reconnects, and session restarts. Metrics are
// registered once; Register is safe to call from tests repeatedly.
package metrics
