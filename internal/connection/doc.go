// Package connection implements the Connection Supervisor.
//
// The supervisor owns one live WebSocket to the smart-stream endpoint for
// the lifetime of a session:
//   - dials with the session token pair presented as headers
//   - sends the subscribe frame immediately after each (re)connection
//   - decodes inbound binary frames and forwards records to the sink
//   - runs a watchdog that pings after an inactivity window and declares
//     the connection dead when the probe goes unanswered
//   - reconnects with exponential backoff until the attempt budget is
//     spent, then returns ExhaustedError to the orchestrator
//
// Per-frame failures (decode, append) are contained here and never end
// the connection; connection failures end the connection but not the
// session; only an exhausted reconnect budget ends the session.
package connection
