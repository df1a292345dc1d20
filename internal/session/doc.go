// Package session acquires AngelOne SmartAPI session tokens.
//
// Login is a single synchronous request/response exchange against the
// loginByPassword endpoint. There is no retry at this layer: an auth
// failure ends the current session epoch and retry policy belongs to the
// pipeline orchestrator. Tokens are plain values handed to the connection
// supervisor per run; nothing here holds connection state.
package session
