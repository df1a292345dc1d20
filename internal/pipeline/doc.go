// Package pipeline ties the ingestion stages together: it prepares the
// store schema, obtains fresh session tokens, and keeps the stream
// supervisor running, pausing for a cooldown after every terminal
// failure before starting over. The loop ends only when the context is
// cancelled.
package pipeline
