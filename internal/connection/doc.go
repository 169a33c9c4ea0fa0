// Package connection implements the per-subscriber WebSocket lifecycle.
//
// Each feed (prices, backoffice events, client role updates) owns one
// Handle. A handle guarantees:
//   - at most one live socket at any time (re-entrant Connect is a no-op)
//   - exactly one reconnect attempt scheduled after an unexpected close,
//     after a fixed per-subscriber delay
//   - explicit Close cancels any pending reconnect and is idempotent
//   - heartbeat frames refresh liveness without reaching the application
//
// Transport errors are never fatal to the caller: they surface as state
// transitions and optional callbacks while the polling fallback keeps the
// subscriber's data eventually consistent.
package connection
