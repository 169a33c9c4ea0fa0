// Package poller implements the interval refresh fallback.
//
// The poller:
//   - Fires the refresh once immediately, then on a fixed interval
//   - Runs regardless of socket health (a correctness backstop, not a
//     degraded mode)
//   - Skips a tick while the previous refresh is still in flight
//   - Stops cleanly and idempotently; the per-tick context is cancelled so
//     a straggling refresh cannot write after Stop
package poller
