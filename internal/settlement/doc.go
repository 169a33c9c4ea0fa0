// Package settlement derives display metrics from settlement batches.
//
// Batches move along PENDING → TRANSFER_INITIATED → IN_TRANSIT →
// AT_CUSTODY → SETTLED, with FAILED reachable from any non-terminal state.
// All state transitions are server-confirmed; this package only computes
// projections (stage completion, days remaining, progress) and validates
// transitions, it never advances a batch itself.
package settlement
