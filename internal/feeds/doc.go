// Package feeds wires the three realtime subscribers (prices, backoffice
// events, client role updates) plus the dashboard refresher into the state
// store.
//
// Each feed owns one socket handle and one polling fallback; both write
// whole server snapshots into the store, so the two paths need no lock
// between them. The last writer wins and at worst a read is transiently
// stale. Stopping a feed tears down all of it: the socket, its pending
// reconnect timer, and the poll interval.
package feeds
