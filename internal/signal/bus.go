// Package signal implements the balance-reconciliation broadcast.
//
// Any component that mutates balances (order execution, deposit clearing,
// swap execution) publishes an event; any component displaying balances
// subscribes and re-fetches from the server on receipt. The event carries
// no balance values on purpose: receipt only means "refresh now", which
// keeps stale writes from racing the display layer. Events are not
// persisted and never replayed to late subscribers.
package signal

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Cause names the balance-affecting action behind an event.
type Cause string

const (
	CauseOrderExecuted   Cause = "order_executed"
	CauseSwapExecuted    Cause = "swap_executed"
	CauseDepositCleared  Cause = "deposit_cleared"
	CauseDepositRejected Cause = "deposit_rejected"
)

// Event is one reconciliation notification.
type Event struct {
	ID     uuid.UUID
	Cause  Cause
	Source string // emitting component, for logs
	At     time.Time
}

// Bus is a many-to-many, fire-and-forget broker.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewBus creates a reconciliation bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener and returns its channel and an
// unsubscribe function. Unsubscribing closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, buffer)
	b.subs[id] = ch

	unsub := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			close(c)
			delete(b.subs, id)
		}
	}

	return ch, unsub
}

// Publish fans the event out to subscribers without blocking.
func (b *Bus) Publish(cause Cause, source string) Event {
	ev := Event{
		ID:     uuid.New(),
		Cause:  cause,
		Source: source,
		At:     time.Now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// drop if subscriber is slow; the next event triggers the same
			// re-fetch anyway
		}
	}

	return ev
}
