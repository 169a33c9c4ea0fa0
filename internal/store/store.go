// Package store holds the shared application state: the latest server
// snapshots of prices, settlements, balances, deposits, and the profile.
//
// Writes replace whole snapshots; the socket and the polling paths both
// write here and the last writer wins, which is safe because every write is
// an authoritative server snapshot, never a partial merge. Subscriptions
// carry no payload: a notification means "re-read the topic".
package store

import (
	"sync"

	"github.com/carbonport/deskcore/internal/model"
)

// Topic identifies a state slice for change notifications.
type Topic string

const (
	TopicPrices       Topic = "prices"
	TopicSettlements  Topic = "settlements"
	TopicBalances     Topic = "balances"
	TopicDeposits     Topic = "deposits"
	TopicProfile      Topic = "profile"
	TopicRequests     Topic = "requests"
	TopicKYCDocuments Topic = "kyc_documents"
)

// Store is an injected state container with typed reads and subscriptions.
type Store struct {
	mu sync.RWMutex

	prices    model.Prices
	hasPrices bool

	settlements []model.SettlementBatch
	balances    model.Balances
	hasBalances bool
	deposits    []model.Deposit
	requests    []model.OnboardingRequest
	kycDocs     []model.KYCDocument
	profile     model.Profile
	hasProfile  bool

	subMu   sync.Mutex
	subs    map[Topic]map[int]chan struct{}
	nextSub int
}

// New creates an empty store.
func New() *Store {
	return &Store{subs: make(map[Topic]map[int]chan struct{})}
}

// Subscribe registers for change notifications on a topic. The returned
// channel gets a zero-size signal per write (coalesced when the subscriber
// lags); the function unsubscribes and closes the channel.
func (s *Store) Subscribe(topic Topic) (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.subs[topic] == nil {
		s.subs[topic] = make(map[int]chan struct{})
	}

	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[topic][id] = ch

	unsub := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[topic][id]; ok {
			close(c)
			delete(s.subs[topic], id)
		}
	}

	return ch, unsub
}

func (s *Store) notify(topic Topic) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs[topic] {
		select {
		case ch <- struct{}{}:
		default: // already pending, notification coalesces
		}
	}
}

// SetPrices replaces the price snapshot.
func (s *Store) SetPrices(p model.Prices) {
	s.mu.Lock()
	s.prices = p
	s.hasPrices = true
	s.mu.Unlock()
	s.notify(TopicPrices)
}

// Prices returns the latest snapshot; ok is false before the first write.
func (s *Store) Prices() (model.Prices, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prices, s.hasPrices
}

// SetSettlements replaces the settlement list.
func (s *Store) SetSettlements(batches []model.SettlementBatch) {
	cp := make([]model.SettlementBatch, len(batches))
	copy(cp, batches)

	s.mu.Lock()
	s.settlements = cp
	s.mu.Unlock()
	s.notify(TopicSettlements)
}

// Settlements returns a copy of the settlement list.
func (s *Store) Settlements() []model.SettlementBatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]model.SettlementBatch, len(s.settlements))
	copy(cp, s.settlements)
	return cp
}

// PendingSettlements returns the non-terminal batches.
func (s *Store) PendingSettlements() []model.SettlementBatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := make([]model.SettlementBatch, 0, len(s.settlements))
	for _, b := range s.settlements {
		if !b.Status.Terminal() {
			pending = append(pending, b)
		}
	}
	return pending
}

// SetBalances replaces the balance snapshot.
func (s *Store) SetBalances(b model.Balances) {
	s.mu.Lock()
	s.balances = b
	s.hasBalances = true
	s.mu.Unlock()
	s.notify(TopicBalances)
}

// Balances returns the latest snapshot; ok is false before the first write.
func (s *Store) Balances() (model.Balances, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances, s.hasBalances
}

// SetDeposits replaces the deposit list.
func (s *Store) SetDeposits(deposits []model.Deposit) {
	cp := make([]model.Deposit, len(deposits))
	copy(cp, deposits)

	s.mu.Lock()
	s.deposits = cp
	s.mu.Unlock()
	s.notify(TopicDeposits)
}

// UpsertDeposit inserts or replaces one deposit by id (used by the
// backoffice feed, whose events carry single resources).
func (s *Store) UpsertDeposit(d model.Deposit) {
	s.mu.Lock()
	replaced := false
	for i := range s.deposits {
		if s.deposits[i].ID == d.ID {
			s.deposits[i] = d
			replaced = true
			break
		}
	}
	if !replaced {
		s.deposits = append(s.deposits, d)
	}
	s.mu.Unlock()
	s.notify(TopicDeposits)
}

// Deposits returns a copy of the deposit list.
func (s *Store) Deposits() []model.Deposit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]model.Deposit, len(s.deposits))
	copy(cp, s.deposits)
	return cp
}

// UpsertRequest inserts or replaces one onboarding request by id.
func (s *Store) UpsertRequest(r model.OnboardingRequest) {
	s.mu.Lock()
	replaced := false
	for i := range s.requests {
		if s.requests[i].ID == r.ID {
			s.requests[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		s.requests = append(s.requests, r)
	}
	s.mu.Unlock()
	s.notify(TopicRequests)
}

// Requests returns a copy of the onboarding request list.
func (s *Store) Requests() []model.OnboardingRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]model.OnboardingRequest, len(s.requests))
	copy(cp, s.requests)
	return cp
}

// UpsertKYCDocument inserts or replaces one document by id.
func (s *Store) UpsertKYCDocument(d model.KYCDocument) {
	s.mu.Lock()
	replaced := false
	for i := range s.kycDocs {
		if s.kycDocs[i].ID == d.ID {
			s.kycDocs[i] = d
			replaced = true
			break
		}
	}
	if !replaced {
		s.kycDocs = append(s.kycDocs, d)
	}
	s.mu.Unlock()
	s.notify(TopicKYCDocuments)
}

// RemoveKYCDocument drops a document by id; unknown ids are no-ops.
func (s *Store) RemoveKYCDocument(id string) {
	s.mu.Lock()
	for i := range s.kycDocs {
		if s.kycDocs[i].ID == id {
			s.kycDocs = append(s.kycDocs[:i], s.kycDocs[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.notify(TopicKYCDocuments)
}

// KYCDocuments returns a copy of the document list.
func (s *Store) KYCDocuments() []model.KYCDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]model.KYCDocument, len(s.kycDocs))
	copy(cp, s.kycDocs)
	return cp
}

// SetProfile replaces the profile snapshot.
func (s *Store) SetProfile(p model.Profile) {
	s.mu.Lock()
	s.profile = p
	s.hasProfile = true
	s.mu.Unlock()
	s.notify(TopicProfile)
}

// Profile returns the latest snapshot; ok is false before the first write.
func (s *Store) Profile() (model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile, s.hasProfile
}
