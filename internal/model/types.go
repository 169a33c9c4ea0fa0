package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Trading Vocabulary
// -----------------------------------------------------------------------------

// CertificateType identifies a traded emission-certificate type.
type CertificateType string

const (
	CertificateCEA CertificateType = "CEA" // China ETS allowance
	CertificateEUA CertificateType = "EUA" // EU ETS allowance
)

// Market identifies a trading venue on the platform.
type Market string

const (
	MarketCEACash Market = "CEA_CASH" // CEA against EUR
	MarketSwap    Market = "SWAP"     // CEA against EUA
)

// Side is the direction of an order.
type Side string

const (
	SideBid Side = "BID"
	SideAsk Side = "ASK"
)

// CounterpartyRole describes the standing-liquidity role of a market maker.
type CounterpartyRole string

const (
	RoleCEASeller CounterpartyRole = "CEA_SELLER"
	RoleCEABuyer  CounterpartyRole = "CEA_BUYER"
	RoleEUAOffer  CounterpartyRole = "EUA_OFFER"
)

// -----------------------------------------------------------------------------
// Balances
// -----------------------------------------------------------------------------

// AssetBalance is one asset's holdings as reported by the server.
// Available is total minus amounts locked in open orders; the client never
// recomputes it.
type AssetBalance struct {
	Total     decimal.Decimal
	Available decimal.Decimal
}

// Locked returns the amount committed to open orders.
func (b AssetBalance) Locked() decimal.Decimal {
	return b.Total.Sub(b.Available)
}

// Balances groups the three platform assets.
type Balances struct {
	EUR AssetBalance
	CEA AssetBalance
	EUA AssetBalance
}

// CounterpartySnapshot is a market maker as seen by order-placement forms.
type CounterpartySnapshot struct {
	ID       string
	Name     string
	Role     CounterpartyRole
	Balances Balances
}

// -----------------------------------------------------------------------------
// Settlement
// -----------------------------------------------------------------------------

// SettlementStatus tracks a batch through registry/custody transfer.
type SettlementStatus string

const (
	StatusPending           SettlementStatus = "PENDING"
	StatusTransferInitiated SettlementStatus = "TRANSFER_INITIATED"
	StatusInTransit         SettlementStatus = "IN_TRANSIT"
	StatusAtCustody         SettlementStatus = "AT_CUSTODY"
	StatusSettled           SettlementStatus = "SETTLED"
	StatusFailed            SettlementStatus = "FAILED"
)

// happyPath is the canonical status ordering. FAILED sits outside it.
var happyPath = []SettlementStatus{
	StatusPending,
	StatusTransferInitiated,
	StatusInTransit,
	StatusAtCustody,
	StatusSettled,
}

// HappyPath returns the canonical five-stage ordering.
func HappyPath() []SettlementStatus {
	stages := make([]SettlementStatus, len(happyPath))
	copy(stages, happyPath)
	return stages
}

// Ordinal returns the status position on the happy path, or -1 for FAILED
// and unknown statuses.
func (s SettlementStatus) Ordinal() int {
	for i, st := range happyPath {
		if st == s {
			return i
		}
	}
	return -1
}

// Terminal reports whether no further transitions are possible.
func (s SettlementStatus) Terminal() bool {
	return s == StatusSettled || s == StatusFailed
}

// Valid reports whether the status belongs to the platform vocabulary.
func (s SettlementStatus) Valid() bool {
	return s == StatusFailed || s.Ordinal() >= 0
}

// SettlementType identifies what kind of trade produced a batch.
type SettlementType string

const (
	SettlementCEAPurchase  SettlementType = "CEA_PURCHASE"
	SettlementSwapCEAToEUA SettlementType = "SWAP_CEA_TO_EUA"
)

// StatusHistoryEntry is one server-confirmed transition in a batch timeline.
type StatusHistoryEntry struct {
	Status SettlementStatus
	At     time.Time
	Note   string
}

// SettlementBatch is a registry transfer tracked from trade match through
// delivery. Status is server-owned; the client only reads it.
type SettlementBatch struct {
	ID                     string
	BatchReference         string
	SettlementType         SettlementType
	AssetType              CertificateType
	Quantity               decimal.Decimal
	Price                  decimal.Decimal
	TotalValueEUR          decimal.Decimal
	Status                 SettlementStatus
	ExpectedSettlementDate time.Time
	ActualSettlementDate   *time.Time
	CreatedAt              time.Time

	// ProgressPercent is the server-supplied figure when present; nil means
	// the client derives it (see internal/settlement).
	ProgressPercent *float64

	Timeline []StatusHistoryEntry
}

// -----------------------------------------------------------------------------
// Orders and Fees
// -----------------------------------------------------------------------------

// Order is an order-placement request before submission.
type Order struct {
	ClientReference string // uuid assigned at form construction
	Market          Market
	Side            Side
	CertificateType CertificateType
	CounterpartyID  string
	Price           decimal.Decimal
	Quantity        decimal.Decimal
}

// FeeSource records where a fee rate came from.
type FeeSource string

const (
	FeeSourceConfigured FeeSource = "configured"
	FeeSourceDefault    FeeSource = "default"
)

// FeeQuote is the effective fee rate for a market/side pair.
type FeeQuote struct {
	Market Market
	Side   Side
	Rate   decimal.Decimal // in [0,1)
	Source FeeSource
}

// -----------------------------------------------------------------------------
// Prices
// -----------------------------------------------------------------------------

// Prices is a full price-feed snapshot. Each message replaces the previous
// snapshot wholesale.
type Prices struct {
	CEAPriceEUR decimal.Decimal
	EUAPriceEUR decimal.Decimal
	SwapRatio   decimal.Decimal
	UpdatedAt   time.Time
}

// -----------------------------------------------------------------------------
// Backoffice Resources
// -----------------------------------------------------------------------------

// DepositStatus tracks a client deposit through review.
type DepositStatus string

const (
	DepositPendingReview DepositStatus = "PENDING_REVIEW"
	DepositAMLHold       DepositStatus = "AML_HOLD"
	DepositCleared       DepositStatus = "CLEARED"
	DepositRejected      DepositStatus = "REJECTED"
)

// Deposit is a client funding event awaiting backoffice action.
type Deposit struct {
	ID        string
	ClientID  string
	Amount    decimal.Decimal
	Currency  string
	Status    DepositStatus
	Reference string
	CreatedAt time.Time
}

// KYCDocument is a compliance document attached to an onboarding request.
type KYCDocument struct {
	ID         string
	RequestID  string
	Kind       string
	FileName   string
	Status     string
	UploadedAt time.Time
}

// OnboardingRequest is a client application visible on the backoffice feed.
type OnboardingRequest struct {
	ID          string
	CompanyName string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Profile is the authenticated client's account view.
type Profile struct {
	ID    string
	Email string
	Role  string
}
