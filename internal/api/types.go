package api

import "github.com/shopspring/decimal"

// Wire representations: snake_case JSON bodies shared by the REST API and
// the WebSocket feed payloads (feed `data` fields carry the same resource
// shapes). Conversion to internal/model lives in convert.go.

// APIAssetBalance is one asset's holdings on the wire.
type APIAssetBalance struct {
	Total     decimal.Decimal `json:"total"`
	Available decimal.Decimal `json:"available"`
}

// APIBalances groups the platform assets.
type APIBalances struct {
	EUR APIAssetBalance `json:"eur"`
	CEA APIAssetBalance `json:"cea"`
	EUA APIAssetBalance `json:"eua"`
}

// APICounterparty is a market maker entry.
type APICounterparty struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Role     string      `json:"role"`
	Balances APIBalances `json:"balances"`
}

// APIStatusEntry is one settlement timeline transition.
type APIStatusEntry struct {
	Status string `json:"status"`
	At     string `json:"at"`
	Note   string `json:"note,omitempty"`
}

// APISettlement is a settlement batch.
type APISettlement struct {
	ID                     string           `json:"id"`
	BatchReference         string           `json:"batch_reference"`
	SettlementType         string           `json:"settlement_type"`
	AssetType              string           `json:"asset_type"`
	Quantity               decimal.Decimal  `json:"quantity"`
	Price                  decimal.Decimal  `json:"price"`
	TotalValueEUR          decimal.Decimal  `json:"total_value_eur"`
	Status                 string           `json:"status"`
	ExpectedSettlementDate string           `json:"expected_settlement_date"`
	ActualSettlementDate   string           `json:"actual_settlement_date,omitempty"`
	CreatedAt              string           `json:"created_at"`
	ProgressPercent        *float64         `json:"progress_percent,omitempty"`
	Timeline               []APIStatusEntry `json:"timeline,omitempty"`
}

// APIPrices is a full price snapshot, also the price-feed frame body.
type APIPrices struct {
	CEAPriceEUR decimal.Decimal `json:"cea_price_eur"`
	EUAPriceEUR decimal.Decimal `json:"eua_price_eur"`
	SwapRatio   decimal.Decimal `json:"swap_ratio"`
	UpdatedAt   string          `json:"updated_at"`
}

// APIDeposit is a client deposit awaiting backoffice review.
type APIDeposit struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"client_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// APIKYCDocument is a compliance document on an onboarding request.
type APIKYCDocument struct {
	ID         string `json:"id"`
	RequestID  string `json:"request_id"`
	Kind       string `json:"kind"`
	FileName   string `json:"file_name"`
	Status     string `json:"status"`
	UploadedAt string `json:"uploaded_at"`
}

// APIOnboardingRequest is a client application.
type APIOnboardingRequest struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// APIProfile is the authenticated client's account.
type APIProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// APIOrderRequest is the outbound order-placement body.
type APIOrderRequest struct {
	ClientReference string          `json:"client_reference"`
	Market          string          `json:"market"`
	Side            string          `json:"side"`
	CertificateType string          `json:"certificate_type"`
	CounterpartyID  string          `json:"counterparty_id"`
	Price           decimal.Decimal `json:"price"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// APIOrderAck is the server's answer to an order placement.
type APIOrderAck struct {
	OrderID           string `json:"order_id"`
	Status            string `json:"status"`
	SettlementBatchID string `json:"settlement_batch_id,omitempty"`
}

// APIOrderPreview is the server-computed cost breakdown.
type APIOrderPreview struct {
	GrossTotal decimal.Decimal `json:"gross_total"`
	FeeRate    decimal.Decimal `json:"fee_rate"`
	FeeAmount  decimal.Decimal `json:"fee_amount"`
	NetTotal   decimal.Decimal `json:"net_total"`
}

// APIFeeRate is the effective fee for a market.
type APIFeeRate struct {
	Market string          `json:"market"`
	Rate   decimal.Decimal `json:"rate"`
}

// Response envelopes.

type settlementsResponse struct {
	Settlements []APISettlement `json:"settlements"`
}

type settlementResponse struct {
	Settlement APISettlement `json:"settlement"`
}

type marketMakersResponse struct {
	MarketMakers []APICounterparty `json:"market_makers"`
}

type balancesResponse struct {
	Balances APIBalances `json:"balances"`
}

type profileResponse struct {
	Profile APIProfile `json:"profile"`
}

type depositsResponse struct {
	Deposits []APIDeposit `json:"deposits"`
}

type depositResponse struct {
	Deposit APIDeposit `json:"deposit"`
}
