package api

import (
	"time"

	"github.com/carbonport/deskcore/internal/model"
)

// ParseTimestamp parses an ISO 8601 timestamp. Returns the zero time for
// empty or invalid input.
func ParseTimestamp(iso string) time.Time {
	if iso == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return time.Time{}
		}
	}

	return t
}

// FormatTimestamp renders a timestamp the way the wire expects it.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ToModel converts an APIAssetBalance to model.AssetBalance.
func (b APIAssetBalance) ToModel() model.AssetBalance {
	return model.AssetBalance{
		Total:     b.Total,
		Available: b.Available,
	}
}

// ToModel converts APIBalances to model.Balances.
func (b APIBalances) ToModel() model.Balances {
	return model.Balances{
		EUR: b.EUR.ToModel(),
		CEA: b.CEA.ToModel(),
		EUA: b.EUA.ToModel(),
	}
}

// ToModel converts an APICounterparty to model.CounterpartySnapshot.
func (c APICounterparty) ToModel() model.CounterpartySnapshot {
	return model.CounterpartySnapshot{
		ID:       c.ID,
		Name:     c.Name,
		Role:     model.CounterpartyRole(c.Role),
		Balances: c.Balances.ToModel(),
	}
}

// ToModel converts an APISettlement to model.SettlementBatch.
func (s APISettlement) ToModel() model.SettlementBatch {
	batch := model.SettlementBatch{
		ID:                     s.ID,
		BatchReference:         s.BatchReference,
		SettlementType:         model.SettlementType(s.SettlementType),
		AssetType:              model.CertificateType(s.AssetType),
		Quantity:               s.Quantity,
		Price:                  s.Price,
		TotalValueEUR:          s.TotalValueEUR,
		Status:                 model.SettlementStatus(s.Status),
		ExpectedSettlementDate: ParseTimestamp(s.ExpectedSettlementDate),
		CreatedAt:              ParseTimestamp(s.CreatedAt),
		ProgressPercent:        s.ProgressPercent,
	}

	if s.ActualSettlementDate != "" {
		at := ParseTimestamp(s.ActualSettlementDate)
		batch.ActualSettlementDate = &at
	}

	if len(s.Timeline) > 0 {
		batch.Timeline = make([]model.StatusHistoryEntry, 0, len(s.Timeline))
		for _, e := range s.Timeline {
			batch.Timeline = append(batch.Timeline, model.StatusHistoryEntry{
				Status: model.SettlementStatus(e.Status),
				At:     ParseTimestamp(e.At),
				Note:   e.Note,
			})
		}
	}

	return batch
}

// ToModel converts APIPrices to model.Prices.
func (p APIPrices) ToModel() model.Prices {
	return model.Prices{
		CEAPriceEUR: p.CEAPriceEUR,
		EUAPriceEUR: p.EUAPriceEUR,
		SwapRatio:   p.SwapRatio,
		UpdatedAt:   ParseTimestamp(p.UpdatedAt),
	}
}

// ToModel converts an APIDeposit to model.Deposit.
func (d APIDeposit) ToModel() model.Deposit {
	return model.Deposit{
		ID:        d.ID,
		ClientID:  d.ClientID,
		Amount:    d.Amount,
		Currency:  d.Currency,
		Status:    model.DepositStatus(d.Status),
		Reference: d.Reference,
		CreatedAt: ParseTimestamp(d.CreatedAt),
	}
}

// ToModel converts an APIKYCDocument to model.KYCDocument.
func (d APIKYCDocument) ToModel() model.KYCDocument {
	return model.KYCDocument{
		ID:         d.ID,
		RequestID:  d.RequestID,
		Kind:       d.Kind,
		FileName:   d.FileName,
		Status:     d.Status,
		UploadedAt: ParseTimestamp(d.UploadedAt),
	}
}

// ToModel converts an APIOnboardingRequest to model.OnboardingRequest.
func (r APIOnboardingRequest) ToModel() model.OnboardingRequest {
	return model.OnboardingRequest{
		ID:          r.ID,
		CompanyName: r.CompanyName,
		Status:      r.Status,
		CreatedAt:   ParseTimestamp(r.CreatedAt),
		UpdatedAt:   ParseTimestamp(r.UpdatedAt),
	}
}

// ToModel converts an APIProfile to model.Profile.
func (p APIProfile) ToModel() model.Profile {
	return model.Profile{
		ID:    p.ID,
		Email: p.Email,
		Role:  p.Role,
	}
}

// FromOrder converts a model.Order to its outbound wire shape.
func FromOrder(o model.Order) APIOrderRequest {
	return APIOrderRequest{
		ClientReference: o.ClientReference,
		Market:          string(o.Market),
		Side:            string(o.Side),
		CertificateType: string(o.CertificateType),
		CounterpartyID:  o.CounterpartyID,
		Price:           o.Price,
		Quantity:        o.Quantity,
	}
}
