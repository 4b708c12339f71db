package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gonsam85/assets/internal/domain"
)

// Basis tells whether a value comes from a live quote or from the stored amount
type Basis string

const (
	BasisLive Basis = "live"
	BasisBook Basis = "book"
)

var hundred = decimal.NewFromInt(100)

// AssetValuation is the derived view of one asset for a cycle
// Undefined percentages have Valid == false and are never reported as 0%.
type AssetValuation struct {
	Asset              domain.Asset
	Value              decimal.Decimal
	DailyChange        decimal.Decimal
	DailyChangePercent decimal.NullDecimal
	Basis              Basis
	LivePrice          decimal.NullDecimal // in the quote's currency
	ROI                decimal.NullDecimal
}

// AllocationSlice is the live value of one asset type
type AllocationSlice struct {
	Type    domain.AssetType
	Value   decimal.Decimal
	Percent decimal.Decimal // share of TotalAssets
}

// Snapshot is the published result of one valuation cycle
type Snapshot struct {
	Cycle          uint64
	ComputedAt     time.Time
	FXRate         decimal.Decimal
	FXStale        bool
	QuotesDegraded bool

	Assets           []AssetValuation
	TotalAssets      decimal.Decimal
	TotalLoans       decimal.Decimal
	NetWorth         decimal.Decimal
	DailyChangeTotal decimal.Decimal
	Allocation       []AllocationSlice
}

// Input is everything a cycle derives figures from
type Input struct {
	Assets []domain.Asset
	Quotes []domain.Quote
	FXRate decimal.Decimal
}

// DailyPercent is the day's change relative to the prior-period value of metric
// It is 0 when metric equals the change itself.
func (s *Snapshot) DailyPercent(metric decimal.Decimal) decimal.Decimal {
	base := metric.Sub(s.DailyChangeTotal)
	if base.IsZero() {
		return decimal.Zero
	}
	return s.DailyChangeTotal.Div(base).Mul(hundred)
}

// Counts returns how many assets were valued live and at book
func (s *Snapshot) Counts() (live, book int) {
	for _, v := range s.Assets {
		if v.Basis == BasisLive {
			live++
		} else {
			book++
		}
	}
	return live, book
}

// Compute derives per-asset values and the aggregates
// Logic:
//   - cash, loan, real_estate: value is the stored amount
//   - stock, crypto: live when a quote matches the ticker, its price is
//     positive and a quantity is set; USD holdings are converted with FXRate
//   - otherwise the stored amount, with zero daily change
//   - loans are totalled apart and subtracted from net worth
func Compute(in Input) *Snapshot {
	quotes := make(map[string]domain.Quote, len(in.Quotes))
	for _, q := range in.Quotes {
		key := domain.NormalizeTicker(q.Ticker)
		if _, ok := quotes[key]; !ok {
			quotes[key] = q
		}
	}

	snap := &Snapshot{
		FXRate:           in.FXRate,
		Assets:           make([]AssetValuation, 0, len(in.Assets)),
		TotalAssets:      decimal.Zero,
		TotalLoans:       decimal.Zero,
		DailyChangeTotal: decimal.Zero,
		Allocation:       []AllocationSlice{},
	}

	byType := map[domain.AssetType]int{}
	for _, asset := range in.Assets {
		v := valueAsset(asset, quotes, in.FXRate)
		snap.Assets = append(snap.Assets, v)

		if asset.IsLiability() {
			snap.TotalLoans = snap.TotalLoans.Add(asset.Amount)
			continue
		}

		snap.TotalAssets = snap.TotalAssets.Add(v.Value)
		snap.DailyChangeTotal = snap.DailyChangeTotal.Add(v.DailyChange)

		i, ok := byType[asset.Type]
		if !ok {
			i = len(snap.Allocation)
			byType[asset.Type] = i
			snap.Allocation = append(snap.Allocation, AllocationSlice{Type: asset.Type, Value: decimal.Zero})
		}
		snap.Allocation[i].Value = snap.Allocation[i].Value.Add(v.Value)
	}

	snap.NetWorth = snap.TotalAssets.Sub(snap.TotalLoans)

	for i := range snap.Allocation {
		if snap.TotalAssets.IsZero() {
			snap.Allocation[i].Percent = decimal.Zero
			continue
		}
		snap.Allocation[i].Percent = snap.Allocation[i].Value.Div(snap.TotalAssets).Mul(hundred)
	}

	return snap
}

func valueAsset(asset domain.Asset, quotes map[string]domain.Quote, fxRate decimal.Decimal) AssetValuation {
	v := AssetValuation{
		Asset:       asset,
		Value:       asset.Amount,
		DailyChange: decimal.Zero,
		Basis:       BasisBook,
	}

	switch asset.Type {
	case domain.AssetTypeRealEstate:
		v.ROI = percentChange(asset.CurrentPrice, asset.PurchasePrice)
		return v

	case domain.AssetTypeStock, domain.AssetTypeCrypto:
		if !asset.HasTicker() || !asset.Quantity.IsPositive() {
			return v
		}
		q, ok := quotes[domain.NormalizeTicker(asset.Ticker)]
		if !ok || !q.HasPrice() {
			return v
		}

		value := q.Price.Mul(asset.Quantity)
		change := q.Price.Sub(q.PrevClose).Mul(asset.Quantity)
		if asset.Currency == domain.CurrencyUSD {
			value = value.Mul(fxRate)
			change = change.Mul(fxRate)
		}

		v.Value = value
		v.DailyChange = change
		v.Basis = BasisLive
		v.LivePrice = decimal.NewNullDecimal(q.Price)
		v.DailyChangePercent = percentChange(q.Price, q.PrevClose)
		v.ROI = percentChange(q.Price, asset.PurchasePrice)
	}

	return v
}

// percentChange is (current - base) / base × 100, undefined for a non-positive base
func percentChange(current, base decimal.Decimal) decimal.NullDecimal {
	if !base.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(current.Sub(base).Div(base).Mul(hundred))
}
