package grpc

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gonsam85/assets/internal/domain"
	"github.com/gonsam85/assets/internal/usecase/portfolio"
	"github.com/gonsam85/assets/internal/usecase/valuation"
)

// stringField returns a string field, empty when absent
func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

// decimalField accepts a decimal string or a number; absent means zero
func decimalField(req *structpb.Struct, key string) (decimal.Decimal, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return decimal.Zero, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		if k.StringValue == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(k.StringValue)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: invalid %s format: %v", domain.ErrInvalidRequest, key, err)
		}
		return d, nil
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(k.NumberValue), nil
	case *structpb.Value_NullValue:
		return decimal.Zero, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s must be a string or a number", domain.ErrInvalidRequest, key)
}

func idField(req *structpb.Struct) (uuid.UUID, error) {
	id, err := uuid.Parse(stringField(req, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id format: %v", domain.ErrInvalidRequest, err)
	}
	return id, nil
}

// structToEntryInput reads an AddAsset request
func structToEntryInput(req *structpb.Struct) (portfolio.EntryInput, error) {
	in := portfolio.EntryInput{
		Name:     stringField(req, "name"),
		Type:     stringField(req, "type"),
		Currency: stringField(req, "currency"),
		Category: stringField(req, "category"),
		Ticker:   stringField(req, "ticker"),
	}

	var err error
	for key, dst := range map[string]*decimal.Decimal{
		"amount":        &in.Amount,
		"purchasePrice": &in.PurchasePrice,
		"currentPrice":  &in.CurrentPrice,
		"quantity":      &in.Quantity,
	} {
		if *dst, err = decimalField(req, key); err != nil {
			return portfolio.EntryInput{}, err
		}
	}
	return in, nil
}

// structToAsset reads a full asset record, as sent to UpdateAsset
func structToAsset(req *structpb.Struct) (domain.Asset, error) {
	id, err := idField(req)
	if err != nil {
		return domain.Asset{}, err
	}
	currency, err := domain.ParseCurrency(stringField(req, "currency"))
	if err != nil {
		return domain.Asset{}, err
	}

	asset := domain.Asset{
		ID:       id,
		Name:     stringField(req, "name"),
		Type:     domain.AssetType(stringField(req, "type")),
		Currency: currency,
		Category: stringField(req, "category"),
		Ticker:   stringField(req, "ticker"),
		Date:     time.Now(),
	}

	if raw := stringField(req, "date"); raw != "" {
		if asset.Date, err = time.Parse(time.RFC3339, raw); err != nil {
			return domain.Asset{}, fmt.Errorf("%w: invalid date format: %v", domain.ErrInvalidRequest, err)
		}
	}

	for key, dst := range map[string]*decimal.Decimal{
		"amount":        &asset.Amount,
		"purchasePrice": &asset.PurchasePrice,
		"currentPrice":  &asset.CurrentPrice,
		"quantity":      &asset.Quantity,
	} {
		if *dst, err = decimalField(req, key); err != nil {
			return domain.Asset{}, err
		}
	}
	return asset, nil
}

// assetToMap converts a domain Asset to its message fields
func assetToMap(a domain.Asset) map[string]any {
	m := map[string]any{
		"id":       a.ID.String(),
		"name":     a.Name,
		"amount":   a.Amount.String(),
		"type":     string(a.Type),
		"date":     a.Date.UTC().Format(time.RFC3339),
		"category": a.Category,
		"currency": string(a.Currency),
	}

	// Optional figures are only sent when set
	if !a.PurchasePrice.IsZero() {
		m["purchasePrice"] = a.PurchasePrice.String()
	}
	if !a.CurrentPrice.IsZero() {
		m["currentPrice"] = a.CurrentPrice.String()
	}
	if !a.Quantity.IsZero() {
		m["quantity"] = a.Quantity.String()
	}
	if a.Ticker != "" {
		m["ticker"] = a.Ticker
	}
	return m
}

func quoteToMap(q domain.Quote) map[string]any {
	return map[string]any{
		"ticker":    q.Ticker,
		"price":     q.Price.String(),
		"prevClose": q.PrevClose.String(),
		"currency":  q.Currency,
		"source":    string(q.Source),
	}
}

// nullable renders an undefined percentage as null, never as zero
func nullable(p decimal.NullDecimal) any {
	if !p.Valid {
		return nil
	}
	return p.Decimal.String()
}

func snapshotToMap(snap *valuation.Snapshot, goal domain.GoalProgress) map[string]any {
	assets := make([]any, 0, len(snap.Assets))
	for _, v := range snap.Assets {
		assets = append(assets, map[string]any{
			"asset":              assetToMap(v.Asset),
			"value":              v.Value.String(),
			"dailyChange":        v.DailyChange.String(),
			"dailyChangePercent": nullable(v.DailyChangePercent),
			"basis":              string(v.Basis),
			"livePrice":          nullable(v.LivePrice),
			"roi":                nullable(v.ROI),
		})
	}

	allocation := make([]any, 0, len(snap.Allocation))
	for _, slice := range snap.Allocation {
		allocation = append(allocation, map[string]any{
			"type":    string(slice.Type),
			"value":   slice.Value.String(),
			"percent": slice.Percent.StringFixed(2),
		})
	}

	return map[string]any{
		"cycle":              float64(snap.Cycle),
		"computedAt":         snap.ComputedAt.UTC().Format(time.RFC3339),
		"fxRate":             snap.FXRate.String(),
		"fxStale":            snap.FXStale,
		"quotesDegraded":     snap.QuotesDegraded,
		"assets":             assets,
		"totalAssets":        snap.TotalAssets.String(),
		"totalLoans":         snap.TotalLoans.String(),
		"netWorth":           snap.NetWorth.String(),
		"dailyChangeTotal":   snap.DailyChangeTotal.String(),
		"dailyPercent":       snap.DailyPercent(snap.NetWorth).StringFixed(2),
		"dailyPercentAssets": snap.DailyPercent(snap.TotalAssets).StringFixed(2),
		"allocation":         allocation,
		"goalPercent":        goal.Percent.StringFixed(2),
		"goalRemaining":      goal.Remaining.String(),
	}
}
