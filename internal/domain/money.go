package domain

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with the currency's symbol and fraction digits
// Unknown currencies fall back to the plain decimal string.
func FormatMoney(amount decimal.Decimal, currency Currency) string {
	cur := money.GetCurrency(string(currency))
	if cur == nil {
		return amount.String()
	}

	factor := decimal.New(1, int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// FormatPercent renders a nullable percentage, "n/a" when it cannot be computed
func FormatPercent(p decimal.NullDecimal) string {
	if !p.Valid {
		return "n/a"
	}
	s := p.Decimal.StringFixed(1) + "%"
	if p.Decimal.IsPositive() {
		return "+" + s
	}
	return s
}
