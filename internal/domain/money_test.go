package domain

import (
	"testing"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, money.New(3500000, money.KRW).Display(), FormatMoney(decimal.NewFromInt(3500000), CurrencyKRW))
	assert.Equal(t, money.New(19050, money.USD).Display(), FormatMoney(decimal.RequireFromString("190.5"), CurrencyUSD))
	assert.Equal(t, "12.5", FormatMoney(decimal.RequireFromString("12.5"), Currency("XXX1")))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "n/a", FormatPercent(decimal.NullDecimal{}))
	assert.Equal(t, "0.0%", FormatPercent(decimal.NewNullDecimal(decimal.Zero)))
	assert.Equal(t, "+12.3%", FormatPercent(decimal.NewNullDecimal(decimal.RequireFromString("12.345"))))
	assert.Equal(t, "-4.0%", FormatPercent(decimal.NewNullDecimal(decimal.NewFromInt(-4))))
}
