package grpc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/gonsam85/assets/internal/domain"
	"github.com/gonsam85/assets/internal/usecase/valuation"
)

func TestSnapshotToMap_DailyPercents(t *testing.T) {
	snap := &valuation.Snapshot{
		FXRate:           decimal.NewFromInt(1400),
		TotalAssets:      decimal.NewFromInt(1100),
		TotalLoans:       decimal.NewFromInt(500),
		NetWorth:         decimal.NewFromInt(600),
		DailyChangeTotal: decimal.NewFromInt(100),
	}

	m := snapshotToMap(snap, domain.GoalProgress{Percent: decimal.Zero, Remaining: decimal.Zero})

	assert.Equal(t, "20.00", m["dailyPercent"], "relative to yesterday's net worth of 500")
	assert.Equal(t, "10.00", m["dailyPercentAssets"], "relative to yesterday's assets of 1000")
}

func TestSnapshotToMap_DailyPercentsWithoutChange(t *testing.T) {
	snap := &valuation.Snapshot{
		TotalAssets:      decimal.Zero,
		NetWorth:         decimal.Zero,
		DailyChangeTotal: decimal.Zero,
	}

	m := snapshotToMap(snap, domain.GoalProgress{})

	assert.Equal(t, "0.00", m["dailyPercent"])
	assert.Equal(t, "0.00", m["dailyPercentAssets"])
}
