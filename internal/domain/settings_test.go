package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSettings_Progress(t *testing.T) {
	settings := Settings{Nickname: "Rich", GoalAmount: decimal.NewFromInt(1000)}

	tests := []struct {
		name          string
		netWorth      int64
		wantPercent   int64
		wantRemaining int64
	}{
		{"Halfway", 500, 50, 500},
		{"Goal exceeded is clamped", 2500, 100, 0},
		{"Negative net worth is clamped", -300, 0, 1300},
		{"Nothing yet", 0, 0, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := settings.Progress(decimal.NewFromInt(tt.netWorth))
			assert.True(t, p.Percent.Equal(decimal.NewFromInt(tt.wantPercent)), "percent %s", p.Percent)
			assert.True(t, p.Remaining.Equal(decimal.NewFromInt(tt.wantRemaining)), "remaining %s", p.Remaining)
		})
	}
}

func TestSettings_ProgressWithoutGoal(t *testing.T) {
	p := Settings{Nickname: "Rich"}.Progress(decimal.NewFromInt(100))
	assert.True(t, p.Percent.IsZero())
	assert.True(t, p.Remaining.IsZero())
}

func TestSettings_Validate(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, s.Validate())

	s.Nickname = ""
	assert.EqualError(t, s.Validate(), "nickname cannot be empty")

	s = DefaultSettings()
	s.GoalAmount = decimal.NewFromInt(-1)
	assert.EqualError(t, s.Validate(), "goal amount must be positive")
}
