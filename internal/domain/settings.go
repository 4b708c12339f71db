package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Settings holds display preferences
// GoalAmount is only read by goal progress math.
type Settings struct {
	Nickname   string          `json:"nickname"`
	GoalAmount decimal.Decimal `json:"fireGoal"`
}

// DefaultSettings returns the settings used before the user saved any
func DefaultSettings() Settings {
	return Settings{
		Nickname:   "Rich",
		GoalAmount: decimal.NewFromInt(100_000_000),
	}
}

// Validate ensures the settings adhere to domain rules
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Nickname) == "" {
		return errors.New("nickname cannot be empty")
	}
	if s.GoalAmount.IsNegative() {
		return errors.New("goal amount must be positive")
	}
	return nil
}

// GoalProgress is the net worth position relative to the goal amount
type GoalProgress struct {
	Percent   decimal.Decimal // clamped to [0, 100]
	Remaining decimal.Decimal // never negative
}

var hundred = decimal.NewFromInt(100)

// Progress computes how far netWorth is from the goal
func (s Settings) Progress(netWorth decimal.Decimal) GoalProgress {
	remaining := decimal.Max(decimal.Zero, s.GoalAmount.Sub(netWorth))
	if !s.GoalAmount.IsPositive() {
		return GoalProgress{Percent: decimal.Zero, Remaining: remaining}
	}

	percent := netWorth.Div(s.GoalAmount).Mul(hundred)
	percent = decimal.Min(hundred, decimal.Max(decimal.Zero, percent))

	return GoalProgress{Percent: percent, Remaining: remaining}
}
