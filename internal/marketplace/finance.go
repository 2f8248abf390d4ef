package marketplace

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Financials holds the money split of a single booking.
type Financials struct {
	Total      decimal.Decimal
	Deposit    decimal.Decimal
	Remaining  decimal.Decimal
	Commission decimal.Decimal
	Payout     decimal.Decimal
}

// CommissionRate returns the platform's cut for a tier.
func (t Tier) CommissionRate() (decimal.Decimal, error) {
	switch t {
	case TierPro:
		return decimal.RequireFromString("0.10"), nil
	case TierFree:
		return decimal.RequireFromString("0.15"), nil
	}
	return decimal.Zero, fmt.Errorf("unknown tier %q", string(t))
}

// ComputeFinancials splits rate×hours into deposit, remaining balance,
// platform commission and performer payout. Amounts are rounded to cents.
func ComputeFinancials(hourlyRate decimal.Decimal, hours, depositPct int, tier Tier) (Financials, error) {
	if hours <= 0 {
		return Financials{}, fmt.Errorf("hours must be positive, got %d", hours)
	}
	if depositPct < 0 || depositPct > 100 {
		return Financials{}, fmt.Errorf("deposit percentage out of range: %d", depositPct)
	}
	rate, err := tier.CommissionRate()
	if err != nil {
		return Financials{}, err
	}

	total := hourlyRate.Mul(decimal.NewFromInt(int64(hours))).Round(2)
	deposit := total.Mul(decimal.NewFromInt(int64(depositPct))).Div(hundred).Round(2)
	commission := total.Mul(rate).Round(2)

	return Financials{
		Total:      total,
		Deposit:    deposit,
		Remaining:  total.Sub(deposit),
		Commission: commission,
		Payout:     total.Sub(commission),
	}, nil
}

// AchievementScore combines bookings, rating and profile completeness into a
// single ranking figure. The fractional part is dropped.
func AchievementScore(completedBookings int, averageRating float64, completeness int) int {
	score := decimal.NewFromInt(int64(completedBookings)).Mul(decimal.NewFromInt(10)).
		Add(decimal.NewFromFloat(averageRating).Mul(decimal.NewFromInt(20))).
		Add(decimal.NewFromInt(int64(completeness)).Mul(decimal.RequireFromString("0.5")))
	return int(score.IntPart())
}
