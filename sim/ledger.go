package sim

import (
	"github.com/rustyeddy/nestegg/market"
	"github.com/rustyeddy/nestegg/plan"
)

const monthsPerYear = 12

// AssetStep is one asset's year-end position, in the asset's own currency.
type AssetStep struct {
	Balance  float64
	Drawdown float64
}

// StepAsset advances balance through one year at the given year-end age.
//
// Growth compounds monthly at expected_return_rate/12 with the monthly
// contribution added after each month's growth, at every age. An asset marked
// StopAtRetirement stops contributing once age reaches retirementAge. When a
// withdrawal strategy applies, the annual withdrawal rate is taken once, after
// the twelve monthly steps.
func StepAsset(a plan.Asset, balance float64, age, retirementAge int, conv market.Converter) AssetStep {
	contribution := conv.To(a.ContributionMonthly, a.ContributionIn(), a.Currency)
	if a.StopAtRetirement && age >= retirementAge {
		contribution = 0
	}

	monthly := a.ExpectedReturnRate / monthsPerYear
	for m := 0; m < monthsPerYear; m++ {
		balance = balance*(1+monthly) + contribution
	}

	var drawdown float64
	if a.WithdrawalStartAge != nil && age >= *a.WithdrawalStartAge && a.WithdrawalRate != nil {
		drawdown = balance * *a.WithdrawalRate
		balance -= drawdown
	}
	return AssetStep{Balance: balance, Drawdown: drawdown}
}

// ledger tracks one asset's running balance across the projection.
type ledger struct {
	asset   plan.Asset
	balance float64
}

func newLedger(a plan.Asset) *ledger {
	return &ledger{asset: a, balance: a.CurrentValue}
}

// step advances the ledger one year and returns the USD balance and drawdown.
func (l *ledger) step(age, retirementAge int, conv market.Converter) (balanceUSD, drawdownUSD float64) {
	s := StepAsset(l.asset, l.balance, age, retirementAge, conv)
	l.balance = s.Balance
	return conv.USD(s.Balance, l.asset.Currency), conv.USD(s.Drawdown, l.asset.Currency)
}
