package sim

import (
	"math"

	"github.com/rustyeddy/nestegg/market"
	"github.com/rustyeddy/nestegg/plan"
)

// PensionIncome returns the annual USD income of p in the year the holder
// reaches age. It is zero before start_age. Inflation-adjusted pensions
// compound at inflation once per full year since start_age, so the first
// eligible year pays the unindexed amount.
func PensionIncome(p plan.Pension, age int, inflation float64, conv market.Converter) float64 {
	if age < p.StartAge {
		return 0
	}
	monthly := p.MonthlyAmountEstimated
	if p.IsInflationAdjusted {
		monthly *= math.Pow(1+inflation, float64(age-p.StartAge))
	}
	return conv.USD(monthly*monthsPerYear, p.Currency)
}

// accrual is the projector's running state for one pension.
type accrual struct {
	pension plan.Pension
	ix      indexer
}

func newAccrual(p plan.Pension, inflation float64) *accrual {
	return &accrual{pension: p, ix: indexer{rate: inflation}}
}

// income returns this year's USD income and moves the indexing counter on.
// Ages must be visited in ascending consecutive order.
func (a *accrual) income(age int, conv market.Converter) float64 {
	p := a.pension
	if age < p.StartAge {
		return 0
	}
	if !a.ix.started {
		a.ix.start(age - p.StartAge)
	} else {
		a.ix.advance()
	}
	monthly := p.MonthlyAmountEstimated
	if p.IsInflationAdjusted {
		monthly *= a.ix.factor
	}
	return conv.USD(monthly*monthsPerYear, p.Currency)
}
