package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/nestegg/plan"
)

const startYear = 2026

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func baseInput() plan.SimulationInput {
	return plan.SimulationInput{
		Profile:            plan.UserProfile{BirthYear: 1975, RetirementAge: 65, LifeExpectancy: 95},
		ExchangeRateUSDJPY: 150,
		InflationRateUS:    0.03,
		InflationRateJP:    0.01,
	}
}

func exampleInput() plan.SimulationInput {
	in := baseInput()
	in.Assets = []plan.Asset{{
		ID: "a1", Name: "401k", Type: plan.Asset401k, CurrentValue: 100000,
		Currency: plan.USD, ContributionMonthly: 1000, ExpectedReturnRate: 0.05,
	}}
	in.Pensions = []plan.Pension{{
		ID: "p1", Name: "SocialSecurity", Type: plan.PensionSocialSecurity,
		StartAge: 67, MonthlyAmountEstimated: 2000, Currency: plan.USD,
	}}
	return in
}

func project(t *testing.T, in plan.SimulationInput) []plan.SimulationResult {
	t.Helper()
	series, err := Project(in, startYear)
	require.NoError(t, err)
	return series
}

func TestAllZeroInputHasZeroTotals(t *testing.T) {
	t.Parallel()

	for _, r := range project(t, baseInput()) {
		assert.Equal(t, 0.0, r.TotalAssets, "year %d", r.Year)
		assert.Empty(t, r.AssetBalances)
		assert.Empty(t, r.PensionIncomes)
	}
}

func TestSeriesLengthAndOrder(t *testing.T) {
	t.Parallel()

	profiles := []plan.UserProfile{
		{BirthYear: 1975, RetirementAge: 65, LifeExpectancy: 95},
		{BirthYear: 1940, RetirementAge: 65, LifeExpectancy: 87},
		{BirthYear: 2000, RetirementAge: 60, LifeExpectancy: 100},
	}
	for _, p := range profiles {
		in := baseInput()
		in.Profile = p
		series := project(t, in)

		want := p.BirthYear + p.LifeExpectancy - startYear + 1
		require.Len(t, series, want)
		assert.Equal(t, startYear, series[0].Year)
		for i := 1; i < len(series); i++ {
			assert.Equal(t, series[i-1].Year+1, series[i].Year)
			assert.Equal(t, series[i].Year-p.BirthYear, series[i].Age)
		}
	}
}

func TestLifeExpectancyMustExceedStartAge(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Profile = plan.UserProfile{BirthYear: 1940, RetirementAge: 65, LifeExpectancy: 86} // 86 in 2026
	series, err := Project(in, startYear)
	assert.ErrorIs(t, err, plan.ErrInvalidInput)
	assert.ErrorContains(t, err, "profile.life_expectancy")
	assert.Nil(t, series)

	in.Profile.LifeExpectancy = 87
	series = project(t, in)
	require.Len(t, series, 2)
	assert.Equal(t, 2026, series[0].Year)
	assert.Equal(t, 2027, series[1].Year)
}

func TestExampleScenario(t *testing.T) {
	t.Parallel()

	series := project(t, exampleInput())
	require.Len(t, series, 2070-startYear+1)

	prev := 0.0
	for _, r := range series {
		income := r.PensionIncomes["SocialSecurity"]
		if r.Age < 67 {
			assert.Equal(t, 0.0, income, "age %d", r.Age)
		} else {
			assert.Equal(t, 24000.0, income, "age %d", r.Age)
		}

		bal := r.AssetBalances["401k"]
		assert.Greater(t, bal, prev, "year %d", r.Year)
		prev = bal
		assert.Equal(t, 0.0, r.AssetDrawdowns["401k"])
		assert.Equal(t, bal, r.TotalAssets, "pension income stays out of total assets")
	}
}

func TestZeroReturnAddsTwelveContributions(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Assets = []plan.Asset{{
		Name: "cash", Type: plan.AssetCash, CurrentValue: 1000,
		Currency: plan.USD, ContributionMonthly: 250,
	}}
	series := project(t, in)
	assert.Equal(t, 4000.0, series[0].AssetBalances["cash"])
	assert.Equal(t, 7000.0, series[1].AssetBalances["cash"])
}

func TestMonthlyCompounding(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Assets = []plan.Asset{{
		Name: "brokerage", Type: plan.AssetBrokerage, CurrentValue: 10000,
		Currency: plan.USD, ExpectedReturnRate: 0.12,
	}}
	series := project(t, in)
	want := 10000 * math.Pow(1.01, 12)
	assert.InDelta(t, want, series[0].AssetBalances["brokerage"], 1e-6)
}

func TestContributionsContinuePastRetirement(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Profile.BirthYear = 1955 // 71 in 2026, retired at 65
	in.Assets = []plan.Asset{{
		Name: "cash", Type: plan.AssetCash, CurrentValue: 1000,
		Currency: plan.USD, ContributionMonthly: 100,
	}}
	series := project(t, in)
	assert.Equal(t, 71, series[0].Age)
	assert.Equal(t, 2200.0, series[0].AssetBalances["cash"])
	assert.Equal(t, 3400.0, series[1].AssetBalances["cash"])
}

func TestContributionsStopAtRetirementWhenOptedIn(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Profile.RetirementAge = 52 // age 51 in 2026, 52 in 2027
	in.Assets = []plan.Asset{{
		Name: "cash", Type: plan.AssetCash, CurrentValue: 0,
		Currency: plan.USD, ContributionMonthly: 100, StopAtRetirement: true,
	}}
	series := project(t, in)
	assert.Equal(t, 1200.0, series[0].AssetBalances["cash"])
	assert.Equal(t, 1200.0, series[1].AssetBalances["cash"])
	assert.Equal(t, 1200.0, series[10].AssetBalances["cash"])
}

func TestWithdrawal(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Assets = []plan.Asset{{
		Name: "ira", Type: plan.AssetIRA, CurrentValue: 1000, Currency: plan.USD,
		WithdrawalStartAge: intPtr(52), WithdrawalRate: floatPtr(0.1),
	}}
	series := project(t, in)

	assert.Equal(t, 1000.0, series[0].AssetBalances["ira"])
	assert.Equal(t, 0.0, series[0].AssetDrawdowns["ira"])

	assert.InDelta(t, 900.0, series[1].AssetBalances["ira"], 1e-9)
	assert.InDelta(t, 100.0, series[1].AssetDrawdowns["ira"], 1e-9)

	assert.InDelta(t, 810.0, series[2].AssetBalances["ira"], 1e-9)
	assert.InDelta(t, 90.0, series[2].AssetDrawdowns["ira"], 1e-9)
	assert.InDelta(t, 810.0, series[2].TotalAssets, 1e-9)
}

func TestJPYAssetReportedInUSD(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Assets = []plan.Asset{{
		Name: "nisa", Type: plan.AssetBrokerage, CurrentValue: 1_500_000,
		Currency: plan.JPY, WithdrawalStartAge: intPtr(0), WithdrawalRate: floatPtr(0.5),
	}}
	series := project(t, in)
	assert.InDelta(t, 5000.0, series[0].AssetBalances["nisa"], 1e-9)
	assert.InDelta(t, 5000.0, series[0].AssetDrawdowns["nisa"], 1e-9)
}

func TestContributionCurrencyConverted(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Assets = []plan.Asset{{
		Name: "401k", Type: plan.Asset401k, Currency: plan.USD,
		ContributionMonthly: 15000, ContributionCurrency: plan.JPY,
	}}
	series := project(t, in)
	assert.InDelta(t, 1200.0, series[0].AssetBalances["401k"], 1e-9)
}

func TestJPYPensionIndexedAtJapaneseInflation(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Profile.BirthYear = 1961 // 65 in 2026
	in.Pensions = []plan.Pension{{
		Name: "nenkin", Type: plan.PensionJP, StartAge: 65,
		MonthlyAmountEstimated: 150000, Currency: plan.JPY, IsInflationAdjusted: true,
	}}
	series := project(t, in)
	assert.InDelta(t, 12000.0, series[0].PensionIncomes["nenkin"], 1e-9)
	assert.InDelta(t, 12120.0, series[1].PensionIncomes["nenkin"], 1e-9)
	assert.InDelta(t, 12241.2, series[2].PensionIncomes["nenkin"], 1e-9)
}

func TestPensionAlreadyEligibleAtStart(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Profile.BirthYear = 1950 // 76 in 2026
	in.Profile.LifeExpectancy = 90
	in.Pensions = []plan.Pension{{
		Name: "ss", Type: plan.PensionSocialSecurity, StartAge: 65,
		MonthlyAmountEstimated: 1000, Currency: plan.USD, IsInflationAdjusted: true,
	}}
	series := project(t, in)
	assert.InDelta(t, 12000*math.Pow(1.03, 11), series[0].PensionIncomes["ss"], 1e-6)
	assert.InDelta(t, 12000*math.Pow(1.03, 12), series[1].PensionIncomes["ss"], 1e-6)
}

func TestInflationAdjustedPensionIsNonDecreasing(t *testing.T) {
	t.Parallel()

	in := exampleInput()
	in.Pensions[0].IsInflationAdjusted = true
	series := project(t, in)

	prev := 0.0
	for _, r := range series {
		income := r.PensionIncomes["SocialSecurity"]
		assert.GreaterOrEqual(t, income, prev)
		prev = income
	}
	assert.Equal(t, 24000.0, series[67-51].PensionIncomes["SocialSecurity"])
}

func TestEventImpactsAccumulateIntoTotal(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.LifeEvents = []plan.LifeEvent{
		{Name: "inheritance", Type: plan.EventOther, Year: 2027, Month: 5, ImpactOneTime: 1000},
		{Name: "old windfall", Year: 2020, Month: 1, ImpactOneTime: 99999},
	}
	series := project(t, in)
	assert.Equal(t, 0.0, series[0].TotalAssets)
	assert.Equal(t, 1000.0, series[1].TotalAssets)
	assert.Equal(t, 1000.0, series[2].TotalAssets)
}

func TestRecurringImpactProratedThenIndexed(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.LifeEvents = []plan.LifeEvent{{
		Name: "relocate", Type: plan.EventRelocation, Year: 2028, Month: 10,
		ImpactMonthly: -1000, IsInflationAdjusted: true,
	}}
	series := project(t, in)

	assert.Equal(t, 0.0, series[1].TotalAssets)             // 2027
	assert.InDelta(t, -3000.0, series[2].TotalAssets, 1e-9) // 2028: Oct..Dec
	assert.InDelta(t, -3000-12000*1.03, series[3].TotalAssets, 1e-9)
	assert.InDelta(t, -3000-12000*1.03-12000*1.03*1.03, series[4].TotalAssets, 1e-9)
}

func TestRecurringImpactActivatedBeforeStart(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.LifeEvents = []plan.LifeEvent{
		{Name: "tuition", Year: 2020, Month: 6, ImpactMonthly: 100},
		{Name: "rent", Year: 2020, Month: 6, ImpactMonthly: 100, IsInflationAdjusted: true},
	}
	series := project(t, in)
	assert.InDelta(t, 1200+1200*math.Pow(1.03, 6), series[0].TotalAssets, 1e-6)
}

func TestEventsAreAdditive(t *testing.T) {
	t.Parallel()

	a := plan.LifeEvent{Name: "a", Year: 2027, Month: 1, ImpactOneTime: 500, ImpactMonthly: 10}
	b := plan.LifeEvent{Name: "b", Year: 2029, Month: 7, ImpactOneTime: -200, ImpactMonthly: -5}

	only := func(evs ...plan.LifeEvent) []plan.SimulationResult {
		in := baseInput()
		in.LifeEvents = evs
		return project(t, in)
	}
	sa, sb, both := only(a), only(b), only(a, b)
	for i := range both {
		assert.InDelta(t, sa[i].TotalAssets+sb[i].TotalAssets, both[i].TotalAssets, 1e-9)
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	t.Parallel()

	in := exampleInput()
	in.LifeEvents = []plan.LifeEvent{{Name: "move", Year: 2031, Month: 3, ImpactOneTime: -20000, ImpactMonthly: 300, IsInflationAdjusted: true}}
	assert.Equal(t, project(t, in), project(t, in))
}

func TestInvalidInputReturnsNoResults(t *testing.T) {
	t.Parallel()

	in := exampleInput()
	in.ExchangeRateUSDJPY = 0
	series, err := Project(in, startYear)
	assert.Nil(t, series)
	assert.True(t, errors.Is(err, plan.ErrInvalidInput))
}

func TestSimulateUsesClock(t *testing.T) {
	t.Parallel()

	p := Projector{Now: func() time.Time { return time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC) }}
	assert.Equal(t, 2030, p.StartYear())
	series, err := p.Simulate(context.Background(), exampleInput())
	require.NoError(t, err)
	assert.Equal(t, 2030, series[0].Year)
}

func TestSimulateHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Projector{}.Simulate(ctx, exampleInput())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunPhases(t *testing.T) {
	t.Parallel()

	in := baseInput()
	in.Profile.LifeExpectancy = 52 // terminal 2027
	r, err := newRun(in, startYear)
	require.NoError(t, err)
	assert.Equal(t, NotStarted, r.phase)

	_, ok := r.next()
	assert.True(t, ok)
	assert.Equal(t, Running, r.phase)

	_, ok = r.next()
	assert.True(t, ok)
	assert.Equal(t, Completed, r.phase)

	_, ok = r.next()
	assert.False(t, ok)
	assert.Equal(t, "completed", r.phase.String())
}
