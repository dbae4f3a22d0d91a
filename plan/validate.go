package plan

import (
	"fmt"
	"math"
	"strings"
)

const (
	MinPensionStartAge = 50
	MaxPensionStartAge = 80
)

// Validate checks every field of the input and returns all problems at once
// as ValidationErrors. startYear is the first projected year; life expectancy
// must exceed the age reached in it.
func (in SimulationInput) Validate(startYear int) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, Invalid(field, format, args...))
	}

	p := in.Profile
	if p.BirthYear <= 0 {
		add("profile.birth_year", "must be positive")
	}
	if p.LifeExpectancy <= 0 {
		add("profile.life_expectancy", "must be positive")
	} else if p.TerminalYear() <= startYear {
		add("profile.life_expectancy", "must exceed age %d in start year %d, got %d", startYear-p.BirthYear, startYear, p.LifeExpectancy)
	}
	if p.RetirementAge < 0 {
		add("profile.retirement_age", "must not be negative")
	}
	if p.CurrentLocation != "" && p.CurrentLocation != LocationUS && p.CurrentLocation != LocationJP {
		add("profile.current_location", "unknown location %q", p.CurrentLocation)
	}

	if !(in.ExchangeRateUSDJPY > 0) || math.IsInf(in.ExchangeRateUSDJPY, 0) {
		add("exchange_rate_usd_jpy", "must be positive, got %v", in.ExchangeRateUSDJPY)
	}
	checkInflation := func(field string, r float64) {
		if math.IsNaN(r) || r <= -1 || r > 1 {
			add(field, "must be in (-1, 1], got %v", r)
		}
	}
	checkInflation("inflation_rate_us", in.InflationRateUS)
	checkInflation("inflation_rate_jp", in.InflationRateJP)

	assetNames := map[string]int{}
	for i, a := range in.Assets {
		f := func(name string) string { return fmt.Sprintf("assets[%d].%s", i, name) }
		checkName(f("name"), a.Name, assetNames, i, add)
		if !a.Type.Valid() {
			add(f("type"), "unknown asset type %q", a.Type)
		}
		if !a.Currency.Valid() {
			add(f("currency"), "unknown currency %q", a.Currency)
		}
		if a.ContributionCurrency != "" && !a.ContributionCurrency.Valid() {
			add(f("contribution_currency"), "unknown currency %q", a.ContributionCurrency)
		}
		checkNonNegative(f("current_value"), a.CurrentValue, add)
		checkNonNegative(f("contribution_monthly"), a.ContributionMonthly, add)
		checkUnitRate(f("expected_return_rate"), a.ExpectedReturnRate, add)
		if a.WithdrawalStartAge != nil && *a.WithdrawalStartAge < 0 {
			add(f("withdrawal_start_age"), "must not be negative")
		}
		if a.WithdrawalRate != nil {
			checkUnitRate(f("withdrawal_rate"), *a.WithdrawalRate, add)
		}
	}

	pensionNames := map[string]int{}
	for i, pn := range in.Pensions {
		f := func(name string) string { return fmt.Sprintf("pensions[%d].%s", i, name) }
		checkName(f("name"), pn.Name, pensionNames, i, add)
		if !pn.Type.Valid() {
			add(f("type"), "unknown pension type %q", pn.Type)
		}
		if !pn.Currency.Valid() {
			add(f("currency"), "unknown currency %q", pn.Currency)
		}
		if pn.StartAge < MinPensionStartAge || pn.StartAge > MaxPensionStartAge {
			add(f("start_age"), "must be between %d and %d, got %d", MinPensionStartAge, MaxPensionStartAge, pn.StartAge)
		}
		checkNonNegative(f("monthly_amount_estimated"), pn.MonthlyAmountEstimated, add)
	}

	for i, ev := range in.LifeEvents {
		f := func(name string) string { return fmt.Sprintf("life_events[%d].%s", i, name) }
		if !ev.Type.Valid() {
			add(f("type"), "unknown event type %q", ev.Type)
		}
		if ev.Month < 1 || ev.Month > 12 {
			add(f("month"), "must be between 1 and 12, got %d", ev.Month)
		}
		if math.IsNaN(ev.ImpactOneTime) || math.IsInf(ev.ImpactOneTime, 0) {
			add(f("impact_one_time"), "must be a finite number")
		}
		if math.IsNaN(ev.ImpactMonthly) || math.IsInf(ev.ImpactMonthly, 0) {
			add(f("impact_monthly"), "must be a finite number")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkName(field, name string, seen map[string]int, i int, add func(string, string, ...any)) {
	if strings.TrimSpace(name) == "" {
		add(field, "must not be blank")
		return
	}
	if j, dup := seen[name]; dup {
		add(field, "duplicate name %q (also at index %d)", name, j)
		return
	}
	seen[name] = i
}

func checkNonNegative(field string, v float64, add func(string, string, ...any)) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		add(field, "must be a non-negative number, got %v", v)
	}
}

func checkUnitRate(field string, v float64, add func(string, string, ...any)) {
	if math.IsNaN(v) || v < 0 || v > 1 {
		add(field, "must be between 0 and 1, got %v", v)
	}
}
