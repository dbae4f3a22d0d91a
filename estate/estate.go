// Package estate values a projected year's pensions and assets for Japanese
// inheritance-tax purposes.
//
// Pension streams are discounted to a lump sum with the ordinary-annuity
// present-value factor over the surviving spouse's remaining years; asset
// balances are taken at face value. Everything is reported in USD and JPY.
package estate

import (
	"math"
	"sort"

	"github.com/rustyeddy/nestegg/market"
	"github.com/rustyeddy/nestegg/plan"
)

// ExemptionPerHeirJPY is the statutory exemption granted per legal heir.
const ExemptionPerHeirJPY = 5_000_000

type Inputs struct {
	Series   []plan.SimulationResult
	Profile  plan.UserProfile
	Pensions []plan.Pension

	Year                 int
	InterestRate         float64 // statutory rate, percent
	SpouseLifeExpectancy int     // age
	Heirs                int
	ExchangeRate         float64 // JPY per USD
}

type PensionValuation struct {
	ID              string  `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	AnnualAmountUSD float64 `json:"annual_amount_usd" yaml:"annual_amount_usd"`
	ValuationUSD    float64 `json:"valuation_usd" yaml:"valuation_usd"`
	ValuationJPY    float64 `json:"valuation_jpy" yaml:"valuation_jpy"`
}

type AssetValuation struct {
	Name         string  `json:"name" yaml:"name"`
	ValuationUSD float64 `json:"valuation_usd" yaml:"valuation_usd"`
	ValuationJPY float64 `json:"valuation_jpy" yaml:"valuation_jpy"`
}

type Report struct {
	Year                   int                `json:"year" yaml:"year"`
	SpouseAge              int                `json:"spouse_age" yaml:"spouse_age"`
	RemainingYears         int                `json:"remaining_years" yaml:"remaining_years"`
	PVFactor               float64            `json:"pv_factor" yaml:"pv_factor"`
	ExchangeRate           float64            `json:"exchange_rate" yaml:"exchange_rate"`
	Pensions               []PensionValuation `json:"pension_valuations" yaml:"pension_valuations"`
	Assets                 []AssetValuation   `json:"asset_valuations" yaml:"asset_valuations"`
	TotalPensionUSD        float64            `json:"total_pension_usd" yaml:"total_pension_usd"`
	TotalPensionJPY        float64            `json:"total_pension_jpy" yaml:"total_pension_jpy"`
	TotalAssetUSD          float64            `json:"total_asset_usd" yaml:"total_asset_usd"`
	TotalAssetJPY          float64            `json:"total_asset_jpy" yaml:"total_asset_jpy"`
	GrandTotalUSD          float64            `json:"grand_total_usd" yaml:"grand_total_usd"`
	GrandTotalJPY          float64            `json:"grand_total_jpy" yaml:"grand_total_jpy"`
	Heirs                  int                `json:"heirs" yaml:"heirs"`
	ExemptionLimitJPY      float64            `json:"exemption_limit_jpy" yaml:"exemption_limit_jpy"`
	ExcessOverExemptionJPY float64            `json:"excess_over_exemption_jpy" yaml:"excess_over_exemption_jpy"`
}

// PVFactor returns the present value of 1 paid at the end of each of years
// periods at ratePercent interest. At 0% it is exactly years; non-positive
// years give 0.
func PVFactor(ratePercent float64, years int) float64 {
	if years <= 0 {
		return 0
	}
	r := ratePercent / 100
	if r == 0 {
		return float64(years)
	}
	return (1 - math.Pow(1+r, -float64(years))) / r
}

// RemainingYears is how many years the spouse is expected to survive after
// year, never negative.
func RemainingYears(p plan.UserProfile, year, spouseLifeExpectancy int) int {
	return max(0, spouseLifeExpectancy-(year-p.SpouseBirthYearOr()))
}

func (in Inputs) validate() error {
	var errs plan.ValidationErrors
	if math.IsNaN(in.InterestRate) || in.InterestRate < 0 {
		errs = append(errs, plan.Invalid("interest_rate", "must not be negative, got %v", in.InterestRate))
	}
	if in.Heirs < 1 {
		errs = append(errs, plan.Invalid("heirs", "at least one heir is required, got %d", in.Heirs))
	}
	if _, err := market.NewConverter(in.ExchangeRate); err != nil {
		errs = append(errs, plan.Invalid("exchange_rate", "must be positive, got %v", in.ExchangeRate))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Value builds the valuation report for in.Year. A year missing from the
// series is a NOT_FOUND error and no partial report is returned.
func Value(in Inputs) (Report, error) {
	if err := in.validate(); err != nil {
		return Report{}, err
	}
	snap, err := plan.FindYear(in.Series, in.Year)
	if err != nil {
		return Report{}, err
	}
	conv, _ := market.NewConverter(in.ExchangeRate)

	rep := Report{
		Year:           in.Year,
		SpouseAge:      in.Year - in.Profile.SpouseBirthYearOr(),
		RemainingYears: RemainingYears(in.Profile, in.Year, in.SpouseLifeExpectancy),
		ExchangeRate:   in.ExchangeRate,
		Heirs:          in.Heirs,
		Pensions:       make([]PensionValuation, 0, len(in.Pensions)),
	}
	rep.PVFactor = PVFactor(in.InterestRate, rep.RemainingYears)

	for _, p := range in.Pensions {
		annual := snap.PensionIncomes[p.Name]
		usd := annual * rep.PVFactor
		v := PensionValuation{
			ID:              p.ID,
			Name:            p.Name,
			AnnualAmountUSD: annual,
			ValuationUSD:    usd,
			ValuationJPY:    conv.JPY(usd, plan.USD),
		}
		rep.Pensions = append(rep.Pensions, v)
		rep.TotalPensionUSD += v.ValuationUSD
		rep.TotalPensionJPY += v.ValuationJPY
	}

	names := make([]string, 0, len(snap.AssetBalances))
	for name := range snap.AssetBalances {
		names = append(names, name)
	}
	sort.Strings(names)
	rep.Assets = make([]AssetValuation, 0, len(names))
	for _, name := range names {
		usd := snap.AssetBalances[name]
		v := AssetValuation{Name: name, ValuationUSD: usd, ValuationJPY: conv.JPY(usd, plan.USD)}
		rep.Assets = append(rep.Assets, v)
		rep.TotalAssetUSD += v.ValuationUSD
		rep.TotalAssetJPY += v.ValuationJPY
	}

	rep.GrandTotalUSD = rep.TotalPensionUSD + rep.TotalAssetUSD
	rep.GrandTotalJPY = rep.TotalPensionJPY + rep.TotalAssetJPY
	rep.ExemptionLimitJPY = float64(ExemptionPerHeirJPY * in.Heirs)
	rep.ExcessOverExemptionJPY = max(0, rep.GrandTotalJPY-rep.ExemptionLimitJPY)
	return rep, nil
}
