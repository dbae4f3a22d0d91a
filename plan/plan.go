// Package plan holds the inputs and outputs of a projection run: the user's
// profile, assets, pensions and life events, and the yearly snapshots the
// projector emits. Values are never mutated by the core; every run builds new
// results from an input passed by value.
package plan

// Currency is a two-letter currency code.
type Currency string

const (
	USD Currency = "USD"
	JPY Currency = "JPY"
)

func (c Currency) Valid() bool { return c == USD || c == JPY }

type Location string

const (
	LocationUS Location = "US"
	LocationJP Location = "JP"
)

type AssetType string

const (
	Asset401k       AssetType = "401k"
	AssetIRA        AssetType = "IRA"
	AssetRothIRA    AssetType = "RothIRA"
	AssetBrokerage  AssetType = "Brokerage"
	AssetCrypto     AssetType = "Crypto"
	AssetRealEstate AssetType = "RealEstate"
	AssetCash       AssetType = "Cash"
	AssetOther      AssetType = "Other"
)

func (t AssetType) Valid() bool {
	switch t {
	case Asset401k, AssetIRA, AssetRothIRA, AssetBrokerage,
		AssetCrypto, AssetRealEstate, AssetCash, AssetOther:
		return true
	}
	return false
}

type PensionType string

const (
	PensionSocialSecurity PensionType = "SocialSecurity"
	PensionJP             PensionType = "JPPension"
	PensionPrivateAnnuity PensionType = "PrivateAnnuity"
	PensionOther          PensionType = "Other"
)

func (t PensionType) Valid() bool {
	switch t {
	case PensionSocialSecurity, PensionJP, PensionPrivateAnnuity, PensionOther:
		return true
	}
	return false
}

type EventType string

const (
	EventRetirement   EventType = "Retirement"
	EventRelocation   EventType = "Relocation"
	EventEducationEnd EventType = "EducationEnd"
	EventOther        EventType = "Other"
)

// Valid accepts the empty type, which is treated as Other.
func (t EventType) Valid() bool {
	switch t {
	case "", EventRetirement, EventRelocation, EventEducationEnd, EventOther:
		return true
	}
	return false
}

type UserProfile struct {
	BirthYear       int      `json:"birth_year" yaml:"birth_year"`
	SpouseBirthYear *int     `json:"spouse_birth_year,omitempty" yaml:"spouse_birth_year,omitempty"`
	CurrentLocation Location `json:"current_location,omitempty" yaml:"current_location,omitempty"`
	RetirementAge   int      `json:"retirement_age" yaml:"retirement_age"`
	LifeExpectancy  int      `json:"life_expectancy" yaml:"life_expectancy"`
}

// TerminalYear is the last calendar year of the projection.
func (p UserProfile) TerminalYear() int { return p.BirthYear + p.LifeExpectancy }

// AgeIn returns the age reached during year.
func (p UserProfile) AgeIn(year int) int { return year - p.BirthYear }

// SpouseBirthYearOr returns the spouse's birth year, falling back to the
// user's own when none is recorded.
func (p UserProfile) SpouseBirthYearOr() int {
	if p.SpouseBirthYear != nil {
		return *p.SpouseBirthYear
	}
	return p.BirthYear
}

type Asset struct {
	ID                   string    `json:"id" yaml:"id"`
	Name                 string    `json:"name" yaml:"name"`
	Type                 AssetType `json:"type" yaml:"type"`
	CurrentValue         float64   `json:"current_value" yaml:"current_value"`
	Currency             Currency  `json:"currency" yaml:"currency"`
	ContributionMonthly  float64   `json:"contribution_monthly" yaml:"contribution_monthly"`
	ContributionCurrency Currency  `json:"contribution_currency,omitempty" yaml:"contribution_currency,omitempty"`
	ExpectedReturnRate   float64   `json:"expected_return_rate" yaml:"expected_return_rate"`
	WithdrawalStartAge   *int      `json:"withdrawal_start_age,omitempty" yaml:"withdrawal_start_age,omitempty"`
	WithdrawalRate       *float64  `json:"withdrawal_rate,omitempty" yaml:"withdrawal_rate,omitempty"`

	// StopAtRetirement ends monthly contributions from the year the profile
	// reaches retirement_age. Off by default.
	StopAtRetirement bool `json:"stop_contributions_at_retirement,omitempty" yaml:"stop_contributions_at_retirement,omitempty"`
}

// IsTaxable reports whether the asset sits outside a tax-advantaged account.
func (a Asset) IsTaxable() bool {
	switch a.Type {
	case Asset401k, AssetIRA, AssetRothIRA:
		return false
	}
	return true
}

// ContributionIn returns the currency contributions are made in.
func (a Asset) ContributionIn() Currency {
	if a.ContributionCurrency == "" {
		return a.Currency
	}
	return a.ContributionCurrency
}

type Pension struct {
	ID                     string      `json:"id" yaml:"id"`
	Name                   string      `json:"name" yaml:"name"`
	Type                   PensionType `json:"type" yaml:"type"`
	StartAge               int         `json:"start_age" yaml:"start_age"`
	MonthlyAmountEstimated float64     `json:"monthly_amount_estimated" yaml:"monthly_amount_estimated"`
	Currency               Currency    `json:"currency" yaml:"currency"`
	IsInflationAdjusted    bool        `json:"is_inflation_adjusted" yaml:"is_inflation_adjusted"`
}

type LifeEvent struct {
	ID                  string    `json:"id" yaml:"id"`
	Name                string    `json:"name" yaml:"name"`
	Type                EventType `json:"type" yaml:"type"`
	Year                int       `json:"year" yaml:"year"`
	Month               int       `json:"month" yaml:"month"`
	Description         string    `json:"description,omitempty" yaml:"description,omitempty"`
	ImpactOneTime       float64   `json:"impact_one_time" yaml:"impact_one_time"`
	ImpactMonthly       float64   `json:"impact_monthly" yaml:"impact_monthly"`
	IsInflationAdjusted bool      `json:"is_inflation_adjusted,omitempty" yaml:"is_inflation_adjusted,omitempty"`
}

type SimulationInput struct {
	Profile            UserProfile `json:"profile" yaml:"profile"`
	Assets             []Asset     `json:"assets" yaml:"assets"`
	Pensions           []Pension   `json:"pensions" yaml:"pensions"`
	LifeEvents         []LifeEvent `json:"life_events" yaml:"life_events"`
	ExchangeRateUSDJPY float64     `json:"exchange_rate_usd_jpy" yaml:"exchange_rate_usd_jpy"`
	InflationRateUS    float64     `json:"inflation_rate_us" yaml:"inflation_rate_us"`
	InflationRateJP    float64     `json:"inflation_rate_jp" yaml:"inflation_rate_jp"`
}

// InflationRate returns the rate used to index amounts in currency c.
func (in SimulationInput) InflationRate(c Currency) float64 {
	if c == JPY {
		return in.InflationRateJP
	}
	return in.InflationRateUS
}

// SimulationResult is the end-of-year snapshot for one projected year.
// All amounts are USD.
type SimulationResult struct {
	Year           int                `json:"year" yaml:"year"`
	Age            int                `json:"age" yaml:"age"`
	TotalAssets    float64            `json:"total_assets" yaml:"total_assets"`
	PensionIncomes map[string]float64 `json:"pension_incomes" yaml:"pension_incomes"`
	AssetBalances  map[string]float64 `json:"asset_balances" yaml:"asset_balances"`
	AssetDrawdowns map[string]float64 `json:"asset_drawdowns" yaml:"asset_drawdowns"`
}

// FindYear returns the snapshot for year.
func FindYear(series []SimulationResult, year int) (SimulationResult, error) {
	for _, r := range series {
		if r.Year == year {
			return r, nil
		}
	}
	return SimulationResult{}, NotFound("year %d is not in the projected series", year)
}
