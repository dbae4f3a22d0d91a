package plan

// Example returns a filled-in input for a US/Japan household: a US 401k, a
// yen brokerage account, both public pensions and a relocation to Japan.
func Example() SimulationInput {
	spouse := 1978
	withdrawAge := 67
	withdrawRate := 0.04
	return SimulationInput{
		Profile: UserProfile{
			BirthYear:       1975,
			SpouseBirthYear: &spouse,
			CurrentLocation: LocationUS,
			RetirementAge:   65,
			LifeExpectancy:  95,
		},
		Assets: []Asset{
			{
				Name:                "401k",
				Type:                Asset401k,
				CurrentValue:        250000,
				Currency:            USD,
				ContributionMonthly: 1500,
				ExpectedReturnRate:  0.06,
				WithdrawalStartAge:  &withdrawAge,
				WithdrawalRate:      &withdrawRate,
			},
			{
				Name:                 "NISA",
				Type:                 AssetBrokerage,
				CurrentValue:         3000000,
				Currency:             JPY,
				ContributionMonthly:  300,
				ContributionCurrency: USD,
				ExpectedReturnRate:   0.04,
			},
		},
		Pensions: []Pension{
			{
				Name:                   "SocialSecurity",
				Type:                   PensionSocialSecurity,
				StartAge:               67,
				MonthlyAmountEstimated: 2400,
				Currency:               USD,
				IsInflationAdjusted:    true,
			},
			{
				Name:                   "Kosei Nenkin",
				Type:                   PensionJP,
				StartAge:               65,
				MonthlyAmountEstimated: 80000,
				Currency:               JPY,
				IsInflationAdjusted:    true,
			},
		},
		LifeEvents: []LifeEvent{
			{
				Name:                "Move to Japan",
				Type:                EventRelocation,
				Year:                2040,
				Month:               4,
				Description:         "Shipping and deposit, then lower rent",
				ImpactOneTime:       -20000,
				ImpactMonthly:       500,
				IsInflationAdjusted: true,
			},
		},
		ExchangeRateUSDJPY: 150,
		InflationRateUS:    0.025,
		InflationRateJP:    0.01,
	}
}
