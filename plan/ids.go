package plan

import "github.com/rustyeddy/nestegg/pkg/id"

// WithIDs returns a deep copy of in where every asset, pension and life event
// without an id gets a freshly generated one. in is left untouched.
func WithIDs(in SimulationInput) SimulationInput {
	out := Clone(in)
	for i := range out.Assets {
		if out.Assets[i].ID == "" {
			out.Assets[i].ID = id.New()
		}
	}
	for i := range out.Pensions {
		if out.Pensions[i].ID == "" {
			out.Pensions[i].ID = id.New()
		}
	}
	for i := range out.LifeEvents {
		if out.LifeEvents[i].ID == "" {
			out.LifeEvents[i].ID = id.New()
		}
	}
	return out
}

// Clone deep-copies in, including optional pointer fields, so the copy can be
// edited without aliasing the caller's value.
func Clone(in SimulationInput) SimulationInput {
	out := in
	if in.Profile.SpouseBirthYear != nil {
		v := *in.Profile.SpouseBirthYear
		out.Profile.SpouseBirthYear = &v
	}
	if in.Assets != nil {
		out.Assets = make([]Asset, len(in.Assets))
		for i, a := range in.Assets {
			if a.WithdrawalStartAge != nil {
				v := *a.WithdrawalStartAge
				a.WithdrawalStartAge = &v
			}
			if a.WithdrawalRate != nil {
				v := *a.WithdrawalRate
				a.WithdrawalRate = &v
			}
			out.Assets[i] = a
		}
	}
	if in.Pensions != nil {
		out.Pensions = append([]Pension(nil), in.Pensions...)
	}
	if in.LifeEvents != nil {
		out.LifeEvents = append([]LifeEvent(nil), in.LifeEvents...)
	}
	return out
}

// NewInput returns an empty input that carries the given market assumptions.
// Decode a request or file over it so only fields the source leaves out keep
// these values; an explicit zero in the source is preserved.
func NewInput(exchangeRate, inflationUS, inflationJP float64) SimulationInput {
	return SimulationInput{
		ExchangeRateUSDJPY: exchangeRate,
		InflationRateUS:    inflationUS,
		InflationRateJP:    inflationJP,
	}
}
