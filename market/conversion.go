// Package market converts amounts between the two currencies a plan may hold.
//
// A single USD/JPY rate (JPY per 1 USD) is used for a whole run. Rates that
// move over the projection horizon are deliberately not modelled.
package market

import (
	"fmt"
	"math"

	"github.com/rustyeddy/nestegg/plan"
)

func checkRate(rate float64) error {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return plan.Invalid("exchange_rate_usd_jpy", "must be positive, got %v", rate)
	}
	return nil
}

// ToUSD converts amount held in currency into USD.
func ToUSD(amount float64, currency plan.Currency, rate float64) (float64, error) {
	if err := checkRate(rate); err != nil {
		return 0, err
	}
	switch currency {
	case plan.USD:
		return amount, nil
	case plan.JPY:
		return amount / rate, nil
	}
	return 0, plan.Invalid("currency", "unknown currency %q", currency)
}

// ToJPY converts amount held in currency into JPY.
func ToJPY(amount float64, currency plan.Currency, rate float64) (float64, error) {
	if err := checkRate(rate); err != nil {
		return 0, err
	}
	switch currency {
	case plan.USD:
		return amount * rate, nil
	case plan.JPY:
		return amount, nil
	}
	return 0, plan.Invalid("currency", "unknown currency %q", currency)
}

// Convert moves amount from one currency to another.
func Convert(amount float64, from, to plan.Currency, rate float64) (float64, error) {
	switch to {
	case plan.USD:
		return ToUSD(amount, from, rate)
	case plan.JPY:
		return ToJPY(amount, from, rate)
	}
	return 0, fmt.Errorf("convert to %q: %w", to, plan.Invalid("currency", "unknown currency %q", to))
}

// Converter binds a rate that has already been validated, so the projector can
// convert without re-checking it on every call.
type Converter struct {
	rate float64
}

// NewConverter validates rate and returns a Converter for it.
func NewConverter(rate float64) (Converter, error) {
	if err := checkRate(rate); err != nil {
		return Converter{}, err
	}
	return Converter{rate: rate}, nil
}

func (c Converter) Rate() float64 { return c.rate }

// USD converts a validated-currency amount to USD.
func (c Converter) USD(amount float64, currency plan.Currency) float64 {
	if currency == plan.JPY {
		return amount / c.rate
	}
	return amount
}

// JPY converts a validated-currency amount to JPY.
func (c Converter) JPY(amount float64, currency plan.Currency) float64 {
	if currency == plan.USD {
		return amount * c.rate
	}
	return amount
}

// To converts amount between two validated currencies.
func (c Converter) To(amount float64, from, to plan.Currency) float64 {
	if from == to {
		return amount
	}
	if to == plan.JPY {
		return c.JPY(amount, from)
	}
	return c.USD(amount, from)
}
