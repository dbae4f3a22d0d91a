package market

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/nestegg/plan"
)

// Fraction returns the number of minor-unit digits for currency (2 for USD,
// 0 for JPY).
func Fraction(currency plan.Currency) int {
	c := money.GetCurrency(string(currency))
	if c == nil {
		return 2
	}
	return c.Fraction
}

// Round rounds amount to the currency's minor unit.
func Round(amount float64, currency plan.Currency) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(int32(Fraction(currency)))
}

// Format renders amount for display, e.g. "$1,234.56" or "¥185,185".
func Format(amount float64, currency plan.Currency) string {
	minor := Round(amount, currency).Shift(int32(Fraction(currency))).IntPart()
	return money.New(minor, string(currency)).Display()
}
