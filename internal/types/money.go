// README: Common money value object used across modules.
package types

import "github.com/shopspring/decimal"

const DefaultCurrency = "USD"

type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: currency}
}

// RoundMoney rounds to 2 decimal places using banker's rounding. Applied once
// per exported monetary field; intermediate math keeps full precision.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}
