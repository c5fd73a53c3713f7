package currency

import "github.com/shopspring/decimal"

// Currency describes an ISO 4217 currency and its minor-unit digits.
type Currency struct {
	Code   string
	Digits int32
}

// Round rounds an amount to the currency's minor-unit precision.
// Rounding an already-rounded amount is a no-op.
func (c Currency) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(c.Digits)
}

// Format renders an amount with exactly the currency's minor-unit digits.
func (c Currency) Format(amount decimal.Decimal) string {
	return amount.Round(c.Digits).StringFixed(c.Digits)
}

// Registry resolves currency codes to their minor-unit precision.
type Registry struct {
	byCode map[string]Currency
}

// NewRegistry returns a registry seeded with the currencies UPS lanes use.
func NewRegistry() *Registry {
	r := &Registry{byCode: make(map[string]Currency)}

	for _, code := range []string{
		"USD", "CAD", "EUR", "GBP", "MXN", "AUD", "NZD", "CHF",
		"CNY", "HKD", "SGD", "INR", "BRL", "SEK", "NOK", "DKK", "PLN",
	} {
		r.byCode[code] = Currency{Code: code, Digits: 2}
	}
	for _, code := range []string{"JPY", "KRW"} {
		r.byCode[code] = Currency{Code: code, Digits: 0}
	}
	for _, code := range []string{"KWD", "BHD", "OMR", "JOD"} {
		r.byCode[code] = Currency{Code: code, Digits: 3}
	}

	return r
}

// Get resolves a currency code. Unknown codes fall back to two minor-unit
// digits, the dominant case for carrier-billed currencies.
func (r *Registry) Get(code string) Currency {
	if c, ok := r.byCode[code]; ok {
		return c
	}
	return Currency{Code: code, Digits: 2}
}
