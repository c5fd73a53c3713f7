package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateMode selects between rating one service and shopping all services
type RateMode string

const (
	RateSingle RateMode = "Rate"
	RateShop   RateMode = "Shop"
)

// Money is an amount in a specific currency, rounded to that currency's
// minor-unit precision.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// RateQuote is one priced service offering returned by the carrier
type RateQuote struct {
	Service    Service
	Cost       Money
	Negotiated bool

	// Delivery hints; at most one is set.
	ScheduledDelivery *time.Time
	GuaranteedDays    *int
}

// PackageLabel is the label issued for one package, correlated positionally
// with the request's package order.
type PackageLabel struct {
	TrackingNumber string
	Format         string
	Image          []byte
}

// LabelResult is the outcome of a settled label purchase
type LabelResult struct {
	TrackingNumber string
	Cost           Money
	Packages       []PackageLabel
}

// Reservation is a confirmed-but-unsettled label purchase. Digest settles it
// via accept; Token releases it via void. Estimate is the carrier's quoted
// cost at confirmation time.
type Reservation struct {
	Digest       string
	Token        string
	Estimate     Money
	PackageCount int
}

// AddressSuggestion is one candidate returned by address validation
type AddressSuggestion struct {
	Rank           int
	Quality        float64
	City           string
	State          string
	PostalCodeLow  string
	PostalCodeHigh string
}
