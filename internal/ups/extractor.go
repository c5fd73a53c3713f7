package ups

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/parcelworks/shipping-gateway/internal/currency"
	"github.com/parcelworks/shipping-gateway/internal/domain"
)

// scheduledDeliveryLayout is the carrier's timestamp format for
// ScheduledDeliveryTime values.
const scheduledDeliveryLayout = "2006-01-02 15:04:05"

// Extractor turns carrier response documents into domain values
type Extractor struct {
	currencies *currency.Registry
}

// NewExtractor creates an extractor
func NewExtractor(currencies *currency.Registry) Extractor {
	return Extractor{currencies: currencies}
}

// cost applies the shared cost-precedence rule: when negotiated rates are
// enabled on the account and the response carries a negotiated block, the
// negotiated grand total wins over the standard total. The amount is rounded
// to the charge currency's minor-unit precision.
func (e Extractor) cost(total MonetaryValueBlock, negotiated *NegotiatedRatesBlock, useNegotiated bool) (domain.Money, error) {
	raw := total.MonetaryValue
	code := total.CurrencyCode
	if useNegotiated && negotiated != nil {
		grand := negotiated.NetSummaryCharges.GrandTotal
		raw = grand.MonetaryValue
		if grand.CurrencyCode != "" {
			code = grand.CurrencyCode
		}
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return domain.Money{}, fmt.Errorf("parse monetary value %q: %w", raw, err)
	}

	cur := e.currencies.Get(code)
	return domain.Money{Amount: cur.Round(amount), Currency: cur.Code}, nil
}

// ConfirmCost extracts the quoted cost of a confirm response
func (e Extractor) ConfirmCost(doc *ShipmentConfirmResponse, negotiatedEnabled bool) (domain.Money, error) {
	return e.cost(doc.ShipmentCharges.TotalCharges, doc.NegotiatedRates, negotiatedEnabled)
}

// RateQuotes extracts the priced service lines of a rating response in
// carrier order. Lines whose service code is not in the catalog are skipped.
// Each quote carries at most one delivery hint, preferring the scheduled
// delivery timestamp over the guaranteed-days count.
func (e Extractor) RateQuotes(doc *RatingServiceSelectionResponse, negotiatedEnabled bool, catalog domain.ServiceCatalog) ([]domain.RateQuote, error) {
	quotes := make([]domain.RateQuote, 0, len(doc.RatedShipments))
	for _, rated := range doc.RatedShipments {
		service, ok := catalog.Resolve(rated.Service.Code)
		if !ok {
			continue
		}

		cost, err := e.cost(rated.TotalCharges, rated.NegotiatedRates, negotiatedEnabled)
		if err != nil {
			return nil, err
		}

		quote := domain.RateQuote{
			Service:    service,
			Cost:       cost,
			Negotiated: negotiatedEnabled && rated.NegotiatedRates != nil,
		}

		if rated.ScheduledDeliveryTime != "" {
			if t, err := time.Parse(scheduledDeliveryLayout, rated.ScheduledDeliveryTime); err == nil {
				quote.ScheduledDelivery = &t
			}
		}
		if quote.ScheduledDelivery == nil && rated.GuaranteedDaysToDelivery != "" {
			if days, err := strconv.Atoi(strings.TrimSpace(rated.GuaranteedDaysToDelivery)); err == nil {
				quote.GuaranteedDays = &days
			}
		}

		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// AcceptResult extracts the settled purchase of an accept response. Package
// results correlate positionally with the request's packages; a count
// mismatch means the correlation is broken and nothing is extracted.
func (e Extractor) AcceptResult(doc *ShipmentAcceptResponse, packageCount int) (*domain.LabelResult, error) {
	results := doc.ShipmentResults
	if len(results.PackageResults) != packageCount {
		return nil, &domain.IntegrityError{Expected: packageCount, Actual: len(results.PackageResults)}
	}

	cost, err := e.cost(results.ShipmentCharges.TotalCharges, nil, false)
	if err != nil {
		return nil, err
	}

	labels := make([]domain.PackageLabel, 0, len(results.PackageResults))
	for _, pr := range results.PackageResults {
		image, err := decodeLabelImage(pr.LabelImage.GraphicImage)
		if err != nil {
			return nil, fmt.Errorf("decode label image for %s: %w", pr.TrackingNumber, err)
		}
		labels = append(labels, domain.PackageLabel{
			TrackingNumber: pr.TrackingNumber,
			Format:         pr.LabelImage.LabelImageFormat.Code,
			Image:          image,
		})
	}

	return &domain.LabelResult{
		TrackingNumber: results.ShipmentIdentificationNumber,
		Cost:           cost,
		Packages:       labels,
	}, nil
}

// AddressSuggestions extracts the ranked candidates of a validation response
func (e Extractor) AddressSuggestions(doc *AddressValidationResponse) []domain.AddressSuggestion {
	suggestions := make([]domain.AddressSuggestion, 0, len(doc.Results))
	for _, result := range doc.Results {
		suggestions = append(suggestions, domain.AddressSuggestion{
			Rank:           result.Rank,
			Quality:        result.Quality,
			City:           result.Address.City,
			State:          result.Address.StateProvinceCode,
			PostalCodeLow:  result.PostalCodeLowEnd,
			PostalCodeHigh: result.PostalCodeHighEnd,
		})
	}
	return suggestions
}

// decodeLabelImage decodes the carrier's base64 label graphic, which may be
// wrapped with whitespace.
func decodeLabelImage(encoded string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, encoded)
	return base64.StdEncoding.DecodeString(cleaned)
}
