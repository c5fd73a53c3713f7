package application

import (
	"encoding/base64"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/parcelworks/shipping-gateway/internal/domain"
	apperrors "github.com/parcelworks/shipping-gateway/pkg/errors"
)

func toDomainAddress(in AddressInput) domain.Address {
	return domain.Address{
		Name:       in.Name,
		Company:    in.Company,
		Street1:    in.Street1,
		Street2:    in.Street2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		Phone:      in.Phone,
		Email:      in.Email,
	}
}

func toAddressInput(a domain.Address) AddressInput {
	return AddressInput{
		Name:       a.Name,
		Company:    a.Company,
		Street1:    a.Street1,
		Street2:    a.Street2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
		Email:      a.Email,
	}
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, apperrors.ErrValidation(fmt.Sprintf("invalid decimal value for %s: %q", field, value))
	}
	return d, nil
}

// toShipmentRequest rebuilds the carrier-facing shipment input from a
// persisted record and the configured account. The account's method follows
// the record.
func toShipmentRequest(record *domain.ShipmentRecord, account domain.CarrierAccount, catalog domain.ServiceCatalog) (domain.ShipmentRequest, error) {
	account.Method = record.Method

	request := domain.ShipmentRequest{
		ShipmentID:       record.ShipmentID,
		Account:          account,
		Shipper:          record.Shipper,
		Origin:           record.Origin,
		Destination:      record.Destination,
		Currency:         record.Currency,
		SaturdayDelivery: record.SaturdayDelivery,
		TrackingNumber:   record.TrackingNumber,
	}

	if record.Service != nil {
		if service, ok := catalog.Resolve(record.Service.Code); ok {
			request.Service = &service
		} else {
			svc := *record.Service
			request.Service = &svc
		}
	}

	for _, pkg := range record.Packages {
		weight, err := parseDecimal("package weight", pkg.Weight)
		if err != nil {
			return domain.ShipmentRequest{}, err
		}
		insured, err := parseDecimal("package insured value", pkg.InsuredValue)
		if err != nil {
			return domain.ShipmentRequest{}, err
		}
		request.Packages = append(request.Packages, domain.PackageSpec{
			Code:          pkg.Code,
			PackagingType: pkg.PackagingType,
			Weight:        weight,
			InsuredValue:  insured,
		})
	}

	for _, line := range record.Lines {
		quantity, err := parseDecimal("line quantity", line.Quantity)
		if err != nil {
			return domain.ShipmentRequest{}, err
		}
		factor, err := parseDecimal("line unit factor", line.UnitFactor)
		if err != nil {
			return domain.ShipmentRequest{}, err
		}
		price, err := parseDecimal("line unit price", line.UnitPrice)
		if err != nil {
			return domain.ShipmentRequest{}, err
		}
		request.Lines = append(request.Lines, domain.LineItem{
			ProductCode:     line.ProductCode,
			Name:            line.Name,
			Quantity:        quantity,
			Unit:            line.Unit,
			DefaultUnit:     line.DefaultUnit,
			UnitFactor:      factor,
			UnitPrice:       price,
			CountryOfOrigin: line.CountryOfOrigin,
		})
	}

	return request, nil
}

func toShipmentDTO(record *domain.ShipmentRecord) *ShipmentDTO {
	dto := &ShipmentDTO{
		ShipmentID:       record.ShipmentID,
		OrderID:          record.OrderID,
		Status:           string(record.Status),
		Method:           string(record.Method),
		Currency:         record.Currency,
		SaturdayDelivery: record.SaturdayDelivery,
		Shipper:          toAddressInput(record.Shipper),
		Origin:           toAddressInput(record.Origin),
		Destination:      toAddressInput(record.Destination),
		TrackingNumber:   record.TrackingNumber,
		Cost:             record.Cost,
		CostCurrency:     record.CostCurrency,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
		LabeledAt:        record.LabeledAt,
		VoidedAt:         record.VoidedAt,
	}
	if record.Service != nil {
		dto.ServiceCode = record.Service.Code
		dto.ServiceName = record.Service.Name
	}
	for _, pkg := range record.Packages {
		dto.Packages = append(dto.Packages, PackageDTO{
			Code:           pkg.Code,
			PackagingType:  pkg.PackagingType,
			Weight:         pkg.Weight,
			InsuredValue:   pkg.InsuredValue,
			TrackingNumber: pkg.TrackingNumber,
			LabelFormat:    pkg.LabelFormat,
		})
	}
	return dto
}

func toRateQuoteDTOs(quotes []domain.RateQuote) []RateQuoteDTO {
	dtos := make([]RateQuoteDTO, 0, len(quotes))
	for _, quote := range quotes {
		dtos = append(dtos, RateQuoteDTO{
			ServiceCode:       quote.Service.Code,
			ServiceName:       quote.Service.Name,
			Amount:            quote.Cost.Amount.String(),
			Currency:          quote.Cost.Currency,
			Negotiated:        quote.Negotiated,
			ScheduledDelivery: quote.ScheduledDelivery,
			GuaranteedDays:    quote.GuaranteedDays,
		})
	}
	return dtos
}

func toLabelDTO(shipmentID string, result *domain.LabelResult) *LabelDTO {
	dto := &LabelDTO{
		ShipmentID:     shipmentID,
		TrackingNumber: result.TrackingNumber,
		Cost:           result.Cost.Amount.String(),
		Currency:       result.Cost.Currency,
	}
	for _, label := range result.Packages {
		dto.Packages = append(dto.Packages, PackageLabelDTO{
			TrackingNumber: label.TrackingNumber,
			Format:         label.Format,
			Image:          base64.StdEncoding.EncodeToString(label.Image),
		})
	}
	return dto
}

func toAddressSuggestionDTOs(suggestions []domain.AddressSuggestion) []AddressSuggestionDTO {
	dtos := make([]AddressSuggestionDTO, 0, len(suggestions))
	for _, s := range suggestions {
		dtos = append(dtos, AddressSuggestionDTO{
			Rank:           s.Rank,
			Quality:        s.Quality,
			City:           s.City,
			State:          s.State,
			PostalCodeLow:  s.PostalCodeLow,
			PostalCodeHigh: s.PostalCodeHigh,
		})
	}
	return dtos
}
