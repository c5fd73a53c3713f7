package application

import "time"

// ShipmentDTO represents a shipment record in responses
type ShipmentDTO struct {
	ShipmentID       string        `json:"shipmentId"`
	OrderID          string        `json:"orderId"`
	Status           string        `json:"status"`
	Method           string        `json:"method"`
	ServiceCode      string        `json:"serviceCode,omitempty"`
	ServiceName      string        `json:"serviceName,omitempty"`
	Currency         string        `json:"currency,omitempty"`
	SaturdayDelivery bool          `json:"saturdayDelivery"`
	Shipper          AddressInput  `json:"shipper"`
	Origin           AddressInput  `json:"origin"`
	Destination      AddressInput  `json:"destination"`
	Packages         []PackageDTO  `json:"packages"`
	TrackingNumber   string        `json:"trackingNumber,omitempty"`
	Cost             string        `json:"cost,omitempty"`
	CostCurrency     string        `json:"costCurrency,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
	LabeledAt        *time.Time    `json:"labeledAt,omitempty"`
	VoidedAt         *time.Time    `json:"voidedAt,omitempty"`
}

// PackageDTO represents one package of a shipment record
type PackageDTO struct {
	Code           string `json:"code,omitempty"`
	PackagingType  string `json:"packagingType"`
	Weight         string `json:"weight"`
	InsuredValue   string `json:"insuredValue,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	LabelFormat    string `json:"labelFormat,omitempty"`
}

// RateQuoteDTO represents one priced service offering
type RateQuoteDTO struct {
	ServiceCode       string     `json:"serviceCode"`
	ServiceName       string     `json:"serviceName"`
	Amount            string     `json:"amount"`
	Currency          string     `json:"currency"`
	Negotiated        bool       `json:"negotiated"`
	ScheduledDelivery *time.Time `json:"scheduledDelivery,omitempty"`
	GuaranteedDays    *int       `json:"guaranteedDays,omitempty"`
}

// LabelDTO represents the outcome of a settled label purchase
type LabelDTO struct {
	ShipmentID     string            `json:"shipmentId"`
	TrackingNumber string            `json:"trackingNumber"`
	Cost           string            `json:"cost"`
	Currency       string            `json:"currency"`
	Packages       []PackageLabelDTO `json:"packages"`
}

// PackageLabelDTO represents one issued package label
type PackageLabelDTO struct {
	TrackingNumber string `json:"trackingNumber"`
	Format         string `json:"format"`
	// Label image, base64-encoded
	Image string `json:"image"`
}

// ReservationDTO represents a confirmed-but-unsettled label purchase
type ReservationDTO struct {
	ShipmentID   string `json:"shipmentId"`
	Digest       string `json:"digest"`
	Token        string `json:"token"`
	Estimate     string `json:"estimate"`
	Currency     string `json:"currency"`
	PackageCount int    `json:"packageCount"`
}

// ManifestDTO represents an exported WorldShip manifest
type ManifestDTO struct {
	ShipmentID string `json:"shipmentId"`
	Document   string `json:"document"`
}

// AddressSuggestionDTO represents one address validation candidate
type AddressSuggestionDTO struct {
	Rank           int     `json:"rank"`
	Quality        float64 `json:"quality"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	PostalCodeLow  string  `json:"postalCodeLow"`
	PostalCodeHigh string  `json:"postalCodeHigh"`
}
