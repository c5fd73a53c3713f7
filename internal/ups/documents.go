package ups

import (
	"encoding/xml"
	"fmt"
)

// Wire documents for the UPS XML services. Element names and shapes follow
// the carrier's schemas for RatingServiceSelection, ShipmentConfirm,
// ShipmentAccept, ShipmentVoid and AddressValidation.

// RequestHeader is the common Request block of every call
type RequestHeader struct {
	RequestAction string `xml:"RequestAction"`
	RequestOption string `xml:"RequestOption,omitempty"`
}

// CodeOnly wraps elements that carry a single Code child
type CodeOnly struct {
	Code string `xml:"Code"`
}

// AddressBlock is the nested Address element of the party blocks
type AddressBlock struct {
	AddressLine1      string `xml:"AddressLine1,omitempty"`
	AddressLine2      string `xml:"AddressLine2,omitempty"`
	City              string `xml:"City,omitempty"`
	StateProvinceCode string `xml:"StateProvinceCode,omitempty"`
	PostalCode        string `xml:"PostalCode,omitempty"`
	CountryCode       string `xml:"CountryCode"`
}

// ShipperBlock identifies the account party billed for the shipment
type ShipperBlock struct {
	Name          string       `xml:"Name,omitempty"`
	AttentionName string       `xml:"AttentionName,omitempty"`
	PhoneNumber   string       `xml:"PhoneNumber,omitempty"`
	ShipperNumber string       `xml:"ShipperNumber"`
	Address       AddressBlock `xml:"Address"`
}

// ShipToBlock is the destination party
type ShipToBlock struct {
	CompanyName   string       `xml:"CompanyName,omitempty"`
	AttentionName string       `xml:"AttentionName,omitempty"`
	PhoneNumber   string       `xml:"PhoneNumber,omitempty"`
	Address       AddressBlock `xml:"Address"`
}

// ShipFromBlock is the physical origin party
type ShipFromBlock struct {
	CompanyName   string       `xml:"CompanyName,omitempty"`
	AttentionName string       `xml:"AttentionName,omitempty"`
	PhoneNumber   string       `xml:"PhoneNumber,omitempty"`
	Address       AddressBlock `xml:"Address"`
}

// UnitWeight is a weight with its unit-of-measurement code
type UnitWeight struct {
	UnitOfMeasurement CodeOnly `xml:"UnitOfMeasurement"`
	Weight            string   `xml:"Weight"`
}

// InsuredValueBlock declares a package's declared value
type InsuredValueBlock struct {
	CurrencyCode  string `xml:"CurrencyCode,omitempty"`
	MonetaryValue string `xml:"MonetaryValue"`
}

// PackageServiceOptionsBlock carries per-package service options
type PackageServiceOptionsBlock struct {
	InsuredValue *InsuredValueBlock `xml:"InsuredValue,omitempty"`
}

// PackageBlock is one Package element of a shipment
type PackageBlock struct {
	PackagingType         CodeOnly                    `xml:"PackagingType"`
	PackageWeight         UnitWeight                  `xml:"PackageWeight"`
	PackageServiceOptions *PackageServiceOptionsBlock `xml:"PackageServiceOptions,omitempty"`
}

// RateInformationBlock requests account-negotiated rates in the response
type RateInformationBlock struct {
	NegotiatedRatesIndicator string `xml:"NegotiatedRatesIndicator"`
}

// MonetaryValueBlock is a charge with its currency
type MonetaryValueBlock struct {
	CurrencyCode  string `xml:"CurrencyCode"`
	MonetaryValue string `xml:"MonetaryValue"`
}

// NegotiatedRatesBlock carries account-negotiated charges in responses
type NegotiatedRatesBlock struct {
	NetSummaryCharges struct {
		GrandTotal MonetaryValueBlock `xml:"GrandTotal"`
	} `xml:"NetSummaryCharges"`
}

// ResponseError is one Error element of a response status block
type ResponseError struct {
	ErrorSeverity    string `xml:"ErrorSeverity"`
	ErrorCode        string `xml:"ErrorCode"`
	ErrorDescription string `xml:"ErrorDescription"`
}

// ResponseStatus is the common Response block of every reply
type ResponseStatus struct {
	ResponseStatusCode        int             `xml:"ResponseStatusCode"`
	ResponseStatusDescription string          `xml:"ResponseStatusDescription"`
	Errors                    []ResponseError `xml:"Error"`
}

// OK reports whether the carrier processed the request successfully
func (r ResponseStatus) OK() bool {
	return r.ResponseStatusCode == 1
}

// Fault renders the first reported error as the carrier's severity-qualified
// fault string ("Hard-111285: <description>").
func (r ResponseStatus) Fault() string {
	if len(r.Errors) == 0 {
		return r.ResponseStatusDescription
	}
	e := r.Errors[0]
	return fmt.Sprintf("%s-%s: %s", e.ErrorSeverity, e.ErrorCode, e.ErrorDescription)
}

// responseDocument is implemented by every reply document
type responseDocument interface {
	Status() ResponseStatus
}

// --- Rating ---

// RatingServiceSelectionRequest prices a shipment for one or all services
type RatingServiceSelectionRequest struct {
	XMLName  xml.Name            `xml:"RatingServiceSelectionRequest"`
	Request  RequestHeader       `xml:"Request"`
	Shipment RatingShipmentBlock `xml:"Shipment"`
}

// RatingShipmentBlock is the Shipment element of a rating request
type RatingShipmentBlock struct {
	Shipper         ShipperBlock          `xml:"Shipper"`
	ShipTo          ShipToBlock           `xml:"ShipTo"`
	ShipFrom        ShipFromBlock         `xml:"ShipFrom"`
	Service         *CodeOnly             `xml:"Service,omitempty"`
	RateInformation *RateInformationBlock `xml:"RateInformation,omitempty"`
	Packages        []PackageBlock        `xml:"Package"`
}

// RatedShipment is one priced service line of a rating response
type RatedShipment struct {
	Service                  CodeOnly              `xml:"Service"`
	TotalCharges             MonetaryValueBlock    `xml:"TotalCharges"`
	NegotiatedRates          *NegotiatedRatesBlock `xml:"NegotiatedRates"`
	ScheduledDeliveryTime    string                `xml:"ScheduledDeliveryTime"`
	GuaranteedDaysToDelivery string                `xml:"GuaranteedDaysToDelivery"`
}

// RatingServiceSelectionResponse is the rating reply
type RatingServiceSelectionResponse struct {
	XMLName        xml.Name        `xml:"RatingServiceSelectionResponse"`
	Response       ResponseStatus  `xml:"Response"`
	RatedShipments []RatedShipment `xml:"RatedShipment"`
}

func (r *RatingServiceSelectionResponse) Status() ResponseStatus { return r.Response }

// --- ShipmentConfirm ---

// ShipmentConfirmRequest opens a label purchase and returns a digest
type ShipmentConfirmRequest struct {
	XMLName            xml.Name                `xml:"ShipmentConfirmRequest"`
	Request            RequestHeader           `xml:"Request"`
	Shipment           ConfirmShipmentBlock    `xml:"Shipment"`
	LabelSpecification LabelSpecificationBlock `xml:"LabelSpecification"`
}

// ConfirmShipmentBlock is the Shipment element of a confirm request.
// Packages come last, in request input order.
type ConfirmShipmentBlock struct {
	Description            string                      `xml:"Description,omitempty"`
	Shipper                ShipperBlock                `xml:"Shipper"`
	ShipTo                 ShipToBlock                 `xml:"ShipTo"`
	ShipFrom               ShipFromBlock               `xml:"ShipFrom"`
	Service                CodeOnly                    `xml:"Service"`
	PaymentInformation     PaymentInformationBlock     `xml:"PaymentInformation"`
	ShipmentServiceOptions ShipmentServiceOptionsBlock `xml:"ShipmentServiceOptions"`
	RateInformation        *RateInformationBlock       `xml:"RateInformation,omitempty"`
	InvoiceLineTotal       *MonetaryValueBlock         `xml:"InvoiceLineTotal,omitempty"`
	Packages               []PackageBlock              `xml:"Package"`
}

// PaymentInformationBlock bills transportation to the shipper account
type PaymentInformationBlock struct {
	Prepaid PrepaidBlock `xml:"Prepaid"`
}

type PrepaidBlock struct {
	BillShipper BillShipperBlock `xml:"BillShipper"`
}

type BillShipperBlock struct {
	AccountNumber string `xml:"AccountNumber"`
}

// ShipmentServiceOptionsBlock carries shipment-level service options
type ShipmentServiceOptionsBlock struct {
	SaturdayDelivery string `xml:"SaturdayDelivery"`
}

// LabelSpecificationBlock selects the label rendering
type LabelSpecificationBlock struct {
	LabelPrintMethod CodeOnly `xml:"LabelPrintMethod"`
	LabelImageFormat CodeOnly `xml:"LabelImageFormat"`
}

// ShipmentChargesBlock carries the charges of a confirm or accept reply
type ShipmentChargesBlock struct {
	TransportationCharges *MonetaryValueBlock `xml:"TransportationCharges"`
	ServiceOptionsCharges *MonetaryValueBlock `xml:"ServiceOptionsCharges"`
	TotalCharges          MonetaryValueBlock  `xml:"TotalCharges"`
}

// ShipmentConfirmResponse is the confirm reply
type ShipmentConfirmResponse struct {
	XMLName                      xml.Name              `xml:"ShipmentConfirmResponse"`
	Response                     ResponseStatus        `xml:"Response"`
	ShipmentCharges              ShipmentChargesBlock  `xml:"ShipmentCharges"`
	NegotiatedRates              *NegotiatedRatesBlock `xml:"NegotiatedRates"`
	ShipmentIdentificationNumber string                `xml:"ShipmentIdentificationNumber"`
	ShipmentDigest               string                `xml:"ShipmentDigest"`
}

func (r *ShipmentConfirmResponse) Status() ResponseStatus { return r.Response }

// --- ShipmentAccept ---

// ShipmentAcceptRequest settles a confirmed purchase by its digest
type ShipmentAcceptRequest struct {
	XMLName        xml.Name      `xml:"ShipmentAcceptRequest"`
	Request        RequestHeader `xml:"Request"`
	ShipmentDigest string        `xml:"ShipmentDigest"`
}

// PackageResultBlock is the label result for one package. Results are
// positional; the carrier provides no join key back to the request packages.
type PackageResultBlock struct {
	TrackingNumber        string              `xml:"TrackingNumber"`
	ServiceOptionsCharges *MonetaryValueBlock `xml:"ServiceOptionsCharges"`
	LabelImage            LabelImageBlock     `xml:"LabelImage"`
}

// LabelImageBlock carries the base64-encoded label graphic
type LabelImageBlock struct {
	LabelImageFormat CodeOnly `xml:"LabelImageFormat"`
	GraphicImage     string   `xml:"GraphicImage"`
}

// ShipmentResultsBlock is the settled shipment of an accept reply
type ShipmentResultsBlock struct {
	ShipmentCharges              ShipmentChargesBlock `xml:"ShipmentCharges"`
	ShipmentIdentificationNumber string               `xml:"ShipmentIdentificationNumber"`
	PackageResults               []PackageResultBlock `xml:"PackageResults"`
}

// ShipmentAcceptResponse is the accept reply
type ShipmentAcceptResponse struct {
	XMLName         xml.Name             `xml:"ShipmentAcceptResponse"`
	Response        ResponseStatus       `xml:"Response"`
	ShipmentResults ShipmentResultsBlock `xml:"ShipmentResults"`
}

func (r *ShipmentAcceptResponse) Status() ResponseStatus { return r.Response }

// --- ShipmentVoid ---

// VoidShipmentRequest releases a confirmed shipment
type VoidShipmentRequest struct {
	XMLName                      xml.Name      `xml:"VoidShipmentRequest"`
	Request                      RequestHeader `xml:"Request"`
	ShipmentIdentificationNumber string        `xml:"ShipmentIdentificationNumber"`
}

// VoidShipmentResponse is the void reply
type VoidShipmentResponse struct {
	XMLName  xml.Name       `xml:"VoidShipmentResponse"`
	Response ResponseStatus `xml:"Response"`
}

func (r *VoidShipmentResponse) Status() ResponseStatus { return r.Response }

// --- AddressValidation ---

// AddressValidationRequest asks for ranked candidate corrections
type AddressValidationRequest struct {
	XMLName xml.Name       `xml:"AddressValidationRequest"`
	Request RequestHeader  `xml:"Request"`
	Address AVAddressBlock `xml:"Address"`
}

// AVAddressBlock is the flat address of a validation request
type AVAddressBlock struct {
	City              string `xml:"City,omitempty"`
	StateProvinceCode string `xml:"StateProvinceCode,omitempty"`
	PostalCode        string `xml:"PostalCode,omitempty"`
	CountryCode       string `xml:"CountryCode"`
}

// AVResultBlock is one candidate of a validation reply
type AVResultBlock struct {
	Rank    int     `xml:"Rank"`
	Quality float64 `xml:"Quality"`
	Address struct {
		City              string `xml:"City"`
		StateProvinceCode string `xml:"StateProvinceCode"`
	} `xml:"Address"`
	PostalCodeLowEnd  string `xml:"PostalCodeLowEnd"`
	PostalCodeHighEnd string `xml:"PostalCodeHighEnd"`
}

// AddressValidationResponse is the validation reply
type AddressValidationResponse struct {
	XMLName  xml.Name        `xml:"AddressValidationResponse"`
	Response ResponseStatus  `xml:"Response"`
	Results  []AVResultBlock `xml:"AddressValidationResult"`
}

func (r *AddressValidationResponse) Status() ResponseStatus { return r.Response }
