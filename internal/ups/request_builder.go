package ups

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/parcelworks/shipping-gateway/internal/currency"
	"github.com/parcelworks/shipping-gateway/internal/domain"
)

const (
	confirmDescriptionLimit = 35

	labelPrintMethod = "GIF"
	labelImageFormat = "GIF"
)

// RequestBuilder assembles carrier request documents from shipment inputs.
// Builders validate locally and fail fast; a returned error means no
// document was produced and no carrier call should be made.
type RequestBuilder struct {
	currencies *currency.Registry
}

// NewRequestBuilder creates a request builder
func NewRequestBuilder(currencies *currency.Registry) RequestBuilder {
	return RequestBuilder{currencies: currencies}
}

// BuildRateRequest assembles a rating request. RateSingle prices the
// shipment's selected service and requires one; RateShop prices all offered
// services.
func (b RequestBuilder) BuildRateRequest(sh domain.ShipmentRequest, mode domain.RateMode) (*RatingServiceSelectionRequest, error) {
	if mode == domain.RateSingle && sh.Service == nil {
		return nil, domain.ErrServiceTypeMissing
	}
	if len(sh.Packages) == 0 {
		return nil, domain.ErrNoPackages
	}

	shipment := RatingShipmentBlock{
		Shipper:  b.shipper(sh),
		ShipTo:   b.shipTo(sh.Destination),
		ShipFrom: b.shipFrom(sh.Origin),
		Packages: b.packages(sh),
	}
	if mode == domain.RateSingle {
		shipment.Service = &CodeOnly{Code: sh.Service.Code}
	}
	if sh.Account.NegotiatedRates {
		shipment.RateInformation = &RateInformationBlock{}
	}

	return &RatingServiceSelectionRequest{
		Request: RequestHeader{
			RequestAction: "Rate",
			RequestOption: string(mode),
		},
		Shipment: shipment,
	}, nil
}

// BuildShipmentConfirm assembles a label-confirmation request
func (b RequestBuilder) BuildShipmentConfirm(sh domain.ShipmentRequest) (*ShipmentConfirmRequest, error) {
	if sh.Service == nil {
		return nil, domain.ErrServiceTypeMissing
	}
	if len(sh.Packages) == 0 {
		return nil, domain.ErrNoPackages
	}

	saturday := "None"
	if sh.SaturdayDelivery {
		saturday = "1"
	}

	shipment := ConfirmShipmentBlock{
		Description: truncate(b.description(sh.Lines), confirmDescriptionLimit),
		Shipper:     b.shipper(sh),
		ShipTo:      b.shipTo(sh.Destination),
		ShipFrom:    b.shipFrom(sh.Origin),
		Service:     CodeOnly{Code: sh.Service.Code},
		PaymentInformation: PaymentInformationBlock{
			Prepaid: PrepaidBlock{
				BillShipper: BillShipperBlock{AccountNumber: sh.Account.ShipperNumber},
			},
		},
		ShipmentServiceOptions: ShipmentServiceOptionsBlock{SaturdayDelivery: saturday},
	}
	if sh.Account.NegotiatedRates {
		shipment.RateInformation = &RateInformationBlock{}
	}
	if invoiceTotalRequired(sh.Origin.Country, sh.Destination.Country) {
		shipment.InvoiceLineTotal = &MonetaryValueBlock{
			CurrencyCode:  sh.Currency,
			MonetaryValue: b.invoiceTotal(sh),
		}
	}
	shipment.Packages = b.packages(sh)

	return &ShipmentConfirmRequest{
		Request: RequestHeader{
			RequestAction: "ShipConfirm",
			RequestOption: "validate",
		},
		Shipment: shipment,
		LabelSpecification: LabelSpecificationBlock{
			LabelPrintMethod: CodeOnly{Code: labelPrintMethod},
			LabelImageFormat: CodeOnly{Code: labelImageFormat},
		},
	}, nil
}

// BuildAddressValidation assembles an address validation request
func (b RequestBuilder) BuildAddressValidation(address domain.Address) *AddressValidationRequest {
	return &AddressValidationRequest{
		Request: RequestHeader{RequestAction: "AV"},
		Address: AVAddressBlock{
			City:              address.City,
			StateProvinceCode: address.State,
			PostalCode:        address.PostalCode,
			CountryCode:       address.Country,
		},
	}
}

func (b RequestBuilder) shipper(sh domain.ShipmentRequest) ShipperBlock {
	return ShipperBlock{
		Name:          sh.Shipper.Company,
		AttentionName: sh.Shipper.Name,
		PhoneNumber:   sh.Shipper.Phone,
		ShipperNumber: sh.Account.ShipperNumber,
		Address:       b.address(sh.Shipper),
	}
}

func (b RequestBuilder) shipTo(a domain.Address) ShipToBlock {
	return ShipToBlock{
		CompanyName:   companyName(a),
		AttentionName: a.Name,
		PhoneNumber:   a.Phone,
		Address:       b.address(a),
	}
}

func (b RequestBuilder) shipFrom(a domain.Address) ShipFromBlock {
	return ShipFromBlock{
		CompanyName:   companyName(a),
		AttentionName: a.Name,
		PhoneNumber:   a.Phone,
		Address:       b.address(a),
	}
}

func (b RequestBuilder) address(a domain.Address) AddressBlock {
	return AddressBlock{
		AddressLine1:      a.Street1,
		AddressLine2:      a.Street2,
		City:              a.City,
		StateProvinceCode: a.State,
		PostalCode:        a.PostalCode,
		CountryCode:       a.Country,
	}
}

// packages renders the package blocks in input order; the carrier answers
// them positionally.
func (b RequestBuilder) packages(sh domain.ShipmentRequest) []PackageBlock {
	weightCode := sh.Account.UOMSystem.WeightCode()

	blocks := make([]PackageBlock, 0, len(sh.Packages))
	for _, pkg := range sh.Packages {
		block := PackageBlock{
			PackagingType: CodeOnly{Code: pkg.Packaging()},
			PackageWeight: UnitWeight{
				UnitOfMeasurement: CodeOnly{Code: weightCode},
				Weight:            pkg.Weight.StringFixed(2),
			},
		}
		insured := "0"
		if !pkg.InsuredValue.IsZero() {
			insured = pkg.InsuredValue.StringFixed(2)
		}
		block.PackageServiceOptions = &PackageServiceOptionsBlock{
			InsuredValue: &InsuredValueBlock{
				CurrencyCode:  sh.Currency,
				MonetaryValue: insured,
			},
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func (b RequestBuilder) description(lines []domain.LineItem) string {
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		names = append(names, line.Name)
	}
	return strings.Join(names, ",")
}

// invoiceTotal sums the line values, rounded once in the shipment currency
func (b RequestBuilder) invoiceTotal(sh domain.ShipmentRequest) string {
	total := decimal.Zero
	for _, line := range sh.Lines {
		total = total.Add(line.MonetaryValue())
	}
	cur := b.currencies.Get(sh.Currency)
	return cur.Format(total)
}

// invoiceTotalRequired reports the customs lanes that need an
// InvoiceLineTotal block: US origin to Puerto Rico or Canada only.
func invoiceTotalRequired(origin, destination string) bool {
	return origin == "US" && (destination == "PR" || destination == "CA")
}

func companyName(a domain.Address) string {
	if a.Company != "" {
		return a.Company
	}
	return a.Name
}

// truncate hard-cuts s to at most limit runes
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
