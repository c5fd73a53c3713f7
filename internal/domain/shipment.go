package domain

import "github.com/shopspring/decimal"

// CarrierMethod distinguishes the online API carrier from the offline
// WorldShip variant handled by manifest export.
type CarrierMethod string

const (
	MethodAPI       CarrierMethod = "ups"
	MethodWorldShip CarrierMethod = "ups_worldship"
)

// UOMSystem selects the unit-of-measurement system for carrier documents
type UOMSystem string

const (
	UOMMetric  UOMSystem = "00"
	UOMEnglish UOMSystem = "01"
)

// WeightCode returns the carrier weight unit code for the system
func (u UOMSystem) WeightCode() string {
	if u == UOMMetric {
		return "KGS"
	}
	return "LBS"
}

// LengthCode returns the carrier length unit code for the system
func (u UOMSystem) LengthCode() string {
	if u == UOMMetric {
		return "cm"
	}
	return "in"
}

// Address is a postal address used on shipping documents
type Address struct {
	Name       string `json:"name" bson:"name"`
	Company    string `json:"company,omitempty" bson:"company,omitempty"`
	Street1    string `json:"street1" bson:"street1"`
	Street2    string `json:"street2,omitempty" bson:"street2,omitempty"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country" bson:"country"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email      string `json:"email,omitempty" bson:"email,omitempty"`
}

// CarrierAccount holds the carrier account profile a shipment is billed to
type CarrierAccount struct {
	LicenseKey      string
	UserID          string
	Password        string
	ShipperNumber   string
	Sandbox         bool
	NegotiatedRates bool
	UOMSystem       UOMSystem
	Method          CarrierMethod
}

// Validate checks that the account carries usable credentials
func (a CarrierAccount) Validate() error {
	if a.LicenseKey == "" || a.UserID == "" || a.Password == "" {
		return NewValidationError(FaultGeneric, "carrier account credentials missing")
	}
	if a.ShipperNumber == "" {
		return NewValidationError(FaultGeneric, "carrier account shipper number missing")
	}
	return nil
}

// PackagingTypes is the carrier's fixed packaging enumeration
var PackagingTypes = map[string]string{
	"01": "UPS Letter",
	"02": "Customer Supplied Package",
	"03": "Tube",
	"04": "PAK",
	"21": "UPS Express Box",
	"24": "UPS 25KG Box",
	"25": "UPS 10KG Box",
	"30": "Pallet",
	"2a": "Small Express Box",
	"2b": "Medium Express Box",
	"2c": "Large Express Box",
}

// DefaultPackagingType is used when a package does not specify one
const DefaultPackagingType = "02"

// ValidPackagingType reports whether code is a known packaging type
func ValidPackagingType(code string) bool {
	_, ok := PackagingTypes[code]
	return ok
}

// PackageSpec describes one physical package of a shipment
type PackageSpec struct {
	Code          string
	PackagingType string
	Weight        decimal.Decimal
	InsuredValue  decimal.Decimal
}

// Packaging returns the package's packaging type, defaulted when unset
func (p PackageSpec) Packaging() string {
	if p.PackagingType == "" {
		return DefaultPackagingType
	}
	return p.PackagingType
}

// Service is a carrier service offering (code plus display name)
type Service struct {
	Code string `json:"code" bson:"code"`
	Name string `json:"name" bson:"name"`
}

// ServiceCatalog resolves carrier service codes to configured services.
// Codes absent from the catalog are not offered and their rate lines are
// skipped.
type ServiceCatalog struct {
	byCode map[string]Service
}

// NewServiceCatalog builds a catalog from the given services
func NewServiceCatalog(services ...Service) ServiceCatalog {
	byCode := make(map[string]Service, len(services))
	for _, s := range services {
		byCode[s.Code] = s
	}
	return ServiceCatalog{byCode: byCode}
}

// Resolve looks up a service by carrier code
func (c ServiceCatalog) Resolve(code string) (Service, bool) {
	s, ok := c.byCode[code]
	return s, ok
}

// DefaultServiceCatalog returns the standard UPS service offerings
func DefaultServiceCatalog() ServiceCatalog {
	return NewServiceCatalog(
		Service{Code: "01", Name: "Next Day Air"},
		Service{Code: "02", Name: "2nd Day Air"},
		Service{Code: "03", Name: "Ground"},
		Service{Code: "07", Name: "Worldwide Express"},
		Service{Code: "08", Name: "Worldwide Expedited"},
		Service{Code: "11", Name: "Standard"},
		Service{Code: "12", Name: "3 Day Select"},
		Service{Code: "13", Name: "Next Day Air Saver"},
		Service{Code: "14", Name: "Next Day Air Early AM"},
		Service{Code: "54", Name: "Worldwide Express Plus"},
		Service{Code: "59", Name: "2nd Day Air AM"},
		Service{Code: "65", Name: "UPS Saver"},
	)
}

// LineItem is one sellable line of the shipment, used for customs values and
// manifest goods entries.
type LineItem struct {
	ProductCode     string
	Name            string
	Quantity        decimal.Decimal
	Unit            string
	DefaultUnit     string
	UnitFactor      decimal.Decimal
	UnitPrice       decimal.Decimal
	CountryOfOrigin string
}

// MonetaryValue returns the line value priced in the product's default unit.
// When the line unit differs from the default unit the quantity is normalized
// through the conversion factor first.
func (l LineItem) MonetaryValue() decimal.Decimal {
	qty := l.Quantity
	if l.Unit != l.DefaultUnit && !l.UnitFactor.IsZero() {
		qty = qty.Mul(l.UnitFactor)
	}
	return qty.Mul(l.UnitPrice)
}

// ShipmentRequest is the full input for rating and label issuance
type ShipmentRequest struct {
	ShipmentID       string
	Account          CarrierAccount
	Shipper          Address
	Origin           Address
	Destination      Address
	Service          *Service
	Packages         []PackageSpec
	Lines            []LineItem
	Currency         string
	SaturdayDelivery bool
	TrackingNumber   string
}
