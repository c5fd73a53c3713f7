package application

// PackageInput describes one package of a shipment being created
type PackageInput struct {
	Code          string `json:"code"`
	PackagingType string `json:"packagingType"`
	Weight        string `json:"weight" binding:"required"`
	InsuredValue  string `json:"insuredValue"`
}

// LineInput describes one shipment line
type LineInput struct {
	ProductCode     string `json:"productCode"`
	Name            string `json:"name" binding:"required"`
	Quantity        string `json:"quantity" binding:"required"`
	Unit            string `json:"unit"`
	DefaultUnit     string `json:"defaultUnit"`
	UnitFactor      string `json:"unitFactor"`
	UnitPrice       string `json:"unitPrice" binding:"required"`
	CountryOfOrigin string `json:"countryOfOrigin"`
}

// AddressInput is a postal address in API requests
type AddressInput struct {
	Name       string `json:"name"`
	Company    string `json:"company"`
	Street1    string `json:"street1" binding:"required"`
	Street2    string `json:"street2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// CreateShipmentCommand creates a new shipment record
type CreateShipmentCommand struct {
	OrderID          string         `json:"orderId" binding:"required"`
	Method           string         `json:"method"`
	ServiceCode      string         `json:"serviceCode"`
	Currency         string         `json:"currency"`
	SaturdayDelivery bool           `json:"saturdayDelivery"`
	Shipper          AddressInput   `json:"shipper" binding:"required"`
	Origin           AddressInput   `json:"origin" binding:"required"`
	Destination      AddressInput   `json:"destination" binding:"required"`
	Packages         []PackageInput `json:"packages" binding:"required,min=1"`
	Lines            []LineInput    `json:"lines"`
}

// GetRatesCommand prices a shipment
type GetRatesCommand struct {
	ShipmentID string `json:"-"`
	Mode       string `json:"mode"`
	Silent     bool   `json:"silent"`
}

// IssueLabelCommand purchases labels for a shipment
type IssueLabelCommand struct {
	ShipmentID string `json:"-"`
}

// VoidLabelCommand releases a confirmed label purchase
type VoidLabelCommand struct {
	Token string `json:"token" binding:"required"`
}

// ValidateAddressCommand checks an address against the carrier
type ValidateAddressCommand struct {
	Address AddressInput `json:"address" binding:"required"`
}
