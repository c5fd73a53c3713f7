package worldship

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/parcelworks/shipping-gateway/internal/domain"
)

const descriptionLimit = 50

// Fixed manifest values for account-billed standard export
const (
	serviceType          = "Standard"
	packageType          = "CP"
	goodsNotInFreeCirc   = "0"
	billTransportationTo = "Shipper"
)

// Manifest is the flat WorldShip import document for one shipment
type Manifest struct {
	XMLName             xml.Name            `xml:"WorldShip"`
	ShipTo              PartyBlock          `xml:"ShipTo"`
	ShipFrom            PartyBlock          `xml:"ShipFrom"`
	ShipmentInformation ShipmentInformation `xml:"ShipmentInformation"`
	Packages            []Package           `xml:"Package"`
	Goods               []Goods             `xml:"Goods"`
}

// PartyBlock is a flat WorldShip address
type PartyBlock struct {
	CompanyOrName       string `xml:"CompanyOrName"`
	Attention           string `xml:"Attention,omitempty"`
	Address1            string `xml:"Address1"`
	Address2            string `xml:"Address2,omitempty"`
	CityOrTown          string `xml:"CityOrTown"`
	StateProvinceCounty string `xml:"StateProvinceCounty"`
	PostalCode          string `xml:"PostalCode"`
	CountryTerritory    string `xml:"CountryTerritory"`
	Telephone           string `xml:"Telephone,omitempty"`
	EmailAddress        string `xml:"EmailAddress,omitempty"`
}

// ShipmentInformation carries shipment-level manifest fields
type ShipmentInformation struct {
	ServiceType               string `xml:"ServiceType"`
	DescriptionOfGoods        string `xml:"DescriptionOfGoods"`
	GoodsNotInFreeCirculation string `xml:"GoodsNotInFreeCirculation"`
	BillTransportationTo      string `xml:"BillTransportationTo"`
	NumberOfPackages          string `xml:"NumberOfPackages"`
	ShipmentID                string `xml:"ShipmentID"`
}

// Package is one manifest package entry
type Package struct {
	PackageType string `xml:"PackageType"`
	Weight      string `xml:"Weight"`
	PackageID   string `xml:"PackageID"`
}

// Goods is one manifest goods line
type Goods struct {
	PartNumber           string `xml:"PartNumber,omitempty"`
	DescriptionOfGood    string `xml:"DescriptionOfGood"`
	InvoiceUnits         string `xml:"InvoiceUnits"`
	InvoiceUnitOfMeasure string `xml:"InvoiceUnitOfMeasure,omitempty"`
	UnitPrice            string `xml:"Invoice-SED-UnitPrice"`
	CountryOfOrigin      string `xml:"Inv-NAFTA-CO-CountryTerritoryOfOrigin,omitempty"`
}

// Exporter renders WorldShip manifest documents for offline shipping
type Exporter struct{}

// NewExporter creates a manifest exporter
func NewExporter() Exporter {
	return Exporter{}
}

// Export builds the manifest for a shipment. The shipment's carrier method
// must be the offline WorldShip variant.
func (e Exporter) Export(sh domain.ShipmentRequest) (*Manifest, error) {
	if sh.Account.Method != domain.MethodWorldShip {
		return nil, domain.NewValidationError(domain.FaultGeneric,
			fmt.Sprintf("shipment %s is not configured for worldship export", sh.ShipmentID))
	}
	if len(sh.Packages) == 0 {
		return nil, domain.ErrNoPackages
	}

	manifest := &Manifest{
		ShipTo:   party(sh.Destination),
		ShipFrom: party(sh.Origin),
		ShipmentInformation: ShipmentInformation{
			ServiceType:               serviceType,
			DescriptionOfGoods:        truncate(description(sh.Lines), descriptionLimit),
			GoodsNotInFreeCirculation: goodsNotInFreeCirc,
			BillTransportationTo:      billTransportationTo,
			NumberOfPackages:          strconv.Itoa(len(sh.Packages)),
			ShipmentID:                sh.ShipmentID,
		},
	}

	for i, pkg := range sh.Packages {
		id := pkg.Code
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		manifest.Packages = append(manifest.Packages, Package{
			PackageType: packageType,
			Weight:      pkg.Weight.StringFixed(2),
			PackageID:   id,
		})
	}

	for _, line := range sh.Lines {
		if line.Quantity.IsZero() {
			continue
		}
		manifest.Goods = append(manifest.Goods, Goods{
			PartNumber:           line.ProductCode,
			DescriptionOfGood:    truncate(line.Name, descriptionLimit),
			InvoiceUnits:         line.Quantity.String(),
			InvoiceUnitOfMeasure: line.Unit,
			UnitPrice:            line.UnitPrice.StringFixed(1),
			CountryOfOrigin:      line.CountryOfOrigin,
		})
	}

	return manifest, nil
}

// ExportXML builds the manifest and renders it as an XML document
func (e Exporter) ExportXML(sh domain.ShipmentRequest) ([]byte, error) {
	manifest, err := e.Export(sh)
	if err != nil {
		return nil, err
	}
	body, err := xml.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal worldship manifest: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func party(a domain.Address) PartyBlock {
	name := a.Company
	if name == "" {
		name = a.Name
	}
	return PartyBlock{
		CompanyOrName:       name,
		Attention:           a.Name,
		Address1:            a.Street1,
		Address2:            a.Street2,
		CityOrTown:          a.City,
		StateProvinceCounty: a.State,
		PostalCode:          a.PostalCode,
		CountryTerritory:    a.Country,
		Telephone:           a.Phone,
		EmailAddress:        a.Email,
	}
}

func description(lines []domain.LineItem) string {
	out := ""
	for i, line := range lines {
		if i > 0 {
			out += ","
		}
		out += line.Name
	}
	return out
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
