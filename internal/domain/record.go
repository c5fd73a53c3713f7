package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordStatus represents the lifecycle status of a shipment record
type RecordStatus string

const (
	RecordStatusPending RecordStatus = "pending"
	RecordStatusRated   RecordStatus = "rated"
	RecordStatusLabeled RecordStatus = "labeled"
	RecordStatusVoided  RecordStatus = "voided"
)

// RecordPackage is the persisted form of one package. Weights and values are
// stored as decimal strings.
type RecordPackage struct {
	Code           string `json:"code" bson:"code"`
	PackagingType  string `json:"packagingType" bson:"packagingType"`
	Weight         string `json:"weight" bson:"weight"`
	InsuredValue   string `json:"insuredValue,omitempty" bson:"insuredValue,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	Label          string `json:"label,omitempty" bson:"label,omitempty"`
	LabelFormat    string `json:"labelFormat,omitempty" bson:"labelFormat,omitempty"`
}

// RecordLine is the persisted form of one shipment line
type RecordLine struct {
	ProductCode     string `json:"productCode" bson:"productCode"`
	Name            string `json:"name" bson:"name"`
	Quantity        string `json:"quantity" bson:"quantity"`
	Unit            string `json:"unit" bson:"unit"`
	DefaultUnit     string `json:"defaultUnit" bson:"defaultUnit"`
	UnitFactor      string `json:"unitFactor" bson:"unitFactor"`
	UnitPrice       string `json:"unitPrice" bson:"unitPrice"`
	CountryOfOrigin string `json:"countryOfOrigin,omitempty" bson:"countryOfOrigin,omitempty"`
}

// ShipmentRecord is the persisted shipment aggregate
type ShipmentRecord struct {
	ID               primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ShipmentID       string             `json:"shipmentId" bson:"shipmentId"`
	OrderID          string             `json:"orderId" bson:"orderId"`
	Status           RecordStatus       `json:"status" bson:"status"`
	Method           CarrierMethod      `json:"method" bson:"method"`
	Service          *Service           `json:"service,omitempty" bson:"service,omitempty"`
	Shipper          Address            `json:"shipper" bson:"shipper"`
	Origin           Address            `json:"origin" bson:"origin"`
	Destination      Address            `json:"destination" bson:"destination"`
	Packages         []RecordPackage    `json:"packages" bson:"packages"`
	Lines            []RecordLine       `json:"lines,omitempty" bson:"lines,omitempty"`
	Currency         string             `json:"currency" bson:"currency"`
	SaturdayDelivery bool               `json:"saturdayDelivery" bson:"saturdayDelivery"`
	TrackingNumber   string             `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	Cost             string             `json:"cost,omitempty" bson:"cost,omitempty"`
	CostCurrency     string             `json:"costCurrency,omitempty" bson:"costCurrency,omitempty"`
	ConfirmToken     string             `json:"confirmToken,omitempty" bson:"confirmToken,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
	LabeledAt        *time.Time         `json:"labeledAt,omitempty" bson:"labeledAt,omitempty"`
	VoidedAt         *time.Time         `json:"voidedAt,omitempty" bson:"voidedAt,omitempty"`

	domainEvents []DomainEvent
}

// NewShipmentRecord creates a new shipment record in pending status
func NewShipmentRecord(shipmentID, orderID string, method CarrierMethod) *ShipmentRecord {
	now := time.Now()
	record := &ShipmentRecord{
		ID:         primitive.NewObjectID(),
		ShipmentID: shipmentID,
		OrderID:    orderID,
		Status:     RecordStatusPending,
		Method:     method,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	record.addEvent(&ShipmentCreatedEvent{
		BaseEvent:  BaseEvent{Timestamp: now},
		ShipmentID: shipmentID,
		OrderID:    orderID,
		Method:     string(method),
	})

	return record
}

// ApplyQuote records a selected rate quote on the shipment
func (s *ShipmentRecord) ApplyQuote(quote RateQuote) error {
	if s.Status == RecordStatusLabeled {
		return ErrAlreadyLabeled
	}

	service := quote.Service
	s.Service = &service
	s.Cost = quote.Cost.Amount.String()
	s.CostCurrency = quote.Cost.Currency
	s.Status = RecordStatusRated
	s.UpdatedAt = time.Now()

	s.addEvent(&RateSelectedEvent{
		BaseEvent:   BaseEvent{Timestamp: s.UpdatedAt},
		ShipmentID:  s.ShipmentID,
		ServiceCode: quote.Service.Code,
		Cost:        s.Cost,
		Currency:    s.CostCurrency,
		Negotiated:  quote.Negotiated,
	})
	return nil
}

// ApplyLabel records a settled label purchase on the shipment
func (s *ShipmentRecord) ApplyLabel(result LabelResult) error {
	if s.TrackingNumber != "" {
		return ErrAlreadyLabeled
	}
	if len(result.Packages) != len(s.Packages) {
		return &IntegrityError{Expected: len(s.Packages), Actual: len(result.Packages)}
	}

	now := time.Now()
	s.TrackingNumber = result.TrackingNumber
	s.Cost = result.Cost.Amount.String()
	s.CostCurrency = result.Cost.Currency
	for i, label := range result.Packages {
		s.Packages[i].TrackingNumber = label.TrackingNumber
		s.Packages[i].LabelFormat = label.Format
	}
	s.Status = RecordStatusLabeled
	s.LabeledAt = &now
	s.UpdatedAt = now

	s.addEvent(&LabelIssuedEvent{
		BaseEvent:      BaseEvent{Timestamp: now},
		ShipmentID:     s.ShipmentID,
		TrackingNumber: result.TrackingNumber,
		PackageCount:   len(result.Packages),
		Cost:           s.Cost,
		Currency:       s.CostCurrency,
	})
	return nil
}

// MarkVoided records the release of a confirmed label
func (s *ShipmentRecord) MarkVoided(token string) {
	now := time.Now()
	s.Status = RecordStatusVoided
	s.ConfirmToken = ""
	s.VoidedAt = &now
	s.UpdatedAt = now

	s.addEvent(&LabelVoidedEvent{
		BaseEvent:  BaseEvent{Timestamp: now},
		ShipmentID: s.ShipmentID,
		Token:      token,
	})
}

func (s *ShipmentRecord) addEvent(event DomainEvent) {
	s.domainEvents = append(s.domainEvents, event)
}

// GetDomainEvents returns accumulated domain events
func (s *ShipmentRecord) GetDomainEvents() []DomainEvent {
	return s.domainEvents
}

// ClearDomainEvents clears accumulated domain events
func (s *ShipmentRecord) ClearDomainEvents() {
	s.domainEvents = nil
}
