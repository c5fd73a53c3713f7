package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// ShipmentCreatedEvent is emitted when a shipment record is created
type ShipmentCreatedEvent struct {
	BaseEvent
	ShipmentID string `json:"shipmentId"`
	OrderID    string `json:"orderId"`
	Method     string `json:"method"`
}

func (e *ShipmentCreatedEvent) EventType() string { return "shipping.shipment.created" }

// RateSelectedEvent is emitted when a rate quote is applied to a shipment
type RateSelectedEvent struct {
	BaseEvent
	ShipmentID  string `json:"shipmentId"`
	ServiceCode string `json:"serviceCode"`
	Cost        string `json:"cost"`
	Currency    string `json:"currency"`
	Negotiated  bool   `json:"negotiated"`
}

func (e *RateSelectedEvent) EventType() string { return "shipping.rate.selected" }

// LabelIssuedEvent is emitted when a label purchase settles
type LabelIssuedEvent struct {
	BaseEvent
	ShipmentID     string `json:"shipmentId"`
	TrackingNumber string `json:"trackingNumber"`
	PackageCount   int    `json:"packageCount"`
	Cost           string `json:"cost"`
	Currency       string `json:"currency"`
}

func (e *LabelIssuedEvent) EventType() string { return "shipping.label.issued" }

// LabelVoidedEvent is emitted when a confirmed label is released
type LabelVoidedEvent struct {
	BaseEvent
	ShipmentID string `json:"shipmentId"`
	Token      string `json:"token"`
}

func (e *LabelVoidedEvent) EventType() string { return "shipping.label.voided" }
