package domain

import "context"

// ShipmentRecordRepository defines persistence for shipment records
type ShipmentRecordRepository interface {
	Save(ctx context.Context, record *ShipmentRecord) error
	FindByID(ctx context.Context, shipmentID string) (*ShipmentRecord, error)
	FindByOrderID(ctx context.Context, orderID string) (*ShipmentRecord, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*ShipmentRecord, error)
	FindByStatus(ctx context.Context, status RecordStatus) ([]*ShipmentRecord, error)
	Delete(ctx context.Context, shipmentID string) error
}
