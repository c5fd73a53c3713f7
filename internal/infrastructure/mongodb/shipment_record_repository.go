package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parcelworks/shipping-gateway/internal/domain"
)

// ShipmentRecordRepository persists shipment records in MongoDB
type ShipmentRecordRepository struct {
	collection *mongo.Collection
}

var _ domain.ShipmentRecordRepository = (*ShipmentRecordRepository)(nil)

// NewShipmentRecordRepository creates a repository over the given database
func NewShipmentRecordRepository(db *mongo.Database) *ShipmentRecordRepository {
	repo := &ShipmentRecordRepository{
		collection: db.Collection("shipments"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ShipmentRecordRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "shipmentId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "orderId", Value: 1}}},
		{Keys: bson.D{{Key: "trackingNumber", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

// Save upserts a record by its shipment ID
func (r *ShipmentRecordRepository) Save(ctx context.Context, record *domain.ShipmentRecord) error {
	record.UpdatedAt = time.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"shipmentId": record.ShipmentID}
	update := bson.M{"$set": record}

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("save shipment record: %w", err)
	}
	return nil
}

func (r *ShipmentRecordRepository) FindByID(ctx context.Context, shipmentID string) (*domain.ShipmentRecord, error) {
	return r.findOne(ctx, bson.M{"shipmentId": shipmentID})
}

func (r *ShipmentRecordRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.ShipmentRecord, error) {
	return r.findOne(ctx, bson.M{"orderId": orderID})
}

func (r *ShipmentRecordRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.ShipmentRecord, error) {
	return r.findOne(ctx, bson.M{"trackingNumber": trackingNumber})
}

func (r *ShipmentRecordRepository) findOne(ctx context.Context, filter bson.M) (*domain.ShipmentRecord, error) {
	var record domain.ShipmentRecord
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ShipmentRecordRepository) FindByStatus(ctx context.Context, status domain.RecordStatus) ([]*domain.ShipmentRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*domain.ShipmentRecord
	err = cursor.All(ctx, &records)
	return records, err
}

func (r *ShipmentRecordRepository) Delete(ctx context.Context, shipmentID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"shipmentId": shipmentID})
	return err
}
