package recordsRepo

import (
	"context"

	"bookpilot/config"
	"bookpilot/database"
	"bookpilot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRecordRepository archives finished requests for later audit.
type BookingRecordRepository interface {
	Archive(ctx context.Context, record models.BookingRecord) error
	GetByRequestID(ctx context.Context, requestID string) (*models.BookingRecord, error)
	ListBySpecialty(ctx context.Context, specialty string) ([]models.BookingRecord, error)
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a BookingRecordRepository over MongoDB, or
// nil when the archive backend is not configured.
func NewMongoRecordRepo() BookingRecordRepository {
	if database.MongoClient == nil {
		return nil
	}
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoRecordRepo{
		coll: db.Collection("booking_records"),
	}
}

// Archive inserts a finished request's record.
func (r *mongoRecordRepo) Archive(ctx context.Context, record models.BookingRecord) error {
	_, err := r.coll.InsertOne(ctx, record)
	return err
}

// GetByRequestID returns one archived record by its request ID.
func (r *mongoRecordRepo) GetByRequestID(ctx context.Context, requestID string) (*models.BookingRecord, error) {
	var record models.BookingRecord
	if err := r.coll.FindOne(ctx, bson.M{"requestId": requestID}).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListBySpecialty fetches archived records for a specialty.
func (r *mongoRecordRepo) ListBySpecialty(ctx context.Context, specialty string) ([]models.BookingRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"specialty": specialty})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.BookingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
