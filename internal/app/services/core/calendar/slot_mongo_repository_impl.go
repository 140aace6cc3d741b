package calendar

import (
	"context"
	"log"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SlotMongoRepository struct {
	Collection *mongo.Collection
}

func NewSlotMongoRepository(db *mongo.Client, dbName string) contracts.SlotRepository {
	collection := db.Database(dbName).Collection(constvars.MongoCollectionSlots)

	// The unique index is what makes (doctorId, date, time) a single document
	// even under concurrent publishes; Insert maps its violation to the
	// already-published rejection.
	_, err := collection.Indexes().CreateOne(context.TODO(), mongo.IndexModel{
		Keys: bson.D{
			{Key: "doctorId", Value: 1},
			{Key: "date", Value: 1},
			{Key: "time", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Fatalf("Failed to create unique slot index: %s", err.Error())
	}

	return &SlotMongoRepository{
		Collection: collection,
	}
}

// TryConfirm relies on MongoDB executing FindOneAndUpdate as a single atomic
// conditional write: the status filter and the status flip happen in one
// step, so two racing callers for the same key can never both match.
func (r *SlotMongoRepository) TryConfirm(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error) {
	filter := bson.M{
		"doctorId": doctorID,
		"date":     date,
		"time":     timeLabel,
		"status":   constvars.SlotStatusAvailable,
	}
	update := bson.M{
		"$set": bson.M{
			"status":    constvars.SlotStatusConfirmed,
			"updatedAt": time.Now().UTC(),
		},
	}

	var slot models.Slot
	err := r.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &slot, nil
}

func (r *SlotMongoRepository) Release(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error) {
	filter := bson.M{
		"doctorId": doctorID,
		"date":     date,
		"time":     timeLabel,
	}
	update := bson.M{
		"$set": bson.M{
			"status":    constvars.SlotStatusAvailable,
			"updatedAt": time.Now().UTC(),
		},
	}

	var slot models.Slot
	err := r.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &slot, nil
}

func (r *SlotMongoRepository) FindByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]models.Slot, error) {
	filter := bson.M{
		"doctorId": doctorID,
		"date":     date,
	}
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	slots := make([]models.Slot, 0)
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return slots, nil
}

func (r *SlotMongoRepository) FindByKey(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error) {
	filter := bson.M{
		"doctorId": doctorID,
		"date":     date,
		"time":     timeLabel,
	}

	var slot models.Slot
	err := r.Collection.FindOne(ctx, filter).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &slot, nil
}

func (r *SlotMongoRepository) Insert(ctx context.Context, slots []models.Slot) error {
	documents := make([]interface{}, 0, len(slots))
	for _, slot := range slots {
		documents = append(documents, slot)
	}
	_, err := r.Collection.InsertMany(ctx, documents)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrSlotAlreadyPublished(err)
		}
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}
