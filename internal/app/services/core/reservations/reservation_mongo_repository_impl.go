package reservations

import (
	"context"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReservationMongoRepository struct {
	Collection *mongo.Collection
}

func NewReservationMongoRepository(db *mongo.Client, dbName string) contracts.ReservationRepository {
	return &ReservationMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionReservations),
	}
}

func (r *ReservationMongoRepository) Create(ctx context.Context, reservation *models.Reservation) (string, error) {
	result, err := r.Collection.InsertOne(ctx, reservation)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *ReservationMongoRepository) FindActiveByKey(ctx context.Context, doctorID, patientID string, date time.Time, timeLabel string) (*models.Reservation, error) {
	filter := bson.M{
		"doctorId":  doctorID,
		"patientId": patientID,
		"date":      date,
		"time":      timeLabel,
		"status":    constvars.ReservationStatusConfirmed,
	}

	var reservation models.Reservation
	err := r.Collection.FindOne(ctx, filter).Decode(&reservation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &reservation, nil
}

func (r *ReservationMongoRepository) FindByID(ctx context.Context, reservationID string) (*models.Reservation, error) {
	objectID, err := primitive.ObjectIDFromHex(reservationID)
	if err != nil {
		return nil, nil
	}

	var reservation models.Reservation
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &reservation, nil
}

func (r *ReservationMongoRepository) UpdateStatus(ctx context.Context, reservationID string, status models.ReservationStatus) error {
	objectID, err := primitive.ObjectIDFromHex(reservationID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UTC(),
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *ReservationMongoRepository) FindByPatientID(ctx context.Context, patientID string) ([]models.Reservation, error) {
	filter := bson.M{"patientId": patientID}
	sortOption := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cursor, err := r.Collection.Find(ctx, filter, sortOption)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	reservations := make([]models.Reservation, 0)
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return reservations, nil
}
