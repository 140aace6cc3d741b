package contracts

import (
	"context"
	"medbook-service/internal/app/models"
	"time"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) (reservationID string, err error)
	// FindActiveByKey returns the confirmed reservation for the exact
	// (doctor, patient, date, time) key, or (nil, nil) when none exists.
	FindActiveByKey(ctx context.Context, doctorID, patientID string, date time.Time, timeLabel string) (*models.Reservation, error)
	FindByID(ctx context.Context, reservationID string) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, reservationID string, status models.ReservationStatus) error
	// FindByPatientID returns the patient's reservations ordered by
	// (date, time) ascending.
	FindByPatientID(ctx context.Context, patientID string) ([]models.Reservation, error)
}
