package reservations

import (
	"context"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ReservationMemoryRepository struct {
	mu           sync.Mutex
	reservations map[string]*models.Reservation
}

func NewReservationMemoryRepository() contracts.ReservationRepository {
	return &ReservationMemoryRepository{
		reservations: make(map[string]*models.Reservation),
	}
}

func (r *ReservationMemoryRepository) Create(ctx context.Context, reservation *models.Reservation) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	copied := *reservation
	copied.ID = id
	r.reservations[id] = &copied
	return id, nil
}

func (r *ReservationMemoryRepository) FindActiveByKey(ctx context.Context, doctorID, patientID string, date time.Time, timeLabel string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reservation := range r.reservations {
		if reservation.DoctorID == doctorID &&
			reservation.PatientID == patientID &&
			reservation.Date.Equal(date) &&
			reservation.Time == timeLabel &&
			reservation.Status == models.ReservationConfirmed {
			copied := *reservation
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *ReservationMemoryRepository) FindByID(ctx context.Context, reservationID string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reservation, ok := r.reservations[reservationID]
	if !ok {
		return nil, nil
	}
	copied := *reservation
	return &copied, nil
}

func (r *ReservationMemoryRepository) UpdateStatus(ctx context.Context, reservationID string, status models.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reservation, ok := r.reservations[reservationID]
	if !ok {
		return nil
	}
	reservation.Status = status
	reservation.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ReservationMemoryRepository) FindByPatientID(ctx context.Context, patientID string) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reservations := make([]models.Reservation, 0)
	for _, reservation := range r.reservations {
		if reservation.PatientID == patientID {
			reservations = append(reservations, *reservation)
		}
	}
	sort.Slice(reservations, func(i, j int) bool {
		if !reservations[i].Date.Equal(reservations[j].Date) {
			return reservations[i].Date.Before(reservations[j].Date)
		}
		return reservations[i].Time < reservations[j].Time
	})
	return reservations, nil
}
