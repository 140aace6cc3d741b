package contracts

import (
	"context"
	"medbook-service/internal/app/models"
	"time"
)

// SlotRepository is the slot persistence contract. TryConfirm must be a
// single atomic conditional write so that concurrent callers on the same
// (doctorID, date, time) key can never both succeed.
type SlotRepository interface {
	// TryConfirm flips an available slot to confirmed in one conditional
	// update. Returns (nil, nil) when no available slot matches the key,
	// either because it does not exist or a concurrent caller won it.
	TryConfirm(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error)
	// Release sets the slot back to available regardless of current status.
	// Returns (nil, nil) when no slot exists for the key.
	Release(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error)
	FindByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]models.Slot, error)
	FindByKey(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error)
	Insert(ctx context.Context, slots []models.Slot) error
}
