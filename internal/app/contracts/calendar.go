package contracts

import (
	"context"
	"medbook-service/internal/app/models"
	"time"
)

// CalendarUsecase owns all slot mutation. The booking coordinator may only
// change slot state through these operations.
type CalendarUsecase interface {
	// TryConfirmSlot atomically transitions the slot from available to
	// confirmed. Exactly one concurrent caller per key succeeds; the rest
	// receive ErrSlotNotAvailable.
	TryConfirmSlot(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error)
	// ReleaseSlot reopens the slot. Idempotent: releasing an already
	// available slot succeeds without error.
	ReleaseSlot(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error)
	ListSlots(ctx context.Context, doctorID string, date time.Time) ([]models.Slot, error)
	// PublishSlots appends newly published availability, rejecting slots
	// whose (date, time) key already exists for the doctor.
	PublishSlots(ctx context.Context, doctorID string, slots []models.Slot) error
}
