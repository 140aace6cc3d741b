package calendar

import (
	"context"
	"fmt"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/exceptions"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SlotMemoryRepository keeps slots in process memory. The mutex around
// TryConfirm gives it the same conditional-write exclusivity as the Mongo
// implementation, which makes it usable for tests and local runs.
type SlotMemoryRepository struct {
	mu    sync.Mutex
	slots map[string]*models.Slot
}

func NewSlotMemoryRepository() contracts.SlotRepository {
	return &SlotMemoryRepository{
		slots: make(map[string]*models.Slot),
	}
}

func slotKey(doctorID string, date time.Time, timeLabel string) string {
	return fmt.Sprintf("%s|%s|%s", doctorID, date.Format("2006-01-02"), timeLabel)
}

func (r *SlotMemoryRepository) TryConfirm(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[slotKey(doctorID, date, timeLabel)]
	if !ok || slot.Status != models.SlotAvailable {
		return nil, nil
	}
	slot.Status = models.SlotConfirmed
	slot.UpdatedAt = time.Now().UTC()

	copied := *slot
	return &copied, nil
}

func (r *SlotMemoryRepository) Release(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[slotKey(doctorID, date, timeLabel)]
	if !ok {
		return nil, nil
	}
	slot.Status = models.SlotAvailable
	slot.UpdatedAt = time.Now().UTC()

	copied := *slot
	return &copied, nil
}

func (r *SlotMemoryRepository) FindByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slots := make([]models.Slot, 0)
	for _, slot := range r.slots {
		if slot.DoctorID == doctorID && slot.Date.Equal(date) {
			slots = append(slots, *slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Time < slots[j].Time })
	return slots, nil
}

func (r *SlotMemoryRepository) FindByKey(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[slotKey(doctorID, date, timeLabel)]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (r *SlotMemoryRepository) Insert(ctx context.Context, slots []models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirrors the Mongo implementation's unique (doctorId, date, time) index,
	// including duplicates inside the batch itself.
	inserting := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		key := slotKey(slot.DoctorID, slot.Date, slot.Time)
		if _, exists := r.slots[key]; exists {
			return exceptions.ErrSlotAlreadyPublished(nil)
		}
		if _, exists := inserting[key]; exists {
			return exceptions.ErrSlotAlreadyPublished(nil)
		}
		inserting[key] = struct{}{}
	}

	for _, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		copied := slot
		r.slots[slotKey(slot.DoctorID, slot.Date, slot.Time)] = &copied
	}
	return nil
}
