package reconciler

import (
	"context"
	"sync"
	"testing"
	"time"

	"medbook-service/internal/app/config"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/app/services/core/calendar"
	"medbook-service/internal/app/services/core/reservations"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRedisRepository struct {
	mu   sync.Mutex
	data map[string]string
}

func (r *fakeRedisRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func (r *fakeRedisRepository) Set(_ context.Context, key string, _ interface{}, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = ""
	return nil
}

func (r *fakeRedisRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[key], nil
}

func (r *fakeRedisRepository) TrySetNX(_ context.Context, key string, _ interface{}, _ time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[key]; exists {
		return false, nil
	}
	r.data[key] = ""
	return true, nil
}

var (
	testSlotRepository = calendar.NewSlotMemoryRepository()
	testCalendar       = calendar.NewCalendarUsecase(
		testSlotRepository,
		&fakeRedisRepository{data: make(map[string]string)},
		&config.InternalConfig{App: config.App{SlotListCacheTTLInSeconds: 60}},
		zap.NewNop(),
	)
)

func newTestWorker(reservationRepo contracts.ReservationRepository) *Worker {
	return &Worker{
		ReservationRepository: reservationRepo,
		CalendarUsecase:       testCalendar,
		Log:                   zap.NewNop(),
	}
}

func mustParseDay(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := utils.ParseDateOnly(value)
	assert.NoError(t, err)
	return day
}

func confirmSlot(t *testing.T, doctorID string, day time.Time, timeLabel string) {
	t.Helper()
	ctx := context.Background()
	assert.NoError(t, testCalendar.PublishSlots(ctx, doctorID, []models.Slot{{Date: day, Time: timeLabel}}))
	_, err := testCalendar.TryConfirmSlot(ctx, doctorID, day, timeLabel)
	assert.NoError(t, err)
}

func TestApplyEvent_OrphanedSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("releases a confirmed slot with no reservation", func(t *testing.T) {
		reservationRepo := reservations.NewReservationMemoryRepository()
		w := newTestWorker(reservationRepo)
		day := mustParseDay(t, "2026-01-15")
		confirmSlot(t, "doctor-repair-1", day, "10:00")

		err := w.applyEvent(ctx, models.OrphanEvent{
			Kind:      constvars.OrphanKindSlotWithoutReservation,
			DoctorID:  "doctor-repair-1",
			PatientID: "patient-1",
			Date:      day,
			Time:      "10:00",
		})
		assert.NoError(t, err)

		slot, err := testSlotRepository.FindByKey(ctx, "doctor-repair-1", day, "10:00")
		assert.NoError(t, err)
		assert.Equal(t, models.SlotAvailable, slot.Status)
	})

	t.Run("keeps the slot when a reservation landed after flagging", func(t *testing.T) {
		reservationRepo := reservations.NewReservationMemoryRepository()
		w := newTestWorker(reservationRepo)
		day := mustParseDay(t, "2026-01-16")
		confirmSlot(t, "doctor-repair-2", day, "10:00")

		_, err := reservationRepo.Create(ctx, &models.Reservation{
			DoctorID:  "doctor-repair-2",
			PatientID: "patient-1",
			Date:      day,
			Time:      "10:00",
			Status:    models.ReservationConfirmed,
		})
		assert.NoError(t, err)

		err = w.applyEvent(ctx, models.OrphanEvent{
			Kind:      constvars.OrphanKindSlotWithoutReservation,
			DoctorID:  "doctor-repair-2",
			PatientID: "patient-1",
			Date:      day,
			Time:      "10:00",
		})
		assert.NoError(t, err)

		slot, err := testSlotRepository.FindByKey(ctx, "doctor-repair-2", day, "10:00")
		assert.NoError(t, err)
		assert.Equal(t, models.SlotConfirmed, slot.Status)
	})

	t.Run("tolerates a slot that no longer exists", func(t *testing.T) {
		w := newTestWorker(reservations.NewReservationMemoryRepository())

		err := w.applyEvent(ctx, models.OrphanEvent{
			Kind:      constvars.OrphanKindSlotWithoutReservation,
			DoctorID:  "doctor-missing",
			PatientID: "patient-1",
			Date:      mustParseDay(t, "2026-01-17"),
			Time:      "10:00",
		})
		assert.NoError(t, err)
	})
}

func TestApplyEvent_OrphanedReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels a reservation left confirmed", func(t *testing.T) {
		reservationRepo := reservations.NewReservationMemoryRepository()
		w := newTestWorker(reservationRepo)
		day := mustParseDay(t, "2026-01-18")

		reservationID, err := reservationRepo.Create(ctx, &models.Reservation{
			DoctorID:  "doctor-repair-3",
			PatientID: "patient-1",
			Date:      day,
			Time:      "10:00",
			Status:    models.ReservationConfirmed,
		})
		assert.NoError(t, err)

		err = w.applyEvent(ctx, models.OrphanEvent{
			Kind:          constvars.OrphanKindReservationWithoutSlot,
			DoctorID:      "doctor-repair-3",
			PatientID:     "patient-1",
			ReservationID: reservationID,
			Date:          day,
			Time:          "10:00",
		})
		assert.NoError(t, err)

		repaired, err := reservationRepo.FindByID(ctx, reservationID)
		assert.NoError(t, err)
		assert.Equal(t, models.ReservationCancelled, repaired.Status)
	})

	t.Run("tolerates an already cancelled or missing reservation", func(t *testing.T) {
		w := newTestWorker(reservations.NewReservationMemoryRepository())

		err := w.applyEvent(ctx, models.OrphanEvent{
			Kind:          constvars.OrphanKindReservationWithoutSlot,
			ReservationID: "missing-id",
			Date:          mustParseDay(t, "2026-01-19"),
			Time:          "10:00",
		})
		assert.NoError(t, err)
	})
}

func TestApplyEvent_UnknownKind(t *testing.T) {
	w := newTestWorker(reservations.NewReservationMemoryRepository())

	err := w.applyEvent(context.Background(), models.OrphanEvent{Kind: "nonsense"})
	assert.Error(t, err)
}
