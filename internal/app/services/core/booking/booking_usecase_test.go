package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"medbook-service/internal/app/config"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/app/services/core/calendar"
	"medbook-service/internal/app/services/core/doctors"
	"medbook-service/internal/app/services/core/reservations"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/exceptions"
	"medbook-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRedisRepository struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeRedisRepository() *fakeRedisRepository {
	return &fakeRedisRepository{data: make(map[string]string)}
}

func (r *fakeRedisRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func (r *fakeRedisRepository) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	str, _ := value.(string)
	r.data[key] = str
	return nil
}

func (r *fakeRedisRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[key], nil
}

func (r *fakeRedisRepository) TrySetNX(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[key]; exists {
		return false, nil
	}
	str, _ := value.(string)
	r.data[key] = str
	return true, nil
}

type recordingOrphanPublisher struct {
	mu     sync.Mutex
	events []models.OrphanEvent
}

func (p *recordingOrphanPublisher) PublishOrphanEvent(_ context.Context, event models.OrphanEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingOrphanPublisher) published() []models.OrphanEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.OrphanEvent(nil), p.events...)
}

// failingReservationRepository injects storage failures after the slot state
// has already changed, to exercise the orphan flagging path.
type failingReservationRepository struct {
	contracts.ReservationRepository
	failCreate       bool
	failUpdateStatus bool
}

func (r *failingReservationRepository) Create(ctx context.Context, reservation *models.Reservation) (string, error) {
	if r.failCreate {
		return "", errors.New("storage unavailable")
	}
	return r.ReservationRepository.Create(ctx, reservation)
}

func (r *failingReservationRepository) UpdateStatus(ctx context.Context, reservationID string, status models.ReservationStatus) error {
	if r.failUpdateStatus {
		return errors.New("storage unavailable")
	}
	return r.ReservationRepository.UpdateStatus(ctx, reservationID, status)
}

var (
	testConfig = &config.InternalConfig{
		App: config.App{SlotListCacheTTLInSeconds: 60},
	}
	sharedSlotRepository = calendar.NewSlotMemoryRepository()
	sharedCalendar       = calendar.NewCalendarUsecase(sharedSlotRepository, newFakeRedisRepository(), testConfig, zap.NewNop())
)

type fixture struct {
	uc           *bookingUsecase
	reservations contracts.ReservationRepository
	doctors      contracts.DoctorRepository
	publisher    *recordingOrphanPublisher
}

func newFixture() *fixture {
	reservationRepo := reservations.NewReservationMemoryRepository()
	doctorRepo := doctors.NewDoctorMemoryRepository()
	publisher := &recordingOrphanPublisher{}
	return &fixture{
		uc:           newBookingUsecase(reservationRepo, doctorRepo, sharedCalendar, publisher, testConfig, zap.NewNop()),
		reservations: reservationRepo,
		doctors:      doctorRepo,
		publisher:    publisher,
	}
}

func publishSlot(t *testing.T, doctorID, date, timeLabel string) {
	t.Helper()
	day, err := utils.ParseDateOnly(date)
	assert.NoError(t, err)
	err = sharedCalendar.PublishSlots(context.Background(), doctorID, []models.Slot{{Date: day, Time: timeLabel}})
	assert.NoError(t, err)
}

func slotStatus(t *testing.T, doctorID, date, timeLabel string) models.SlotStatus {
	t.Helper()
	day, err := utils.ParseDateOnly(date)
	assert.NoError(t, err)
	slot, err := sharedSlotRepository.FindByKey(context.Background(), doctorID, day, timeLabel)
	assert.NoError(t, err)
	assert.NotNil(t, slot)
	return slot.Status
}

func assertConflict(t *testing.T, err error, clientMessage string) {
	t.Helper()
	customErr, ok := err.(*exceptions.CustomError)
	assert.True(t, ok)
	assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	assert.Equal(t, clientMessage, customErr.ClientMessage)
}

func TestBookAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("books an available slot", func(t *testing.T) {
		f := newFixture()
		publishSlot(t, "doctor-book-1", "2026-01-15", "10:00")

		response, err := f.uc.BookAppointment(ctx, "patient-1", &requests.CreateAppointment{
			DoctorID: "doctor-book-1",
			Date:     "2026-01-15",
			Time:     "10:00",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, response.ID)
		assert.Equal(t, "patient-1", response.PatientID)
		assert.Equal(t, string(models.ReservationConfirmed), response.Status)
		assert.Equal(t, models.SlotConfirmed, slotStatus(t, "doctor-book-1", "2026-01-15", "10:00"))
	})

	t.Run("rejects when required fields are missing", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.BookAppointment(ctx, "patient-1", &requests.CreateAppointment{
			DoctorID: "doctor-book-2",
		})

		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.Equal(t, constvars.ErrClientDoctorDateTimeRequired, customErr.ClientMessage)
	})

	t.Run("rejects a duplicate booking and leaves the slot untouched", func(t *testing.T) {
		f := newFixture()
		publishSlot(t, "doctor-book-3", "2026-01-15", "10:00")

		request := &requests.CreateAppointment{
			DoctorID: "doctor-book-3",
			Date:     "2026-01-15",
			Time:     "10:00",
		}
		_, err := f.uc.BookAppointment(ctx, "patient-1", request)
		assert.NoError(t, err)

		_, err = f.uc.BookAppointment(ctx, "patient-1", request)
		assertConflict(t, err, constvars.ErrClientAlreadyBookedSlot)

		assert.Equal(t, models.SlotConfirmed, slotStatus(t, "doctor-book-3", "2026-01-15", "10:00"))
		ledger, err := f.reservations.FindByPatientID(ctx, "patient-1")
		assert.NoError(t, err)
		assert.Len(t, ledger, 1)
	})

	t.Run("matches the duplicate even when the dates differ in format", func(t *testing.T) {
		f := newFixture()
		publishSlot(t, "doctor-book-4", "2026-01-15", "10:00")

		_, err := f.uc.BookAppointment(ctx, "patient-1", &requests.CreateAppointment{
			DoctorID: "doctor-book-4",
			Date:     "2026-01-15",
			Time:     "10:00",
		})
		assert.NoError(t, err)

		_, err = f.uc.BookAppointment(ctx, "patient-1", &requests.CreateAppointment{
			DoctorID: "doctor-book-4",
			Date:     "2026-01-15T09:30:00Z",
			Time:     "10:00",
		})
		assertConflict(t, err, constvars.ErrClientAlreadyBookedSlot)
	})

	t.Run("confirms a slot booked with a full timestamp date", func(t *testing.T) {
		f := newFixture()
		publishSlot(t, "doctor-book-5", "2026-01-15", "10:00")

		response, err := f.uc.BookAppointment(ctx, "patient-1", &requests.CreateAppointment{
			DoctorID: "doctor-book-5",
			Date:     "2026-01-15T23:45:00Z",
			Time:     "10:00",
		})

		assert.NoError(t, err)
		assert.Equal(t, "2026-01-15", response.Date)
	})

	t.Run("rejects when the slot is already confirmed by someone else", func(t *testing.T) {
		f := newFixture()
		publishSlot(t, "doctor-book-6", "2026-01-15", "10:00")

		_, err := f.uc.BookAppointment(ctx, "patient-1", &requests.CreateAppointment{
			DoctorID: "doctor-book-6",
			Date:     "2026-01-15",
			Time:     "10:00",
		})
		assert.NoError(t, err)

		_, err = f.uc.BookAppointment(ctx, "patient-2", &requests.CreateAppointment{
			DoctorID: "doctor-book-6",
			Date:     "2026-01-15",
			Time:     "10:00",
		})
		assertConflict(t, err, constvars.ErrClientSlotNotAvailable)
	})

	t.Run("rejects when no slot exists for the key", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.BookAppointment(ctx, "patient-1", &requests.CreateAppointment{
			DoctorID: "doctor-book-7",
			Date:     "2026-01-15",
			Time:     "10:00",
		})
		assertConflict(t, err, constvars.ErrClientSlotNotAvailable)
	})
}

func TestBookAppointment_ConcurrentExclusivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	publishSlot(t, "doctor-race-1", "2026-01-15", "10:00")

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.BookAppointment(ctx, fmt.Sprintf("patient-%d", i), &requests.CreateAppointment{
				DoctorID: "doctor-race-1",
				Date:     "2026-01-15",
				Time:     "10:00",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assertConflict(t, err, constvars.ErrClientSlotNotAvailable)
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, models.SlotConfirmed, slotStatus(t, "doctor-race-1", "2026-01-15", "10:00"))
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()

	book := func(t *testing.T, f *fixture, doctorID, patientID string) string {
		t.Helper()
		response, err := f.uc.BookAppointment(ctx, patientID, &requests.CreateAppointment{
			DoctorID: doctorID,
			Date:     "2026-01-15",
			Time:     "10:00",
		})
		assert.NoError(t, err)
		return response.ID
	}

	t.Run("cancels an owned appointment and reopens the slot", func(t *testing.T) {
		f := newFixture()
		publishSlot(t, "doctor-cancel-1", "2026-01-15", "10:00")
		reservationID := book(t, f, "doctor-cancel-1", "patient-1")

		response, err := f.uc.CancelAppointment(ctx, "patient-1", reservationID)

		assert.NoError(t, err)
		assert.Equal(t, string(models.ReservationCancelled), response.Status)
		assert.Equal(t, models.SlotAvailable, slotStatus(t, "doctor-cancel-1", "2026-01-15", "10:00"))

		// The cancelled record stays in the ledger.
		ledger, err := f.reservations.FindByPatientID(ctx, "patient-1")
		assert.NoError(t, err)
		assert.Len(t, ledger, 1)
		assert.Equal(t, models.ReservationCancelled, ledger[0].Status)
	})

	t.Run("freed slot can be booked by another patient", func(t *testing.T) {
		f := newFixture()
		publishSlot(t, "doctor-cancel-2", "2026-01-15", "10:00")
		reservationID := book(t, f, "doctor-cancel-2", "patient-1")

		_, err := f.uc.CancelAppointment(ctx, "patient-1", reservationID)
		assert.NoError(t, err)

		response, err := f.uc.BookAppointment(ctx, "patient-2", &requests.CreateAppointment{
			DoctorID: "doctor-cancel-2",
			Date:     "2026-01-15",
			Time:     "10:00",
		})
		assert.NoError(t, err)
		assert.Equal(t, "patient-2", response.PatientID)
		assert.Equal(t, models.SlotConfirmed, slotStatus(t, "doctor-cancel-2", "2026-01-15", "10:00"))
	})

	t.Run("rejects cancellation by a different patient", func(t *testing.T) {
		f := newFixture()
		publishSlot(t, "doctor-cancel-3", "2026-01-15", "10:00")
		reservationID := book(t, f, "doctor-cancel-3", "patient-1")

		_, err := f.uc.CancelAppointment(ctx, "patient-2", reservationID)

		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
		assert.Equal(t, models.SlotConfirmed, slotStatus(t, "doctor-cancel-3", "2026-01-15", "10:00"))
	})

	t.Run("rejects an unknown reservation id", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.CancelAppointment(ctx, "patient-1", "missing-id")

		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("rejects cancelling twice", func(t *testing.T) {
		f := newFixture()
		publishSlot(t, "doctor-cancel-4", "2026-01-15", "10:00")
		reservationID := book(t, f, "doctor-cancel-4", "patient-1")

		_, err := f.uc.CancelAppointment(ctx, "patient-1", reservationID)
		assert.NoError(t, err)

		_, err = f.uc.CancelAppointment(ctx, "patient-1", reservationID)
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}

func TestOrphanedStateFlagging(t *testing.T) {
	ctx := context.Background()

	t.Run("failed ledger write after slot confirmation flags the slot", func(t *testing.T) {
		f := newFixture()
		failing := &failingReservationRepository{ReservationRepository: f.reservations, failCreate: true}
		uc := newBookingUsecase(failing, f.doctors, sharedCalendar, f.publisher, testConfig, zap.NewNop())
		publishSlot(t, "doctor-orphan-1", "2026-01-15", "10:00")

		_, err := uc.BookAppointment(ctx, "patient-1", &requests.CreateAppointment{
			DoctorID: "doctor-orphan-1",
			Date:     "2026-01-15",
			Time:     "10:00",
		})

		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusInternalServerError, customErr.StatusCode)

		events := f.publisher.published()
		assert.Len(t, events, 1)
		assert.Equal(t, constvars.OrphanKindSlotWithoutReservation, events[0].Kind)
		assert.Equal(t, "doctor-orphan-1", events[0].DoctorID)
		assert.Equal(t, models.SlotConfirmed, slotStatus(t, "doctor-orphan-1", "2026-01-15", "10:00"))
	})

	t.Run("failed ledger update after slot release flags the reservation", func(t *testing.T) {
		f := newFixture()
		publishSlot(t, "doctor-orphan-2", "2026-01-15", "10:00")

		response, err := f.uc.BookAppointment(ctx, "patient-1", &requests.CreateAppointment{
			DoctorID: "doctor-orphan-2",
			Date:     "2026-01-15",
			Time:     "10:00",
		})
		assert.NoError(t, err)

		failing := &failingReservationRepository{ReservationRepository: f.reservations, failUpdateStatus: true}
		uc := newBookingUsecase(failing, f.doctors, sharedCalendar, f.publisher, testConfig, zap.NewNop())

		_, err = uc.CancelAppointment(ctx, "patient-1", response.ID)

		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusInternalServerError, customErr.StatusCode)

		events := f.publisher.published()
		assert.Len(t, events, 1)
		assert.Equal(t, constvars.OrphanKindReservationWithoutSlot, events[0].Kind)
		assert.Equal(t, response.ID, events[0].ReservationID)
		assert.Equal(t, models.SlotAvailable, slotStatus(t, "doctor-orphan-2", "2026-01-15", "10:00"))
	})
}

func TestFindMyAppointments(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for _, key := range []struct {
		date string
		hour string
	}{
		{"2026-01-20", "09:00"},
		{"2026-01-15", "14:00"},
		{"2026-01-15", "08:00"},
	} {
		publishSlot(t, "doctor-list-1", key.date, key.hour)
		_, err := f.uc.BookAppointment(ctx, "patient-1", &requests.CreateAppointment{
			DoctorID: "doctor-list-1",
			Date:     key.date,
			Time:     key.hour,
		})
		assert.NoError(t, err)
	}

	response, err := f.uc.FindMyAppointments(ctx, "patient-1")

	assert.NoError(t, err)
	assert.Len(t, response, 3)
	assert.Equal(t, "2026-01-15", response[0].Date)
	assert.Equal(t, "08:00", response[0].Time)
	assert.Equal(t, "2026-01-15", response[1].Date)
	assert.Equal(t, "14:00", response[1].Time)
	assert.Equal(t, "2026-01-20", response[2].Date)

	t.Run("empty for a patient with no bookings", func(t *testing.T) {
		response, err := f.uc.FindMyAppointments(ctx, "patient-none")
		assert.NoError(t, err)
		assert.Empty(t, response)
	})
}

func TestFindDoctorSlots(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	doctorID, err := f.doctors.Create(ctx, &models.Doctor{Name: "Dr. Sari", Specialty: "Cardiology"})
	assert.NoError(t, err)

	publishSlot(t, doctorID, "2026-01-15", "10:00")
	publishSlot(t, doctorID, "2026-01-15", "11:00")
	publishSlot(t, doctorID, "2026-01-16", "10:00")

	t.Run("returns only the requested day", func(t *testing.T) {
		response, err := f.uc.FindDoctorSlots(ctx, doctorID, "2026-01-15")
		assert.NoError(t, err)
		assert.Len(t, response, 2)
	})

	t.Run("unknown doctor is rejected", func(t *testing.T) {
		_, err := f.uc.FindDoctorSlots(ctx, "missing-doctor", "2026-01-15")
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		_, err := f.uc.FindDoctorSlots(ctx, doctorID, "15-01-2026")
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})
}
