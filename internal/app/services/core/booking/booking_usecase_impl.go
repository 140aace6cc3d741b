package booking

import (
	"context"
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/dto/responses"
	"medbook-service/internal/pkg/exceptions"
	"medbook-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

type bookingUsecase struct {
	ReservationRepository contracts.ReservationRepository
	DoctorRepository      contracts.DoctorRepository
	CalendarUsecase       contracts.CalendarUsecase
	OrphanPublisher       contracts.OrphanEventPublisher
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

var (
	bookingUsecaseInstance contracts.BookingUsecase
	onceBookingUsecase     sync.Once
)

func NewBookingUsecase(
	reservationRepository contracts.ReservationRepository,
	doctorRepository contracts.DoctorRepository,
	calendarUsecase contracts.CalendarUsecase,
	orphanPublisher contracts.OrphanEventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.BookingUsecase {
	onceBookingUsecase.Do(func() {
		instance := &bookingUsecase{
			ReservationRepository: reservationRepository,
			DoctorRepository:      doctorRepository,
			CalendarUsecase:       calendarUsecase,
			OrphanPublisher:       orphanPublisher,
			InternalConfig:        internalConfig,
			Log:                   logger,
		}
		bookingUsecaseInstance = instance
	})
	return bookingUsecaseInstance
}

// newBookingUsecase bypasses the singleton for tests.
func newBookingUsecase(
	reservationRepository contracts.ReservationRepository,
	doctorRepository contracts.DoctorRepository,
	calendarUsecase contracts.CalendarUsecase,
	orphanPublisher contracts.OrphanEventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *bookingUsecase {
	return &bookingUsecase{
		ReservationRepository: reservationRepository,
		DoctorRepository:      doctorRepository,
		CalendarUsecase:       calendarUsecase,
		OrphanPublisher:       orphanPublisher,
		InternalConfig:        internalConfig,
		Log:                   logger,
	}
}

func (uc *bookingUsecase) BookAppointment(ctx context.Context, patientID string, request *requests.CreateAppointment) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.BookAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRequesterIDKey, patientID),
	)

	if request.DoctorID == "" || request.Date == "" || request.Time == "" {
		return nil, exceptions.ErrMissingBookingFields(nil)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	day, err := utils.ParseDateOnly(request.Date)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}
	timeLabel, err := utils.ParseSlotTime(request.Time)
	if err != nil {
		return nil, exceptions.ErrCannotParseTime(err)
	}

	// Duplicate check. This read and the slot confirmation below are not one
	// transaction: two concurrent requests from the same patient can both
	// pass it. The conditional write in TryConfirmSlot still lets only one
	// of them through; the loser just sees SlotUnavailable instead of the
	// nicer duplicate message.
	existing, err := uc.ReservationRepository.FindActiveByKey(ctx, request.DoctorID, patientID, day, timeLabel)
	if err != nil {
		uc.Log.Error("bookingUsecase.BookAppointment error checking for duplicate reservation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		uc.Log.Info("bookingUsecase.BookAppointment duplicate booking rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRequesterIDKey, patientID),
			zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
		)
		return nil, exceptions.ErrDuplicateBooking(nil)
	}

	slot, err := uc.CalendarUsecase.TryConfirmSlot(ctx, request.DoctorID, day, timeLabel)
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		DoctorID:  slot.DoctorID,
		PatientID: patientID,
		Date:      slot.Date,
		Time:      slot.Time,
		Status:    models.ReservationConfirmed,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	reservationID, err := uc.ReservationRepository.Create(ctx, reservation)
	if err != nil {
		// The slot is confirmed but carries no reservation. Flag it for the
		// reconciler rather than pretending this is an ordinary failure.
		uc.flagOrphan(ctx, models.OrphanEvent{
			Kind:       constvars.OrphanKindSlotWithoutReservation,
			DoctorID:   slot.DoctorID,
			PatientID:  patientID,
			Date:       slot.Date,
			Time:       slot.Time,
			OccurredAt: time.Now().UTC(),
		}, err)
		return nil, exceptions.ErrOrphanedSlot(err)
	}
	reservation.ID = reservationID

	uc.Log.Info("bookingUsecase.BookAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRequesterIDKey, patientID),
		zap.String(constvars.LoggingReservationIDKey, reservationID),
	)
	return buildAppointmentResponse(reservation), nil
}

func (uc *bookingUsecase) CancelAppointment(ctx context.Context, patientID, reservationID string) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRequesterIDKey, patientID),
		zap.String(constvars.LoggingReservationIDKey, reservationID),
	)

	reservation, err := uc.ReservationRepository.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil || reservation.Status != models.ReservationConfirmed {
		return nil, exceptions.ErrReservationNotFound(nil)
	}
	if reservation.PatientID != patientID {
		uc.Log.Warn("bookingUsecase.CancelAppointment ownership check failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRequesterIDKey, patientID),
			zap.String(constvars.LoggingReservationIDKey, reservationID),
		)
		return nil, exceptions.ErrReservationForbidden(nil)
	}

	// ReleaseSlot is idempotent, so a retried cancellation re-releasing an
	// already-available slot is harmless. A missing slot record means state
	// has drifted; the ledger update still proceeds.
	if _, err := uc.CalendarUsecase.ReleaseSlot(ctx, reservation.DoctorID, reservation.Date, reservation.Time); err != nil {
		customErr, ok := err.(*exceptions.CustomError)
		if !ok || customErr.StatusCode != constvars.StatusNotFound {
			return nil, err
		}
		uc.Log.Warn("bookingUsecase.CancelAppointment slot missing during release, continuing",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReservationIDKey, reservationID),
		)
	}

	if err := uc.ReservationRepository.UpdateStatus(ctx, reservationID, models.ReservationCancelled); err != nil {
		// The slot is already released but the reservation still reads
		// confirmed, the converse orphan of a failed booking.
		uc.flagOrphan(ctx, models.OrphanEvent{
			Kind:          constvars.OrphanKindReservationWithoutSlot,
			DoctorID:      reservation.DoctorID,
			PatientID:     patientID,
			ReservationID: reservationID,
			Date:          reservation.Date,
			Time:          reservation.Time,
			OccurredAt:    time.Now().UTC(),
		}, err)
		return nil, exceptions.ErrOrphanedReservation(err)
	}

	reservation.Status = models.ReservationCancelled
	reservation.UpdatedAt = time.Now().UTC()

	uc.Log.Info("bookingUsecase.CancelAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReservationIDKey, reservationID),
	)
	return buildAppointmentResponse(reservation), nil
}

func (uc *bookingUsecase) FindMyAppointments(ctx context.Context, patientID string) ([]responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	reservations, err := uc.ReservationRepository.FindByPatientID(ctx, patientID)
	if err != nil {
		uc.Log.Error("bookingUsecase.FindMyAppointments error fetching reservations",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	response := make([]responses.Appointment, 0, len(reservations))
	for i := range reservations {
		response = append(response, *buildAppointmentResponse(&reservations[i]))
	}

	uc.Log.Info("bookingUsecase.FindMyAppointments succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseCountKey, len(response)),
	)
	return response, nil
}

func (uc *bookingUsecase) FindDoctorSlots(ctx context.Context, doctorID, date string) ([]responses.Slot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	day, err := utils.ParseDateOnly(date)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}

	doctor, err := uc.DoctorRepository.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}

	slots, err := uc.CalendarUsecase.ListSlots(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	response := make([]responses.Slot, 0, len(slots))
	for _, slot := range slots {
		response = append(response, responses.Slot{
			DoctorID: slot.DoctorID,
			Date:     slot.Date.Format(constvars.DateOnlyFormat),
			Time:     slot.Time,
			Status:   string(slot.Status),
		})
	}

	uc.Log.Info("bookingUsecase.FindDoctorSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.Int(constvars.LoggingSlotCountKey, len(response)),
	)
	return response, nil
}

func (uc *bookingUsecase) flagOrphan(ctx context.Context, event models.OrphanEvent, cause error) {
	uc.Log.Error("bookingUsecase detected orphaned state",
		zap.String(constvars.LoggingOrphanKindKey, event.Kind),
		zap.String(constvars.LoggingDoctorIDKey, event.DoctorID),
		zap.String(constvars.LoggingRequesterIDKey, event.PatientID),
		zap.String(constvars.LoggingSlotDateKey, event.Date.Format(constvars.DateOnlyFormat)),
		zap.String(constvars.LoggingSlotTimeKey, event.Time),
		zap.Error(cause),
	)
	if err := uc.OrphanPublisher.PublishOrphanEvent(ctx, event); err != nil {
		uc.Log.Error("bookingUsecase failed to publish orphan event",
			zap.String(constvars.LoggingOrphanKindKey, event.Kind),
			zap.Error(err),
		)
	}
}

func buildAppointmentResponse(reservation *models.Reservation) *responses.Appointment {
	return &responses.Appointment{
		ID:        reservation.ID,
		DoctorID:  reservation.DoctorID,
		PatientID: reservation.PatientID,
		Date:      reservation.Date.Format(constvars.DateOnlyFormat),
		Time:      reservation.Time,
		Status:    string(reservation.Status),
		CreatedAt: reservation.CreatedAt.Format(time.RFC3339),
	}
}
