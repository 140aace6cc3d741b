package doctors

import (
	"context"
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

type doctorUsecase struct {
	DoctorRepository contracts.DoctorRepository
	CalendarUsecase  contracts.CalendarUsecase
	Log              *zap.Logger
}

var (
	doctorUsecaseInstance contracts.DoctorUsecase
	onceDoctorUsecase     sync.Once
)

func NewDoctorUsecase(
	doctorRepository contracts.DoctorRepository,
	calendarUsecase contracts.CalendarUsecase,
	logger *zap.Logger,
) contracts.DoctorUsecase {
	onceDoctorUsecase.Do(func() {
		instance := &doctorUsecase{
			DoctorRepository: doctorRepository,
			CalendarUsecase:  calendarUsecase,
			Log:              logger,
		}
		doctorUsecaseInstance = instance
	})
	return doctorUsecaseInstance
}

// newDoctorUsecase bypasses the singleton for tests.
func newDoctorUsecase(
	doctorRepository contracts.DoctorRepository,
	calendarUsecase contracts.CalendarUsecase,
	logger *zap.Logger,
) *doctorUsecase {
	return &doctorUsecase{
		DoctorRepository: doctorRepository,
		CalendarUsecase:  calendarUsecase,
		Log:              logger,
	}
}

func (uc *doctorUsecase) CreateDoctor(ctx context.Context, request *requests.CreateDoctor) (*responses.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.CreateDoctor called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	slots, err := buildSlotModels(request.Slots)
	if err != nil {
		return nil, err
	}

	doctor := &models.Doctor{
		Name:      request.Name,
		Specialty: request.Specialty,
		Location:  request.Location,
		CreatedAt: time.Now().UTC(),
	}

	doctorID, err := uc.DoctorRepository.Create(ctx, doctor)
	if err != nil {
		uc.Log.Error("doctorUsecase.CreateDoctor error creating doctor",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	doctor.ID = doctorID

	if len(slots) > 0 {
		if err := uc.CalendarUsecase.PublishSlots(ctx, doctorID, slots); err != nil {
			uc.Log.Error("doctorUsecase.CreateDoctor error publishing initial slots",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingDoctorIDKey, doctorID),
				zap.Error(err),
			)
			return nil, err
		}
	}

	uc.Log.Info("doctorUsecase.CreateDoctor succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.Int(constvars.LoggingSlotCountKey, len(slots)),
	)
	return buildDoctorResponse(doctor, len(slots)), nil
}

func (uc *doctorUsecase) PublishSlots(ctx context.Context, doctorID string, request *requests.PublishSlots) (*responses.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.PublishSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	doctor, err := uc.DoctorRepository.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}

	slots, err := buildSlotModels(request.Slots)
	if err != nil {
		return nil, err
	}

	if err := uc.CalendarUsecase.PublishSlots(ctx, doctorID, slots); err != nil {
		uc.Log.Error("doctorUsecase.PublishSlots error publishing slots",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("doctorUsecase.PublishSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.Int(constvars.LoggingSlotCountKey, len(slots)),
	)
	return buildDoctorResponse(doctor, len(slots)), nil
}

func buildSlotModels(published []requests.PublishSlot) ([]models.Slot, error) {
	slots := make([]models.Slot, 0, len(published))
	for _, item := range published {
		day, err := utils.ParseDateOnly(item.Date)
		if err != nil {
			return nil, exceptions.ErrCannotParseDate(err)
		}
		timeLabel, err := utils.ParseSlotTime(item.Time)
		if err != nil {
			return nil, exceptions.ErrCannotParseTime(err)
		}
		slots = append(slots, models.Slot{
			Date: day,
			Time: timeLabel,
		})
	}
	return slots, nil
}

func buildDoctorResponse(doctor *models.Doctor, slotCount int) *responses.Doctor {
	return &responses.Doctor{
		ID:        doctor.ID,
		Name:      doctor.Name,
		Specialty: doctor.Specialty,
		Location:  doctor.Location,
		SlotCount: slotCount,
	}
}
