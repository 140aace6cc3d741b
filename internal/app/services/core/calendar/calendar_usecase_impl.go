package calendar

import (
	"context"
	"fmt"
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"medbook-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type calendarUsecase struct {
	SlotRepository  contracts.SlotRepository
	RedisRepository contracts.RedisRepository
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
}

var (
	calendarUsecaseInstance contracts.CalendarUsecase
	onceCalendarUsecase     sync.Once
)

func NewCalendarUsecase(
	slotRepository contracts.SlotRepository,
	redisRepository contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.CalendarUsecase {
	onceCalendarUsecase.Do(func() {
		instance := &calendarUsecase{
			SlotRepository:  slotRepository,
			RedisRepository: redisRepository,
			InternalConfig:  internalConfig,
			Log:             logger,
		}
		calendarUsecaseInstance = instance
	})
	return calendarUsecaseInstance
}

func (uc *calendarUsecase) TryConfirmSlot(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	day := utils.TruncateToDay(date)

	// The repository's conditional write is the sole source of truth for
	// slot exclusivity; no lock is taken around it.
	slot, err := uc.SlotRepository.TryConfirm(ctx, doctorID, day, timeLabel)
	if err != nil {
		uc.Log.Error("calendarUsecase.TryConfirmSlot repository error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return nil, err
	}
	if slot == nil {
		uc.Log.Info("calendarUsecase.TryConfirmSlot slot not available",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.String(constvars.LoggingSlotDateKey, day.Format(constvars.DateOnlyFormat)),
			zap.String(constvars.LoggingSlotTimeKey, timeLabel),
		)
		return nil, exceptions.ErrSlotNotAvailable(nil)
	}

	uc.invalidateSlotListCache(ctx, doctorID, day)

	uc.Log.Info("calendarUsecase.TryConfirmSlot succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String(constvars.LoggingSlotDateKey, day.Format(constvars.DateOnlyFormat)),
		zap.String(constvars.LoggingSlotTimeKey, timeLabel),
	)
	return slot, nil
}

func (uc *calendarUsecase) ReleaseSlot(ctx context.Context, doctorID string, date time.Time, timeLabel string) (*models.Slot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	day := utils.TruncateToDay(date)

	slot, err := uc.SlotRepository.Release(ctx, doctorID, day, timeLabel)
	if err != nil {
		uc.Log.Error("calendarUsecase.ReleaseSlot repository error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return nil, err
	}
	if slot == nil {
		return nil, exceptions.ErrSlotNotFound(nil)
	}

	uc.invalidateSlotListCache(ctx, doctorID, day)

	uc.Log.Info("calendarUsecase.ReleaseSlot succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String(constvars.LoggingSlotDateKey, day.Format(constvars.DateOnlyFormat)),
		zap.String(constvars.LoggingSlotTimeKey, timeLabel),
	)
	return slot, nil
}

func (uc *calendarUsecase) ListSlots(ctx context.Context, doctorID string, date time.Time) ([]models.Slot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	day := utils.TruncateToDay(date)
	cacheKey := uc.slotListCacheKey(doctorID, day)

	if cached, err := uc.RedisRepository.Get(ctx, cacheKey); err == nil && cached != "" {
		var slots []models.Slot
		if err := json.Unmarshal([]byte(cached), &slots); err == nil {
			return slots, nil
		}
	}

	slots, err := uc.SlotRepository.FindByDoctorAndDate(ctx, doctorID, day)
	if err != nil {
		uc.Log.Error("calendarUsecase.ListSlots repository error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return nil, err
	}

	ttl := time.Duration(uc.InternalConfig.App.SlotListCacheTTLInSeconds) * time.Second
	if err := uc.RedisRepository.Set(ctx, cacheKey, slots, ttl); err != nil {
		// A cold cache must never fail a read.
		uc.Log.Warn("calendarUsecase.ListSlots failed to cache slot list",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, cacheKey),
			zap.Error(err),
		)
	}

	uc.Log.Info("calendarUsecase.ListSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.Int(constvars.LoggingSlotCountKey, len(slots)),
	)
	return slots, nil
}

func (uc *calendarUsecase) PublishSlots(ctx context.Context, doctorID string, slots []models.Slot) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	now := time.Now().UTC()
	days := make(map[time.Time]struct{})
	seen := make(map[string]struct{}, len(slots))
	for i := range slots {
		slots[i].DoctorID = doctorID
		slots[i].Date = utils.TruncateToDay(slots[i].Date)
		slots[i].Status = models.SlotAvailable
		slots[i].CreatedAt = now
		slots[i].UpdatedAt = now

		// A duplicate key inside the batch would produce two documents for
		// the same slot, and TryConfirm would flip only one of them.
		key := slots[i].Date.Format(constvars.DateOnlyFormat) + "|" + slots[i].Time
		if _, duplicate := seen[key]; duplicate {
			return exceptions.ErrSlotAlreadyPublished(nil)
		}
		seen[key] = struct{}{}

		existing, err := uc.SlotRepository.FindByKey(ctx, doctorID, slots[i].Date, slots[i].Time)
		if err != nil {
			return err
		}
		if existing != nil {
			return exceptions.ErrSlotAlreadyPublished(nil)
		}
		days[slots[i].Date] = struct{}{}
	}

	if err := uc.SlotRepository.Insert(ctx, slots); err != nil {
		uc.Log.Error("calendarUsecase.PublishSlots repository error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return err
	}

	for day := range days {
		uc.invalidateSlotListCache(ctx, doctorID, day)
	}

	uc.Log.Info("calendarUsecase.PublishSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.Int(constvars.LoggingSlotCountKey, len(slots)),
	)
	return nil
}

func (uc *calendarUsecase) slotListCacheKey(doctorID string, day time.Time) string {
	return fmt.Sprintf(constvars.SlotListCacheKeyFormat, doctorID, day.Format(constvars.DateOnlyFormat))
}

func (uc *calendarUsecase) invalidateSlotListCache(ctx context.Context, doctorID string, day time.Time) {
	cacheKey := uc.slotListCacheKey(doctorID, day)
	if err := uc.RedisRepository.Delete(ctx, cacheKey); err != nil {
		uc.Log.Warn("calendarUsecase failed to invalidate slot list cache",
			zap.String(constvars.LoggingRedisKey, cacheKey),
			zap.Error(err),
		)
	}
}
