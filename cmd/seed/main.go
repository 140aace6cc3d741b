package main

import (
	"context"
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/drivers/database"
	"medbook-service/internal/app/drivers/logger"
	"medbook-service/internal/app/models"
	"medbook-service/internal/app/services/core/calendar"
	"medbook-service/internal/app/services/core/doctors"
	sharedredis "medbook-service/internal/app/services/shared/redis"
	"medbook-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

// Seeds one demo doctor with a week of hourly slots so a fresh environment
// has something to book against.
func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doctorRepository := doctors.NewDoctorMongoRepository(mongoDB, driverConfig.MongoDB.DbName)
	slotRepository := calendar.NewSlotMongoRepository(mongoDB, driverConfig.MongoDB.DbName)
	calendarUsecase := calendar.NewCalendarUsecase(
		slotRepository,
		sharedredis.NewRedisRepository(redisClient),
		internalConfig,
		zap.NewNop(),
	)

	doctorID, err := doctorRepository.Create(ctx, &models.Doctor{
		Name:      "Dr. Demo",
		Specialty: "General Practice",
		Location:  "Main Clinic",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Fatalf("Failed to seed doctor: %v", err)
	}

	var slots []models.Slot
	start := utils.TruncateToDay(time.Now().UTC()).AddDate(0, 0, 1)
	for day := 0; day < 7; day++ {
		date := start.AddDate(0, 0, day)
		for hour := 9; hour < 17; hour++ {
			slots = append(slots, models.Slot{
				Date: date,
				Time: time.Date(0, 1, 1, hour, 0, 0, 0, time.UTC).Format("15:04"),
			})
		}
	}

	if err := calendarUsecase.PublishSlots(ctx, doctorID, slots); err != nil {
		log.Fatalf("Failed to seed slots: %v", err)
	}

	log.Infof("Seeded doctor %s with %d slots", doctorID, len(slots))

	if err := mongoDB.Disconnect(ctx); err != nil {
		log.Fatalf("Failed to disconnect MongoDB: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Fatalf("Failed to close Redis: %v", err)
	}
}
