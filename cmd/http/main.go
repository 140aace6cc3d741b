package main

import (
	"context"
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/delivery/http/controllers"
	"medbook-service/internal/app/delivery/http/middlewares"
	"medbook-service/internal/app/delivery/http/routers"
	"medbook-service/internal/app/drivers/database"
	"medbook-service/internal/app/drivers/logger"
	"medbook-service/internal/app/drivers/messaging"
	"medbook-service/internal/app/services/core/booking"
	"medbook-service/internal/app/services/core/calendar"
	"medbook-service/internal/app/services/core/doctors"
	"medbook-service/internal/app/services/core/reservations"
	"medbook-service/internal/app/services/shared/locker"
	"medbook-service/internal/app/services/shared/reconciler"
	sharedredis "medbook-service/internal/app/services/shared/redis"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		logrus.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapingTheApp(&bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		logrus.Fatalf("Error while closing connections: %v", err)
	}

	logrus.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) {
	// Redis
	redisRepository := sharedredis.NewRedisRepository(bootstrap.Redis)
	lockService := locker.NewLockService(redisRepository, bootstrap.Logger)

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	// Calendar
	slotMongoRepository := calendar.NewSlotMongoRepository(
		bootstrap.MongoDB,
		bootstrap.DriverConfig.MongoDB.DbName,
	)
	calendarUsecase := calendar.NewCalendarUsecase(
		slotMongoRepository,
		redisRepository,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)

	// Reservations
	reservationMongoRepository := reservations.NewReservationMongoRepository(
		bootstrap.MongoDB,
		bootstrap.DriverConfig.MongoDB.DbName,
	)

	// Doctors
	doctorMongoRepository := doctors.NewDoctorMongoRepository(
		bootstrap.MongoDB,
		bootstrap.DriverConfig.MongoDB.DbName,
	)
	doctorUsecase := doctors.NewDoctorUsecase(doctorMongoRepository, calendarUsecase, bootstrap.Logger)

	// Orphan reconciliation
	orphanPublisher, err := reconciler.NewOrphanEventPublisher(
		bootstrap.RabbitMQ,
		bootstrap.Logger,
		bootstrap.InternalConfig.App.RabbitMQOrphanQueue,
	)
	if err != nil {
		logrus.Fatalf("Failed to create orphan event publisher: %v", err)
	}

	reconcilerWorker := reconciler.NewWorker(
		reservationMongoRepository,
		calendarUsecase,
		lockService,
		bootstrap.RabbitMQ,
		bootstrap.InternalConfig.App.RabbitMQOrphanQueue,
		bootstrap.Logger,
	)
	reconcilerWorker.Start()
	bootstrap.WorkerStop = reconcilerWorker.Stop

	// Booking
	bookingUsecase := booking.NewBookingUsecase(
		reservationMongoRepository,
		doctorMongoRepository,
		calendarUsecase,
		orphanPublisher,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)

	requestTimeout := time.Second * time.Duration(bootstrap.InternalConfig.App.RequestTimeoutInSeconds)
	appointmentController := controllers.NewAppointmentController(bootstrap.Logger, bookingUsecase, requestTimeout)
	doctorController := controllers.NewDoctorController(bootstrap.Logger, doctorUsecase, bookingUsecase, requestTimeout)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, appointmentController, doctorController)
}
