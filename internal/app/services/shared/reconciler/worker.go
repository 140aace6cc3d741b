package reconciler

import (
	"context"
	"fmt"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	leaderLockKey       = "medbook:reconciler:leader"
	leaderLockTTL       = 30 * time.Second
	leaderLockRefresh   = 10 * time.Second
	leaderRetryInterval = 15 * time.Second
)

// Worker drains the orphan event queue and repairs the flagged state. A Redis
// leader lock keeps a single replica consuming so corrective writes are not
// raced against each other.
type Worker struct {
	ReservationRepository contracts.ReservationRepository
	CalendarUsecase       contracts.CalendarUsecase
	Locker                contracts.LockerService
	Connection            *amqp091.Connection
	Queue                 string
	Log                   *zap.Logger

	stop chan struct{}
	done chan struct{}
}

func NewWorker(
	reservationRepository contracts.ReservationRepository,
	calendarUsecase contracts.CalendarUsecase,
	locker contracts.LockerService,
	rabbitMQConnection *amqp091.Connection,
	queue string,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		ReservationRepository: reservationRepository,
		CalendarUsecase:       calendarUsecase,
		Locker:                locker,
		Connection:            rabbitMQConnection,
		Queue:                 queue,
		Log:                   logger,
		stop:                  make(chan struct{}),
		done:                  make(chan struct{}),
	}
}

func (w *Worker) Start() {
	go w.run()
}

// Stop signals the worker and waits for the current delivery to finish.
func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)

	for {
		acquired, lockValue, err := w.Locker.TryLock(context.Background(), leaderLockKey, leaderLockTTL)
		if err != nil {
			w.Log.Error("reconciler.Worker failed to try leader lock", zap.Error(err))
		}
		if acquired {
			w.consume(lockValue)
			if err := w.Locker.Unlock(context.Background(), leaderLockKey, lockValue); err != nil {
				w.Log.Warn("reconciler.Worker failed to release leader lock", zap.Error(err))
			}
		}

		select {
		case <-w.stop:
			return
		case <-time.After(leaderRetryInterval):
		}
	}
}

// consume holds the leader lock and processes deliveries until stopped or the
// channel closes.
func (w *Worker) consume(lockValue string) {
	channel, err := w.Connection.Channel()
	if err != nil {
		w.Log.Error("reconciler.Worker failed to open channel", zap.Error(err))
		return
	}
	defer channel.Close()

	if _, err := channel.QueueDeclare(w.Queue, true, false, false, false, nil); err != nil {
		w.Log.Error("reconciler.Worker failed to declare queue",
			zap.String(constvars.LoggingQueueNameKey, w.Queue),
			zap.Error(err),
		)
		return
	}

	deliveries, err := channel.Consume(w.Queue, "", false, false, false, false, nil)
	if err != nil {
		w.Log.Error("reconciler.Worker failed to start consuming",
			zap.String(constvars.LoggingQueueNameKey, w.Queue),
			zap.Error(err),
		)
		return
	}

	w.Log.Info("reconciler.Worker consuming",
		zap.String(constvars.LoggingQueueNameKey, w.Queue),
		zap.String(constvars.LoggingLockValueKey, lockValue),
	)

	refresh := time.NewTicker(leaderLockRefresh)
	defer refresh.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-refresh.C:
			if err := w.Locker.Refresh(context.Background(), leaderLockKey, lockValue, leaderLockTTL); err != nil {
				w.Log.Warn("reconciler.Worker lost leader lock, stopping consumer", zap.Error(err))
				return
			}
		case delivery, ok := <-deliveries:
			if !ok {
				return
			}
			w.handleDelivery(delivery)
		}
	}
}

func (w *Worker) handleDelivery(delivery amqp091.Delivery) {
	var event models.OrphanEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		w.Log.Error("reconciler.Worker dropping undecodable orphan event", zap.Error(err))
		// Requeueing a message that can never decode would loop forever.
		_ = delivery.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.applyEvent(ctx, event); err != nil {
		w.Log.Error("reconciler.Worker failed to repair orphaned state",
			zap.String(constvars.LoggingOrphanKindKey, event.Kind),
			zap.Error(err),
		)
		_ = delivery.Nack(false, true)
		return
	}

	w.Log.Info("reconciler.Worker repaired orphaned state",
		zap.String(constvars.LoggingOrphanKindKey, event.Kind),
		zap.String(constvars.LoggingDoctorIDKey, event.DoctorID),
		zap.String(constvars.LoggingSlotDateKey, event.Date.Format(constvars.DateOnlyFormat)),
		zap.String(constvars.LoggingSlotTimeKey, event.Time),
	)
	_ = delivery.Ack(false)
}

// applyEvent performs the corrective write for one orphan event. Repairs are
// idempotent, so redelivery after a crash is safe.
func (w *Worker) applyEvent(ctx context.Context, event models.OrphanEvent) error {
	switch event.Kind {
	case constvars.OrphanKindSlotWithoutReservation:
		return w.repairOrphanedSlot(ctx, event)
	case constvars.OrphanKindReservationWithoutSlot:
		return w.repairOrphanedReservation(ctx, event)
	default:
		return fmt.Errorf("unknown orphan event kind: %s", event.Kind)
	}
}

// repairOrphanedSlot releases a slot that was confirmed without a matching
// ledger record. If a record did land after the event was flagged, the pair is
// consistent and the slot stays confirmed.
func (w *Worker) repairOrphanedSlot(ctx context.Context, event models.OrphanEvent) error {
	reservation, err := w.ReservationRepository.FindActiveByKey(ctx, event.DoctorID, event.PatientID, event.Date, event.Time)
	if err != nil {
		return err
	}
	if reservation != nil {
		return nil
	}

	if _, err := w.CalendarUsecase.ReleaseSlot(ctx, event.DoctorID, event.Date, event.Time); err != nil {
		customErr, ok := err.(*exceptions.CustomError)
		if !ok || customErr.StatusCode != constvars.StatusNotFound {
			return err
		}
	}
	return nil
}

// repairOrphanedReservation cancels a reservation whose slot was already
// released during a failed cancellation.
func (w *Worker) repairOrphanedReservation(ctx context.Context, event models.OrphanEvent) error {
	reservation, err := w.ReservationRepository.FindByID(ctx, event.ReservationID)
	if err != nil {
		return err
	}
	if reservation == nil || reservation.Status != models.ReservationConfirmed {
		return nil
	}

	return w.ReservationRepository.UpdateStatus(ctx, event.ReservationID, models.ReservationCancelled)
}
