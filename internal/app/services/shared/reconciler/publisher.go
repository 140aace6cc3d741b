package reconciler

import (
	"context"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type orphanEventPublisher struct {
	Channel *amqp091.Channel
	Queue   string
	Log     *zap.Logger
}

var (
	orphanEventPublisherInstance contracts.OrphanEventPublisher
	onceOrphanEventPublisher     sync.Once
	orphanEventPublisherError    error
)

func NewOrphanEventPublisher(rabbitMQConnection *amqp091.Connection, logger *zap.Logger, queue string) (contracts.OrphanEventPublisher, error) {
	onceOrphanEventPublisher.Do(func() {
		channel, err := rabbitMQConnection.Channel()
		if err != nil {
			orphanEventPublisherError = err
			return
		}
		_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
		if err != nil {
			orphanEventPublisherError = exceptions.ErrRabbitMQDeclareQueue(err, queue)
			return
		}
		instance := &orphanEventPublisher{
			Channel: channel,
			Queue:   queue,
			Log:     logger,
		}
		orphanEventPublisherInstance = instance
	})
	return orphanEventPublisherInstance, orphanEventPublisherError
}

func (s *orphanEventPublisher) PublishOrphanEvent(ctx context.Context, event models.OrphanEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	s.Log.Info("orphanEventPublisher.PublishOrphanEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrphanKindKey, event.Kind),
	)

	body, err := json.Marshal(event)
	if err != nil {
		s.Log.Error("orphanEventPublisher.PublishOrphanEvent error marshaling JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrCannotMarshalJSON(err)
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
	}

	err = s.Channel.PublishWithContext(ctx, "", s.Queue, false, false, message)
	if err != nil {
		s.Log.Error("orphanEventPublisher.PublishOrphanEvent error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueNameKey, s.Queue),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, s.Queue)
	}

	s.Log.Info("orphanEventPublisher.PublishOrphanEvent succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, s.Queue),
	)
	return nil
}
