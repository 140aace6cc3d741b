package contracts

import (
	"context"
	"medbook-service/internal/app/models"
)

// OrphanEventPublisher flags partial-failure inconsistencies for the
// reconciler. Publishing must never be skipped when an orphan is detected.
type OrphanEventPublisher interface {
	PublishOrphanEvent(ctx context.Context, event models.OrphanEvent) error
}
