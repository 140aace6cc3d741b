package contracts

import (
	"context"
	"medbook-service/internal/app/models"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) (doctorID string, err error)
	// FindByID returns (nil, nil) when no doctor exists with the given id.
	FindByID(ctx context.Context, doctorID string) (*models.Doctor, error)
}
