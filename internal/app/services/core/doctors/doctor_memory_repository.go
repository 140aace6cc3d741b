package doctors

import (
	"context"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"sync"

	"github.com/google/uuid"
)

// DoctorMemoryRepository is a mutex guarded in memory store used by tests and
// the seed tool.
type DoctorMemoryRepository struct {
	mu      sync.Mutex
	doctors map[string]*models.Doctor
}

func NewDoctorMemoryRepository() *DoctorMemoryRepository {
	return &DoctorMemoryRepository{
		doctors: make(map[string]*models.Doctor),
	}
}

var _ contracts.DoctorRepository = (*DoctorMemoryRepository)(nil)

func (r *DoctorMemoryRepository) Create(_ context.Context, doctor *models.Doctor) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := doctor.ID
	if id == "" {
		id = uuid.NewString()
	}
	stored := *doctor
	stored.ID = id
	r.doctors[id] = &stored
	return id, nil
}

func (r *DoctorMemoryRepository) FindByID(_ context.Context, doctorID string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doctor, ok := r.doctors[doctorID]
	if !ok {
		return nil, nil
	}
	found := *doctor
	return &found, nil
}
