package contracts

import (
	"context"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/dto/responses"
)

// BookingUsecase is the reservation coordinator. It sequences the duplicate
// check, the atomic slot transition and the ledger write, and is the only
// component allowed to call both the calendar and the ledger.
type BookingUsecase interface {
	BookAppointment(ctx context.Context, patientID string, request *requests.CreateAppointment) (*responses.Appointment, error)
	CancelAppointment(ctx context.Context, patientID, reservationID string) (*responses.Appointment, error)
	FindMyAppointments(ctx context.Context, patientID string) ([]responses.Appointment, error)
	FindDoctorSlots(ctx context.Context, doctorID, date string) ([]responses.Slot, error)
}

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, request *requests.CreateDoctor) (*responses.Doctor, error)
	PublishSlots(ctx context.Context, doctorID string, request *requests.PublishSlots) (*responses.Doctor, error)
}
