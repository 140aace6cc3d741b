package constvars

const (
	BookingConfirmedMessage     = "Booking Confirmed"
	AppointmentCancelledMessage = "Appointment cancelled"
	GetAppointmentsMessage      = "Successfully retrieved appointments"
	GetSlotsMessage             = "Successfully retrieved slots"
	CreateDoctorSuccessMessage  = "Successfully created doctor"
	PublishSlotsSuccessMessage  = "Successfully published slots"
)
