package requests

// CreateAppointment is the inbound booking request. Date accepts either a
// plain calendar day or a full RFC3339 timestamp; any time-of-day component
// is truncated before slot matching.
type CreateAppointment struct {
	DoctorID string `json:"doctorId" validate:"required"`
	Date     string `json:"date" validate:"required,date_only"`
	Time     string `json:"time" validate:"required,slot_time"`
}
