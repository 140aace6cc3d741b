package models

import (
	"time"
)

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation binds a patient to a confirmed slot. Records are never deleted;
// cancellation flips Status so the ledger keeps its audit history. The link to
// the slot is by (DoctorID, Date, Time) key, not a stored foreign key.
type Reservation struct {
	ID        string            `json:"id" bson:"_id,omitempty"`
	DoctorID  string            `json:"doctor_id" bson:"doctorId"`
	PatientID string            `json:"patient_id" bson:"patientId"`
	Date      time.Time         `json:"date" bson:"date"`
	Time      string            `json:"time" bson:"time"`
	Status    ReservationStatus `json:"status" bson:"status"`
	CreatedAt time.Time         `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time         `json:"updated_at" bson:"updatedAt"`
}
