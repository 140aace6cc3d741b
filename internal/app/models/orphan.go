package models

import (
	"time"
)

// OrphanEvent describes a slot/reservation pair left logically inconsistent
// by a partial failure. Events are queued for the reconciler; they are never
// silently dropped.
type OrphanEvent struct {
	Kind          string    `json:"kind"`
	DoctorID      string    `json:"doctor_id"`
	PatientID     string    `json:"patient_id"`
	ReservationID string    `json:"reservation_id,omitempty"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	OccurredAt    time.Time `json:"occurred_at"`
}
