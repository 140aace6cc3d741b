package models

import (
	"time"
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotConfirmed SlotStatus = "confirmed"
)

// Slot is a bookable (doctor, date, time) unit. Within one doctor the
// (Date, Time) pair is unique. Status is mutated only through the calendar's
// conditional-update operations, never by direct assignment.
type Slot struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	DoctorID  string     `json:"doctor_id" bson:"doctorId"`
	Date      time.Time  `json:"date" bson:"date"`
	Time      string     `json:"time" bson:"time"`
	Status    SlotStatus `json:"status" bson:"status"`
	CreatedAt time.Time  `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updatedAt"`
}
