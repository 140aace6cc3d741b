package models

import (
	"time"
)

type Doctor struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Specialty string    `json:"specialty" bson:"specialty"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}
