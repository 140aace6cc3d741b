package constvars

const (
	MongoCollectionDoctors      = "doctors"
	MongoCollectionSlots        = "slots"
	MongoCollectionReservations = "appointments"
)
