package constvars

// Client messages. Each rejection in the booking flow keeps its own message so
// "your input was bad", "you already have this", "someone else took it" and
// "you're not allowed" never collapse into one generic error.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process request, please check your input"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"

	ErrClientDoctorDateTimeRequired = "Doctor, date and time are required"
	ErrClientAlreadyBookedSlot      = "You already booked this slot"
	ErrClientSlotNotAvailable       = "Slot not available or already booked"
	ErrClientAppointmentNotFound    = "Appointment not found"
	ErrClientNotAppointmentOwner    = "You can only cancel your own appointments"
	ErrClientDoctorNotFound         = "Doctor not found"
	ErrClientSlotAlreadyPublished   = "One or more slots already exist for this doctor"
	ErrClientServerLongRespond      = "Server takes too long to respond, please try again later"
)

// Dev messages.
const (
	ErrDevValidationFailed   = "Request validation failed"
	ErrDevCannotParseJSON    = "Failed to parse JSON request body"
	ErrDevCannotParseDate    = "Failed to parse date input"
	ErrDevCannotParseTime    = "Failed to parse slot time input"
	ErrDevCannotMarshalJSON  = "Failed to marshal value to JSON"
	ErrDevAuthTokenMissing   = "Authorization token is missing"
	ErrDevAuthTokenInvalid   = "Authorization token is invalid or expired"
	ErrDevMissingRequestID   = "Request ID not found in request context"
	ErrDevMissingRequesterID = "Requester ID not found in request context"
	ErrDevServerDeadline     = "Server deadline exceeded while processing request"
	ErrDevServerProcess      = "Unexpected error while processing request"
	ErrDevDuplicateBooking   = "Requester already holds a confirmed reservation for this slot key"
	ErrDevSlotNotAvailable   = "Slot missing, already confirmed, or lost to a concurrent booking"
	ErrDevSlotNotFound       = "No slot exists for the given doctor, date and time"
	ErrDevReservationMissing = "No reservation exists with the given id"
	ErrDevReservationOwner   = "Reservation belongs to a different requester"
	ErrDevDoctorMissing      = "No doctor exists with the given id"
	ErrDevSlotDuplicateKey   = "Slot with the same (date, time) already published for this doctor"

	ErrDevOrphanedSlot        = "Slot confirmed but ledger write failed; slot is orphaned pending reconciliation"
	ErrDevOrphanedReservation = "Slot released but reservation update failed; reservation is orphaned pending reconciliation"

	ErrDevDBFailedToFindDocument     = "Database failed to find document"
	ErrDevDBFailedToInsertDocument   = "Database failed to insert document"
	ErrDevDBFailedToUpdateDocument   = "Database failed to update document"
	ErrDevDBFailedToIterateDocuments = "Database failed to iterate documents"
	ErrDevDBStringNotObjectID        = "Given string cannot be converted to ObjectID"

	ErrDevRedisGetData   = "Redis failed to get data"
	ErrDevRedisSetData   = "Redis failed to set data"
	ErrDevRedisDelete    = "Redis failed to delete data"
	ErrDevRedisUnlock    = "Redis lock is not owned by this client"
	ErrDevRabbitMQueue   = "RabbitMQ failed to declare or use queue"
	ErrDevRabbitMPublish = "RabbitMQ failed to publish message"
)
