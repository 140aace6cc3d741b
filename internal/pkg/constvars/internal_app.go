package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_REQUESTER_ID_KEY         ContextKey = "requester_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	// DateOnlyFormat is the canonical calendar-day representation used for
	// slot matching. Any time-of-day component on an input is discarded.
	DateOnlyFormat = "2006-01-02"
	// SlotTimeFormat is the discrete slot time label, e.g. "10:00".
	SlotTimeFormat = "15:04"
)

const (
	SlotStatusAvailable = "available"
	SlotStatusConfirmed = "confirmed"

	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

const (
	// OrphanKindSlotWithoutReservation marks a slot left confirmed after
	// the ledger write failed.
	OrphanKindSlotWithoutReservation = "slot_confirmed_without_reservation"
	// OrphanKindReservationWithoutSlot marks a reservation left confirmed
	// after its slot was already released.
	OrphanKindReservationWithoutSlot = "reservation_active_without_slot"
)

const SlotListCacheKeyFormat = "slots:%s:%s"
