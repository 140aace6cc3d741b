package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingRequesterIDKey   = "requester_id"
	LoggingDoctorIDKey      = "doctor_id"
	LoggingReservationIDKey = "reservation_id"
	LoggingSlotDateKey      = "slot_date"
	LoggingSlotTimeKey      = "slot_time"
	LoggingOrphanKindKey    = "orphan_kind"
	LoggingRedisKey         = "redis_key"
	LoggingQueueNameKey     = "queue_name"
	LoggingLockValueKey     = "lock_value"

	LoggingMethodKey     = "method"
	LoggingEndpointKey   = "endpoint"
	LoggingRemoteAddrKey = "remote_addr"
	LoggingUserAgentKey  = "user_agent"
	LoggingQueryKey      = "query"
	LoggingStatusCodeKey = "status_code"
	LoggingDurationKey   = "duration"
	LoggingSuccessKey    = "success"

	LoggingResponseCountKey = "response_count"
	LoggingSlotCountKey     = "slot_count"
)
