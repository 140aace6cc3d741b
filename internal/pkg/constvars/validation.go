package constvars

var CustomValidationErrorMessages = map[string]string{
	"required":  "is required",
	"min":       "must be at least %s",
	"max":       "must be at most %s",
	"oneof":     "must be one of: %s",
	"date_only": "must be a valid date (YYYY-MM-DD or RFC3339)",
	"slot_time": "must be a valid slot time (HH:MM)",
}

var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
}
