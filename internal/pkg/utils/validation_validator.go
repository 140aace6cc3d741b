package utils

import (
	"medbook-service/internal/pkg/constvars"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("date_only", validateDateOnly)
	validate.RegisterValidation("slot_time", validateSlotTime)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateDateOnly(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if _, err := time.Parse(constvars.DateOnlyFormat, value); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, value)
	return err == nil
}

func validateSlotTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(constvars.SlotTimeFormat, fl.Field().String())
	return err == nil
}
