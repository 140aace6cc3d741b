package requests

type PublishSlot struct {
	Date string `json:"date" validate:"required,date_only"`
	Time string `json:"time" validate:"required,slot_time"`
}

type CreateDoctor struct {
	Name      string        `json:"name" validate:"required,min=2,max=100"`
	Specialty string        `json:"specialty" validate:"required,min=2,max=100"`
	Location  string        `json:"location" validate:"omitempty,max=200"`
	Slots     []PublishSlot `json:"availableSlots" validate:"omitempty,dive"`
}

type PublishSlots struct {
	Slots []PublishSlot `json:"slots" validate:"required,min=1,dive"`
}
