package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Manager is a person that can be put in charge of a department.
type Manager struct {
	ID           string `json:"id" bson:"_id"`
	Name         string `json:"name" bson:"name"`
	FieldOfStudy string `json:"fieldOfStudy" bson:"fieldOfStudy"`
	Shift        string `json:"shift" bson:"shift"`
}

// Validate checks required fields.
func (m Manager) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.FieldOfStudy, validation.Required),
		validation.Field(&m.Shift, validation.Required),
	)
}
