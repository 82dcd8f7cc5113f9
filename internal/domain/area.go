package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Area is a physical location that departments are grouped under.
type Area struct {
	ID       string `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Building string `json:"building" bson:"building"`
}

// Validate checks required fields.
func (a Area) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Building, validation.Required),
	)
}
