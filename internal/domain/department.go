package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Department is an organizational unit. It points at its area and,
// optionally, its manager by name rather than by identifier.
type Department struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	ManagerName string `json:"managerName" bson:"managerName"`
	AreaName    string `json:"areaName" bson:"areaName"`
}

// Validate checks required fields. Reference resolution happens in the service.
func (d Department) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
	)
}

// HasManager reports whether a manager is assigned.
func (d Department) HasManager() bool {
	return d.ManagerName != ""
}
