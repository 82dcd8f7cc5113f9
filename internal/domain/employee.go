package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"
)

// MaxEmployeeDepartments is the number of department slots on an employee.
const MaxEmployeeDepartments = 3

// Employee is a person optionally associated with up to three departments by name.
type Employee struct {
	ID              string `json:"id" bson:"_id"`
	FirstName       string `json:"firstName" bson:"firstName"`
	LastName        string `json:"lastName" bson:"lastName"`
	Age             int    `json:"age" bson:"age"`
	Gender          string `json:"gender" bson:"gender"`
	DepartmentName1 string `json:"departmentName1" bson:"departmentName1"`
	DepartmentName2 string `json:"departmentName2" bson:"departmentName2"`
	DepartmentName3 string `json:"departmentName3" bson:"departmentName3"`
}

// Validate checks required fields.
func (e Employee) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.FirstName, validation.Required),
		validation.Field(&e.LastName, validation.Required),
		validation.Field(&e.Age, validation.Min(0)),
		validation.Field(&e.Gender, validation.Required),
	)
}

// DepartmentNames returns the non-empty department names in slot order.
func (e Employee) DepartmentNames() []string {
	return lo.Compact([]string{e.DepartmentName1, e.DepartmentName2, e.DepartmentName3})
}
