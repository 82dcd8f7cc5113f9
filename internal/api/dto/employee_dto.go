package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/spec-kit/personnel-directory/internal/domain"
)

// EmployeeRequest is the POST and PUT payload. Age is a pointer so a missing
// value can be told apart from zero.
type EmployeeRequest struct {
	FirstName       string `json:"firstName" openapi:"required"`
	LastName        string `json:"lastName" openapi:"required"`
	Age             *int   `json:"age" openapi:"required"`
	Gender          string `json:"gender" openapi:"required"`
	DepartmentName1 string `json:"departmentName1"`
	DepartmentName2 string `json:"departmentName2"`
	DepartmentName3 string `json:"departmentName3"`
}

// Validate checks required fields.
func (r EmployeeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
		validation.Field(&r.Age, validation.NotNil, validation.Min(0)),
		validation.Field(&r.Gender, validation.Required),
	)
}

// EmployeePatchRequest is the PATCH payload.
type EmployeePatchRequest struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Age             *int    `json:"age"`
	Gender          *string `json:"gender"`
	DepartmentName1 *string `json:"departmentName1"`
	DepartmentName2 *string `json:"departmentName2"`
	DepartmentName3 *string `json:"departmentName3"`
}

// EmployeeResponse is the wire form of an employee.
type EmployeeResponse struct {
	ID              string `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Age             int    `json:"age"`
	Gender          string `json:"gender"`
	DepartmentName1 string `json:"departmentName1"`
	DepartmentName2 string `json:"departmentName2"`
	DepartmentName3 string `json:"departmentName3"`
}

// NewEmployeeResponse maps the domain record.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:              e.ID,
		FirstName:       e.FirstName,
		LastName:        e.LastName,
		Age:             e.Age,
		Gender:          e.Gender,
		DepartmentName1: e.DepartmentName1,
		DepartmentName2: e.DepartmentName2,
		DepartmentName3: e.DepartmentName3,
	}
}
