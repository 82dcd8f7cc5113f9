package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/spec-kit/personnel-directory/internal/domain"
)

// DepartmentRequest is the POST and PUT payload. ManagerName may be empty.
type DepartmentRequest struct {
	Name        string `json:"name" openapi:"required"`
	ManagerName string `json:"managerName"`
	AreaName    string `json:"areaName" openapi:"required"`
}

// Validate checks required fields. Whether the names resolve is decided by the service.
func (r DepartmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// DepartmentPatchRequest is the PATCH payload.
type DepartmentPatchRequest struct {
	Name        *string `json:"name"`
	ManagerName *string `json:"managerName"`
	AreaName    *string `json:"areaName"`
}

// DepartmentResponse is the wire form of a department.
type DepartmentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ManagerName string `json:"managerName"`
	AreaName    string `json:"areaName"`
}

// NewDepartmentResponse maps the domain record.
func NewDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Name: d.Name, ManagerName: d.ManagerName, AreaName: d.AreaName}
}
