package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/spec-kit/personnel-directory/internal/domain"
)

// ManagerRequest is the POST and PUT payload.
type ManagerRequest struct {
	Name         string `json:"name" openapi:"required"`
	FieldOfStudy string `json:"fieldOfStudy" openapi:"required"`
	Shift        string `json:"shift" openapi:"required"`
}

// Validate checks required fields.
func (r ManagerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.FieldOfStudy, validation.Required),
		validation.Field(&r.Shift, validation.Required),
	)
}

// ManagerPatchRequest is the PATCH payload.
type ManagerPatchRequest struct {
	Name         *string `json:"name"`
	FieldOfStudy *string `json:"fieldOfStudy"`
	Shift        *string `json:"shift"`
}

// ManagerResponse is the wire form of a manager.
type ManagerResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FieldOfStudy string `json:"fieldOfStudy"`
	Shift        string `json:"shift"`
}

// NewManagerResponse maps the domain record.
func NewManagerResponse(m *domain.Manager) ManagerResponse {
	return ManagerResponse{ID: m.ID, Name: m.Name, FieldOfStudy: m.FieldOfStudy, Shift: m.Shift}
}
