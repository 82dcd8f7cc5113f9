package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/spec-kit/personnel-directory/internal/domain"
)

// AreaRequest is the POST and PUT payload.
type AreaRequest struct {
	Name     string `json:"name" openapi:"required"`
	Building string `json:"building" openapi:"required"`
}

// Validate checks required fields.
func (r AreaRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Building, validation.Required),
	)
}

// AreaPatchRequest is the PATCH payload; absent fields are left unchanged.
type AreaPatchRequest struct {
	Name     *string `json:"name"`
	Building *string `json:"building"`
}

// AreaResponse is the wire form of an area.
type AreaResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Building string `json:"building"`
}

// NewAreaResponse maps the domain record.
func NewAreaResponse(a *domain.Area) AreaResponse {
	return AreaResponse{ID: a.ID, Name: a.Name, Building: a.Building}
}
