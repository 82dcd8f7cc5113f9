package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/personnel-directory/internal/api/dto"
	"github.com/spec-kit/personnel-directory/internal/service"
)

// AreasHandler serves the area resource.
type AreasHandler struct {
	service *service.AreaService
}

// NewAreasHandler constructs handler.
func NewAreasHandler(areaService *service.AreaService) *AreasHandler {
	return &AreasHandler{service: areaService}
}

// Create POST /areas.
func (h *AreasHandler) Create(c *fiber.Ctx) error {
	var req dto.AreaRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	area, err := h.service.Create(c.UserContext(), service.AreaInput{Name: req.Name, Building: req.Building})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "area created", dto.NewAreaResponse(area))
}

// List GET /areas.
func (h *AreasHandler) List(c *fiber.Ctx) error {
	areas, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", mapSlice(areas, dto.NewAreaResponse))
}

// Get GET /areas/:id.
func (h *AreasHandler) Get(c *fiber.Ctx) error {
	area, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewAreaResponse(area))
}

// Update PUT /areas/:id.
func (h *AreasHandler) Update(c *fiber.Ctx) error {
	var req dto.AreaRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	area, err := h.service.Update(c.UserContext(), c.Params("id"), service.AreaInput{Name: req.Name, Building: req.Building})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "area updated", dto.NewAreaResponse(area))
}

// Patch PATCH /areas/:id.
func (h *AreasHandler) Patch(c *fiber.Ctx) error {
	var req dto.AreaPatchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	area, err := h.service.UpdatePartial(c.UserContext(), c.Params("id"), service.AreaPatch{Name: req.Name, Building: req.Building})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "area partially updated", dto.NewAreaResponse(area))
}

// Delete DELETE /areas/:id.
func (h *AreasHandler) Delete(c *fiber.Ctx) error {
	area, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "area deleted", dto.NewAreaResponse(area))
}
