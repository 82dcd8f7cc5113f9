package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/personnel-directory/internal/api/dto"
	"github.com/spec-kit/personnel-directory/internal/service"
)

// ManagersHandler serves the manager resource.
type ManagersHandler struct {
	service *service.ManagerService
}

// NewManagersHandler constructs handler.
func NewManagersHandler(managerService *service.ManagerService) *ManagersHandler {
	return &ManagersHandler{service: managerService}
}

func managerInput(req dto.ManagerRequest) service.ManagerInput {
	return service.ManagerInput{Name: req.Name, FieldOfStudy: req.FieldOfStudy, Shift: req.Shift}
}

// Create POST /encargados.
func (h *ManagersHandler) Create(c *fiber.Ctx) error {
	var req dto.ManagerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	manager, err := h.service.Create(c.UserContext(), managerInput(req))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "manager created", dto.NewManagerResponse(manager))
}

// List GET /encargados.
func (h *ManagersHandler) List(c *fiber.Ctx) error {
	managers, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", mapSlice(managers, dto.NewManagerResponse))
}

// Get GET /encargados/:id.
func (h *ManagersHandler) Get(c *fiber.Ctx) error {
	manager, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewManagerResponse(manager))
}

// Update PUT /encargados/:id.
func (h *ManagersHandler) Update(c *fiber.Ctx) error {
	var req dto.ManagerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	manager, err := h.service.Update(c.UserContext(), c.Params("id"), managerInput(req))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "manager updated", dto.NewManagerResponse(manager))
}

// Patch PATCH /encargados/:id.
func (h *ManagersHandler) Patch(c *fiber.Ctx) error {
	var req dto.ManagerPatchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	manager, err := h.service.UpdatePartial(c.UserContext(), c.Params("id"), service.ManagerPatch{
		Name:         req.Name,
		FieldOfStudy: req.FieldOfStudy,
		Shift:        req.Shift,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "manager partially updated", dto.NewManagerResponse(manager))
}

// Delete DELETE /encargados/:id.
func (h *ManagersHandler) Delete(c *fiber.Ctx) error {
	manager, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "manager deleted", dto.NewManagerResponse(manager))
}
