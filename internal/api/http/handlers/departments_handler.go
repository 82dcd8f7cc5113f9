package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/personnel-directory/internal/api/dto"
	"github.com/spec-kit/personnel-directory/internal/service"
)

// DepartmentsHandler serves the department resource. Reference checks run in
// the service only.
type DepartmentsHandler struct {
	service *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departmentService *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{service: departmentService}
}

func departmentInput(req dto.DepartmentRequest) service.DepartmentInput {
	return service.DepartmentInput{Name: req.Name, ManagerName: req.ManagerName, AreaName: req.AreaName}
}

// Create POST /departamentos.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dept, err := h.service.Create(c.UserContext(), departmentInput(req))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "department created", dto.NewDepartmentResponse(dept))
}

// List GET /departamentos.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	depts, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", mapSlice(depts, dto.NewDepartmentResponse))
}

// Get GET /departamentos/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	dept, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewDepartmentResponse(dept))
}

// Update PUT /departamentos/:id.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dept, err := h.service.Update(c.UserContext(), c.Params("id"), departmentInput(req))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "department updated", dto.NewDepartmentResponse(dept))
}

// Patch PATCH /departamentos/:id.
func (h *DepartmentsHandler) Patch(c *fiber.Ctx) error {
	var req dto.DepartmentPatchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dept, err := h.service.UpdatePartial(c.UserContext(), c.Params("id"), service.DepartmentPatch{
		Name:        req.Name,
		ManagerName: req.ManagerName,
		AreaName:    req.AreaName,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "department partially updated", dto.NewDepartmentResponse(dept))
}

// Delete DELETE /departamentos/:id.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	dept, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "department deleted", dto.NewDepartmentResponse(dept))
}
