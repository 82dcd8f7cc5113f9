package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/personnel-directory/internal/api/dto"
	"github.com/spec-kit/personnel-directory/internal/service"
)

// EmployeesHandler serves the employee resource.
type EmployeesHandler struct {
	service *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employeeService *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{service: employeeService}
}

func employeeInput(req dto.EmployeeRequest) service.EmployeeInput {
	in := service.EmployeeInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Gender:          req.Gender,
		DepartmentName1: req.DepartmentName1,
		DepartmentName2: req.DepartmentName2,
		DepartmentName3: req.DepartmentName3,
	}
	if req.Age != nil {
		in.Age = *req.Age
	}
	return in
}

// Create POST /empleados.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	var req dto.EmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	employee, err := h.service.Create(c.UserContext(), employeeInput(req))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "employee created", dto.NewEmployeeResponse(employee))
}

// List GET /empleados.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	employees, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", mapSlice(employees, dto.NewEmployeeResponse))
}

// Get GET /empleados/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	employee, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewEmployeeResponse(employee))
}

// Update PUT /empleados/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	var req dto.EmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	employee, err := h.service.Update(c.UserContext(), c.Params("id"), employeeInput(req))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "employee updated", dto.NewEmployeeResponse(employee))
}

// Patch PATCH /empleados/:id.
func (h *EmployeesHandler) Patch(c *fiber.Ctx) error {
	var req dto.EmployeePatchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	employee, err := h.service.UpdatePartial(c.UserContext(), c.Params("id"), service.EmployeePatch{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Age:             req.Age,
		Gender:          req.Gender,
		DepartmentName1: req.DepartmentName1,
		DepartmentName2: req.DepartmentName2,
		DepartmentName3: req.DepartmentName3,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "employee partially updated", dto.NewEmployeeResponse(employee))
}

// Delete DELETE /empleados/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	employee, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "employee deleted", dto.NewEmployeeResponse(employee))
}
