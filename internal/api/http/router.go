package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/personnel-directory/internal/api/docs"
	"github.com/spec-kit/personnel-directory/internal/api/dto"
	"github.com/spec-kit/personnel-directory/internal/api/http/handlers"
	"github.com/spec-kit/personnel-directory/internal/auth"
	"github.com/spec-kit/personnel-directory/internal/domain"
	"github.com/spec-kit/personnel-directory/internal/observability"
)

// DocsPath is where the Swagger UI and raw documents are served.
const DocsPath = "/api-docs"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	BasePath    string
	Health      *handlers.HealthHandler
	Areas       *handlers.AreasHandler
	Managers    *handlers.ManagersHandler
	Departments *handlers.DepartmentsHandler
	Employees   *handlers.EmployeesHandler
	Metrics     *observability.Metrics
	// AuthMiddleware protects mutating routes when set.
	AuthMiddleware *auth.AuthMiddleware
	Info           docs.Info
}

// Route is one API endpoint with its documentation.
type Route struct {
	docs.Operation
	Handler fiber.Handler
}

type resource struct {
	path     string
	tag      string
	singular string
	request  any
	patch    any
	response any
	list     fiber.Handler
	create   fiber.Handler
	get      fiber.Handler
	update   fiber.Handler
	partial  fiber.Handler
	remove   fiber.Handler
	// deleteConflict documents a referential guard on delete.
	deleteConflict bool
}

// Routes returns the directory's resource routes under cfg.BasePath.
func Routes(cfg RouteConfig) []Route {
	resources := []resource{
		{
			path: "/areas", tag: "Areas", singular: "area",
			request: dto.AreaRequest{}, patch: dto.AreaPatchRequest{}, response: dto.AreaResponse{},
			list: cfg.Areas.List, create: cfg.Areas.Create, get: cfg.Areas.Get,
			update: cfg.Areas.Update, partial: cfg.Areas.Patch, remove: cfg.Areas.Delete,
		},
		{
			path: "/encargados", tag: "Managers", singular: "manager",
			request: dto.ManagerRequest{}, patch: dto.ManagerPatchRequest{}, response: dto.ManagerResponse{},
			list: cfg.Managers.List, create: cfg.Managers.Create, get: cfg.Managers.Get,
			update: cfg.Managers.Update, partial: cfg.Managers.Patch, remove: cfg.Managers.Delete,
			deleteConflict: true,
		},
		{
			path: "/departamentos", tag: "Departments", singular: "department",
			request: dto.DepartmentRequest{}, patch: dto.DepartmentPatchRequest{}, response: dto.DepartmentResponse{},
			list: cfg.Departments.List, create: cfg.Departments.Create, get: cfg.Departments.Get,
			update: cfg.Departments.Update, partial: cfg.Departments.Patch, remove: cfg.Departments.Delete,
			deleteConflict: true,
		},
		{
			path: "/empleados", tag: "Employees", singular: "employee",
			request: dto.EmployeeRequest{}, patch: dto.EmployeePatchRequest{}, response: dto.EmployeeResponse{},
			list: cfg.Employees.List, create: cfg.Employees.Create, get: cfg.Employees.Get,
			update: cfg.Employees.Update, partial: cfg.Employees.Patch, remove: cfg.Employees.Delete,
			deleteConflict: true,
		},
	}

	secured := cfg.AuthMiddleware != nil
	var routes []Route
	for _, r := range resources {
		base := cfg.BasePath + r.path
		item := base + "/:id"
		deleteErrors := []int{fiber.StatusNotFound}
		if r.deleteConflict {
			deleteErrors = append(deleteErrors, fiber.StatusConflict)
		}
		routes = append(routes,
			Route{Operation: docs.Operation{Method: fiber.MethodGet, Path: base, Summary: "List " + r.singular + " records",
				Tag: r.tag, Response: r.response, List: true}, Handler: r.list},
			Route{Operation: docs.Operation{Method: fiber.MethodPost, Path: base, Summary: "Create a " + r.singular,
				Tag: r.tag, Request: r.request, Response: r.response, Success: fiber.StatusCreated,
				Errors: []int{fiber.StatusBadRequest, fiber.StatusConflict}, Secured: secured}, Handler: r.create},
			Route{Operation: docs.Operation{Method: fiber.MethodGet, Path: item, Summary: "Get a " + r.singular + " by id",
				Tag: r.tag, Response: r.response, Errors: []int{fiber.StatusNotFound}}, Handler: r.get},
			Route{Operation: docs.Operation{Method: fiber.MethodPut, Path: item, Summary: "Replace a " + r.singular,
				Tag: r.tag, Request: r.request, Response: r.response,
				Errors: []int{fiber.StatusBadRequest, fiber.StatusNotFound, fiber.StatusConflict}, Secured: secured}, Handler: r.update},
			Route{Operation: docs.Operation{Method: fiber.MethodPatch, Path: item, Summary: "Partially update a " + r.singular,
				Tag: r.tag, Request: r.patch, Response: r.response,
				Errors: []int{fiber.StatusBadRequest, fiber.StatusNotFound, fiber.StatusConflict}, Secured: secured}, Handler: r.partial},
			Route{Operation: docs.Operation{Method: fiber.MethodDelete, Path: item, Summary: "Delete a " + r.singular,
				Tag: r.tag, Response: r.response, Errors: deleteErrors, Secured: secured}, Handler: r.remove},
		)
	}
	return routes
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) error {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	routes := Routes(cfg)
	for _, route := range routes {
		chain := []fiber.Handler{route.Handler}
		if route.Secured {
			chain = append(auth.Protect(cfg.AuthMiddleware, domain.ScopeWrite), route.Handler)
		}
		app.Add(route.Method, route.Path, chain...)
	}

	ops := make([]docs.Operation, 0, len(routes))
	for _, route := range routes {
		ops = append(ops, route.Operation)
	}
	doc, err := docs.Build(cfg.Info, ops)
	if err != nil {
		return fmt.Errorf("build openapi document: %w", err)
	}
	docHandler, err := docs.NewHandler(doc, DocsPath)
	if err != nil {
		return err
	}
	docHandler.Register(app.Group(DocsPath))
	return nil
}
