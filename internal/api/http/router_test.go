package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/spec-kit/personnel-directory/internal/api/docs"
	"github.com/spec-kit/personnel-directory/internal/api/http/handlers"
	"github.com/spec-kit/personnel-directory/internal/auth"
	"github.com/spec-kit/personnel-directory/internal/domain"
	"github.com/spec-kit/personnel-directory/internal/events"
	"github.com/spec-kit/personnel-directory/internal/lock"
	"github.com/spec-kit/personnel-directory/internal/observability"
	"github.com/spec-kit/personnel-directory/internal/repository"
	"github.com/spec-kit/personnel-directory/internal/service"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func newTestApp(t *testing.T, tokens *auth.TokenManager, deps map[string]handlers.Pinger) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	svcDeps := service.Dependencies{
		Repos:      repository.NewMemoryRepositories(),
		Locker:     lock.NewMemoryLocker(time.Second),
		Dispatcher: events.NewInMemoryDispatcher(),
		Metrics:    metrics,
		Logger:     logger,
	}

	cfg := RouteConfig{
		BasePath:    "/api/v1",
		Health:      handlers.NewHealthHandler("personnel-directory", "test", deps),
		Areas:       handlers.NewAreasHandler(service.NewAreaService(svcDeps)),
		Managers:    handlers.NewManagersHandler(service.NewManagerService(svcDeps)),
		Departments: handlers.NewDepartmentsHandler(service.NewDepartmentService(svcDeps)),
		Employees:   handlers.NewEmployeesHandler(service.NewEmployeeService(svcDeps)),
		Metrics:     metrics,
		Info:        docs.Info{Title: "Personnel Directory", Version: "test"},
	}
	if tokens != nil {
		cfg.AuthMiddleware = auth.NewAuthMiddleware(tokens)
	}

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	require.NoError(t, RegisterRoutes(app, cfg))
	return app
}

type RouterSuite struct {
	suite.Suite
	app *fiber.App
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.app = newTestApp(s.T(), nil, nil)
}

func (s *RouterSuite) do(method, path string, body any) (int, envelope) {
	return doRequest(s.T(), s.app, method, path, body, "")
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any, bearer string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func (s *RouterSuite) createID(path string, body any) string {
	status, env := s.do(fiber.MethodPost, path, body)
	s.Require().Equal(fiber.StatusCreated, status, "create %s: %+v", path, env.Error)
	var rec struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &rec))
	return rec.ID
}

func (s *RouterSuite) TestRoot() {
	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	s.Require().NoError(err)
	raw, _ := io.ReadAll(resp.Body)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Contains(string(raw), "personnel-directory")
}

func (s *RouterSuite) TestAreaLifecycle() {
	status, env := s.do(fiber.MethodPost, "/api/v1/areas", map[string]any{"name": "North", "building": "B1"})
	s.Require().Equal(fiber.StatusCreated, status)
	s.Equal(fiber.StatusCreated, env.Status)
	s.Equal("area created", env.Message)

	var area map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &area))
	id := area["id"].(string)

	status, env = s.do(fiber.MethodPatch, "/api/v1/areas/"+id, map[string]any{"building": "B2"})
	s.Require().Equal(fiber.StatusOK, status)
	s.Require().NoError(json.Unmarshal(env.Data, &area))
	s.Equal("North", area["name"])
	s.Equal("B2", area["building"])

	status, env = s.do(fiber.MethodGet, "/api/v1/areas", nil)
	s.Require().Equal(fiber.StatusOK, status)
	var list []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &list))
	s.Len(list, 1)

	status, _ = s.do(fiber.MethodDelete, "/api/v1/areas/"+id, nil)
	s.Equal(fiber.StatusOK, status)

	status, env = s.do(fiber.MethodGet, "/api/v1/areas/"+id, nil)
	s.Equal(fiber.StatusNotFound, status)
	s.Require().NotNil(env.Error)
	s.Equal("NOT_FOUND", env.Error.Code)
	s.Equal(fiber.StatusNotFound, env.Status)
}

func (s *RouterSuite) TestValidationErrors() {
	status, env := s.do(fiber.MethodPost, "/api/v1/areas", map[string]any{"name": "North"})
	s.Equal(fiber.StatusBadRequest, status)
	s.Require().NotNil(env.Error)
	s.Equal("VALIDATION_FAILED", env.Error.Code)
	s.Contains(env.Error.Details, "building")

	status, env = s.do(fiber.MethodPost, "/api/v1/areas", `{"name":`)
	s.Equal(fiber.StatusBadRequest, status)
	s.Equal("invalid payload", env.Error.Message)

	status, env = s.do(fiber.MethodPost, "/api/v1/empleados", map[string]any{"firstName": "Ana", "lastName": "Ruiz", "gender": "F"})
	s.Equal(fiber.StatusBadRequest, status)
	s.Contains(env.Error.Details, "age")
}

func (s *RouterSuite) TestDepartmentReferenceChecks() {
	status, env := s.do(fiber.MethodPost, "/api/v1/departamentos", map[string]any{"name": "Sales", "areaName": "Nowhere"})
	s.Equal(fiber.StatusBadRequest, status)
	s.Equal("area not found", env.Error.Message)

	s.createID("/api/v1/areas", map[string]any{"name": "North", "building": "B1"})
	deptID := s.createID("/api/v1/departamentos", map[string]any{"name": "Sales", "areaName": "North"})

	status, env = s.do(fiber.MethodPatch, "/api/v1/departamentos/missing", map[string]any{"areaName": "North"})
	s.Equal(fiber.StatusNotFound, status)
	s.Equal("department not found", env.Error.Message)

	s.createID("/api/v1/empleados", map[string]any{
		"firstName": "Ana", "lastName": "Ruiz", "age": 31, "gender": "F", "departmentName1": "Sales",
	})
	status, env = s.do(fiber.MethodDelete, "/api/v1/departamentos/"+deptID, nil)
	s.Equal(fiber.StatusConflict, status)
	s.Equal("CONFLICT", env.Error.Code)
	s.Equal("department has assigned employees", env.Error.Message)
}

func (s *RouterSuite) TestManagerDeleteConflict() {
	s.createID("/api/v1/areas", map[string]any{"name": "North", "building": "B1"})
	managerID := s.createID("/api/v1/encargados", map[string]any{"name": "Luis", "fieldOfStudy": "Law", "shift": "night"})
	s.createID("/api/v1/departamentos", map[string]any{"name": "Ops", "areaName": "North", "managerName": "Luis"})

	status, env := s.do(fiber.MethodDelete, "/api/v1/encargados/"+managerID, nil)
	s.Equal(fiber.StatusConflict, status)
	s.Equal("manager is assigned to a department", env.Error.Message)
}

func (s *RouterSuite) TestEmployeeUnknownDepartment() {
	status, env := s.do(fiber.MethodPost, "/api/v1/empleados", map[string]any{
		"firstName": "Ana", "lastName": "Ruiz", "age": 31, "gender": "F", "departmentName1": "Ghost",
	})
	s.Equal(fiber.StatusBadRequest, status)
	s.Equal("one or more departments do not exist", env.Error.Message)
}

func (s *RouterSuite) TestUnknownRoute() {
	status, env := s.do(fiber.MethodGet, "/api/v1/nothing", nil)
	s.Equal(fiber.StatusNotFound, status)
	s.Require().NotNil(env.Error)
	s.Equal("NOT_FOUND", env.Error.Code)
}

func (s *RouterSuite) TestHealthAndMetrics() {
	status, _ := s.do(fiber.MethodGet, "/health/live", nil)
	s.Equal(fiber.StatusOK, status)
	status, _ = s.do(fiber.MethodGet, "/health/ready", nil)
	s.Equal(fiber.StatusOK, status)

	s.do(fiber.MethodGet, "/api/v1/areas", nil)
	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	s.Require().NoError(err)
	raw, _ := io.ReadAll(resp.Body)
	s.Contains(string(raw), "directory_http_requests_total")
}

func (s *RouterSuite) TestDocsListEveryRoute() {
	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, DocsPath+"/openapi.json", nil))
	s.Require().NoError(err)
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	doc, err := openapi3.NewLoader().LoadFromData(raw)
	s.Require().NoError(err)

	for _, path := range []string{"/api/v1/areas", "/api/v1/encargados/{id}", "/api/v1/departamentos", "/api/v1/empleados/{id}"} {
		s.NotNil(doc.Paths.Value(path), path)
	}
	s.NotNil(doc.Paths.Value("/api/v1/departamentos/{id}").Delete.Responses.Value("409"))
	s.Require().Contains(doc.Components.Schemas, "EmployeeRequest")
	s.Contains(doc.Components.Schemas["EmployeeRequest"].Value.Required, "age")
}

func TestReadyReportsFailingDependency(t *testing.T) {
	app := newTestApp(t, nil, map[string]handlers.Pinger{"redis": failingPinger{}})
	status, env := doRequest(t, app, fiber.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "connection refused", env.Error.Details["redis"])
}

func TestMutatingRoutesRequireToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	app := newTestApp(t, tokens, nil)
	body := map[string]any{"name": "North", "building": "B1"}

	status, env := doRequest(t, app, fiber.MethodPost, "/api/v1/areas", body, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	readOnly, _, err := tokens.GenerateToken("reader", domain.ScopeRead)
	require.NoError(t, err)
	status, _ = doRequest(t, app, fiber.MethodPost, "/api/v1/areas", body, readOnly)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	writer, _, err := tokens.GenerateToken("writer", domain.ScopeWrite)
	require.NoError(t, err)
	status, _ = doRequest(t, app, fiber.MethodPost, "/api/v1/areas", body, writer)
	assert.Equal(t, fiber.StatusCreated, status)

	status, _ = doRequest(t, app, fiber.MethodGet, "/api/v1/areas", nil, "")
	assert.Equal(t, fiber.StatusOK, status)
}
