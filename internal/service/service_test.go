package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/spec-kit/personnel-directory/internal/domain"
	"github.com/spec-kit/personnel-directory/internal/events"
	"github.com/spec-kit/personnel-directory/internal/lock"
	"github.com/spec-kit/personnel-directory/internal/observability"
	"github.com/spec-kit/personnel-directory/internal/repository"
	apperrors "github.com/spec-kit/personnel-directory/pkg/util/errorutil"
)

type DirectorySuite struct {
	suite.Suite

	ctx         context.Context
	deps        Dependencies
	metrics     *observability.Metrics
	areas       *AreaService
	managers    *ManagerService
	departments *DepartmentService
	employees   *EmployeeService

	mu       sync.Mutex
	received []events.Event
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.ctx = context.Background()
	s.metrics = observability.NewMetrics()
	s.received = nil

	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.SubscribeAll(func(_ context.Context, e events.Event) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.received = append(s.received, e)
		return nil
	})

	s.deps = Dependencies{
		Repos:      repository.NewMemoryRepositories(),
		Locker:     lock.NewMemoryLocker(time.Second),
		Dispatcher: dispatcher,
		Metrics:    s.metrics,
		Logger:     zap.NewNop(),
	}
	s.areas = NewAreaService(s.deps)
	s.managers = NewManagerService(s.deps)
	s.departments = NewDepartmentService(s.deps)
	s.employees = NewEmployeeService(s.deps)
}

func (s *DirectorySuite) createArea(name string) *domain.Area {
	area, err := s.areas.Create(s.ctx, AreaInput{Name: name, Building: "B1"})
	s.Require().NoError(err)
	return area
}

func (s *DirectorySuite) createManager(name string) *domain.Manager {
	manager, err := s.managers.Create(s.ctx, ManagerInput{Name: name, FieldOfStudy: "Economics", Shift: "morning"})
	s.Require().NoError(err)
	return manager
}

func (s *DirectorySuite) createDepartment(name, area, manager string) *domain.Department {
	dept, err := s.departments.Create(s.ctx, DepartmentInput{Name: name, AreaName: area, ManagerName: manager})
	s.Require().NoError(err)
	return dept
}

func (s *DirectorySuite) createEmployee(depts ...string) *domain.Employee {
	in := EmployeeInput{FirstName: "Ana", LastName: "Ruiz", Age: 31, Gender: "F"}
	slots := []*string{&in.DepartmentName1, &in.DepartmentName2, &in.DepartmentName3}
	for i, name := range depts {
		*slots[i] = name
	}
	employee, err := s.employees.Create(s.ctx, in)
	s.Require().NoError(err)
	return employee
}

func (s *DirectorySuite) assertCode(err error, code string) {
	s.Require().Error(err)
	s.Assert().True(apperrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func (s *DirectorySuite) TestAreaCRUD() {
	area := s.createArea("North")
	s.NotEmpty(area.ID)

	got, err := s.areas.GetByID(s.ctx, area.ID)
	s.Require().NoError(err)
	s.Equal("North", got.Name)

	updated, err := s.areas.UpdatePartial(s.ctx, area.ID, AreaPatch{Building: strPtr("B9")})
	s.Require().NoError(err)
	s.Equal("North", updated.Name)
	s.Equal("B9", updated.Building)

	list, err := s.areas.List(s.ctx)
	s.Require().NoError(err)
	s.Len(list, 1)

	deleted, err := s.areas.Delete(s.ctx, area.ID)
	s.Require().NoError(err)
	s.Equal(area.ID, deleted.ID)

	_, err = s.areas.GetByID(s.ctx, area.ID)
	s.assertCode(err, apperrors.CodeNotFound)
	_, err = s.areas.Delete(s.ctx, area.ID)
	s.assertCode(err, apperrors.CodeNotFound)
}

func (s *DirectorySuite) TestAreaValidation() {
	_, err := s.areas.Create(s.ctx, AreaInput{Name: "North"})
	s.assertCode(err, apperrors.CodeValidation)

	area := s.createArea("North")
	_, err = s.areas.Update(s.ctx, area.ID, AreaInput{Name: "", Building: "B2"})
	s.assertCode(err, apperrors.CodeValidation)
}

func (s *DirectorySuite) TestAreaDeleteLeavesDepartmentReference() {
	area := s.createArea("North")
	dept := s.createDepartment("Sales", "North", "")

	_, err := s.areas.Delete(s.ctx, area.ID)
	s.Require().NoError(err)

	got, err := s.departments.GetByID(s.ctx, dept.ID)
	s.Require().NoError(err)
	s.Equal("North", got.AreaName)
}

func (s *DirectorySuite) TestDepartmentCreateRequiresArea() {
	_, err := s.departments.Create(s.ctx, DepartmentInput{Name: "Sales", AreaName: "Nowhere"})
	s.assertCode(err, apperrors.CodeValidation)
	s.Contains(err.Error(), "area not found")

	_, err = s.departments.Create(s.ctx, DepartmentInput{Name: "Sales"})
	s.assertCode(err, apperrors.CodeValidation)

	s.createArea("North")
	dept := s.createDepartment("Sales", "North", "")
	s.Empty(dept.ManagerName)
	s.Equal(2.0, s.rejections("department", "area_not_found"))
}

func (s *DirectorySuite) TestDepartmentCreateChecksManager() {
	s.createArea("North")
	_, err := s.departments.Create(s.ctx, DepartmentInput{Name: "Sales", AreaName: "North", ManagerName: "Luis"})
	s.assertCode(err, apperrors.CodeValidation)
	s.Contains(err.Error(), "manager not found")

	s.createManager("Luis")
	dept := s.createDepartment("Sales", "North", "Luis")
	s.Equal("Luis", dept.ManagerName)
}

func (s *DirectorySuite) TestDepartmentUpdateChecksReferencesBeforeLookup() {
	_, err := s.departments.UpdatePartial(s.ctx, "missing", DepartmentPatch{AreaName: strPtr("Nowhere")})
	s.assertCode(err, apperrors.CodeValidation)

	s.createArea("North")
	_, err = s.departments.UpdatePartial(s.ctx, "missing", DepartmentPatch{AreaName: strPtr("North")})
	s.assertCode(err, apperrors.CodeNotFound)
}

func (s *DirectorySuite) TestDepartmentPartialUpdateSkipsOmittedArea() {
	area := s.createArea("North")
	dept := s.createDepartment("Sales", "North", "")
	_, err := s.areas.Delete(s.ctx, area.ID)
	s.Require().NoError(err)

	updated, err := s.departments.UpdatePartial(s.ctx, dept.ID, DepartmentPatch{Name: strPtr("Sales EU")})
	s.Require().NoError(err)
	s.Equal("Sales EU", updated.Name)
	s.Equal("North", updated.AreaName)

	_, err = s.departments.UpdatePartial(s.ctx, dept.ID, DepartmentPatch{AreaName: strPtr("North")})
	s.assertCode(err, apperrors.CodeValidation)

	_, err = s.departments.Update(s.ctx, dept.ID, DepartmentInput{Name: "Sales", AreaName: "North"})
	s.assertCode(err, apperrors.CodeValidation)
}

func (s *DirectorySuite) TestDepartmentPartialUpdateEmptyAreaSkipsCheck() {
	s.createArea("North")
	dept := s.createDepartment("Sales", "North", "")

	updated, err := s.departments.UpdatePartial(s.ctx, dept.ID, DepartmentPatch{AreaName: strPtr("")})
	s.Require().NoError(err)
	s.Equal("", updated.AreaName)
	s.Equal(0.0, s.rejections("department", "area_not_found"))
}

func (s *DirectorySuite) TestDepartmentDeleteGuards() {
	s.createArea("North")
	s.createManager("Luis")
	staffed := s.createDepartment("Sales", "North", "")
	managed := s.createDepartment("Ops", "North", "Luis")
	empty := s.createDepartment("Legal", "North", "")
	s.createEmployee("Sales")

	_, err := s.departments.Delete(s.ctx, staffed.ID)
	s.assertCode(err, apperrors.CodeConflict)
	s.Contains(err.Error(), "department has assigned employees")

	_, err = s.departments.Delete(s.ctx, managed.ID)
	s.assertCode(err, apperrors.CodeConflict)
	s.Contains(err.Error(), "department has an assigned manager")

	deleted, err := s.departments.Delete(s.ctx, empty.ID)
	s.Require().NoError(err)
	s.Equal("Legal", deleted.Name)

	_, err = s.departments.Delete(s.ctx, "missing")
	s.assertCode(err, apperrors.CodeNotFound)
}

func (s *DirectorySuite) TestDepartmentDeleteAfterManagerUnassigned() {
	s.createArea("North")
	s.createManager("Luis")
	dept := s.createDepartment("Ops", "North", "Luis")

	_, err := s.departments.UpdatePartial(s.ctx, dept.ID, DepartmentPatch{ManagerName: strPtr("")})
	s.Require().NoError(err)

	_, err = s.departments.Delete(s.ctx, dept.ID)
	s.Require().NoError(err)
}

func (s *DirectorySuite) TestManagerDeleteGuard() {
	s.createArea("North")
	assigned := s.createManager("Luis")
	free := s.createManager("Marta")
	s.createDepartment("Ops", "North", "Luis")

	_, err := s.managers.Delete(s.ctx, assigned.ID)
	s.assertCode(err, apperrors.CodeConflict)
	s.Contains(err.Error(), "manager is assigned to a department")

	_, err = s.managers.Delete(s.ctx, free.ID)
	s.Require().NoError(err)
	_, err = s.managers.GetByID(s.ctx, free.ID)
	s.assertCode(err, apperrors.CodeNotFound)

	s.Equal(1.0, s.rejections("manager", "assigned_to_department"))
}

func (s *DirectorySuite) TestManagerUpdate() {
	manager := s.createManager("Luis")
	updated, err := s.managers.Update(s.ctx, manager.ID, ManagerInput{Name: "Luis", FieldOfStudy: "Law", Shift: "night"})
	s.Require().NoError(err)
	s.Equal("night", updated.Shift)

	_, err = s.managers.UpdatePartial(s.ctx, "missing", ManagerPatch{Shift: strPtr("day")})
	s.assertCode(err, apperrors.CodeNotFound)
}

func (s *DirectorySuite) TestEmployeeCreateChecksDepartments() {
	s.createArea("North")
	s.createDepartment("Sales", "North", "")

	_, err := s.employees.Create(s.ctx, EmployeeInput{
		FirstName: "Ana", LastName: "Ruiz", Age: 31, Gender: "F",
		DepartmentName1: "Sales", DepartmentName2: "Ghost",
	})
	s.assertCode(err, apperrors.CodeValidation)
	s.Contains(err.Error(), "one or more departments do not exist")

	employee := s.createEmployee("Sales")
	s.Equal("Sales", employee.DepartmentName1)

	unassigned := s.createEmployee()
	s.Empty(unassigned.DepartmentNames())
}

func (s *DirectorySuite) TestEmployeeDuplicateDepartmentNameCountsOnce() {
	s.createArea("North")
	s.createDepartment("Sales", "North", "")

	employee := s.createEmployee("Sales", "Sales")
	s.Equal("Sales", employee.DepartmentName2)
}

func (s *DirectorySuite) TestEmployeeCountCheckAcceptsDuplicateDepartmentRecords() {
	s.createArea("North")
	s.createDepartment("Sales", "North", "")
	s.createDepartment("Sales", "North", "")

	// Two "Sales" records satisfy two distinct names even though "Ghost" is missing.
	_, err := s.employees.Create(s.ctx, EmployeeInput{
		FirstName: "Ana", LastName: "Ruiz", Age: 31, Gender: "F",
		DepartmentName1: "Sales", DepartmentName2: "Ghost",
	})
	s.Require().NoError(err)
}

func (s *DirectorySuite) TestEmployeeValidation() {
	_, err := s.employees.Create(s.ctx, EmployeeInput{FirstName: "Ana", Age: 31, Gender: "F"})
	s.assertCode(err, apperrors.CodeValidation)

	_, err = s.employees.Create(s.ctx, EmployeeInput{FirstName: "Ana", LastName: "Ruiz", Age: -1, Gender: "F"})
	s.assertCode(err, apperrors.CodeValidation)
}

func (s *DirectorySuite) TestEmployeePartialUpdateChecksPresentDepartments() {
	s.createArea("North")
	s.createDepartment("Sales", "North", "")
	employee := s.createEmployee()

	_, err := s.employees.UpdatePartial(s.ctx, employee.ID, EmployeePatch{DepartmentName3: strPtr("Ghost")})
	s.assertCode(err, apperrors.CodeValidation)

	age := 40
	updated, err := s.employees.UpdatePartial(s.ctx, employee.ID, EmployeePatch{Age: &age, DepartmentName3: strPtr("Sales")})
	s.Require().NoError(err)
	s.Equal(40, updated.Age)
	s.Equal("Sales", updated.DepartmentName3)
	s.Equal("Ana", updated.FirstName)
}

func (s *DirectorySuite) TestEmployeeDeleteGuard() {
	s.createArea("North")
	dept := s.createDepartment("Sales", "North", "")
	employee := s.createEmployee("Sales")

	_, err := s.employees.Delete(s.ctx, employee.ID)
	s.assertCode(err, apperrors.CodeConflict)
	s.Contains(err.Error(), "employee still assigned to existing departments")

	// The department guard blocks while the employee lists it, so rename the
	// department away to orphan the reference.
	_, err = s.departments.UpdatePartial(s.ctx, dept.ID, DepartmentPatch{Name: strPtr("Sales EU")})
	s.Require().NoError(err)

	deleted, err := s.employees.Delete(s.ctx, employee.ID)
	s.Require().NoError(err)
	s.Equal(employee.ID, deleted.ID)

	_, err = s.employees.GetByID(s.ctx, employee.ID)
	s.assertCode(err, apperrors.CodeNotFound)
}

func (s *DirectorySuite) TestEventsPublished() {
	area := s.createArea("North")
	_, err := s.areas.Delete(s.ctx, area.ID)
	s.Require().NoError(err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Require().Len(s.received, 2)
	s.Equal(events.TypeOf(events.EntityArea, events.ActionCreated), s.received[0].Type)
	s.Equal(events.TypeOf(events.EntityArea, events.ActionDeleted), s.received[1].Type)
	s.Equal(area.ID, s.received[1].EntityID)
}

func (s *DirectorySuite) TestFailedWritesPublishNothing() {
	_, err := s.departments.Create(s.ctx, DepartmentInput{Name: "Sales", AreaName: "Nowhere"})
	s.Require().Error(err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Empty(s.received)
}

func (s *DirectorySuite) TestBusyLockIsConflict() {
	s.createArea("North")
	s.deps.Locker = lock.NewMemoryLocker(20 * time.Millisecond)
	departments := NewDepartmentService(s.deps)

	unlock, err := s.deps.Locker.Lock(s.ctx, lock.Key(lockArea, "North"))
	s.Require().NoError(err)
	defer unlock()

	_, err = departments.Create(s.ctx, DepartmentInput{Name: "Sales", AreaName: "North"})
	s.assertCode(err, apperrors.CodeConflict)
}

func (s *DirectorySuite) TestDepartmentDeleteHoldsLockAgainstManagerAssignment() {
	s.createArea("North")
	s.createManager("Luis")
	dept := s.createDepartment("Sales", "North", "")

	gate := &gatedEmployees{
		EmployeeRepository: s.deps.Repos.Employees,
		entered:            make(chan struct{}),
		release:            make(chan struct{}),
	}
	s.deps.Repos.Employees = gate
	departments := NewDepartmentService(s.deps)

	deleted := make(chan error, 1)
	go func() {
		_, err := departments.Delete(s.ctx, dept.ID)
		deleted <- err
	}()
	<-gate.entered

	assigned := make(chan error, 1)
	go func() {
		_, err := departments.UpdatePartial(s.ctx, dept.ID, DepartmentPatch{ManagerName: strPtr("Luis")})
		assigned <- err
	}()

	select {
	case err := <-assigned:
		s.FailNow("manager assignment finished while delete held the department", "err=%v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(gate.release)

	s.Require().NoError(<-deleted)
	s.assertCode(<-assigned, apperrors.CodeNotFound)

	list, err := departments.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *DirectorySuite) TestManagerAssignedFirstBlocksDepartmentDelete() {
	s.createArea("North")
	s.createManager("Luis")
	dept := s.createDepartment("Sales", "North", "")

	_, err := s.departments.UpdatePartial(s.ctx, dept.ID, DepartmentPatch{ManagerName: strPtr("Luis")})
	s.Require().NoError(err)

	_, err = s.departments.Delete(s.ctx, dept.ID)
	s.assertCode(err, apperrors.CodeConflict)
}

// gatedEmployees pauses the first FindByDepartmentName call until release is closed.
type gatedEmployees struct {
	repository.EmployeeRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedEmployees) FindByDepartmentName(ctx context.Context, name string) ([]domain.Employee, error) {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return g.EmployeeRepository.FindByDepartmentName(ctx, name)
}

func (s *DirectorySuite) TestRequestDeadlineWhileWaitingIsNotBusy() {
	s.createArea("North")
	unlock, err := s.deps.Locker.Lock(s.ctx, lock.Key(lockArea, "North"))
	s.Require().NoError(err)
	defer unlock()

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Millisecond)
	defer cancel()
	_, err = s.departments.Create(ctx, DepartmentInput{Name: "Sales", AreaName: "North"})
	s.assertCode(err, apperrors.CodeInternal)
}

func (s *DirectorySuite) rejections(entity, reason string) float64 {
	families, err := s.metrics.Registry().Gather()
	s.Require().NoError(err)
	for _, family := range families {
		if family.GetName() != "directory_reference_rejections_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["entity"] == entity && labels["reason"] == reason {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestNameKeysSkipsEmptyNames(t *testing.T) {
	assert.Equal(t, []string{"department:Sales", "department:Ops"}, nameKeys(lockDepartment, "Sales", "", "Ops"))
	assert.Empty(t, nameKeys(lockArea, ""))
}

func TestValidationFailedCarriesFieldDetails(t *testing.T) {
	err := validationFailed(domain.Area{Name: "North"}.Validate())
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Contains(t, domainErr.Details, "building")
}

func TestLockCurrentFollowsRename(t *testing.T) {
	b := newBase(Dependencies{Locker: lock.NewMemoryLocker(time.Second)})
	stored := &domain.Area{ID: "a1", Name: "South"}
	reads := 0
	load := func(context.Context) (*domain.Area, error) {
		reads++
		copied := *stored
		return &copied, nil
	}
	keysFor := func(a *domain.Area) []string { return nameKeys(lockArea, a.Name) }

	got, unlock, err := lockCurrent(context.Background(), b, &domain.Area{ID: "a1", Name: "North"}, load, keysFor)
	require.NoError(t, err)
	defer unlock()
	assert.Equal(t, "South", got.Name)
	assert.Equal(t, 2, reads)

	_, err = b.locker.Lock(ctx50ms(t), lock.Key(lockArea, "South"))
	assert.Error(t, err)
	released, err := b.locker.Lock(context.Background(), lock.Key(lockArea, "North"))
	require.NoError(t, err)
	released()
}

func ctx50ms(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	t.Cleanup(cancel)
	return ctx
}
