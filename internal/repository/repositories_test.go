package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/personnel-directory/internal/domain"
)

func TestRepositories_AssignIDsAndLookups(t *testing.T) {
	exerciseRepositories(t, NewMemoryRepositories())
}

// exerciseRepositories runs the lookups every backend must support.
func exerciseRepositories(t *testing.T, repos Repositories) {
	t.Helper()
	ctx := context.Background()

	area := &domain.Area{Name: "North", Building: "B1"}
	require.NoError(t, repos.Areas.Create(ctx, area))
	assert.NotEmpty(t, area.ID)

	byName, err := repos.Areas.FindByName(ctx, "North")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, area.ID, byName[0].ID)

	manager := &domain.Manager{Name: "Ana", FieldOfStudy: "Law", Shift: "night"}
	require.NoError(t, repos.Managers.Create(ctx, manager))
	managers, err := repos.Managers.FindByName(ctx, "Ana")
	require.NoError(t, err)
	assert.Len(t, managers, 1)

	sales := &domain.Department{Name: "Sales", AreaName: "North", ManagerName: "Ana"}
	ops := &domain.Department{Name: "Ops", AreaName: "North"}
	require.NoError(t, repos.Departments.Create(ctx, sales))
	require.NoError(t, repos.Departments.Create(ctx, ops))

	depts, err := repos.Departments.FindByNames(ctx, "Sales", "Ops", "Legal")
	require.NoError(t, err)
	assert.Len(t, depts, 2)

	managed, err := repos.Departments.FindByManagerName(ctx, "Ana")
	require.NoError(t, err)
	require.Len(t, managed, 1)
	assert.Equal(t, "Sales", managed[0].Name)

	emp := &domain.Employee{FirstName: "Luis", LastName: "Paz", Age: 41, Gender: "M", DepartmentName3: "Ops"}
	require.NoError(t, repos.Employees.Create(ctx, emp))
	staffed, err := repos.Employees.FindByDepartmentName(ctx, "Ops")
	require.NoError(t, err)
	require.Len(t, staffed, 1)
	assert.Equal(t, emp.ID, staffed[0].ID)

	none, err := repos.Employees.FindByDepartmentName(ctx, "Sales")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepositories_UpdateMissing(t *testing.T) {
	exerciseMissing(t, NewMemoryRepositories())
}

func exerciseMissing(t *testing.T, repos Repositories) {
	t.Helper()
	ctx := context.Background()
	err := repos.Departments.Update(ctx, &domain.Department{ID: "nope", Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repos.Areas.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repos.Employees.Delete(ctx, "nope"), ErrNotFound)
}
