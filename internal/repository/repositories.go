package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/personnel-directory/internal/domain"
)

// Repositories bundles the four entity repositories.
type Repositories struct {
	Areas       AreaRepository
	Managers    ManagerRepository
	Departments DepartmentRepository
	Employees   EmployeeRepository
}

// NewMemoryRepositories keeps everything in process memory.
func NewMemoryRepositories() Repositories {
	return Repositories{
		Areas:       NewAreaRepository(NewMemoryCollection[domain.Area]()),
		Managers:    NewManagerRepository(NewMemoryCollection[domain.Manager]()),
		Departments: NewDepartmentRepository(NewMemoryCollection[domain.Department]()),
		Employees:   NewEmployeeRepository(NewMemoryCollection[domain.Employee]()),
	}
}

// NewPostgresRepositories stores documents in the Postgres documents table.
func NewPostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Areas:       NewAreaRepository(NewPostgresCollection[domain.Area](pool, CollectionAreas)),
		Managers:    NewManagerRepository(NewPostgresCollection[domain.Manager](pool, CollectionManagers)),
		Departments: NewDepartmentRepository(NewPostgresCollection[domain.Department](pool, CollectionDepartments)),
		Employees:   NewEmployeeRepository(NewPostgresCollection[domain.Employee](pool, CollectionEmployees)),
	}
}

// NewMongoRepositories stores documents in MongoDB collections.
func NewMongoRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Areas:       NewAreaRepository(NewMongoCollection[domain.Area](db, CollectionAreas)),
		Managers:    NewManagerRepository(NewMongoCollection[domain.Manager](db, CollectionManagers)),
		Departments: NewDepartmentRepository(NewMongoCollection[domain.Department](db, CollectionDepartments)),
		Employees:   NewEmployeeRepository(NewMongoCollection[domain.Employee](db, CollectionEmployees)),
	}
}
