package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Set bundles the repositories the services depend on.
type Set struct {
	Departments DepartmentRepository
	Employees   EmployeeRepository
	Accounts    AccountRepository
}

// NewPostgresSet backs every repository with the given pool.
func NewPostgresSet(pool *pgxpool.Pool) Set {
	return Set{
		Departments: NewDepartmentRepository(pool),
		Employees:   NewEmployeeRepository(pool),
		Accounts:    NewAccountRepository(pool),
	}
}

// Set backs every repository with this store.
func (s *MemoryStore) Set() Set {
	return Set{
		Departments: s.Departments(),
		Employees:   s.Employees(),
		Accounts:    s.Accounts(),
	}
}
