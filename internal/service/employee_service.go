package service

import (
	"context"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/repository"
)

const employeeResource = "employee"

// EmployeeService manages employee records.
type EmployeeService struct {
	employees repository.EmployeeRepository
}

// NewEmployeeService constructs the service.
func NewEmployeeService(employees repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employees: employees}
}

// Create persists a new employee. Field constraints are checked by the
// caller; the department reference and uniqueness are checked here
// atomically with the insert.
func (s *EmployeeService) Create(ctx context.Context, emp *domain.Employee) (*domain.Employee, error) {
	departmentID, ok := referenceID(emp.DepartmentID)
	if !ok {
		return nil, referenceNotFound("department", emp.DepartmentID)
	}
	emp.DepartmentID = departmentID
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, mapStoreError(employeeResource, err)
	}
	return emp, nil
}

// List returns every employee in creation order.
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	list, err := s.employees.List(ctx)
	if err != nil {
		return nil, mapStoreError(employeeResource, err)
	}
	return list, nil
}

// Get fetches one employee.
func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	if !pathID(id) {
		return nil, notFound(employeeResource)
	}
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(employeeResource, err)
	}
	return emp, nil
}

// Update applies the submitted changes and leaves every other field as stored.
func (s *EmployeeService) Update(ctx context.Context, id string, changes domain.EmployeeChanges) (*domain.Employee, error) {
	if !pathID(id) {
		return nil, notFound(employeeResource)
	}
	if changes.DepartmentID != nil {
		departmentID, ok := referenceID(*changes.DepartmentID)
		if !ok {
			return nil, referenceNotFound("department", *changes.DepartmentID)
		}
		changes.DepartmentID = &departmentID
	}
	emp, err := s.employees.Update(ctx, id, changes)
	if err != nil {
		return nil, mapStoreError(employeeResource, err)
	}
	return emp, nil
}

// Delete removes an employee; deleting twice yields not found.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if !pathID(id) {
		return notFound(employeeResource)
	}
	return mapStoreError(employeeResource, s.employees.Delete(ctx, id))
}
