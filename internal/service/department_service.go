package service

import (
	"context"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/repository"
)

const departmentResource = "department"

// DepartmentService manages departments.
type DepartmentService struct {
	departments repository.DepartmentRepository
}

// NewDepartmentService constructs the service.
func NewDepartmentService(departments repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{departments: departments}
}

// Create persists a department whose fields were already validated.
func (s *DepartmentService) Create(ctx context.Context, name string) (*domain.Department, error) {
	dept := &domain.Department{Name: name}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, mapStoreError(departmentResource, err)
	}
	return dept, nil
}

// List returns every department ordered by name.
func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, mapStoreError(departmentResource, err)
	}
	return depts, nil
}

// Get fetches a department by id.
func (s *DepartmentService) Get(ctx context.Context, id string) (*domain.Department, error) {
	if !pathID(id) {
		return nil, notFound(departmentResource)
	}
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(departmentResource, err)
	}
	return dept, nil
}

// Delete removes a department together with its employees. It is not
// reachable over HTTP.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if !pathID(id) {
		return notFound(departmentResource)
	}
	return mapStoreError(departmentResource, s.departments.Delete(ctx, id))
}
