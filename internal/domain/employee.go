package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a person on the payroll of exactly one department.
type Employee struct {
	ID           string
	Name         string
	Email        string
	Mobile       string
	DepartmentID string
	Designation  string
	Salary       decimal.Decimal
	DateJoined   time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmployeeChanges carries the fields of a partial update. Nil means unchanged.
type EmployeeChanges struct {
	Name         *string
	Email        *string
	Mobile       *string
	DepartmentID *string
	Designation  *string
	Salary       *decimal.Decimal
	IsActive     *bool
}

// Apply copies every set field onto e.
func (c EmployeeChanges) Apply(e *Employee) {
	if c.Name != nil {
		e.Name = *c.Name
	}
	if c.Email != nil {
		e.Email = *c.Email
	}
	if c.Mobile != nil {
		e.Mobile = *c.Mobile
	}
	if c.DepartmentID != nil {
		e.DepartmentID = *c.DepartmentID
	}
	if c.Designation != nil {
		e.Designation = *c.Designation
	}
	if c.Salary != nil {
		e.Salary = *c.Salary
	}
	if c.IsActive != nil {
		e.IsActive = *c.IsActive
	}
}
