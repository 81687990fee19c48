package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEmployeeChangesApply(t *testing.T) {
	emp := Employee{
		Name:        "Ann",
		Email:       "ann@x.com",
		Mobile:      "1",
		Designation: "SWE",
		Salary:      decimal.RequireFromString("1000.00"),
		IsActive:    true,
	}

	name := "Anna"
	inactive := false
	salary := decimal.RequireFromString("1500.50")
	EmployeeChanges{Name: &name, IsActive: &inactive, Salary: &salary}.Apply(&emp)

	assert.Equal(t, "Anna", emp.Name)
	assert.False(t, emp.IsActive)
	assert.True(t, emp.Salary.Equal(salary))
	assert.Equal(t, "ann@x.com", emp.Email)
	assert.Equal(t, "1", emp.Mobile)
	assert.Equal(t, "SWE", emp.Designation)
}
