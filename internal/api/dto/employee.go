package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/employee-service/internal/domain"
)

const (
	salaryMaxDigits = 10
	salaryPlaces    = 2
	dateLayout      = "2006-01-02"
)

// EmployeeRequest carries submitted employee fields. Nil means not submitted.
type EmployeeRequest struct {
	Name        *string          `json:"name" validate:"omitnil,max=100" openapi:"required"`
	Email       *string          `json:"email" validate:"omitnil,max=254,email" openapi:"required"`
	Mobile      *string          `json:"mobile" validate:"omitnil,max=15" openapi:"required"`
	Department  *string          `json:"department" openapi:"required,format=uuid"`
	Designation *string          `json:"designation" validate:"omitnil,max=100" openapi:"required"`
	Salary      *decimal.Decimal `json:"salary" openapi:"required,format=decimal"`
	IsActive    *bool            `json:"is_active"`
}

// DecodeEmployee validates a payload. With partial set only submitted keys
// are checked; otherwise every field without a default must be present.
func DecodeEmployee(body []byte, partial bool) (EmployeeRequest, error) {
	fields, err := ParseFields(body)
	if err != nil {
		return EmployeeRequest{}, err
	}
	r := newReader(fields, !partial)
	req := EmployeeRequest{
		Name:        r.text("name", true),
		Email:       r.text("email", true),
		Mobile:      r.text("mobile", true),
		Department:  r.reference("department"),
		Designation: r.text("designation", true),
		Salary:      r.decimal("salary", salaryMaxDigits, salaryPlaces),
	}
	// is_active has a default, so it is never required.
	r.required = false
	req.IsActive = r.boolean("is_active")
	if err := r.check(req); err != nil {
		return EmployeeRequest{}, err
	}
	return req, nil
}

// Employee builds a new record; is_active defaults to true.
func (r EmployeeRequest) Employee() *domain.Employee {
	emp := &domain.Employee{IsActive: true}
	r.Changes().Apply(emp)
	return emp
}

// Changes lists only the submitted fields.
func (r EmployeeRequest) Changes() domain.EmployeeChanges {
	return domain.EmployeeChanges{
		Name:         r.Name,
		Email:        r.Email,
		Mobile:       r.Mobile,
		DepartmentID: r.Department,
		Designation:  r.Designation,
		Salary:       r.Salary,
		IsActive:     r.IsActive,
	}
}

// EmployeeResponse is the wire shape of an employee.
type EmployeeResponse struct {
	ID          string    `json:"id" openapi:"readOnly,format=uuid"`
	Name        string    `json:"name" validate:"max=100"`
	Email       string    `json:"email" validate:"max=254,email"`
	Mobile      string    `json:"mobile" validate:"max=15"`
	Department  string    `json:"department" openapi:"format=uuid"`
	Designation string    `json:"designation" validate:"max=100"`
	Salary      string    `json:"salary" openapi:"format=decimal"`
	DateJoined  string    `json:"date_joined" openapi:"readOnly,format=date"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at" openapi:"readOnly"`
	UpdatedAt   time.Time `json:"updated_at" openapi:"readOnly"`
}

// NewEmployeeResponse shapes an employee for output.
func NewEmployeeResponse(emp domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          emp.ID,
		Name:        emp.Name,
		Email:       emp.Email,
		Mobile:      emp.Mobile,
		Department:  emp.DepartmentID,
		Designation: emp.Designation,
		Salary:      emp.Salary.StringFixed(salaryPlaces),
		DateJoined:  emp.DateJoined.Format(dateLayout),
		IsActive:    emp.IsActive,
		CreatedAt:   emp.CreatedAt,
		UpdatedAt:   emp.UpdatedAt,
	}
}

// NewEmployeeList shapes a list, never returning null.
func NewEmployeeList(emps []domain.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(emps))
	for _, emp := range emps {
		out = append(out, NewEmployeeResponse(emp))
	}
	return out
}
