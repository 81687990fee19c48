package dto

import "github.com/spec-kit/employee-service/internal/domain"

// DepartmentRequest is the writable part of a department.
type DepartmentRequest struct {
	Name *string `json:"name" validate:"omitnil,max=100" openapi:"required"`
}

// DecodeDepartment validates a create payload.
func DecodeDepartment(body []byte) (DepartmentRequest, error) {
	fields, err := ParseFields(body)
	if err != nil {
		return DepartmentRequest{}, err
	}
	r := newReader(fields, true)
	req := DepartmentRequest{Name: r.text("name", true)}
	if err := r.check(req); err != nil {
		return DepartmentRequest{}, err
	}
	return req, nil
}

// DepartmentResponse is the wire shape of a department.
type DepartmentResponse struct {
	ID   string `json:"id" openapi:"readOnly,format=uuid"`
	Name string `json:"name" validate:"max=100"`
}

// NewDepartmentResponse shapes a department for output.
func NewDepartmentResponse(dept domain.Department) DepartmentResponse {
	return DepartmentResponse{ID: dept.ID, Name: dept.Name}
}

// NewDepartmentList shapes a list, never returning null.
func NewDepartmentList(depts []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(depts))
	for _, dept := range depts {
		out = append(out, NewDepartmentResponse(dept))
	}
	return out
}
