package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/service"
)

// DepartmentsHandler serves the department collection.
type DepartmentsHandler struct {
	departments *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departments *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{departments: departments}
}

// List handles GET /api/departments/.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	depts, err := h.departments.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDepartmentList(depts))
}

// Create handles POST /api/departments/.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	req, err := dto.DecodeDepartment(c.Body())
	if err != nil {
		return err
	}
	dept, err := h.departments.Create(c.UserContext(), *req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewDepartmentResponse(*dept))
}
