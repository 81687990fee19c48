package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/service"
)

// EmployeesHandler serves employee collection and item routes.
type EmployeesHandler struct {
	employees *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees}
}

// List handles GET /api/employees/.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	list, err := h.employees.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeList(list))
}

// Create handles POST /api/employees/.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	req, err := dto.DecodeEmployee(c.Body(), false)
	if err != nil {
		return err
	}
	emp, err := h.employees.Create(c.UserContext(), req.Employee())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewEmployeeResponse(*emp))
}

// Get handles GET /api/employees/:id/.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	emp, err := h.employees.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeResponse(*emp))
}

// Patch handles PATCH /api/employees/:id/; omitted fields keep their values.
func (h *EmployeesHandler) Patch(c *fiber.Ctx) error {
	return h.update(c, true)
}

// Put handles PUT /api/employees/:id/; every required field must be sent.
func (h *EmployeesHandler) Put(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *EmployeesHandler) update(c *fiber.Ctx, partial bool) error {
	id := c.Params("id")
	// Unknown ids are reported before body validation.
	if _, err := h.employees.Get(c.UserContext(), id); err != nil {
		return err
	}
	req, err := dto.DecodeEmployee(c.Body(), partial)
	if err != nil {
		return err
	}
	emp, err := h.employees.Update(c.UserContext(), id, req.Changes())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeResponse(*emp))
}

// Delete handles DELETE /api/employees/:id/.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	if err := h.employees.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
