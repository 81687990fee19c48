package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/api/openapi"
	"github.com/spec-kit/employee-service/internal/auth"
)

const schemaJSONURL = "/api/schema/?format=json"

// APIInfo heads the generated schema.
var APIInfo = openapi.Info{
	Title:       "Employee Management API",
	Version:     "1.0.0",
	Description: "Departments and employees, managed by staff accounts.",
}

// Route is one entry of the routing table.
type Route struct {
	Method string
	Path   string
	Policy auth.Policy
	// Authenticate resolves a bearer token before the policy runs.
	Authenticate bool
	Handler      fiber.Handler
	// Doc is nil for routes left out of the schema.
	Doc *openapi.Operation
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Departments    *handlers.DepartmentsHandler
	Employees      *handlers.EmployeesHandler
	Metrics        fiber.Handler
	AuthMiddleware *auth.AuthMiddleware
}

var (
	errsLogin    = []int{http.StatusBadRequest, http.StatusUnauthorized}
	errsOpenRead = []int{http.StatusUnauthorized}
	errsStaff    = []int{http.StatusUnauthorized, http.StatusForbidden}
	errsWrite    = []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden}
	errsItem     = []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound}
	errsItemBody = []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound}
)

// APIRoutes is the documented routing table.
func APIRoutes(cfg RouteConfig) []Route {
	employeeRead := &openapi.Operation{ID: "employees_retrieve", Tag: "employees", Summary: "Retrieve an employee", Response: dto.EmployeeResponse{}, Errors: errsItem}
	employeePatch := &openapi.Operation{ID: "employees_partial_update", Tag: "employees", Summary: "Update submitted employee fields", Request: dto.EmployeeRequest{}, Partial: true, Response: dto.EmployeeResponse{}, Errors: errsItemBody}
	employeePut := &openapi.Operation{ID: "employees_update", Tag: "employees", Summary: "Replace an employee", Request: dto.EmployeeRequest{}, Response: dto.EmployeeResponse{}, Errors: errsItemBody}
	employeeDelete := &openapi.Operation{ID: "employees_destroy", Tag: "employees", Summary: "Delete an employee", Status: http.StatusNoContent, Errors: errsItem}

	return []Route{
		{
			Method: http.MethodPost, Path: "/api/admin/login", Policy: auth.AllowAny, Handler: cfg.Auth.Login,
			Doc: &openapi.Operation{ID: "admin_login", Tag: "auth", Summary: "Obtain an access and refresh token (staff only)", Request: dto.LoginRequest{}, Response: dto.TokenPairResponse{}, Errors: errsLogin},
		},
		{
			Method: http.MethodPost, Path: "/api/token/refresh/", Policy: auth.AllowAny, Handler: cfg.Auth.Refresh,
			Doc: &openapi.Operation{ID: "token_refresh", Tag: "auth", Summary: "Exchange a refresh token for an access token", Request: dto.RefreshRequest{}, Response: dto.AccessTokenResponse{}, Errors: errsLogin},
		},
		{
			Method: http.MethodPost, Path: "/api/token/blacklist/", Policy: auth.AllowAny, Handler: cfg.Auth.Blacklist,
			Doc: &openapi.Operation{ID: "token_blacklist", Tag: "auth", Summary: "Revoke a refresh token", Request: dto.RefreshRequest{}, Response: struct{}{}, Errors: errsLogin},
		},
		{
			Method: http.MethodGet, Path: "/api/departments/", Policy: auth.StaffMutatesElseRead, Authenticate: true, Handler: cfg.Departments.List,
			Doc: &openapi.Operation{ID: "departments_list", Tag: "departments", Summary: "List departments", Response: []dto.DepartmentResponse{}, Errors: errsOpenRead},
		},
		{
			Method: http.MethodPost, Path: "/api/departments/", Policy: auth.StaffMutatesElseRead, Authenticate: true, Handler: cfg.Departments.Create,
			Doc: &openapi.Operation{ID: "departments_create", Tag: "departments", Summary: "Create a department", Request: dto.DepartmentRequest{}, Response: dto.DepartmentResponse{}, Status: http.StatusCreated, Errors: errsWrite},
		},
		{
			Method: http.MethodGet, Path: "/api/employees/", Policy: auth.AdminOnly, Authenticate: true, Handler: cfg.Employees.List,
			Doc: &openapi.Operation{ID: "employees_list", Tag: "employees", Summary: "List employees", Response: []dto.EmployeeResponse{}, Errors: errsStaff},
		},
		{
			Method: http.MethodPost, Path: "/api/employees/", Policy: auth.AdminOnly, Authenticate: true, Handler: cfg.Employees.Create,
			Doc: &openapi.Operation{ID: "employees_create", Tag: "employees", Summary: "Create an employee", Request: dto.EmployeeRequest{}, Response: dto.EmployeeResponse{}, Status: http.StatusCreated, Errors: errsWrite},
		},
		{Method: http.MethodGet, Path: "/api/employees/:id/", Policy: auth.AdminOnly, Authenticate: true, Handler: cfg.Employees.Get, Doc: employeeRead},
		{Method: http.MethodPatch, Path: "/api/employees/:id/", Policy: auth.AdminOnly, Authenticate: true, Handler: cfg.Employees.Patch, Doc: employeePatch},
		{Method: http.MethodPut, Path: "/api/employees/:id/", Policy: auth.AdminOnly, Authenticate: true, Handler: cfg.Employees.Put, Doc: employeePut},
		{Method: http.MethodDelete, Path: "/api/employees/:id/", Policy: auth.AdminOnly, Authenticate: true, Handler: cfg.Employees.Delete, Doc: employeeDelete},
		{Method: http.MethodPatch, Path: "/api/employees/:id/update/", Policy: auth.AdminOnly, Authenticate: true, Handler: cfg.Employees.Patch, Doc: alias(employeePatch, "employees_update_partial_update")},
		{Method: http.MethodPut, Path: "/api/employees/:id/update/", Policy: auth.AdminOnly, Authenticate: true, Handler: cfg.Employees.Put, Doc: alias(employeePut, "employees_update_update")},
		{Method: http.MethodDelete, Path: "/api/employees/:id/delete/", Policy: auth.AdminOnly, Authenticate: true, Handler: cfg.Employees.Delete, Doc: alias(employeeDelete, "employees_delete_destroy")},
	}
}

func alias(op *openapi.Operation, id string) *openapi.Operation {
	copied := *op
	copied.ID = id
	return &copied
}

// Endpoints derives schema entries from the routing table.
func Endpoints(routes []Route) []openapi.Endpoint {
	endpoints := make([]openapi.Endpoint, 0, len(routes))
	for _, r := range routes {
		if r.Doc == nil {
			continue
		}
		mode := openapi.AuthNone
		switch {
		case r.Authenticate && r.Policy.RequiresStaff(r.Method):
			mode = openapi.AuthRequired
		case r.Authenticate:
			mode = openapi.AuthOptional
		}
		endpoints = append(endpoints, openapi.Endpoint{Method: r.Method, Path: r.Path, Auth: mode, Operation: *r.Doc})
	}
	return endpoints
}

// RegisterRoutes wires the routing table plus schema, docs, health and
// metrics routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) error {
	routes := APIRoutes(cfg)
	docs, err := handlers.NewDocsHandler(openapi.Build(APIInfo, Endpoints(routes)), schemaJSONURL)
	if err != nil {
		return err
	}

	routes = append(routes,
		Route{Method: http.MethodGet, Path: "/api/schema/", Policy: auth.AllowAny, Handler: docs.Schema},
		Route{Method: http.MethodGet, Path: "/api/docs/", Policy: auth.AllowAny, Handler: docs.UI},
		Route{Method: http.MethodGet, Path: "/health/live", Policy: auth.AllowAny, Handler: cfg.Health.Live},
		Route{Method: http.MethodGet, Path: "/health/ready", Policy: auth.AllowAny, Handler: cfg.Health.Ready},
	)
	if cfg.Metrics != nil {
		routes = append(routes, Route{Method: http.MethodGet, Path: "/metrics", Policy: auth.AllowAny, Handler: cfg.Metrics})
	}

	for _, r := range routes {
		chain := make([]fiber.Handler, 0, 3)
		if r.Authenticate {
			chain = append(chain, cfg.AuthMiddleware.Handle)
		}
		if r.Policy != auth.AllowAny {
			chain = append(chain, r.Policy.Handler())
		}
		chain = append(chain, r.Handler)
		app.Add(r.Method, r.Path, chain...)
		if r.Method == http.MethodGet {
			app.Add(http.MethodHead, r.Path, chain...)
		}
	}
	return nil
}
