package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/observability"
	"github.com/spec-kit/employee-service/internal/persistence"
	"github.com/spec-kit/employee-service/internal/repository"
	"github.com/spec-kit/employee-service/internal/service"
)

type testServer struct {
	app    *fiber.App
	store  *repository.MemoryStore
	tokens *auth.TokenManager
	clerk  *domain.Account
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{
		App:  config.AppConfig{Name: "employee-service-test"},
		Auth: config.AuthConfig{BcryptCost: 4, RecheckStaff: true},
	}
	store := repository.NewMemoryStore()
	tokens := auth.NewTokenManager("secret", 5*time.Minute, time.Hour)
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		AccountRepo: store.Accounts(),
		Tokens:      tokens,
		Revocations: auth.NewMemoryRevocationList(nil),
	}, service.RequireStaff)

	metrics := observability.NewMetrics()
	app := NewApp(cfg, zap.NewNop(), metrics)
	require.NoError(t, RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, "test", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Departments:    handlers.NewDepartmentsHandler(service.NewDepartmentService(store.Departments())),
		Employees:      handlers.NewEmployeesHandler(service.NewEmployeeService(store.Employees())),
		Metrics:        metrics.Handler(),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, store.Accounts(), cfg.Auth.RecheckStaff),
	}))

	accounts := service.NewAccountService(cfg, store.Accounts())
	_, err := accounts.Create(context.Background(), "admin", "admin-pw", true)
	require.NoError(t, err)
	clerk, err := accounts.Create(context.Background(), "clerk", "clerk-pw", false)
	require.NoError(t, err)

	return &testServer{app: app, store: store, tokens: tokens, clerk: clerk}
}

type response struct {
	status int
	body   []byte
	header http.Header
}

func (r response) object(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.body, &out), string(r.body))
	return out
}

func (r response) errorCode(t *testing.T) string {
	t.Helper()
	envelope, ok := r.object(t)["error"].(map[string]any)
	require.True(t, ok, string(r.body))
	return envelope["code"].(string)
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: raw, header: resp.Header}
}

func (s *testServer) login(t *testing.T) (string, string) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"username": "admin", "password": "admin-pw"})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	out := resp.object(t)
	return out["access"].(string), out["refresh"].(string)
}

func (s *testServer) clerkToken(t *testing.T) string {
	t.Helper()
	pair, err := s.tokens.IssuePair(s.clerk)
	require.NoError(t, err)
	return pair.Access.Value
}

func (s *testServer) createDepartment(t *testing.T, token, name string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/departments/", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	return resp.object(t)["id"].(string)
}

func employeePayload(deptID string) map[string]any {
	return map[string]any{
		"name":        "Ann",
		"email":       "ann@x.com",
		"mobile":      "1",
		"department":  deptID,
		"designation": "SWE",
		"salary":      "1000.00",
	}
}

func TestEmployeeLifecycleScenario(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t)

	deptID := s.createDepartment(t, access, "Engineering")
	assert.NotEmpty(t, deptID)

	created := s.do(t, http.MethodPost, "/api/employees/", access, employeePayload(deptID))
	require.Equal(t, http.StatusCreated, created.status, string(created.body))
	emp := created.object(t)
	id := emp["id"].(string)
	assert.Equal(t, "1000.00", emp["salary"])
	assert.Equal(t, deptID, emp["department"])
	assert.Len(t, emp["date_joined"], len("2006-01-02"))

	got := s.do(t, http.MethodGet, "/api/employees/"+id+"/", access, nil)
	require.Equal(t, http.StatusOK, got.status)
	assert.Equal(t, true, got.object(t)["is_active"])

	anon := s.do(t, http.MethodGet, "/api/employees/"+id+"/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, anon.status)
	assert.Equal(t, "UNAUTHORIZED", anon.errorCode(t))

	deleted := s.do(t, http.MethodDelete, "/api/employees/"+id+"/", access, nil)
	assert.Equal(t, http.StatusNoContent, deleted.status)

	gone := s.do(t, http.MethodGet, "/api/employees/"+id+"/", access, nil)
	assert.Equal(t, http.StatusNotFound, gone.status)
	assert.Equal(t, "NOT_FOUND", gone.errorCode(t))

	again := s.do(t, http.MethodDelete, "/api/employees/"+id+"/delete/", access, nil)
	assert.Equal(t, http.StatusNotFound, again.status)
}

func TestDepartmentPolicies(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t)
	s.createDepartment(t, access, "Engineering")

	dup := s.do(t, http.MethodPost, "/api/departments/", access, map[string]string{"name": "Engineering"})
	assert.Equal(t, http.StatusBadRequest, dup.status)
	assert.Equal(t, "UNIQUENESS_CONFLICT", dup.errorCode(t))

	anonWrite := s.do(t, http.MethodPost, "/api/departments/", "", map[string]string{"name": "Ops"})
	assert.Equal(t, http.StatusUnauthorized, anonWrite.status)

	clerkWrite := s.do(t, http.MethodPost, "/api/departments/", s.clerkToken(t), map[string]string{"name": "Ops"})
	assert.Equal(t, http.StatusForbidden, clerkWrite.status)
	assert.Equal(t, "FORBIDDEN", clerkWrite.errorCode(t))

	anonRead := s.do(t, http.MethodGet, "/api/departments/", "", nil)
	require.Equal(t, http.StatusOK, anonRead.status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(anonRead.body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Engineering", list[0]["name"])

	badToken := s.do(t, http.MethodGet, "/api/departments/", "junk", nil)
	assert.Equal(t, http.StatusUnauthorized, badToken.status)

	clerkEmployees := s.do(t, http.MethodGet, "/api/employees/", s.clerkToken(t), nil)
	assert.Equal(t, http.StatusForbidden, clerkEmployees.status)
}

func TestEmployeeValidation(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t)
	deptID := s.createDepartment(t, access, "Engineering")

	missingDept := s.do(t, http.MethodPost, "/api/employees/", access, employeePayload("5d0c8f3e-5c1b-4f3e-9a57-0c6c0a8c1d11"))
	assert.Equal(t, http.StatusBadRequest, missingDept.status)
	assert.Equal(t, "REFERENCE_NOT_FOUND", missingDept.errorCode(t))

	list := s.do(t, http.MethodGet, "/api/employees/", access, nil)
	assert.JSONEq(t, "[]", string(list.body))

	bad := employeePayload(deptID)
	bad["email"] = "not-an-email"
	bad["salary"] = "12345678901"
	delete(bad, "name")
	invalid := s.do(t, http.MethodPost, "/api/employees/", access, bad)
	assert.Equal(t, http.StatusBadRequest, invalid.status)
	assert.Equal(t, "FIELD_CONSTRAINT", invalid.errorCode(t))
	details := invalid.object(t)["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "salary")

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/employees/", access, employeePayload(deptID)).status)
	conflict := s.do(t, http.MethodPost, "/api/employees/", access, employeePayload(deptID))
	assert.Equal(t, "UNIQUENESS_CONFLICT", conflict.errorCode(t))

	malformed := s.do(t, http.MethodGet, "/api/employees/not-a-uuid/", access, nil)
	assert.Equal(t, http.StatusNotFound, malformed.status)
}

func TestEmployeePartialAndFullUpdate(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t)
	deptID := s.createDepartment(t, access, "Engineering")

	created := s.do(t, http.MethodPost, "/api/employees/", access, employeePayload(deptID)).object(t)
	id := created["id"].(string)

	patched := s.do(t, http.MethodPatch, "/api/employees/"+id+"/", access, map[string]any{"designation": "Lead"})
	require.Equal(t, http.StatusOK, patched.status, string(patched.body))
	after := patched.object(t)
	assert.Equal(t, "Lead", after["designation"])
	for _, field := range []string{"name", "email", "mobile", "department", "salary", "created_at", "date_joined", "is_active"} {
		assert.Equal(t, created[field], after[field], field)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, created["updated_at"].(string))
	require.NoError(t, err)
	updatedAt, err := time.Parse(time.RFC3339Nano, after["updated_at"].(string))
	require.NoError(t, err)
	assert.False(t, updatedAt.Before(createdAt))

	viaAlias := s.do(t, http.MethodPatch, "/api/employees/"+id+"/update/", access, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, viaAlias.status)
	assert.Equal(t, false, viaAlias.object(t)["is_active"])

	incomplete := s.do(t, http.MethodPut, "/api/employees/"+id+"/", access, map[string]any{"designation": "CTO"})
	assert.Equal(t, http.StatusBadRequest, incomplete.status)

	full := employeePayload(deptID)
	full["designation"] = "CTO"
	replaced := s.do(t, http.MethodPut, "/api/employees/"+id+"/update/", access, full)
	require.Equal(t, http.StatusOK, replaced.status, string(replaced.body))
	assert.Equal(t, "CTO", replaced.object(t)["designation"])

	missing := s.do(t, http.MethodPatch, "/api/employees/5d0c8f3e-5c1b-4f3e-9a57-0c6c0a8c1d11/", access, map[string]any{"designation": "x"})
	assert.Equal(t, http.StatusNotFound, missing.status)
}

func TestDepartmentDeleteCascadesThroughService(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t)
	deptID := s.createDepartment(t, access, "Engineering")
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/employees/", access, employeePayload(deptID)).status)

	require.NoError(t, service.NewDepartmentService(s.store.Departments()).Delete(context.Background(), deptID))

	list := s.do(t, http.MethodGet, "/api/employees/", access, nil)
	assert.JSONEq(t, "[]", string(list.body))
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)

	clerk := s.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"username": "clerk", "password": "clerk-pw"})
	assert.Equal(t, http.StatusUnauthorized, clerk.status)
	assert.Equal(t, "Only admin are allowed to log in.", clerk.object(t)["error"].(map[string]any)["message"])
	assert.NotContains(t, string(clerk.body), "access")

	wrong := s.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.status)

	missing := s.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, missing.status)

	_, refresh := s.login(t)
	refreshed := s.do(t, http.MethodPost, "/api/token/refresh/", "", map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusOK, refreshed.status)
	assert.NotEmpty(t, refreshed.object(t)["access"])

	revoked := s.do(t, http.MethodPost, "/api/token/blacklist/", "", map[string]string{"refresh": refresh})
	assert.Equal(t, http.StatusOK, revoked.status)

	reused := s.do(t, http.MethodPost, "/api/token/refresh/", "", map[string]string{"refresh": refresh})
	assert.Equal(t, http.StatusUnauthorized, reused.status)
}

func TestFrameworkErrorsUseEnvelope(t *testing.T) {
	s := newTestServer(t)

	unknown := s.do(t, http.MethodGet, "/api/nothing/", "", nil)
	assert.Equal(t, http.StatusNotFound, unknown.status)
	assert.Equal(t, "NOT_FOUND", unknown.errorCode(t))

	wrongMethod := s.do(t, http.MethodDelete, "/api/departments/", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, wrongMethod.status)
	assert.Equal(t, "METHOD_NOT_ALLOWED", wrongMethod.errorCode(t))
}

func TestSchemaAndDocs(t *testing.T) {
	s := newTestServer(t)

	yamlResp := s.do(t, http.MethodGet, "/api/schema/", "", nil)
	require.Equal(t, http.StatusOK, yamlResp.status)
	assert.Contains(t, string(yamlResp.body), "openapi:")
	assert.Contains(t, string(yamlResp.body), "/api/employees/{id}/")
	assert.True(t, strings.HasPrefix(yamlResp.header.Get("Content-Type"), "application/vnd.oai.openapi"))

	jsonResp := s.do(t, http.MethodGet, "/api/schema/?format=json", "", nil)
	require.Equal(t, http.StatusOK, jsonResp.status)
	doc := jsonResp.object(t)
	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/api/employees/{id}/")
	assert.Contains(t, paths, "/api/departments/")
	assert.NotContains(t, paths, "/health/live")

	page := s.do(t, http.MethodGet, "/api/docs/", "", nil)
	require.Equal(t, http.StatusOK, page.status)
	assert.Contains(t, string(page.body), "swagger-ui")

	live := s.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, live.status)
	ready := s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, ready.status)

	metrics := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, metrics.status)
	assert.Contains(t, string(metrics.body), "employee_service_http_requests_total")
}

func TestEmployeeIDSpellings(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t)
	deptID := s.createDepartment(t, access, "Engineering")

	resp := s.do(t, http.MethodPost, "/api/employees/", access, employeePayload("urn:uuid:"+strings.ToUpper(deptID)))
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	created := resp.object(t)
	assert.Equal(t, deptID, created["department"])
	empID := created["id"].(string)

	for _, id := range []string{strings.ToUpper(empID), "urn:uuid:" + empID} {
		resp = s.do(t, http.MethodGet, "/api/employees/"+id+"/", access, nil)
		assert.Equal(t, http.StatusNotFound, resp.status, id)
		assert.Equal(t, "NOT_FOUND", resp.errorCode(t))

		resp = s.do(t, http.MethodDelete, "/api/employees/"+id+"/", access, nil)
		assert.Equal(t, http.StatusNotFound, resp.status, id)
	}

	resp = s.do(t, http.MethodGet, "/api/employees/"+empID+"/", access, nil)
	assert.Equal(t, http.StatusOK, resp.status)
}
