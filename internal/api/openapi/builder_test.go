package openapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

type widgetRequest struct {
	Name  *string          `json:"name" validate:"omitnil,max=40" openapi:"required"`
	Email *string          `json:"email" validate:"omitnil,email"`
	Price *decimal.Decimal `json:"price"`
}

type WidgetResponse struct {
	ID        string    `json:"id" openapi:"readOnly,format=uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at" openapi:"readOnly"`
}

func testEndpoints() []Endpoint {
	return []Endpoint{
		{
			Method: http.MethodGet,
			Path:   "/widgets/",
			Auth:   AuthOptional,
			Operation: Operation{
				ID:       "widgets_list",
				Tag:      "widgets",
				Response: []WidgetResponse{},
			},
		},
		{
			Method: http.MethodPost,
			Path:   "/widgets/",
			Auth:   AuthRequired,
			Operation: Operation{
				ID:       "widgets_create",
				Tag:      "widgets",
				Request:  widgetRequest{},
				Response: WidgetResponse{},
				Status:   http.StatusCreated,
				Errors:   []int{http.StatusBadRequest},
			},
		},
		{
			Method: http.MethodPatch,
			Path:   "/widgets/:id/",
			Auth:   AuthRequired,
			Operation: Operation{
				ID:       "widgets_partial_update",
				Request:  widgetRequest{},
				Partial:  true,
				Response: WidgetResponse{},
			},
		},
		{
			Method:    http.MethodDelete,
			Path:      "/widgets/:id/",
			Auth:      AuthRequired,
			Operation: Operation{ID: "widgets_destroy", Status: http.StatusNoContent, Errors: []int{http.StatusNotFound}},
		},
	}
}

func TestBuildPathsAndSecurity(t *testing.T) {
	doc := Build(Info{Title: "Widgets", Version: "1"}, testEndpoints())

	require.Contains(t, doc.Paths, "/widgets/")
	require.Contains(t, doc.Paths, "/widgets/{id}/")

	list := doc.Paths["/widgets/"]["get"]
	require.NotNil(t, list)
	assert.Len(t, list.Security, 2)
	assert.Equal(t, "array", list.Responses["200"].Content[jsonContent].Schema.Type)

	create := doc.Paths["/widgets/"]["post"]
	assert.Contains(t, create.Responses, "201")
	assert.Equal(t, "#/components/schemas/ErrorResponse", create.Responses["400"].Content[jsonContent].Schema.Ref)
	assert.True(t, create.RequestBody.Required)

	destroy := doc.Paths["/widgets/{id}/"]["delete"]
	require.Len(t, destroy.Parameters, 1)
	assert.Equal(t, "id", destroy.Parameters[0].Name)
	assert.Nil(t, destroy.Responses["204"].Content)
}

func TestBuildReflectsSchemas(t *testing.T) {
	doc := Build(Info{Title: "Widgets", Version: "1"}, testEndpoints())
	schemas := doc.Components.Schemas

	req := schemas["widgetRequest"]
	require.NotNil(t, req)
	assert.Equal(t, []string{"name"}, req.Required)
	require.NotNil(t, req.Properties["name"].MaxLength)
	assert.Equal(t, 40, *req.Properties["name"].MaxLength)
	assert.Equal(t, "email", req.Properties["email"].Format)
	assert.Equal(t, "decimal", req.Properties["price"].Format)

	patched := schemas["PatchedwidgetRequest"]
	require.NotNil(t, patched)
	assert.Empty(t, patched.Required)

	resp := schemas["WidgetResponse"]
	require.NotNil(t, resp)
	assert.Equal(t, []string{"created_at", "id", "name"}, resp.Required)
	assert.True(t, resp.Properties["id"].ReadOnly)
	assert.Equal(t, "uuid", resp.Properties["id"].Format)
	assert.Equal(t, "date-time", resp.Properties["created_at"].Format)
}

func TestDocumentRendering(t *testing.T) {
	doc := Build(Info{Title: "Widgets", Version: "1"}, testEndpoints())

	raw, err := doc.JSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, Version, decoded["openapi"])

	out, err := doc.YAML()
	require.NoError(t, err)
	back, err := yaml.YAMLToJSON(out)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(back))
}
