package openapi

import (
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	jsonContent  = "application/json"
	bearerScheme = "jwtAuth"
)

// AuthMode tells how an endpoint treats bearer tokens.
type AuthMode int

const (
	// AuthNone ignores tokens.
	AuthNone AuthMode = iota
	// AuthOptional accepts a token but works without one.
	AuthOptional
	// AuthRequired rejects callers without a staff token.
	AuthRequired
)

// Operation is the documentation attached to a route.
type Operation struct {
	ID      string
	Summary string
	Tag     string
	// Request is a zero value of the request body type, nil when there is none.
	Request any
	// Partial marks a body whose fields are all optional.
	Partial bool
	// Response is a zero value of the success body, nil for an empty response.
	Response any
	Status   int
	Errors   []int
}

// Endpoint is one documented route.
type Endpoint struct {
	Method    string
	Path      string
	Auth      AuthMode
	Operation Operation
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error code, message and per-field details.
type ErrorBody struct {
	Code    string              `json:"code" openapi:"required"`
	Message string              `json:"message" openapi:"required"`
	Details map[string][]string `json:"details,omitempty"`
}

// Build assembles a document from endpoints. Paths use fiber syntax
// (":id") and are converted to OpenAPI templates.
func Build(info Info, endpoints []Endpoint) *Document {
	b := &builder{schemas: map[string]*Schema{}}
	doc := &Document{
		OpenAPI: Version,
		Info:    info,
		Paths:   map[string]PathItem{},
		Components: Components{
			Schemas: b.schemas,
			SecuritySchemes: map[string]SecurityScheme{
				bearerScheme: {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
			},
		},
	}

	errorRef := b.schema(reflect.TypeOf(ErrorResponse{}), false)
	for _, ep := range endpoints {
		path, params := templatePath(ep.Path)
		item, ok := doc.Paths[path]
		if !ok {
			item = PathItem{}
			doc.Paths[path] = item
		}
		op := ep.Operation
		obj := &OperationObject{
			OperationID: op.ID,
			Summary:     op.Summary,
			Parameters:  params,
			Responses:   map[string]Response{},
		}
		if op.Tag != "" {
			obj.Tags = []string{op.Tag}
		}
		switch ep.Auth {
		case AuthRequired:
			obj.Security = []map[string][]string{{bearerScheme: {}}}
		case AuthOptional:
			obj.Security = []map[string][]string{{bearerScheme: {}}, {}}
		}
		if op.Request != nil {
			obj.RequestBody = &RequestBody{
				Required: !op.Partial,
				Content:  map[string]MediaType{jsonContent: {Schema: b.schema(reflect.TypeOf(op.Request), op.Partial)}},
			}
		}

		status := op.Status
		if status == 0 {
			status = http.StatusOK
		}
		success := Response{Description: http.StatusText(status)}
		if op.Response != nil {
			success.Content = map[string]MediaType{jsonContent: {Schema: b.schema(reflect.TypeOf(op.Response), false)}}
		}
		obj.Responses[strconv.Itoa(status)] = success
		for _, code := range op.Errors {
			obj.Responses[strconv.Itoa(code)] = Response{
				Description: http.StatusText(code),
				Content:     map[string]MediaType{jsonContent: {Schema: errorRef}},
			}
		}
		item[strings.ToLower(ep.Method)] = obj
	}
	return doc
}

type builder struct {
	schemas map[string]*Schema
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

func (b *builder) schema(t reflect.Type, partial bool) *Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return &Schema{Type: "string", Format: "date-time"}
	case decimalType:
		return &Schema{Type: "string", Format: "decimal"}
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: b.schema(t.Elem(), partial)}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: b.schema(t.Elem(), partial)}
	case reflect.Struct:
		if t.Name() == "" {
			return &Schema{Type: "object"}
		}
		return b.component(t, partial)
	}
	return &Schema{}
}

// component registers a named struct schema once and returns a reference.
func (b *builder) component(t reflect.Type, partial bool) *Schema {
	name := t.Name()
	if partial {
		name = "Patched" + name
	}
	ref := &Schema{Ref: "#/components/schemas/" + name}
	if _, done := b.schemas[name]; done {
		return ref
	}

	// Response structs always emit every non-omitempty field.
	responseShape := strings.HasSuffix(t.Name(), "Response")
	obj := &Schema{Type: "object", Properties: map[string]*Schema{}}
	b.schemas[name] = obj
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonName, omitEmpty := jsonField(field)
		if jsonName == "" {
			continue
		}
		prop := b.schema(field.Type, false)
		hints := parseHints(field.Tag.Get("openapi"))
		if prop.Ref == "" {
			applyValidateTag(prop, field.Tag.Get("validate"))
			if format := hints["format"]; format != "" {
				prop.Format = format
			}
			_, prop.ReadOnly = hints["readOnly"]
			_, prop.WriteOnly = hints["writeOnly"]
		}
		obj.Properties[jsonName] = prop

		_, required := hints["required"]
		if !partial && (required || (responseShape && !omitEmpty)) {
			obj.Required = append(obj.Required, jsonName)
		}
	}
	sort.Strings(obj.Required)
	return ref
}

func jsonField(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = lowerFirst(field.Name)
	}
	omit := false
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omit = true
		}
	}
	return name, omit
}

func applyValidateTag(s *Schema, tag string) {
	for _, rule := range strings.Split(tag, ",") {
		key, value, _ := strings.Cut(rule, "=")
		switch key {
		case "max":
			if s.Type != "string" {
				continue
			}
			if n, err := strconv.Atoi(value); err == nil {
				s.MaxLength = &n
			}
		case "email":
			s.Format = "email"
		case "uuid":
			s.Format = "uuid"
		}
	}
}

func parseHints(tag string) map[string]string {
	hints := map[string]string{}
	if tag == "" {
		return hints
	}
	for _, part := range strings.Split(tag, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(part), "=")
		hints[key] = value
	}
	return hints
}

// templatePath turns "/api/employees/:id/" into "/api/employees/{id}/".
func templatePath(path string) (string, []Parameter) {
	segments := strings.Split(path, "/")
	var params []Parameter
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(seg, ":"), "?")
		segments[i] = "{" + name + "}"
		params = append(params, Parameter{
			Name:     name,
			In:       "path",
			Required: true,
			Schema:   &Schema{Type: "string", Format: "uuid"},
		})
	}
	return strings.Join(segments, "/"), params
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
