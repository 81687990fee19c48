package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

// Messages returned in validation error details.
const (
	MsgRequired      = "This field is required."
	MsgNull          = "This field may not be null."
	MsgBlank         = "This field may not be blank."
	MsgNotString     = "Not a valid string."
	MsgNotBoolean    = "Must be a valid boolean."
	MsgNotNumber     = "A valid number is required."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgMaxLength     = "Ensure this field has no more than %s characters."
	MsgMaxDigits     = "Ensure that there are no more than %d digits in total."
	MsgMaxPlaces     = "Ensure that there are no more than %d decimal places."
	MsgMaxWholeDigit = "Ensure that there are no more than %d digits before the decimal point."
	MsgPKType        = "Incorrect type. Expected pk value, received %s."
	nonFieldErrors   = "non_field_errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Fields is a JSON object body split into its raw members.
type Fields map[string]json.RawMessage

// ParseFields decodes a request body that must be a JSON object.
func ParseFields(body []byte) (Fields, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Fields{}, nil
	}
	var fields Fields
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, nonFieldError(fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", jsonKind(trimmed)))
		}
		return nil, nonFieldError("JSON parse error - " + err.Error())
	}
	if fields == nil {
		return nil, nonFieldError("Invalid data. Expected a dictionary, but got null.")
	}
	return fields, nil
}

func nonFieldError(message string) error {
	errs := apperrors.FieldErrors{}
	errs.Add(nonFieldErrors, message)
	return errs.Err()
}

// reader pulls typed values out of Fields, collecting one message per bad field.
type reader struct {
	fields   Fields
	errs     apperrors.FieldErrors
	required bool
}

func newReader(fields Fields, required bool) *reader {
	return &reader{fields: fields, errs: apperrors.FieldErrors{}, required: required}
}

// present returns the raw value when the field was submitted and is not null.
func (r *reader) present(name string) (json.RawMessage, bool) {
	raw, ok := r.fields[name]
	if !ok {
		if r.required {
			r.errs.Add(name, MsgRequired)
		}
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		r.errs.Add(name, MsgNull)
		return nil, false
	}
	return raw, true
}

func (r *reader) text(name string, trim bool) *string {
	raw, ok := r.present(name)
	if !ok {
		return nil
	}
	var s string
	switch jsonKind(raw) {
	case "str":
		if err := json.Unmarshal(raw, &s); err != nil {
			r.errs.Add(name, MsgNotString)
			return nil
		}
	case "int", "float":
		s = string(raw)
	default:
		r.errs.Add(name, MsgNotString)
		return nil
	}
	if trim {
		s = strings.TrimSpace(s)
	}
	if s == "" {
		r.errs.Add(name, MsgBlank)
		return nil
	}
	return &s
}

func (r *reader) boolean(name string) *bool {
	raw, ok := r.present(name)
	if !ok {
		return nil
	}
	var value bool
	switch strings.Trim(string(raw), `"`) {
	case "true", "True", "TRUE", "1", "yes", "on":
		value = true
	case "false", "False", "FALSE", "0", "no", "off":
		value = false
	default:
		r.errs.Add(name, MsgNotBoolean)
		return nil
	}
	return &value
}

// decimal reads a string or number and enforces total digits and decimal places.
func (r *reader) decimal(name string, maxDigits, places int) *decimal.Decimal {
	raw, ok := r.present(name)
	if !ok {
		return nil
	}
	var text string
	switch jsonKind(raw) {
	case "str":
		if err := json.Unmarshal(raw, &text); err != nil {
			r.errs.Add(name, MsgNotNumber)
			return nil
		}
		text = strings.TrimSpace(text)
	case "int", "float":
		text = string(raw)
	default:
		r.errs.Add(name, MsgNotNumber)
		return nil
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		r.errs.Add(name, MsgNotNumber)
		return nil
	}
	if msg := checkPrecision(value, maxDigits, places); msg != "" {
		r.errs.Add(name, msg)
		return nil
	}
	rounded := value.Round(int32(places))
	return &rounded
}

// reference reads a primary key value, which must be a string or integer.
func (r *reader) reference(name string) *string {
	raw, ok := r.present(name)
	if !ok {
		return nil
	}
	switch kind := jsonKind(raw); kind {
	case "str":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			r.errs.Add(name, fmt.Sprintf(MsgPKType, kind))
			return nil
		}
		return &s
	case "int":
		s := string(raw)
		return &s
	default:
		r.errs.Add(name, fmt.Sprintf(MsgPKType, kind))
		return nil
	}
}

// check runs struct tag validation and merges messages for fields that
// decoded cleanly, then returns every collected error.
func (r *reader) check(input any) error {
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperrors.NewInternalError(err)
		}
		for _, fe := range verrs {
			if _, seen := r.errs[fe.Field()]; seen {
				continue
			}
			r.errs.Add(fe.Field(), tagMessage(fe))
		}
	}
	return r.errs.Err()
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf(MsgMaxLength, fe.Param())
	case "email":
		return MsgInvalidEmail
	case "uuid":
		return "Must be a valid UUID."
	default:
		return "Invalid value."
	}
}

// checkPrecision returns a message when value does not fit maxDigits total
// digits with at most places after the point, counting digits as written.
func checkPrecision(value decimal.Decimal, maxDigits, places int) string {
	coefficient := value.Coefficient()
	digits := len(coefficient.Abs(coefficient).String())
	exponent := int(value.Exponent())

	var total, whole, decimals int
	switch {
	case exponent >= 0:
		total = digits + exponent
		whole = total
	case digits > -exponent:
		total = digits
		decimals = -exponent
		whole = total - decimals
	default:
		total = -exponent
		decimals = total
	}

	switch {
	case total > maxDigits:
		return fmt.Sprintf(MsgMaxDigits, maxDigits)
	case decimals > places:
		return fmt.Sprintf(MsgMaxPlaces, places)
	case whole > maxDigits-places:
		return fmt.Sprintf(MsgMaxWholeDigit, maxDigits-places)
	}
	return ""
}

func jsonKind(raw []byte) string {
	if len(raw) == 0 {
		return "empty"
	}
	switch c := raw[0]; {
	case c == '"':
		return "str"
	case c == '{':
		return "dict"
	case c == '[':
		return "list"
	case c == 't' || c == 'f':
		return "bool"
	case c == 'n':
		return "null"
	case c == '-' || (c >= '0' && c <= '9'):
		if bytes.ContainsAny(raw, ".eE") {
			return "float"
		}
		return "int"
	}
	return "unknown"
}
