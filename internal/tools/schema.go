package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// FieldType is the primitive type a schema field accepts.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
)

// Field declares one parameter: its type, whether the caller must send it,
// and the constraints a present value has to satisfy.
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Description string
	Enum        []string // string fields only
	Min         *float64 // integer and number fields, inclusive
	Max         *float64
	MinItems    int    // array fields
	Elem        *Field // array fields: the element type
}

// Schema is the ordered field list for one operation. Order affects the
// rendered catalog schema, not validation.
type Schema []Field

// FieldError is a structural validation failure for a single field.
type FieldError struct {
	Field      string
	Constraint string // required, type, enum, range, size
	Message    string
}

func (e *FieldError) Error() string { return e.Message }

// Validate checks args against the schema and returns a cleaned copy
// holding only declared fields, each coerced to its Go type (string, int,
// float64, bool, []string, []int). Unknown fields are dropped; the schema
// is a whitelist. Absent optional fields stay absent in the returned map,
// and a JSON null counts as absent.
func (s Schema) Validate(args map[string]any) (map[string]any, *FieldError) {
	cleaned := make(map[string]any, len(s))
	for i := range s {
		f := &s[i]
		raw, present := args[f.Name]
		if !present || raw == nil {
			if f.Required {
				return nil, &FieldError{
					Field:      f.Name,
					Constraint: "required",
					Message:    fmt.Sprintf("missing required parameter: %s", f.Name),
				}
			}
			continue
		}
		value, ferr := f.coerce(raw)
		if ferr != nil {
			return nil, ferr
		}
		cleaned[f.Name] = value
	}
	return cleaned, nil
}

func (f *Field) coerce(raw any) (any, *FieldError) {
	switch f.Type {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, f.typeError()
		}
		if len(f.Enum) > 0 && !containsString(f.Enum, s) {
			return nil, &FieldError{
				Field:      f.Name,
				Constraint: "enum",
				Message:    fmt.Sprintf("parameter %s must be one of: %s", f.Name, strings.Join(f.Enum, ", ")),
			}
		}
		return s, nil

	case TypeInteger:
		n, ok := asInteger(raw)
		if !ok {
			return nil, f.typeError()
		}
		if ferr := f.checkRange(float64(n)); ferr != nil {
			return nil, ferr
		}
		return n, nil

	case TypeNumber:
		n, ok := asNumber(raw)
		if !ok {
			return nil, f.typeError()
		}
		if ferr := f.checkRange(n); ferr != nil {
			return nil, ferr
		}
		return n, nil

	case TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, f.typeError()
		}
		return b, nil

	case TypeArray:
		items, ok := raw.([]any)
		if !ok {
			return nil, f.typeError()
		}
		if f.MinItems > 0 && len(items) < f.MinItems {
			return nil, &FieldError{
				Field:      f.Name,
				Constraint: "size",
				Message:    fmt.Sprintf("parameter %s must contain at least %d item(s)", f.Name, f.MinItems),
			}
		}
		return f.coerceArray(items)

	default:
		return nil, f.typeError()
	}
}

func (f *Field) coerceArray(items []any) (any, *FieldError) {
	elem := TypeString
	if f.Elem != nil {
		elem = f.Elem.Type
	}
	switch elem {
	case TypeString:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, f.typeError()
			}
			out = append(out, s)
		}
		return out, nil
	case TypeInteger:
		out := make([]int, 0, len(items))
		for _, item := range items {
			n, ok := asInteger(item)
			if !ok {
				return nil, f.typeError()
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return nil, f.typeError()
	}
}

// asInteger accepts the shapes a JSON decoder may hand over for a whole
// number. Fractional values are rejected, never truncated.
func asInteger(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func (f *Field) checkRange(n float64) *FieldError {
	if (f.Min != nil && n < *f.Min) || (f.Max != nil && n > *f.Max) {
		return &FieldError{Field: f.Name, Constraint: "range", Message: f.rangeMessage()}
	}
	return nil
}

func (f *Field) rangeMessage() string {
	switch {
	case f.Min != nil && f.Max != nil:
		return fmt.Sprintf("parameter %s must be between %s and %s", f.Name, trimFloat(*f.Min), trimFloat(*f.Max))
	case f.Min != nil:
		return fmt.Sprintf("parameter %s must be at least %s", f.Name, trimFloat(*f.Min))
	default:
		return fmt.Sprintf("parameter %s must be at most %s", f.Name, trimFloat(*f.Max))
	}
}

func (f *Field) typeError() *FieldError {
	return &FieldError{
		Field:      f.Name,
		Constraint: "type",
		Message:    fmt.Sprintf("parameter %s must be %s", f.Name, f.typeName()),
	}
}

func (f *Field) typeName() string {
	switch f.Type {
	case TypeString:
		return "a string"
	case TypeInteger:
		return "an integer"
	case TypeNumber:
		return "a number"
	case TypeBoolean:
		return "a boolean"
	case TypeArray:
		if f.Elem != nil && f.Elem.Type == TypeInteger {
			return "an array of integers"
		}
		return "an array of strings"
	default:
		return string(f.Type)
	}
}

// JSON renders the schema as the JSON-Schema object advertised in the tool
// catalog.
func (s Schema) JSON() map[string]any {
	props := make(map[string]any, len(s))
	var required []string
	for i := range s {
		f := &s[i]
		props[f.Name] = f.jsonSchema()
		if f.Required {
			required = append(required, f.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (f *Field) jsonSchema() map[string]any {
	out := map[string]any{"type": string(f.Type)}
	if f.Description != "" {
		out["description"] = f.Description
	}
	if len(f.Enum) > 0 {
		out["enum"] = f.Enum
	}
	if f.Min != nil {
		out["minimum"] = *f.Min
	}
	if f.Max != nil {
		out["maximum"] = *f.Max
	}
	if f.Type == TypeArray {
		if f.MinItems > 0 {
			out["minItems"] = f.MinItems
		}
		if f.Elem != nil {
			out["items"] = f.Elem.jsonSchema()
		}
	}
	return out
}

// decodeParams copies a validated parameter map into a typed struct.
// Optional fields are pointer-typed so absence survives the decode.
func decodeParams(params map[string]any, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "mapstructure",
		Result:  dst,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("decode parameters: %w", err)
	}
	return nil
}

func bound(v float64) *float64 { return &v }

func containsString(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
