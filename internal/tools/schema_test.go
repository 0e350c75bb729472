package tools

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestValidate_RequiredMissing(t *testing.T) {
	s := Schema{{Name: "shipment_id", Type: TypeString, Required: true}}

	_, ferr := s.Validate(map[string]any{})
	if ferr == nil {
		t.Fatal("expected a field error")
	}
	if ferr.Constraint != "required" {
		t.Errorf("constraint = %q", ferr.Constraint)
	}
	if ferr.Message != "missing required parameter: shipment_id" {
		t.Errorf("message = %q", ferr.Message)
	}
}

func TestValidate_NullCountsAsAbsent(t *testing.T) {
	s := Schema{
		{Name: "shipment_id", Type: TypeString, Required: true},
		{Name: "status", Type: TypeString},
	}

	// Null on an optional field: dropped, no error.
	cleaned, ferr := s.Validate(map[string]any{"shipment_id": "A1", "status": nil})
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if _, ok := cleaned["status"]; ok {
		t.Error("null optional field kept in cleaned map")
	}

	// Null on a required field: same as missing.
	_, ferr = s.Validate(map[string]any{"shipment_id": nil})
	if ferr == nil || ferr.Constraint != "required" {
		t.Errorf("null required field error = %v", ferr)
	}
}

func TestValidate_UnknownFieldsDropped(t *testing.T) {
	s := Schema{{Name: "status", Type: TypeString}}

	cleaned, ferr := s.Validate(map[string]any{"status": "ready", "bogus": "x"})
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if _, ok := cleaned["bogus"]; ok {
		t.Error("undeclared field survived validation")
	}
	if cleaned["status"] != "ready" {
		t.Errorf("status = %v", cleaned["status"])
	}
}

func TestValidate_EmptyStringIsPresent(t *testing.T) {
	s := Schema{{Name: "search", Type: TypeString}}

	cleaned, ferr := s.Validate(map[string]any{"search": ""})
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	v, ok := cleaned["search"]
	if !ok {
		t.Fatal("explicit empty string was dropped")
	}
	if v != "" {
		t.Errorf("search = %v", v)
	}
}

func TestValidate_Enum(t *testing.T) {
	s := Schema{{Name: "unit", Type: TypeString, Enum: []string{"g", "kg"}}}

	if _, ferr := s.Validate(map[string]any{"unit": "kg"}); ferr != nil {
		t.Errorf("valid enum value rejected: %v", ferr)
	}
	_, ferr := s.Validate(map[string]any{"unit": "stone"})
	if ferr == nil {
		t.Fatal("expected a field error")
	}
	if ferr.Message != "parameter unit must be one of: g, kg" {
		t.Errorf("message = %q", ferr.Message)
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value any
		want  string
	}{
		{"string", Field{Name: "p", Type: TypeString}, 42.0, "parameter p must be a string"},
		{"integer", Field{Name: "p", Type: TypeInteger}, "7", "parameter p must be an integer"},
		{"number", Field{Name: "p", Type: TypeNumber}, true, "parameter p must be a number"},
		{"boolean", Field{Name: "p", Type: TypeBoolean}, "yes", "parameter p must be a boolean"},
		{"array", Field{Name: "p", Type: TypeArray}, "a,b", "parameter p must be an array of strings"},
		{"array elem", Field{Name: "p", Type: TypeArray}, []any{"ok", 3.0}, "parameter p must be an array of strings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Schema{tt.field}
			_, ferr := s.Validate(map[string]any{"p": tt.value})
			if ferr == nil {
				t.Fatal("expected a field error")
			}
			if ferr.Message != tt.want {
				t.Errorf("message = %q, want %q", ferr.Message, tt.want)
			}
		})
	}
}

func TestValidate_IntegerShapes(t *testing.T) {
	s := Schema{{Name: "n", Type: TypeInteger}}

	for _, v := range []any{7, int64(7), 7.0, json.Number("7")} {
		cleaned, ferr := s.Validate(map[string]any{"n": v})
		if ferr != nil {
			t.Errorf("%T rejected: %v", v, ferr)
			continue
		}
		if cleaned["n"] != 7 {
			t.Errorf("%T coerced to %v", v, cleaned["n"])
		}
	}

	if _, ferr := s.Validate(map[string]any{"n": 7.5}); ferr == nil {
		t.Error("fractional value accepted as integer")
	}
	if _, ferr := s.Validate(map[string]any{"n": json.Number("7.5")}); ferr == nil {
		t.Error("fractional json.Number accepted as integer")
	}
}

func TestValidate_Range(t *testing.T) {
	s := Schema{{Name: "limit", Type: TypeInteger, Min: bound(1), Max: bound(1000)}}

	for _, v := range []float64{1, 500, 1000} {
		if _, ferr := s.Validate(map[string]any{"limit": v}); ferr != nil {
			t.Errorf("in-range %v rejected: %v", v, ferr)
		}
	}
	for _, v := range []float64{0, 1001} {
		_, ferr := s.Validate(map[string]any{"limit": v})
		if ferr == nil {
			t.Errorf("out-of-range %v accepted", v)
			continue
		}
		if ferr.Message != "parameter limit must be between 1 and 1000" {
			t.Errorf("message = %q", ferr.Message)
		}
	}
}

func TestValidate_MinOnlyRangeMessage(t *testing.T) {
	s := Schema{{Name: "page", Type: TypeInteger, Min: bound(1)}}

	_, ferr := s.Validate(map[string]any{"page": 0.0})
	if ferr == nil {
		t.Fatal("expected a field error")
	}
	if ferr.Message != "parameter page must be at least 1" {
		t.Errorf("message = %q", ferr.Message)
	}
}

func TestValidate_ArrayCoercion(t *testing.T) {
	s := Schema{
		{Name: "ids", Type: TypeArray, MinItems: 1, Elem: &Field{Type: TypeString}},
		{Name: "nums", Type: TypeArray, Elem: &Field{Type: TypeInteger}},
	}

	cleaned, ferr := s.Validate(map[string]any{
		"ids":  []any{"A1", "B2"},
		"nums": []any{1.0, 2.0},
	})
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if got, want := cleaned["ids"], []string{"A1", "B2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v", got)
	}
	if got, want := cleaned["nums"], []int{1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("nums = %v", got)
	}

	_, ferr = s.Validate(map[string]any{"ids": []any{}})
	if ferr == nil {
		t.Fatal("expected a field error for empty array")
	}
	if ferr.Message != "parameter ids must contain at least 1 item(s)" {
		t.Errorf("message = %q", ferr.Message)
	}
}

func TestSchemaJSON_Shape(t *testing.T) {
	s := Schema{
		{Name: "status", Type: TypeString, Description: "Filter", Enum: []string{"a", "b"}},
		{Name: "limit", Type: TypeInteger, Min: bound(1), Max: bound(1000)},
		{Name: "ids", Type: TypeArray, Required: true, MinItems: 1, Elem: &Field{Type: TypeString}},
	}

	got := s.JSON()
	if got["type"] != "object" {
		t.Errorf("type = %v", got["type"])
	}
	props, ok := got["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties = %T", got["properties"])
	}

	status := props["status"].(map[string]any)
	if !reflect.DeepEqual(status["enum"], []string{"a", "b"}) {
		t.Errorf("status enum = %v", status["enum"])
	}
	limit := props["limit"].(map[string]any)
	if limit["minimum"] != 1.0 || limit["maximum"] != 1000.0 {
		t.Errorf("limit bounds = %v..%v", limit["minimum"], limit["maximum"])
	}
	ids := props["ids"].(map[string]any)
	if ids["minItems"] != 1 {
		t.Errorf("ids minItems = %v", ids["minItems"])
	}
	items := ids["items"].(map[string]any)
	if items["type"] != "string" {
		t.Errorf("ids items type = %v", items["type"])
	}
	if !reflect.DeepEqual(got["required"], []string{"ids"}) {
		t.Errorf("required = %v", got["required"])
	}
}

func TestSchemaJSON_NoRequiredKeyWhenAllOptional(t *testing.T) {
	s := Schema{{Name: "status", Type: TypeString}}

	got := s.JSON()
	if _, ok := got["required"]; ok {
		t.Error("required key present with no required fields")
	}
}

func TestDecodeParams_PointerAbsence(t *testing.T) {
	type params struct {
		Status *string `mapstructure:"status"`
		Limit  *int    `mapstructure:"limit"`
	}

	var p params
	if err := decodeParams(map[string]any{"status": "ready"}, &p); err != nil {
		t.Fatalf("decodeParams error: %v", err)
	}
	if p.Status == nil || *p.Status != "ready" {
		t.Errorf("Status = %v", p.Status)
	}
	if p.Limit != nil {
		t.Errorf("absent Limit decoded to %v", *p.Limit)
	}
}
