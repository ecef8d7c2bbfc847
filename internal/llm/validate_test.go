package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-mistake",
		Description: "A test mistake record",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"surah":    map[string]any{"type": "string"},
				"severity": map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
				"category": map[string]any{"type": "string", "enum": []any{"tajweed", "memorization", "fluency"}},
			},
			"required": []any{"surah", "severity"},
		},
	}
}

func TestValidateResponse_ValidJSON(t *testing.T) {
	raw := json.RawMessage(`{"surah":"Al-Fatiha","severity":2,"category":"tajweed"}`)
	if err := validateResponse(testSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_ValidWithoutOptional(t *testing.T) {
	raw := json.RawMessage(`{"surah":"Yaseen","severity":1}`)
	if err := validateResponse(testSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_MissingRequired(t *testing.T) {
	raw := json.RawMessage(`{"surah":"Al-Baqarah"}`)
	err := validateResponse(testSchema(), raw)
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_OutOfRange(t *testing.T) {
	raw := json.RawMessage(`{"surah":"Al-Mulk","severity":6}`)
	err := validateResponse(testSchema(), raw)
	if err == nil {
		t.Fatal("expected error for out-of-range severity")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_InvalidEnum(t *testing.T) {
	raw := json.RawMessage(`{"surah":"Al-Mulk","severity":3,"category":"grammar"}`)
	err := validateResponse(testSchema(), raw)
	if err == nil {
		t.Fatal("expected error for invalid enum value")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_MalformedJSON(t *testing.T) {
	raw := json.RawMessage(`{not json}`)
	err := validateResponse(testSchema(), raw)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`{"anything":"goes"}`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NullableUnionType(t *testing.T) {
	schema := &Schema{
		Name:        "test-nullable",
		Description: "Nullable field test",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ayah_start": map[string]any{"type": []any{"integer", "null"}, "minimum": 1},
			},
			"required": []any{"ayah_start"},
		},
	}

	if err := validateResponse(schema, json.RawMessage(`{"ayah_start":null}`)); err != nil {
		t.Fatalf("null should satisfy nullable field: %v", err)
	}
	if err := validateResponse(schema, json.RawMessage(`{"ayah_start":12}`)); err != nil {
		t.Fatalf("integer should satisfy nullable field: %v", err)
	}
	if err := validateResponse(schema, json.RawMessage(`{"ayah_start":"twelve"}`)); err == nil {
		t.Fatal("string should not satisfy nullable integer field")
	}
}
