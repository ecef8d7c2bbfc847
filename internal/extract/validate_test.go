package extract

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// validPayload returns a complete, contract-conforming extraction payload.
func validPayload() map[string]any {
	return map[string]any{
		"session": map[string]any{
			"duration_minutes":  20,
			"session_type":      "revision",
			"performance_score": 7.5,
			"session_goal":      nil,
		},
		"portions": []any{
			map[string]any{
				"surah_name":       "Al-Fatiha",
				"ayah_start":       1,
				"ayah_end":         7,
				"recency_category": "old",
				"repetition_count": 3,
			},
		},
		"mistakes": []any{
			map[string]any{
				"portion_surah":  "Al-Fatiha",
				"category":       "tajweed",
				"subcategory":    "madd",
				"severity_level": 2,
				"ayah_number":    4,
				"notes":          "stretched the madd too short",
			},
		},
		"missing_fields":     []any{},
		"follow_up_question": "",
		"confidence":         "high",
	}
}

func marshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func TestValidate_FullPayload(t *testing.T) {
	res, err := Validate(marshal(t, validPayload()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Session.DurationMinutes == nil || *res.Session.DurationMinutes != 20 {
		t.Errorf("duration not decoded: %+v", res.Session)
	}
	if len(res.Portions) != 1 || *res.Portions[0].SurahName != "Al-Fatiha" {
		t.Errorf("portions not decoded: %+v", res.Portions)
	}
	if len(res.Mistakes) != 1 || res.Mistakes[0].SeverityLevel != 2 {
		t.Errorf("mistakes not decoded: %+v", res.Mistakes)
	}
}

func TestValidate_AllNullsIsValid(t *testing.T) {
	p := validPayload()
	p["session"] = map[string]any{
		"duration_minutes":  nil,
		"session_type":      nil,
		"performance_score": nil,
		"session_goal":      nil,
	}
	p["portions"] = []any{}
	p["mistakes"] = []any{}
	p["confidence"] = "low"

	res, err := Validate(marshal(t, p))
	if err != nil {
		t.Fatalf("all-null payload must validate: %v", err)
	}
	if res.Session.DurationMinutes != nil {
		t.Error("expected nil duration")
	}
}

func TestValidate_SeverityOutOfRange(t *testing.T) {
	p := validPayload()
	p["mistakes"].([]any)[0].(map[string]any)["severity_level"] = 6

	_, err := Validate(marshal(t, p))
	if err == nil {
		t.Fatal("severity 6 must be rejected, not clamped")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if vErr.Field != "mistakes[0].severity_level" {
		t.Errorf("wrong field path: %q", vErr.Field)
	}
}

func TestValidate_PerformanceScoreRange(t *testing.T) {
	for _, bad := range []float64{-0.1, 10.5} {
		p := validPayload()
		p["session"].(map[string]any)["performance_score"] = bad
		if _, err := Validate(marshal(t, p)); err == nil {
			t.Errorf("performance_score %g must be rejected", bad)
		}
	}
	p := validPayload()
	p["session"].(map[string]any)["performance_score"] = 10.0
	if _, err := Validate(marshal(t, p)); err != nil {
		t.Errorf("performance_score 10 is in range: %v", err)
	}
}

func TestValidate_BadEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{
			name: "session type",
			mutate: func(p map[string]any) {
				p["session"].(map[string]any)["session_type"] = "cramming"
			},
			field: "session.session_type",
		},
		{
			name: "recency",
			mutate: func(p map[string]any) {
				p["portions"].([]any)[0].(map[string]any)["recency_category"] = "ancient"
			},
			field: "portions[0].recency_category",
		},
		{
			name: "category",
			mutate: func(p map[string]any) {
				p["mistakes"].([]any)[0].(map[string]any)["category"] = "grammar"
			},
			field: "mistakes[0].category",
		},
		{
			name: "subcategory under wrong category",
			mutate: func(p map[string]any) {
				p["mistakes"].([]any)[0].(map[string]any)["subcategory"] = "forgotten_word"
			},
			field: "mistakes[0].subcategory",
		},
		{
			name: "confidence",
			mutate: func(p map[string]any) {
				p["confidence"] = "certain"
			},
			field: "confidence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)
			_, err := Validate(marshal(t, p))
			if err == nil {
				t.Fatal("expected validation error")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestValidate_NumericPositivity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"zero duration", func(p map[string]any) {
			p["session"].(map[string]any)["duration_minutes"] = 0
		}},
		{"negative ayah_start", func(p map[string]any) {
			p["portions"].([]any)[0].(map[string]any)["ayah_start"] = -3
		}},
		{"zero ayah_end", func(p map[string]any) {
			p["portions"].([]any)[0].(map[string]any)["ayah_end"] = 0
		}},
		{"negative repetition_count", func(p map[string]any) {
			p["portions"].([]any)[0].(map[string]any)["repetition_count"] = -1
		}},
		{"zero ayah_number", func(p map[string]any) {
			p["mistakes"].([]any)[0].(map[string]any)["ayah_number"] = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)
			if _, err := Validate(marshal(t, p)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_UnknownKeyRejected(t *testing.T) {
	raw := marshal(t, validPayload())
	// Splice an unexpected key into the object.
	spliced := strings.Replace(string(raw), `"confidence"`, `"surprise":1,"confidence"`, 1)

	_, err := Validate(json.RawMessage(spliced))
	if err == nil {
		t.Fatal("unknown key must be rejected")
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	_, err := Validate(json.RawMessage(`{oops`))
	if err == nil {
		t.Fatal("expected error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}
