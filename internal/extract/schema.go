package extract

import (
	"github.com/hifzlog/hifzlog/internal/llm"
	"github.com/hifzlog/hifzlog/internal/taxonomy"
)

// ResultSchema defines the JSON schema for extraction responses. It is the
// structured-output contract: every provider enforces it natively and
// validates the returned payload against it before the typed validator
// runs its range and enum checks.
var ResultSchema = &llm.Schema{
	Name:        "practice-extraction",
	Description: "Structured interpretation of one Quran practice utterance",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"session": map[string]any{
				"type":        "object",
				"description": "Session-level fields. Use null for anything the utterance does not state.",
				"properties": map[string]any{
					"duration_minutes": map[string]any{
						"type":        []any{"integer", "null"},
						"description": "Practice duration in minutes, or null",
					},
					"session_type": map[string]any{
						"type":        []any{"string", "null"},
						"enum":        append(sessionTypeValues(), nil),
						"description": "Kind of practice, or null",
					},
					"performance_score": map[string]any{
						"type":        []any{"number", "null"},
						"description": "Self-rated performance from 0 to 10, or null",
					},
					"session_goal": map[string]any{
						"type":        []any{"string", "null"},
						"description": "Stated goal for the session, or null",
					},
				},
				"required":             []any{"duration_minutes", "session_type", "performance_score", "session_goal"},
				"additionalProperties": false,
			},
			"portions": map[string]any{
				"type":        "array",
				"description": "Portions practiced. Empty if the utterance names none.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"surah_name": map[string]any{
							"type":        []any{"string", "null"},
							"description": "Surah name in transliteration, e.g. Al-Fatiha",
						},
						"ayah_start": map[string]any{
							"type":        []any{"integer", "null"},
							"description": "First ayah of the range, or null when not stated",
						},
						"ayah_end": map[string]any{
							"type":        []any{"integer", "null"},
							"description": "Last ayah of the range, or null when not stated",
						},
						"recency_category": map[string]any{
							"type":        []any{"string", "null"},
							"enum":        append(recencyValues(), nil),
							"description": "How recently this portion was memorized, or null",
						},
						"repetition_count": map[string]any{
							"type":        []any{"integer", "null"},
							"description": "How many times the portion was repeated, or null",
						},
					},
					"required":             []any{"surah_name", "ayah_start", "ayah_end", "recency_category", "repetition_count"},
					"additionalProperties": false,
				},
			},
			"mistakes": map[string]any{
				"type":        "array",
				"description": "Mistakes mentioned. Empty if the utterance names none.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"portion_surah": map[string]any{
							"type":        []any{"string", "null"},
							"description": "Surah the mistake belongs to, \"Unknown\" if unclear",
						},
						"category": map[string]any{
							"type":        "string",
							"enum":        categoryValues(),
							"description": "Top-level mistake category",
						},
						"subcategory": map[string]any{
							"type":        "string",
							"description": "Subcategory within the category",
						},
						"severity_level": map[string]any{
							"type":        "integer",
							"minimum":     taxonomy.SeverityMin,
							"maximum":     taxonomy.SeverityMax,
							"description": "1 = self-corrected slip, 5 = needed outside help",
						},
						"ayah_number": map[string]any{
							"type":        []any{"integer", "null"},
							"description": "Ayah where the mistake happened, or null",
						},
						"notes": map[string]any{
							"type":        "string",
							"description": "Free-text detail, may be empty",
						},
					},
					"required":             []any{"portion_surah", "category", "subcategory", "severity_level", "ayah_number", "notes"},
					"additionalProperties": false,
				},
			},
			"missing_fields": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Field names judged necessary but not extractable from the utterance",
			},
			"follow_up_question": map[string]any{
				"type":        "string",
				"description": "One clarifying question for the user, empty if none",
			},
			"confidence": map[string]any{
				"type":        "string",
				"enum":        []any{"high", "medium", "low"},
				"description": "Extractor's own certainty; display only",
			},
		},
		"required":             []any{"session", "portions", "mistakes", "missing_fields", "follow_up_question", "confidence"},
		"additionalProperties": false,
	},
}

func sessionTypeValues() []any {
	out := make([]any, 0, len(taxonomy.SessionTypes))
	for _, t := range taxonomy.SessionTypes {
		out = append(out, string(t))
	}
	return out
}

func recencyValues() []any {
	out := make([]any, 0, len(taxonomy.RecencyCategories))
	for _, r := range taxonomy.RecencyCategories {
		out = append(out, string(r))
	}
	return out
}

func categoryValues() []any {
	out := make([]any, 0, len(taxonomy.MistakeCategories))
	for _, c := range taxonomy.MistakeCategories {
		out = append(out, string(c))
	}
	return out
}
