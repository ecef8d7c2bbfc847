package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hifzlog/hifzlog/internal/taxonomy"
)

// The schema is the contract every provider enforces natively, so its
// shape matters as much as the validator's checks.

func TestResultSchema_IsValidJSON(t *testing.T) {
	_, err := json.Marshal(ResultSchema.Definition)
	require.NoError(t, err, "schema definition must serialize")
}

func TestResultSchema_ClosedObjects(t *testing.T) {
	root := ResultSchema.Definition
	assert.Equal(t, false, root["additionalProperties"])

	props := root["properties"].(map[string]any)
	session := props["session"].(map[string]any)
	assert.Equal(t, false, session["additionalProperties"])

	for _, name := range []string{"portions", "mistakes"} {
		arr := props[name].(map[string]any)
		items := arr["items"].(map[string]any)
		assert.Equal(t, false, items["additionalProperties"], "%s items must be closed", name)
	}
}

func TestResultSchema_AllFieldsRequired(t *testing.T) {
	// Structured-output backends reject schemas where required does not
	// cover every property; nullability is expressed by union types.
	var check func(path string, def map[string]any)
	check = func(path string, def map[string]any) {
		props, ok := def["properties"].(map[string]any)
		if !ok {
			return
		}
		required, ok := def["required"].([]any)
		require.True(t, ok, "%s: object with properties must list required", path)
		assert.Len(t, required, len(props), "%s: required must cover every property", path)

		for name, raw := range props {
			sub := raw.(map[string]any)
			if items, ok := sub["items"].(map[string]any); ok {
				check(path+"."+name+"[]", items)
			} else {
				check(path+"."+name, sub)
			}
		}
	}
	check("root", ResultSchema.Definition)
}

func TestResultSchema_EnumsTrackTaxonomy(t *testing.T) {
	props := ResultSchema.Definition["properties"].(map[string]any)

	sessionProps := props["session"].(map[string]any)["properties"].(map[string]any)
	sessionTypeEnum := sessionProps["session_type"].(map[string]any)["enum"].([]any)
	// Nullable enums carry a trailing null member.
	assert.Len(t, sessionTypeEnum, len(taxonomy.SessionTypes)+1)
	assert.Nil(t, sessionTypeEnum[len(sessionTypeEnum)-1])
	for _, st := range taxonomy.SessionTypes {
		assert.Contains(t, sessionTypeEnum, string(st))
	}

	mistakeProps := props["mistakes"].(map[string]any)["items"].(map[string]any)["properties"].(map[string]any)
	categoryEnum := mistakeProps["category"].(map[string]any)["enum"].([]any)
	assert.Len(t, categoryEnum, len(taxonomy.MistakeCategories))
	for _, c := range taxonomy.MistakeCategories {
		assert.Contains(t, categoryEnum, string(c))
	}
}

func TestResultSchema_SeverityBounds(t *testing.T) {
	props := ResultSchema.Definition["properties"].(map[string]any)
	mistakeProps := props["mistakes"].(map[string]any)["items"].(map[string]any)["properties"].(map[string]any)
	severity := mistakeProps["severity_level"].(map[string]any)

	assert.Equal(t, taxonomy.SeverityMin, severity["minimum"])
	assert.Equal(t, taxonomy.SeverityMax, severity["maximum"])
}
