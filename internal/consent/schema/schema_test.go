package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "cm-gateway/pkg/domain-errors"
)

func consentSchema(t *testing.T) map[string]any {
	t.Helper()

	raw := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["version", "principal"],
		"properties": {
			"version": {"type": "string"},
			"language": {"type": "string"},
			"jurisdiction": {"type": "string", "enum": ["US"]},
			"principal": {
				"type": "object",
				"required": ["id"],
				"properties": {"id": {"type": "string"}}
			}
		}
	}`

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestValidate_Passes(t *testing.T) {
	payload := map[string]any{
		"version":      "KI-CR-v3",
		"language":     "en",
		"jurisdiction": "US",
		"principal":    map[string]any{"id": "AOTZ129626"},
	}
	assert.NoError(t, Validate(payload, consentSchema(t)))
}

func TestValidate_MissingRequiredProperty(t *testing.T) {
	payload := map[string]any{
		"principal": map[string]any{"id": "AOTZ129626"},
	}

	err := Validate(payload, consentSchema(t))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, `instance requires property "version"`, err.Error())
}

func TestValidate_EnumViolation(t *testing.T) {
	payload := map[string]any{
		"version":      "KI-CR-v3",
		"jurisdiction": "FR",
		"principal":    map[string]any{"id": "AOTZ129626"},
	}

	err := Validate(payload, consentSchema(t))
	require.Error(t, err)
	assert.Equal(t, "instance.jurisdiction is not one of enum values: US", err.Error())
}

func TestValidate_TypeViolation(t *testing.T) {
	payload := map[string]any{
		"version":   "KI-CR-v3",
		"language":  42,
		"principal": map[string]any{"id": "AOTZ129626"},
	}

	err := Validate(payload, consentSchema(t))
	require.Error(t, err)
	assert.Equal(t, "instance.language is not of a type(s) string", err.Error())
}

func TestValidate_OnlyFirstViolationReported(t *testing.T) {
	err := Validate(map[string]any{}, consentSchema(t))
	require.Error(t, err)
	assert.Equal(t, `instance requires property "version"`, err.Error())
}
