package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "cm-gateway/pkg/domain-errors"
)

func consentMapper() map[string]any {
	return map[string]any{
		"version": "KI-CR-v3",
		"principal": map[string]any{
			"id": "$.performer",
		},
		"controller": map[string]any{
			"name": "$.dataCustodian",
		},
		"services": []any{
			map[string]any{
				"purposes": []any{
					map[string]any{
						"description": "$.purpose",
						"datatype":    "$.datatype",
					},
				},
			},
		},
	}
}

func consentRequest() map[string]any {
	return map[string]any{
		"performer":     "AOTZ129626",
		"dataCustodian": "General Hospital",
		"dataRecipient": "Research Lab",
		"purpose":       "clinical research",
		"datatype":      "blood panel",
	}
}

func TestApply_ResolvesPathsAndLiterals(t *testing.T) {
	out, err := Apply(consentMapper(), consentRequest())
	require.NoError(t, err)

	assert.Equal(t, "KI-CR-v3", out["version"])
	assert.Equal(t, "AOTZ129626", out["principal"].(map[string]any)["id"])
	assert.Equal(t, "General Hospital", out["controller"].(map[string]any)["name"])

	services := out["services"].([]any)
	require.Len(t, services, 1)
	purposes := services[0].(map[string]any)["purposes"].([]any)
	require.Len(t, purposes, 1)
	assert.Equal(t, "clinical research", purposes[0].(map[string]any)["description"])
	assert.Equal(t, "blood panel", purposes[0].(map[string]any)["datatype"])
}

func TestApply_IsDeterministic(t *testing.T) {
	first, err := Apply(consentMapper(), consentRequest())
	require.NoError(t, err)
	second, err := Apply(consentMapper(), consentRequest())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApply_OmitsUnresolvablePaths(t *testing.T) {
	mapper := map[string]any{
		"id":      "$.performer",
		"missing": "$.doesNotExist",
	}

	out, err := Apply(mapper, consentRequest())
	require.NoError(t, err)
	assert.Equal(t, "AOTZ129626", out["id"])
	_, present := out["missing"]
	assert.False(t, present)
}

func TestApply_NilRequest(t *testing.T) {
	_, err := Apply(consentMapper(), nil)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidArgument))
	assert.Equal(t, "missing consentRequest body parameter", err.Error())
}

func TestApply_NilMapperYieldsEmptyObject(t *testing.T) {
	out, err := Apply(nil, consentRequest())
	require.NoError(t, err)
	assert.Empty(t, out)
}
