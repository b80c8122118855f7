package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "cm-gateway/pkg/domain-errors"
)

func TestParam(t *testing.T) {
	t.Run("present value passes", func(t *testing.T) {
		assert.NoError(t, Param("PostConsentRequest", "performer in request body", "AOTZ129626"))
	})

	t.Run("empty value fails with operation and parameter name", func(t *testing.T) {
		err := Param("PostConsentRequest", "performer in request body", "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidArgument))
		assert.Equal(t, "Failed at PostConsentRequest: missing performer in request body", err.Error())
	})

	t.Run("whitespace counts as missing", func(t *testing.T) {
		err := Param("GetConsentRequest", "consent request ID", "   ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing consent request ID")
	})
}

func TestPresent(t *testing.T) {
	err := Present("PostConsentReceipt", "consentRequest body parameter", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing consentRequest body parameter")

	assert.NoError(t, Present("PostConsentReceipt", "consentRequest body parameter", map[string]any{"performer": "x"}))
}

func TestStruct(t *testing.T) {
	type invite struct {
		Contact string `validate:"required,email"`
	}

	t.Run("missing required field", func(t *testing.T) {
		err := Struct(&invite{})
		require.Error(t, err)
		assert.Equal(t, "missing contact field", err.Error())
	})

	t.Run("malformed email", func(t *testing.T) {
		err := Struct(&invite{Contact: "not-an-email"})
		require.Error(t, err)
		assert.Equal(t, "contact must be a valid email", err.Error())
	})

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Struct(&invite{Contact: "patient@example.com"}))
	})
}
