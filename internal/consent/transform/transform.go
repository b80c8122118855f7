// Package transform applies a declarative mapper document to a consent
// request, producing the credential subject for receipt issuance.
//
// A mapper is a JSON object mirroring the desired output shape. String leaves
// beginning with "$." are JSONPath expressions resolved against the consent
// request; every other leaf is copied verbatim.
package transform

import (
	"strings"

	"github.com/PaesslerAG/jsonpath"

	dErrors "cm-gateway/pkg/domain-errors"
)

// Apply resolves mapper against request. Paths that do not resolve cause the
// field to be omitted from the output rather than failing the transform.
func Apply(mapper map[string]any, request map[string]any) (map[string]any, error) {
	if request == nil {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "missing consentRequest body parameter")
	}
	if mapper == nil {
		return map[string]any{}, nil
	}

	out, err := resolveObject(mapper, request)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func resolveObject(node map[string]any, request map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(node))
	for key, value := range node {
		resolved, keep, err := resolveValue(value, request)
		if err != nil {
			return nil, err
		}
		if keep {
			out[key] = resolved
		}
	}
	return out, nil
}

func resolveValue(value any, request map[string]any) (any, bool, error) {
	switch v := value.(type) {
	case string:
		if !strings.HasPrefix(v, "$.") {
			return v, true, nil
		}
		resolved, err := jsonpath.Get(v, any(request))
		if err != nil {
			// An unresolvable path drops the field instead of failing the
			// whole transform; other evaluation errors propagate.
			if strings.HasPrefix(err.Error(), "unknown key") {
				return nil, false, nil
			}
			return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "resolve mapper path "+v)
		}
		return resolved, true, nil
	case map[string]any:
		resolved, err := resolveObject(v, request)
		if err != nil {
			return nil, false, err
		}
		return resolved, true, nil
	case []any:
		items := make([]any, 0, len(v))
		for _, item := range v {
			resolved, keep, err := resolveValue(item, request)
			if err != nil {
				return nil, false, err
			}
			if keep {
				items = append(items, resolved)
			}
		}
		return items, true, nil
	default:
		return v, true, nil
	}
}
