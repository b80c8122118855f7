// Package schema validates transformed consent payloads against the
// custodian's JSON schema before issuance.
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	dErrors "cm-gateway/pkg/domain-errors"
)

// Validate checks payload against schemaDoc (a draft JSON schema decoded from
// JSON). Only the first violation is reported.
func Validate(payload map[string]any, schemaDoc map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(schemaDoc)
	payloadLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, payloadLoader)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "evaluate consent schema")
	}
	if result.Valid() {
		return nil
	}

	violations := result.Errors()
	return dErrors.New(dErrors.CodeValidation, describe(violations[0]))
}

// describe renders a schema violation in "instance" notation, e.g.
//
//	instance requires property "version"
//	instance.jurisdiction is not one of enum values: US
//	instance.language is not of a type(s) string
func describe(resultError gojsonschema.ResultError) string {
	subject := "instance"
	if field := resultError.Field(); field != gojsonschema.STRING_CONTEXT_ROOT {
		subject = "instance." + field
	}

	details := resultError.Details()
	switch resultError.Type() {
	case "required":
		return fmt.Sprintf("%s requires property %q", subject, details["property"])
	case "enum":
		allowed := fmt.Sprintf("%v", details["allowed"])
		allowed = strings.NewReplacer("[", "", "]", "", `"`, "").Replace(allowed)
		return fmt.Sprintf("%s is not one of enum values: %s", subject, allowed)
	case "invalid_type":
		return fmt.Sprintf("%s is not of a type(s) %v", subject, details["expected"])
	default:
		return fmt.Sprintf("%s %s", subject, resultError.Description())
	}
}
