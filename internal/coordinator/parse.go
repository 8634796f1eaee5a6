// Helpers for pulling a structured JSON payload out of model output.
// Models wrap JSON in code fences or prose more often than not, so parsing
// is tolerant about what surrounds the object but strict about its shape.

package coordinator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*\\n([\\s\\S]*?)\\n```")

// extractJSONObject locates the JSON object in content: a ```json fence
// first, then the first balanced object in plain text.
func extractJSONObject(content string) (string, error) {
	if matches := jsonBlockRegex.FindStringSubmatch(content); len(matches) > 1 {
		candidate := strings.TrimSpace(matches[1])
		if candidate != "" {
			return candidate, nil
		}
	}

	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	if start == -1 {
		return "", fmt.Errorf("no JSON object found")
	}

	decoder := json.NewDecoder(strings.NewReader(trimmed[start:]))
	decoder.UseNumber()

	var raw json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		return "", fmt.Errorf("no complete JSON object found: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// validateAgainstSchema checks a JSON document against a schema and returns
// the collected violation messages on failure. A schema violation is a
// malformed-output condition, distinct from well-formed-but-incomplete data
// (which the schemas deliberately allow).
func validateAgainstSchema(schemaJSON, document string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewStringLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var msgs []string
		for _, verr := range result.Errors() {
			msgs = append(msgs, verr.String())
		}
		return fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
	}
	return nil
}
