package schema

import "fmt"

// FieldError describes one validation failure, addressed by field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
}

// Schema validates and coerces raw request data, and serializes domain
// objects back to wire maps. Any implementation satisfies a route
// binding; the dispatch core does not care which validation technology
// backs it.
type Schema interface {
	// Validate coerces raw into the schema's declared shape. On success
	// the returned map holds only declared fields with coerced values.
	// On failure it returns one error per offending field.
	Validate(raw map[string]any) (map[string]any, []FieldError)

	// Serialize maps the schema's declared fields over a domain object,
	// reading struct fields by name with a map lookup fallback.
	// Attributes not declared by the schema are dropped.
	Serialize(obj any) map[string]any
}
