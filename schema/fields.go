package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Type enumerates the value types a Field can declare.
type Type int

const (
	String Type = iota
	Int
	Float
	Bool
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Field declares one named value in a Fields schema.
type Field struct {
	// Type is the declared value type.
	Type Type

	// Required rejects input where the field is absent.
	Required bool

	// Default fills the field when input omits it. Ignored when
	// Required is set.
	Default any

	// Key overrides the wire key looked up in the input, e.g. a header
	// name "X-Version" for a field named "x_version".
	Key string

	// DumpOnly excludes the field from input validation; it only
	// appears in serialized output.
	DumpOnly bool
}

// Fields is a declarative Schema: a map from field name to declaration.
//
//	pet := schema.Fields{
//		"name":  {Type: schema.String, Required: true},
//		"price": {Type: schema.Float},
//	}
type Fields map[string]Field

var _ Schema = Fields{}

// Validate coerces raw against the declared fields. String inputs are
// coerced to the declared type ("123" to 123, "True" to true), which
// makes the same schema usable for bodies, query strings, headers, and
// cookies. Undeclared input keys are dropped. All field failures are
// reported together.
func (f Fields) Validate(raw map[string]any) (map[string]any, []FieldError) {
	out := make(map[string]any, len(f))
	var errs []FieldError

	for name, field := range f {
		if field.DumpOnly {
			continue
		}
		key := field.Key
		if key == "" {
			key = name
		}
		value, ok := raw[key]
		if !ok {
			if field.Required {
				errs = append(errs, FieldError{Field: name, Message: "missing required field"})
			} else if field.Default != nil {
				out[name] = field.Default
			}
			continue
		}
		coerced, err := coerce(field.Type, value)
		if err != nil {
			errs = append(errs, FieldError{Field: name, Message: err.Error()})
			continue
		}
		out[name] = coerced
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// Serialize reads the declared fields off obj, preferring struct field
// access (matching the field name or its json tag, case-insensitively)
// and falling back to a map lookup. Values are coerced to the declared
// type where that is lossless; attributes that cannot be found are
// omitted from the record.
func (f Fields) Serialize(obj any) map[string]any {
	out := make(map[string]any, len(f))
	for name, field := range f {
		value, ok := attribute(obj, name)
		if !ok {
			continue
		}
		if coerced, err := coerce(field.Type, value); err == nil {
			value = coerced
		}
		out[name] = value
	}
	return out
}

// coerce converts value to the declared type. Strings parse into
// numbers and booleans; anything else must already have a compatible
// type. Collections never coerce to scalars.
func coerce(t Type, value any) (any, error) {
	switch t {
	case String:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("not a valid string: %v", value)
		}
		return s, nil

	case Int:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v != float64(int64(v)) {
				return nil, fmt.Errorf("not a valid integer: %v", v)
			}
			return int64(v), nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("not a valid integer: %q", v)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("not a valid integer: %v", value)
		}

	case Float:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("not a valid number: %q", v)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("not a valid number: %v", value)
		}

	case Bool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.ToLower(v))
			if err != nil {
				return nil, fmt.Errorf("not a valid boolean: %q", v)
			}
			return b, nil
		default:
			return nil, fmt.Errorf("not a valid boolean: %v", value)
		}
	}
	return nil, fmt.Errorf("unknown field type %v", t)
}

// attribute reads a named attribute from obj: exported struct fields are
// matched case-insensitively on name or json tag, maps by direct key.
func attribute(obj any, name string) (any, bool) {
	if m, ok := obj.(map[string]any); ok {
		v, ok := m[name]
		return v, ok
	}

	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("json")
		if c := strings.IndexByte(tag, ','); c >= 0 {
			tag = tag[:c]
		}
		if strings.EqualFold(sf.Name, name) || tag == name {
			return v.Field(i).Interface(), true
		}
	}
	return nil, false
}
