package router

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"
)

// Converter coerces a matched path segment into a typed value and
// validates values during reverse URL building.
type Converter interface {
	// Pattern returns the regexp fragment the converter matches in a path.
	Pattern() string

	// Coerce converts a decoded path segment to its typed value.
	// A failed coercion means the segment does not belong to this
	// converter; the caller treats it as "no match", not an error.
	Coerce(raw string) (any, error)

	// Format converts a value back to its path text. It fails when the
	// value cannot be represented by this converter.
	Format(value any) (string, error)
}

// converters maps template converter names ({name:converter}) to their
// implementations. str is the default when no converter is given.
var converters = map[string]Converter{
	"str":   strConverter{},
	"int":   intConverter{},
	"float": floatConverter{},
	"uuid":  uuidConverter{},
	"path":  pathConverter{},
}

type strConverter struct{}

func (strConverter) Pattern() string { return `[^/]+` }

func (strConverter) Coerce(raw string) (any, error) {
	if raw == "" {
		return nil, fmt.Errorf("router: empty segment")
	}
	return raw, nil
}

func (strConverter) Format(value any) (string, error) {
	s := fmt.Sprint(value)
	if s == "" {
		return "", fmt.Errorf("router: str value must not be empty")
	}
	return s, nil
}

type intConverter struct{}

func (intConverter) Pattern() string { return `[0-9]+` }

func (intConverter) Coerce(raw string) (any, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func (intConverter) Format(value any) (string, error) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case string:
		if _, err := strconv.ParseUint(v, 10, 64); err != nil {
			return "", fmt.Errorf("router: %q is not an int value", v)
		}
		return v, nil
	default:
		return "", fmt.Errorf("router: %T is not an int value", value)
	}
}

type floatConverter struct{}

func (floatConverter) Pattern() string { return `[0-9]*\.?[0-9]+` }

func (floatConverter) Coerce(raw string) (any, error) {
	return strconv.ParseFloat(raw, 64)
}

var floatText = regexp.MustCompile(`^[0-9]*\.?[0-9]+$`)

func (floatConverter) Format(value any) (string, error) {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case string:
		if !floatText.MatchString(v) {
			return "", fmt.Errorf("router: %q is not a float value", v)
		}
		return v, nil
	default:
		return "", fmt.Errorf("router: %T is not a float value", value)
	}
}

type uuidConverter struct{}

func (uuidConverter) Pattern() string {
	return `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`
}

func (uuidConverter) Coerce(raw string) (any, error) {
	return uuid.Parse(raw)
}

func (uuidConverter) Format(value any) (string, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v.String(), nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return "", fmt.Errorf("router: %q is not a uuid value", v)
		}
		return id.String(), nil
	default:
		return "", fmt.Errorf("router: %T is not a uuid value", value)
	}
}

// pathConverter matches the remainder of the path, slashes included.
type pathConverter struct{}

func (pathConverter) Pattern() string { return `.+` }

func (pathConverter) Coerce(raw string) (any, error) {
	return raw, nil
}

func (pathConverter) Format(value any) (string, error) {
	s := fmt.Sprint(value)
	if s == "" {
		return "", fmt.Errorf("router: path value must not be empty")
	}
	return s, nil
}
