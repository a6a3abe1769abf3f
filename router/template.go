package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
)

// compiledExprs interns compiled expressions so templates that reduce to
// the same regular expression share one *regexp.Regexp. The set of
// distinct expressions is bounded by the registered routes.
var compiledExprs sync.Map

func cachedRegexp(expr string) (*regexp.Regexp, error) {
	if v, ok := compiledExprs.Load(expr); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	v, _ := compiledExprs.LoadOrStore(expr, re)
	return v.(*regexp.Regexp), nil
}

// Params holds the coerced path parameters extracted from a matched path.
type Params map[string]any

// Template is a compiled path pattern. It matches incoming paths and
// formats outgoing URLs from parameter values.
type Template struct {
	// Pattern is the original template string.
	Pattern string

	regexp  *regexp.Regexp
	reverse string
	names   []string
	convs   []Converter
}

// CompileTemplate parses a path template into a Template. Placeholders
// take the form {name} or {name:converter} where converter is one of
// str (default), int, float, uuid, or path.
//
// Compilation fails on unbalanced braces, empty or duplicate parameter
// names, and unknown converters.
func CompileTemplate(pattern string) (*Template, error) {
	idxs, err := braceIndices(pattern)
	if err != nil {
		return nil, err
	}

	var (
		expr    strings.Builder
		reverse strings.Builder
		names   []string
		convs   []Converter
		end     int
	)

	expr.WriteByte('^')

	for i := 0; i < len(idxs); i += 2 {
		raw := pattern[end:idxs[i]]
		end = idxs[i+1]

		name, convName := pattern[idxs[i]+1:end-1], "str"
		if j := strings.IndexByte(name, ':'); j >= 0 {
			name, convName = name[:j], name[j+1:]
		}
		if name == "" {
			return nil, &CompileError{Pattern: pattern, Reason: fmt.Sprintf("missing parameter name in %q", pattern[idxs[i]:end])}
		}
		conv, ok := converters[convName]
		if !ok {
			return nil, &CompileError{Pattern: pattern, Reason: fmt.Sprintf("unknown converter %q for parameter %q", convName, name)}
		}

		fmt.Fprintf(&expr, "%s(%s)", regexp.QuoteMeta(raw), conv.Pattern())
		reverse.WriteString(strings.ReplaceAll(raw, "%", "%%"))
		reverse.WriteString("%s")

		names = append(names, name)
		convs = append(convs, conv)
	}

	raw := pattern[end:]
	expr.WriteString(regexp.QuoteMeta(raw))
	expr.WriteByte('$')
	reverse.WriteString(strings.ReplaceAll(raw, "%", "%%"))

	if err := checkDuplicateParams(pattern, names); err != nil {
		return nil, err
	}

	re, err := cachedRegexp(expr.String())
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Reason: err.Error()}
	}

	return &Template{
		Pattern: pattern,
		regexp:  re,
		reverse: reverse.String(),
		names:   names,
		convs:   convs,
	}, nil
}

// Match matches the template against a request path. The match is anchored:
// the whole path must match. Captured values are percent-decoded and then
// coerced by their converter; a value the converter rejects makes the whole
// match fail so the caller can try the next route.
func (t *Template) Match(path string) (Params, bool) {
	matches := t.regexp.FindStringSubmatch(path)
	if matches == nil {
		return nil, false
	}

	params := make(Params, len(t.names))
	for i, name := range t.names {
		raw, err := url.PathUnescape(matches[i+1])
		if err != nil {
			return nil, false
		}
		value, err := t.convs[i].Coerce(raw)
		if err != nil {
			return nil, false
		}
		params[name] = value
	}
	return params, true
}

// Format builds the concrete path for the template from parameter values.
// It fails when a parameter is missing or its value does not satisfy the
// parameter's converter.
func (t *Template) Format(values map[string]any) (string, error) {
	args := make([]any, len(t.names))
	for i, name := range t.names {
		value, ok := values[name]
		if !ok {
			return "", fmt.Errorf("router: missing value for parameter %q in %q", name, t.Pattern)
		}
		text, err := t.convs[i].Format(value)
		if err != nil {
			return "", err
		}
		args[i] = escapeSegments(text)
	}
	return fmt.Sprintf(t.reverse, args...), nil
}

// Names returns the parameter names in template order.
func (t *Template) Names() []string {
	return append([]string(nil), t.names...)
}

// escapeSegments percent-escapes a formatted value segment by segment, so
// that path-converter values keep their slashes.
func escapeSegments(s string) string {
	if !strings.Contains(s, "/") {
		return url.PathEscape(s)
	}
	parts := strings.Split(s, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// braceIndices returns the start and end+1 indices of each top-level
// {...} pair in s. Returns an error if braces are unbalanced.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idxs = append(idxs, i)
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, i+1)
			} else if level < 0 {
				return nil, &CompileError{Pattern: s, Reason: "unbalanced braces"}
			}
		}
	}
	if level != 0 {
		return nil, &CompileError{Pattern: s, Reason: "unbalanced braces"}
	}
	return idxs, nil
}

// checkDuplicateParams returns an error if any parameter name is repeated.
func checkDuplicateParams(pattern string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return &CompileError{Pattern: pattern, Reason: fmt.Sprintf("duplicated parameter %q", n)}
		}
		seen[n] = true
	}
	return nil
}
