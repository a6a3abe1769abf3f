package media

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// MIME types the negotiator knows about.
const (
	MIMEJSON      = "application/json"
	MIMEYAML      = "application/x-yaml"
	MIMEForm      = "application/x-www-form-urlencoded"
	MIMEMultipart = "multipart/form-data"
	MIMEText      = "text/plain"
	MIMEHTML      = "text/html"
)

// EncodeFunc serializes a structured value onto the wire.
type EncodeFunc func(w io.Writer, v any) error

// EncodeJSON writes v as JSON.
func EncodeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// EncodeYAML writes v as YAML.
func EncodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// NegotiateOutgoing picks the wire encoding for structured output from
// the request's Accept value. Any Accept entry carrying a "yaml" token
// selects YAML; everything else, including an absent header, */*, and
// application/json, selects JSON.
func NegotiateOutgoing(accept string) (mimetype string, encode EncodeFunc) {
	if acceptsYAML(accept) {
		return MIMEYAML, EncodeYAML
	}
	return MIMEJSON, EncodeJSON
}

func acceptsYAML(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mt := strings.TrimSpace(part)
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = mt[:i]
		}
		if strings.Contains(strings.ToLower(mt), "yaml") {
			return true
		}
	}
	return false
}
