package media

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeError reports a request body that could not be decoded for its
// declared content type, or a decoded part accessed the wrong way.
type DecodeError struct {
	ContentType string
	Reason      string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("media: cannot decode %q: %s", e.ContentType, e.Reason)
}

// File is one uploaded part of a multipart body that carried a filename.
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Decoded is the parsed form of a request body. Plain values and file
// parts live side by side; the two accessors keep them apart.
type Decoded struct {
	values map[string]any
}

// Map returns every decoded value by name. File parts appear as File.
func (d *Decoded) Map() map[string]any {
	return d.values
}

// Files returns the file parts by name. Accessing a part that is not a
// file through this view is a decoding error, never a silent coercion.
func (d *Decoded) Files() (map[string]File, error) {
	files := make(map[string]File, len(d.values))
	for name, v := range d.values {
		f, ok := v.(File)
		if !ok {
			return nil, &DecodeError{ContentType: MIMEMultipart, Reason: fmt.Sprintf("part %q is not a file upload", name)}
		}
		files[name] = f
	}
	return files, nil
}

// DecodeFunc parses a request body into its decoded form. The full
// Content-Type value is passed through for decoders that need its
// parameters (multipart boundaries).
type DecodeFunc func(body io.Reader, contentType string) (*Decoded, error)

// NegotiateIncoming classifies a request body by its Content-Type and
// returns the decoder for it. An empty Content-Type decodes as JSON.
// A declared type nothing can decode is a *DecodeError.
func NegotiateIncoming(contentType string) (DecodeFunc, error) {
	mt := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mt = parsed
	}

	switch {
	case mt == "" || mt == MIMEJSON || strings.HasSuffix(mt, "+json"):
		return DecodeJSON, nil
	case strings.Contains(mt, "yaml"):
		return DecodeYAML, nil
	case mt == MIMEForm:
		return DecodeForm, nil
	case strings.HasPrefix(mt, "multipart/"):
		return DecodeMultipart, nil
	default:
		return nil, &DecodeError{ContentType: contentType, Reason: "unsupported content type"}
	}
}

// DecodeJSON parses a JSON object body.
func DecodeJSON(body io.Reader, contentType string) (*Decoded, error) {
	values := make(map[string]any)
	dec := json.NewDecoder(body)
	if err := dec.Decode(&values); err != nil {
		return nil, &DecodeError{ContentType: contentType, Reason: err.Error()}
	}
	return &Decoded{values: values}, nil
}

// DecodeYAML parses a YAML mapping body.
func DecodeYAML(body io.Reader, contentType string) (*Decoded, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, &DecodeError{ContentType: contentType, Reason: err.Error()}
	}
	values := make(map[string]any)
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, &DecodeError{ContentType: contentType, Reason: err.Error()}
	}
	return &Decoded{values: values}, nil
}

// DecodeForm parses a urlencoded form body. Repeated keys keep their
// last value, matching query parameter semantics.
func DecodeForm(body io.Reader, contentType string) (*Decoded, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, &DecodeError{ContentType: contentType, Reason: err.Error()}
	}
	form, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, &DecodeError{ContentType: contentType, Reason: err.Error()}
	}
	values := make(map[string]any, len(form))
	for key, vals := range form {
		values[key] = vals[len(vals)-1]
	}
	return &Decoded{values: values}, nil
}
