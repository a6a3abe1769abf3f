package dune

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
)

// Templates renders HTML templates from a directory.
type Templates struct {
	dir string
}

// NewTemplates returns a renderer rooted at dir.
func NewTemplates(dir string) *Templates {
	return &Templates{dir: dir}
}

// Render executes the named template file with data.
func (t *Templates) Render(name string, data any) (string, error) {
	tmpl, err := template.ParseFiles(filepath.Join(t.dir, name))
	if err != nil {
		return "", fmt.Errorf("dune: template %q: %w", name, err)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("dune: template %q: %w", name, err)
	}
	return out.String(), nil
}

// RenderString executes an inline template source with data.
func RenderString(src string, data any) (string, error) {
	tmpl, err := template.New("inline").Parse(src)
	if err != nil {
		return "", fmt.Errorf("dune: template string: %w", err)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("dune: template string: %w", err)
	}
	return out.String(), nil
}

// Template renders a template file from the configured TemplatesDir.
func (a *API) Template(name string, data any) (string, error) {
	return NewTemplates(a.cfg.TemplatesDir).Render(name, data)
}

// TemplateString renders an inline template source.
func (a *API) TemplateString(src string, data any) (string, error) {
	return RenderString(src, data)
}
