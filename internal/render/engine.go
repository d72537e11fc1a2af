// Package render executes the embedded source templates.
//
// Every template has a dedicated context type (see context.go). Templates are
// plain text/template files; the engine adds a small function set for
// annotation formatting and separator handling. Rendering has no side
// effects: the same name and context always produce the same bytes.
package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names, without the .tmpl suffix.
const (
	TemplateEntity          = "entity.java"
	TemplateRepository      = "repository.java"
	TemplateDataRepository  = "data_repository.java"
	TemplateRepositoryImpl  = "repository_impl.java"
	TemplateDTO             = "dto.java"
	TemplateMapper          = "mapper.java"
	TemplateService         = "service.java"
	TemplateBean            = "bean.java"
	TemplateView            = "view.xhtml"
	TemplateResource        = "resource.java"
	TemplateRestApplication = "rest_application.java"
)

// Engine holds the parsed template set.
type Engine struct {
	tmpl *template.Template
}

// New parses the built-in templates.
func New() (*Engine, error) {
	return NewWithOverrides(nil)
}

// NewWithOverrides parses the built-in templates, then any *.tmpl files in
// overrides, which replace built-ins of the same name. overrides may be nil.
func NewWithOverrides(overrides fs.FS) (*Engine, error) {
	root := template.New("jakartagen").Funcs(funcMap()).Option("missingkey=error")

	builtin, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	if err := parseAll(root, builtin); err != nil {
		return nil, err
	}
	if overrides != nil {
		if err := parseAll(root, overrides); err != nil {
			return nil, err
		}
	}
	return &Engine{tmpl: root}, nil
}

func parseAll(root *template.Template, fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.tmpl")
	if err != nil {
		return err
	}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", name, err)
		}
		if _, err := root.New(strings.TrimSuffix(name, ".tmpl")).Parse(string(data)); err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
	}
	return nil
}

// Has reports whether a template is defined.
func (e *Engine) Has(name string) bool {
	return e.tmpl.Lookup(name) != nil
}

// Render executes the named template with data.
func (e *Engine) Render(name string, data any) (string, error) {
	t := e.tmpl.Lookup(name)
	if t == nil {
		return "", &TemplateNotFoundError{Name: name}
	}
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		var execErr template.ExecError
		if errors.As(err, &execErr) {
			err = execErr.Err
		}
		return "", &TemplateRenderError{Name: name, Err: err}
	}
	return buf.String(), nil
}
