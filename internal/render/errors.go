package render

import "fmt"

// TemplateNotFoundError is returned when no template has the requested name.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

// TemplateRenderError wraps a failure while executing a template, typically
// a reference to something the context does not provide.
type TemplateRenderError struct {
	Name string
	Err  error
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Name, e.Err)
}

func (e *TemplateRenderError) Unwrap() error { return e.Err }
