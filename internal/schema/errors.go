package schema

import (
	"fmt"
	"strings"
)

// SchemaError reports a malformed entity document. Entity and Index are set
// when the problem is confined to one entity; Field is the offending field's
// position (1-based) or 0.
type SchemaError struct {
	Entity  string
	Index   int
	Field   int
	Message string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema")
	switch {
	case e.Entity != "":
		fmt.Fprintf(&b, ": entity %q", e.Entity)
	case e.Index > 0:
		fmt.Fprintf(&b, ": entity #%d", e.Index)
	}
	if e.Field > 0 {
		fmt.Fprintf(&b, ": field %d", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func documentError(format string, args ...any) *SchemaError {
	return &SchemaError{Message: fmt.Sprintf(format, args...)}
}
