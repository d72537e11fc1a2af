package render

import (
	"strings"
	"text/template"
	"unicode"

	"github.com/matthewbaird/jakartagen/internal/schema"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"annotation": Annotation,
		"value":      FormatValue,
		"simpleName": SimpleName,
		"last":       last,
		"lowerFirst": lowerFirst,
		"upperFirst": upperFirst,
		"quote":      quote,
	}
}

// Annotation renders a as Java source using its simple name, e.g.
// @Column(name = "isbn", length = 13). Marker annotations render bare.
func Annotation(a schema.Annotation) string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(SimpleName(a.Name))
	if len(a.Props) == 0 {
		return b.String()
	}
	b.WriteByte('(')
	for i, p := range a.Props {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Key)
		b.WriteString(" = ")
		b.WriteString(FormatValue(p.Value))
	}
	b.WriteByte(')')
	return b.String()
}

// FormatValue renders an annotation element value: strings quoted, numbers
// and booleans bare, lists brace-delimited.
func FormatValue(v schema.Value) string {
	switch v.Kind {
	case schema.StringValue:
		return quote(v.String)
	case schema.NumberValue:
		return v.Number
	case schema.BoolValue:
		if v.Bool {
			return "true"
		}
		return "false"
	case schema.ListValue:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = FormatValue(item)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}

// SimpleName strips the package from a qualified Java name. Generic types
// are returned unchanged.
func SimpleName(qualified string) string {
	if strings.ContainsAny(qualified, "<[") {
		return qualified
	}
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// last reports whether i is the final index of a slice of length n, the
// template equivalent of a has-next check.
func last(i int, n int) bool {
	return i == n-1
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
