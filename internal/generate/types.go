package generate

import (
	"strings"
	"unicode"

	"github.com/matthewbaird/jakartagen/internal/render"
)

var boxed = map[string]string{
	"boolean": "Boolean",
	"byte":    "Byte",
	"char":    "Character",
	"short":   "Short",
	"int":     "Integer",
	"long":    "Long",
	"float":   "Float",
	"double":  "Double",
}

// generatedIDTypes get @GeneratedValue(strategy = IDENTITY).
var generatedIDTypes = map[string]bool{
	"Long": true, "Integer": true, "Short": true,
	"java.math.BigInteger": true,
}

// knownTypes maps simple names outside java.lang to their packages, so
// tokens such as "List<LocalDate>" still compile.
var knownTypes = map[string]string{
	"ArrayList":      "java.util",
	"Collection":     "java.util",
	"Date":           "java.util",
	"HashMap":        "java.util",
	"HashSet":        "java.util",
	"LinkedHashMap":  "java.util",
	"LinkedHashSet":  "java.util",
	"LinkedList":     "java.util",
	"List":           "java.util",
	"Map":            "java.util",
	"Optional":       "java.util",
	"Set":            "java.util",
	"SortedMap":      "java.util",
	"SortedSet":      "java.util",
	"TreeMap":        "java.util",
	"TreeSet":        "java.util",
	"UUID":           "java.util",
	"BigDecimal":     "java.math",
	"BigInteger":     "java.math",
	"Duration":       "java.time",
	"Instant":        "java.time",
	"LocalDate":      "java.time",
	"LocalDateTime":  "java.time",
	"LocalTime":      "java.time",
	"OffsetDateTime": "java.time",
	"ZonedDateTime":  "java.time",
}

// javaType splits a type token into the name written in source and the
// imports it needs. A plain qualified name is shortened to its simple name.
// Inside generic or array tokens, qualified names are left as written and
// known simple names are imported.
func javaType(token string) (string, []string) {
	token = strings.TrimSpace(token)
	if !strings.ContainsAny(token, "<[") {
		if strings.Contains(token, ".") {
			return render.SimpleName(token), []string{token}
		}
		if pkg, ok := knownTypes[token]; ok {
			return token, []string{pkg + "." + token}
		}
		return token, nil
	}
	var imports []string
	parts := strings.FieldsFunc(token, func(r rune) bool {
		return r != '.' && r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, p := range parts {
		if pkg, ok := knownTypes[p]; ok {
			imports = append(imports, pkg+"."+p)
		}
	}
	return token, imports
}

// box returns the wrapper type of a primitive, or t unchanged.
func box(t string) string {
	if b, ok := boxed[t]; ok {
		return b
	}
	return t
}
