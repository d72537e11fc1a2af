// Package schema parses the entity definition documents that drive generation.
//
// A document is either a single entity object or an object with an "entities"
// array. Each entity lists its fields in declaration order; that order is kept
// all the way through to the generated sources.
package schema

// RepositoryKind selects which repository contract an entity gets.
type RepositoryKind string

const (
	RepositoryCrud   RepositoryKind = "crud"
	RepositoryBasic  RepositoryKind = "basic"
	RepositoryCustom RepositoryKind = "custom"
)

// RelationKind is the JPA association type of a relation.
type RelationKind string

const (
	OneToOne   RelationKind = "OneToOne"
	OneToMany  RelationKind = "OneToMany"
	ManyToOne  RelationKind = "ManyToOne"
	ManyToMany RelationKind = "ManyToMany"
)

// Collection reports whether the relation maps to a java.util.List.
func (k RelationKind) Collection() bool {
	return k == OneToMany || k == ManyToMany
}

// DefaultIDType and DefaultIDName describe the identifier synthesized for
// entities that do not mark one.
const (
	DefaultIDType = "Long"
	DefaultIDName = "id"
)

// Entity is one parsed entity definition. It is not modified after parsing.
type Entity struct {
	Name       string
	TableName  string
	Fields     []Field
	Repository RepositoryKind
	Relations  []Relation
}

// Field is a persistent attribute of an entity.
type Field struct {
	Name        string
	Type        string // Java type token, e.g. "String", "Long", "java.time.LocalDate"
	IsID        bool
	Synthesized bool // true for the default identifier added by the parser
	Annotations []Annotation
}

// Relation is an association from the owning entity to another entity.
type Relation struct {
	Name     string
	Target   string
	Kind     RelationKind
	MappedBy string
}

// Annotation is a qualified annotation name plus its ordered properties.
// Props is nil for marker annotations such as @jakarta.persistence.Lob.
type Annotation struct {
	Name  string
	Props []Property
}

// Property is a single annotation element.
type Property struct {
	Key   string
	Value Value
}

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	StringValue ValueKind = iota
	NumberValue
	BoolValue
	ListValue
)

// Value is an annotation element value. Exactly one variant is set, selected
// by Kind. Numbers keep their source literal so 1.50 stays 1.50.
type Value struct {
	Kind   ValueKind
	String string
	Number string
	Bool   bool
	List   []Value
}

// Str returns a string Value.
func Str(s string) Value { return Value{Kind: StringValue, String: s} }

// Num returns a numeric Value from its literal text.
func Num(lit string) Value { return Value{Kind: NumberValue, Number: lit} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{Kind: BoolValue, Bool: b} }

// List returns a list Value.
func List(vs ...Value) Value { return Value{Kind: ListValue, List: vs} }

// IdentifierField returns the first field marked as identifier, in
// declaration order.
func IdentifierField(e *Entity) (Field, bool) {
	for _, f := range e.Fields {
		if f.IsID {
			return f, true
		}
	}
	return Field{}, false
}

// ID returns the entity identifier. Parsed entities always carry one; for a
// hand-built Entity without a marked field the default Long id is returned.
func (e *Entity) ID() Field {
	if f, ok := IdentifierField(e); ok {
		return f
	}
	return defaultID()
}

// Table returns the explicit table name, or "" when the JPA default applies.
func (e *Entity) Table() string {
	return e.TableName
}

// Imports returns the qualified annotation names used by the entity's fields,
// deduplicated, in first-use order.
func (e *Entity) Imports() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range e.Fields {
		for _, a := range f.Annotations {
			if !seen[a.Name] {
				seen[a.Name] = true
				out = append(out, a.Name)
			}
		}
	}
	return out
}

func defaultID() Field {
	return Field{Name: DefaultIDName, Type: DefaultIDType, IsID: true, Synthesized: true}
}
