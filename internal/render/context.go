package render

import (
	"sort"

	"github.com/matthewbaird/jakartagen/internal/schema"
)

// Field is a property as seen by the templates.
type Field struct {
	Name      string
	Type      string // simple or generic type as written in source
	Accessor  string // "Title" for getTitle/setTitle
	IsID      bool
	Generated bool // identifier values come from the database
	// DefaultGenerator makes the entity template write
	// @GeneratedValue(strategy = IDENTITY); false when the schema declares
	// its own generator.
	DefaultGenerator bool
	Annotations      []schema.Annotation
}

// Relation is an association as seen by the entity template.
type Relation struct {
	Name       string
	Target     string
	Kind       schema.RelationKind
	MappedBy   string
	Collection bool
	Accessor   string
}

// EntityContext feeds entity.java.
type EntityContext struct {
	Package   string
	Class     string
	Table     string
	Imports   []string
	ID        Field
	Fields    []Field
	Relations []Relation
}

// RepositoryContext feeds repository.java, data_repository.java and
// repository_impl.java.
type RepositoryContext struct {
	Package   string
	Class     string
	ImplClass string
	Entity    string
	IDType    string // boxed
	Kind      schema.RepositoryKind
	Unit      string // persistence unit used by the EntityManager
	Imports   []string
}

// Crud reports whether the repository has insert/update on top of the basic
// operations.
func (c RepositoryContext) Crud() bool { return c.Kind == schema.RepositoryCrud }

// Basic reports whether the repository has the basic operations.
func (c RepositoryContext) Basic() bool { return c.Kind != schema.RepositoryCustom }

// DTOContext feeds dto.java.
type DTOContext struct {
	Package string
	Class   string
	Imports []string
	Fields  []Field
}

// MapperContext feeds mapper.java.
type MapperContext struct {
	Package string
	Class   string
	Entity  string
	DTO     string
	Imports []string
	Fields  []Field
}

// ServiceContext feeds service.java.
type ServiceContext struct {
	Package    string
	Class      string
	Entity     string
	DTO        string
	Repository string
	Mapper     string
	ID         Field
	IDType     string // boxed
	Kind       schema.RepositoryKind
	Streaming  bool // repository findAll returns a Stream
	Imports    []string
}

// Crud mirrors RepositoryContext.Crud.
func (c ServiceContext) Crud() bool { return c.Kind == schema.RepositoryCrud }

// Basic mirrors RepositoryContext.Basic.
func (c ServiceContext) Basic() bool { return c.Kind != schema.RepositoryCustom }

// BeanContext feeds bean.java.
type BeanContext struct {
	Package  string
	Class    string
	Variable string
	Service  string
	DTO      string
	ID       Field
	Imports  []string
}

// ViewContext feeds view.xhtml.
type ViewContext struct {
	Title  string
	Bean   string
	ID     Field
	Fields []Field
}

// ResourceContext feeds resource.java.
type ResourceContext struct {
	Package string
	Class   string
	Path    string
	Service string
	DTO     string
	IDType  string
	Imports []string
}

// RestApplicationContext feeds rest_application.java.
type RestApplicationContext struct {
	Package string
	Class   string
	Path    string
}

// Imports collects Java imports, dropping java.lang and same-package names.
type Imports struct {
	pkg  string
	seen map[string]bool
}

// NewImports starts an import set for a class in pkg.
func NewImports(pkg string) *Imports {
	return &Imports{pkg: pkg, seen: make(map[string]bool)}
}

// Add records qualified names. Unqualified or java.lang names are ignored.
func (im *Imports) Add(qualified ...string) *Imports {
	for _, q := range qualified {
		i := lastDot(q)
		if i < 0 || q[:i] == "java.lang" || q[:i] == im.pkg {
			continue
		}
		im.seen[q] = true
	}
	return im
}

// List returns the imports sorted.
func (im *Imports) List() []string {
	out := make([]string, 0, len(im.seen))
	for q := range im.seen {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '.':
			return i
		case '<', '[', ' ':
			return -1
		}
	}
	return -1
}
