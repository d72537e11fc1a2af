// Package naming derives Java package, class and file names from project
// coordinates and entity names. Everything here is a pure function.
package naming

import (
	"path"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// Layer is an architectural layer; each maps to a distinct package suffix.
type Layer string

const (
	LayerEntity     Layer = "entity"
	LayerRepository Layer = "repository"
	LayerMapper     Layer = "mapper"
	LayerDTO        Layer = "dto"
	LayerService    Layer = "service"
	LayerProvider   Layer = "provider"
	LayerFaces      Layer = "faces"
	LayerResources  Layer = "resources"
)

// Layers lists every layer in generation order.
var Layers = []Layer{
	LayerEntity, LayerRepository, LayerMapper, LayerDTO,
	LayerService, LayerProvider, LayerFaces, LayerResources,
}

// Coordinates are the project's Maven group and artifact identifiers.
type Coordinates struct {
	GroupID    string `yaml:"groupId"`
	ArtifactID string `yaml:"artifactId"`
}

// Package returns the package of layer for these coordinates.
func (c Coordinates) Package(layer Layer) string {
	return DerivePackage(c.GroupID, c.ArtifactID, layer)
}

// DerivePackage builds "<group>.<artifact>.<layer>". Characters that are not
// letters or digits become dots. Callers must supply non-empty coordinates:
// empty ones yield ".<layer>".
func DerivePackage(groupID, artifactID string, layer Layer) string {
	base := sanitize(groupID)
	if a := sanitize(artifactID); a != "" {
		if base != "" {
			base += "."
		}
		base += a
	}
	return base + "." + string(layer)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '.'
	}, s)
}

// PackageDir converts a dotted package to a slash-separated relative path.
func PackageDir(pkg string) string {
	return path.Join(strings.Split(pkg, ".")...)
}

// Qualified joins a package and a simple class name.
func Qualified(pkg, class string) string {
	return pkg + "." + class
}

// ClassName normalizes an entity name to UpperCamelCase.
func ClassName(entity string) string {
	return inflect.Camelize(entity)
}

func RepositoryName(entity string) string     { return ClassName(entity) + "Repository" }
func RepositoryImplName(entity string) string { return ClassName(entity) + "RepositoryImpl" }
func MapperName(entity string) string         { return ClassName(entity) + "Mapper" }
func DTOName(entity string) string            { return ClassName(entity) + "DTO" }
func ServiceName(entity string) string        { return ClassName(entity) + "Service" }
func BeanName(entity string) string           { return ClassName(entity) + "Bean" }
func ResourceName(entity string) string       { return ClassName(entity) + "Resource" }

// BeanVariable is the EL name a managed bean is exposed under, e.g.
// "orderLineBean".
func BeanVariable(entity string) string {
	return inflect.CamelizeDownFirst(BeanName(entity))
}

// Variable is the lowerCamel local variable name for an entity.
func Variable(entity string) string {
	return inflect.CamelizeDownFirst(ClassName(entity))
}

// ViewDir is the web-root directory holding an entity's views, e.g.
// "order-lines".
func ViewDir(entity string) string {
	return inflect.Dasherize(inflect.Pluralize(inflect.Underscore(ClassName(entity))))
}

// ResourcePath is the REST path segment for an entity, e.g. "order-lines".
func ResourcePath(entity string) string {
	return ViewDir(entity)
}

// TableName is the conventional table name, e.g. "order_lines".
func TableName(entity string) string {
	return inflect.Pluralize(inflect.Underscore(ClassName(entity)))
}

// Accessor returns the JavaBean getter or setter suffix for a property,
// e.g. "Title" for "title".
func Accessor(property string) string {
	if property == "" {
		return ""
	}
	r := []rune(property)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
