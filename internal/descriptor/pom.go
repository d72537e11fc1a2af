package descriptor

import (
	"fmt"
	"sort"

	"github.com/beevik/etree"

	"github.com/matthewbaird/jakartagen/internal/naming"
)

// projectOrder is the conventional POM element order.
var projectOrder = []string{
	"modelVersion", "parent", "groupId", "artifactId", "version", "packaging",
	"name", "description", "url", "properties", "dependencyManagement",
	"dependencies", "build", "profiles",
}

// Dependency is a Maven dependency.
type Dependency struct {
	GroupID    string `yaml:"groupId"`
	ArtifactID string `yaml:"artifactId"`
	Version    string `yaml:"version"`
	Scope      string `yaml:"scope"`
}

// Key is the groupId:artifactId pair dependencies are matched on.
func (d Dependency) Key() string {
	return d.GroupID + ":" + d.ArtifactID
}

// ProjectCoordinates reads groupId and artifactId from a POM. The groupId
// may be inherited from <parent>. A missing value wraps
// ErrCoordinateNotFound.
func ProjectCoordinates(doc *etree.Document) (naming.Coordinates, error) {
	p, err := root(doc, "project")
	if err != nil {
		return naming.Coordinates{}, err
	}
	c := naming.Coordinates{
		GroupID:    childText(p, "groupId"),
		ArtifactID: childText(p, "artifactId"),
	}
	if c.GroupID == "" {
		if parent := p.SelectElement("parent"); parent != nil {
			c.GroupID = childText(parent, "groupId")
		}
	}
	if c.GroupID == "" {
		return c, fmt.Errorf("groupId: %w", ErrCoordinateNotFound)
	}
	if c.ArtifactID == "" {
		return c, fmt.Errorf("artifactId: %w", ErrCoordinateNotFound)
	}
	return c, nil
}

// AddDependency adds dep to <dependencies> unless a dependency with the same
// groupId and artifactId is present.
func AddDependency(doc *etree.Document, dep Dependency) (bool, error) {
	p, err := root(doc, "project")
	if err != nil {
		return false, err
	}
	deps := p.SelectElement("dependencies")
	if deps == nil {
		deps = etree.NewElement("dependencies")
		insertOrdered(p, deps, projectOrder)
	}
	for _, d := range deps.SelectElements("dependency") {
		if childText(d, "groupId") == dep.GroupID && childText(d, "artifactId") == dep.ArtifactID {
			return false, nil
		}
	}
	d := deps.CreateElement("dependency")
	d.AddChild(textElement("groupId", dep.GroupID))
	d.AddChild(textElement("artifactId", dep.ArtifactID))
	if dep.Version != "" {
		d.AddChild(textElement("version", dep.Version))
	}
	if dep.Scope != "" {
		d.AddChild(textElement("scope", dep.Scope))
	}
	return true, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
