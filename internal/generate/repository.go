package generate

import (
	"fmt"

	"github.com/matthewbaird/jakartagen/internal/render"
)

// TargetVersion selects the Jakarta EE release generated code is written for.
type TargetVersion string

const (
	// Jakarta10 repositories are hand-written interfaces with an
	// EntityManager-backed implementation.
	Jakarta10 TargetVersion = "jakarta10"
	// Jakarta11 repositories are Jakarta Data interfaces implemented by the
	// runtime.
	Jakarta11 TargetVersion = "jakarta11"
)

// ParseTargetVersion validates a configured target.
func ParseTargetVersion(s string) (TargetVersion, error) {
	switch t := TargetVersion(s); t {
	case Jakarta10, Jakarta11:
		return t, nil
	case "":
		return Jakarta10, nil
	}
	return "", fmt.Errorf("unknown target %q (want %s or %s)", s, Jakarta10, Jakarta11)
}

// PersistenceVersion is the persistence.xml schema version for the target.
func (t TargetVersion) PersistenceVersion() string {
	if t == Jakarta11 {
		return "3.2"
	}
	return "3.0"
}

// WebAppVersion is the web.xml schema version for the target.
func (t TargetVersion) WebAppVersion() string {
	if t == Jakarta11 {
		return "6.1"
	}
	return "6.0"
}

// RepositoryBuilder plans the repository artifacts of an entity for one
// target version.
type RepositoryBuilder struct {
	Target TargetVersion
}

// Streaming reports whether findAll returns a Stream rather than a List.
func (b RepositoryBuilder) Streaming() bool {
	return b.Target == Jakarta11
}

// Plan returns the repository interface and, where the target needs one, its
// implementation.
func (b RepositoryBuilder) Plan(ctx render.RepositoryContext, entityImport string, idImports []string, dir string) []planned {
	switch b.Target {
	case Jakarta11:
		im := render.NewImports(ctx.Package).Add(entityImport, "jakarta.data.repository.Repository").Add(idImports...)
		switch {
		case ctx.Crud():
			im.Add("jakarta.data.repository.CrudRepository")
		case ctx.Basic():
			im.Add("jakarta.data.repository.BasicRepository")
		default:
			im.Add("jakarta.data.repository.DataRepository")
		}
		ctx.Imports = im.List()
		return []planned{{
			kind:     KindRepository,
			template: render.TemplateDataRepository,
			path:     javaPath(dir, ctx.Class),
			data:     ctx,
		}}
	default:
		iface := ctx
		im := render.NewImports(ctx.Package).Add(entityImport).Add(idImports...)
		if ctx.Basic() {
			im.Add("java.util.List", "java.util.Optional")
		}
		iface.Imports = im.List()

		impl := ctx
		im = render.NewImports(ctx.Package).Add(entityImport,
			"jakarta.enterprise.context.ApplicationScoped",
			"jakarta.persistence.EntityManager",
			"jakarta.persistence.PersistenceContext",
			"jakarta.transaction.Transactional",
		).Add(idImports...)
		if ctx.Basic() {
			im.Add("java.util.List", "java.util.Optional")
		}
		impl.Imports = im.List()

		return []planned{
			{kind: KindRepository, template: render.TemplateRepository, path: javaPath(dir, ctx.Class), data: iface},
			{kind: KindRepositoryImpl, template: render.TemplateRepositoryImpl, path: javaPath(dir, ctx.ImplClass), data: impl},
		}
	}
}
