// Package generate turns validated entity schemas into Jakarta EE source
// files and runs the full scaffolding pipeline over a Maven project.
package generate

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/matthewbaird/jakartagen/internal/naming"
	"github.com/matthewbaird/jakartagen/internal/render"
	"github.com/matthewbaird/jakartagen/internal/schema"
)

// ArtifactKind names the layer an artifact belongs to.
type ArtifactKind string

const (
	KindEntity          ArtifactKind = "entity"
	KindRepository      ArtifactKind = "repository"
	KindRepositoryImpl  ArtifactKind = "repository-impl"
	KindDTO             ArtifactKind = "dto"
	KindMapper          ArtifactKind = "mapper"
	KindService         ArtifactKind = "service"
	KindBean            ArtifactKind = "bean"
	KindView            ArtifactKind = "view"
	KindResource        ArtifactKind = "resource"
	KindRestApplication ArtifactKind = "rest-application"
)

// Mutable reports whether users are expected to edit artifacts of this kind,
// in which case an existing file is never overwritten.
func (k ArtifactKind) Mutable() bool {
	switch k {
	case KindService, KindBean, KindView, KindResource, KindRestApplication:
		return true
	}
	return false
}

// Status is what happened to an artifact on disk.
type Status string

const (
	StatusPending   Status = ""
	StatusWritten   Status = "written"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
)

// Artifact is one generated file. Path is relative to the project root.
type Artifact struct {
	Kind    ArtifactKind
	Class   string // qualified Java class; empty for views
	Path    string
	Content string
	Status  Status
}

// Options configure a Generator.
type Options struct {
	Coordinates naming.Coordinates
	Target      TargetVersion
	Unit        string // persistence unit injected into repositories
	JavaRoot    string // relative to the project root
	WebRoot     string
	Beans       bool // Faces managed beans
	Views       bool // CRUD views; requires Beans
	REST        bool // Jakarta REST resources
	RESTPath    string
}

// DefaultOptions mirror a standard Maven war layout.
func DefaultOptions() Options {
	return Options{
		Target:   Jakarta10,
		Unit:     "defaultPU",
		JavaRoot: filepath.Join("src", "main", "java"),
		WebRoot:  filepath.Join("src", "main", "webapp"),
		Beans:    true,
		Views:    true,
		REST:     true,
		RESTPath: "api",
	}
}

// Generator renders and writes the artifacts of one entity at a time.
type Generator struct {
	engine *render.Engine
	repos  RepositoryBuilder
	opts   Options
	writer Writer
	log    *slog.Logger
}

// NewGenerator creates a generator writing below projectRoot.
func NewGenerator(engine *render.Engine, projectRoot string, opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		engine: engine,
		repos:  RepositoryBuilder{Target: opts.Target},
		opts:   opts,
		writer: Writer{Root: projectRoot},
		log:    logger,
	}
}

// SetDryRun makes the generator report statuses without touching disk.
func (g *Generator) SetDryRun(dry bool) { g.writer.DryRun = dry }

// Options returns the generator's configuration.
func (g *Generator) Options() Options { return g.opts }

// planned is an artifact before rendering.
type planned struct {
	kind     ArtifactKind
	class    string
	template string
	path     string
	data     any
}

// GenerateEntityArtifacts renders every artifact for e and writes them in
// order. On a write failure the artifacts already written are returned with
// the error; nothing is rolled back.
func (g *Generator) GenerateEntityArtifacts(e *schema.Entity) ([]Artifact, error) {
	arts, err := g.Render(e)
	if err != nil {
		return nil, err
	}
	for i := range arts {
		if err := g.writer.Write(&arts[i]); err != nil {
			return arts[:i], err
		}
		g.log.Debug("artifact", "entity", e.Name, "path", arts[i].Path, "status", arts[i].Status)
	}
	return arts, nil
}

// Render produces the artifacts for e without writing them.
func (g *Generator) Render(e *schema.Entity) ([]Artifact, error) {
	plan, err := g.plan(e)
	if err != nil {
		return nil, err
	}
	return g.renderPlan(plan)
}

// RenderShared produces the artifacts generated once per project rather than
// per entity.
func (g *Generator) RenderShared() ([]Artifact, error) {
	if !g.opts.REST {
		return nil, nil
	}
	pkg := g.opts.Coordinates.Package(naming.LayerProvider)
	return g.renderPlan([]planned{{
		kind:     KindRestApplication,
		class:    naming.Qualified(pkg, "RestApplication"),
		template: render.TemplateRestApplication,
		path:     g.javaFile(pkg, "RestApplication"),
		data:     render.RestApplicationContext{Package: pkg, Class: "RestApplication", Path: g.opts.RESTPath},
	}})
}

// WriteAll writes artifacts produced by Render or RenderShared.
func (g *Generator) WriteAll(arts []Artifact) error {
	for i := range arts {
		if err := g.writer.Write(&arts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) renderPlan(plan []planned) ([]Artifact, error) {
	out := make([]Artifact, 0, len(plan))
	for _, p := range plan {
		content, err := g.engine.Render(p.template, p.data)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", p.kind, err)
		}
		out = append(out, Artifact{Kind: p.kind, Class: p.class, Path: p.path, Content: content})
	}
	return out, nil
}

func (g *Generator) javaFile(pkg, class string) string {
	return javaPath(filepath.Join(g.opts.JavaRoot, naming.PackageDir(pkg)), class)
}

func javaPath(dir, class string) string {
	return filepath.Join(dir, class+".java")
}

func (g *Generator) plan(e *schema.Entity) ([]planned, error) {
	if e == nil {
		return nil, errors.New("nil entity")
	}
	c := g.opts.Coordinates
	n := newNames(e, c)
	id := n.id

	fields := make([]render.Field, 0, len(e.Fields)+1)
	var fieldImports []string
	if !hasField(e, id.Name) {
		// entities built without the parser carry no identifier field
		fields = append(fields, id)
		fieldImports = append(fieldImports, n.idImports...)
	}
	for _, f := range e.Fields {
		rf, imps := renderField(f, f.Name == id.Name)
		fields = append(fields, rf)
		fieldImports = append(fieldImports, imps...)
	}

	var plan []planned

	// entity
	im := render.NewImports(n.entityPkg).Add(fieldImports...).Add(e.Imports()...).Add(
		"java.io.Serializable",
		"java.util.Objects",
		"jakarta.persistence.Entity",
		"jakarta.persistence.Id",
	)
	if id.DefaultGenerator {
		im.Add("jakarta.persistence.GeneratedValue", "jakarta.persistence.GenerationType")
	}
	table := e.Table()
	if table != "" {
		im.Add("jakarta.persistence.Table")
	}
	relations := make([]render.Relation, 0, len(e.Relations))
	for _, r := range e.Relations {
		im.Add("jakarta.persistence." + string(r.Kind))
		if r.Kind.Collection() {
			im.Add("java.util.List", "java.util.ArrayList")
		}
		relations = append(relations, render.Relation{
			Name:       r.Name,
			Target:     naming.ClassName(r.Target),
			Kind:       r.Kind,
			MappedBy:   r.MappedBy,
			Collection: r.Kind.Collection(),
			Accessor:   naming.Accessor(r.Name),
		})
	}
	plan = append(plan, planned{
		kind:     KindEntity,
		class:    n.entityFQN,
		template: render.TemplateEntity,
		path:     g.javaFile(n.entityPkg, n.entity),
		data: render.EntityContext{
			Package:   n.entityPkg,
			Class:     n.entity,
			Table:     table,
			Imports:   im.List(),
			ID:        id,
			Fields:    fields,
			Relations: relations,
		},
	})

	// repository
	repoCtx := render.RepositoryContext{
		Package:   n.repoPkg,
		Class:     n.repo,
		ImplClass: naming.RepositoryImplName(e.Name),
		Entity:    n.entity,
		IDType:    id.Type,
		Kind:      e.Repository,
		Unit:      g.opts.Unit,
	}
	repoPlan := g.repos.Plan(repoCtx, n.entityFQN, n.idImports, filepath.Join(g.opts.JavaRoot, naming.PackageDir(n.repoPkg)))
	for i := range repoPlan {
		repoPlan[i].class = naming.Qualified(n.repoPkg, naming.RepositoryName(e.Name))
		if repoPlan[i].kind == KindRepositoryImpl {
			repoPlan[i].class = naming.Qualified(n.repoPkg, repoCtx.ImplClass)
		}
	}
	plan = append(plan, repoPlan...)

	// dto
	dtoFields := make([]render.Field, len(fields))
	copy(dtoFields, fields)
	for i := range dtoFields {
		dtoFields[i].Annotations = nil
	}
	plan = append(plan, planned{
		kind:     KindDTO,
		class:    n.dtoFQN,
		template: render.TemplateDTO,
		path:     g.javaFile(n.dtoPkg, n.dto),
		data: render.DTOContext{
			Package: n.dtoPkg,
			Class:   n.dto,
			Imports: render.NewImports(n.dtoPkg).Add(fieldImports...).Add("java.io.Serializable").List(),
			Fields:  dtoFields,
		},
	})

	// mapper
	plan = append(plan, planned{
		kind:     KindMapper,
		class:    n.mapperFQN,
		template: render.TemplateMapper,
		path:     g.javaFile(n.mapperPkg, n.mapper),
		data: render.MapperContext{
			Package: n.mapperPkg,
			Class:   n.mapper,
			Entity:  n.entity,
			DTO:     n.dto,
			Imports: render.NewImports(n.mapperPkg).Add(
				n.entityFQN, n.dtoFQN,
				"jakarta.enterprise.context.ApplicationScoped",
				"java.util.List",
			).List(),
			Fields: dtoFields,
		},
	})

	// service
	basic := e.Repository != schema.RepositoryCustom
	im = render.NewImports(n.servicePkg).Add(
		n.repoFQN, n.mapperFQN,
		"jakarta.enterprise.context.ApplicationScoped",
		"jakarta.inject.Inject",
		"jakarta.transaction.Transactional",
	)
	if basic {
		im.Add(n.entityFQN, n.dtoFQN, "java.util.List", "java.util.Optional").Add(n.idImports...)
	}
	plan = append(plan, planned{
		kind:     KindService,
		class:    n.serviceFQN,
		template: render.TemplateService,
		path:     g.javaFile(n.servicePkg, n.service),
		data: render.ServiceContext{
			Package:    n.servicePkg,
			Class:      n.service,
			Entity:     n.entity,
			DTO:        n.dto,
			Repository: n.repo,
			Mapper:     n.mapper,
			ID:         id,
			IDType:     id.Type,
			Kind:       e.Repository,
			Streaming:  g.repos.Streaming(),
			Imports:    im.List(),
		},
	})

	if !basic {
		g.log.Debug("custom repository: skipping bean, view and resource", "entity", e.Name)
		return plan, nil
	}

	if g.opts.Beans {
		beanPkg := c.Package(naming.LayerFaces)
		bean := naming.BeanName(e.Name)
		plan = append(plan, planned{
			kind:     KindBean,
			class:    naming.Qualified(beanPkg, bean),
			template: render.TemplateBean,
			path:     g.javaFile(beanPkg, bean),
			data: render.BeanContext{
				Package:  beanPkg,
				Class:    bean,
				Variable: naming.BeanVariable(e.Name),
				Service:  n.service,
				DTO:      n.dto,
				ID:       id,
				Imports: render.NewImports(beanPkg).Add(
					n.serviceFQN, n.dtoFQN,
					"jakarta.annotation.PostConstruct",
					"jakarta.faces.view.ViewScoped",
					"jakarta.inject.Inject",
					"jakarta.inject.Named",
					"java.io.Serializable",
					"java.util.List",
				).List(),
			},
		})

		if g.opts.Views && g.engine.Has(render.TemplateView) {
			plan = append(plan, planned{
				kind:     KindView,
				template: render.TemplateView,
				path:     filepath.Join(g.opts.WebRoot, naming.ViewDir(e.Name), "index.xhtml"),
				data: render.ViewContext{
					Title:  naming.ClassName(e.Name),
					Bean:   naming.BeanVariable(e.Name),
					ID:     id,
					Fields: dtoFields,
				},
			})
		}
	}

	if g.opts.REST {
		resPkg := c.Package(naming.LayerProvider)
		res := naming.ResourceName(e.Name)
		plan = append(plan, planned{
			kind:     KindResource,
			class:    naming.Qualified(resPkg, res),
			template: render.TemplateResource,
			path:     g.javaFile(resPkg, res),
			data: render.ResourceContext{
				Package: resPkg,
				Class:   res,
				Path:    naming.ResourcePath(e.Name),
				Service: n.service,
				DTO:     n.dto,
				IDType:  id.Type,
				Imports: render.NewImports(resPkg).Add(
					n.serviceFQN, n.dtoFQN,
					"jakarta.enterprise.context.RequestScoped",
					"jakarta.inject.Inject",
					"jakarta.ws.rs.Consumes",
					"jakarta.ws.rs.DELETE",
					"jakarta.ws.rs.GET",
					"jakarta.ws.rs.POST",
					"jakarta.ws.rs.PUT",
					"jakarta.ws.rs.Path",
					"jakarta.ws.rs.PathParam",
					"jakarta.ws.rs.Produces",
					"jakarta.ws.rs.core.MediaType",
					"jakarta.ws.rs.core.Response",
					"java.util.List",
				).Add(n.idImports...).List(),
			},
		})
	}
	return plan, nil
}

// names holds the derived class names and packages of one entity.
type names struct {
	id        render.Field
	idImports []string

	entity, entityPkg, entityFQN    string
	repo, repoPkg, repoFQN          string
	dto, dtoPkg, dtoFQN             string
	mapper, mapperPkg, mapperFQN    string
	service, servicePkg, serviceFQN string
}

func newNames(e *schema.Entity, c naming.Coordinates) names {
	var n names
	n.id, n.idImports = renderField(identifier(e), true)

	n.entity, n.entityPkg = naming.ClassName(e.Name), c.Package(naming.LayerEntity)
	n.repo, n.repoPkg = naming.RepositoryName(e.Name), c.Package(naming.LayerRepository)
	n.dto, n.dtoPkg = naming.DTOName(e.Name), c.Package(naming.LayerDTO)
	n.mapper, n.mapperPkg = naming.MapperName(e.Name), c.Package(naming.LayerMapper)
	n.service, n.servicePkg = naming.ServiceName(e.Name), c.Package(naming.LayerService)

	n.entityFQN = naming.Qualified(n.entityPkg, n.entity)
	n.repoFQN = naming.Qualified(n.repoPkg, n.repo)
	n.dtoFQN = naming.Qualified(n.dtoPkg, n.dto)
	n.mapperFQN = naming.Qualified(n.mapperPkg, n.mapper)
	n.serviceFQN = naming.Qualified(n.servicePkg, n.service)
	return n
}

// renderField converts a schema field. The identifier is boxed and drops an
// explicit @Id, which the entity template writes itself. A declared
// @GeneratedValue is kept and replaces the default IDENTITY generator.
func renderField(f schema.Field, isID bool) (render.Field, []string) {
	typ, imps := javaType(f.Type)
	rf := render.Field{
		Name:     f.Name,
		Type:     typ,
		Accessor: naming.Accessor(f.Name),
	}
	if !isID {
		rf.Annotations = f.Annotations
		return rf, imps
	}
	rf.IsID = true
	rf.Type = box(typ)
	rf.DefaultGenerator = generatedIDTypes[rf.Type] || generatedIDTypes[f.Type]
	rf.Generated = rf.DefaultGenerator
	for _, a := range f.Annotations {
		switch a.Name {
		case "jakarta.persistence.Id":
			continue
		case "jakarta.persistence.GeneratedValue":
			rf.Generated, rf.DefaultGenerator = true, false
		}
		rf.Annotations = append(rf.Annotations, a)
	}
	return rf, imps
}

// identifier is the marked identifier, an unmarked field named id, or the
// synthesized default.
func identifier(e *schema.Entity) schema.Field {
	if f, ok := schema.IdentifierField(e); ok {
		return f
	}
	for _, f := range e.Fields {
		if f.Name == schema.DefaultIDName {
			return f
		}
	}
	return e.ID()
}

func hasField(e *schema.Entity, name string) bool {
	for _, f := range e.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}
