package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/matthewbaird/jakartagen/internal/descriptor"
	"github.com/matthewbaird/jakartagen/internal/naming"
	"github.com/matthewbaird/jakartagen/internal/schema"
	"github.com/matthewbaird/jakartagen/internal/syncstate"
)

// DefaultPersistencePath is where persistence.xml lives in a Maven project.
var DefaultPersistencePath = filepath.Join("src", "main", "resources", "META-INF", "persistence.xml")

// Request is one pipeline invocation.
type Request struct {
	// SchemaPath is the entity JSON file. Schema is used when it is empty.
	SchemaPath string
	Schema     []byte

	// PersistencePath is relative to the project root; defaults to
	// DefaultPersistencePath.
	PersistencePath string

	// DescriptorsOnly registers entity classes without generating sources.
	DescriptorsOnly bool
}

// Pipeline runs validation, generation and descriptor merging for a project.
type Pipeline struct {
	parser *schema.Parser
	gen    *Generator
	state  *syncstate.Store
	root   string
	log    *slog.Logger
}

// NewPipeline wires a pipeline for the project at root. state gates the
// descriptor changes; it is saved at the end of every run that gets that far.
func NewPipeline(parser *schema.Parser, gen *Generator, state *syncstate.Store, root string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{parser: parser, gen: gen, state: state, root: root, log: logger}
}

// Run executes one pipeline pass. The returned error is set only when the run
// stopped early (invalid document, missing coordinates, cancellation, state
// file IO); failures of single entities or merges are in the report.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	r := &Report{RunID: uuid.NewString(), State: StateIdle}
	log := p.log.With("run", r.RunID)

	fail := func(err error) (*Report, error) {
		r.State = StateFailed
		log.Debug("pipeline failed", "err", err)
		return r, err
	}
	enter := func(s State) {
		r.State = s
		log.Debug("pipeline state", "state", s)
	}

	enter(StateValidating)
	var (
		doc *schema.Document
		err error
	)
	if req.SchemaPath != "" {
		doc, err = p.parser.LoadFile(req.SchemaPath)
	} else {
		doc, err = p.parser.Load(req.Schema)
	}
	if err != nil {
		return fail(err)
	}

	enter(StateDeriving)
	coords := p.gen.opts.Coordinates
	if coords.GroupID == "" && coords.ArtifactID == "" {
		return fail(fmt.Errorf("deriving packages: %w", descriptor.ErrCoordinateNotFound))
	}

	enter(StateRendering)
	var classes []string
	for _, entry := range doc.Entries {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		res := EntityResult{Index: entry.Index, Name: entry.Name}
		if entry.Err != nil {
			res.Err = entry.Err
			log.Warn("entity rejected", "index", entry.Index, "entity", entry.Name, "err", entry.Err)
			r.Entities = append(r.Entities, res)
			continue
		}
		if req.DescriptorsOnly {
			classes = append(classes, naming.Qualified(coords.Package(naming.LayerEntity), naming.ClassName(entry.Entity.Name)))
			r.Entities = append(r.Entities, res)
			continue
		}
		res.Artifacts, res.Err = p.gen.GenerateEntityArtifacts(entry.Entity)
		if res.Err != nil {
			log.Warn("entity failed", "entity", entry.Name, "err", res.Err)
		} else {
			for _, a := range res.Artifacts {
				if a.Kind == KindEntity {
					classes = append(classes, a.Class)
				}
			}
		}
		r.Entities = append(r.Entities, res)
	}
	if !req.DescriptorsOnly && len(classes) > 0 {
		shared, err := p.gen.RenderShared()
		if err == nil {
			err = p.gen.WriteAll(shared)
		}
		r.Shared = shared
		if err != nil {
			r.Merges = append(r.Merges, MergeResult{Descriptor: "RestApplication", Err: err})
		}
	}

	enter(StateMerging)
	path := req.PersistencePath
	if path == "" {
		path = DefaultPersistencePath
	}
	r.Merges = append(r.Merges, p.RegisterClasses(path, classes)...)

	enter(StatePersisting)
	p.state.SetLastRun(r.RunID)
	if !p.gen.writer.DryRun {
		if err := p.state.Save(); err != nil {
			return fail(err)
		}
	}

	enter(StateDone)
	return r, nil
}

// RegisterClasses lists classes as managed classes of the configured
// persistence unit in the persistence.xml at path (relative to the project
// root), creating the descriptor when it does not exist. Classes recorded in
// the state store by an earlier run are not added again.
func (p *Pipeline) RegisterClasses(path string, classes []string) []MergeResult {
	var pending []string
	unit := p.gen.opts.Unit
	for _, c := range classes {
		if !p.state.WasApplied(syncstate.CategoryEntity, unit+":"+c) {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	full := filepath.Join(p.root, path)
	doc, err := descriptor.Load(full)
	created := false
	switch {
	case errors.Is(err, fs.ErrNotExist):
		doc = descriptor.NewPersistence(unit, p.gen.opts.Target.PersistenceVersion())
		created = true
	case err != nil:
		return []MergeResult{{Descriptor: path, Err: err}}
	}

	var (
		results []MergeResult
		applied []string
		changed = created
	)
	for _, c := range pending {
		res := MergeResult{Descriptor: path, Change: "class " + c}
		res.Changed, res.Err = descriptor.AddManagedClass(doc, unit, c)
		if res.Err != nil {
			var nf *descriptor.PersistenceUnitNotFoundError
			if errors.As(res.Err, &nf) {
				// every class fails the same way
				return []MergeResult{res}
			}
			results = append(results, res)
			continue
		}
		changed = changed || res.Changed
		applied = append(applied, c)
		results = append(results, res)
	}

	if changed && !p.gen.writer.DryRun {
		if err := descriptor.Save(doc, full); err != nil {
			return append(results, MergeResult{Descriptor: path, Err: err})
		}
	}
	for _, c := range applied {
		p.state.RecordApplied(syncstate.CategoryEntity, unit+":"+c)
	}
	p.log.Debug("persistence classes", "path", path, "created", created, "added", len(applied))
	return results
}
