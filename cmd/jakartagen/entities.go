package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/jakartagen/internal/generate"
	"github.com/matthewbaird/jakartagen/internal/render"
	"github.com/matthewbaird/jakartagen/internal/schema"
)

var (
	watch     bool
	dryRun    bool
	noBeans   bool
	noREST    bool
	templates string
)

var entitiesCmd = &cobra.Command{
	Use:   "entities <entities.json>",
	Short: "Generate entity, repository, DTO, mapper, service, bean, view and REST sources",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(cmd)
		if err != nil {
			return err
		}
		if noBeans {
			p.opts.Beans, p.opts.Views = false, false
		}
		if noREST {
			p.opts.REST = false
		}
		pipeline, err := newPipeline(p, dryRun)
		if err != nil {
			return err
		}
		req := generate.Request{SchemaPath: args[0], PersistencePath: p.cfg.PersistencePath()}

		run := func(ctx context.Context) error {
			r, err := pipeline.Run(ctx, req)
			if err != nil {
				return err
			}
			return printReport(r)
		}
		if !watch {
			return run(cmd.Context())
		}
		if err := run(cmd.Context()); err != nil {
			p.log.Error("generation failed", "err", err)
		}
		p.log.Info("watching for changes", "path", args[0])
		return generate.Watch(cmd.Context(), args[0], p.log, run)
	},
}

var persistenceCmd = &cobra.Command{
	Use:   "persistence <entities.json>",
	Short: "Register entity classes in persistence.xml, creating it if needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(cmd)
		if err != nil {
			return err
		}
		pipeline, err := newPipeline(p, false)
		if err != nil {
			return err
		}
		r, err := pipeline.Run(cmd.Context(), generate.Request{
			SchemaPath:      args[0],
			PersistencePath: p.cfg.PersistencePath(),
			DescriptorsOnly: true,
		})
		if err != nil {
			return err
		}
		return printReport(r)
	},
}

func init() {
	entitiesCmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate whenever the schema file changes")
	entitiesCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	entitiesCmd.Flags().BoolVar(&noBeans, "no-beans", false, "skip Faces managed beans and views")
	entitiesCmd.Flags().BoolVar(&noREST, "no-rest", false, "skip REST resources")
	entitiesCmd.Flags().StringVar(&templates, "templates", "", "directory of .tmpl files overriding the built-in templates")
}

func newPipeline(p *project, dry bool) (*generate.Pipeline, error) {
	dir := templates
	if dir == "" {
		dir = p.cfg.Templates
	}
	var (
		engine *render.Engine
		err    error
	)
	if dir != "" {
		if !filepath.IsAbs(dir) {
			dir = p.path(dir)
		}
		engine, err = render.NewWithOverrides(os.DirFS(dir))
	} else {
		engine, err = render.New()
	}
	if err != nil {
		return nil, err
	}
	parser, err := schema.NewParser()
	if err != nil {
		return nil, err
	}
	gen := generate.NewGenerator(engine, p.root, p.opts, p.log)
	gen.SetDryRun(dry)
	return generate.NewPipeline(parser, gen, p.state, p.root, p.log), nil
}

func printReport(r *generate.Report) error {
	for _, a := range r.Artifacts() {
		switch a.Status {
		case generate.StatusWritten:
			fmt.Printf("Generated %s\n", a.Path)
		case generate.StatusSkipped:
			fmt.Printf("Kept %s (already exists)\n", a.Path)
		}
	}
	for _, m := range r.Merges {
		if m.Err == nil && m.Changed {
			fmt.Printf("Updated %s: %s\n", m.Descriptor, m.Change)
		}
	}

	failed := 0
	for _, e := range r.Entities {
		if !e.OK() {
			failed++
		}
	}
	fmt.Printf("jakartagen: %d entities, %d files written, %d unchanged, %d kept, %d failed\n",
		len(r.Entities), r.Count(generate.StatusWritten), r.Count(generate.StatusUnchanged),
		r.Count(generate.StatusSkipped), failed)

	if err := r.Err(); err != nil {
		return err
	}
	if r.Failed() {
		return errors.New("generation failed")
	}
	return nil
}
