package main

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/matthewbaird/jakartagen/internal/descriptor"
	"github.com/matthewbaird/jakartagen/internal/generate"
	"github.com/matthewbaird/jakartagen/internal/syncstate"
)

var force bool

var datasourceCmd = &cobra.Command{
	Use:   "datasource",
	Short: "Declare the data source in web.xml, reference it from persistence.xml and add the JDBC driver",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(cmd)
		if err != nil {
			return err
		}
		ds, dep, err := p.cfg.DataSource.Resolve(p.coords.ArtifactID)
		if err != nil {
			return err
		}

		if err := p.apply(syncstate.CategoryJDBC, ds.Name, p.cfg.WebXMLPath(), p.newWebApp,
			func(doc *etree.Document) (bool, error) { return descriptor.AddDataSourceDefinition(doc, ds) },
		); err != nil {
			return err
		}
		if err := p.apply(syncstate.CategoryJDBC, p.opts.Unit+":"+ds.Name, p.cfg.PersistencePath(), p.newPersistence,
			func(doc *etree.Document) (bool, error) {
				return descriptor.AddDataSourceReference(doc, p.opts.Unit, ds.Name)
			},
		); err != nil {
			return err
		}
		if err := p.addDependency(dep); err != nil {
			return err
		}
		return p.state.Save()
	},
}

var facesCmd = &cobra.Command{
	Use:   "faces",
	Short: "Register the Faces servlet in web.xml and add the Faces API dependency",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(cmd)
		if err != nil {
			return err
		}
		if err := p.apply(syncstate.CategoryFaces, descriptor.FacesServletName, p.cfg.WebXMLPath(), p.newWebApp,
			descriptor.AddFacesServlet,
		); err != nil {
			return err
		}
		if err := p.addDependency(facesAPI(p.opts.Target)); err != nil {
			return err
		}
		return p.state.Save()
	},
}

func init() {
	for _, c := range []*cobra.Command{datasourceCmd, facesCmd} {
		c.Flags().BoolVar(&force, "force", false, "re-apply changes recorded as done by an earlier run")
	}
}

// facesAPI is the Faces API artifact of the target platform.
func facesAPI(t generate.TargetVersion) descriptor.Dependency {
	dep := descriptor.Dependency{GroupID: "jakarta.faces", ArtifactID: "jakarta.faces-api", Version: "4.0.1", Scope: "provided"}
	if t == generate.Jakarta11 {
		dep.Version = "4.1.0"
	}
	return dep
}

func (p *project) newWebApp() *etree.Document {
	return descriptor.NewWebApp(p.opts.Target.WebAppVersion())
}

func (p *project) newPersistence() *etree.Document {
	return descriptor.NewPersistence(p.opts.Unit, p.opts.Target.PersistenceVersion())
}

// apply runs one descriptor change unless the state file says it was already
// applied. Hand-removed entries therefore stay removed until --force.
func (p *project) apply(category, key, rel string, create func() *etree.Document, fn func(*etree.Document) (bool, error)) error {
	if !force && p.state.WasApplied(category, key) {
		p.log.Debug("already applied", "category", category, "key", key)
		return nil
	}
	changed, err := descriptor.Edit(p.path(rel), create, fn)
	if err != nil {
		return fmt.Errorf("%s: %w", rel, err)
	}
	if changed {
		fmt.Printf("Updated %s: %s %s\n", rel, category, key)
	}
	p.state.RecordApplied(category, key)
	return nil
}

func (p *project) addDependency(dep descriptor.Dependency) error {
	if dep.GroupID == "" {
		return nil
	}
	return p.apply(syncstate.CategoryDependency, dep.Key(), "pom.xml", nil,
		func(doc *etree.Document) (bool, error) { return descriptor.AddDependency(doc, dep) },
	)
}
