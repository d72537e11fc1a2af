// Package config loads jakartagen settings from jakartagen.yaml in the project
// root, overlaid with JAKARTAGEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	env "github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/matthewbaird/jakartagen/internal/descriptor"
	"github.com/matthewbaird/jakartagen/internal/generate"
	"github.com/matthewbaird/jakartagen/internal/naming"
	"github.com/matthewbaird/jakartagen/internal/syncstate"
)

// FileName is the configuration file looked up in the project root.
const FileName = "jakartagen.yaml"

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "JAKARTAGEN_"

// Config holds all settings. Zero-valued yaml keys and unset variables keep
// the defaults from Default.
type Config struct {
	GroupID    string `yaml:"groupId" env:"GROUP_ID"`
	ArtifactID string `yaml:"artifactId" env:"ARTIFACT_ID"`
	Target     string `yaml:"target" env:"TARGET"`
	Unit       string `yaml:"persistenceUnit" env:"PERSISTENCE_UNIT"`

	JavaRoot      string `yaml:"javaRoot" env:"JAVA_ROOT"`
	WebRoot       string `yaml:"webRoot" env:"WEB_ROOT"`
	ResourcesRoot string `yaml:"resourcesRoot" env:"RESOURCES_ROOT"`
	StateFile     string `yaml:"stateFile" env:"STATE_FILE"`
	Templates     string `yaml:"templates" env:"TEMPLATES"` // override directory

	Beans    bool   `yaml:"beans" env:"BEANS"`
	Views    bool   `yaml:"views" env:"VIEWS"`
	REST     bool   `yaml:"rest" env:"REST"`
	RESTPath string `yaml:"restPath" env:"REST_PATH"`
	Verbose  bool   `yaml:"verbose" env:"VERBOSE"`

	DataSource DataSource `yaml:"dataSource" envPrefix:"DATASOURCE_"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Target:        string(generate.Jakarta10),
		Unit:          "defaultPU",
		JavaRoot:      filepath.Join("src", "main", "java"),
		WebRoot:       filepath.Join("src", "main", "webapp"),
		ResourcesRoot: filepath.Join("src", "main", "resources"),
		StateFile:     syncstate.DefaultPath,
		Beans:         true,
		Views:         true,
		REST:          true,
		RESTPath:      "api",
		DataSource: DataSource{
			Database: "h2",
			Name:     "java:app/jdbc/Default",
		},
	}
}

// Load reads root/jakartagen.yaml when present and applies the environment.
func Load(root string) (*Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have a fixed set of choices.
func (c *Config) Validate() error {
	if _, err := generate.ParseTargetVersion(c.Target); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Unit == "" {
		return errors.New("config: persistenceUnit must not be empty")
	}
	if _, ok := drivers[c.DataSource.Database]; !ok && c.DataSource.Database != "" {
		return fmt.Errorf("config: unknown database %q", c.DataSource.Database)
	}
	return nil
}

// Coordinates returns the configured groupId/artifactId, filling whatever is
// missing from root/pom.xml.
func (c *Config) Coordinates(root string) (naming.Coordinates, error) {
	coords := naming.Coordinates{GroupID: c.GroupID, ArtifactID: c.ArtifactID}
	if coords.GroupID != "" && coords.ArtifactID != "" {
		return coords, nil
	}
	doc, err := descriptor.Load(filepath.Join(root, "pom.xml"))
	if err != nil {
		return coords, fmt.Errorf("%w: %w", descriptor.ErrCoordinateNotFound, err)
	}
	pom, err := descriptor.ProjectCoordinates(doc)
	if err != nil {
		return coords, err
	}
	if coords.GroupID == "" {
		coords.GroupID = pom.GroupID
	}
	if coords.ArtifactID == "" {
		coords.ArtifactID = pom.ArtifactID
	}
	return coords, nil
}

// Options converts the config into generator options.
func (c *Config) Options(coords naming.Coordinates) (generate.Options, error) {
	target, err := generate.ParseTargetVersion(c.Target)
	if err != nil {
		return generate.Options{}, err
	}
	return generate.Options{
		Coordinates: coords,
		Target:      target,
		Unit:        c.Unit,
		JavaRoot:    c.JavaRoot,
		WebRoot:     c.WebRoot,
		Beans:       c.Beans,
		Views:       c.Views && c.Beans,
		REST:        c.REST,
		RESTPath:    c.RESTPath,
	}, nil
}

// PersistencePath is persistence.xml relative to the project root.
func (c *Config) PersistencePath() string {
	return filepath.Join(c.ResourcesRoot, "META-INF", "persistence.xml")
}

// WebXMLPath is web.xml relative to the project root.
func (c *Config) WebXMLPath() string {
	return filepath.Join(c.WebRoot, "WEB-INF", "web.xml")
}
