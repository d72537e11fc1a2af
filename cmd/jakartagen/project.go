package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/jakartagen/internal/config"
	"github.com/matthewbaird/jakartagen/internal/generate"
	"github.com/matthewbaird/jakartagen/internal/naming"
	"github.com/matthewbaird/jakartagen/internal/syncstate"
)

// project is the resolved context every command works in.
type project struct {
	root   string
	cfg    *config.Config
	coords naming.Coordinates
	opts   generate.Options
	state  *syncstate.Store
	log    *slog.Logger
}

func openProject(cmd *cobra.Command) (*project, error) {
	root, err := findProjectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.Target = target
	}
	if flags.Changed("unit") {
		cfg.Unit = unit
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	coords, err := cfg.Coordinates(root)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options(coords)
	if err != nil {
		return nil, err
	}
	state, err := syncstate.Open(filepath.Join(root, cfg.StateFile))
	if err != nil {
		return nil, err
	}
	logger.Debug("project", "root", root, "group", coords.GroupID, "artifact", coords.ArtifactID, "target", opts.Target)
	return &project{root: root, cfg: cfg, coords: coords, opts: opts, state: state, log: logger}, nil
}

// path resolves a project-relative path.
func (p *project) path(rel string) string {
	return filepath.Join(p.root, rel)
}

// findProjectRoot returns --project, or walks up from cwd to the directory
// containing pom.xml.
func findProjectRoot() (string, error) {
	if projectDir != "" {
		return filepath.Abs(projectDir)
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "pom.xml")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("could not find project root (no pom.xml found)")
		}
		dir = parent
	}
}
