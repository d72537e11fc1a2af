package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/jakartagen/internal/descriptor"
	"github.com/matthewbaird/jakartagen/internal/generate"
	"github.com/matthewbaird/jakartagen/internal/naming"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, filepath.Join("src", "main", "resources", "META-INF", "persistence.xml"), cfg.PersistencePath())
	assert.Equal(t, filepath.Join("src", "main", "webapp", "WEB-INF", "web.xml"), cfg.WebXMLPath())
}

func TestLoad_File(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
groupId: com.acme
artifactId: shop
target: jakarta11
persistenceUnit: shopPU
beans: false
dataSource:
  database: postgresql
  name: java:app/jdbc/Shop
`)
	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "com.acme", cfg.GroupID)
	assert.Equal(t, "jakarta11", cfg.Target)
	assert.Equal(t, "shopPU", cfg.Unit)
	assert.False(t, cfg.Beans)
	assert.True(t, cfg.REST, "unset keys keep defaults")
	assert.Equal(t, "postgresql", cfg.DataSource.Database)

	opts, err := cfg.Options(naming.Coordinates{GroupID: "com.acme", ArtifactID: "shop"})
	require.NoError(t, err)
	assert.Equal(t, generate.Jakarta11, opts.Target)
	assert.False(t, opts.Views, "views need beans")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "groupId: com.acme\nrest: true\n")
	t.Setenv("JAKARTAGEN_GROUP_ID", "org.example")
	t.Setenv("JAKARTAGEN_REST", "false")
	t.Setenv("JAKARTAGEN_DATASOURCE_DATABASE", "mysql")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "org.example", cfg.GroupID)
	assert.False(t, cfg.REST)
	assert.Equal(t, "mysql", cfg.DataSource.Database)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "groupId: [unterminated"},
		{"target", "target: javaee8"},
		{"unit", "persistenceUnit: \"\""},
		{"database", "dataSource:\n  database: oracle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, FileName), tt.yaml)
			_, err := Load(root)
			assert.Error(t, err)
		})
	}
}

func TestCoordinates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pom.xml"), `<project>
    <groupId>com.acme</groupId>
    <artifactId>shop</artifactId>
</project>`)

	cfg := Default()
	coords, err := cfg.Coordinates(root)
	require.NoError(t, err)
	assert.Equal(t, naming.Coordinates{GroupID: "com.acme", ArtifactID: "shop"}, coords)

	cfg.ArtifactID = "store"
	coords, err = cfg.Coordinates(root)
	require.NoError(t, err)
	assert.Equal(t, "store", coords.ArtifactID)

	_, err = Default().Coordinates(t.TempDir())
	assert.ErrorIs(t, err, descriptor.ErrCoordinateNotFound)
}

func TestDataSourceResolve(t *testing.T) {
	ds, dep, err := Default().DataSource.Resolve("shop")
	require.NoError(t, err)
	assert.Equal(t, "java:app/jdbc/Default", ds.Name)
	assert.Equal(t, "org.h2.jdbcx.JdbcDataSource", ds.ClassName)
	assert.Equal(t, "jdbc:h2:mem:shop;DB_CLOSE_DELAY=-1", ds.URL)
	assert.Equal(t, "com.h2database:h2", dep.Key())
	assert.Equal(t, "runtime", dep.Scope)

	custom := DataSource{
		Name:      "java:app/jdbc/Legacy",
		ClassName: "com.example.LegacyDataSource",
		URL:       "jdbc:legacy://db",
		Driver:    descriptor.Dependency{GroupID: "com.example", ArtifactID: "legacy-jdbc", Version: "1.0"},
	}
	ds, dep, err = custom.Resolve("shop")
	require.NoError(t, err)
	assert.Equal(t, "jdbc:legacy://db", ds.URL)
	assert.Equal(t, "com.example:legacy-jdbc", dep.Key())

	_, _, err = DataSource{Database: "oracle"}.Resolve("shop")
	assert.Error(t, err)

	assert.Equal(t, []string{"h2", "mariadb", "mysql", "postgresql"}, Databases())
}
