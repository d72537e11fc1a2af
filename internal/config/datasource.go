package config

import (
	"fmt"
	"sort"

	"github.com/matthewbaird/jakartagen/internal/descriptor"
)

// DataSource describes the application-managed data source declared in
// web.xml. Unset fields take the defaults of the chosen Database.
type DataSource struct {
	Database  string `yaml:"database" env:"DATABASE"` // h2, postgresql, mysql, mariadb
	Name      string `yaml:"name" env:"NAME"`         // JNDI name
	ClassName string `yaml:"className" env:"CLASS_NAME"`
	URL       string `yaml:"url" env:"URL"`
	User      string `yaml:"user" env:"USER"`
	Password  string `yaml:"password" env:"PASSWORD"`

	Driver     descriptor.Dependency `yaml:"driver"`
	Properties map[string]string     `yaml:"properties"`
}

type driver struct {
	className string
	url       string // %s is the artifactId
	dep       descriptor.Dependency
}

var drivers = map[string]driver{
	"h2": {
		className: "org.h2.jdbcx.JdbcDataSource",
		url:       "jdbc:h2:mem:%s;DB_CLOSE_DELAY=-1",
		dep:       descriptor.Dependency{GroupID: "com.h2database", ArtifactID: "h2", Version: "2.3.232"},
	},
	"postgresql": {
		className: "org.postgresql.ds.PGSimpleDataSource",
		url:       "jdbc:postgresql://localhost:5432/%s",
		dep:       descriptor.Dependency{GroupID: "org.postgresql", ArtifactID: "postgresql", Version: "42.7.4"},
	},
	"mysql": {
		className: "com.mysql.cj.jdbc.MysqlDataSource",
		url:       "jdbc:mysql://localhost:3306/%s",
		dep:       descriptor.Dependency{GroupID: "com.mysql", ArtifactID: "mysql-connector-j", Version: "9.1.0"},
	},
	"mariadb": {
		className: "org.mariadb.jdbc.MariaDbDataSource",
		url:       "jdbc:mariadb://localhost:3306/%s",
		dep:       descriptor.Dependency{GroupID: "org.mariadb.jdbc", ArtifactID: "mariadb-java-client", Version: "3.5.1"},
	},
}

// Databases lists the supported database names.
func Databases() []string {
	out := make([]string, 0, len(drivers))
	for name := range drivers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve fills defaults for the configured database and returns the
// web.xml entry and the JDBC driver dependency.
func (d DataSource) Resolve(artifactID string) (descriptor.DataSource, descriptor.Dependency, error) {
	drv, ok := drivers[d.Database]
	if !ok && d.ClassName == "" {
		return descriptor.DataSource{}, descriptor.Dependency{}, fmt.Errorf("unknown database %q", d.Database)
	}
	ds := descriptor.DataSource{
		Name:       d.Name,
		ClassName:  d.ClassName,
		URL:        d.URL,
		User:       d.User,
		Password:   d.Password,
		Properties: d.Properties,
	}
	if ds.ClassName == "" {
		ds.ClassName = drv.className
	}
	if ds.URL == "" && drv.url != "" {
		ds.URL = fmt.Sprintf(drv.url, artifactID)
	}
	dep := d.Driver
	if dep.GroupID == "" {
		dep = drv.dep
	}
	if dep.Scope == "" && dep.GroupID != "" {
		dep.Scope = "runtime"
	}
	return ds, dep, nil
}
