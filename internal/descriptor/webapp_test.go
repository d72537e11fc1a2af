package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFacesServlet_Empty(t *testing.T) {
	doc := NewWebApp("6.0")

	changed, err := AddFacesServlet(doc)
	require.NoError(t, err)
	assert.True(t, changed)
	first := serialize(t, doc)

	changed, err = AddFacesServlet(doc)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first, serialize(t, doc))

	w := doc.Root()
	assert.Equal(t, []string{"servlet", "servlet-mapping", "welcome-file-list"}, childTags(w))
	assert.Equal(t, FacesServletClass, childText(w.SelectElement("servlet"), "servlet-class"))
	assert.Equal(t, FacesURLPattern, childText(w.SelectElement("servlet-mapping"), "url-pattern"))
	assert.Equal(t, FacesWelcomeFile, childText(w.SelectElement("welcome-file-list"), "welcome-file"))
}

func TestAddFacesServlet_ReusesExistingName(t *testing.T) {
	doc := parse(t, `<web-app>
  <servlet>
    <servlet-name>faces</servlet-name>
    <servlet-class>  jakarta.faces.webapp.FacesServlet </servlet-class>
  </servlet>
  <servlet-mapping><servlet-name>faces</servlet-name><url-pattern>*.xhtml</url-pattern></servlet-mapping>
  <welcome-file-list><welcome-file>index.xhtml</welcome-file></welcome-file-list>
</web-app>`)

	changed, err := AddFacesServlet(doc)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, doc.Root().SelectElements("servlet"), 1)
}

func TestAddFacesServlet_MappingAddedForExistingServlet(t *testing.T) {
	doc := parse(t, `<web-app>
  <listener><listener-class>a.B</listener-class></listener>
  <servlet><servlet-name>faces</servlet-name><servlet-class>jakarta.faces.webapp.FacesServlet</servlet-class></servlet>
  <session-config/>
</web-app>`)

	changed, err := AddFacesServlet(doc)
	require.NoError(t, err)
	assert.True(t, changed)

	w := doc.Root()
	assert.Equal(t, []string{"listener", "servlet", "servlet-mapping", "session-config", "welcome-file-list"}, childTags(w))
	assert.Equal(t, "faces", childText(w.SelectElement("servlet-mapping"), "servlet-name"))
}

func TestAddFacesServlet_FindsFacesClassAfterNameClash(t *testing.T) {
	doc := parse(t, `<web-app>
  <servlet><servlet-name>Faces Servlet</servlet-name><servlet-class>com.acme.Legacy</servlet-class></servlet>
  <servlet><servlet-name>jsf</servlet-name><servlet-class>jakarta.faces.webapp.FacesServlet</servlet-class></servlet>
</web-app>`)

	changed, err := AddFacesServlet(doc)
	require.NoError(t, err)
	assert.True(t, changed)

	w := doc.Root()
	servlets := w.SelectElements("servlet")
	require.Len(t, servlets, 2)
	assert.Equal(t, "com.acme.Legacy", childText(servlets[0], "servlet-class"))
	mappings := w.SelectElements("servlet-mapping")
	require.Len(t, mappings, 1)
	assert.Equal(t, "jsf", childText(mappings[0], "servlet-name"))
	assert.Equal(t, FacesURLPattern, childText(mappings[0], "url-pattern"))
}

func TestAddFacesServlet_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"name bound to other class", `<web-app><servlet><servlet-name>Faces Servlet</servlet-name><servlet-class>com.x.Other</servlet-class></servlet></web-app>`},
		{"pattern bound to other servlet", `<web-app><servlet-mapping><servlet-name>legacy</servlet-name><url-pattern>*.xhtml</url-pattern></servlet-mapping></web-app>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.xml)
			before := serialize(t, doc)

			_, err := AddFacesServlet(doc)
			var conflict *ServletConfigConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, before, serialize(t, doc))
		})
	}
}

func TestSetContextParam(t *testing.T) {
	doc := NewWebApp("6.0")

	changed, err := SetContextParam(doc, "jakarta.faces.PROJECT_STAGE", "Development")
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = SetContextParam(doc, "jakarta.faces.PROJECT_STAGE", "Development")
	require.NoError(t, err)
	assert.False(t, changed)
	changed, err = SetContextParam(doc, "jakarta.faces.PROJECT_STAGE", "Production")
	require.NoError(t, err)
	assert.True(t, changed)

	params := doc.Root().SelectElements("context-param")
	require.Len(t, params, 1)
	assert.Equal(t, "Production", childText(params[0], "param-value"))
}

func TestAddDataSourceDefinition(t *testing.T) {
	doc := NewWebApp("6.0")
	_, err := AddFacesServlet(doc)
	require.NoError(t, err)

	ds := DataSource{
		Name:       "java:app/jdbc/Sample",
		ClassName:  "org.h2.jdbcx.JdbcDataSource",
		URL:        "jdbc:h2:mem:sample",
		User:       "sa",
		Properties: map[string]string{"b": "2", "a": "1"},
	}
	changed, err := AddDataSourceDefinition(doc, ds)
	require.NoError(t, err)
	assert.True(t, changed)

	ds.URL = "jdbc:h2:mem:other"
	changed, err = AddDataSourceDefinition(doc, ds)
	require.NoError(t, err)
	assert.False(t, changed)

	w := doc.Root()
	require.Len(t, w.SelectElements("data-source"), 1)
	d := w.SelectElement("data-source")
	assert.Equal(t, []string{"name", "class-name", "url", "user", "property", "property"}, childTags(d))
	assert.Equal(t, "jdbc:h2:mem:sample", childText(d, "url"))
	assert.Equal(t, "a", childText(d.SelectElements("property")[0], "name"))
	assert.Equal(t, "data-source", w.ChildElements()[len(w.ChildElements())-1].Tag)
}

func TestWebAppRejectsWrongRoot(t *testing.T) {
	doc := NewPersistence("pu", "3.0")
	_, err := AddFacesServlet(doc)
	assert.Error(t, err)
}
