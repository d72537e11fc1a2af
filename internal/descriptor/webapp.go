package descriptor

import (
	"strings"

	"github.com/beevik/etree"
)

// webAppOrder is the conventional order of top-level web.xml elements. The
// schema accepts any order; keeping related elements together makes the
// merged file readable.
var webAppOrder = []string{
	"description",
	"display-name",
	"context-param",
	"filter",
	"filter-mapping",
	"listener",
	"servlet",
	"servlet-mapping",
	"session-config",
	"mime-mapping",
	"welcome-file-list",
	"error-page",
	"security-constraint",
	"login-config",
	"security-role",
	"data-source",
}

// dataSourceOrder is the child sequence of <data-source>.
var dataSourceOrder = []string{
	"description", "name", "class-name", "server-name", "port-number",
	"database-name", "url", "user", "password", "property",
}

const (
	FacesServletName  = "Faces Servlet"
	FacesServletClass = "jakarta.faces.webapp.FacesServlet"
	FacesURLPattern   = "*.xhtml"
	FacesWelcomeFile  = "index.xhtml"
)

const webAppNS = "https://jakarta.ee/xml/ns/jakartaee"

// NewWebApp returns an empty web.xml document for the given schema version,
// e.g. "6.0".
func NewWebApp(version string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	w := doc.CreateElement("web-app")
	w.CreateAttr("xmlns", webAppNS)
	w.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	w.CreateAttr("xsi:schemaLocation", webAppNS+" "+webAppNS+"/web-app_"+strings.ReplaceAll(version, ".", "_")+".xsd")
	w.CreateAttr("version", version)
	return doc
}

// AddFacesServlet declares the Faces servlet, maps it to *.xhtml and makes
// index.xhtml a welcome file. A servlet already using the Faces class is
// reused under its existing name. Conflicting bindings are reported before
// anything is changed.
func AddFacesServlet(doc *etree.Document) (bool, error) {
	w, err := root(doc, "web-app")
	if err != nil {
		return false, err
	}

	name := FacesServletName
	var servlet *etree.Element
	servlets := w.SelectElements("servlet")
	for _, s := range servlets {
		if childText(s, "servlet-class") == FacesServletClass {
			name, servlet = childText(s, "servlet-name"), s
			break
		}
	}
	if servlet == nil {
		for _, s := range servlets {
			if childText(s, "servlet-name") == FacesServletName {
				return false, &ServletConfigConflictError{
					Servlet: FacesServletName,
					Reason:  "already declared with class " + childText(s, "servlet-class"),
				}
			}
		}
	}

	var mapping *etree.Element
	for _, m := range w.SelectElements("servlet-mapping") {
		for _, p := range m.SelectElements("url-pattern") {
			if strings.TrimSpace(p.Text()) != FacesURLPattern {
				continue
			}
			if owner := childText(m, "servlet-name"); owner != name {
				return false, &ServletConfigConflictError{
					Servlet: name,
					Pattern: FacesURLPattern,
					Reason:  "pattern already mapped to " + owner,
				}
			}
			mapping = m
		}
	}

	changed := false
	if servlet == nil {
		s := etree.NewElement("servlet")
		s.AddChild(textElement("servlet-name", name))
		s.AddChild(textElement("servlet-class", FacesServletClass))
		s.AddChild(textElement("load-on-startup", "1"))
		insertOrdered(w, s, webAppOrder)
		changed = true
	}
	if mapping == nil {
		m := etree.NewElement("servlet-mapping")
		m.AddChild(textElement("servlet-name", name))
		m.AddChild(textElement("url-pattern", FacesURLPattern))
		insertOrdered(w, m, webAppOrder)
		changed = true
	}
	if addWelcomeFile(w, FacesWelcomeFile) {
		changed = true
	}
	return changed, nil
}

func addWelcomeFile(w *etree.Element, file string) bool {
	list := w.SelectElement("welcome-file-list")
	if list == nil {
		list = etree.NewElement("welcome-file-list")
		insertOrdered(w, list, webAppOrder)
	}
	for _, f := range list.SelectElements("welcome-file") {
		if strings.TrimSpace(f.Text()) == file {
			return false
		}
	}
	list.AddChild(textElement("welcome-file", file))
	return true
}

// SetContextParam sets a <context-param>, keyed by param-name.
func SetContextParam(doc *etree.Document, name, value string) (bool, error) {
	w, err := root(doc, "web-app")
	if err != nil {
		return false, err
	}
	for _, p := range w.SelectElements("context-param") {
		if childText(p, "param-name") != name {
			continue
		}
		v := p.SelectElement("param-value")
		if v == nil {
			p.AddChild(textElement("param-value", value))
			return true, nil
		}
		if strings.TrimSpace(v.Text()) == value {
			return false, nil
		}
		v.SetText(value)
		return true, nil
	}
	p := etree.NewElement("context-param")
	p.AddChild(textElement("param-name", name))
	p.AddChild(textElement("param-value", value))
	insertOrdered(w, p, webAppOrder)
	return true, nil
}

// DataSource is a <data-source> declaration.
type DataSource struct {
	Name       string // JNDI name, e.g. java:app/jdbc/Sample
	ClassName  string
	URL        string
	User       string
	Password   string
	Properties map[string]string
}

// AddDataSourceDefinition declares ds in web.xml unless a data source with
// the same name exists.
func AddDataSourceDefinition(doc *etree.Document, ds DataSource) (bool, error) {
	w, err := root(doc, "web-app")
	if err != nil {
		return false, err
	}
	for _, d := range w.SelectElements("data-source") {
		if childText(d, "name") == ds.Name {
			return false, nil
		}
	}

	d := etree.NewElement("data-source")
	d.AddChild(textElement("name", ds.Name))
	d.AddChild(textElement("class-name", ds.ClassName))
	if ds.URL != "" {
		d.AddChild(textElement("url", ds.URL))
	}
	if ds.User != "" {
		d.AddChild(textElement("user", ds.User))
	}
	if ds.Password != "" {
		d.AddChild(textElement("password", ds.Password))
	}
	for _, k := range sortedKeys(ds.Properties) {
		p := etree.NewElement("property")
		p.AddChild(textElement("name", k))
		p.AddChild(textElement("value", ds.Properties[k]))
		insertOrdered(d, p, dataSourceOrder)
	}
	insertOrdered(w, d, webAppOrder)
	return true, nil
}
