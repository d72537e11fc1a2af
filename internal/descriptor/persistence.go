package descriptor

import (
	"strings"

	"github.com/beevik/etree"
)

// persistenceUnitOrder is the child sequence of <persistence-unit> in the
// Jakarta Persistence schema.
var persistenceUnitOrder = []string{
	"description",
	"provider",
	"qualifier",
	"scope",
	"jta-data-source",
	"non-jta-data-source",
	"mapping-file",
	"jar-file",
	"class",
	"exclude-unlisted-classes",
	"shared-cache-mode",
	"validation-mode",
	"properties",
}

const persistenceNS = "https://jakarta.ee/xml/ns/persistence"

// NewPersistence returns a persistence.xml document declaring one JTA unit.
// version is the schema version, e.g. "3.0" or "3.2".
func NewPersistence(unit, version string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	p := doc.CreateElement("persistence")
	p.CreateAttr("xmlns", persistenceNS)
	p.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	p.CreateAttr("xsi:schemaLocation", persistenceNS+" "+persistenceNS+"/persistence_"+strings.ReplaceAll(version, ".", "_")+".xsd")
	p.CreateAttr("version", version)
	u := p.CreateElement("persistence-unit")
	u.CreateAttr("name", unit)
	u.CreateAttr("transaction-type", "JTA")
	return doc
}

// PersistenceUnit returns the <persistence-unit> named unit.
func PersistenceUnit(doc *etree.Document, unit string) (*etree.Element, error) {
	r, err := root(doc, "persistence")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, u := range r.SelectElements("persistence-unit") {
		name := u.SelectAttrValue("name", "")
		if name == unit {
			return u, nil
		}
		names = append(names, name)
	}
	return nil, &PersistenceUnitNotFoundError{Unit: unit, Available: names}
}

// AddDataSourceReference points unit at the JTA data source jndiName. It
// returns false when the unit already references jndiName. The schema allows
// a single <jta-data-source>, so a reference to another data source is
// replaced.
func AddDataSourceReference(doc *etree.Document, unit, jndiName string) (bool, error) {
	u, err := PersistenceUnit(doc, unit)
	if err != nil {
		return false, err
	}
	existing := u.SelectElements("jta-data-source")
	for _, e := range existing {
		if strings.TrimSpace(e.Text()) == jndiName {
			return false, nil
		}
	}
	if len(existing) > 0 {
		existing[0].SetText(jndiName)
		return true, nil
	}
	insertOrdered(u, textElement("jta-data-source", jndiName), persistenceUnitOrder)
	return true, nil
}

// AddManagedClass lists className as a managed class of unit.
func AddManagedClass(doc *etree.Document, unit, className string) (bool, error) {
	u, err := PersistenceUnit(doc, unit)
	if err != nil {
		return false, err
	}
	for _, c := range u.SelectElements("class") {
		if strings.TrimSpace(c.Text()) == className {
			return false, nil
		}
	}
	classes := u.SelectElements("class")
	if len(classes) > 0 {
		// keep <class> entries contiguous
		u.InsertChildAt(classes[len(classes)-1].Index()+1, textElement("class", className))
		return true, nil
	}
	insertOrdered(u, textElement("class", className), persistenceUnitOrder)
	return true, nil
}

// SetUnitProperty sets <property name=... value=...> inside the unit's
// <properties>, creating the container when needed.
func SetUnitProperty(doc *etree.Document, unit, name, value string) (bool, error) {
	u, err := PersistenceUnit(doc, unit)
	if err != nil {
		return false, err
	}
	props := u.SelectElement("properties")
	if props == nil {
		props = etree.NewElement("properties")
		insertOrdered(u, props, persistenceUnitOrder)
	}
	for _, p := range props.SelectElements("property") {
		if p.SelectAttrValue("name", "") != name {
			continue
		}
		if p.SelectAttrValue("value", "") == value {
			return false, nil
		}
		p.CreateAttr("value", value)
		return true, nil
	}
	p := props.CreateElement("property")
	p.CreateAttr("name", name)
	p.CreateAttr("value", value)
	return true, nil
}
