package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matthewbaird/jakartagen/internal/naming"
)

// Document is the result of loading an entity definition file. Entries keep
// declaration order; an entry either carries an Entity or the SchemaError
// that made it unusable.
type Document struct {
	Entries []Entry
}

// Entry is one entity slot of a Document.
type Entry struct {
	Index  int // 1-based declaration position
	Name   string
	Entity *Entity
	Err    *SchemaError
}

// Entities returns the valid entities in declaration order.
func (d *Document) Entities() []*Entity {
	var out []*Entity
	for _, e := range d.Entries {
		if e.Entity != nil {
			out = append(out, e.Entity)
		}
	}
	return out
}

// Failed returns the entries that did not parse.
func (d *Document) Failed() []Entry {
	var out []Entry
	for _, e := range d.Entries {
		if e.Err != nil {
			out = append(out, e)
		}
	}
	return out
}

// Parser turns entity JSON into Entities. A Parser is safe to reuse but not
// for concurrent use.
type Parser struct {
	v *validator
}

// NewParser compiles the embedded entity schema.
func NewParser() (*Parser, error) {
	v, err := newValidator()
	if err != nil {
		return nil, err
	}
	return &Parser{v: v}, nil
}

// ParseEntities parses a document and fails on the first invalid entity.
func ParseEntities(data []byte) ([]*Entity, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	doc, err := p.Load(data)
	if err != nil {
		return nil, err
	}
	if failed := doc.Failed(); len(failed) > 0 {
		return nil, failed[0].Err
	}
	return doc.Entities(), nil
}

// LoadFile reads and loads the entity document at path.
func (p *Parser) LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return p.Load(data)
}

// Load parses a document. Problems with the document as a whole are returned
// as a *SchemaError; problems with a single entity are recorded on its Entry
// so the remaining entities stay usable.
func (p *Parser) Load(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, documentError("document is empty")
	}
	if !json.Valid(trimmed) {
		return nil, documentError("document is not valid JSON")
	}
	if trimmed[0] != '{' {
		return nil, documentError("document must be a JSON object")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, documentError("decoding document: %v", err)
	}

	items := []json.RawMessage{trimmed}
	if raw, ok := top["entities"]; ok {
		items = nil
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, documentError("entities must be an array")
		}
		if len(items) == 0 {
			return nil, documentError("no entities defined")
		}
	}

	doc := &Document{}
	seen := make(map[string]int)
	for i, raw := range items {
		entry := Entry{Index: i + 1}
		ent, name, serr := p.parseEntity(i+1, raw)
		entry.Name = name
		// names that differ only in case or separators share a class
		var class string
		if serr == nil {
			class = naming.ClassName(ent.Name)
		}
		switch {
		case serr != nil:
			entry.Err = serr
		case seen[class] > 0:
			entry.Err = &SchemaError{
				Entity:  ent.Name,
				Index:   i + 1,
				Message: fmt.Sprintf("duplicate entity class %s, first declared as entity #%d", class, seen[class]),
			}
		default:
			seen[class] = i + 1
			entry.Entity = ent
		}
		doc.Entries = append(doc.Entries, entry)
	}
	return doc, nil
}

type entityJSON struct {
	Name       string         `json:"name"`
	TableName  string         `json:"tableName"`
	Fields     []fieldJSON    `json:"fields"`
	Repository string         `json:"repository"`
	Relations  []relationJSON `json:"relations"`
}

type fieldJSON struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	IsID        bool           `json:"isId"`
	Annotations annotationList `json:"annotations"`
}

type relationJSON struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Kind     string `json:"kind"`
	MappedBy string `json:"mappedBy"`
}

func (p *Parser) parseEntity(index int, raw json.RawMessage) (*Entity, string, *SchemaError) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, "", &SchemaError{Index: index, Message: "entity must be a JSON object"}
	}

	var head struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(raw, &head)

	var ej entityJSON
	if err := json.Unmarshal(raw, &ej); err != nil {
		return nil, head.Name, &SchemaError{Entity: head.Name, Index: index, Message: err.Error()}
	}
	fail := func(field int, format string, args ...any) (*Entity, string, *SchemaError) {
		return nil, ej.Name, &SchemaError{Entity: ej.Name, Index: index, Field: field, Message: fmt.Sprintf(format, args...)}
	}

	if ej.Name == "" {
		return fail(0, "missing name")
	}
	if len(ej.Fields) == 0 {
		return fail(0, "fields is missing or empty")
	}
	ids := 0
	for i, f := range ej.Fields {
		if f.Name == "" {
			return fail(i+1, "missing name")
		}
		if f.Type == "" {
			return fail(i+1, "field %q lacks type", f.Name)
		}
		if f.IsID {
			ids++
		}
	}
	if ids > 1 {
		return fail(0, "%d fields are marked isId, at most one is allowed", ids)
	}
	if msg := p.v.validate(raw); msg != "" {
		return fail(0, "%s", msg)
	}

	ent := &Entity{
		Name:       ej.Name,
		TableName:  ej.TableName,
		Repository: RepositoryKind(ej.Repository),
	}
	if ent.Repository == "" {
		ent.Repository = RepositoryCrud
	}
	for _, f := range ej.Fields {
		ent.Fields = append(ent.Fields, Field{
			Name:        f.Name,
			Type:        f.Type,
			IsID:        f.IsID,
			Annotations: f.Annotations,
		})
	}
	for _, r := range ej.Relations {
		ent.Relations = append(ent.Relations, Relation{
			Name:     r.Name,
			Target:   r.Target,
			Kind:     RelationKind(r.Kind),
			MappedBy: r.MappedBy,
		})
	}
	if ids == 0 {
		assignDefaultID(ent)
	}
	return ent, ent.Name, nil
}

// assignDefaultID promotes an unmarked "id" field, or prepends a Long id.
func assignDefaultID(ent *Entity) {
	for i := range ent.Fields {
		if ent.Fields[i].Name == DefaultIDName {
			ent.Fields[i].IsID = true
			return
		}
	}
	ent.Fields = append([]Field{defaultID()}, ent.Fields...)
}
