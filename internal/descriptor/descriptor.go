// Package descriptor merges generated configuration into the XML descriptors
// of a Jakarta EE project: persistence.xml, web.xml and pom.xml.
//
// Every Add/Set function is idempotent. Existing entries are matched on their
// logical key (unit name, servlet name, url pattern, groupId:artifactId ...)
// rather than on node equality, so descriptors that were reformatted or hand
// edited since the last run are still recognized. Functions report whether
// they changed the document; reading and writing files is left to Load and
// Save.
package descriptor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// Load parses the XML file at path.
func Load(path string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("reading %s: no root element", path)
	}
	return doc, nil
}

// Save writes doc to path, creating parent directories. Elements that have
// no surrounding whitespace, such as ones added since the document was read,
// are indented to match their siblings; existing formatting is kept as is.
func Save(doc *etree.Document, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tidy(doc)
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Edit loads the descriptor at path, applies fn and saves the result when fn
// reports a change. A missing file is started from create, or is an error
// when create is nil.
func Edit(path string, create func() *etree.Document, fn func(*etree.Document) (bool, error)) (bool, error) {
	doc, err := Load(path)
	created := false
	if err != nil {
		if create == nil || !errors.Is(err, fs.ErrNotExist) {
			return false, err
		}
		doc, created = create(), true
	}
	changed, err := fn(doc)
	if err != nil {
		return false, err
	}
	if !changed && !created {
		return false, nil
	}
	if err := Save(doc, path); err != nil {
		return false, err
	}
	return true, nil
}

// root returns the document element if it has the expected local name.
func root(doc *etree.Document, tag string) (*etree.Element, error) {
	r := doc.Root()
	if r == nil || r.Tag != tag {
		return nil, fmt.Errorf("expected <%s> document element", tag)
	}
	return r, nil
}

// childText returns the trimmed text of the first child named tag.
func childText(e *etree.Element, tag string) string {
	c := e.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

// insertOrdered inserts child into parent before the first existing element
// that must come after it according to order. Tags not listed in order never
// move the insertion point.
func insertOrdered(parent, child *etree.Element, order []string) {
	rank := make(map[string]int, len(order))
	for i, tag := range order {
		rank[tag] = i
	}
	mine, ok := rank[child.Tag]
	if ok {
		for _, c := range parent.ChildElements() {
			if r, known := rank[c.Tag]; known && r > mine {
				parent.InsertChildAt(c.Index(), child)
				return
			}
		}
	}
	parent.AddChild(child)
}

// textElement builds <tag>text</tag>.
func textElement(tag, text string) *etree.Element {
	e := etree.NewElement(tag)
	e.SetText(text)
	return e
}

const defaultIndent = "    "

// tidy adds line breaks and indentation around markup that has none. The
// indent unit is taken from the document element's first indented child.
func tidy(doc *etree.Document) {
	r := doc.Root()
	if r == nil {
		return
	}
	for i := 1; i < len(doc.Child); i++ {
		if isMarkup(doc.Child[i]) && !isSpace(doc.Child[i-1]) {
			doc.InsertChildAt(i, etree.NewText("\n"))
			i++
		}
	}
	if n := len(doc.Child); !isSpace(doc.Child[n-1]) {
		doc.AddChild(etree.NewText("\n"))
	}
	unit := indentUnit(r)
	tidyElement(r, unit, "", unit)
}

func tidyElement(e *etree.Element, inner, outer, unit string) {
	if len(e.ChildElements()) == 0 || hasText(e) {
		return
	}
	// markup appended after the closing whitespace takes that whitespace as
	// its separator
	if k := lastSpace(e); k >= 0 && k < len(e.Child)-1 {
		cd := e.Child[k].(*etree.CharData)
		if nl := strings.LastIndex(cd.Data, "\n"); nl >= 0 {
			cd.Data = cd.Data[:nl+1] + inner
		}
	}
	for i := 0; i < len(e.Child); i++ {
		tok := e.Child[i]
		if !isMarkup(tok) {
			continue
		}
		if i == 0 || !isSpace(e.Child[i-1]) {
			e.InsertChildAt(i, etree.NewText("\n"+inner))
			i++
		}
		if c, ok := tok.(*etree.Element); ok {
			tidyElement(c, inner+unit, inner, unit)
		}
	}
	if !isSpace(e.Child[len(e.Child)-1]) {
		e.AddChild(etree.NewText("\n" + outer))
	}
}

func indentUnit(r *etree.Element) string {
	for _, tok := range r.Child {
		if !isSpace(tok) {
			continue
		}
		data := tok.(*etree.CharData).Data
		if nl := strings.LastIndex(data, "\n"); nl >= 0 && nl < len(data)-1 {
			return data[nl+1:]
		}
	}
	return defaultIndent
}

func lastSpace(e *etree.Element) int {
	for i := len(e.Child) - 1; i >= 0; i-- {
		if isSpace(e.Child[i]) {
			return i
		}
	}
	return -1
}

func hasText(e *etree.Element) bool {
	for _, tok := range e.Child {
		if cd, ok := tok.(*etree.CharData); ok && strings.TrimSpace(cd.Data) != "" {
			return true
		}
	}
	return false
}

func isSpace(tok etree.Token) bool {
	cd, ok := tok.(*etree.CharData)
	return ok && strings.TrimSpace(cd.Data) == ""
}

func isMarkup(tok etree.Token) bool {
	switch tok.(type) {
	case *etree.Element, *etree.Comment, *etree.ProcInst, *etree.Directive:
		return true
	}
	return false
}
