// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xmldoc loads article metadata documents and exposes the
// path-expression toolkit parser variants extract fields with.
// Implements: prd002-xml-extraction.
package xmldoc

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// XLinkNamespace is pre-registered on every document's query engine so
// expressions can address xlink:href attributes without further setup.
const XLinkNamespace = "http://www.w3.org/1999/xlink"

// DocType is the (system identifier, public identifier, root element name)
// triple identifying which XML vocabulary a document uses. Two signatures
// match only when all three fields are equal.
type DocType struct {
	// SystemID is the DOCTYPE system identifier, usually a DTD URL.
	SystemID string `json:"system_id" yaml:"system_id"`

	// PublicID is the DOCTYPE public identifier (e.g. "-//MESH//DTD ...//EN").
	PublicID string `json:"public_id" yaml:"public_id"`

	// Root is the declared root element name.
	Root string `json:"root" yaml:"root"`
}

func (dt DocType) String() string {
	return fmt.Sprintf("root=%q public=%q system=%q", dt.Root, dt.PublicID, dt.SystemID)
}

// doctypeDirective matches the content of a DOCTYPE declaration as the XML
// tokenizer reports it, with either a PUBLIC id pair or a bare SYSTEM id,
// quoted with double or single quotes.
var doctypeDirective = regexp.MustCompile(
	`^DOCTYPE\s+([^\s\[>]+)` +
		`(?:\s+PUBLIC\s+(?:"([^"]*)"|'([^']*)')\s+(?:"([^"]*)"|'([^']*)')` +
		`|\s+SYSTEM\s+(?:"([^"]*)"|'([^']*)'))?`)

// Document is a loaded metadata document with its query engine attached.
type Document struct {
	doc     *xmlquery.Node
	doctype DocType
	ns      map[string]string
	exprs   map[string]*xpath.Expr
}

// Load parses XML from r and attaches a query engine with the XLink
// namespace registered.
func Load(r io.Reader) (*Document, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	d := &Document{
		doc:   doc,
		ns:    map[string]string{"xlink": XLinkNamespace},
		exprs: make(map[string]*xpath.Expr),
	}
	d.doctype = readDocType(doc)
	return d, nil
}

// LoadFile reads and parses the XML document at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return d, nil
}

// DocType returns the document's type signature. When the document carries no
// DOCTYPE declaration, only Root is set, taken from the document element.
func (d *Document) DocType() DocType {
	return d.doctype
}

// Root returns the document element, nil for an empty document.
func (d *Document) Root() *xmlquery.Node {
	for n := d.doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

func (d *Document) compile(expr string) (*xpath.Expr, error) {
	if e, ok := d.exprs[expr]; ok {
		return e, nil
	}
	e, err := xpath.CompileWithNS(expr, d.ns)
	if err != nil {
		return nil, fmt.Errorf("compiling path %q: %w", expr, err)
	}
	d.exprs[expr] = e
	return e, nil
}

func readDocType(doc *xmlquery.Node) DocType {
	var dt DocType
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.NotationNode {
			continue
		}
		m := doctypeDirective.FindStringSubmatch(strings.TrimSpace(n.Data))
		if m == nil {
			continue
		}
		dt.Root = m[1]
		dt.PublicID = firstOf(m[2], m[3])
		dt.SystemID = firstOf(m[4], m[5], m[6], m[7])
		return dt
	}
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			dt.Root = n.Data
			break
		}
	}
	return dt
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
