// Package bundle parses the native article bundle dialect: one metadata
// document per article folder declaring titles, public identifiers, issue
// placement, authors, and references into sibling asset files.
// Implements: prd006-bundle-dialect (R1-R8);
//
//	docs/ARCHITECTURE § Parsers.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/backissue/internal/importer"
	"github.com/pdiddy/backissue/internal/xmldoc"
	"github.com/pdiddy/backissue/pkg/types"
)

// Doctype signature the dialect accepts; all three fields must match.
const (
	rootElement = "article"
	publicID    = "-//MESH//DTD Article Bundle 1.0//EN"
	systemID    = "https://backissue.meshintel.dev/dtd/article-1.0.dtd"
)

// dateLayout is the bundle's publication date format.
const dateLayout = "2006-01-02"

// Parser builds one article's records from a bundle document. Bound to a
// single entry and import run; the pipeline drives it once.
type Parser struct {
	imp   *importer.Importer
	doc   *xmldoc.Document
	entry *importer.ArticleEntry

	loc string

	issue          *types.Issue
	issueCreated   bool
	section        *types.Section
	sectionCreated bool
	sub            *types.Submission
	pub            *types.Publication
}

// New constructs a bundle parser bound to doc and entry.
func New(imp *importer.Importer, doc *xmldoc.Document, entry *importer.ArticleEntry) importer.Parser {
	return &Parser{imp: imp, doc: doc, entry: entry}
}

func init() {
	importer.Register("bundle", New)
}

// DocTypes lists the single signature the bundle DTD declares.
func (p *Parser) DocTypes() []xmldoc.DocType {
	return []xmldoc.DocType{{
		SystemID: systemID,
		PublicID: publicID,
		Root:     rootElement,
	}}
}

// Validate checks the structural requirements every bundle shares: an
// <article> document element, at least one title, integer issue ordinals,
// and a parseable publication date. Nothing is written.
func (p *Parser) Validate() error {
	root := p.doc.Root()
	if root == nil || root.Data != rootElement {
		return fmt.Errorf("document element must be <%s>", rootElement)
	}
	titles, err := p.doc.Select("title", root)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		return errors.New("bundle carries no title")
	}
	if _, _, _, err := p.issueOrdinals(); err != nil {
		return err
	}
	if _, err := p.datePublished(); err != nil {
		return err
	}
	return nil
}

// PublicIDs collects the bundle's <id> elements. An explicit type
// attribute wins; untyped values are classified by shape.
func (p *Parser) PublicIDs() (map[string]string, error) {
	nodes, err := p.doc.Select("id", p.doc.Root())
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(nodes))
	for _, n := range nodes {
		value := strings.TrimSpace(n.InnerText())
		if value == "" {
			continue
		}
		idType := n.SelectAttr("type")
		if idType == "" {
			idType, value = importer.ClassifyID(value)
		}
		ids[idType] = value
	}
	return ids, nil
}

// locale resolves the bundle's declared locale against the journal's
// supported set, falling back to the journal default. Memoized.
func (p *Parser) locale() string {
	if p.loc == "" {
		declared, _ := p.doc.SelectText("@locale", p.doc.Root())
		p.loc = p.imp.Config().Locales.Resolve(declared)
	}
	return p.loc
}

func (p *Parser) issueOrdinals() (volume, number, year int, err error) {
	fields := []struct {
		expr string
		dst  *int
	}{
		{"issue/volume", &volume},
		{"issue/number", &number},
		{"issue/year", &year},
	}
	for _, f := range fields {
		text, err := p.doc.SelectText(f.expr, p.doc.Root())
		if err != nil {
			return 0, 0, 0, err
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%s: %q is not an ordinal", f.expr, text)
		}
		*f.dst = n
	}
	return volume, number, year, nil
}

func (p *Parser) datePublished() (time.Time, error) {
	text, err := p.doc.SelectText("published", p.doc.Root())
	if err != nil {
		return time.Time{}, err
	}
	if text == "" {
		return time.Time{}, errors.New("bundle carries no published date")
	}
	t, err := time.Parse(dateLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("published: %w", err)
	}
	return t, nil
}

// Rollback removes whatever this parser created, submission graph first,
// then the section and issue when this article created them. Records that
// existed before the build phase are left in place.
func (p *Parser) Rollback(ctx context.Context) error {
	repo := p.imp.Repo()
	journalID := p.imp.Config().Journal.ID

	if p.sub != nil {
		if err := repo.DeleteSubmission(ctx, journalID, p.sub.ID); err != nil {
			return fmt.Errorf("rolling back submission %d: %w", p.sub.ID, err)
		}
		p.sub = nil
		p.pub = nil
	}
	if p.sectionCreated && p.section != nil {
		if err := repo.DeleteSection(ctx, journalID, p.section.ID); err != nil {
			return fmt.Errorf("rolling back section %d: %w", p.section.ID, err)
		}
		p.section = nil
		p.sectionCreated = false
	}
	if p.issueCreated && p.issue != nil {
		if err := repo.DeleteIssue(ctx, journalID, p.issue.ID); err != nil {
			return fmt.Errorf("rolling back issue %d: %w", p.issue.ID, err)
		}
		p.issue = nil
		p.issueCreated = false
	}
	return nil
}
