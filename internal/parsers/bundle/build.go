// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bundle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"

	"github.com/pdiddy/backissue/internal/importer"
	"github.com/pdiddy/backissue/internal/store"
	"github.com/pdiddy/backissue/internal/xmldoc"
	"github.com/pdiddy/backissue/pkg/types"
)

// inlineMarkup converts the bundle's inline formatting elements to their
// HTML equivalents when titles and abstracts are materialized.
func inlineMarkup(el *xmlquery.Node, text string) string {
	switch el.Data {
	case "i":
		return "<em>" + text + "</em>"
	case "b":
		return "<strong>" + text + "</strong>"
	case "sup", "sub":
		return "<" + el.Data + ">" + text + "</" + el.Data + ">"
	}
	return text
}

// Publication builds and persists the article's full record graph:
// submission, issue, section, the publication row, localized settings,
// public identifiers, authors, and staged files. A partial failure leaves
// the parser ready for Rollback.
func (p *Parser) Publication(ctx context.Context) (*types.Publication, error) {
	if p.pub != nil {
		return p.pub, nil
	}
	sub, err := p.Submission(ctx)
	if err != nil {
		return nil, err
	}
	iss, err := p.Issue(ctx)
	if err != nil {
		return nil, err
	}
	sec, err := p.Section(ctx)
	if err != nil {
		return nil, err
	}

	published, err := p.datePublished()
	if err != nil {
		return nil, err
	}
	pub := &types.Publication{
		SubmissionID:  sub.ID,
		IssueID:       iss.ID,
		SectionID:     sec.ID,
		Locale:        p.locale(),
		DatePublished: published,
		Version:       1,
	}
	repo := p.imp.Repo()
	if err := repo.CreatePublication(ctx, pub); err != nil {
		return nil, fmt.Errorf("creating publication: %w", err)
	}
	p.pub = pub

	if err := p.storeLocalized(ctx, pub, "title"); err != nil {
		return nil, err
	}
	if err := p.storeLocalized(ctx, pub, "abstract"); err != nil {
		return nil, err
	}
	if err := p.storeIDs(ctx, pub); err != nil {
		return nil, err
	}
	if err := p.storeAuthors(ctx, pub); err != nil {
		return nil, err
	}
	if err := p.storeGalleys(ctx, sub); err != nil {
		return nil, err
	}
	if err := p.storeSupplements(ctx, sub); err != nil {
		return nil, err
	}
	if err := repo.UpdatePublication(ctx, pub); err != nil {
		return nil, fmt.Errorf("persisting publication %d: %w", pub.ID, err)
	}
	return pub, nil
}

// Submission returns the article's submission record, creating it on
// first need. Imported articles enter as published.
func (p *Parser) Submission(ctx context.Context) (*types.Submission, error) {
	if p.sub != nil {
		return p.sub, nil
	}
	sub := &types.Submission{
		JournalID:     p.imp.Config().Journal.ID,
		Status:        types.SubmissionPublished,
		DateSubmitted: time.Now(),
	}
	if err := p.imp.Repo().CreateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("creating submission: %w", err)
	}
	p.sub = sub
	return sub, nil
}

// Issue returns the article's issue, creating it on first need. An issue
// created here also stages the issue folder's cover image for the
// article's locale; pre-existing issues are left untouched.
func (p *Parser) Issue(ctx context.Context) (*types.Issue, error) {
	if p.issue != nil {
		return p.issue, nil
	}
	volume, number, year, err := p.issueOrdinals()
	if err != nil {
		return nil, err
	}
	cfg := p.imp.Config()
	repo := p.imp.Repo()

	iss, err := repo.IssueByOrdinals(ctx, cfg.Journal.ID, volume, number, year)
	if err == nil {
		p.issue = iss
		return iss, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("finding issue %d.%d (%d): %w", volume, number, year, err)
	}

	published, err := p.datePublished()
	if err != nil {
		return nil, err
	}
	title, err := p.doc.SelectText("issue/title", p.doc.Root())
	if err != nil {
		return nil, err
	}
	iss = &types.Issue{
		JournalID:     cfg.Journal.ID,
		Volume:        volume,
		Number:        number,
		Year:          year,
		Title:         title,
		Published:     true,
		DatePublished: published,
	}
	if err := repo.CreateIssue(ctx, iss); err != nil {
		return nil, fmt.Errorf("creating issue %d.%d (%d): %w", volume, number, year, err)
	}
	p.issueCreated = true
	p.issue = iss

	if err := p.imp.StageIssueCover(ctx, iss, p.entry.IssueDir, p.locale()); err != nil {
		return nil, err
	}
	return iss, nil
}

// Section returns the journal section the article files under, creating
// it on first need and placing it into the issue's custom ordering.
func (p *Parser) Section(ctx context.Context) (*types.Section, error) {
	if p.section != nil {
		return p.section, nil
	}
	cfg := p.imp.Config()
	repo := p.imp.Repo()

	title, err := p.doc.SelectText("section/title", p.doc.Root())
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = cfg.SectionTitle
	}

	sec, err := repo.SectionByTitle(ctx, cfg.Journal.ID, title)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		abbrev, aerr := p.doc.SelectText("section/abbrev", p.doc.Root())
		if aerr != nil {
			return nil, aerr
		}
		sec = &types.Section{JournalID: cfg.Journal.ID, Title: title, Abbrev: abbrev}
		if cerr := repo.CreateSection(ctx, sec); cerr != nil {
			return nil, fmt.Errorf("creating section %q: %w", title, cerr)
		}
		p.sectionCreated = true
	default:
		return nil, fmt.Errorf("finding section %q: %w", title, err)
	}

	iss, err := p.Issue(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.imp.SectionOrders().Place(ctx, iss.ID, sec.ID); err != nil {
		return nil, err
	}
	p.section = sec
	return sec, nil
}

// storeLocalized persists every <name> element as a publication setting
// under its resolved locale, inline markup materialized to HTML.
func (p *Parser) storeLocalized(ctx context.Context, pub *types.Publication, name string) error {
	nodes, err := p.doc.Select(name, p.doc.Root())
	if err != nil {
		return err
	}
	locales := p.imp.Config().Locales
	for _, n := range nodes {
		text := strings.TrimSpace(xmldoc.MaterializeText(n, inlineMarkup))
		if text == "" {
			continue
		}
		loc := locales.Resolve(n.SelectAttr("locale"))
		if err := p.imp.Repo().SetPublicationSetting(ctx, pub.ID, loc, name, text); err != nil {
			return fmt.Errorf("storing %s (%s): %w", name, loc, err)
		}
	}
	return nil
}

// storeIDs persists the bundle's public identifiers in normalized form,
// the same shape the duplicate guard checks.
func (p *Parser) storeIDs(ctx context.Context, pub *types.Publication) error {
	ids, err := p.PublicIDs()
	if err != nil {
		return err
	}
	kinds := make([]string, 0, len(ids))
	for t := range ids {
		kinds = append(kinds, t)
	}
	sort.Strings(kinds)
	for _, t := range kinds {
		value := importer.NormalizeID(t, ids[t])
		if value == "" {
			continue
		}
		if err := p.imp.Repo().AddPublicationID(ctx, pub.ID, t, value); err != nil {
			return fmt.Errorf("storing %s identifier: %w", t, err)
		}
	}
	return nil
}

// storeAuthors persists the bundle's author list in document order. A
// primary-flagged author, or else the first, becomes the publication's
// contact; an empty list synthesizes the journal's default author.
func (p *Parser) storeAuthors(ctx context.Context, pub *types.Publication) error {
	nodes, err := p.doc.Select("authors/author", p.doc.Root())
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		_, err := p.imp.DefaultAuthor(ctx, pub, p.locale())
		return err
	}

	cfg := p.imp.Config()
	var contact int64
	for i, n := range nodes {
		a := &types.Author{
			PublicationID:   pub.ID,
			Seq:             i + 1,
			IncludeInBrowse: true,
			UserGroupID:     cfg.AuthorGroup.ID,
		}
		fields := []struct {
			expr string
			dst  *string
		}{
			{"givenname", &a.GivenName},
			{"familyname", &a.FamilyName},
			{"email", &a.Email},
		}
		for _, f := range fields {
			text, serr := p.doc.SelectText(f.expr, n)
			if serr != nil {
				return serr
			}
			*f.dst = text
		}
		if a.Email == "" {
			a.Email = cfg.Email
		}
		if err := p.imp.Repo().CreateAuthor(ctx, a); err != nil {
			return fmt.Errorf("creating author %d: %w", i+1, err)
		}
		if contact == 0 || n.SelectAttr("primary") == "true" {
			contact = a.ID
		}
	}
	pub.PrimaryContactID = contact
	return nil
}

// storeGalleys stages each galley's referenced asset into submission
// storage under the journal's submission genre.
func (p *Parser) storeGalleys(ctx context.Context, sub *types.Submission) error {
	nodes, err := p.doc.Select("galley", p.doc.Root())
	if err != nil {
		return err
	}
	cfg := p.imp.Config()
	for _, n := range nodes {
		href, err := p.doc.SelectText("@xlink:href", n)
		if err != nil {
			return err
		}
		if href == "" {
			return errors.New("galley carries no xlink:href")
		}
		loc := ""
		if declared := n.SelectAttr("locale"); declared != "" {
			loc = cfg.Locales.Resolve(declared)
		}
		if err := p.stageAsset(ctx, sub, "galley", href, cfg.SubmissionGenre.ID, loc); err != nil {
			return err
		}
	}
	return nil
}

// storeSupplements stages supplementary assets, classifying each by file
// extension through the run's genre cache.
func (p *Parser) storeSupplements(ctx context.Context, sub *types.Submission) error {
	nodes, err := p.doc.Select("supplement", p.doc.Root())
	if err != nil {
		return err
	}
	for _, n := range nodes {
		href, err := p.doc.SelectText("@xlink:href", n)
		if err != nil {
			return err
		}
		if href == "" {
			return errors.New("supplement carries no xlink:href")
		}
		genreID, err := p.imp.Genres().GenreID(ctx, p.imp.Config().Journal.ID, filepath.Ext(href))
		if err != nil {
			return err
		}
		if err := p.stageAsset(ctx, sub, "supplement", href, genreID, ""); err != nil {
			return err
		}
	}
	return nil
}

// stageAsset copies one referenced file into submission storage and
// records it. The file must exist in the article folder; a dangling
// reference fails the build.
func (p *Parser) stageAsset(ctx context.Context, sub *types.Submission, kind, href string, genreID int64, loc string) error {
	source := filepath.Join(p.entry.Dir, href)
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("%s file %s: %w", kind, href, err)
	}
	cfg := p.imp.Config()
	stored, err := p.imp.Repo().StageSubmissionFile(cfg.Journal.ID, sub.ID, source)
	if err != nil {
		return fmt.Errorf("staging %s %s: %w", kind, href, err)
	}
	f := &types.SubmissionFile{
		SubmissionID: sub.ID,
		GenreID:      genreID,
		OriginalName: href,
		StoredName:   stored,
		Locale:       loc,
	}
	if err := p.imp.Repo().CreateSubmissionFile(ctx, f); err != nil {
		return fmt.Errorf("recording %s %s: %w", kind, href, err)
	}
	return nil
}
