// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/backissue/internal/store"
	"github.com/pdiddy/backissue/internal/xmldoc"
	"github.com/pdiddy/backissue/pkg/types"
)

// Stage names a state of the per-article import machine. Imports advance
// Start → Validated → DedupChecked → Built → Committed; any error sends
// them through RolledBack (when writes occurred) to Failed.
type Stage string

const (
	StageStart        Stage = "start"
	StageValidated    Stage = "validated"
	StageDedupChecked Stage = "dedup-checked"
	StageBuilt        Stage = "built"
	StageCommitted    Stage = "committed"
	StageRolledBack   Stage = "rolled-back"
	StageFailed       Stage = "failed"
)

// Outcome is the explicit result of one article import. Stage is terminal:
// StageCommitted with the built records, or StageFailed with Err set to
// one of the package error kinds. A non-nil Err always means the article
// was not imported.
type Outcome struct {
	Entry       *ArticleEntry
	Stage       Stage
	Submission  *types.Submission
	Publication *types.Publication
	Err         error
}

// Imported reports whether the article was fully committed.
func (o Outcome) Imported() bool { return o.Err == nil && o.Stage == StageCommitted }

// Duplicate reports whether the article was rejected as already present.
func (o Outcome) Duplicate() bool {
	var dup *DuplicateError
	return errors.As(o.Err, &dup)
}

// Importer drives article imports for one batch run. It owns the run's
// caches, locale resolution and logger. Access is strictly sequential,
// one article fully processed before the next; none of the run state is
// guarded for concurrent use.
type Importer struct {
	cfg      *Configuration
	repo     Repository
	genres   *GenreCache
	sections *SectionOrderRegistry
	log      *zap.Logger
	runID    string
}

// New creates an Importer for one run with fresh caches and a unique run
// id bound into its log fields. A nil logger disables logging.
func New(cfg *Configuration, repo Repository, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.NewString()
	return &Importer{
		cfg:      cfg,
		repo:     repo,
		genres:   NewGenreCache(repo, cfg.ImageExtensions),
		sections: NewSectionOrderRegistry(repo),
		log:      log.With(zap.String("run_id", runID), zap.String("journal", cfg.Journal.Path)),
		runID:    runID,
	}
}

// Config returns the run's immutable job configuration.
func (imp *Importer) Config() *Configuration { return imp.cfg }

// Repo returns the repository the run writes through.
func (imp *Importer) Repo() Repository { return imp.repo }

// Genres returns the run's genre cache.
func (imp *Importer) Genres() *GenreCache { return imp.genres }

// SectionOrders returns the run's section order registry.
func (imp *Importer) SectionOrders() *SectionOrderRegistry { return imp.sections }

// Log returns the run's logger.
func (imp *Importer) Log() *zap.Logger { return imp.log }

// RunID returns the unique identifier of this run.
func (imp *Importer) RunID() string { return imp.runID }

// ImportArticle drives one article through the state machine. Failures
// before the build phase have no side effects; failures during the build
// phase roll the article back before surfacing. Errors are reported in
// the Outcome, never panicked and never swallowed.
func (imp *Importer) ImportArticle(ctx context.Context, entry *ArticleEntry) Outcome {
	log := imp.log.With(zap.String("article", entry.String()))

	// Start → Validated: load, doctype gate, dialect checks.
	if entry.MetadataFile == "" {
		return imp.failed(log, entry, StageStart, &MalformedDocumentError{Path: entry.Dir, Err: errNoMetadata})
	}
	doc, err := xmldoc.LoadFile(entry.MetadataFile)
	if err != nil {
		return imp.failed(log, entry, StageStart, &MalformedDocumentError{Path: entry.MetadataFile, Err: err})
	}
	p, err := imp.selectParser(doc, entry)
	if err != nil {
		return imp.failed(log, entry, StageStart, err)
	}
	if err := p.Validate(); err != nil {
		return imp.failed(log, entry, StageStart, &MalformedDocumentError{Path: entry.MetadataFile, Err: err})
	}
	log.Debug("document validated", zap.String("doctype", doc.DocType().String()))

	// Validated → DedupChecked: extract public ids, read-only guard.
	ids, err := p.PublicIDs()
	if err != nil {
		return imp.failed(log, entry, StageValidated, &MalformedDocumentError{Path: entry.MetadataFile, Err: err})
	}
	if err := imp.checkDuplicates(ctx, ids); err != nil {
		return imp.failed(log, entry, StageValidated, err)
	}
	log.Debug("no duplicates", zap.Int("public_ids", len(ids)))

	// DedupChecked → Built → Committed: repository writes begin here.
	pub, err := p.Publication(ctx)
	if err != nil {
		return imp.rolledBack(ctx, log, entry, p, err)
	}
	sub, err := p.Submission(ctx)
	if err != nil {
		return imp.rolledBack(ctx, log, entry, p, err)
	}

	log.Info("article imported",
		zap.Int64("submission", sub.ID),
		zap.Int64("publication", pub.ID))
	return Outcome{Entry: entry, Stage: StageCommitted, Submission: sub, Publication: pub}
}

// selectParser instantiates the first enabled variant whose accepted
// signatures contain the document's doctype. All three signature fields
// must match exactly.
func (imp *Importer) selectParser(doc *xmldoc.Document, entry *ArticleEntry) (Parser, error) {
	dt := doc.DocType()
	for _, name := range imp.cfg.ParserNames {
		f, ok := factoryFor(name)
		if !ok {
			continue
		}
		p := f(imp, doc, entry)
		for _, accepted := range p.DocTypes() {
			if accepted == dt {
				return p, nil
			}
		}
	}
	return nil, &UnsupportedDocTypeError{Path: entry.MetadataFile, DocType: dt}
}

// checkDuplicates queries the repository for each reported identifier in
// deterministic order. Read-only; must run before any write.
func (imp *Importer) checkDuplicates(ctx context.Context, ids map[string]string) error {
	idTypes := make([]string, 0, len(ids))
	for t := range ids {
		idTypes = append(idTypes, t)
	}
	sort.Strings(idTypes)

	for _, idType := range idTypes {
		value := NormalizeID(idType, ids[idType])
		if value == "" {
			continue
		}
		_, err := imp.repo.SubmissionByPublicID(ctx, idType, value, imp.cfg.Journal.ID)
		if err == nil {
			return &DuplicateError{IDType: idType, Value: value}
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("checking %s %q: %w", idType, value, err)
		}
	}
	return nil
}

// failed reports a terminal failure, logging the stage the import had
// reached when the error occurred.
func (imp *Importer) failed(log *zap.Logger, entry *ArticleEntry, reached Stage, err error) Outcome {
	log.Warn("import failed", zap.String("stage", string(reached)), zap.Error(err))
	return Outcome{Entry: entry, Stage: StageFailed, Err: err}
}

// rolledBack undoes the parser's partial writes and surfaces the build
// cause. A rollback failure is not swallowed: both errors are joined
// inside the BuildError.
func (imp *Importer) rolledBack(ctx context.Context, log *zap.Logger, entry *ArticleEntry, p Parser, cause error) Outcome {
	clean := true
	if rbErr := p.Rollback(ctx); rbErr != nil {
		clean = false
		cause = errors.Join(cause, rbErr)
	}
	return imp.failed(log, entry, StageRolledBack, &BuildError{RolledBack: clean, Err: cause})
}
