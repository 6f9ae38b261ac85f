// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Pipeline tests drive a scripted parser variant against a recording
// in-memory repository to verify the state machine's guarantees: no
// writes before the build phase, rollback on build failure, and exact
// doctype and duplicate gating.

package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/backissue/internal/locale"
	"github.com/pdiddy/backissue/internal/store"
	"github.com/pdiddy/backissue/internal/xmldoc"
	"github.com/pdiddy/backissue/pkg/types"
)

// spyRepo is an in-memory Repository recording every write so tests can
// assert exactly what the pipeline touched.
type spyRepo struct {
	journals map[string]*types.Journal
	users    map[string]*types.User
	groups   map[types.Role]*types.UserGroup
	genres   map[string]*types.Genre

	existingIDs map[string]int64 // "type\x00value" → submission id

	issues       map[int64]*types.Issue
	sections     map[int64]*types.Section
	orders       map[[2]int64]int
	submissions  map[int64]*types.Submission
	publications map[int64]*types.Publication
	authors      []*types.Author
	covers       []*types.IssueCover
	copied       []string

	writes       []string
	genreLookups int
	orderLookups int
	failOn       map[string]error

	nextID int64
}

func newSpyRepo() *spyRepo {
	journal := &types.Journal{
		ID:               1,
		Path:             "vetmed",
		PrimaryLocale:    "fr_CA",
		SupportedLocales: []string{"fr_CA", "en_US"},
		Names: map[string]string{
			"fr_CA": "Revue vétérinaire",
			"en_US": "Veterinary Review",
		},
		Enabled: true,
	}
	return &spyRepo{
		journals: map[string]*types.Journal{"vetmed": journal},
		users: map[string]*types.User{
			"admin":  {ID: 10, Username: "admin", Email: "admin@example.com"},
			"editor": {ID: 11, Username: "editor", Email: "editor@example.com"},
		},
		groups: map[types.Role]*types.UserGroup{
			types.RoleEditor: {ID: 20, JournalID: 1, Role: types.RoleEditor, Name: "Editors"},
			types.RoleAuthor: {ID: 21, JournalID: 1, Role: types.RoleAuthor, Name: "Authors"},
		},
		genres: map[string]*types.Genre{
			types.GenreSubmission: {ID: 30, JournalID: 1, Key: types.GenreSubmission, Name: "Article Text"},
			types.GenreImage:      {ID: 31, JournalID: 1, Key: types.GenreImage, Name: "Image"},
			types.GenreMultimedia: {ID: 32, JournalID: 1, Key: types.GenreMultimedia, Name: "Multimedia"},
		},
		existingIDs:  map[string]int64{},
		issues:       map[int64]*types.Issue{},
		sections:     map[int64]*types.Section{},
		orders:       map[[2]int64]int{},
		submissions:  map[int64]*types.Submission{},
		publications: map[int64]*types.Publication{},
		failOn:       map[string]error{},
		nextID:       100,
	}
}

func (s *spyRepo) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *spyRepo) write(op string) error {
	s.writes = append(s.writes, op)
	return s.failOn[op]
}

func (s *spyRepo) wrote(op string) bool {
	for _, w := range s.writes {
		if w == op {
			return true
		}
	}
	return false
}

func (s *spyRepo) JournalByPath(_ context.Context, path string) (*types.Journal, error) {
	if j, ok := s.journals[path]; ok {
		return j, nil
	}
	return nil, fmt.Errorf("journal %q: %w", path, store.ErrNotFound)
}

func (s *spyRepo) UserByUsername(_ context.Context, username string) (*types.User, error) {
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %q: %w", username, store.ErrNotFound)
}

func (s *spyRepo) UserGroupByRole(_ context.Context, _ int64, role types.Role) (*types.UserGroup, error) {
	if g, ok := s.groups[role]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("group %s: %w", role, store.ErrNotFound)
}

func (s *spyRepo) GenreByKey(_ context.Context, _ int64, key string) (*types.Genre, error) {
	s.genreLookups++
	if g, ok := s.genres[key]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("genre %s: %w", key, store.ErrNotFound)
}

func (s *spyRepo) SubmissionByPublicID(_ context.Context, idType, idValue string, _ int64) (*types.Submission, error) {
	if id, ok := s.existingIDs[idType+"\x00"+idValue]; ok {
		return &types.Submission{ID: id, JournalID: 1}, nil
	}
	return nil, store.ErrNotFound
}

func (s *spyRepo) IssueByOrdinals(_ context.Context, _ int64, volume, number, year int) (*types.Issue, error) {
	for _, iss := range s.issues {
		if iss.Volume == volume && iss.Number == number && iss.Year == year {
			return iss, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *spyRepo) CreateIssue(_ context.Context, iss *types.Issue) error {
	if err := s.write("CreateIssue"); err != nil {
		return err
	}
	iss.ID = s.id()
	s.issues[iss.ID] = iss
	return nil
}

func (s *spyRepo) UpdateIssue(_ context.Context, _ *types.Issue) error {
	return s.write("UpdateIssue")
}

func (s *spyRepo) DeleteIssue(_ context.Context, _ int64, issueID int64) error {
	if err := s.write("DeleteIssue"); err != nil {
		return err
	}
	delete(s.issues, issueID)
	return nil
}

func (s *spyRepo) SetIssueCover(_ context.Context, c *types.IssueCover) error {
	if err := s.write("SetIssueCover"); err != nil {
		return err
	}
	s.covers = append(s.covers, c)
	return nil
}

func (s *spyRepo) SectionByTitle(_ context.Context, _ int64, title string) (*types.Section, error) {
	for _, sec := range s.sections {
		if sec.Title == title {
			return sec, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *spyRepo) CreateSection(_ context.Context, sec *types.Section) error {
	if err := s.write("CreateSection"); err != nil {
		return err
	}
	sec.ID = s.id()
	s.sections[sec.ID] = sec
	return nil
}

func (s *spyRepo) DeleteSection(_ context.Context, _ int64, sectionID int64) error {
	if err := s.write("DeleteSection"); err != nil {
		return err
	}
	delete(s.sections, sectionID)
	return nil
}

func (s *spyRepo) CustomSectionOrder(_ context.Context, issueID, sectionID int64) (int, error) {
	s.orderLookups++
	if seq, ok := s.orders[[2]int64{issueID, sectionID}]; ok {
		return seq, nil
	}
	return 0, store.ErrNotFound
}

func (s *spyRepo) InsertCustomSectionOrder(_ context.Context, issueID, sectionID int64, seq int) error {
	if err := s.write("InsertCustomSectionOrder"); err != nil {
		return err
	}
	s.orders[[2]int64{issueID, sectionID}] = seq
	return nil
}

func (s *spyRepo) CreateSubmission(_ context.Context, sub *types.Submission) error {
	if err := s.write("CreateSubmission"); err != nil {
		return err
	}
	sub.ID = s.id()
	s.submissions[sub.ID] = sub
	return nil
}

func (s *spyRepo) DeleteSubmission(_ context.Context, _ int64, submissionID int64) error {
	if err := s.write("DeleteSubmission"); err != nil {
		return err
	}
	delete(s.submissions, submissionID)
	return nil
}

func (s *spyRepo) CreatePublication(_ context.Context, p *types.Publication) error {
	if err := s.write("CreatePublication"); err != nil {
		return err
	}
	p.ID = s.id()
	s.publications[p.ID] = p
	return nil
}

func (s *spyRepo) UpdatePublication(_ context.Context, _ *types.Publication) error {
	return s.write("UpdatePublication")
}

func (s *spyRepo) SetPublicationSetting(_ context.Context, _ int64, _, _, _ string) error {
	return s.write("SetPublicationSetting")
}

func (s *spyRepo) AddPublicationID(_ context.Context, publicationID int64, idType, idValue string) error {
	if err := s.write("AddPublicationID"); err != nil {
		return err
	}
	s.existingIDs[idType+"\x00"+idValue] = publicationID
	return nil
}

func (s *spyRepo) CreateAuthor(_ context.Context, a *types.Author) error {
	if err := s.write("CreateAuthor"); err != nil {
		return err
	}
	a.ID = s.id()
	s.authors = append(s.authors, a)
	return nil
}

func (s *spyRepo) CreateSubmissionFile(_ context.Context, f *types.SubmissionFile) error {
	if err := s.write("CreateSubmissionFile"); err != nil {
		return err
	}
	f.ID = s.id()
	return nil
}

func (s *spyRepo) CopyToPublicStorage(_ int64, _, destName string) (string, error) {
	if err := s.write("CopyToPublicStorage"); err != nil {
		return "", err
	}
	s.copied = append(s.copied, destName)
	return "/public/" + destName, nil
}

func (s *spyRepo) StageSubmissionFile(_, _ int64, sourcePath string) (string, error) {
	if err := s.write("StageSubmissionFile"); err != nil {
		return "", err
	}
	return fmt.Sprintf("stored-%d%s", s.id(), filepath.Ext(sourcePath)), nil
}

// stubParser is a scripted Parser registered under the "stub" variant
// name. Tests assign activeStub before importing.
type stubParser struct {
	imp   *Importer
	entry *ArticleEntry

	docTypes    []xmldoc.DocType
	validateErr error
	ids         map[string]string
	idsErr      error

	buildCalls int
	build      func(ctx context.Context, sp *stubParser) error
	sub        *types.Submission
	pub        *types.Publication

	rollbacks   int
	rollbackErr error
	rollback    func(ctx context.Context, sp *stubParser) error
}

var activeStub *stubParser

func init() {
	Register("stub", func(imp *Importer, _ *xmldoc.Document, entry *ArticleEntry) Parser {
		activeStub.imp = imp
		activeStub.entry = entry
		return activeStub
	})
}

func (p *stubParser) DocTypes() []xmldoc.DocType { return p.docTypes }

func (p *stubParser) Validate() error { return p.validateErr }

func (p *stubParser) PublicIDs() (map[string]string, error) { return p.ids, p.idsErr }

func (p *stubParser) Publication(ctx context.Context) (*types.Publication, error) {
	p.buildCalls++
	if p.build != nil {
		if err := p.build(ctx, p); err != nil {
			return nil, err
		}
	}
	return p.pub, nil
}

func (p *stubParser) Issue(context.Context) (*types.Issue, error) { return nil, nil }

func (p *stubParser) Submission(context.Context) (*types.Submission, error) { return p.sub, nil }

func (p *stubParser) Section(context.Context) (*types.Section, error) { return nil, nil }

func (p *stubParser) Rollback(ctx context.Context) error {
	p.rollbacks++
	if p.rollback != nil {
		return p.rollback(ctx, p)
	}
	return p.rollbackErr
}

const stubXML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE article PUBLIC "-//TEST//DTD Stub 1.0//EN" "https://example.org/dtd/stub-1.0.dtd">
<article locale="fr_CA"><title>Essai</title></article>
`

var stubDocType = xmldoc.DocType{
	SystemID: "https://example.org/dtd/stub-1.0.dtd",
	PublicID: "-//TEST//DTD Stub 1.0//EN",
	Root:     "article",
}

// defaultStub scripts a parser that accepts stubXML and builds a minimal
// submission + publication graph through the repository.
func defaultStub() *stubParser {
	return &stubParser{
		docTypes: []xmldoc.DocType{stubDocType},
		ids:      map[string]string{"doi": "10.9999/backissue.42"},
		build: func(ctx context.Context, sp *stubParser) error {
			repo := sp.imp.Repo()
			sub := &types.Submission{JournalID: sp.imp.Config().Journal.ID, Status: types.SubmissionPublished}
			if err := repo.CreateSubmission(ctx, sub); err != nil {
				return err
			}
			pub := &types.Publication{SubmissionID: sub.ID, Locale: "fr_CA"}
			if err := repo.CreatePublication(ctx, pub); err != nil {
				return err
			}
			if err := repo.AddPublicationID(ctx, pub.ID, "doi", "10.9999/backissue.42"); err != nil {
				return err
			}
			sp.sub, sp.pub = sub, pub
			return nil
		},
	}
}

func testImporter(t *testing.T, spy *spyRepo) *Importer {
	t.Helper()
	cfg := &Configuration{
		Journal:         spy.journals["vetmed"],
		User:            spy.users["admin"],
		Editor:          spy.users["editor"],
		EditorGroup:     spy.groups[types.RoleEditor],
		AuthorGroup:     spy.groups[types.RoleAuthor],
		SubmissionGenre: spy.genres[types.GenreSubmission],
		Email:           "archives@example.com",
		ImportPath:      t.TempDir(),
		SectionTitle:    "Articles",
		ImageExtensions: []string{"tif", "png", "jpg"},
		CoverBasename:   "cover",
		ParserNames:     []string{"stub"},
		Locales:         locale.NewResolver("fr_CA", []string{"fr_CA", "en_US"}),
	}
	return New(cfg, spy, zap.NewNop())
}

func writeArticle(t *testing.T, content string) *ArticleEntry {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "article.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return &ArticleEntry{
		Volume:       "1",
		IssueName:    "1",
		Name:         "article",
		Dir:          dir,
		IssueDir:     filepath.Dir(dir),
		MetadataFile: path,
	}
}

func TestImportCommit(t *testing.T) {
	spy := newSpyRepo()
	imp := testImporter(t, spy)
	activeStub = defaultStub()

	out := imp.ImportArticle(context.Background(), writeArticle(t, stubXML))

	require.NoError(t, out.Err)
	assert.True(t, out.Imported())
	assert.Equal(t, StageCommitted, out.Stage)
	require.NotNil(t, out.Submission)
	require.NotNil(t, out.Publication)
	assert.Equal(t, out.Submission.ID, out.Publication.SubmissionID)
	assert.Equal(t, 1, activeStub.buildCalls)
	assert.Zero(t, activeStub.rollbacks)
	assert.True(t, spy.wrote("CreateSubmission"))
	assert.True(t, spy.wrote("CreatePublication"))
}

func TestImportMalformedDocument(t *testing.T) {
	spy := newSpyRepo()
	imp := testImporter(t, spy)
	activeStub = defaultStub()

	out := imp.ImportArticle(context.Background(), writeArticle(t, "<article><title></article>"))

	var malformed *MalformedDocumentError
	require.ErrorAs(t, out.Err, &malformed)
	assert.Equal(t, StageFailed, out.Stage)
	assert.Empty(t, spy.writes, "no repository write may occur for a malformed document")
	assert.Zero(t, activeStub.buildCalls)
}

func TestImportMissingMetadataFile(t *testing.T) {
	spy := newSpyRepo()
	imp := testImporter(t, spy)
	activeStub = defaultStub()

	entry := writeArticle(t, stubXML)
	entry.MetadataFile = ""
	out := imp.ImportArticle(context.Background(), entry)

	var malformed *MalformedDocumentError
	require.ErrorAs(t, out.Err, &malformed)
	assert.Equal(t, entry.Dir, malformed.Path)
	assert.Empty(t, spy.writes)
}

func TestImportUnsupportedDocType(t *testing.T) {
	spy := newSpyRepo()
	imp := testImporter(t, spy)
	activeStub = defaultStub()
	activeStub.docTypes = []xmldoc.DocType{{
		SystemID: "https://example.org/dtd/other-2.0.dtd",
		PublicID: "-//TEST//DTD Other 2.0//EN",
		Root:     "other",
	}}

	out := imp.ImportArticle(context.Background(), writeArticle(t, stubXML))

	var unsupported *UnsupportedDocTypeError
	require.ErrorAs(t, out.Err, &unsupported)
	assert.Equal(t, stubDocType, unsupported.DocType, "error should carry the offending signature")
	assert.Empty(t, spy.writes, "no repository write may occur for an unsupported doctype")
	assert.Zero(t, activeStub.buildCalls)
}

func TestImportDialectValidationFails(t *testing.T) {
	spy := newSpyRepo()
	imp := testImporter(t, spy)
	activeStub = defaultStub()
	activeStub.validateErr = errors.New("missing issue element")

	out := imp.ImportArticle(context.Background(), writeArticle(t, stubXML))

	var malformed *MalformedDocumentError
	require.ErrorAs(t, out.Err, &malformed)
	assert.ErrorContains(t, out.Err, "missing issue element")
	assert.Empty(t, spy.writes)
	assert.Zero(t, activeStub.buildCalls)
}

func TestImportDuplicate(t *testing.T) {
	spy := newSpyRepo()
	spy.existingIDs["doi\x0010.9999/backissue.42"] = 77
	imp := testImporter(t, spy)
	activeStub = defaultStub()

	out := imp.ImportArticle(context.Background(), writeArticle(t, stubXML))

	var dup *DuplicateError
	require.ErrorAs(t, out.Err, &dup)
	assert.Equal(t, "doi", dup.IDType)
	assert.Equal(t, "10.9999/backissue.42", dup.Value)
	assert.True(t, out.Duplicate())
	assert.Zero(t, activeStub.buildCalls, "build phase must not run for a duplicate")
	assert.Empty(t, spy.writes)
}

func TestImportDuplicateNormalizesDOI(t *testing.T) {
	spy := newSpyRepo()
	spy.existingIDs["doi\x0010.9999/backissue.42"] = 77
	imp := testImporter(t, spy)
	activeStub = defaultStub()
	activeStub.ids = map[string]string{"doi": "https://doi.org/10.9999/BACKISSUE.42"}

	out := imp.ImportArticle(context.Background(), writeArticle(t, stubXML))

	var dup *DuplicateError
	require.ErrorAs(t, out.Err, &dup)
	assert.Equal(t, "10.9999/backissue.42", dup.Value)
}

func TestImportBuildFailureRollsBack(t *testing.T) {
	spy := newSpyRepo()
	imp := testImporter(t, spy)

	cause := errors.New("galley file missing")
	activeStub = defaultStub()
	activeStub.build = func(ctx context.Context, sp *stubParser) error {
		sub := &types.Submission{JournalID: 1}
		if err := sp.imp.Repo().CreateSubmission(ctx, sub); err != nil {
			return err
		}
		sp.sub = sub
		return cause
	}
	activeStub.rollback = func(ctx context.Context, sp *stubParser) error {
		return sp.imp.Repo().DeleteSubmission(ctx, 1, sp.sub.ID)
	}

	out := imp.ImportArticle(context.Background(), writeArticle(t, stubXML))

	var build *BuildError
	require.ErrorAs(t, out.Err, &build)
	assert.True(t, build.RolledBack)
	assert.ErrorIs(t, out.Err, cause, "original cause must surface")
	assert.Equal(t, 1, activeStub.rollbacks, "rollback must run exactly once")
	assert.Empty(t, spy.submissions, "repository state must match the pre-import state")
}

func TestImportRollbackFailureSurfacesBoth(t *testing.T) {
	spy := newSpyRepo()
	imp := testImporter(t, spy)

	cause := errors.New("publication insert rejected")
	rbErr := errors.New("delete failed: database locked")
	activeStub = defaultStub()
	activeStub.build = func(context.Context, *stubParser) error { return cause }
	activeStub.rollbackErr = rbErr

	out := imp.ImportArticle(context.Background(), writeArticle(t, stubXML))

	var build *BuildError
	require.ErrorAs(t, out.Err, &build)
	assert.False(t, build.RolledBack)
	assert.ErrorIs(t, out.Err, cause)
	assert.ErrorIs(t, out.Err, rbErr)
}

func TestImportBatch(t *testing.T) {
	spy := newSpyRepo()
	imp := testImporter(t, spy)
	activeStub = defaultStub()

	root := t.TempDir()
	mkArticle := func(vol, iss, name, content string) {
		dir := filepath.Join(root, vol, iss, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "article.xml"), []byte(content), 0o644))
	}
	mkArticle("1", "1", "art-a", stubXML)
	mkArticle("1", "1", "art-b", stubXML) // same DOI: duplicate of art-a
	mkArticle("1", "1", "art-c", "<a><b></a>")

	it, err := NewIterator(root)
	require.NoError(t, err)
	require.Equal(t, 3, it.Len())

	var buf bytes.Buffer
	result, err := imp.ImportBatch(context.Background(), it, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Len(t, result.Outcomes, 3)
	assert.Contains(t, buf.String(), "imported: 1/1/art-a")
	assert.Contains(t, buf.String(), "skipped: 1/1/art-b")
	assert.Contains(t, buf.String(), "failed:  1/1/art-c")
	assert.Contains(t, buf.String(), "Import summary: 1 imported, 1 skipped, 1 failed (total: 3)")
}

func TestImportBatchCanceled(t *testing.T) {
	spy := newSpyRepo()
	imp := testImporter(t, spy)
	activeStub = defaultStub()

	root := t.TempDir()
	dir := filepath.Join(root, "1", "1", "art-a")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "article.xml"), []byte(stubXML), 0o644))

	it, err := NewIterator(root)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	result, err := imp.ImportBatch(ctx, it, &buf)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Total(), "a canceled batch stops before the next article")
	assert.False(t, strings.Contains(buf.String(), "imported:"))
}
