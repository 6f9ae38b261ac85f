// Package importer drives all-or-nothing imports of article metadata into a
// journal's publication records.
// Implements: prd001-import-pipeline (R1-R6);
//
//	docs/ARCHITECTURE § Import.
package importer

import (
	"context"

	"github.com/pdiddy/backissue/pkg/types"
)

// Repository is the persistence boundary the import pipeline writes through.
// *store.Store satisfies it; tests substitute recording fakes.
type Repository interface {
	// Job resolution.
	JournalByPath(ctx context.Context, path string) (*types.Journal, error)
	UserByUsername(ctx context.Context, username string) (*types.User, error)
	UserGroupByRole(ctx context.Context, journalID int64, role types.Role) (*types.UserGroup, error)
	GenreByKey(ctx context.Context, journalID int64, key string) (*types.Genre, error)

	// Deduplication.
	SubmissionByPublicID(ctx context.Context, idType, idValue string, journalID int64) (*types.Submission, error)

	// Issues and sections.
	IssueByOrdinals(ctx context.Context, journalID int64, volume, number, year int) (*types.Issue, error)
	CreateIssue(ctx context.Context, iss *types.Issue) error
	UpdateIssue(ctx context.Context, iss *types.Issue) error
	DeleteIssue(ctx context.Context, journalID, issueID int64) error
	SetIssueCover(ctx context.Context, c *types.IssueCover) error
	SectionByTitle(ctx context.Context, journalID int64, title string) (*types.Section, error)
	CreateSection(ctx context.Context, sec *types.Section) error
	DeleteSection(ctx context.Context, journalID, sectionID int64) error
	CustomSectionOrder(ctx context.Context, issueID, sectionID int64) (int, error)
	InsertCustomSectionOrder(ctx context.Context, issueID, sectionID int64, seq int) error

	// Submission graph.
	CreateSubmission(ctx context.Context, sub *types.Submission) error
	DeleteSubmission(ctx context.Context, journalID, submissionID int64) error
	CreatePublication(ctx context.Context, p *types.Publication) error
	UpdatePublication(ctx context.Context, p *types.Publication) error
	SetPublicationSetting(ctx context.Context, publicationID int64, loc, name, value string) error
	AddPublicationID(ctx context.Context, publicationID int64, idType, idValue string) error
	CreateAuthor(ctx context.Context, a *types.Author) error
	CreateSubmissionFile(ctx context.Context, f *types.SubmissionFile) error

	// File storage.
	CopyToPublicStorage(journalID int64, sourcePath, destName string) (string, error)
	StageSubmissionFile(journalID, submissionID int64, sourcePath string) (string, error)
}
