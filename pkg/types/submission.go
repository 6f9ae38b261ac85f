// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SubmissionStatus tracks where a submission sits in the editorial flow.
// Imported back-issue articles go straight to published.
type SubmissionStatus string

const (
	SubmissionQueued    SubmissionStatus = "queued"
	SubmissionPublished SubmissionStatus = "published"
)

// Submission is one article within a journal. A submission owns one or more
// publication versions; imports create exactly one.
type Submission struct {
	// ID is the repository-assigned row identifier.
	ID int64 `json:"id" yaml:"id"`

	// JournalID is the owning journal.
	JournalID int64 `json:"journal_id" yaml:"journal_id"`

	// Status is the submission's editorial status.
	Status SubmissionStatus `json:"status" yaml:"status"`

	// DateSubmitted records when the submission entered the system.
	DateSubmitted time.Time `json:"date_submitted" yaml:"date_submitted"`
}

// Publication is one version of a submission's published content. Localized
// fields (title, abstract) are stored as publication settings keyed by locale.
type Publication struct {
	// ID is the repository-assigned row identifier.
	ID int64 `json:"id" yaml:"id"`

	// SubmissionID is the owning submission.
	SubmissionID int64 `json:"submission_id" yaml:"submission_id"`

	// IssueID is the issue this publication appears in.
	IssueID int64 `json:"issue_id" yaml:"issue_id"`

	// SectionID is the journal section the publication is filed under.
	SectionID int64 `json:"section_id" yaml:"section_id"`

	// Locale is the publication's primary locale.
	Locale string `json:"locale" yaml:"locale"`

	// DatePublished is the article's publication date.
	DatePublished time.Time `json:"date_published" yaml:"date_published"`

	// PrimaryContactID is the author who serves as contact, zero when unset.
	PrimaryContactID int64 `json:"primary_contact_id,omitempty" yaml:"primary_contact_id,omitempty"`

	// Version is the publication version number, 1 for imports.
	Version int `json:"version" yaml:"version"`
}

// Author is one creator credited on a publication, ordered by Seq.
type Author struct {
	// ID is the repository-assigned row identifier.
	ID int64 `json:"id" yaml:"id"`

	// PublicationID is the owning publication.
	PublicationID int64 `json:"publication_id" yaml:"publication_id"`

	// GivenName is the author's given name or, for a synthesized default
	// author, the journal name.
	GivenName string `json:"given_name" yaml:"given_name"`

	// FamilyName is the author's family name, possibly empty.
	FamilyName string `json:"family_name,omitempty" yaml:"family_name,omitempty"`

	// Email is the author's contact address.
	Email string `json:"email" yaml:"email"`

	// Seq orders authors within a publication, starting at 1.
	Seq int `json:"seq" yaml:"seq"`

	// IncludeInBrowse reports whether the author appears in listings.
	IncludeInBrowse bool `json:"include_in_browse" yaml:"include_in_browse"`

	// UserGroupID is the role group the author belongs to.
	UserGroupID int64 `json:"user_group_id" yaml:"user_group_id"`
}

// SubmissionFile is one file attached to a submission (the article galley or
// a supplementary asset), classified by genre.
type SubmissionFile struct {
	// ID is the repository-assigned row identifier.
	ID int64 `json:"id" yaml:"id"`

	// SubmissionID is the owning submission.
	SubmissionID int64 `json:"submission_id" yaml:"submission_id"`

	// GenreID classifies the file's content category.
	GenreID int64 `json:"genre_id" yaml:"genre_id"`

	// OriginalName is the file's name as found in the article folder.
	OriginalName string `json:"original_name" yaml:"original_name"`

	// StoredName is the file's name within submission storage.
	StoredName string `json:"stored_name" yaml:"stored_name"`

	// Locale is the file's language, empty when not language-specific.
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty"`
}
