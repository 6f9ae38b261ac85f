// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Issue is one published collection of articles within a journal, identified
// by volume/number/year ordinals.
type Issue struct {
	// ID is the repository-assigned row identifier.
	ID int64 `json:"id" yaml:"id"`

	// JournalID is the owning journal.
	JournalID int64 `json:"journal_id" yaml:"journal_id"`

	// Volume is the issue's volume ordinal.
	Volume int `json:"volume" yaml:"volume"`

	// Number is the issue's number ordinal within the volume.
	Number int `json:"number" yaml:"number"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Title is an optional issue title (e.g. "Special Issue on Equine Care").
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Published reports whether the issue is visible to readers.
	Published bool `json:"published" yaml:"published"`

	// DatePublished is the publication date, zero when unpublished.
	DatePublished time.Time `json:"date_published" yaml:"date_published"`
}

// IssueCover is a per-locale cover image attached to an issue. The file lives
// in the journal's public storage under FileName.
type IssueCover struct {
	// IssueID is the owning issue.
	IssueID int64 `json:"issue_id" yaml:"issue_id"`

	// Locale is the locale this cover applies to.
	Locale string `json:"locale" yaml:"locale"`

	// FileName is the stored file's name within public storage.
	FileName string `json:"file_name" yaml:"file_name"`

	// AltText is the cover's alternative text.
	AltText string `json:"alt_text,omitempty" yaml:"alt_text,omitempty"`
}

// Section is a named division of a journal (e.g. "Articles", "Reviews").
// Display order within a particular issue is held separately as a custom
// section order.
type Section struct {
	// ID is the repository-assigned row identifier.
	ID int64 `json:"id" yaml:"id"`

	// JournalID is the owning journal.
	JournalID int64 `json:"journal_id" yaml:"journal_id"`

	// Title is the section's display title.
	Title string `json:"title" yaml:"title"`

	// Abbrev is the section's abbreviation (e.g. "ART").
	Abbrev string `json:"abbrev,omitempty" yaml:"abbrev,omitempty"`
}
