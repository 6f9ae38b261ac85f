// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Role identifies the function a user group plays within a journal.
// Per prd004-repository R2.3.
type Role string

const (
	RoleEditor Role = "editor"
	RoleAuthor Role = "author"
)

// Genre keys shipped with every journal. Files attached to a submission are
// classified under exactly one of these. Per prd004-repository R2.4.
const (
	GenreSubmission = "SUBMISSION"
	GenreImage      = "IMAGE"
	GenreMultimedia = "MULTIMEDIA"
)

// Journal is the tenant context under which articles are imported. It scopes
// users, genres, sections and public-identifier uniqueness.
type Journal struct {
	// ID is the repository-assigned row identifier.
	ID int64 `json:"id" yaml:"id"`

	// Path is the unique URL-safe identifier the journal is addressed by
	// (e.g. "vetmed").
	Path string `json:"path" yaml:"path"`

	// PrimaryLocale is the journal's default locale (e.g. "fr_CA").
	PrimaryLocale string `json:"primary_locale" yaml:"primary_locale"`

	// SupportedLocales lists every locale the journal publishes in,
	// including PrimaryLocale.
	SupportedLocales []string `json:"supported_locales" yaml:"supported_locales"`

	// Names maps locale to the journal's display name in that locale.
	Names map[string]string `json:"names" yaml:"names"`

	// Enabled reports whether the journal accepts new content.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Name returns the journal's display name in the given locale, falling back
// to the primary locale when no localized name exists.
func (j *Journal) Name(locale string) string {
	if n, ok := j.Names[locale]; ok && n != "" {
		return n
	}
	return j.Names[j.PrimaryLocale]
}

// Supports reports whether locale is one of the journal's recognized locales.
func (j *Journal) Supports(locale string) bool {
	for _, l := range j.SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}

// User is an account that can act on a journal (submit, edit, import).
type User struct {
	// ID is the repository-assigned row identifier.
	ID int64 `json:"id" yaml:"id"`

	// Username is the unique login name.
	Username string `json:"username" yaml:"username"`

	// Email is the account's contact address.
	Email string `json:"email" yaml:"email"`
}

// UserGroup binds a role to a journal. Authors created during import are
// attached to the journal's author group; the acting editor must belong to
// the editor group.
type UserGroup struct {
	// ID is the repository-assigned row identifier.
	ID int64 `json:"id" yaml:"id"`

	// JournalID is the owning journal.
	JournalID int64 `json:"journal_id" yaml:"journal_id"`

	// Role is the group's function within the journal.
	Role Role `json:"role" yaml:"role"`

	// Name is the group's display name (e.g. "Authors").
	Name string `json:"name" yaml:"name"`
}

// Genre classifies a file attached to a submission: the article text itself,
// an image, or other multimedia.
type Genre struct {
	// ID is the repository-assigned row identifier.
	ID int64 `json:"id" yaml:"id"`

	// JournalID is the owning journal.
	JournalID int64 `json:"journal_id" yaml:"journal_id"`

	// Key is one of GenreSubmission, GenreImage, GenreMultimedia.
	Key string `json:"key" yaml:"key"`

	// Name is the genre's display name.
	Name string `json:"name" yaml:"name"`
}
