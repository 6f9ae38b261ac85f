// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/pdiddy/backissue/internal/locale"
	"github.com/pdiddy/backissue/pkg/types"
)

// Defaults applied when the job omits optional settings.
const (
	DefaultSectionTitle  = "Articles"
	DefaultCoverBasename = "cover"
)

// DefaultImageExtensions classify files as images when the job does not
// configure its own set. Order matters: the cover locator probes in order.
var DefaultImageExtensions = []string{"png", "jpg", "jpeg", "gif"}

// Configuration holds the resolved, immutable parameters of one import
// job. Built once by NewConfiguration and shared read-only across every
// article in the run.
// Implements: prd001-import-pipeline R1.1-R1.3.
type Configuration struct {
	// Journal is the target journal record, resolved from the job's path.
	Journal *types.Journal
	// User is the acting user the import runs as.
	User *types.User
	// Editor is the user assigned to imported submissions.
	Editor *types.User
	// EditorGroup and AuthorGroup are the journal's role groups.
	EditorGroup *types.UserGroup
	AuthorGroup *types.UserGroup
	// SubmissionGenre classifies primary galley files.
	SubmissionGenre *types.Genre
	// Email is the fallback contact used by the default author.
	Email string
	// ImportPath is the root of the volume/issue/article tree.
	ImportPath string
	// SectionTitle names the section used when metadata supplies none.
	SectionTitle string
	// ImageExtensions, in probe order, classify files as images.
	ImageExtensions []string
	// CoverBasename is the stem of issue cover files, e.g. "cover".
	CoverBasename string
	// ParserNames are the enabled dialect variants, tried in order.
	ParserNames []string
	// Locales resolves free-form locale tokens against the journal.
	Locales *locale.Resolver
}

// NewConfiguration validates the job eagerly against the repository and
// resolves every referenced record. Any unknown journal, user, editor,
// group or genre, a malformed email, an unreadable import path, or an
// unregistered parser name fails with ConfigError before any article is
// touched.
func NewConfiguration(ctx context.Context, repo Repository, job *types.ImportJob) (*Configuration, error) {
	journal, err := repo.JournalByPath(ctx, job.Journal)
	if err != nil {
		return nil, &ConfigError{Setting: "journal", Err: fmt.Errorf("resolving journal %q: %w", job.Journal, err)}
	}

	user, err := repo.UserByUsername(ctx, job.User)
	if err != nil {
		return nil, &ConfigError{Setting: "user", Err: fmt.Errorf("resolving user %q: %w", job.User, err)}
	}
	editor, err := repo.UserByUsername(ctx, job.Editor)
	if err != nil {
		return nil, &ConfigError{Setting: "editor", Err: fmt.Errorf("resolving editor %q: %w", job.Editor, err)}
	}

	if _, err := mail.ParseAddress(job.Email); err != nil {
		return nil, &ConfigError{Setting: "email", Err: fmt.Errorf("invalid address %q: %w", job.Email, err)}
	}

	info, err := os.Stat(job.Path)
	if err != nil {
		return nil, &ConfigError{Setting: "path", Err: err}
	}
	if !info.IsDir() {
		return nil, &ConfigError{Setting: "path", Err: fmt.Errorf("%s is not a directory", job.Path)}
	}

	editorGroup, err := repo.UserGroupByRole(ctx, journal.ID, types.RoleEditor)
	if err != nil {
		return nil, &ConfigError{Setting: "editor group", Err: err}
	}
	authorGroup, err := repo.UserGroupByRole(ctx, journal.ID, types.RoleAuthor)
	if err != nil {
		return nil, &ConfigError{Setting: "author group", Err: err}
	}
	genre, err := repo.GenreByKey(ctx, journal.ID, types.GenreSubmission)
	if err != nil {
		return nil, &ConfigError{Setting: "submission genre", Err: err}
	}

	parsers := job.Formats
	if len(parsers) == 0 {
		parsers = Parsers()
	}
	if len(parsers) == 0 {
		return nil, &ConfigError{Setting: "formats", Err: errors.New("no parser variants registered")}
	}
	for _, name := range parsers {
		if _, ok := factoryFor(name); !ok {
			return nil, &ConfigError{Setting: "formats", Err: fmt.Errorf("unknown parser variant %q", name)}
		}
	}

	section := job.Section
	if section == "" {
		section = DefaultSectionTitle
	}
	basename := job.CoverBasename
	if basename == "" {
		basename = DefaultCoverBasename
	}

	return &Configuration{
		Journal:         journal,
		User:            user,
		Editor:          editor,
		EditorGroup:     editorGroup,
		AuthorGroup:     authorGroup,
		SubmissionGenre: genre,
		Email:           job.Email,
		ImportPath:      job.Path,
		SectionTitle:    section,
		ImageExtensions: normalizeExtensions(job.ImageExtensions),
		CoverBasename:   basename,
		ParserNames:     parsers,
		Locales:         locale.NewResolver(journal.PrimaryLocale, journal.SupportedLocales),
	}, nil
}

// normalizeExtensions lower-cases and strips leading dots, preserving the
// configured probe order. An empty input falls back to the defaults.
func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return DefaultImageExtensions
	}
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}
