// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/backissue/pkg/types"
)

// IssueByOrdinals loads an issue by its (volume, number, year) ordinals
// within a journal.
func (s *Store) IssueByOrdinals(ctx context.Context, journalID int64, volume, number, year int) (*types.Issue, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT issue_id, journal_id, volume, number, year, title, published, date_published
		 FROM issues WHERE journal_id = ? AND volume = ? AND number = ? AND year = ?`,
		journalID, volume, number, year)
	iss, err := scanIssue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("issue %d(%d) %d: %w", volume, number, year, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying issue: %w", err)
	}
	return iss, nil
}

// CreateIssue inserts an issue. The assigned id is written back.
func (s *Store) CreateIssue(ctx context.Context, iss *types.Issue) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO issues (journal_id, volume, number, year, title, published, date_published)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		iss.JournalID, iss.Volume, iss.Number, iss.Year,
		nullString(iss.Title), iss.Published, nullTime(iss.DatePublished),
	)
	if err != nil {
		return fmt.Errorf("inserting issue: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading issue id: %w", err)
	}
	iss.ID = id
	return nil
}

// UpdateIssue rewrites an issue's mutable fields.
func (s *Store) UpdateIssue(ctx context.Context, iss *types.Issue) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE issues SET title = ?, published = ?, date_published = ?
		 WHERE issue_id = ?`,
		nullString(iss.Title), iss.Published, nullTime(iss.DatePublished), iss.ID,
	)
	if err != nil {
		return fmt.Errorf("updating issue %d: %w", iss.ID, err)
	}
	return nil
}

// DeleteIssue removes an issue, its ordering entries and covers, and any
// staged cover files in public storage.
func (s *Store) DeleteIssue(ctx context.Context, journalID, issueID int64) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_name FROM issue_covers WHERE issue_id = ?`, issueID)
	if err != nil {
		return fmt.Errorf("querying covers for issue %d: %w", issueID, err)
	}
	var covers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("scanning cover name: %w", err)
		}
		covers = append(covers, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating covers: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM issues WHERE issue_id = ?`, issueID); err != nil {
		return fmt.Errorf("deleting issue %d: %w", issueID, err)
	}
	for _, name := range covers {
		path := filepath.Join(s.PublicDir(journalID), name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing cover %s: %w", name, err)
		}
	}
	s.log.Debug("issue deleted", zap.Int64("issue", issueID))
	return nil
}

// SetIssueCover records a per-locale cover for an issue, replacing any
// previous one for that locale.
func (s *Store) SetIssueCover(ctx context.Context, c *types.IssueCover) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO issue_covers (issue_id, locale, file_name, alt_text)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(issue_id, locale) DO UPDATE SET
			file_name=excluded.file_name, alt_text=excluded.alt_text`,
		c.IssueID, c.Locale, c.FileName, nullString(c.AltText),
	)
	if err != nil {
		return fmt.Errorf("setting cover for issue %d: %w", c.IssueID, err)
	}
	return nil
}

// IssueCover loads an issue's cover for a locale.
func (s *Store) IssueCover(ctx context.Context, issueID int64, loc string) (*types.IssueCover, error) {
	c := &types.IssueCover{}
	var alt sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT issue_id, locale, file_name, alt_text FROM issue_covers
		 WHERE issue_id = ? AND locale = ?`, issueID, loc,
	).Scan(&c.IssueID, &c.Locale, &c.FileName, &alt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cover for issue %d locale %s: %w", issueID, loc, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying cover: %w", err)
	}
	c.AltText = alt.String
	return c, nil
}

// SectionByTitle loads a journal section by its display title.
func (s *Store) SectionByTitle(ctx context.Context, journalID int64, title string) (*types.Section, error) {
	sec := &types.Section{}
	var abbrev sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT section_id, journal_id, title, abbrev FROM sections
		 WHERE journal_id = ? AND title = ?`, journalID, title,
	).Scan(&sec.ID, &sec.JournalID, &sec.Title, &abbrev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("section %q: %w", title, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying section %q: %w", title, err)
	}
	sec.Abbrev = abbrev.String
	return sec, nil
}

// CreateSection inserts a section. The assigned id is written back.
func (s *Store) CreateSection(ctx context.Context, sec *types.Section) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sections (journal_id, title, abbrev) VALUES (?, ?, ?)`,
		sec.JournalID, sec.Title, nullString(sec.Abbrev),
	)
	if err != nil {
		return fmt.Errorf("inserting section %q: %w", sec.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading section id: %w", err)
	}
	sec.ID = id
	return nil
}

// DeleteSection removes a section; its custom ordering entries cascade.
func (s *Store) DeleteSection(ctx context.Context, journalID, sectionID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sections WHERE section_id = ? AND journal_id = ?`,
		sectionID, journalID,
	)
	if err != nil {
		return fmt.Errorf("deleting section %d: %w", sectionID, err)
	}
	return nil
}

// CustomSectionOrder returns the stored ordering sequence for a section
// within an issue, or ErrNotFound when none exists.
func (s *Store) CustomSectionOrder(ctx context.Context, issueID, sectionID int64) (int, error) {
	var seq int
	err := s.db.QueryRowContext(ctx,
		`SELECT seq FROM custom_section_orders WHERE issue_id = ? AND section_id = ?`,
		issueID, sectionID,
	).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("order for issue %d section %d: %w", issueID, sectionID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("querying section order: %w", err)
	}
	return seq, nil
}

// InsertCustomSectionOrder records a section's ordering sequence within an
// issue.
func (s *Store) InsertCustomSectionOrder(ctx context.Context, issueID, sectionID int64, seq int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO custom_section_orders (issue_id, section_id, seq) VALUES (?, ?, ?)`,
		issueID, sectionID, seq,
	)
	if err != nil {
		return fmt.Errorf("inserting section order: %w", err)
	}
	return nil
}

func scanIssue(row *sql.Row) (*types.Issue, error) {
	iss := &types.Issue{}
	var title, datePublished sql.NullString
	err := row.Scan(&iss.ID, &iss.JournalID, &iss.Volume, &iss.Number, &iss.Year,
		&title, &iss.Published, &datePublished)
	if err != nil {
		return nil, err
	}
	iss.Title = title.String
	if datePublished.Valid {
		t, err := time.Parse(time.RFC3339, datePublished.String)
		if err != nil {
			return nil, fmt.Errorf("parsing date_published: %w", err)
		}
		iss.DatePublished = t
	}
	return iss, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}
