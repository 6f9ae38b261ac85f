// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/backissue/pkg/types"
)

// CreateSubmission inserts a submission. The assigned id is written back.
func (s *Store) CreateSubmission(ctx context.Context, sub *types.Submission) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (journal_id, status, date_submitted) VALUES (?, ?, ?)`,
		sub.JournalID, string(sub.Status), sub.DateSubmitted.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading submission id: %w", err)
	}
	sub.ID = id
	return nil
}

// DeleteSubmission removes a submission with its publications, authors,
// settings, identifiers and file rows, plus its staged files on disk.
func (s *Store) DeleteSubmission(ctx context.Context, journalID, submissionID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE submission_id = ?`, submissionID); err != nil {
		return fmt.Errorf("deleting submission %d: %w", submissionID, err)
	}
	dir := s.submissionFilesDir(journalID, submissionID)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing files for submission %d: %w", submissionID, err)
	}
	s.log.Debug("submission deleted", zap.Int64("submission", submissionID))
	return nil
}

// SubmissionByPublicID finds the submission holding a publication with the
// given public identifier within a journal.
func (s *Store) SubmissionByPublicID(ctx context.Context, idType, idValue string, journalID int64) (*types.Submission, error) {
	sub := &types.Submission{}
	var dateSubmitted string
	err := s.db.QueryRowContext(ctx,
		`SELECT s.submission_id, s.journal_id, s.status, s.date_submitted
		 FROM publication_ids pi
		 JOIN publications p ON p.publication_id = pi.publication_id
		 JOIN submissions s ON s.submission_id = p.submission_id
		 WHERE pi.id_type = ? AND pi.id_value = ? AND s.journal_id = ?
		 LIMIT 1`,
		idType, idValue, journalID,
	).Scan(&sub.ID, &sub.JournalID, &sub.Status, &dateSubmitted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("submission with %s %q: %w", idType, idValue, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying submission by %s: %w", idType, err)
	}
	if t, err := time.Parse(time.RFC3339, dateSubmitted); err == nil {
		sub.DateSubmitted = t
	}
	return sub, nil
}

// CreatePublication inserts a publication version. The assigned id is
// written back.
func (s *Store) CreatePublication(ctx context.Context, p *types.Publication) error {
	if p.Version == 0 {
		p.Version = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO publications (submission_id, issue_id, section_id, locale, date_published, primary_contact_id, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.SubmissionID, nullID(p.IssueID), nullID(p.SectionID), p.Locale,
		nullTime(p.DatePublished), nullID(p.PrimaryContactID), p.Version,
	)
	if err != nil {
		return fmt.Errorf("inserting publication: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading publication id: %w", err)
	}
	p.ID = id
	return nil
}

// UpdatePublication rewrites a publication's mutable fields.
func (s *Store) UpdatePublication(ctx context.Context, p *types.Publication) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE publications SET issue_id = ?, section_id = ?, locale = ?,
			date_published = ?, primary_contact_id = ?
		 WHERE publication_id = ?`,
		nullID(p.IssueID), nullID(p.SectionID), p.Locale,
		nullTime(p.DatePublished), nullID(p.PrimaryContactID), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating publication %d: %w", p.ID, err)
	}
	return nil
}

// PublicationsBySubmission lists a submission's publication versions.
func (s *Store) PublicationsBySubmission(ctx context.Context, submissionID int64) ([]types.Publication, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT publication_id, submission_id, issue_id, section_id, locale, date_published, primary_contact_id, version
		 FROM publications WHERE submission_id = ? ORDER BY version`, submissionID)
	if err != nil {
		return nil, fmt.Errorf("querying publications: %w", err)
	}
	defer rows.Close()

	var out []types.Publication
	for rows.Next() {
		var p types.Publication
		var issueID, sectionID, contactID sql.NullInt64
		var datePublished sql.NullString
		if err := rows.Scan(&p.ID, &p.SubmissionID, &issueID, &sectionID,
			&p.Locale, &datePublished, &contactID, &p.Version); err != nil {
			return nil, fmt.Errorf("scanning publication: %w", err)
		}
		p.IssueID = issueID.Int64
		p.SectionID = sectionID.Int64
		p.PrimaryContactID = contactID.Int64
		if datePublished.Valid {
			if t, err := time.Parse(time.RFC3339, datePublished.String); err == nil {
				p.DatePublished = t
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetPublicationSetting writes one localized publication setting
// (e.g. title, abstract), replacing any previous value.
func (s *Store) SetPublicationSetting(ctx context.Context, publicationID int64, loc, name, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO publication_settings (publication_id, locale, setting_name, setting_value)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(publication_id, locale, setting_name) DO UPDATE SET
			setting_value=excluded.setting_value`,
		publicationID, loc, name, value,
	)
	if err != nil {
		return fmt.Errorf("setting %s for publication %d: %w", name, publicationID, err)
	}
	return nil
}

// PublicationSetting reads one localized publication setting, "" when unset.
func (s *Store) PublicationSetting(ctx context.Context, publicationID int64, loc, name string) (string, error) {
	var v sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT setting_value FROM publication_settings
		 WHERE publication_id = ? AND locale = ? AND setting_name = ?`,
		publicationID, loc, name,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying setting %s: %w", name, err)
	}
	return v.String, nil
}

// AddPublicationID records a public identifier for a publication.
func (s *Store) AddPublicationID(ctx context.Context, publicationID int64, idType, idValue string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO publication_ids (publication_id, id_type, id_value) VALUES (?, ?, ?)`,
		publicationID, idType, idValue,
	)
	if err != nil {
		return fmt.Errorf("adding %s to publication %d: %w", idType, publicationID, err)
	}
	return nil
}

// CreateAuthor inserts an author. The assigned id is written back.
func (s *Store) CreateAuthor(ctx context.Context, a *types.Author) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO authors (publication_id, given_name, family_name, email, seq, include_in_browse, user_group_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.PublicationID, a.GivenName, nullString(a.FamilyName), nullString(a.Email),
		a.Seq, a.IncludeInBrowse, nullID(a.UserGroupID),
	)
	if err != nil {
		return fmt.Errorf("inserting author: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading author id: %w", err)
	}
	a.ID = id
	return nil
}

// AuthorsByPublication lists a publication's authors in sequence order.
func (s *Store) AuthorsByPublication(ctx context.Context, publicationID int64) ([]types.Author, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT author_id, publication_id, given_name, family_name, email, seq, include_in_browse, user_group_id
		 FROM authors WHERE publication_id = ? ORDER BY seq`, publicationID)
	if err != nil {
		return nil, fmt.Errorf("querying authors: %w", err)
	}
	defer rows.Close()

	var out []types.Author
	for rows.Next() {
		var a types.Author
		var family, email sql.NullString
		var group sql.NullInt64
		if err := rows.Scan(&a.ID, &a.PublicationID, &a.GivenName, &family,
			&email, &a.Seq, &a.IncludeInBrowse, &group); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		a.FamilyName = family.String
		a.Email = email.String
		a.UserGroupID = group.Int64
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateSubmissionFile records a staged submission file.
func (s *Store) CreateSubmissionFile(ctx context.Context, f *types.SubmissionFile) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO submission_files (submission_id, genre_id, original_name, stored_name, locale)
		 VALUES (?, ?, ?, ?, ?)`,
		f.SubmissionID, nullID(f.GenreID), f.OriginalName, f.StoredName, nullString(f.Locale),
	)
	if err != nil {
		return fmt.Errorf("inserting file %q: %w", f.OriginalName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading file id: %w", err)
	}
	f.ID = id
	return nil
}

// SubmissionFiles lists a submission's files.
func (s *Store) SubmissionFiles(ctx context.Context, submissionID int64) ([]types.SubmissionFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_id, submission_id, genre_id, original_name, stored_name, locale
		 FROM submission_files WHERE submission_id = ? ORDER BY file_id`, submissionID)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var out []types.SubmissionFile
	for rows.Next() {
		var f types.SubmissionFile
		var genre sql.NullInt64
		var loc sql.NullString
		if err := rows.Scan(&f.ID, &f.SubmissionID, &genre, &f.OriginalName,
			&f.StoredName, &loc); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		f.GenreID = genre.Int64
		f.Locale = loc.String
		out = append(out, f)
	}
	return out, rows.Err()
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
