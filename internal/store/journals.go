// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/backissue/pkg/types"
)

// defaultGroups and defaultGenres are seeded into every new journal so
// imports always find the role groups and genres they depend on.
var defaultGroups = []struct {
	role types.Role
	name string
}{
	{types.RoleEditor, "Editors"},
	{types.RoleAuthor, "Authors"},
}

var defaultGenres = []struct {
	key  string
	name string
}{
	{types.GenreSubmission, "Article Text"},
	{types.GenreImage, "Image"},
	{types.GenreMultimedia, "Multimedia"},
}

// CreateJournal inserts a journal with its localized names and seeds the
// default user groups and genres. The assigned id is written back to j.
func (s *Store) CreateJournal(ctx context.Context, j *types.Journal) error {
	locales, err := json.Marshal(j.SupportedLocales)
	if err != nil {
		return fmt.Errorf("marshaling locales: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO journals (path, primary_locale, supported_locales, enabled)
		 VALUES (?, ?, ?, ?)`,
		j.Path, j.PrimaryLocale, string(locales), j.Enabled,
	)
	if err != nil {
		return fmt.Errorf("inserting journal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading journal id: %w", err)
	}

	for loc, name := range j.Names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO journal_settings (journal_id, locale, setting_name, setting_value)
			 VALUES (?, ?, 'name', ?)`,
			id, loc, name,
		); err != nil {
			return fmt.Errorf("inserting journal name: %w", err)
		}
	}
	for _, g := range defaultGroups {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_groups (journal_id, role, name) VALUES (?, ?, ?)`,
			id, string(g.role), g.name,
		); err != nil {
			return fmt.Errorf("seeding user group %s: %w", g.role, err)
		}
	}
	for _, g := range defaultGenres {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO genres (journal_id, key, name) VALUES (?, ?, ?)`,
			id, g.key, g.name,
		); err != nil {
			return fmt.Errorf("seeding genre %s: %w", g.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing journal: %w", err)
	}
	j.ID = id
	s.log.Info("journal created", zap.String("path", j.Path), zap.Int64("id", id))
	return nil
}

// JournalByPath loads a journal and its localized names by unique path.
func (s *Store) JournalByPath(ctx context.Context, path string) (*types.Journal, error) {
	j := &types.Journal{}
	var locales string
	err := s.db.QueryRowContext(ctx,
		`SELECT journal_id, path, primary_locale, supported_locales, enabled
		 FROM journals WHERE path = ?`, path,
	).Scan(&j.ID, &j.Path, &j.PrimaryLocale, &locales, &j.Enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("journal %q: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying journal %q: %w", path, err)
	}
	if err := json.Unmarshal([]byte(locales), &j.SupportedLocales); err != nil {
		return nil, fmt.Errorf("parsing locales for %q: %w", path, err)
	}
	if err := s.loadJournalNames(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// Journals lists all journals with their localized names.
func (s *Store) Journals(ctx context.Context) ([]types.Journal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT journal_id, path, primary_locale, supported_locales, enabled
		 FROM journals ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("querying journals: %w", err)
	}
	defer rows.Close()

	var out []types.Journal
	for rows.Next() {
		var j types.Journal
		var locales string
		if err := rows.Scan(&j.ID, &j.Path, &j.PrimaryLocale, &locales, &j.Enabled); err != nil {
			return nil, fmt.Errorf("scanning journal: %w", err)
		}
		if err := json.Unmarshal([]byte(locales), &j.SupportedLocales); err != nil {
			return nil, fmt.Errorf("parsing locales for %q: %w", j.Path, err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journals: %w", err)
	}
	for i := range out {
		if err := s.loadJournalNames(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) loadJournalNames(ctx context.Context, j *types.Journal) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT locale, setting_value FROM journal_settings
		 WHERE journal_id = ? AND setting_name = 'name'`, j.ID)
	if err != nil {
		return fmt.Errorf("querying journal names: %w", err)
	}
	defer rows.Close()

	j.Names = make(map[string]string)
	for rows.Next() {
		var loc string
		var name sql.NullString
		if err := rows.Scan(&loc, &name); err != nil {
			return fmt.Errorf("scanning journal name: %w", err)
		}
		j.Names[loc] = name.String
	}
	return rows.Err()
}

// CreateUser inserts a user account. The assigned id is written back.
func (s *Store) CreateUser(ctx context.Context, u *types.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email) VALUES (?, ?)`, u.Username, u.Email)
	if err != nil {
		return fmt.Errorf("inserting user %q: %w", u.Username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	u.ID = id
	return nil
}

// UserByUsername loads a user account by unique username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*types.User, error) {
	u := &types.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, email FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %q: %w", username, err)
	}
	return u, nil
}

// UserGroupByRole loads the journal's group for a role.
func (s *Store) UserGroupByRole(ctx context.Context, journalID int64, role types.Role) (*types.UserGroup, error) {
	g := &types.UserGroup{}
	err := s.db.QueryRowContext(ctx,
		`SELECT user_group_id, journal_id, role, name FROM user_groups
		 WHERE journal_id = ? AND role = ?`, journalID, string(role),
	).Scan(&g.ID, &g.JournalID, &g.Role, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s in journal %d: %w", role, journalID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying group %s: %w", role, err)
	}
	return g, nil
}

// GenreByKey loads the journal's genre for a key (e.g. "IMAGE").
func (s *Store) GenreByKey(ctx context.Context, journalID int64, key string) (*types.Genre, error) {
	g := &types.Genre{}
	err := s.db.QueryRowContext(ctx,
		`SELECT genre_id, journal_id, key, name FROM genres
		 WHERE journal_id = ? AND key = ?`, journalID, key,
	).Scan(&g.ID, &g.JournalID, &g.Key, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("genre %s in journal %d: %w", key, journalID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying genre %s: %w", key, err)
	}
	return g, nil
}
