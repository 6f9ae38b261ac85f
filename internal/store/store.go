// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the publication record set (journals, issues,
// submissions, publications, sections, authors, files) in SQLite and manages
// the journals' file storage. Implements: prd004-repository.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/backissue/pkg/types"
)

const (
	dbFile         = "backissue.db"
	filesDir       = "files"
	journalsDir    = "journals"
	publicDir      = "public"
	submissionsDir = "submissions"
)

// ErrNotFound reports that a lookup matched no row.
var ErrNotFound = errors.New("not found")

// Store manages the repository database and file storage under one data
// directory.
type Store struct {
	db      *sql.DB
	dataDir string
	log     *zap.Logger
}

// Open opens or creates the repository database at DataDir/backissue.db and
// creates the schema if it does not exist.
func Open(cfg types.StorageConfig, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir, log: log}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug("repository opened", zap.String("path", dbPath))
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS journals (
			journal_id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			primary_locale TEXT NOT NULL,
			supported_locales TEXT NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS journal_settings (
			journal_id INTEGER NOT NULL REFERENCES journals(journal_id) ON DELETE CASCADE,
			locale TEXT NOT NULL,
			setting_name TEXT NOT NULL,
			setting_value TEXT,
			PRIMARY KEY (journal_id, locale, setting_name)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_groups (
			user_group_id INTEGER PRIMARY KEY AUTOINCREMENT,
			journal_id INTEGER NOT NULL REFERENCES journals(journal_id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			name TEXT NOT NULL,
			UNIQUE (journal_id, role)
		)`,
		`CREATE TABLE IF NOT EXISTS genres (
			genre_id INTEGER PRIMARY KEY AUTOINCREMENT,
			journal_id INTEGER NOT NULL REFERENCES journals(journal_id) ON DELETE CASCADE,
			key TEXT NOT NULL,
			name TEXT NOT NULL,
			UNIQUE (journal_id, key)
		)`,
		`CREATE TABLE IF NOT EXISTS issues (
			issue_id INTEGER PRIMARY KEY AUTOINCREMENT,
			journal_id INTEGER NOT NULL REFERENCES journals(journal_id),
			volume INTEGER NOT NULL,
			number INTEGER NOT NULL,
			year INTEGER NOT NULL,
			title TEXT,
			published INTEGER NOT NULL DEFAULT 0,
			date_published TEXT,
			UNIQUE (journal_id, volume, number, year)
		)`,
		`CREATE TABLE IF NOT EXISTS issue_covers (
			issue_id INTEGER NOT NULL REFERENCES issues(issue_id) ON DELETE CASCADE,
			locale TEXT NOT NULL,
			file_name TEXT NOT NULL,
			alt_text TEXT,
			PRIMARY KEY (issue_id, locale)
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			section_id INTEGER PRIMARY KEY AUTOINCREMENT,
			journal_id INTEGER NOT NULL REFERENCES journals(journal_id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			abbrev TEXT,
			UNIQUE (journal_id, title)
		)`,
		`CREATE TABLE IF NOT EXISTS custom_section_orders (
			issue_id INTEGER NOT NULL REFERENCES issues(issue_id) ON DELETE CASCADE,
			section_id INTEGER NOT NULL REFERENCES sections(section_id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			PRIMARY KEY (issue_id, section_id)
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			submission_id INTEGER PRIMARY KEY AUTOINCREMENT,
			journal_id INTEGER NOT NULL REFERENCES journals(journal_id),
			status TEXT NOT NULL,
			date_submitted TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS publications (
			publication_id INTEGER PRIMARY KEY AUTOINCREMENT,
			submission_id INTEGER NOT NULL REFERENCES submissions(submission_id) ON DELETE CASCADE,
			issue_id INTEGER REFERENCES issues(issue_id),
			section_id INTEGER REFERENCES sections(section_id),
			locale TEXT NOT NULL,
			date_published TEXT,
			primary_contact_id INTEGER,
			version INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS publication_settings (
			publication_id INTEGER NOT NULL REFERENCES publications(publication_id) ON DELETE CASCADE,
			locale TEXT NOT NULL,
			setting_name TEXT NOT NULL,
			setting_value TEXT,
			PRIMARY KEY (publication_id, locale, setting_name)
		)`,
		`CREATE TABLE IF NOT EXISTS publication_ids (
			publication_id INTEGER NOT NULL REFERENCES publications(publication_id) ON DELETE CASCADE,
			id_type TEXT NOT NULL,
			id_value TEXT NOT NULL,
			PRIMARY KEY (publication_id, id_type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publication_ids_value ON publication_ids(id_type, id_value)`,
		`CREATE TABLE IF NOT EXISTS authors (
			author_id INTEGER PRIMARY KEY AUTOINCREMENT,
			publication_id INTEGER NOT NULL REFERENCES publications(publication_id) ON DELETE CASCADE,
			given_name TEXT NOT NULL,
			family_name TEXT,
			email TEXT,
			seq INTEGER NOT NULL,
			include_in_browse INTEGER NOT NULL DEFAULT 1,
			user_group_id INTEGER REFERENCES user_groups(user_group_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_publication ON authors(publication_id)`,
		`CREATE TABLE IF NOT EXISTS submission_files (
			file_id INTEGER PRIMARY KEY AUTOINCREMENT,
			submission_id INTEGER NOT NULL REFERENCES submissions(submission_id) ON DELETE CASCADE,
			genre_id INTEGER REFERENCES genres(genre_id),
			original_name TEXT NOT NULL,
			stored_name TEXT NOT NULL,
			locale TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}
