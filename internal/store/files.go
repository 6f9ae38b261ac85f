// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PublicDir returns the journal's public storage directory, where issue
// covers and other reader-visible assets live.
func (s *Store) PublicDir(journalID int64) string {
	return filepath.Join(s.dataDir, filesDir, journalsDir, strconv.FormatInt(journalID, 10), publicDir)
}

func (s *Store) submissionFilesDir(journalID, submissionID int64) string {
	return filepath.Join(s.dataDir, filesDir, journalsDir,
		strconv.FormatInt(journalID, 10), submissionsDir, strconv.FormatInt(submissionID, 10))
}

// CopyToPublicStorage copies sourcePath into the journal's public storage
// under destName and returns the stored file's path.
func (s *Store) CopyToPublicStorage(journalID int64, sourcePath, destName string) (string, error) {
	dir := s.PublicDir(journalID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating public directory: %w", err)
	}
	dest := filepath.Join(dir, destName)
	if err := copyFile(sourcePath, dest); err != nil {
		return "", err
	}
	s.log.Debug("file staged to public storage",
		zap.Int64("journal", journalID), zap.String("name", destName))
	return dest, nil
}

// StageSubmissionFile copies sourcePath into the submission's file storage
// under a collision-free name and returns that stored name. The original
// extension is kept so genre inference stays possible downstream.
func (s *Store) StageSubmissionFile(journalID, submissionID int64, sourcePath string) (string, error) {
	dir := s.submissionFilesDir(journalID, submissionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating submission directory: %w", err)
	}
	storedName := uuid.NewString() + strings.ToLower(filepath.Ext(sourcePath))
	if err := copyFile(sourcePath, filepath.Join(dir, storedName)); err != nil {
		return "", err
	}
	return storedName, nil
}

// copyFile writes dest atomically: the content lands in a temp file first
// and is renamed into place.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("copying to %s: %w", tmp, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}
