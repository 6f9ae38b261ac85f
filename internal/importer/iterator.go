// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var errNoMetadata = errors.New("article folder must contain exactly one metadata XML file")

// ArticleEntry is an immutable handle to one article's file set inside
// the volume/issue/article import tree. MetadataFile is empty when the
// article folder does not contain exactly one XML file; importing such an
// entry fails as malformed.
type ArticleEntry struct {
	Volume       string
	IssueName    string
	Name         string
	Dir          string
	IssueDir     string
	MetadataFile string
	Assets       []string
}

func (e *ArticleEntry) String() string {
	return e.Volume + "/" + e.IssueName + "/" + e.Name
}

// Iterator yields ArticleEntry handles from an import tree laid out as
// <root>/<volume>/<issue>/<article>/, in lexical order at every level.
// The tree is scanned eagerly at construction.
type Iterator struct {
	entries []*ArticleEntry
	pos     int
}

// NewIterator scans root and returns an iterator over its articles.
func NewIterator(root string) (*Iterator, error) {
	volumes, err := sortedSubdirs(root)
	if err != nil {
		return nil, fmt.Errorf("reading import root %s: %w", root, err)
	}

	var entries []*ArticleEntry
	for _, vol := range volumes {
		issues, err := sortedSubdirs(filepath.Join(root, vol))
		if err != nil {
			return nil, fmt.Errorf("reading volume %s: %w", vol, err)
		}
		for _, iss := range issues {
			issueDir := filepath.Join(root, vol, iss)
			articles, err := sortedSubdirs(issueDir)
			if err != nil {
				return nil, fmt.Errorf("reading issue %s/%s: %w", vol, iss, err)
			}
			for _, art := range articles {
				entry, err := newEntry(vol, iss, art, issueDir)
				if err != nil {
					return nil, err
				}
				entries = append(entries, entry)
			}
		}
	}
	return &Iterator{entries: entries}, nil
}

// Next returns the next entry, or false when the sequence is exhausted.
func (it *Iterator) Next() (*ArticleEntry, bool) {
	if it.pos >= len(it.entries) {
		return nil, false
	}
	entry := it.entries[it.pos]
	it.pos++
	return entry, true
}

// Len returns the total number of articles found in the tree.
func (it *Iterator) Len() int { return len(it.entries) }

// newEntry builds the entry for one article folder. The folder's single
// .xml file is the metadata document; every other regular file is an
// asset. Zero or several .xml files leave MetadataFile empty.
func newEntry(vol, iss, art, issueDir string) (*ArticleEntry, error) {
	dir := filepath.Join(issueDir, art)
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading article %s/%s/%s: %w", vol, iss, art, err)
	}

	entry := &ArticleEntry{
		Volume:    vol,
		IssueName: iss,
		Name:      art,
		Dir:       dir,
		IssueDir:  issueDir,
	}
	var metadata []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		path := filepath.Join(dir, f.Name())
		if strings.EqualFold(filepath.Ext(f.Name()), ".xml") {
			metadata = append(metadata, path)
			continue
		}
		entry.Assets = append(entry.Assets, path)
	}
	if len(metadata) == 1 {
		entry.MetadataFile = metadata[0]
	}
	return entry, nil
}

func sortedSubdirs(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, f := range files {
		if f.IsDir() {
			names = append(names, f.Name())
		}
	}
	return names, nil
}
