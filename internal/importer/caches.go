package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/backissue/internal/store"
	"github.com/pdiddy/backissue/pkg/types"
)

type genreKey struct {
	journalID int64
	ext       string
}

// GenreCache memoizes file-extension → genre lookups per journal for one
// import run. Extensions in the configured image set resolve through the
// image genre, everything else through multimedia; each distinct
// (journal, extension) pair costs exactly one repository lookup.
// Not safe for concurrent use.
type GenreCache struct {
	repo      Repository
	imageExts []string
	ids       map[genreKey]int64
}

// NewGenreCache returns an empty cache bound to repo. imageExts are the
// run's configured image extensions, lower-case without dots.
func NewGenreCache(repo Repository, imageExts []string) *GenreCache {
	return &GenreCache{
		repo:      repo,
		imageExts: imageExts,
		ids:       make(map[genreKey]int64),
	}
}

// GenreID resolves the genre for a file extension under journalID. The
// extension may carry a leading dot and any case.
func (c *GenreCache) GenreID(ctx context.Context, journalID int64, ext string) (int64, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	key := genreKey{journalID: journalID, ext: ext}
	if id, ok := c.ids[key]; ok {
		return id, nil
	}

	genreName := types.GenreMultimedia
	for _, img := range c.imageExts {
		if ext == img {
			genreName = types.GenreImage
			break
		}
	}

	g, err := c.repo.GenreByKey(ctx, journalID, genreName)
	if err != nil {
		return 0, fmt.Errorf("resolving genre %s for .%s: %w", genreName, ext, err)
	}
	c.ids[key] = g.ID
	return g.ID, nil
}

// SectionOrderRegistry memoizes which (issue, section) pairs were placed
// into each issue's custom ordering during one run. A pair is counted,
// checked against the repository once, and inserted with a 1-based
// sequence reflecting the order sections appeared for that issue in this
// run. Pairs already seen are never re-queried, even if the repository
// changed underneath; the registry is a per-run memo, not a live view.
// Not safe for concurrent use.
type SectionOrderRegistry struct {
	repo Repository
	seen map[int64][]int64
}

// NewSectionOrderRegistry returns an empty registry bound to repo.
func NewSectionOrderRegistry(repo Repository) *SectionOrderRegistry {
	return &SectionOrderRegistry{
		repo: repo,
		seen: make(map[int64][]int64),
	}
}

// Place records sectionID into issueID's custom ordering if it is not
// there yet. Repeat calls for a pair seen in this run are no-ops.
func (r *SectionOrderRegistry) Place(ctx context.Context, issueID, sectionID int64) error {
	for _, id := range r.seen[issueID] {
		if id == sectionID {
			return nil
		}
	}
	// Count the section toward this issue's run total before consulting
	// the repository: the sequence reflects first-seen order either way.
	r.seen[issueID] = append(r.seen[issueID], sectionID)
	seq := len(r.seen[issueID])

	_, err := r.repo.CustomSectionOrder(ctx, issueID, sectionID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("checking section order (issue %d, section %d): %w", issueID, sectionID, err)
	}
	if err := r.repo.InsertCustomSectionOrder(ctx, issueID, sectionID, seq); err != nil {
		return fmt.Errorf("inserting section order (issue %d, section %d): %w", issueID, sectionID, err)
	}
	return nil
}
