package importer

import (
	"context"
	"fmt"

	"github.com/pdiddy/backissue/pkg/types"
)

// DefaultAuthor fabricates a fallback author for a publication whose
// metadata supplied none: the journal's name in the publication's locale
// as display name, sequence 1, the job's fallback email, included in
// browse, and membership in the configured author group. The author
// becomes the publication's primary contact and is persisted like any
// parsed author.
func (imp *Importer) DefaultAuthor(ctx context.Context, pub *types.Publication, loc string) (*types.Author, error) {
	a := &types.Author{
		PublicationID:   pub.ID,
		GivenName:       imp.cfg.Journal.Name(loc),
		Email:           imp.cfg.Email,
		Seq:             1,
		IncludeInBrowse: true,
		UserGroupID:     imp.cfg.AuthorGroup.ID,
	}
	if err := imp.repo.CreateAuthor(ctx, a); err != nil {
		return nil, fmt.Errorf("creating default author: %w", err)
	}

	pub.PrimaryContactID = a.ID
	if err := imp.repo.UpdatePublication(ctx, pub); err != nil {
		return nil, fmt.Errorf("setting primary contact: %w", err)
	}
	return a, nil
}
