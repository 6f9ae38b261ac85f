// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/backissue/pkg/types"
)

// StageIssueCover probes dir for a cover image named
// <cover-basename>.<ext>, trying the configured image extensions in
// order and taking the first hit. A found cover is copied into the
// journal's public storage under a name derived from the issue id and
// locale, attached to the issue's cover metadata for that locale, and the
// issue is persisted. A missing cover is a silent no-op.
func (imp *Importer) StageIssueCover(ctx context.Context, iss *types.Issue, dir, loc string) error {
	for _, ext := range imp.cfg.ImageExtensions {
		source := filepath.Join(dir, imp.cfg.CoverBasename+"."+ext)
		if _, err := os.Stat(source); err != nil {
			continue
		}

		destName := fmt.Sprintf("cover_issue_%d_%s.%s", iss.ID, loc, ext)
		if _, err := imp.repo.CopyToPublicStorage(imp.cfg.Journal.ID, source, destName); err != nil {
			return fmt.Errorf("staging cover for issue %d: %w", iss.ID, err)
		}
		cover := &types.IssueCover{
			IssueID:  iss.ID,
			Locale:   loc,
			FileName: destName,
			AltText:  iss.Title,
		}
		if err := imp.repo.SetIssueCover(ctx, cover); err != nil {
			return fmt.Errorf("attaching cover to issue %d: %w", iss.ID, err)
		}
		if err := imp.repo.UpdateIssue(ctx, iss); err != nil {
			return fmt.Errorf("persisting issue %d: %w", iss.ID, err)
		}
		imp.log.Debug("issue cover staged",
			zap.Int64("issue", iss.ID),
			zap.String("locale", loc),
			zap.String("file", destName))
		return nil
	}
	return nil
}
