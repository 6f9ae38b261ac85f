package importer

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// BatchResult holds the outcome of a batch import run.
type BatchResult struct {
	Imported   int
	Duplicates int
	Failed     int
	Outcomes   []Outcome
}

// Total returns the total number of articles processed.
func (r BatchResult) Total() int {
	return r.Imported + r.Duplicates + r.Failed
}

// HasFailures reports whether any article failed for a reason other than
// being a duplicate.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ImportBatch drives every entry of it through the pipeline, strictly
// sequentially, printing per-article status to w and returning a summary.
// A failed article never aborts the batch. Cancellation is honored only
// between articles, never mid-import; the partial result is returned with
// the context's error.
func (imp *Importer) ImportBatch(ctx context.Context, it *Iterator, w io.Writer) (BatchResult, error) {
	var result BatchResult
	imp.log.Info("batch started", zap.Int("articles", it.Len()))

	for {
		if err := ctx.Err(); err != nil {
			imp.log.Warn("batch canceled", zap.Int("processed", result.Total()))
			return result, err
		}
		entry, ok := it.Next()
		if !ok {
			break
		}

		out := imp.ImportArticle(ctx, entry)
		result.Outcomes = append(result.Outcomes, out)
		switch {
		case out.Imported():
			fmt.Fprintf(w, "imported: %s (submission %d)\n", entry, out.Submission.ID)
			result.Imported++
		case out.Duplicate():
			fmt.Fprintf(w, "skipped: %s (%v)\n", entry, out.Err)
			result.Duplicates++
		default:
			fmt.Fprintf(w, "failed:  %s (%v)\n", entry, out.Err)
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nImport summary: %d imported, %d skipped, %d failed (total: %d)\n",
		result.Imported, result.Duplicates, result.Failed, result.Total())
	imp.log.Info("batch finished",
		zap.Int("imported", result.Imported),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("failed", result.Failed))
	return result, nil
}
