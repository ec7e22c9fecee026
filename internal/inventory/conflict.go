package inventory

import (
	"context"
	"log/slog"

	"github.com/alexjbarnes/inventory-sync/internal/models"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds parallel server reads during a scan.
const maxConcurrentFetches = 4

// FetchFunc returns the current server version of an article.
type FetchFunc func(ctx context.Context, id int) (models.Article, error)

// ConflictScan is the outcome of a conflict check.
//
// The scan is best effort: an article whose server version could not be
// fetched is listed in Skipped and is not treated as a conflict. The
// write that follows will hit the same server and report its own error.
type ConflictScan struct {
	// Conflicts holds the server versions of conflicted articles, in
	// the order of the changed list.
	Conflicts []models.Article
	Skipped   []int
}

// ConflictDetector compares the timestamp recorded when an article was
// last in sync with the server's current timestamp.
type ConflictDetector struct {
	logger *slog.Logger
}

// NewConflictDetector creates a detector.
func NewConflictDetector(logger *slog.Logger) *ConflictDetector {
	return &ConflictDetector{logger: logger}
}

// IsConflict reports whether the server's version of a differs from the
// one recorded in originals. A missing original never matches.
func IsConflict(id int, serverTimestamp string, originals map[int]string) bool {
	orig, ok := originals[id]
	return !ok || orig != serverTimestamp
}

// Detect checks every changed article that exists on the server. Pending
// creations are never checked.
func (d *ConflictDetector) Detect(ctx context.Context, changed []models.Article, originals map[int]string, fetch FetchFunc) ConflictScan {
	type outcome struct {
		server   models.Article
		conflict bool
		skipped  bool
	}

	results := make([]outcome, len(changed))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, a := range changed {
		if a.IsPendingCreation() {
			continue
		}

		g.Go(func() error {
			server, err := fetch(gctx, a.ID)
			if err != nil {
				d.logger.Warn("conflict: fetching server version failed, skipping",
					slog.Int("id", a.ID),
					slog.String("error", err.Error()),
				)

				results[i].skipped = true

				return nil
			}

			if IsConflict(a.ID, server.Timestamp, originals) {
				d.logger.Info("conflict: server version changed",
					slog.Int("id", a.ID),
					slog.String("original", originals[a.ID]),
					slog.String("server", server.Timestamp),
				)

				results[i] = outcome{server: server, conflict: true}
			}

			return nil
		})
	}

	_ = g.Wait()

	var scan ConflictScan

	for i, r := range results {
		switch {
		case r.conflict:
			scan.Conflicts = append(scan.Conflicts, r.server)
		case r.skipped:
			scan.Skipped = append(scan.Skipped, changed[i].ID)
		}
	}

	return scan
}
