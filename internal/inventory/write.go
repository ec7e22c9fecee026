package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/alexjbarnes/inventory-sync/internal/errors"
	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/tidwall/gjson"
)

// updateLayout is the whole-second UTC form sent with updates.
const updateLayout = "2006-01-02T15:04:05"

// WriteError is a write the server answered with a non-success status.
// Body is the server's response, unmodified.
type WriteError struct {
	Op     string
	ID     int
	Status int
	Body   string
}

func (e *WriteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s article %d rejected with status %d", e.Op, e.ID, e.Status)
	}

	return fmt.Sprintf("%s article %d rejected with status %d: %s", e.Op, e.ID, e.Status, e.Body)
}

func (e *WriteError) Unwrap() error { return apperrors.ErrWriteFailed }

// updateTimestamp truncates to whole seconds and appends Z.
func updateTimestamp(now time.Time) string {
	return now.UTC().Truncate(time.Second).Format(updateLayout) + "Z"
}

// createTimestamp keeps full precision.
func createTimestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339Nano)
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// createdID reads the server-assigned id from a create response, or 0.
func createdID(body []byte) int {
	if !gjson.ValidBytes(body) {
		return 0
	}

	return int(gjson.GetBytes(body, "id").Int())
}

func unreachable(op string, id int, err error) error {
	return fmt.Errorf("%s article %d: %w: %w", op, id, apperrors.ErrUnreachable, err)
}

// withValidColors resets unusable style colors before a write.
func withValidColors(a models.Article) models.Article {
	for col, s := range a.Styles {
		s.Color = s.ValidColor()
		a.Styles[col] = s
	}

	return a
}

// pushUpdate stamps and sends one existing article. On success the
// stamped version becomes the local copy and its timestamp the new
// original, and the article is no longer dirty.
func (e *Engine) pushUpdate(ctx context.Context, a models.Article) error {
	a = withValidColors(a.Clone())
	a.Timestamp = updateTimestamp(e.now())

	status, body, err := e.repo.Update(ctx, a.ID, a)
	if err != nil {
		return unreachable("update", a.ID, err)
	}

	if !isSuccess(status) {
		return &WriteError{Op: "update", ID: a.ID, Status: status, Body: string(body)}
	}

	e.articles.Put(a)
	e.originals[a.ID] = a.Timestamp
	e.tracker.Remove(a.ID)

	return nil
}

// pushUpdates sends the dirty server-known articles in id order and stops
// at the first failure. Articles not reached stay dirty.
func (e *Engine) pushUpdates(ctx context.Context) (int, error) {
	updated := 0

	for _, a := range e.tracker.ChangedArticles(e.articles) {
		if a.IsPendingCreation() {
			continue
		}

		if err := e.pushUpdate(ctx, a); err != nil {
			e.logger.Warn("sync: update failed, stopping update batch",
				slog.Int("id", a.ID),
				slog.Int("updated", updated),
				slog.String("error", err.Error()),
			)

			return updated, err
		}

		updated++
	}

	return updated, nil
}

// pushCreate stamps and posts one pending article. When the response
// names the new id the placeholder is promoted in place and promoted is
// true; otherwise the placeholder is dropped and the caller must reload
// the collection to bring the article back.
func (e *Engine) pushCreate(ctx context.Context, a models.Article) (promoted bool, err error) {
	placeholder := a.ID

	a = withValidColors(a.Clone())
	a.Timestamp = createTimestamp(e.now())

	status, body, err := e.repo.Create(ctx, a)
	if err != nil {
		return false, unreachable("create", placeholder, err)
	}

	if !isSuccess(status) {
		return false, &WriteError{Op: "create", ID: placeholder, Status: status, Body: string(body)}
	}

	e.tracker.Remove(placeholder)
	delete(e.originals, placeholder)

	newID := createdID(body)
	if newID <= 0 {
		e.articles.Remove(placeholder)
		return false, nil
	}

	a.ID = newID
	if ts := gjson.GetBytes(body, "timestamp"); ts.Type == gjson.String && ts.Str != "" {
		a.Timestamp = ts.Str
	}

	e.articles.Rekey(placeholder, a)
	e.originals[a.ID] = a.Timestamp

	e.logger.Debug("sync: placeholder promoted",
		slog.Int("placeholder", placeholder),
		slog.Int("id", a.ID),
	)

	return true, nil
}

// pushCreates posts every pending creation, continuing past failures.
// unpromoted counts creations whose new id is not known yet.
func (e *Engine) pushCreates(ctx context.Context) (created, unpromoted int, err error) {
	var errs []error

	for _, a := range e.articles.PendingCreations() {
		promoted, perr := e.pushCreate(ctx, a)
		if perr != nil {
			e.logger.Warn("sync: create failed, continuing",
				slog.Int("placeholder", a.ID),
				slog.String("error", perr.Error()),
			)

			errs = append(errs, perr)

			continue
		}

		created++
		if !promoted {
			unpromoted++
		}
	}

	return created, unpromoted, errors.Join(errs...)
}

// forcePush writes every pending change without checking for conflicts.
// reloadAfter tells it the caller replaces the whole collection from the
// server once the push succeeds. Otherwise creations without a returned
// id are brought back by a refresh here.
func (e *Engine) forcePush(ctx context.Context, reloadAfter bool) (SyncReport, error) {
	var report SyncReport

	updated, updErr := e.pushUpdates(ctx)
	report.Updated = updated

	created, unpromoted, createErr := e.pushCreates(ctx)
	report.Created = created

	err := errors.Join(updErr, createErr)

	if unpromoted > 0 && (err != nil || !reloadAfter) {
		if rerr := e.refreshPreservingDirty(ctx); rerr != nil {
			e.logger.Warn("sync: reloading created articles failed",
				slog.Int("created", unpromoted),
				slog.String("error", rerr.Error()),
			)
		}
	}

	if err != nil {
		report.Remaining = e.pendingCount()
	}

	return report, err
}
