// Package repository combines the REST client and the local snapshot
// store into the article repository the sync engine works against.
package repository

import (
	"context"
	"log/slog"

	"github.com/alexjbarnes/inventory-sync/internal/httpapi"
	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/alexjbarnes/inventory-sync/internal/snapshot"
)

// Repository implements inventory.Repository.
type Repository struct {
	api    *httpapi.Client
	local  *snapshot.Store
	logger *slog.Logger
}

// New creates a repository over the given client and snapshot store.
func New(api *httpapi.Client, local *snapshot.Store, logger *slog.Logger) *Repository {
	return &Repository{api: api, local: local, logger: logger}
}

// FetchAll returns the server collection, or an empty list on any error.
func (r *Repository) FetchAll(ctx context.Context) []models.Article {
	articles, err := r.api.List(ctx)
	if err != nil {
		r.logger.Warn("repository: fetching articles failed",
			slog.String("error", err.Error()),
			slog.Bool("transient", httpapi.IsTransient(err)),
		)

		return []models.Article{}
	}

	return articles
}

// FetchOne returns the current server version of one article.
func (r *Repository) FetchOne(ctx context.Context, id int) (models.Article, error) {
	return r.api.Get(ctx, id)
}

// CheckConnection probes the server. It never fails.
func (r *Repository) CheckConnection(ctx context.Context) bool {
	return r.api.Ping(ctx)
}

// Create posts a new article and returns the raw status and body.
func (r *Repository) Create(ctx context.Context, a models.Article) (int, []byte, error) {
	status, body, err := r.api.Create(ctx, a)
	r.logWrite("create", a.ID, status, body, err)

	return status, body, err
}

// Update puts an article and returns the raw status and body.
func (r *Repository) Update(ctx context.Context, id int, a models.Article) (int, []byte, error) {
	status, body, err := r.api.Update(ctx, id, a)
	r.logWrite("update", id, status, body, err)

	return status, body, err
}

// Delete removes an article and returns the raw status.
func (r *Repository) Delete(ctx context.Context, id int) (int, error) {
	status, body, err := r.api.Delete(ctx, id)
	r.logWrite("delete", id, status, body, err)

	return status, err
}

// SaveLocalSnapshot writes the collection to the local snapshot.
func (r *Repository) SaveLocalSnapshot(articles []models.Article) bool {
	return r.local.Save(articles)
}

// LoadLocalSnapshot reads the verified local snapshot.
func (r *Repository) LoadLocalSnapshot() []models.Article {
	return r.local.Load()
}

func (r *Repository) logWrite(op string, id, status int, body []byte, err error) {
	switch {
	case err != nil:
		r.logger.Warn("repository: write failed",
			slog.String("op", op),
			slog.Int("id", id),
			slog.String("error", err.Error()),
		)
	case status < 200 || status > 299:
		r.logger.Warn("repository: write rejected",
			slog.String("op", op),
			slog.Int("id", id),
			slog.Int("status", status),
			slog.String("detail", httpapi.ErrorDetail(body)),
		)
	default:
		r.logger.Debug("repository: write accepted",
			slog.String("op", op),
			slog.Int("id", id),
			slog.Int("status", status),
		)
	}
}
