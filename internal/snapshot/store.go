// Package snapshot persists the article collection to a local JSON file
// guarded by a SHA-256 digest. Loading fails closed: a file that does not
// verify is treated as absent.
package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/alexjbarnes/inventory-sync/internal/errors"
	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/tidwall/gjson"
)

const (
	snapshotDirPerm  = fs.FileMode(0o700)
	snapshotFilePerm = fs.FileMode(0o600)
)

// file is the on-disk layout. Data is kept raw so the digest covers the
// exact bytes written.
type file struct {
	Hash string          `json:"hash"`
	Data json.RawMessage `json:"data"`
}

// Store reads and writes the local snapshot file.
type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	lastHash string // digest of our own most recent write
}

// NewStore creates a store for the snapshot at path. Nothing is touched
// on disk until the first Save.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the collection and reports success. Errors are logged,
// never returned.
func (s *Store) Save(articles []models.Article) bool {
	if err := s.save(articles); err != nil {
		s.logger.Warn("snapshot: save failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)

		return false
	}

	s.logger.Debug("snapshot: saved",
		slog.String("path", s.path),
		slog.Int("articles", len(articles)),
	)

	return true
}

func (s *Store) save(articles []models.Article) error {
	if articles == nil {
		articles = []models.Article{}
	}

	data, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("serializing articles: %w", err)
	}

	hash := digest(data)

	out, err := json.Marshal(file{Hash: hash, Data: data})
	if err != nil {
		return fmt.Errorf("serializing snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), snapshotDirPerm); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.path, out); err != nil {
		return err
	}

	s.lastHash = hash

	return nil
}

// Load returns the verified collection, or an empty collection when the
// file is missing, unreadable or fails the integrity check.
func (s *Store) Load() []models.Article {
	articles, err := s.read()
	if err == nil {
		return articles
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("snapshot: no local file", slog.String("path", s.path))
	case errors.Is(err, apperrors.ErrIntegrity):
		s.logger.Warn("snapshot: integrity check failed, ignoring local file",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
	default:
		s.logger.Warn("snapshot: load failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
	}

	return []models.Article{}
}

// Verify checks the file on disk without decoding it into articles for
// the caller. It returns fs.ErrNotExist when there is no file.
func (s *Store) Verify() error {
	_, err := s.read()
	return err
}

func (s *Store) read() ([]models.Article, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	data, stored, err := extract(raw)
	if err != nil {
		return nil, err
	}

	if digest(data) != stored {
		return nil, fmt.Errorf("%w: digest mismatch", apperrors.ErrIntegrity)
	}

	var articles []models.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("%w: decoding articles: %v", apperrors.ErrIntegrity, err)
	}

	if articles == nil {
		articles = []models.Article{}
	}

	return articles, nil
}

// extract pulls the stored hash and the compacted data payload out of
// the raw file. Unknown top-level keys are ignored.
func extract(raw []byte) ([]byte, string, error) {
	if !gjson.ValidBytes(raw) {
		return nil, "", fmt.Errorf("%w: not valid JSON", apperrors.ErrIntegrity)
	}

	hash := gjson.GetBytes(raw, "hash")
	if hash.Type != gjson.String || hash.Str == "" {
		return nil, "", fmt.Errorf("%w: missing hash", apperrors.ErrIntegrity)
	}

	data := gjson.GetBytes(raw, "data")
	if !data.IsArray() {
		return nil, "", fmt.Errorf("%w: missing data array", apperrors.ErrIntegrity)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(data.Raw)); err != nil {
		return nil, "", fmt.Errorf("%w: compacting data: %v", apperrors.ErrIntegrity, err)
	}

	return buf.Bytes(), hash.Str, nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// writeAtomic writes to a temp file in the same directory and renames it
// over path so readers never see a partial snapshot.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpName, snapshotFilePerm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting snapshot permissions: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming snapshot into place: %w", err)
	}

	return nil
}
