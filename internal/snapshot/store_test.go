package snapshot

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/alexjbarnes/inventory-sync/internal/errors"
	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(filepath.Join(t.TempDir(), "data", "local_articles.json"), logger)
}

func sampleArticles() []models.Article {
	bolt := models.Article{
		ID: 3, Name: "Hex bolt M8", Type: "Fastener", Stock: 140, Unit: "pcs",
		Price: decimal.RequireFromString("0.35"), Location: "A-03", Status: "available",
		Timestamp: "2026-03-01T10:00:00Z",
	}
	bolt.SetStyle(models.ColumnName, models.CellStyle{Bold: true, Color: "#AA0000"})

	drill := models.Article{
		ID: -1, Name: "Cordless drill", Type: "Tool", Stock: 2, Unit: "pcs",
		Price: decimal.RequireFromString("89.90"), Timestamp: "2026-03-02T08:15:30.123456789Z",
	}

	return []models.Article{bolt, drill}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := testStore(t)
	want := sampleArticles()

	require.True(t, s.Save(want))
	got := s.Load()

	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "article %d differs: %+v vs %+v", i, want[i], got[i])
	}
}

func TestSaveLoad_EmptyCollection(t *testing.T) {
	s := testStore(t)
	require.True(t, s.Save(nil))

	got := s.Load()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSave_CreatesDirectoryAndRestrictsPermissions(t *testing.T) {
	s := testStore(t)
	require.True(t, s.Save(sampleArticles()))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, snapshotFilePerm, info.Mode().Perm())
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := testStore(t)
	got := s.Load()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_TamperedDataFailsClosed(t *testing.T) {
	s := testStore(t)
	require.True(t, s.Save(sampleArticles()))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	tampered := strings.Replace(string(raw), `"stock":140`, `"stock":9999`, 1)
	require.NotEqual(t, string(raw), tampered)
	require.NoError(t, os.WriteFile(s.Path(), []byte(tampered), 0o600))

	assert.Empty(t, s.Load())
	assert.ErrorIs(t, s.Verify(), apperrors.ErrIntegrity)
}

func TestLoad_ReformattedFileStillVerifies(t *testing.T) {
	s := testStore(t)
	require.True(t, s.Save(sampleArticles()))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var doc struct {
		Hash string          `json:"hash"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	pretty, err := json.MarshalIndent(map[string]interface{}{
		"hash":       doc.Hash,
		"data":       doc.Data,
		"written_by": "backup tool",
	}, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(), pretty, 0o600))

	assert.Len(t, s.Load(), 2)
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "this is not json"},
		{"missing hash", `{"data":[]}`},
		{"missing data", `{"hash":"abc"}`},
		{"data not array", `{"hash":"abc","data":{}}`},
		{"wrong hash", `{"hash":"AAAA","data":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.content), 0o600))

			got := s.Load()
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestSave_UnwritableLocationReportsFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewStore(filepath.Join(blocker, "local_articles.json"), logger)

	assert.False(t, s.Save(sampleArticles()))
}
