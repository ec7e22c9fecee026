package inventory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serverFetch(server map[int]models.Article, calls *atomic.Int32) FetchFunc {
	return func(_ context.Context, id int) (models.Article, error) {
		if calls != nil {
			calls.Add(1)
		}

		a, ok := server[id]
		if !ok {
			return models.Article{}, errors.New("not found")
		}

		return a, nil
	}
}

func TestIsConflict(t *testing.T) {
	originals := map[int]string{1: "t1"}

	assert.False(t, IsConflict(1, "t1", originals))
	assert.True(t, IsConflict(1, "t2", originals))
	assert.True(t, IsConflict(2, "t1", originals))
}

func TestDetect_NeverChecksPendingCreations(t *testing.T) {
	var calls atomic.Int32

	changed := []models.Article{article(-1, "new", "t0"), article(-2, "new2", "t0")}
	server := map[int]models.Article{
		-1: article(-1, "server", "other"),
		-2: article(-2, "server", "other"),
	}

	scan := NewConflictDetector(testLogger()).Detect(context.Background(), changed, map[int]string{}, serverFetch(server, &calls))

	assert.Empty(t, scan.Conflicts)
	assert.Empty(t, scan.Skipped)
	assert.Zero(t, calls.Load())
}

func TestDetect_ConflictIffTimestampDiffers(t *testing.T) {
	changed := []models.Article{
		article(1, "same", "t1"),
		article(2, "moved", "t1"),
		article(3, "no original", "t1"),
		article(-4, "new", "t1"),
	}
	originals := map[int]string{1: "t1", 2: "t1"}
	server := map[int]models.Article{
		1: article(1, "same", "t1"),
		2: article(2, "moved on server", "t2"),
		3: article(3, "no original", "t1"),
	}

	scan := NewConflictDetector(testLogger()).Detect(context.Background(), changed, originals, serverFetch(server, nil))

	require.Len(t, scan.Conflicts, 2)
	assert.Equal(t, 2, scan.Conflicts[0].ID)
	assert.Equal(t, "moved on server", scan.Conflicts[0].Name)
	assert.Equal(t, 3, scan.Conflicts[1].ID)
	assert.Empty(t, scan.Skipped)
}

func TestDetect_FetchFailureIsSkippedNotConflict(t *testing.T) {
	changed := []models.Article{article(1, "a", "t1"), article(2, "b", "t1")}
	originals := map[int]string{1: "t1", 2: "t1"}
	server := map[int]models.Article{2: article(2, "b", "t9")}

	scan := NewConflictDetector(testLogger()).Detect(context.Background(), changed, originals, serverFetch(server, nil))

	require.Len(t, scan.Conflicts, 1)
	assert.Equal(t, 2, scan.Conflicts[0].ID)
	assert.Equal(t, []int{1}, scan.Skipped)
}

func TestDetect_KeepsInputOrder(t *testing.T) {
	var changed []models.Article

	server := make(map[int]models.Article)
	originals := make(map[int]string)

	for id := 1; id <= 20; id++ {
		changed = append(changed, article(id, "a", "old"))
		server[id] = article(id, "a", "new")
		originals[id] = "old"
	}

	scan := NewConflictDetector(testLogger()).Detect(context.Background(), changed, originals, serverFetch(server, nil))

	require.Len(t, scan.Conflicts, 20)

	for i, a := range scan.Conflicts {
		assert.Equal(t, i+1, a.ID)
	}
}
