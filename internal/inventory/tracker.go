package inventory

import (
	"sort"

	"github.com/alexjbarnes/inventory-sync/internal/models"
)

// ChangeTracker is the dirty set: ids of articles mutated since they
// were last confirmed saved. Each id appears at most once.
type ChangeTracker struct {
	dirty map[int]struct{}
}

// NewChangeTracker returns an empty tracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirty: make(map[int]struct{})}
}

// MarkChanged adds the article to the dirty set. Marking twice is a no-op.
func (t *ChangeTracker) MarkChanged(a models.Article) {
	t.Mark(a.ID)
}

// Mark adds an id to the dirty set.
func (t *ChangeTracker) Mark(id int) {
	t.dirty[id] = struct{}{}
}

// IsDirty reports whether id is in the dirty set.
func (t *ChangeTracker) IsDirty(id int) bool {
	_, ok := t.dirty[id]
	return ok
}

// Remove drops id from the dirty set.
func (t *ChangeTracker) Remove(id int) {
	delete(t.dirty, id)
}

// IDs returns the dirty ids in ascending order.
func (t *ChangeTracker) IDs() []int {
	ids := make([]int, 0, len(t.dirty))
	for id := range t.dirty {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}

// Len returns the number of dirty articles.
func (t *ChangeTracker) Len() int {
	return len(t.dirty)
}

// Clear empties the set after a confirmed save or sync.
func (t *ChangeTracker) Clear() {
	t.dirty = make(map[int]struct{})
}

// ChangedArticles resolves the dirty ids against the collection. Ids
// without an article are skipped.
func (t *ChangeTracker) ChangedArticles(c *Collection) []models.Article {
	var out []models.Article

	for _, id := range t.IDs() {
		if a, ok := c.Get(id); ok {
			out = append(out, a)
		}
	}

	return out
}
