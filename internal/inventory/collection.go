package inventory

import "github.com/alexjbarnes/inventory-sync/internal/models"

// Collection is the ordered working set of articles. Ids are unique.
// Articles go in and come out as copies so callers never alias the
// stored style maps.
type Collection struct {
	items []models.Article
}

// NewCollection builds a collection from articles. Later duplicates of
// an id replace earlier ones.
func NewCollection(articles []models.Article) *Collection {
	c := &Collection{}
	c.Replace(articles)

	return c
}

// Replace swaps the whole content.
func (c *Collection) Replace(articles []models.Article) {
	c.items = make([]models.Article, 0, len(articles))
	for _, a := range articles {
		c.Put(a)
	}
}

// Len returns the number of articles.
func (c *Collection) Len() int {
	return len(c.items)
}

// All returns copies of every article in display order.
func (c *Collection) All() []models.Article {
	out := make([]models.Article, len(c.items))
	for i, a := range c.items {
		out[i] = a.Clone()
	}

	return out
}

func (c *Collection) index(id int) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}

	return -1
}

// Get returns a copy of the article with the given id.
func (c *Collection) Get(id int) (models.Article, bool) {
	i := c.index(id)
	if i < 0 {
		return models.Article{}, false
	}

	return c.items[i].Clone(), true
}

// Has reports whether an article with id exists.
func (c *Collection) Has(id int) bool {
	return c.index(id) >= 0
}

// Put replaces the article with the same id in place, or appends it.
func (c *Collection) Put(a models.Article) {
	a = a.Clone()
	if i := c.index(a.ID); i >= 0 {
		c.items[i] = a
		return
	}

	c.items = append(c.items, a)
}

// Rekey replaces the article stored under oldID with a, keeping its
// position. It reports false when oldID is unknown.
func (c *Collection) Rekey(oldID int, a models.Article) bool {
	i := c.index(oldID)
	if i < 0 {
		return false
	}

	c.items[i] = a.Clone()

	return true
}

// Remove deletes the article with id and reports whether it existed.
func (c *Collection) Remove(id int) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}

	c.items = append(c.items[:i], c.items[i+1:]...)

	return true
}

// Update applies fn to the stored article in place.
func (c *Collection) Update(id int, fn func(a *models.Article)) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}

	fn(&c.items[i])

	return true
}

// ArticleAtRow maps a 1-based display row to its article.
func (c *Collection) ArticleAtRow(row int) (models.Article, bool) {
	if row < 1 || row > len(c.items) {
		return models.Article{}, false
	}

	return c.items[row-1].Clone(), true
}

// RowOf returns the 1-based display row of id, or 0.
func (c *Collection) RowOf(id int) int {
	return c.index(id) + 1
}

// PendingCreations returns the articles that exist only locally.
func (c *Collection) PendingCreations() []models.Article {
	var out []models.Article

	for _, a := range c.items {
		if a.IsPendingCreation() {
			out = append(out, a.Clone())
		}
	}

	return out
}

// NextPlaceholderID returns an id strictly below every id in the
// collection and below zero, so offline-created articles never collide
// with each other or with server ids.
func (c *Collection) NextPlaceholderID() int {
	lowest := 0
	for _, a := range c.items {
		if a.ID < lowest {
			lowest = a.ID
		}
	}

	return lowest - 1
}
