package inventory

import (
	"fmt"
	"strings"

	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// FieldChange is one differing field between a server and a local version.
type FieldChange struct {
	Field  string `json:"field"`
	Server string `json:"server"`
	Local  string `json:"local"`
}

// DifferenceKind classifies a local article against the server.
type DifferenceKind string

const (
	DifferenceNew     DifferenceKind = "new"
	DifferenceDeleted DifferenceKind = "deleted"
	DifferenceChanged DifferenceKind = "changed"
)

// Difference describes how one local article differs from the server.
type Difference struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Kind          DifferenceKind `json:"kind"`
	Changes       []FieldChange  `json:"changes,omitempty"`
	StylesChanged bool           `json:"styles_changed,omitempty"`
}

// DiffReporter renders field-level differences between two versions of
// an article. It has no state.
type DiffReporter struct{}

// diffFields are compared in this order.
var diffFields = []struct {
	name string
	col  models.Column
}{
	{"name", models.ColumnName},
	{"type", models.ColumnType},
	{"stock", models.ColumnStock},
	{"unit", models.ColumnUnit},
	{"price", models.ColumnPrice},
	{"location", models.ColumnLocation},
	{"status", models.ColumnStatus},
	{"link", models.ColumnLink},
}

// FieldChanges lists the differing data fields, excluding styles.
func (DiffReporter) FieldChanges(local, server models.Article) []FieldChange {
	var changes []FieldChange

	for _, f := range diffFields {
		if f.col == models.ColumnPrice {
			if !local.Price.Equal(server.Price) {
				changes = append(changes, FieldChange{Field: f.name, Server: server.Price.String(), Local: local.Price.String()})
			}

			continue
		}

		lv, sv := local.Field(f.col), server.Field(f.col)
		if lv != sv {
			changes = append(changes, FieldChange{Field: f.name, Server: sv, Local: lv})
		}
	}

	return changes
}

// Difference classifies local against server. A nil server with
// isNewLocal false means the server no longer has the article.
func (r DiffReporter) Difference(local models.Article, server *models.Article, isNewLocal bool) Difference {
	d := Difference{ID: local.ID, Name: local.Name}

	switch {
	case isNewLocal:
		d.Kind = DifferenceNew
	case server == nil:
		d.Kind = DifferenceDeleted
	default:
		d.Kind = DifferenceChanged
		d.Changes = r.FieldChanges(local, *server)
		d.StylesChanged = local.StylesJSON() != server.StylesJSON()
	}

	return d
}

// Describe renders the difference as text, one line per changed field
// in the form "field: server -> local".
func (r DiffReporter) Describe(local models.Article, server *models.Article, isNewLocal bool) string {
	return r.Render(r.Difference(local, server, isNewLocal), false)
}

// Render formats a Difference. Verbose output adds a character-level
// view of each changed text value.
func (r DiffReporter) Render(d Difference, verbose bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Article %d (%s)", d.ID, d.Name)

	switch d.Kind {
	case DifferenceNew:
		b.WriteString(": new local article, not yet on the server")
		return b.String()
	case DifferenceDeleted:
		b.WriteString(": deleted on the server")
		return b.String()
	}

	b.WriteString(":")

	if len(d.Changes) == 0 && !d.StylesChanged {
		b.WriteString("\n  no field differences")
	}

	for _, c := range d.Changes {
		fmt.Fprintf(&b, "\n  %s: %s -> %s", c.Field, c.Server, c.Local)

		if verbose {
			fmt.Fprintf(&b, "\n    %s", r.Inline(c.Server, c.Local))
		}
	}

	if d.StylesChanged {
		b.WriteString("\n  (formatting also changed)")
	}

	return b.String()
}

// Inline marks deletions as [-text-] and insertions as {+text+}.
func (DiffReporter) Inline(from, to string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(from, to, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		default:
			b.WriteString(d.Text)
		}
	}

	return b.String()
}
