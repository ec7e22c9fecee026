package inventory

import (
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/alexjbarnes/inventory-sync/internal/errors"
	"github.com/alexjbarnes/inventory-sync/internal/models"
)

// Cell addresses one (article, column) pair.
type Cell struct {
	ID     int
	Column models.Column
}

// StyleKind selects what ApplyStyle does.
type StyleKind int

const (
	ToggleBold StyleKind = iota
	ToggleItalic
	ToggleUnderline
	SetColor
)

// StyleOp is one formatting action. Color is only used by SetColor; an
// empty color resets to the default.
type StyleOp struct {
	Kind  StyleKind
	Color string
}

// EditField parses value into one column of an article. It reports
// whether the article changed; only a change marks it dirty.
func (e *Engine) EditField(id int, col models.Column, value string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.articles.Get(id)
	if !ok {
		return false, fmt.Errorf("editing article %d: %w", id, apperrors.ErrNotFound)
	}

	changed, err := a.SetField(col, value)
	if err != nil || !changed {
		return false, err
	}

	e.articles.Put(a)
	e.tracker.MarkChanged(a)
	e.autosave()
	e.persist()

	e.logger.Debug("sync: field edited",
		slog.Int("id", id),
		slog.String("column", string(col)),
	)

	return true, nil
}

// ApplyStyle applies op to every cell. Toggles flip each cell on its own.
// It returns the number of articles that changed.
func (e *Engine) ApplyStyle(cells []Cell, op StyleOp) (int, error) {
	color := strings.TrimSpace(op.Color)
	if op.Kind == SetColor && color != "" {
		if (models.CellStyle{Color: color}).ValidColor() != color {
			return 0, fmt.Errorf("%w: color must look like #RRGGBB, got %q", apperrors.ErrValidation, op.Color)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range cells {
		if !e.articles.Has(c.ID) {
			return 0, fmt.Errorf("styling article %d: %w", c.ID, apperrors.ErrNotFound)
		}

		if _, ok := models.ParseColumn(string(c.Column)); !ok {
			return 0, fmt.Errorf("%w: unknown column %q", apperrors.ErrValidation, c.Column)
		}
	}

	touched := make(map[int]struct{})

	for _, c := range cells {
		e.articles.Update(c.ID, func(a *models.Article) {
			before := a.Style(c.Column)
			before.Color = before.ValidColor()
			after := before

			switch op.Kind {
			case ToggleBold:
				after.Bold = !after.Bold
			case ToggleItalic:
				after.Italic = !after.Italic
			case ToggleUnderline:
				after.Underline = !after.Underline
			case SetColor:
				after.Color = color
			}

			after.Color = after.ValidColor()
			if after == before {
				return
			}

			a.SetStyle(c.Column, after)
			touched[c.ID] = struct{}{}
		})
	}

	for id := range touched {
		e.tracker.Mark(id)
	}

	if len(touched) > 0 {
		e.autosave()
		e.persist()
	}

	return len(touched), nil
}
