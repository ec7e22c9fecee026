package httpapi

import (
	"encoding/json"
	"fmt"

	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/shopspring/decimal"
)

// articleDTO is the server's wire format. The server keeps the style map
// as a JSON string in stylesJson; newer servers also echo styles.
type articleDTO struct {
	ID         int                         `json:"id,omitempty"`
	Name       string                      `json:"name"`
	Type       string                      `json:"type"`
	Stock      int                         `json:"stock"`
	Unit       string                      `json:"unit"`
	Price      json.Number                 `json:"price"`
	Location   string                      `json:"location"`
	Status     string                      `json:"status"`
	Link       string                      `json:"link"`
	Timestamp  string                      `json:"timestamp"`
	Styles     map[string]models.CellStyle `json:"styles,omitempty"`
	StylesJSON string                      `json:"stylesJson,omitempty"`
}

func fromModel(a models.Article) articleDTO {
	d := articleDTO{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		Stock:     a.Stock,
		Unit:      a.Unit,
		Price:     json.Number(a.Price.String()),
		Location:  a.Location,
		Status:    a.Status,
		Link:      a.Link,
		Timestamp: a.Timestamp,
	}

	if len(a.Styles) > 0 {
		d.Styles = make(map[string]models.CellStyle, len(a.Styles))
		for col, s := range a.Styles {
			s.Color = s.ValidColor()
			d.Styles[col] = s
		}

		if data, err := json.Marshal(d.Styles); err == nil {
			d.StylesJSON = string(data)
		}
	}

	return d
}

func (d articleDTO) toModel() (models.Article, error) {
	a := models.Article{
		ID:        d.ID,
		Name:      d.Name,
		Type:      d.Type,
		Stock:     d.Stock,
		Unit:      d.Unit,
		Location:  d.Location,
		Status:    d.Status,
		Link:      d.Link,
		Timestamp: d.Timestamp,
	}

	if d.Price != "" {
		p, err := decimal.NewFromString(d.Price.String())
		if err != nil {
			return models.Article{}, fmt.Errorf("parsing price %q: %w", d.Price, err)
		}

		a.Price = p
	}

	styles := d.Styles
	if len(styles) == 0 && d.StylesJSON != "" {
		if err := json.Unmarshal([]byte(d.StylesJSON), &styles); err != nil {
			return models.Article{}, fmt.Errorf("parsing stylesJson: %w", err)
		}
	}

	for col, s := range styles {
		c, ok := models.ParseColumn(col)
		if !ok {
			continue
		}

		a.SetStyle(c, s)
	}

	return a, nil
}
