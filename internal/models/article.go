package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/alexjbarnes/inventory-sync/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Column names a field of an article as shown in the table.
type Column string

const (
	ColumnID       Column = "ID"
	ColumnName     Column = "Name"
	ColumnType     Column = "Type"
	ColumnStock    Column = "Stock"
	ColumnUnit     Column = "Unit"
	ColumnPrice    Column = "Price"
	ColumnLocation Column = "Location"
	ColumnStatus   Column = "Status"
	ColumnLink     Column = "Link"
)

// Columns lists every column in display order.
var Columns = []Column{
	ColumnID, ColumnName, ColumnType, ColumnStock, ColumnUnit,
	ColumnPrice, ColumnLocation, ColumnStatus, ColumnLink,
}

// ParseColumn resolves a column name case-insensitively.
func ParseColumn(s string) (Column, bool) {
	for _, c := range Columns {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}

	return "", false
}

// DefaultColor is used whenever a cell style has no usable color.
const DefaultColor = "#000000"

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CellStyle is the formatting of a single (article, column) cell.
type CellStyle struct {
	Bold      bool   `json:"bold"`
	Italic    bool   `json:"italic"`
	Underline bool   `json:"underline"`
	Color     string `json:"color"`
}

// ValidColor returns the style color, or DefaultColor when it is empty
// or not a #RRGGBB value.
func (s CellStyle) ValidColor() string {
	if colorPattern.MatchString(s.Color) {
		return s.Color
	}

	return DefaultColor
}

// IsDefault reports whether the style renders the same as no style.
func (s CellStyle) IsDefault() bool {
	return !s.Bold && !s.Italic && !s.Underline && strings.EqualFold(s.ValidColor(), DefaultColor)
}

// Article is one inventory record. Positive ids are assigned by the
// server; negative ids mark records created offline and not yet pushed.
type Article struct {
	ID        int                  `json:"id"`
	Name      string               `json:"name" validate:"required"`
	Type      string               `json:"type" validate:"required"`
	Stock     int                  `json:"stock" validate:"gte=0"`
	Unit      string               `json:"unit" validate:"required"`
	Price     decimal.Decimal      `json:"price"`
	Location  string               `json:"location"`
	Status    string               `json:"status"`
	Link      string               `json:"link"`
	Timestamp string               `json:"timestamp"`
	Styles    map[string]CellStyle `json:"styles,omitempty"`
}

var validate = validator.New()

// Validate checks the required fields and returns an ErrValidation
// describing every failing field.
func (a Article) Validate() error {
	if err := validate.Struct(a); err != nil {
		return formatValidationError(err)
	}

	return nil
}

// IsValid holds iff name, type and unit are non-empty and stock >= 0.
func (a Article) IsValid() bool {
	return a.Validate() == nil
}

// IsPendingCreation reports whether the article only exists locally and
// still has to be created on the server.
func (a Article) IsPendingCreation() bool {
	return a.ID < 0
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())

		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}

	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
}

// Clone returns a copy that shares no style map with a.
func (a Article) Clone() Article {
	if a.Styles != nil {
		styles := make(map[string]CellStyle, len(a.Styles))
		for k, v := range a.Styles {
			styles[k] = v
		}

		a.Styles = styles
	}

	return a
}

// Style returns the style for a column, or the zero style.
func (a Article) Style(col Column) CellStyle {
	return a.Styles[string(col)]
}

// SetStyle stores a style for a column. Default styles are removed so
// that an untouched cell and a reset cell serialize identically.
func (a *Article) SetStyle(col Column, s CellStyle) {
	s.Color = s.ValidColor()
	if s.IsDefault() {
		delete(a.Styles, string(col))
		if len(a.Styles) == 0 {
			a.Styles = nil
		}

		return
	}

	if a.Styles == nil {
		a.Styles = make(map[string]CellStyle)
	}

	a.Styles[string(col)] = s
}

// StylesJSON is the canonical serialization of the style map. Map keys
// are sorted by encoding/json, so equal maps give equal strings.
func (a Article) StylesJSON() string {
	if len(a.Styles) == 0 {
		return "{}"
	}

	data, err := json.Marshal(a.Styles)
	if err != nil {
		return "{}"
	}

	return string(data)
}

// Field returns the display value of a column.
func (a Article) Field(col Column) string {
	switch col {
	case ColumnID:
		return strconv.Itoa(a.ID)
	case ColumnName:
		return a.Name
	case ColumnType:
		return a.Type
	case ColumnStock:
		return strconv.Itoa(a.Stock)
	case ColumnUnit:
		return a.Unit
	case ColumnPrice:
		return a.Price.StringFixed(2)
	case ColumnLocation:
		return a.Location
	case ColumnStatus:
		return a.Status
	case ColumnLink:
		return a.Link
	default:
		return ""
	}
}

// SetField parses raw for the given column and stores it. It reports
// whether the stored value actually changed. Invalid input leaves the
// article untouched.
func (a *Article) SetField(col Column, raw string) (bool, error) {
	switch col {
	case ColumnID:
		return false, fmt.Errorf("%w: id is read-only", apperrors.ErrValidation)

	case ColumnStock:
		n, err := ParseStock(raw)
		if err != nil {
			return false, err
		}

		if n == a.Stock {
			return false, nil
		}

		a.Stock = n

		return true, nil

	case ColumnPrice:
		p, err := ParsePrice(raw)
		if err != nil {
			return false, err
		}

		if p.Equal(a.Price) {
			return false, nil
		}

		a.Price = p

		return true, nil
	}

	target := a.textField(col)
	if target == nil {
		return false, fmt.Errorf("%w: unknown column %q", apperrors.ErrValidation, col)
	}

	v := NormalizeText(raw)
	if v == *target {
		return false, nil
	}

	*target = v

	return true, nil
}

func (a *Article) textField(col Column) *string {
	switch col {
	case ColumnName:
		return &a.Name
	case ColumnType:
		return &a.Type
	case ColumnUnit:
		return &a.Unit
	case ColumnLocation:
		return &a.Location
	case ColumnStatus:
		return &a.Status
	case ColumnLink:
		return &a.Link
	default:
		return nil
	}
}

// ParseStock parses a non-negative whole number.
func ParseStock(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: stock must be a whole number, got %q", apperrors.ErrValidation, raw)
	}

	if n < 0 {
		return 0, fmt.Errorf("%w: stock must not be negative", apperrors.ErrValidation)
	}

	return n, nil
}

// ParsePrice parses a non-negative decimal. A comma is accepted as the
// decimal separator.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")

	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: price must be a number, got %q", apperrors.ErrValidation, raw)
	}

	if p.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: price must not be negative", apperrors.ErrValidation)
	}

	return p, nil
}

// NormalizeText trims s and converts it to NFC so that visually equal
// input compares equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Equal compares two articles field by field, using decimal equality
// for the price.
func (a Article) Equal(b Article) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Type == b.Type &&
		a.Stock == b.Stock &&
		a.Unit == b.Unit &&
		a.Price.Equal(b.Price) &&
		a.Location == b.Location &&
		a.Status == b.Status &&
		a.Link == b.Link &&
		a.Timestamp == b.Timestamp &&
		a.StylesJSON() == b.StylesJSON()
}
