package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	apperrors "github.com/alexjbarnes/inventory-sync/internal/errors"
	"github.com/alexjbarnes/inventory-sync/internal/inventory"
	"github.com/alexjbarnes/inventory-sync/internal/models"
)

func (c *Console) marker(a models.Article) string {
	switch {
	case a.IsPendingCreation():
		return "+"
	case c.engine.IsDirty(a.ID):
		return "*"
	default:
		return " "
	}
}

func (c *Console) list() {
	articles := c.engine.Articles()
	if len(articles) == 0 {
		c.println("No articles.")
		return
	}

	if err := writeTable(c.out, articles, c.marker); err != nil {
		c.fail(err)
	}
}

func (c *Console) show(args []string) {
	if len(args) != 1 {
		c.println("Usage: show <row>")
		return
	}

	a, ok := c.articleAt(args[0])
	if !ok {
		return
	}

	for _, col := range models.Columns {
		line := fmt.Sprintf("%-9s %s", string(col)+":", a.Field(col))
		if s := a.Style(col); !s.IsDefault() {
			line += "  (" + describeStyle(s) + ")"
		}

		c.println(line)
	}

	c.println("Timestamp:", a.Timestamp)
}

// articleAt resolves a display row argument and reports problems itself.
func (c *Console) articleAt(arg string) (models.Article, bool) {
	row, err := strconv.Atoi(arg)
	if err != nil {
		c.printf("Not a row number: %q\n", arg)
		return models.Article{}, false
	}

	a, ok := c.engine.ArticleAtRow(row)
	if !ok {
		c.printf("No article at row %d.\n", row)
		return models.Article{}, false
	}

	return a, true
}

func (c *Console) add(ctx context.Context) {
	var draft models.Article

	for _, col := range models.Columns[1:] {
		value, ok := c.ask(string(col) + ":")
		if !ok {
			return
		}

		if value == "" && (col == models.ColumnStock || col == models.ColumnPrice) {
			value = "0"
		}

		if _, err := draft.SetField(col, value); err != nil {
			c.fail(err)
			return
		}
	}

	a, err := c.engine.AddArticle(ctx, draft)
	if err != nil {
		c.fail(err)
		return
	}

	if a.IsPendingCreation() {
		c.printf("Added %q locally (id %d). It is created on the server at the next sync.\n", a.Name, a.ID)
		return
	}

	c.printf("Created %q with id %d.\n", a.Name, a.ID)
}

func (c *Console) edit(args []string) {
	if len(args) < 2 {
		c.println("Usage: edit <row> <column> <value>")
		return
	}

	a, ok := c.articleAt(args[0])
	if !ok {
		return
	}

	col, ok := models.ParseColumn(args[1])
	if !ok {
		c.printf("Unknown column %q.\n", args[1])
		return
	}

	changed, err := c.engine.EditField(a.ID, col, strings.Join(args[2:], " "))
	if err != nil {
		c.fail(err)
		return
	}

	if !changed {
		c.println("No change.")
	}
}

// cells expands "1,3 name,price" into the cross product of rows and
// columns.
func (c *Console) cells(rowsArg, colsArg string) ([]inventory.Cell, bool) {
	var articles []models.Article

	for _, r := range strings.Split(rowsArg, ",") {
		a, ok := c.articleAt(strings.TrimSpace(r))
		if !ok {
			return nil, false
		}

		articles = append(articles, a)
	}

	var cols []models.Column

	for _, name := range strings.Split(colsArg, ",") {
		col, ok := models.ParseColumn(name)
		if !ok {
			c.printf("Unknown column %q.\n", name)
			return nil, false
		}

		cols = append(cols, col)
	}

	out := make([]inventory.Cell, 0, len(articles)*len(cols))
	for _, a := range articles {
		for _, col := range cols {
			out = append(out, inventory.Cell{ID: a.ID, Column: col})
		}
	}

	return out, true
}

func (c *Console) style(args []string, op inventory.StyleOp) {
	if len(args) != 2 {
		c.println("Usage: bold|italic|underline <rows> <columns>")
		return
	}

	c.applyStyle(args[0], args[1], op)
}

func (c *Console) color(args []string) {
	if len(args) != 3 {
		c.println("Usage: color <rows> <columns> <#RRGGBB|reset>")
		return
	}

	color := args[2]
	if strings.EqualFold(color, "reset") {
		color = ""
	}

	c.applyStyle(args[0], args[1], inventory.StyleOp{Kind: inventory.SetColor, Color: color})
}

func (c *Console) applyStyle(rows, cols string, op inventory.StyleOp) {
	cells, ok := c.cells(rows, cols)
	if !ok {
		return
	}

	n, err := c.engine.ApplyStyle(cells, op)
	if err != nil {
		c.fail(err)
		return
	}

	c.printf("Formatting changed on %d article(s).\n", n)
}

func (c *Console) remove(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.println("Usage: delete <row>")
		return
	}

	a, ok := c.articleAt(args[0])
	if !ok {
		return
	}

	deleted, err := c.engine.DeleteArticle(ctx, a.ID)
	if err != nil {
		c.fail(err)
		return
	}

	if deleted {
		c.printf("Deleted article %d.\n", a.ID)
	}
}

func (c *Console) save(ctx context.Context) {
	res, err := c.engine.SaveChanges(ctx)
	if err != nil {
		c.fail(err)

		if res.Report.Remaining > 0 {
			c.printf("%d change(s) still pending.\n", res.Report.Remaining)
		}

		return
	}

	switch res.Outcome {
	case inventory.SaveNothing:
		c.println("Nothing to save.")
	case inventory.SaveLocalOnly:
		c.println("Offline: changes saved to the local file. They are pushed when you go online.")
	case inventory.SavePushed, inventory.SaveOverwritten:
		c.printf("Saved: %d updated, %d created.\n", res.Report.Updated, res.Report.Created)
	case inventory.SaveAcceptedServer:
		c.printf("Took the server version of %d article(s).\n", len(res.Conflicts))
	case inventory.SaveCancelled:
		c.println("Save cancelled. Your changes are still pending.")
	}

	if len(res.Skipped) > 0 {
		c.printf("Could not check %v for conflicts.\n", res.Skipped)
	}
}

func (c *Console) saveLocal() {
	if err := c.engine.SaveLocal(); err != nil {
		c.fail(err)
		return
	}

	c.println("Local file written.")
}

func (c *Console) loadLocal() {
	n, err := c.engine.ReloadFromSnapshot()
	if err != nil {
		if errors.Is(err, apperrors.ErrNoSnapshot) {
			c.println("No usable local file. It is missing or failed its integrity check.")
			return
		}

		c.fail(err)

		return
	}

	c.printf("Loaded %d article(s) from the local file.\n", n)
}

func (c *Console) online(ctx context.Context) {
	res, err := c.engine.GoOnline(ctx)
	if err != nil {
		c.fail(err)
		return
	}

	switch res.Outcome {
	case inventory.ReconnectAlreadyOnline:
		c.println("Already online.")
	case inventory.ReconnectPulled, inventory.ReconnectDiscarded:
		c.println("Online. Loaded the server state.")
	case inventory.ReconnectPushed:
		c.printf("Online. Pushed %d update(s) and %d new article(s).\n", res.Report.Updated, res.Report.Created)
	case inventory.ReconnectCancelled:
		c.println("Still offline.")
	}
}

func (c *Console) push(ctx context.Context) {
	report, err := c.engine.SyncLocalChangesToServer(ctx)
	if err != nil {
		c.fail(err)

		if report.Remaining > 0 {
			c.printf("%d change(s) still pending.\n", report.Remaining)
		}

		return
	}

	c.printf("Online. Pushed %d update(s) and %d new article(s).\n", report.Updated, report.Created)
}

func (c *Console) diff(ctx context.Context, args []string) {
	verbose := len(args) > 0 && (args[0] == "-v" || args[0] == "--verbose")

	report, err := c.engine.CompareWithServer(ctx, verbose)
	if err != nil {
		c.fail(err)
		return
	}

	c.println(report)
}

func (c *Console) pending() {
	p := c.engine.Pending()
	if len(p.Updates) == 0 && len(p.Creations) == 0 {
		c.println("No local changes.")
		return
	}

	for _, a := range p.Updates {
		c.printf("changed  %d %s\n", a.ID, a.Name)
	}

	for _, a := range p.Creations {
		c.printf("new      %d %s\n", a.ID, a.Name)
	}
}

func (c *Console) status() {
	st := c.engine.Status()

	c.printf("Mode: %s\n", st.Mode)
	c.printf("Articles: %d (%d changed, %d new)\n", st.Articles, st.Dirty, st.PendingCreations)

	if !st.LastSync.IsZero() {
		c.printf("Last sync: %s\n", st.LastSync.Local().Format("2006-01-02 15:04:05"))
	}

	if !st.LastCheck.IsZero() {
		reach := "unreachable"
		if st.Reachable {
			reach = "reachable"
		}

		c.printf("Server: %s (checked %s)\n", reach, st.LastCheck.Local().Format("15:04:05"))
	}
}

func (c *Console) export(args []string) {
	path := c.exportPath
	if len(args) > 0 {
		path = args[0]
	}

	if err := c.exporter.WriteFile(path, c.engine.Articles()); err != nil {
		c.fail(err)
		return
	}

	c.logger.Info("console: exported articles", slog.String("path", path))
	c.println("Exported to", path)
}
