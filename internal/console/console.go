// Package console is the interactive host for the sync engine: a
// line-oriented REPL over stdin that lists and edits articles and answers
// the engine's reconnect, conflict and delete prompts.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	apperrors "github.com/alexjbarnes/inventory-sync/internal/errors"
	"github.com/alexjbarnes/inventory-sync/internal/inventory"
	"github.com/alexjbarnes/inventory-sync/internal/models"
)

// Engine is the command surface the console drives. *inventory.Engine
// satisfies it; tests can provide a lightweight stub.
type Engine interface {
	Mode() inventory.Mode
	Articles() []models.Article
	ArticleAtRow(row int) (models.Article, bool)
	IsDirty(id int) bool
	Pending() inventory.PendingChanges
	Status() inventory.Status
	GoOffline()
	GoOnline(ctx context.Context) (inventory.ReconnectResult, error)
	SyncLocalChangesToServer(ctx context.Context) (inventory.SyncReport, error)
	SaveChanges(ctx context.Context) (inventory.SaveResult, error)
	SaveLocal() error
	ReloadFromSnapshot() (int, error)
	AddArticle(ctx context.Context, draft models.Article) (models.Article, error)
	DeleteArticle(ctx context.Context, id int) (bool, error)
	EditField(id int, col models.Column, value string) (bool, error)
	ApplyStyle(cells []inventory.Cell, op inventory.StyleOp) (int, error)
	CompareWithServer(ctx context.Context, verbose bool) (string, error)
}

// Exporter writes the article table to a file.
type Exporter interface {
	WriteFile(path string, articles []models.Article) error
}

// Console reads commands and prompt answers from one scanner, so the
// engine's prompts are answered inline while a command runs.
type Console struct {
	engine     Engine
	exporter   Exporter
	exportPath string
	scanner    *bufio.Scanner
	out        io.Writer
	logger     *slog.Logger
}

// New creates a console reading from in and writing to out. Attach the
// engine with SetEngine before Run; the console is also the engine's
// Prompter, so it has to exist first.
func New(in io.Reader, out io.Writer, exporter Exporter, exportPath string, logger *slog.Logger) *Console {
	return &Console{
		exporter:   exporter,
		exportPath: exportPath,
		scanner:    bufio.NewScanner(in),
		out:        out,
		logger:     logger,
	}
}

// SetEngine attaches the engine the commands operate on.
func (c *Console) SetEngine(e Engine) {
	c.engine = e
}

func (c *Console) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

const helpText = `Commands:
  list                          show all articles (* changed, + not yet on server)
  show <row>                    show one article with its formatting
  add                           add an article (prompts for fields)
  edit <row> <column> <value>   change one field
  bold|italic|underline <rows> <columns>
                                toggle formatting, e.g. bold 1,3 name,price
  color <rows> <columns> <#RRGGBB|reset>
  delete <row>                  delete an article
  save                          save changes (local file when offline)
  save-local                    write the local snapshot now
  load-local                    reload from the local snapshot
  offline | online              switch mode
  push                          push local changes and go online
  diff [-v]                     compare local changes with the server
  pending                       list unsaved changes
  status                        show mode and connection state
  export [path]                 write the table to an .xlsx file
  help | quit`

// Run is the read-eval-print loop. It returns when the input ends, the
// user quits, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.println("Inventory sync (type 'help' for commands)")

	for {
		if ctx.Err() != nil {
			return nil
		}

		c.printf("inventory (%s)> ", c.engine.Mode())

		if !c.scanner.Scan() {
			return c.scanner.Err()
		}

		parts := strings.Fields(c.scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			c.println(helpText)

		case "l", "list":
			c.list()

		case "show":
			c.show(args)

		case "add":
			c.add(ctx)

		case "edit":
			c.edit(args)

		case "bold":
			c.style(args, inventory.StyleOp{Kind: inventory.ToggleBold})

		case "italic":
			c.style(args, inventory.StyleOp{Kind: inventory.ToggleItalic})

		case "underline":
			c.style(args, inventory.StyleOp{Kind: inventory.ToggleUnderline})

		case "color":
			c.color(args)

		case "delete", "rm":
			c.remove(ctx, args)

		case "save":
			c.save(ctx)

		case "save-local":
			c.saveLocal()

		case "load-local":
			c.loadLocal()

		case "offline":
			c.engine.GoOffline()
			c.println("Offline. Changes are kept locally until you go online.")

		case "online":
			c.online(ctx)

		case "push":
			c.push(ctx)

		case "diff":
			c.diff(ctx, args)

		case "pending":
			c.pending()

		case "status":
			c.status()

		case "export":
			c.export(args)

		case "exit", "quit", "q":
			c.println("Bye!")
			return nil

		default:
			c.println("Unknown command:", cmd)
		}
	}
}

// fail reports err in user terms. Server error bodies are shown verbatim.
func (c *Console) fail(err error) {
	var werr *inventory.WriteError

	switch {
	case errors.As(err, &werr):
		c.printf("Server rejected %s (status %d): %s\n", werr.Op, werr.Status, werr.Body)
	case errors.Is(err, apperrors.ErrUnreachable):
		c.println("Server unreachable. Your changes are kept locally.")
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotFound):
		c.println(err.Error())
	default:
		c.println("Error:", err.Error())
	}

	c.logger.Debug("console: command failed", slog.String("error", err.Error()))
}
