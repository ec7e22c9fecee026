package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexjbarnes/inventory-sync/internal/inventory"
	"github.com/alexjbarnes/inventory-sync/internal/models"
)

// ask prints prompt and reads one trimmed line. It reports false when
// input has ended.
func (c *Console) ask(prompt string) (string, bool) {
	c.printf("%s\n> ", prompt)

	if !c.scanner.Scan() {
		return "", false
	}

	return strings.TrimSpace(c.scanner.Text()), true
}

// choose asks until the answer is one of options, matching on the first
// letter or the whole word. It returns "" when input ends or ctx is done.
func (c *Console) choose(ctx context.Context, prompt string, options ...string) string {
	for {
		if ctx.Err() != nil {
			return ""
		}

		answer, ok := c.ask(prompt)
		if !ok {
			return ""
		}

		answer = strings.ToLower(answer)
		for _, o := range options {
			if answer == o || (answer != "" && answer == o[:1]) {
				return o
			}
		}

		c.printf("Please answer one of: %s\n", strings.Join(options, ", "))
	}
}

func (c *Console) confirm(ctx context.Context, prompt string) bool {
	return c.choose(ctx, prompt+" [yes/no]", "yes", "no") == "yes"
}

// ChooseReconnect asks what to do with local changes when going online.
func (c *Console) ChooseReconnect(ctx context.Context, pending int) inventory.ReconnectChoice {
	prompt := fmt.Sprintf("You have %d local change(s).\n"+
		"  push     send local changes to the server\n"+
		"  discard  drop local changes and load the server state\n"+
		"  review   compare with the server first\n"+
		"  cancel   stay offline", pending)

	switch c.choose(ctx, prompt, "push", "discard", "review", "cancel") {
	case "push":
		return inventory.ReconnectPush
	case "discard":
		return inventory.ReconnectDiscard
	case "review":
		return inventory.ReconnectReview
	default:
		return inventory.ReconnectCancel
	}
}

// ConfirmPush shows the review report and asks whether to push.
func (c *Console) ConfirmPush(ctx context.Context, report string) bool {
	c.println(report)
	return c.confirm(ctx, "Push these changes?")
}

// ResolveConflicts shows the conflicting articles and asks how to resolve
// all of them.
func (c *Console) ResolveConflicts(ctx context.Context, report string) inventory.ConflictChoice {
	c.println("These articles were changed on the server since you loaded them:")
	c.println(report)

	prompt := "  overwrite  save your versions anyway\n" +
		"  accept     take the server versions\n" +
		"  cancel     change nothing"

	switch c.choose(ctx, prompt, "overwrite", "accept", "cancel") {
	case "overwrite":
		return inventory.ConflictOverwrite
	case "accept":
		return inventory.ConflictAcceptServer
	default:
		return inventory.ConflictCancel
	}
}

// ConfirmDelete asks before an article is deleted.
func (c *Console) ConfirmDelete(ctx context.Context, a models.Article) bool {
	return c.confirm(ctx, fmt.Sprintf("Delete article %d (%s)?", a.ID, a.Name))
}
