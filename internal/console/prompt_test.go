package console

import (
	"context"
	"testing"

	"github.com/alexjbarnes/inventory-sync/internal/inventory"
	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestChooseReconnect(t *testing.T) {
	tests := []struct {
		input string
		want  inventory.ReconnectChoice
	}{
		{input: "push\n", want: inventory.ReconnectPush},
		{input: "d\n", want: inventory.ReconnectDiscard},
		{input: "what\nReview\n", want: inventory.ReconnectReview},
		{input: "cancel\n", want: inventory.ReconnectCancel},
		{input: "", want: inventory.ReconnectCancel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, out, _ := newTestConsole(tt.input, &fakeEngine{})

			assert.Equal(t, tt.want, c.ChooseReconnect(context.Background(), 3))
			assert.Contains(t, out.String(), "You have 3 local change(s).")
		})
	}
}

func TestResolveConflicts(t *testing.T) {
	c, out, _ := newTestConsole("a\n", &fakeEngine{})

	got := c.ResolveConflicts(context.Background(), "Article 1 (Bolt):\n  stock: 3 -> 5")

	assert.Equal(t, inventory.ConflictAcceptServer, got)
	assert.Contains(t, out.String(), "stock: 3 -> 5")

	c, _, _ = newTestConsole("overwrite\n", &fakeEngine{})
	assert.Equal(t, inventory.ConflictOverwrite, c.ResolveConflicts(context.Background(), ""))
}

func TestConfirmPushAndDelete(t *testing.T) {
	c, _, _ := newTestConsole("yes\nno\n", &fakeEngine{})

	assert.True(t, c.ConfirmPush(context.Background(), "report"))
	assert.False(t, c.ConfirmDelete(context.Background(), models.Article{ID: 2, Name: "Nut"}))
}

func TestPromptsCancelWhenContextDone(t *testing.T) {
	c, _, _ := newTestConsole("yes\n", &fakeEngine{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, c.ConfirmDelete(ctx, models.Article{ID: 2}))
	assert.Equal(t, inventory.ConflictCancel, c.ResolveConflicts(ctx, ""))
}
