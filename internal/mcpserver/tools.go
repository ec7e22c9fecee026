// Package mcpserver registers read-only MCP tools over the inventory
// engine so assistants can inspect articles and pending changes.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/alexjbarnes/inventory-sync/internal/errors"
	"github.com/alexjbarnes/inventory-sync/internal/inventory"
	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Inventory is the engine surface the tools read. *inventory.Engine
// satisfies it.
type Inventory interface {
	Articles() []models.Article
	Article(id int) (models.Article, bool)
	IsDirty(id int) bool
	Pending() inventory.PendingChanges
	Differences(ctx context.Context) ([]inventory.Difference, error)
	Status() inventory.Status
}

// RegisterTools adds all inventory tools to the given MCP server.
func RegisterTools(server *mcp.Server, inv Inventory) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "inventory_list",
		Description: "List articles in display order with their row number and whether they have unsaved changes. Optional case-insensitive filter on name, type and location.",
	}, listHandler(inv))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inventory_get",
		Description: "Get one article by id, including its cell formatting.",
	}, getHandler(inv))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inventory_pending",
		Description: "List unsaved local changes: edited articles and articles created offline that are not on the server yet.",
	}, pendingHandler(inv))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inventory_diff",
		Description: "Compare every local change with the current server version. Returns field-level differences and a readable report. Requires the server to be reachable.",
	}, diffHandler(inv))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inventory_status",
		Description: "Show the sync mode (online/offline), counts of articles and pending changes, and the last connection check.",
	}, statusHandler(inv))
}

// --- Input types ---
// The MCP SDK infers JSON schema from these struct types via jsonschema tags.

// ListInput holds parameters for inventory_list.
type ListInput struct {
	Query       string `json:"query,omitempty" jsonschema:"case-insensitive substring matched against name, type and location"`
	OnlyChanged bool   `json:"only_changed,omitempty" jsonschema:"only return articles with unsaved changes"`
}

// GetInput holds parameters for inventory_get.
type GetInput struct {
	ID int `json:"id" jsonschema:"article id, negative for articles created offline"`
}

// DiffInput holds parameters for inventory_diff.
type DiffInput struct {
	Verbose bool `json:"verbose,omitempty" jsonschema:"add a character-level view of each changed value to the report"`
}

// EmptyInput has no parameters.
type EmptyInput struct{}

// --- Output types ---

// ArticleView is an article as the tools report it. Price is a decimal
// string so no precision is lost.
type ArticleView struct {
	Row             int                         `json:"row,omitempty"`
	ID              int                         `json:"id"`
	Name            string                      `json:"name"`
	Type            string                      `json:"type"`
	Stock           int                         `json:"stock"`
	Unit            string                      `json:"unit"`
	Price           string                      `json:"price"`
	Location        string                      `json:"location,omitempty"`
	Status          string                      `json:"status,omitempty"`
	Link            string                      `json:"link,omitempty"`
	Timestamp       string                      `json:"timestamp,omitempty"`
	Changed         bool                        `json:"changed,omitempty"`
	PendingCreation bool                        `json:"pending_creation,omitempty"`
	Styles          map[string]models.CellStyle `json:"styles,omitempty"`
}

// ListResult is returned by inventory_list.
type ListResult struct {
	Total    int           `json:"total"`
	Articles []ArticleView `json:"articles"`
}

// PendingResult is returned by inventory_pending.
type PendingResult struct {
	Updates   []ArticleView `json:"updates"`
	Creations []ArticleView `json:"creations"`
}

// DiffResult is returned by inventory_diff.
type DiffResult struct {
	Differences []inventory.Difference `json:"differences"`
	Report      string                 `json:"report"`
}

// StatusResult is returned by inventory_status.
type StatusResult struct {
	Mode             string `json:"mode"`
	Articles         int    `json:"articles"`
	Dirty            int    `json:"dirty"`
	PendingCreations int    `json:"pending_creations"`
	LastSync         string `json:"last_sync,omitempty"`
	Reachable        bool   `json:"reachable"`
	LastCheck        string `json:"last_check,omitempty"`
}

func view(a models.Article, row int, changed bool) ArticleView {
	return ArticleView{
		Row:             row,
		ID:              a.ID,
		Name:            a.Name,
		Type:            a.Type,
		Stock:           a.Stock,
		Unit:            a.Unit,
		Price:           a.Price.StringFixed(2),
		Location:        a.Location,
		Status:          a.Status,
		Link:            a.Link,
		Timestamp:       a.Timestamp,
		Changed:         changed,
		PendingCreation: a.IsPendingCreation(),
		Styles:          a.Styles,
	}
}

func matches(a models.Article, query string) bool {
	if query == "" {
		return true
	}

	q := strings.ToLower(query)
	for _, field := range []string{a.Name, a.Type, a.Location} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}

	return false
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

// --- Handlers ---

func listHandler(inv Inventory) mcp.ToolHandlerFor[ListInput, *ListResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, *ListResult, error) {
		result := &ListResult{Articles: []ArticleView{}}

		for i, a := range inv.Articles() {
			changed := inv.IsDirty(a.ID)
			if input.OnlyChanged && !changed && !a.IsPendingCreation() {
				continue
			}

			if !matches(a, strings.TrimSpace(input.Query)) {
				continue
			}

			result.Articles = append(result.Articles, view(a, i+1, changed))
		}

		result.Total = len(result.Articles)

		return textResult(result), result, nil
	}
}

func getHandler(inv Inventory) mcp.ToolHandlerFor[GetInput, *ArticleView] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input GetInput) (*mcp.CallToolResult, *ArticleView, error) {
		a, ok := inv.Article(input.ID)
		if !ok {
			return nil, nil, fmt.Errorf("article %d: %w", input.ID, apperrors.ErrNotFound)
		}

		result := view(a, 0, inv.IsDirty(a.ID))

		return textResult(result), &result, nil
	}
}

func pendingHandler(inv Inventory) mcp.ToolHandlerFor[EmptyInput, *PendingResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, *PendingResult, error) {
		p := inv.Pending()
		result := &PendingResult{Updates: []ArticleView{}, Creations: []ArticleView{}}

		for _, a := range p.Updates {
			result.Updates = append(result.Updates, view(a, 0, true))
		}

		for _, a := range p.Creations {
			result.Creations = append(result.Creations, view(a, 0, inv.IsDirty(a.ID)))
		}

		return textResult(result), result, nil
	}
}

func diffHandler(inv Inventory) mcp.ToolHandlerFor[DiffInput, *DiffResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DiffInput) (*mcp.CallToolResult, *DiffResult, error) {
		diffs, err := inv.Differences(ctx)
		if err != nil {
			return nil, nil, err
		}

		if diffs == nil {
			diffs = []inventory.Difference{}
		}

		result := &DiffResult{
			Differences: diffs,
			Report:      inventory.RenderDifferences(diffs, input.Verbose),
		}

		return textResult(result), result, nil
	}
}

func statusHandler(inv Inventory) mcp.ToolHandlerFor[EmptyInput, *StatusResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, *StatusResult, error) {
		st := inv.Status()
		result := &StatusResult{
			Mode:             st.Mode,
			Articles:         st.Articles,
			Dirty:            st.Dirty,
			PendingCreations: st.PendingCreations,
			LastSync:         formatTime(st.LastSync),
			Reachable:        st.Reachable,
			LastCheck:        formatTime(st.LastCheck),
		}

		return textResult(result), result, nil
	}
}

// textResult builds a CallToolResult with JSON text content from any value.
// This provides the unstructured content alongside the structured output
// that the SDK populates automatically.
func textResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error marshaling result: %v", err)}},
			IsError: true,
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}
