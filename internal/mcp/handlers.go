package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/modlock/internal/config"
	"github.com/hpungsan/modlock/internal/db"
	"github.com/hpungsan/modlock/internal/errors"
	"github.com/hpungsan/modlock/internal/freeze"
	"github.com/hpungsan/modlock/internal/hook"
	"github.com/hpungsan/modlock/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db     *sql.DB
	cfg    *config.Config
	hooks  *hook.Registry
	fields *freeze.Fields
}

// NewHandlers wires the freeze interceptor into the API surface: the field
// registry declares the exposed meta keys and the hook registry carries the
// pre-insert and pre-persist interceptors the save path runs.
func NewHandlers(database *sql.DB, cfg *config.Config) *Handlers {
	store := db.Store{DB: database}
	ic := freeze.FromConfig(store, store, cfg, nil, nil)

	hooks := hook.NewRegistry()
	ic.Bind(hooks)

	fields := freeze.NewFields()
	ic.RegisterFields(fields)

	return &Handlers{
		db:     database,
		cfg:    cfg,
		hooks:  hooks,
		fields: fields,
	}
}

// Request types for each tool

// CreateRequest represents the arguments for item_create.
type CreateRequest struct {
	Type   string            `json:"type,omitempty"`
	Title  *string           `json:"title,omitempty"`
	Body   string            `json:"body"`
	Status string            `json:"status,omitempty"`
	Tags   []string          `json:"tags,omitempty"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// FetchRequest represents the arguments for item_fetch.
type FetchRequest struct {
	ID          string `json:"id"`
	IncludeBody *bool  `json:"include_body,omitempty"`
}

// UpdateRequest represents the arguments for item_update.
type UpdateRequest struct {
	ID     string            `json:"id"`
	Title  *string           `json:"title,omitempty"`
	Body   *string           `json:"body,omitempty"`
	Status *string           `json:"status,omitempty"`
	Tags   *[]string         `json:"tags,omitempty"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// ListRequest represents the arguments for item_list.
type ListRequest struct {
	Type   string `json:"type,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// FreezeStatusRequest represents the arguments for item_freeze_status.
type FreezeStatusRequest struct {
	ID string `json:"id"`
}

// Handler implementations

// HandleCreate handles the item_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Create(h.db, h.cfg, h.hooks, ops.CreateInput{
		Type:   input.Type,
		Title:  input.Title,
		Body:   input.Body,
		Status: input.Status,
		Tags:   input.Tags,
		Meta:   input.Meta,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the item_fetch tool call. Meta is filtered through the
// field registry so only API-exposed keys appear.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:          input.ID,
		IncludeBody: input.IncludeBody,
	})
	if err != nil {
		return errorResult(err), nil
	}

	meta, err := db.GetAllMeta(h.db, result.ID)
	if err != nil {
		return errorResult(err), nil
	}
	exposed := make(map[string]string)
	for k, v := range meta {
		if h.fields.Exposed(k) {
			exposed[k] = v
		}
	}
	if len(exposed) > 0 {
		result.Meta = exposed
	}

	return successResult(result)
}

// HandleUpdate handles the item_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(h.db, h.cfg, h.hooks, ops.UpdateInput{
		ID:     input.ID,
		Title:  input.Title,
		Body:   input.Body,
		Status: input.Status,
		Tags:   input.Tags,
		Meta:   input.Meta,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the item_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Type:   input.Type,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFreezeStatus handles the item_freeze_status tool call.
func (h *Handlers) HandleFreezeStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FreezeStatusRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.FreezeStatus(h.db, ops.StatusInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if mErr, ok := err.(*errors.ModlockError); ok {
		errorObj := map[string]any{
			"code":    mErr.Code,
			"message": mErr.Message,
			"status":  mErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if mErr.Code != errors.ErrInternal && mErr.Details != nil {
			errorObj["details"] = mErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
