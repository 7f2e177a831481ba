package mcp

import "github.com/mark3labs/mcp-go/mcp"

var createToolDef = mcp.NewTool("item_create",
	mcp.WithDescription("Create a content item. The meta object may carry freeze_modified / freeze_modified_cache; for supported types those are persisted directly and stripped before generic meta processing."),
	mcp.WithString("type", mcp.Description("Content type (default: post)")),
	mcp.WithString("title", mcp.Description("Optional title")),
	mcp.WithString("body", mcp.Required(), mcp.Description("Item body")),
	mcp.WithString("status", mcp.Description("draft or published (default: draft)")),
	mcp.WithArray("tags", mcp.Description("Tags"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithObject("meta", mcp.Description("Metadata bag: string key/value pairs")),
)

var fetchToolDef = mcp.NewTool("item_fetch",
	mcp.WithDescription("Fetch a content item by ID, including its API-exposed meta fields."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID")),
	mcp.WithBoolean("include_body", mcp.Description("Include the body in the output (default: true)")),
)

var updateToolDef = mcp.NewTool("item_update",
	mcp.WithDescription("Update a content item. Saves normally refresh the modified timestamp; when the item's freeze flag is set, the previously cached timestamp is persisted instead."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("body", mcp.Description("New body")),
	mcp.WithString("status", mcp.Description("draft or published")),
	mcp.WithArray("tags", mcp.Description("New tags"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithObject("meta", mcp.Description("Metadata bag: string key/value pairs")),
)

var listToolDef = mcp.NewTool("item_list",
	mcp.WithDescription("List content items, newest modified first."),
	mcp.WithString("type", mcp.Description("Filter by content type")),
	mcp.WithNumber("limit", mcp.Description("Maximum items to return (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
)

var freezeStatusToolDef = mcp.NewTool("item_freeze_status",
	mcp.WithDescription("Report an item's freeze flag, cached timestamp, and current modified pair."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID")),
)
