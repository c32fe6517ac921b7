package mcp

import "github.com/mark3labs/mcp-go/mcp"

// enrichFieldTool defines the enrich_field MCP tool.
var enrichFieldTool = mcp.NewTool("enrich_field",
	mcp.WithDescription("Enrich one field of a stored quest with AI-generated content and persist the result."),
	mcp.WithString("quest_id",
		mcp.Required(),
		mcp.Description("ID of the quest to enrich"),
	),
	mcp.WithString("field",
		mcp.Required(),
		mcp.Description("Quest field to enrich"),
		mcp.Enum("story_background", "description", "clues", "target_symbols"),
	),
	mcp.WithString("provider",
		mcp.Description("Preferred LLM provider; falls back through the configured priority order"),
	),
)

// findRelatedSymbolsTool defines the find_related_symbols MCP tool.
var findRelatedSymbolsTool = mcp.NewTool("find_related_symbols",
	mcp.WithDescription("Find symbols semantically related to a given symbol by description similarity."),
	mcp.WithString("symbol_id",
		mcp.Required(),
		mcp.Description("ID of the symbol to search from"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of related symbols to return (default 5)"),
	),
)

// getQuestTool defines the get_quest MCP tool.
var getQuestTool = mcp.NewTool("get_quest",
	mcp.WithDescription("Get one quest record with all its fields and enrichment history."),
	mcp.WithString("quest_id",
		mcp.Required(),
		mcp.Description("ID of the quest to fetch"),
	),
)
