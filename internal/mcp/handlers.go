package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/symbolica-app/symbolica/internal/catalog"
	"github.com/symbolica-app/symbolica/internal/enrich"
)

// handleEnrichField enriches one quest field and persists the result.
func (s *Server) handleEnrichField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questID, err := request.RequireString("quest_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: quest_id"), nil
	}
	field, err := request.RequireString("field")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: field"), nil
	}

	quest, err := s.store.GetQuest(ctx, questID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("quest %q not found", questID)), nil
	}
	current, ok := quest.FieldValue(field)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("field %q is not enrichable", field)), nil
	}

	resp, err := s.pipeline.Enrich(ctx, enrich.Request{
		Field:    field,
		Current:  current,
		Context:  quest.Context(),
		Provider: request.GetString("provider", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("enrichment failed: %v", err)), nil
	}

	saved := false
	if !resp.ValidationFailed {
		if err := s.store.SaveField(ctx, quest.ID, field, resp.Value); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("saving field: %v", err)), nil
		}
		saved = true
	}
	if err := s.store.RecordEnrichment(ctx, &catalog.Enrichment{
		QuestID:          quest.ID,
		Field:            field,
		Provider:         resp.Provider,
		Confidence:       resp.Confidence,
		ValidationFailed: resp.ValidationFailed,
	}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recording enrichment: %v", err)), nil
	}

	out, err := json.MarshalIndent(map[string]any{
		"enrichedValue": resp.Value,
		"provider":      resp.Provider,
		"confidence":    resp.Confidence,
		"suggestions":   resp.Suggestions,
		"saved":         saved,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleFindRelatedSymbols searches the vector index from a stored symbol.
func (s *Server) handleFindRelatedSymbols(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbolID, err := request.RequireString("symbol_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: symbol_id"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	sym, err := s.store.GetSymbol(ctx, symbolID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("symbol %q not found", symbolID)), nil
	}

	matches, err := s.index.FindRelated(ctx, sym, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText("No related symbols found. The symbol index may be empty."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d related symbol(s) for %s:\n", len(matches), sym.Name)
	for _, m := range matches {
		fmt.Fprintf(&sb, "\n- %s", m.Name)
		if m.Culture != "" {
			fmt.Fprintf(&sb, " (%s)", m.Culture)
		}
		fmt.Fprintf(&sb, " [id: %s, similarity: %.1f%%]", m.SymbolID, m.Similarity*100)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetQuest returns a quest record with its enrichment history.
func (s *Server) handleGetQuest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questID, err := request.RequireString("quest_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: quest_id"), nil
	}

	quest, err := s.store.GetQuest(ctx, questID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("quest %q not found", questID)), nil
	}
	history, err := s.store.EnrichmentHistory(ctx, questID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading history: %v", err)), nil
	}

	out, err := json.MarshalIndent(map[string]any{
		"quest":       quest,
		"enrichments": history,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
