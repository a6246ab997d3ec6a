// Package mcp implements the Model Context Protocol server for
// openclaw-kg, exposing the knowledge graph to assistant sessions over
// stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/openclaw-kg/internal/graph"
	"github.com/ajitpratap0/openclaw-kg/internal/ident"
	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

// Server wraps an MCPServer with the knowledge graph service.
type Server struct {
	mcp     *mcpserver.MCPServer
	service *graph.Service
	logger  *slog.Logger
}

// NewServer creates a new MCP server. If service is nil, tool calls
// return an error response instead of panicking.
func NewServer(service *graph.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		service: service,
		logger:  logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"openclaw-kg",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildQueryTool(), s.handleQuery)
	mcpSrv.AddTool(buildSearchTool(), s.handleSearch)
	mcpSrv.AddTool(buildAddFactTool(), s.handleAddFact)
	mcpSrv.AddTool(buildAddRelationTool(), s.handleAddRelation)
	mcpSrv.AddTool(buildConnectionsTool(), s.handleConnections)
	mcpSrv.AddTool(buildStatsTool(), s.handleStats)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleQuery is the exported handler for the "kg_query" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleQuery(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleQuery(ctx, req)
}

// HandleSearch is the exported handler for the "kg_search" tool.
func (s *Server) HandleSearch(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleSearch(ctx, req)
}

// HandleAddFact is the exported handler for the "kg_add_fact" tool.
func (s *Server) HandleAddFact(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleAddFact(ctx, req)
}

// HandleAddRelation is the exported handler for the "kg_add_relation" tool.
func (s *Server) HandleAddRelation(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleAddRelation(ctx, req)
}

// HandleConnections is the exported handler for the "kg_connections" tool.
func (s *Server) HandleConnections(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleConnections(ctx, req)
}

// HandleStats is the exported handler for the "kg_stats" tool.
func (s *Server) HandleStats(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleStats(ctx, req)
}

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// --- tool definitions ---

func buildQueryTool() mcpgo.Tool {
	return mcpgo.NewTool("kg_query",
		mcpgo.WithDescription("Query one knowledge graph entity and its active facts."),
		mcpgo.WithString("entity_id",
			mcpgo.Required(),
			mcpgo.Description("Entity ID in type/slug form, e.g. person/rick-arnold"),
		),
		mcpgo.WithBoolean("include_archived",
			mcpgo.Description("Include archived entities and superseded facts (default: false)"),
		),
	)
}

func buildSearchTool() mcpgo.Tool {
	return mcpgo.NewTool("kg_search",
		mcpgo.WithDescription("Substring search across entity names, aliases, domains, active facts, and summaries. Returns matches with the reason each entity matched."),
		mcpgo.WithString("query",
			mcpgo.Required(),
			mcpgo.Description("The text to search for"),
		),
		mcpgo.WithBoolean("include_archived",
			mcpgo.Description("Include archived entities (default: false)"),
		),
	)
}

func buildAddFactTool() mcpgo.Tool {
	return mcpgo.NewTool("kg_add_fact",
		mcpgo.WithDescription("Record a new fact on an entity."),
		mcpgo.WithString("entity_id",
			mcpgo.Required(),
			mcpgo.Description("Entity ID in type/slug form"),
		),
		mcpgo.WithString("text",
			mcpgo.Required(),
			mcpgo.Description("Fact text (max 500 characters)"),
		),
		mcpgo.WithString("category",
			mcpgo.Required(),
			mcpgo.Description("Fact category: role, activity, relationship, status, preference, belief, skill, milestone, or note"),
		),
		mcpgo.WithString("source",
			mcpgo.Description("Provenance tag (default: conversation)"),
		),
	)
}

func buildAddRelationTool() mcpgo.Tool {
	return mcpgo.NewTool("kg_add_relation",
		mcpgo.WithDescription("Record a typed directed relation between two entities."),
		mcpgo.WithString("entity_id",
			mcpgo.Required(),
			mcpgo.Description("Source entity ID in type/slug form"),
		),
		mcpgo.WithString("target_id",
			mcpgo.Required(),
			mcpgo.Description("Target entity ID in type/slug form"),
		),
		mcpgo.WithString("relation_type",
			mcpgo.Required(),
			mcpgo.Description("Relation type: member_of, works_with, leads, part_of, relates_to, uses, created_by, taught_in, illustrates, or opposes"),
		),
		mcpgo.WithString("text",
			mcpgo.Description("Custom fact text (synthesized from the two names if omitted)"),
		),
	)
}

func buildConnectionsTool() mcpgo.Tool {
	return mcpgo.NewTool("kg_connections",
		mcpgo.WithDescription("List an entity's relation edges. Inbound edges require a scan of every entity."),
		mcpgo.WithString("entity_id",
			mcpgo.Required(),
			mcpgo.Description("Entity ID in type/slug form"),
		),
		mcpgo.WithBoolean("reverse",
			mcpgo.Description("Also collect inbound edges (default: false)"),
		),
	)
}

func buildStatsTool() mcpgo.Tool {
	return mcpgo.NewTool("kg_stats",
		mcpgo.WithDescription("Knowledge graph statistics: entity counts by type and domain, fact totals, archived count."),
	)
}

// --- tool handlers ---

func (s *Server) handleQuery(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.service == nil {
		return mcpgo.NewToolResultError("knowledge graph is unavailable"), nil
	}

	id, ok := s.parseID(req, "entity_id")
	if !ok {
		return mcpgo.NewToolResultErrorf("invalid entity_id %q", req.GetString("entity_id", "")), nil
	}

	result, err := s.service.Query(id, req.GetBool("include_archived", false))
	if err != nil {
		return mcpgo.NewToolResultErrorf("query failed: %s", err.Error()), nil
	}
	return toolResultJSON(result)
}

func (s *Server) handleSearch(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.service == nil {
		return mcpgo.NewToolResultError("knowledge graph is unavailable"), nil
	}

	query := req.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return mcpgo.NewToolResultError("query is required and must not be empty"), nil
	}

	result, err := s.service.Search(query, req.GetBool("include_archived", false))
	if err != nil {
		return mcpgo.NewToolResultErrorf("search failed: %s", err.Error()), nil
	}
	return toolResultJSON(result)
}

func (s *Server) handleAddFact(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.service == nil {
		return mcpgo.NewToolResultError("knowledge graph is unavailable"), nil
	}

	id, ok := s.parseID(req, "entity_id")
	if !ok {
		return mcpgo.NewToolResultErrorf("invalid entity_id %q", req.GetString("entity_id", "")), nil
	}

	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcpgo.NewToolResultError("text is required and must not be empty"), nil
	}

	category := models.FactCategory(req.GetString("category", ""))
	if !category.IsValid() {
		return mcpgo.NewToolResultErrorf("invalid category %q: must be one of role, activity, relationship, status, preference, belief, skill, milestone, note", category), nil
	}

	fact, err := s.service.AddFact(id, text, category, req.GetString("source", "mcp"))
	if err != nil {
		return mcpgo.NewToolResultErrorf("add fact failed: %s", err.Error()), nil
	}

	s.logger.Info("mcp: added fact", "entity", id.String(), "fact", fact.ID)
	return toolResultJSON(fact)
}

func (s *Server) handleAddRelation(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.service == nil {
		return mcpgo.NewToolResultError("knowledge graph is unavailable"), nil
	}

	src, ok := s.parseID(req, "entity_id")
	if !ok {
		return mcpgo.NewToolResultErrorf("invalid entity_id %q", req.GetString("entity_id", "")), nil
	}
	tgt, ok := s.parseID(req, "target_id")
	if !ok {
		return mcpgo.NewToolResultErrorf("invalid target_id %q", req.GetString("target_id", "")), nil
	}

	rt := models.RelationType(req.GetString("relation_type", ""))
	if !rt.IsValid() {
		return mcpgo.NewToolResultErrorf("invalid relation_type %q", rt), nil
	}

	fact, err := s.service.AddRelation(src, tgt, rt, req.GetString("text", ""), "mcp")
	if err != nil {
		return mcpgo.NewToolResultErrorf("add relation failed: %s", err.Error()), nil
	}

	s.logger.Info("mcp: added relation", "source", src.String(), "type", rt, "target", tgt.String())
	return toolResultJSON(fact)
}

func (s *Server) handleConnections(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.service == nil {
		return mcpgo.NewToolResultError("knowledge graph is unavailable"), nil
	}

	id, ok := s.parseID(req, "entity_id")
	if !ok {
		return mcpgo.NewToolResultErrorf("invalid entity_id %q", req.GetString("entity_id", "")), nil
	}

	result, err := s.service.Connections(id, req.GetBool("reverse", false))
	if err != nil {
		return mcpgo.NewToolResultErrorf("connections failed: %s", err.Error()), nil
	}
	return toolResultJSON(result)
}

func (s *Server) handleStats(_ context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.service == nil {
		return mcpgo.NewToolResultError("knowledge graph is unavailable"), nil
	}

	stats, err := s.service.Stats()
	if err != nil {
		return mcpgo.NewToolResultErrorf("stats failed: %s", err.Error()), nil
	}
	return toolResultJSON(stats)
}

func (s *Server) parseID(req mcpgo.CallToolRequest, key string) (ident.EntityID, bool) {
	id, err := ident.Parse(req.GetString(key, ""))
	if err != nil {
		return ident.EntityID{}, false
	}
	return id, true
}
