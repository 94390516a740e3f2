package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"rootforge/internal/forest"
	"rootforge/internal/stats"
	"rootforge/internal/templates"
)

const defaultSearchLimit = 50

type GetStatInput struct {
	ID string `json:"id" jsonschema:"stat entry id"`
}

type GetTemplateInput struct {
	MapKey string `json:"map_key" jsonschema:"template map key"`
}

type SearchTemplatesInput struct {
	Query string `json:"query" jsonschema:"text to look for in names, keys, display text, icons and stats references"`
	Fuzzy bool   `json:"fuzzy,omitempty" jsonschema:"match the query characters in order instead of as a substring"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

type ListRootsInput struct{}

type FieldOutput struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type StatOutput struct {
	EntryID string                 `json:"entry_id"`
	Kind    string                 `json:"kind"`
	Using   string                 `json:"using,omitempty"`
	Fields  map[string]FieldOutput `json:"fields"`
}

type TemplateOutput struct {
	MapKey           string `json:"map_key"`
	ParentTemplateID string `json:"parent_template_id,omitempty"`
	PakOrigin        string `json:"pak_origin"`
	Type             string `json:"type"`
	Name             string `json:"name"`
	DisplayName      string `json:"display_name,omitempty"`
	Description      string `json:"description,omitempty"`
	Icon             string `json:"icon,omitempty"`
	StatsRef         string `json:"stats_ref,omitempty"`
	VisualTemplate   string `json:"visual_template,omitempty"`
	CharacterVisual  string `json:"character_visual_resource_id,omitempty"`
}

type SearchResultOutput struct {
	TemplateOutput
	Depth int `json:"depth"`
}

type SearchTemplatesOutput struct {
	Results   []SearchResultOutput `json:"results"`
	Truncated bool                 `json:"truncated,omitempty"`
}

type TemplateListOutput struct {
	Templates []TemplateOutput `json:"templates"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_stat",
		Description: "Retrieve a resolved stat entry with its typed fields",
	}, s.handleGetStat)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_template",
		Description: "Retrieve a root template after inheritance of icon, stats and visuals",
	}, s.handleGetTemplate)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_templates",
		Description: "Search the template tree; matches are returned with their ancestors",
	}, s.handleSearchTemplates)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_roots",
		Description: "List the top-level templates",
	}, s.handleListRoots)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_children",
		Description: "List the direct children of a template",
	}, s.handleGetChildren)
}

func (s *Server) handleGetStat(ctx context.Context, req *sdk.CallToolRequest, input GetStatInput) (*sdk.CallToolResult, StatOutput, error) {
	if input.ID == "" {
		return nil, StatOutput{}, fmt.Errorf("id is required")
	}
	stat, ok := s.data.Stat(input.ID)
	if !ok || stat == nil {
		return nil, StatOutput{}, fmt.Errorf("stat %q not found", input.ID)
	}
	return nil, statOutput(stat), nil
}

func (s *Server) handleGetTemplate(ctx context.Context, req *sdk.CallToolRequest, input GetTemplateInput) (*sdk.CallToolResult, TemplateOutput, error) {
	if input.MapKey == "" {
		return nil, TemplateOutput{}, fmt.Errorf("map_key is required")
	}
	rec, ok := s.data.Template(input.MapKey)
	if !ok {
		return nil, TemplateOutput{}, fmt.Errorf("template %q not found", input.MapKey)
	}
	return nil, templateOutput(rec), nil
}

func (s *Server) handleSearchTemplates(ctx context.Context, req *sdk.CallToolRequest, input SearchTemplatesInput) (*sdk.CallToolResult, SearchTemplatesOutput, error) {
	if input.Query == "" {
		return nil, SearchTemplatesOutput{}, fmt.Errorf("query is required")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	matcher := forest.ContainsFold(input.Query)
	if input.Fuzzy {
		matcher = forest.Fuzzy(input.Query)
	}
	hits := s.data.Search(matcher)

	out := SearchTemplatesOutput{Results: make([]SearchResultOutput, 0, min(len(hits), limit))}
	for _, hit := range hits {
		if len(out.Results) == limit {
			out.Truncated = true
			break
		}
		out.Results = append(out.Results, SearchResultOutput{TemplateOutput: templateOutput(hit.Record), Depth: hit.Depth})
	}
	return nil, out, nil
}

func (s *Server) handleListRoots(ctx context.Context, req *sdk.CallToolRequest, input ListRootsInput) (*sdk.CallToolResult, TemplateListOutput, error) {
	return nil, templateList(s.data.Roots()), nil
}

func (s *Server) handleGetChildren(ctx context.Context, req *sdk.CallToolRequest, input GetTemplateInput) (*sdk.CallToolResult, TemplateListOutput, error) {
	if input.MapKey == "" {
		return nil, TemplateListOutput{}, fmt.Errorf("map_key is required")
	}
	children, ok := s.data.Children(input.MapKey)
	if !ok {
		return nil, TemplateListOutput{}, fmt.Errorf("template %q not found", input.MapKey)
	}
	return nil, templateList(children), nil
}

func statOutput(stat *stats.Structure) StatOutput {
	fields := make(map[string]FieldOutput, len(stat.Fields))
	for key, value := range stat.Fields {
		fields[key] = FieldOutput{Type: value.Type().String(), Value: value.Interface()}
	}
	return StatOutput{
		EntryID: stat.EntryID,
		Kind:    stat.Kind.String(),
		Using:   stat.Using,
		Fields:  fields,
	}
}

func templateOutput(rec templates.Record) TemplateOutput {
	return TemplateOutput{
		MapKey:           rec.MapKey,
		ParentTemplateID: rec.ParentTemplateID,
		PakOrigin:        rec.PakOrigin,
		Type:             string(rec.Type),
		Name:             rec.Name,
		DisplayName:      rec.DisplayName,
		Description:      rec.Description,
		Icon:             rec.Icon,
		StatsRef:         rec.StatsRef,
		VisualTemplate:   rec.VisualTemplate,
		CharacterVisual:  rec.CharacterVisualResourceID,
	}
}

func templateList(records []templates.Record) TemplateListOutput {
	out := TemplateListOutput{Templates: make([]TemplateOutput, 0, len(records))}
	for _, rec := range records {
		out.Templates = append(out.Templates, templateOutput(rec))
	}
	return out
}
