package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/sfcdoc/pkg/catalog"
	"github.com/gnana997/sfcdoc/pkg/indexer"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

// defaultSourceName names inline sources sent without a path.
const defaultSourceName = "Component.vue"

type componentSummary struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Props       int    `json:"props"`
	Events      int    `json:"events"`
	Slots       int    `json:"slots"`
	Diagnostics int    `json:"diagnostics,omitempty"`
}

type searchHit struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	MatchReason string `json:"match_reason"`
}

type scanFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type scanResult struct {
	Root             string        `json:"root"`
	FilesDiscovered  int           `json:"files_discovered"`
	FilesIndexed     int           `json:"files_indexed"`
	FilesFailed      int           `json:"files_failed"`
	EntriesExtracted int           `json:"entries_extracted"`
	Diagnostics      int           `json:"diagnostics"`
	DurationMs       int64         `json:"duration_ms"`
	Cancelled        bool          `json:"cancelled,omitempty"`
	Failures         []scanFailure `json:"failures"`
}

func (s *Server) handleParseComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	content := req.GetString("content", "")
	if path == "" && content == "" {
		return mcp.NewToolResultError("path or content is required"), nil
	}

	src := vuedoc.Source{Path: path, Content: []byte(content)}
	fromFile := content == ""
	if fromFile {
		src.Path = s.resolve(path)
		s.files.Invalidate(src.Path)
		data, err := s.files.Read(src.Path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", path, err)), nil
		}
		src.Content = data
	} else if src.Path == "" {
		src.Path = defaultSourceName
	}

	comp, err := s.parser.Parse(ctx, src)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if fromFile {
		s.index.Add(src.Path, comp, indexer.ComputeContentHash(src.Content))
	}
	return jsonResult(comp)
}

func (s *Server) handleScanComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := s.scan
	if include := req.GetStringSlice("include", nil); len(include) > 0 {
		opts.Include = include
	}
	if exclude := req.GetStringSlice("exclude", nil); exclude != nil {
		opts.Exclude = exclude
	}

	root := s.resolve(req.GetString("path", ""))
	stats, err := s.scanner.ScanWorkspace(ctx, root, opts, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := scanResult{
		Root:             root,
		FilesDiscovered:  stats.FilesDiscovered,
		FilesIndexed:     stats.FilesIndexed,
		FilesFailed:      stats.FilesFailed,
		EntriesExtracted: stats.EntriesExtracted,
		Diagnostics:      stats.Diagnostics,
		DurationMs:       stats.TotalTimeMs,
		Cancelled:        stats.Cancelled,
		Failures:         make([]scanFailure, 0, len(stats.Errors)),
	}
	for _, fe := range stats.Errors {
		result.Failures = append(result.Failures, scanFailure{Path: s.relative(fe.FilePath), Error: fe.Error.Error()})
	}
	return jsonResult(result)
}

func (s *Server) handleListComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	qs := s.snapshot()
	comps := qs.ListComponents(req.GetString("category", ""), req.GetString("keyword", ""))

	out := make([]componentSummary, 0, len(comps))
	for _, comp := range comps {
		out = append(out, componentSummary{
			Name:        comp.Name,
			Path:        comp.Path,
			Description: comp.Description,
			Category:    comp.Category,
			Props:       len(comp.Props),
			Events:      len(comp.Events),
			Slots:       len(comp.Slots),
			Diagnostics: len(comp.Errors) + len(comp.Warnings),
		})
	}
	return jsonResult(out)
}

func (s *Server) handleGetComponent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	docs, found := s.index.Get(name)
	if !found {
		docs, found = s.index.GetFile(s.resolve(name))
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("component %q not found; run scan_components first", name)), nil
	}

	if req.GetBool("summary", false) {
		summary := catalog.FromComponent(docs.Component)
		summary.Path = s.relative(summary.Path)
		return jsonResult(summary)
	}
	return jsonResult(docs.Component)
}

func (s *Server) handleSearchComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := s.snapshot().SearchComponents(query)
	out := make([]searchHit, 0, len(results))
	for _, r := range results {
		out = append(out, searchHit{Name: r.Component.Name, Path: r.Component.Path, MatchReason: r.MatchReason})
	}
	return jsonResult(out)
}

// snapshot flattens the current index into a queryable catalog.
func (s *Server) snapshot() *catalog.QueryService {
	all := s.index.All()
	comps := make([]*vuedoc.Component, 0, len(all))
	for _, docs := range all {
		comp := *docs.Component
		comp.Path = docs.FilePath
		comps = append(comps, &comp)
	}
	cat := catalog.New("workspace", s.root, comps)
	return catalog.NewQueryService(cat, cat.BuildIndex())
}

func (s *Server) relative(path string) string {
	if rel, err := filepath.Rel(s.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
