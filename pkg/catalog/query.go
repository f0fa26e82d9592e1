package catalog

import "strings"

// ComponentSearchResult holds a component match with the reason it matched.
type ComponentSearchResult struct {
	Component   *Component
	MatchReason string
}

// QueryService provides read-only query methods over a loaded catalog.
type QueryService struct {
	Catalog *Catalog
	Index   *CatalogIndex
}

// NewQueryService creates a QueryService from a validated catalog and its index.
func NewQueryService(cat *Catalog, idx *CatalogIndex) *QueryService {
	return &QueryService{Catalog: cat, Index: idx}
}

// LoadAndQuery loads a catalog from file and returns a ready-to-use QueryService.
func LoadAndQuery(path string) (*QueryService, error) {
	cat, idx, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// ListCategories returns all categories in the catalog.
func (q *QueryService) ListCategories() []Category {
	return q.Catalog.Categories
}

// ListComponents returns components filtered by category and/or keyword.
// Both filters are optional (pass "" to skip) and combine with AND logic.
// The keyword matches case-insensitively against name and description.
func (q *QueryService) ListComponents(category, keyword string) []Component {
	var candidates []*Component

	if category != "" {
		candidates = q.Index.ComponentsByCategory[category]
	} else {
		candidates = make([]*Component, 0, len(q.Catalog.Components))
		for i := range q.Catalog.Components {
			candidates = append(candidates, &q.Catalog.Components[i])
		}
	}

	keyword = strings.ToLower(keyword)
	result := make([]Component, 0)
	for _, comp := range candidates {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(comp.Name), keyword) &&
			!strings.Contains(strings.ToLower(comp.Description), keyword) {
			continue
		}
		result = append(result, *comp)
	}
	return result
}

// GetComponent looks up a component by name, case-insensitively, then by
// path relative to the catalog root.
func (q *QueryService) GetComponent(name string) (*Component, bool) {
	if comp, ok := q.Index.ComponentByName[strings.ToLower(name)]; ok {
		return comp, true
	}
	if comp, ok := q.Index.ComponentByPath[name]; ok {
		return comp, true
	}
	return nil, false
}

// WithDiagnostics returns the components documented with errors or warnings.
func (q *QueryService) WithDiagnostics() []*Component {
	var result []*Component
	for i := range q.Catalog.Components {
		comp := &q.Catalog.Components[i]
		if len(comp.Errors) > 0 || len(comp.Warnings) > 0 {
			result = append(result, comp)
		}
	}
	return result
}

// SearchComponents performs a case-insensitive search across component
// names, descriptions, prop names and event names.
func (q *QueryService) SearchComponents(query string) []ComponentSearchResult {
	query = strings.ToLower(query)
	if query == "" {
		return nil
	}

	var results []ComponentSearchResult
	for i := range q.Catalog.Components {
		comp := &q.Catalog.Components[i]
		if reason := matchReason(comp, query); reason != "" {
			results = append(results, ComponentSearchResult{Component: comp, MatchReason: reason})
		}
	}
	return results
}

func matchReason(comp *Component, query string) string {
	if strings.Contains(strings.ToLower(comp.Name), query) {
		return "name"
	}
	if strings.Contains(strings.ToLower(comp.Description), query) {
		return "description"
	}
	for _, prop := range comp.Props {
		if strings.Contains(strings.ToLower(prop.Name), query) {
			return "prop:" + prop.Name
		}
	}
	for _, event := range comp.Events {
		if strings.Contains(strings.ToLower(event.Name), query) {
			return "event:" + event.Name
		}
	}
	return ""
}
