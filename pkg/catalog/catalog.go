// Package catalog is the persisted, flattened documentation of a workspace.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

// FormatVersion is written to every saved catalog.
const FormatVersion = "1"

// Catalog holds the documentation of every component found in a workspace.
type Catalog struct {
	Name       string      `json:"name"`
	Version    string      `json:"version"`
	Root       string      `json:"root,omitempty"`
	Components []Component `json:"components"`
	Categories []Category  `json:"categories,omitempty"`
}

// CatalogIndex provides O(1) lookups into the catalog.
type CatalogIndex struct {
	// ComponentByName maps lower-cased component name -> *Component.
	ComponentByName map[string]*Component

	// ComponentByPath maps file path -> *Component.
	ComponentByPath map[string]*Component

	// ComponentsByCategory maps category name -> []*Component.
	ComponentsByCategory map[string][]*Component
}

// New builds a catalog from parsed components. Components are sorted by
// name, then path, and categories are derived from @category tags.
func New(name, root string, components []*vuedoc.Component) *Catalog {
	cat := &Catalog{
		Name:       name,
		Version:    FormatVersion,
		Root:       root,
		Components: make([]Component, 0, len(components)),
	}
	for _, c := range components {
		comp := FromComponent(c)
		if root != "" {
			if rel, err := filepath.Rel(root, comp.Path); err == nil {
				comp.Path = filepath.ToSlash(rel)
			}
		}
		cat.Components = append(cat.Components, comp)
	}
	sort.Slice(cat.Components, func(i, j int) bool {
		a, b := cat.Components[i], cat.Components[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Path < b.Path
	})

	byCategory := make(map[string][]string)
	for _, comp := range cat.Components {
		if comp.Category != "" {
			byCategory[comp.Category] = append(byCategory[comp.Category], comp.Name)
		}
	}
	for name, members := range byCategory {
		cat.Categories = append(cat.Categories, Category{Name: name, Components: members})
	}
	sort.Slice(cat.Categories, func(i, j int) bool {
		return cat.Categories[i].Name < cat.Categories[j].Name
	})
	return cat
}

// FromComponent flattens a parsed component. Values are rendered as text
// and methods are reduced to their call signatures.
func FromComponent(c *vuedoc.Component) Component {
	comp := Component{
		Name:        c.Name,
		Path:        c.Path,
		Description: c.Description,
		Category:    c.Category,
		Props:       make([]Prop, 0, len(c.Props)),
		Events:      make([]Event, 0, len(c.Events)),
		Slots:       make([]Slot, 0, len(c.Slots)),
		Methods:     make([]Method, 0, len(c.Methods)),
		Errors:      c.Errors,
		Warnings:    c.Warnings,
	}
	for _, kw := range c.Keywords {
		comp.Keywords = append(comp.Keywords, kw.Name)
	}
	if c.Model != nil {
		comp.Model = &Model{Prop: c.Model.Prop, Event: c.Model.Event}
	}

	for _, p := range c.Props {
		prop := Prop{
			Name:        p.Name,
			Type:        p.Type.String(),
			Required:    p.Required,
			Description: p.Description,
			Visibility:  string(p.Visibility),
		}
		if p.Default != nil {
			if _, undefined := p.Default.(entry.Undefined); !undefined {
				prop.Default = entry.Text(p.Default)
			}
		}
		comp.Props = append(comp.Props, prop)
	}
	for _, e := range c.Events {
		event := Event{Name: e.Name, Description: e.Description}
		for _, arg := range e.Arguments {
			event.Arguments = append(event.Arguments, signature(arg.Name, arg.Type, arg.Rest))
		}
		comp.Events = append(comp.Events, event)
	}
	for _, s := range c.Slots {
		slot := Slot{Name: s.Name, Description: s.Description}
		for _, p := range s.Props {
			slot.Props = append(slot.Props, p.Name+": "+p.Type)
		}
		comp.Slots = append(comp.Slots, slot)
	}
	for _, m := range c.Methods {
		if m.Visibility == entry.VisibilityPrivate {
			continue
		}
		comp.Methods = append(comp.Methods, Method{Name: m.Name, Description: m.Description, Syntax: m.Syntax})
	}
	return comp
}

func signature(name string, typ entry.Type, rest bool) string {
	if rest {
		name = "..." + name
	}
	if typ.IsZero() {
		return name
	}
	return name + ": " + typ.String()
}

// Validate checks the catalog for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (c *Catalog) Validate() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, fmt.Errorf("catalog name is required"))
	}
	if c.Version == "" {
		errs = append(errs, fmt.Errorf("catalog version is required"))
	}

	componentNames := make(map[string]bool, len(c.Components))
	paths := make(map[string]bool, len(c.Components))

	for i, comp := range c.Components {
		if comp.Name == "" {
			errs = append(errs, fmt.Errorf("components[%d]: name is required", i))
			continue
		}
		if comp.Path == "" {
			errs = append(errs, fmt.Errorf("component %q: path is required", comp.Name))
		} else if paths[comp.Path] {
			errs = append(errs, fmt.Errorf("component %q: duplicate path %q", comp.Name, comp.Path))
		}
		paths[comp.Path] = true
		componentNames[comp.Name] = true

		for j, prop := range comp.Props {
			if prop.Name == "" {
				errs = append(errs, fmt.Errorf("component %q props[%d]: name is required", comp.Name, j))
			}
		}
		for j, event := range comp.Events {
			if event.Name == "" {
				errs = append(errs, fmt.Errorf("component %q events[%d]: name is required", comp.Name, j))
			}
		}
	}

	for _, cat := range c.Categories {
		for _, name := range cat.Components {
			if !componentNames[name] {
				errs = append(errs, fmt.Errorf("category %q: references non-existent component %q", cat.Name, name))
			}
		}
	}

	return errs
}

// BuildIndex creates lookup maps for fast access.
// Should be called after Validate() passes.
func (c *Catalog) BuildIndex() *CatalogIndex {
	idx := &CatalogIndex{
		ComponentByName:      make(map[string]*Component, len(c.Components)),
		ComponentByPath:      make(map[string]*Component, len(c.Components)),
		ComponentsByCategory: make(map[string][]*Component),
	}
	for i := range c.Components {
		comp := &c.Components[i]
		key := strings.ToLower(comp.Name)
		// first component of a name wins, matching sorted order
		if _, exists := idx.ComponentByName[key]; !exists {
			idx.ComponentByName[key] = comp
		}
		idx.ComponentByPath[comp.Path] = comp
		if comp.Category != "" {
			idx.ComponentsByCategory[comp.Category] = append(idx.ComponentsByCategory[comp.Category], comp)
		}
	}
	return idx
}

// Save writes the catalog as indented JSON, creating parent directories.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

// LoadFromFile loads a catalog from a JSON file, validates it, and builds the index.
func LoadFromFile(path string) (*Catalog, *CatalogIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a catalog from raw JSON bytes, validates it, and builds the index.
func LoadFromBytes(data []byte) (*Catalog, *CatalogIndex, error) {
	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}

	if errs := catalog.Validate(); len(errs) > 0 {
		return nil, nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}

	return &catalog, catalog.BuildIndex(), nil
}
