package vuedoc

import (
	"fmt"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/extractor"
)

// Component is the documentation of one component file.
//
// Components returned by Parser may be shared through the result cache and
// must be treated as read-only.
type Component struct {
	Path         string          `json:"path,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category,omitempty"`
	Keywords     []entry.Keyword `json:"keywords"`
	InheritAttrs bool            `json:"inheritAttrs"`

	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`

	Props    []*entry.PropEntry     `json:"props"`
	Data     []*entry.DataEntry     `json:"data"`
	Computed []*entry.ComputedEntry `json:"computed"`
	Methods  []*entry.MethodEntry   `json:"methods"`
	Events   []*entry.EventEntry    `json:"events"`
	Slots    []*entry.SlotEntry     `json:"slots"`
	Model    *entry.ModelEntry      `json:"model,omitempty"`
}

func newComponent(path string) *Component {
	return &Component{
		Path:         path,
		Keywords:     []entry.Keyword{},
		InheritAttrs: true,
		Errors:       []string{},
		Warnings:     []string{},
		Props:        []*entry.PropEntry{},
		Data:         []*entry.DataEntry{},
		Computed:     []*entry.ComputedEntry{},
		Methods:      []*entry.MethodEntry{},
		Events:       []*entry.EventEntry{},
		Slots:        []*entry.SlotEntry{},
	}
}

// collect groups the channel messages by kind, keeping emission order.
func (c *Component) collect(messages []extractor.Message) {
	for _, m := range messages {
		if d := m.Diagnostic; d != nil {
			c.diagnose(*d)
			continue
		}
		switch e := m.Entry.(type) {
		case *entry.PropEntry:
			c.Props = append(c.Props, e)
		case *entry.DataEntry:
			c.Data = append(c.Data, e)
		case *entry.ComputedEntry:
			c.Computed = append(c.Computed, e)
		case *entry.MethodEntry:
			c.Methods = append(c.Methods, e)
		case *entry.EventEntry:
			c.Events = append(c.Events, e)
		case *entry.SlotEntry:
			c.Slots = append(c.Slots, e)
		case *entry.ModelEntry:
			c.Model = e
		}
	}
}

func (c *Component) diagnose(d extractor.Diagnostic) {
	switch d.Level {
	case extractor.LevelError:
		c.Errors = append(c.Errors, d.Message)
	default:
		c.Warnings = append(c.Warnings, d.Message)
	}
}

func (c *Component) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Entries returns every entry in kind order: model, props, data, computed,
// methods, events and slots.
func (c *Component) Entries() []entry.Entry {
	var out []entry.Entry
	if c.Model != nil {
		out = append(out, c.Model)
	}
	for _, e := range c.Props {
		out = append(out, e)
	}
	for _, e := range c.Data {
		out = append(out, e)
	}
	for _, e := range c.Computed {
		out = append(out, e)
	}
	for _, e := range c.Methods {
		out = append(out, e)
	}
	for _, e := range c.Events {
		out = append(out, e)
	}
	for _, e := range c.Slots {
		out = append(out, e)
	}
	return out
}
