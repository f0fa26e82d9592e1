// Package extractor walks the syntax tree of a component script (and the
// markup of its template) and emits documentation entries.
//
// Each documentation kind has its own extractor. All extractors share one
// Context per component: the source buffer, the comment index, the module
// scope and the emission Channel the driver reads from.
package extractor

import (
	"fmt"
	"slices"

	"github.com/gnana997/sfcdoc/pkg/entry"
)

// Options configures an extraction run.
type Options struct {
	// Features lists the enabled documentation kinds. Nil enables all kinds.
	Features []entry.Kind `json:"features" yaml:"features" validate:"omitempty,dive,oneof=prop data computed method event slot model"`

	// DefaultVisibility applies to entries without a visibility tag.
	DefaultVisibility entry.Visibility `json:"defaultVisibility" yaml:"default_visibility" validate:"omitempty,oneof=public protected private"`
}

// DefaultOptions enables every kind with public visibility.
func DefaultOptions() Options {
	return Options{
		Features:          entry.AllKinds(),
		DefaultVisibility: entry.VisibilityPublic,
	}
}

// Enabled reports whether kind is part of the feature set.
func (o Options) Enabled(kind entry.Kind) bool {
	if o.Features == nil {
		return true
	}
	return slices.Contains(o.Features, kind)
}

func (o Options) visibility() entry.Visibility {
	if o.DefaultVisibility == "" {
		return entry.VisibilityPublic
	}
	return o.DefaultVisibility
}

// Level is the severity of a diagnostic.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Diagnostic is a recoverable problem found during extraction.
type Diagnostic struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Line    uint   `json:"line,omitempty"`
}

// Message is one item on the emission channel: exactly one of Entry and
// Diagnostic is set.
type Message struct {
	Entry      entry.Entry
	Diagnostic *Diagnostic
}

// UnsupportedSyntaxError reports a node kind the extractors have no rule
// for, found at a position where a known shape is mandatory.
type UnsupportedSyntaxError struct {
	// Kind is the tree-sitter node kind that was not recognized.
	Kind string
	// Context names the construct being walked, e.g. "methods".
	Context string
	// Line is 1-based.
	Line uint
}

func (e *UnsupportedSyntaxError) Error() string {
	return fmt.Sprintf("unsupported syntax: unexpected %s in %s at line %d", e.Kind, e.Context, e.Line)
}
