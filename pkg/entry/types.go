// Package entry defines the documentation entries extracted from a component.
package entry

import (
	"encoding/json"
	"strings"
)

// Kind identifies the documentation kind of an entry.
type Kind string

const (
	KindProp     Kind = "prop"
	KindData     Kind = "data"
	KindComputed Kind = "computed"
	KindMethod   Kind = "method"
	KindEvent    Kind = "event"
	KindSlot     Kind = "slot"
	KindModel    Kind = "model"
)

// AllKinds returns every documentation kind in driver order.
func AllKinds() []Kind {
	return []Kind{KindModel, KindProp, KindData, KindComputed, KindMethod, KindEvent, KindSlot}
}

// Visibility is the audience an entry is documented for.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
)

// ParseVisibility returns the visibility named by s and whether it is valid.
func ParseVisibility(s string) (Visibility, bool) {
	switch v := Visibility(s); v {
	case VisibilityPublic, VisibilityProtected, VisibilityPrivate:
		return v, true
	}
	return "", false
}

// UnknownType is the type marker used when a type cannot be inferred.
const UnknownType = "unknow"

// Type is a single type name or an ordered union of type names.
// It marshals as a plain string when it holds exactly one name.
type Type []string

// NewType builds a Type from the given names.
func NewType(names ...string) Type {
	return Type(names)
}

// String renders the type as it appears in call signatures.
func (t Type) String() string {
	return strings.Join(t, " | ")
}

// IsZero reports whether no type name is set.
func (t Type) IsZero() bool {
	return len(t) == 0
}

func (t Type) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	if t == nil {
		return []byte("null"), nil
	}
	return json.Marshal([]string(t))
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = Type{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = Type(list)
	return nil
}

// Keyword is a documentation tag kept on an entry.
type Keyword struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Param describes one method parameter.
type Param struct {
	Name         string `json:"name"`
	Type         Type   `json:"type"`
	DefaultValue string `json:"defaultValue,omitempty"`
	Description  string `json:"description"`
	Rest         bool   `json:"rest"`
	// Declaration is the source of a destructured parameter.
	Declaration string `json:"declaration,omitempty"`
}

// Returns describes what a method returns.
type Returns struct {
	Type        Type   `json:"type"`
	Description string `json:"description"`
}

// Argument describes one argument passed along with an emitted event.
type Argument struct {
	Name        string `json:"name"`
	Type        Type   `json:"type"`
	Description string `json:"description"`
	Rest        bool   `json:"rest"`
	Declaration string `json:"declaration,omitempty"`
}

// SlotProp describes a binding exposed by a scoped slot.
type SlotProp struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}
