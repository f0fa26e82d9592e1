package entry

// Entry is one unit of extracted documentation.
//
// The set of implementations is closed: every entry embeds Common and is one of
// PropEntry, DataEntry, ComputedEntry, MethodEntry, EventEntry, SlotEntry or
// ModelEntry.
type Entry interface {
	EntryKind() Kind
	EntryName() string
	Base() *Common
}

// Common holds the fields shared by every entry kind.
type Common struct {
	Kind        Kind       `json:"kind"`
	Name        string     `json:"name"`
	Visibility  Visibility `json:"visibility"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description"`
	Keywords    []Keyword  `json:"keywords"`
}

func (c *Common) EntryKind() Kind   { return c.Kind }
func (c *Common) EntryName() string { return c.Name }
func (c *Common) Base() *Common     { return c }

func newCommon(kind Kind, name string) Common {
	return Common{
		Kind:       kind,
		Name:       name,
		Visibility: VisibilityPublic,
		Keywords:   []Keyword{},
	}
}

// PropEntry documents a component input property.
type PropEntry struct {
	Common
	Type          Type  `json:"type"`
	Default       Value `json:"default,omitempty"`
	Required      bool  `json:"required"`
	DescribeModel bool  `json:"describeModel"`
}

// NewProp returns a prop entry of type any.
func NewProp(name string) *PropEntry {
	return &PropEntry{Common: newCommon(KindProp, name), Type: NewType("any")}
}

// DataEntry documents a reactive state field.
type DataEntry struct {
	Common
	Type         string `json:"type"`
	InitialValue Value  `json:"initialValue"`
}

// NewData returns a data entry with the given initial value.
func NewData(name string, initial Value) *DataEntry {
	if initial == nil {
		initial = Undefined{}
	}
	return &DataEntry{Common: newCommon(KindData, name), Type: TypeOf(initial), InitialValue: initial}
}

// ComputedEntry documents a derived value.
type ComputedEntry struct {
	Common
	Dependencies []string `json:"dependencies"`
}

// NewComputed returns a computed entry with the given dependencies.
func NewComputed(name string, deps []string) *ComputedEntry {
	if deps == nil {
		deps = []string{}
	}
	return &ComputedEntry{Common: newCommon(KindComputed, name), Dependencies: deps}
}

// MethodEntry documents a component method.
type MethodEntry struct {
	Common
	Params  []Param  `json:"params"`
	Returns Returns  `json:"returns"`
	Syntax  []string `json:"syntax"`
}

// NewMethod returns a method entry that returns void.
func NewMethod(name string, params []Param) *MethodEntry {
	if params == nil {
		params = []Param{}
	}
	return &MethodEntry{
		Common:  newCommon(KindMethod, name),
		Params:  params,
		Returns: Returns{Type: NewType("void")},
		Syntax:  []string{},
	}
}

// EventEntry documents an event emitted by the component.
type EventEntry struct {
	Common
	Arguments []Argument `json:"arguments"`
}

// NewEvent returns an event entry.
func NewEvent(name string, args []Argument) *EventEntry {
	if args == nil {
		args = []Argument{}
	}
	return &EventEntry{Common: newCommon(KindEvent, name), Arguments: args}
}

// SlotEntry documents a content slot.
type SlotEntry struct {
	Common
	Props []SlotProp `json:"props"`
}

// NewSlot returns a slot entry. An empty name means the default slot.
func NewSlot(name string) *SlotEntry {
	if name == "" {
		name = "default"
	}
	return &SlotEntry{Common: newCommon(KindSlot, name), Props: []SlotProp{}}
}

// ModelEntry documents the prop/event pair used for two-way binding.
type ModelEntry struct {
	Common
	Prop  string `json:"prop"`
	Event string `json:"event"`
}

// NewModel returns a model entry named after its prop.
func NewModel(prop, event string) *ModelEntry {
	if prop == "" {
		prop = "value"
	}
	if event == "" {
		event = "input"
	}
	return &ModelEntry{Common: newCommon(KindModel, prop), Prop: prop, Event: event}
}
