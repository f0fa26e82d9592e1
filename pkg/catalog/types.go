package catalog

// Component is the flattened documentation of one component file.
type Component struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Model       *Model   `json:"model,omitempty"`
	Props       []Prop   `json:"props"`
	Events      []Event  `json:"events"`
	Slots       []Slot   `json:"slots"`
	Methods     []Method `json:"methods"`
	Errors      []string `json:"errors,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Prop is a component property.
type Prop struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
}

// Event is an emitted event.
type Event struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Arguments   []string `json:"arguments,omitempty"`
}

// Slot is a content slot.
type Slot struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Props       []string `json:"props,omitempty"`
}

// Method is a public method, listed by its call signatures.
type Method struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Syntax      []string `json:"syntax"`
}

// Model is the prop/event pair used for two-way binding.
type Model struct {
	Prop  string `json:"prop"`
	Event string `json:"event"`
}

// Category groups components sharing a category keyword.
type Category struct {
	Name       string   `json:"name"`
	Components []string `json:"components"`
}
