package menu

// SeparatorLabel is the title that turns a new item into a separator.
const SeparatorLabel = "---"

// Kind is the derived type of a menu entry.
type Kind string

const (
	KindNormal    Kind = "normal"
	KindSeparator Kind = "separator"
	KindCheckbox  Kind = "checkbox"
)

// Entry is a single node of the application menu tree: a top-level menu,
// a submenu, an item or a separator.
type Entry struct {
	// ID is unique across the whole tree.
	ID string `json:"id"`

	// Label is the display title.
	Label string `json:"label"`

	// Kind is derived from the label and the checked state.
	Kind Kind `json:"type,omitempty"`

	// Shortcut is the canonical accelerator, empty when unset.
	Shortcut string `json:"accelerator,omitempty"`

	Enabled *bool `json:"enabled,omitempty"`
	Checked *bool `json:"checked,omitempty"`

	// Children is nil until the entry becomes a submenu.
	Children []*Entry `json:"submenu,omitempty"`
}

// HasSubmenu reports whether the entry has been turned into a submenu,
// even an empty one.
func (e *Entry) HasSubmenu() bool {
	return e.Children != nil
}

// IsEnabled reports the effective enabled state; unset means enabled.
func (e *Entry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// IsChecked reports the effective checked state; unset means unchecked.
func (e *Entry) IsChecked() bool {
	return e.Checked != nil && *e.Checked
}

// clone returns a deep copy of the entry and its submenu.
func (e *Entry) clone() *Entry {
	cp := *e
	if e.Enabled != nil {
		v := *e.Enabled
		cp.Enabled = &v
	}
	if e.Checked != nil {
		v := *e.Checked
		cp.Checked = &v
	}
	if e.Children != nil {
		cp.Children = cloneEntries(e.Children)
	}
	return &cp
}

func cloneEntries(list []*Entry) []*Entry {
	out := make([]*Entry, len(list))
	for i, e := range list {
		out[i] = e.clone()
	}
	return out
}

func boolPtr(v bool) *bool {
	return &v
}
