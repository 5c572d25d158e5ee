package menu

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DecodeTemplate reads a menu tree in the same JSON form the renderer
// receives: an array of entries with optional "submenu" arrays.
func DecodeTemplate(r io.Reader) ([]*Entry, error) {
	var entries []*Entry
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode menu template: %w", err)
	}
	return entries, nil
}

// LoadTemplateFile decodes the template at path and loads it into m.
func LoadTemplateFile(m *Manager, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open menu template: %w", err)
	}
	defer f.Close()

	entries, err := DecodeTemplate(f)
	if err != nil {
		return err
	}
	for _, e := range entries {
		normalizeTemplate(e)
	}
	if err := m.Load(entries); err != nil {
		return fmt.Errorf("load menu template %s: %w", path, err)
	}
	return nil
}

// normalizeTemplate rewrites accelerators written in key-binding form.
func normalizeTemplate(e *Entry) {
	if e.Shortcut != "" {
		key, _ := NormalizeShortcut(e.Shortcut)
		e.Shortcut = key
	}
	for _, c := range e.Children {
		normalizeTemplate(c)
	}
}
