package models

// Shortcut is a single entry of the shortcut directory.
//
// A shortcut with Command set is an alias: the command string is resolved
// in its place and URL / SearchTemplate are ignored.
type Shortcut struct {
	Name           string   `json:"name,omitempty" yaml:"name,omitempty"`
	URL            string   `json:"url,omitempty" yaml:"url,omitempty"`
	SearchTemplate string   `json:"searchTemplate,omitempty" yaml:"search_template,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Command        string   `json:"command,omitempty" yaml:"command,omitempty"`
}

// IsAlias returns true if the shortcut redirects to another query.
func (s Shortcut) IsAlias() bool {
	return s.Command != ""
}

// Displayable returns true if the shortcut can be rendered in the grid.
func (s Shortcut) Displayable() bool {
	return s.Name != "" && s.URL != ""
}

// HasSearch returns true if the shortcut accepts trailing search text.
func (s Shortcut) HasSearch() bool {
	return s.SearchTemplate != ""
}

// Clone returns a copy that shares no slices with s.
func (s Shortcut) Clone() Shortcut {
	if s.Suggestions != nil {
		s.Suggestions = append([]string(nil), s.Suggestions...)
	}
	return s
}

// ShortcutEntry pairs a shortcut with its key, for ordered listings.
type ShortcutEntry struct {
	Key string `json:"key" yaml:"key"`
	Shortcut `yaml:",inline"`
}
