package models

import "testing"

func TestShortcut_IsAlias(t *testing.T) {
	tests := []struct {
		name     string
		shortcut Shortcut
		expected bool
	}{
		{"plain link", Shortcut{Name: "GitHub", URL: "https://github.com/"}, false},
		{"alias", Shortcut{Command: "gh"}, true},
		{"alias with stale url", Shortcut{URL: "https://example.com", Command: "y cats"}, true},
		{"empty", Shortcut{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shortcut.IsAlias(); got != tt.expected {
				t.Errorf("IsAlias() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestShortcut_Displayable(t *testing.T) {
	tests := []struct {
		name     string
		shortcut Shortcut
		expected bool
	}{
		{"name and url", Shortcut{Name: "Netflix", URL: "https://www.netflix.com/browse"}, true},
		{"url only", Shortcut{URL: "https://www.netflix.com/browse"}, false},
		{"name only", Shortcut{Name: "Netflix"}, false},
		{"alias only", Shortcut{Command: "n"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shortcut.Displayable(); got != tt.expected {
				t.Errorf("Displayable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestShortcut_Clone(t *testing.T) {
	orig := Shortcut{Name: "Reddit", URL: "https://reddit.com", Suggestions: []string{"r/r/webdev"}}
	clone := orig.Clone()
	clone.Suggestions[0] = "changed"

	if orig.Suggestions[0] != "r/r/webdev" {
		t.Errorf("Clone() shares suggestions slice, original now %q", orig.Suggestions[0])
	}
}

func TestResolved_Empty(t *testing.T) {
	if !(Resolved{Kind: KindNone}).Empty() {
		t.Error("Resolved with empty query should be Empty()")
	}
	if (Resolved{Kind: KindDefault, Query: "cats"}).Empty() {
		t.Error("Resolved with a query should not be Empty()")
	}
}
