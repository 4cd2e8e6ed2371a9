package models

import "testing"

func TestPreferences_Apply(t *testing.T) {
	theme := "light"
	visited := true

	base := Preferences{Theme: DefaultTheme, TabBehavior: TabCurrent, SearchEngine: DefaultSearchEngine}
	got := base.Apply(PreferencesPatch{Theme: &theme, HasVisitedBefore: &visited})

	if got.Theme != "light" {
		t.Errorf("Theme = %q, want %q", got.Theme, "light")
	}
	if !got.HasVisitedBefore {
		t.Error("HasVisitedBefore should be true")
	}
	if got.TabBehavior != TabCurrent {
		t.Errorf("TabBehavior = %q, want untouched %q", got.TabBehavior, TabCurrent)
	}
	if got.SearchEngine != DefaultSearchEngine {
		t.Errorf("SearchEngine = %q, want untouched %q", got.SearchEngine, DefaultSearchEngine)
	}
	if base.Theme != DefaultTheme {
		t.Error("Apply() must not modify the receiver")
	}
}

func TestPreferences_OpenInNewTab(t *testing.T) {
	tests := []struct {
		behavior string
		expected bool
	}{
		{TabNew, true},
		{TabCurrent, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.behavior, func(t *testing.T) {
			p := Preferences{TabBehavior: tt.behavior}
			if got := p.OpenInNewTab(); got != tt.expected {
				t.Errorf("OpenInNewTab() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPreferences_IsFirstVisit(t *testing.T) {
	if !(Preferences{}).IsFirstVisit() {
		t.Error("zero Preferences should be a first visit")
	}
	if (Preferences{HasVisitedBefore: true}).IsFirstVisit() {
		t.Error("visited Preferences should not be a first visit")
	}
}
