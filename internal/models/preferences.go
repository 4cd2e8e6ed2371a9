package models

// Tab behavior values.
const (
	TabNew     = "new"
	TabCurrent = "current"
)

// Default preference values.
const (
	DefaultTheme        = "dark"
	DefaultSearchEngine = "google"
)

// Preferences holds the small per-installation settings flags.
type Preferences struct {
	Theme            string `json:"theme"`
	TabBehavior      string `json:"tabBehavior"`
	SearchEngine     string `json:"searchEngine"`
	HasVisitedBefore bool   `json:"hasVisitedBefore"`
	HasSeenHelpOnly  bool   `json:"hasSeenHelpOnly"`
}

// OpenInNewTab returns true if links should open in a new tab.
func (p Preferences) OpenInNewTab() bool {
	return p.TabBehavior == TabNew
}

// IsFirstVisit returns true until the help content has been shown once.
func (p Preferences) IsFirstVisit() bool {
	return !p.HasVisitedBefore
}

// PreferencesPatch is a partial update; nil fields are left untouched.
type PreferencesPatch struct {
	Theme            *string `json:"theme,omitempty"`
	TabBehavior      *string `json:"tabBehavior,omitempty"`
	SearchEngine     *string `json:"searchEngine,omitempty"`
	HasVisitedBefore *bool   `json:"hasVisitedBefore,omitempty"`
	HasSeenHelpOnly  *bool   `json:"hasSeenHelpOnly,omitempty"`
}

// Apply returns p with the non-nil fields of patch applied.
func (p Preferences) Apply(patch PreferencesPatch) Preferences {
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.TabBehavior != nil {
		p.TabBehavior = *patch.TabBehavior
	}
	if patch.SearchEngine != nil {
		p.SearchEngine = *patch.SearchEngine
	}
	if patch.HasVisitedBefore != nil {
		p.HasVisitedBefore = *patch.HasVisitedBefore
	}
	if patch.HasSeenHelpOnly != nil {
		p.HasSeenHelpOnly = *patch.HasSeenHelpOnly
	}
	return p
}
