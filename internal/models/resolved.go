package models

// Kind identifies which resolution case produced a Resolved query.
type Kind string

// Resolution kinds, in evaluation order.
const (
	KindNone     Kind = "none"
	KindURL      Kind = "url"
	KindShortcut Kind = "shortcut"
	KindSearch   Kind = "search"
	KindPath     Kind = "path"
	KindDefault  Kind = "default"
)

// Resolved is the outcome of classifying a typed query.
// Fields other than Kind and Query are only set by the cases that produce them.
type Resolved struct {
	Kind    Kind   `json:"kind"`
	Query   string `json:"query"`
	URL     string `json:"url,omitempty"`
	Key     string `json:"key,omitempty"`
	Search  string `json:"search,omitempty"`
	Path    string `json:"path,omitempty"`
	SplitBy string `json:"splitBy,omitempty"`
}

// Empty returns true if there was no query to resolve.
func (r Resolved) Empty() bool {
	return r.Query == ""
}
