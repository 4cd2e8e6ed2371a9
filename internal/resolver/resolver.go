// Package resolver classifies typed queries into navigation targets.
//
// Cases are evaluated in a fixed order and the first match wins:
//
//  1. empty input
//  2. something that looks like a URL
//  3. an exact shortcut key (aliases are followed)
//  4. key + search delimiter + search text, for keys with a search template
//  5. key + path delimiter + path
//  6. everything else goes to the default search template
package resolver

import (
	"regexp"
	"strings"

	"startpage/internal/models"
)

// Placeholder is the token replaced with the encoded search text in templates.
const Placeholder = "{}"

var (
	urlPattern      = regexp.MustCompile(`(?i)^((https?://)?[\w-]+(\.[\w-]+)+\.?(:\d+)?(/\S*)?)$`)
	schemePattern   = regexp.MustCompile(`^[a-zA-Z]+://`)
	// Dotless hosts such as localhost count only with an explicit scheme.
	explicitPattern = regexp.MustCompile(`(?i)^https?://[\w-]+(:\d+)?(/\S*)?$`)
)

// Directory is the read side of the shortcut directory.
type Directory interface {
	Get(key string) (models.Shortcut, bool)
}

// Config holds the delimiters and default search template.
type Config struct {
	PathDelimiter         string
	SearchDelimiter       string
	DefaultSearchTemplate string
}

// DefaultConfig returns the stock delimiters and Google as default search.
func DefaultConfig() Config {
	return Config{
		PathDelimiter:         "/",
		SearchDelimiter:       " ",
		DefaultSearchTemplate: "https://www.google.com/search?q={}",
	}
}

// Resolve classifies raw and returns the navigation target.
// The only error is an alias chain that loops back on itself.
func Resolve(raw string, dir Directory, cfg Config) (models.Resolved, error) {
	return resolve(raw, dir, cfg, nil)
}

func resolve(raw string, dir Directory, cfg Config, seen []string) (models.Resolved, error) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return models.Resolved{Kind: models.KindNone}, nil
	}

	if IsURL(query) {
		url := query
		if !HasScheme(query) {
			url = "https://" + query
		}
		return models.Resolved{Kind: models.KindURL, Query: query, URL: url}, nil
	}

	if sc, ok := dir.Get(query); ok {
		if sc.IsAlias() {
			for _, k := range seen {
				if k == query {
					return models.Resolved{}, &AliasCycleError{Chain: append(append([]string(nil), seen...), query)}
				}
			}
			return resolve(sc.Command, dir, cfg, append(seen, query))
		}
		if sc.URL != "" {
			return models.Resolved{Kind: models.KindShortcut, Key: query, Query: query, URL: sc.URL}, nil
		}
	}

	if key, rest, ok := cut(query, cfg.SearchDelimiter); ok {
		search := strings.TrimSpace(rest)
		if sc, found := dir.Get(key); found && !sc.IsAlias() && sc.HasSearch() && sc.URL != "" && search != "" {
			return models.Resolved{
				Kind:    models.KindSearch,
				Key:     key,
				Query:   query,
				Search:  search,
				SplitBy: cfg.SearchDelimiter,
				URL:     FormatSearchURL(sc.URL, sc.SearchTemplate, search),
			}, nil
		}
	}

	if key, path, ok := cut(query, cfg.PathDelimiter); ok && path != "" {
		if sc, found := dir.Get(key); found && !sc.IsAlias() && sc.URL != "" {
			origin, _ := SplitURL(sc.URL)
			return models.Resolved{
				Kind:    models.KindPath,
				Key:     key,
				Query:   query,
				Path:    path,
				SplitBy: cfg.PathDelimiter,
				URL:     origin + "/" + path,
			}, nil
		}
	}

	origin, rest := SplitURL(cfg.DefaultSearchTemplate)
	return models.Resolved{
		Kind:   models.KindDefault,
		Query:  query,
		Search: query,
		URL:    FormatSearchURL(origin, rest, query),
	}, nil
}

// cut splits s around the first delimiter. An empty delimiter never splits.
func cut(s, delim string) (before, after string, found bool) {
	if delim == "" {
		return s, "", false
	}
	return strings.Cut(s, delim)
}

// IsURL reports whether s has the shape of something to navigate to directly.
func IsURL(s string) bool {
	return urlPattern.MatchString(s) || explicitPattern.MatchString(s)
}

// HasScheme reports whether s starts with a scheme such as https://.
func HasScheme(s string) bool {
	return schemePattern.MatchString(s)
}
