package directory

import "startpage/internal/models"

// DefaultShortcuts returns the built-in shortcut set, in display order.
func DefaultShortcuts() []models.ShortcutEntry {
	return []models.ShortcutEntry{
		{Key: "g", Shortcut: models.Shortcut{Name: "Gmail", URL: "https://mail.google.com/mail/u/0/#inbox"}},
		{Key: "y", Shortcut: models.Shortcut{
			Name:           "YouTube",
			URL:            "https://youtube.com/",
			SearchTemplate: "/results?search_query={}",
			Suggestions:    []string{"y/feed/subscriptions"},
		}},
		{Key: "m", Shortcut: models.Shortcut{Name: "Metabase", URL: "https://metabase.hyperiondev.com/dashboard/157-my-dashboard"}},
		{Key: "d", Shortcut: models.Shortcut{Name: "Dropbox", URL: "https://www.dropbox.com/work"}},
		{Key: "a", Shortcut: models.Shortcut{Name: "Chat", URL: "https://chat.openai.com/chat", SearchTemplate: "/?q={}"}},
		{Key: "n", Shortcut: models.Shortcut{Name: "Netflix", URL: "https://www.netflix.com/browse"}},
		{Key: "c", Shortcut: models.Shortcut{
			Name:        "Cogrammer",
			URL:         "https://hyperiondev.cogrammar.com/",
			Suggestions: []string{"c/reviewer/completed/", "c/reviewer/returned_reviews/"},
		}},
		{Key: "l", Shortcut: models.Shortcut{Name: "Localhost", URL: "http://localhost:3000"}},
		{Key: "gh", Shortcut: models.Shortcut{Name: "GitHub", URL: "https://github.com/"}},
		{Key: "k", Shortcut: models.Shortcut{Name: "Knowledge", URL: "https://sites.google.com/hyperiondev.com/hyperiondev-kb/home?authuser=0"}},
		{Key: "r", Shortcut: models.Shortcut{
			Name:        "Reddit",
			URL:         "https://reddit.com",
			Suggestions: []string{"r/r/webdev", "r/r/learnprogramming", "r/r/gamedev", "r/r/LifeProTips/"},
		}},
		{Key: "s", Shortcut: models.Shortcut{Name: "Spotify", URL: "https://open.spotify.com", SearchTemplate: "/search/{}"}},
	}
}
